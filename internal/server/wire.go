package server

import (
	userapp "github.com/minerdev/codenames-api/internal/application"
	"github.com/minerdev/codenames-api/internal/container"
	handlers "github.com/minerdev/codenames-api/internal/interface/http"
	"github.com/minerdev/codenames-api/internal/interface/ws"
	"github.com/minerdev/codenames-api/internal/router"
	"github.com/minerdev/codenames-api/internal/router/modules"
)

// InitModules adds every application module to the registry.
// Call once during startup, before RegisterAll.
func InitModules(reg *router.Registry, deps *container.Container, sockets *ws.Handler) {
	cfg := deps.Config

	userHandler := handlers.NewUserHandler(userapp.NewService(deps.Logger))

	reg.Add(modules.NewUserModule(userHandler))
	reg.Add(modules.NewDocsModule(cfg.DocPath, cfg.UIPath, cfg.APITitle))
	reg.Add(modules.NewSocketModule(sockets, cfg.WSPath))
}
