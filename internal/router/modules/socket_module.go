package modules

import (
	"github.com/minerdev/codenames-api/internal/interface/ws"
	"github.com/minerdev/codenames-api/internal/router"
)

// SocketModule mounts the WebSocket handler on an explicit path. Upgrades on
// other paths are handled by ws.Handler.Middleware.
type SocketModule struct {
	Handler *ws.Handler
	Path    string
}

func NewSocketModule(h *ws.Handler, path string) *SocketModule {
	return &SocketModule{Handler: h, Path: path}
}

func (m *SocketModule) Register(reg *router.Registry) error {
	reg.Engine.GET(m.Path, m.Handler.Serve)
	return nil
}
