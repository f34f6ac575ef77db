package modules

import (
	"net/http"

	handlers "github.com/minerdev/codenames-api/internal/interface/http"
	"github.com/minerdev/codenames-api/internal/router"
)

// UserModule exposes GET /user.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(reg *router.Registry) error {
	return reg.Register(router.Route{
		Method:  http.MethodGet,
		Path:    "/user",
		Summary: "Retrieve the user",
		Responses: map[int]router.ResponseSpec{
			http.StatusOK: {Description: "Retrieve the user", Schema: handlers.UserSchema},
		},
		Handler: m.Handler.GetUser,
	})
}
