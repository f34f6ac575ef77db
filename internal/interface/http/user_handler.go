package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userapp "github.com/minerdev/codenames-api/internal/application"
	"github.com/minerdev/codenames-api/internal/domain/entity"
	"github.com/minerdev/codenames-api/internal/router"
	"github.com/minerdev/codenames-api/internal/schema"
)

// UserSchema is the declared shape of every user response.
var UserSchema = schema.Of[entity.User]("User")

type UserHandler struct {
	Svc *userapp.Service
}

func NewUserHandler(svc *userapp.Service) *UserHandler {
	return &UserHandler{Svc: svc}
}

// GetUser serves GET /user.
func (h *UserHandler) GetUser(c *gin.Context) (int, any, error) {
	u, err := h.Svc.CurrentUser(c.Request.Context())
	if err != nil {
		return 0, nil, router.NewHTTPError(http.StatusInternalServerError, "could not load user", err)
	}
	return http.StatusOK, u, nil
}
