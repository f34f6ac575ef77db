package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/minerdev/codenames-api/internal/domain/entity"
)

// DefaultUser is the user returned by the service until real accounts exist.
var DefaultUser = entity.User{ID: "1", Name: "MinerDev"}

type Service struct {
	Logger *logrus.Logger
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{Logger: logger}
}

// CurrentUser returns a fresh copy of the user for this request.
func (s *Service) CurrentUser(ctx context.Context) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := DefaultUser
	s.Logger.WithField("user_id", u.ID).Debug("serving current user")
	return &u, nil
}
