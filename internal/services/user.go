package services

import (
	"context"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	pkgerrors "github.com/yungbote/lifewheel-backend/internal/pkg/errors"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/ctxutil"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID, ok := ctxutil.UserID(ctx)
	if !ok {
		us.log.Warn("Request data not set in context")
		return nil, apierr.Unauthorized(pkgerrors.ErrUnauthorized)
	}
	user, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError("User.GetMe", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user not found")
	}
	return user, nil
}

// callerID is the authenticated user id or an unauthorized error.
func callerID(ctx context.Context) (uint, error) {
	id, ok := ctxutil.UserID(ctx)
	if !ok {
		return 0, apierr.Unauthorized(pkgerrors.ErrUnauthorized)
	}
	return id, nil
}
