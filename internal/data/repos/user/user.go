package user

import (
	"errors"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, id uint) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UpdateName(dbc dbctx.Context, id uint, name string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, user *types.User) (*types.User, error) {
	q := dbc.Query(ur.db)
	user.Email = types.NormalizeEmail(user.Email)
	if err := q.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns (nil, nil) when the user does not exist.
func (ur *userRepo) GetByID(dbc dbctx.Context, id uint) (*types.User, error) {
	q := dbc.Query(ur.db)
	if id == 0 {
		return nil, nil
	}
	var u types.User
	err := q.Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail normalizes email before looking it up and returns (nil, nil) on a miss.
func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	q := dbc.Query(ur.db)
	email = types.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var u types.User
	err := q.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	q := dbc.Query(ur.db)
	var count int64
	if err := q.
		Model(&types.User{}).
		Where("email = ?", types.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) UpdateName(dbc dbctx.Context, id uint, name string) error {
	q := dbc.Query(ur.db)
	return q.
		Model(&types.User{}).
		Where("id = ?", id).
		Update("name", name).Error
}
