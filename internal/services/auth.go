package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	pkgerrors "github.com/yungbote/lifewheel-backend/internal/pkg/errors"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/ctxutil"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// SetContextFromToken validates an access token and attaches the caller to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *types.User
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthConfig struct {
	JWTSecretKey string
	AccessTTL    time.Duration
	BcryptCost   int
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	metrics  *observability.Metrics
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, metrics *observability.Metrics, cfg AuthConfig) AuthService {
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	return &authService{
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "Auth.Register"
	dbc := dbctx.Context{Ctx: ctx}
	email := types.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	exists, err := as.userRepo.EmailExists(dbc, email)
	if err != nil {
		as.metrics.IncAuthEvent("register", "error")
		return nil, aggregates.MapError(op, err)
	}
	if exists {
		as.metrics.IncAuthEvent("register", "conflict")
		return nil, domainagg.NewError(domainagg.CodeConflict, op, "email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), as.cfg.BcryptCost)
	if err != nil {
		as.log.Error("Password hashing failed", "error", err)
		as.metrics.IncAuthEvent("register", "error")
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "hash password", err)
	}

	user, err := as.userRepo.Create(dbc, &types.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		// A concurrent registration can still win the unique index after EmailExists.
		mapped := aggregates.MapError(op, err)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			as.metrics.IncAuthEvent("register", "conflict")
			return nil, domainagg.NewError(domainagg.CodeConflict, op, "email already registered", err)
		}
		as.metrics.IncAuthEvent("register", "error")
		return nil, mapped
	}

	res, err := as.issue(user)
	if err != nil {
		as.metrics.IncAuthEvent("register", "error")
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	as.metrics.IncAuthEvent("register", "success")
	return res, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, types.NormalizeEmail(email))
	if err != nil {
		as.metrics.IncAuthEvent("login", "error")
		return nil, aggregates.MapError("Auth.Login", err)
	}
	if user == nil {
		as.metrics.IncAuthEvent("login", "failure")
		return nil, apierr.Unauthorized(pkgerrors.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		as.metrics.IncAuthEvent("login", "failure")
		return nil, apierr.Unauthorized(pkgerrors.ErrInvalidCredentials)
	}
	res, err := as.issue(user)
	if err != nil {
		as.metrics.IncAuthEvent("login", "error")
		return nil, err
	}
	as.metrics.IncAuthEvent("login", "success")
	return res, nil
}

func (as *authService) issue(user *types.User) (*AuthResult, error) {
	now := as.now()
	exp := now.Add(as.cfg.AccessTTL)
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.cfg.JWTSecretKey))
	if err != nil {
		as.log.Error("Token signing failed", "error", err)
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &AuthResult{AccessToken: signed, ExpiresAt: exp, User: user}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, apierr.Unauthorized(pkgerrors.ErrUnauthorized)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		as.log.Debug("Token rejected", "error", err)
		return ctx, apierr.Unauthorized(pkgerrors.ErrInvalidToken)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized(pkgerrors.ErrInvalidToken)
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return ctx, apierr.Unauthorized(pkgerrors.ErrInvalidToken)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		TokenID:     claims.ID,
		UserID:      uint(userID),
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.cfg.AccessTTL
}
