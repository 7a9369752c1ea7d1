package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/http/response"
	"github.com/yungbote/lifewheel-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,notblank,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ah *AuthHandler) authPayload(res *services.AuthResult) gin.H {
	return gin.H{
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   int(ah.authService.GetAccessTTL().Seconds()),
		"user":         toUserJSON(res.User),
	}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, false) {
		return
	}
	res, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	payload := ah.authPayload(res)
	payload["message"] = "user created"
	response.RespondCreated(c, payload)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, false) {
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, ah.authPayload(res))
}
