package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/NithinKS007/PDF-extractor-server/internal/apperror"
	"github.com/NithinKS007/PDF-extractor-server/internal/config"
	"github.com/NithinKS007/PDF-extractor-server/internal/messages"
	"github.com/NithinKS007/PDF-extractor-server/internal/models"
	"github.com/NithinKS007/PDF-extractor-server/internal/users"
	"github.com/NithinKS007/PDF-extractor-server/pkg/respond"
)

// RefreshCookie is the name of the HttpOnly cookie holding the refresh token.
const RefreshCookie = "refreshToken"

// AccountService is satisfied by *users.Service.
type AccountService interface {
	Signup(ctx context.Context, in users.SignupInput) (*models.User, error)
	Signin(ctx context.Context, email, password string) (*users.SigninResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	accounts   AccountService
	secure     bool
	refreshTTL time.Duration
}

func NewAuthHandler(cfg *config.Config, accounts AccountService) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		secure:     cfg.Server.IsProduction(),
		refreshTTL: cfg.JWT.RefreshTokenTTL,
	}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/sign-up", h.Signup)
	a.POST("/sign-in", h.Signin)
	a.POST("/sign-out", h.Signout)
	a.POST("/refresh-access-token", h.Refresh)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, bindError(err))
		return
	}
	u, err := h.accounts.Signup(c.Request.Context(), users.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, messages.UserCreated, gin.H{"createdUser": u})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, bindError(err))
		return
	}
	res, err := h.accounts.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}
	h.setRefreshCookie(c, res.RefreshToken, int(h.refreshTTL.Seconds()))
	respond.OK(c, http.StatusOK, messages.LoggedIn, gin.H{"userData": res.User, "accessToken": res.AccessToken})
}

// Signout clears the refresh cookie. Tokens are stateless; nothing is revoked.
func (h *AuthHandler) Signout(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
	respond.OK(c, http.StatusOK, messages.LoggedOut, nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, _ := c.Cookie(RefreshCookie)
	access, err := h.accounts.RefreshAccessToken(c.Request.Context(), raw)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, messages.AccessTokenRefreshed, gin.H{"newAccessToken": access})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookie, value, maxAge, "/", "", h.secure, true)
}

// bindError maps binding failures: absent fields are MissingFields,
// anything else (bad email, malformed JSON) is InvalidInput.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return apperror.Wrap(apperror.MissingFields, err)
			}
		}
		for _, fe := range verrs {
			if fe.Tag() == "email" {
				return apperror.Wrap(apperror.InvalidInput, err).WithMessage(messages.InvalidEmail)
			}
		}
	}
	return apperror.Wrap(apperror.InvalidInput, err)
}
