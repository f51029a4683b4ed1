package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/application"
	"github.com/swiftbus/service-ticketing/internal/middleware"
	"github.com/swiftbus/service-ticketing/internal/response"
	"github.com/swiftbus/service-ticketing/internal/session"
)

// AuthHandler exposes registration, login and password-reset endpoints.
type AuthHandler struct {
	accounts     *application.AccountService
	sessions     session.Store
	sessionTTL   time.Duration
	cookieSecure bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	accounts *application.AccountService,
	sessions session.Store,
	sessionTTL time.Duration,
	cookieSecure bool,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// RegisterRoutes wires the auth endpoints onto the API group.
func (h *AuthHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("/check_session", h.CheckSession)
	api.POST("/logout", h.Logout)
	api.POST("/forgot-password", h.ForgotPassword)
	api.POST("/reset-password", h.ResetPassword)
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username, email and password are required")
		return
	}

	acc, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "registration successful", acc)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login. A successful login issues a fresh session
// token in an HttpOnly cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	acc, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), session.Session{
		AccountID: acc.ID,
		Username:  acc.Username,
		IsAdmin:   acc.IsAdmin,
	})
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		response.Error(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", h.cookieSecure, true)
	response.Success(c, "login successful", acc)
}

// CheckSession handles GET /api/check_session. It reports whether the caller
// holds a valid session without requiring one.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		response.Success(c, "not logged in", gin.H{"logged_in": false})
		return
	}

	response.Success(c, "logged in", gin.H{
		"logged_in":  true,
		"account_id": sess.AccountID,
		"username":   sess.Username,
		"is_admin":   sess.IsAdmin,
	})
}

// Logout handles POST /api/logout. It invalidates the server-side session and
// expires the cookie. Logging out without a session still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
			h.logger.Warn("failed to delete session", zap.Error(err))
		}
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cookieSecure, true)
	response.Success(c, "logout successful", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword handles POST /api/forgot-password. The reset link is logged
// server-side; the token never appears in the response.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email is required")
		return
	}

	if _, err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "password reset link issued", nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword handles POST /api/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "token and new password are required")
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "password reset successful", nil)
}
