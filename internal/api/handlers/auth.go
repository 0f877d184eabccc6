package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/api/middleware"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

type AuthHandler struct {
	Auth   AuthService
	Logger *zap.Logger
}

func NewAuthHandler(auth AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Login Successful", resp)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req model.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.Auth.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Login Successful", resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Auth.Logout(middleware.SessionFrom(c))
	respond(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	s := middleware.SessionFrom(c)
	respond(c, http.StatusOK, "OK", gin.H{"user": s.Principal, "expires_at": s.ExpiresAt})
}
