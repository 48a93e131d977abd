package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomflow/internal/middleware"
	"pomflow/internal/service"
	"pomflow/internal/syncapi"
)

// AuthHandler serves account sign-up, sign-in and the token owner lookup.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req syncapi.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	auth, apiErr := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, auth)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req syncapi.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	auth, apiErr := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, auth)
}

// Me answers with the account behind the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	user, apiErr := h.authService.Me(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.UserEnvelope{User: *user})
}
