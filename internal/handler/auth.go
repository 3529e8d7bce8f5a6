package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/auth"
)

type AuthHandler struct {
	Auth *auth.Service
}

func (h *AuthHandler) Register(r *gin.Engine) {
	g := r.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	user, err := h.Auth.Register(c.Request.Context(), auth.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Created(c, user)
}

type loginRequest struct {
	// Identity accepts either the email or the username.
	Identity string `json:"identity"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	user, token, expiresAt, err := h.Auth.Login(c.Request.Context(), req.Identity, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, tokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt},
		map[string]any{"user_id": user.ID})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	token, expiresAt, err := h.Auth.Refresh(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, tokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, nil)
}

// logout exists for API symmetry; tokens are stateless and the client
// simply discards its copy.
func (h *AuthHandler) logout(c *gin.Context) {
	Ok(c, gin.H{"message": "successfully logged out"}, nil)
}
