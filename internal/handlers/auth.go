package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
)

type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bind(c, &input) {
		return
	}
	res, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if !bind(c, &input) {
		return
	}
	res, err := h.accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout POST /auth/logout revokes the bearer token.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.accounts.Logout(c.Request.Context(), middleware.Claims(c))
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
