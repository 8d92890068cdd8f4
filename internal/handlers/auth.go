// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/kicks-catalog/internal/i18n"
	"github.com/javajoker/kicks-catalog/internal/middleware"
	"github.com/javajoker/kicks-catalog/internal/services"
	"github.com/javajoker/kicks-catalog/internal/utils"
)

type AuthHandler struct {
	authService       *services.AuthService
	minPasswordLength int
}

func NewAuthHandler(authService *services.AuthService, minPasswordLength int) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		minPasswordLength: minPasswordLength,
	}
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	session, err := h.authService.SignIn(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			return
		}
		utils.InternalErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"session": session,
	})
}

// POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	token, ok := middleware.BearerToken(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	if err := h.authService.SignOut(token); err != nil {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLogoutSuccess),
	})
}

// GET /v1/auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	token, _ := middleware.BearerToken(c)
	session := h.authService.GetSession(token)

	utils.SuccessResponse(c, gin.H{
		"authenticated": session != nil,
		"session":       session,
	})
}

// PUT /v1/admin/password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if len([]rune(req.Password)) < h.minPasswordLength {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAuthPasswordTooShort, h.minPasswordLength), nil)
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAuthPasswordMismatch), nil)
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooShort):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAuthPasswordTooShort, h.minPasswordLength), nil)
		case errors.Is(err, services.ErrUserNotFound):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		default:
			utils.InternalErrorResponse(c, err)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthPasswordUpdated),
	})
}
