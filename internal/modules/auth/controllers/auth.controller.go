package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"surgicare-core/internal/modules/auth/dto"
	"surgicare-core/internal/modules/auth/services"
)

// AuthController - login en deux étapes, logout
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login - POST /api/v1/auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Identifiants manquants",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	response, err := c.auth.Login(ctx.Request.Context(), &req)
	if err != nil {
		respondAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// VerifyOTP - POST /api/v1/auth/verify-otp
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Code manquant",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	token, session, err := c.auth.VerifyOTP(ctx.Request.Context(), &req)
	if err != nil {
		respondAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
			"user": gin.H{
				"id":   session.UserID,
				"name": session.Name,
				"role": session.Role,
			},
		},
	})
}

// Logout - POST /api/v1/auth/logout
func (c *AuthController) Logout(ctx *gin.Context) {
	c.auth.Logout(ctx.Request.Context(), BearerToken(ctx))
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// BearerToken extrait le token de session de l'en-tête Authorization
func BearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func respondAuthError(ctx *gin.Context, err error) {
	if authErr, ok := err.(*dto.AuthError); ok {
		status := http.StatusUnauthorized
		if authErr.Code == dto.ErrCodeOTPDeliveryFailed {
			status = http.StatusBadGateway
		}
		ctx.JSON(status, gin.H{
			"error": authErr.Message,
			"details": map[string]interface{}{
				"code": authErr.Code,
			},
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error": "Une erreur interne est survenue",
	})
}
