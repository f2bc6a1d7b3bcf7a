package dto

import (
	staffDto "surgicare-core/internal/modules/staff/dto"
)

// LoginRequest - première étape : identifiants
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyOTPRequest - seconde étape : code reçu sur le mobile
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// LoginResponse - réponse de la première étape
type LoginResponse struct {
	OTPRequired  bool   `json:"otp_required"`
	MaskedMobile string `json:"masked_mobile"`
	Delivered    bool   `json:"delivered"`
}

// SessionData - session active stockée dans le cache durable (clé de rôle)
type SessionData struct {
	Token  string             `json:"token"`
	UserID string             `json:"user_id"`
	Name   string             `json:"name"`
	Role   staffDto.StaffRole `json:"role"`
}

// ToMap convertit la session pour stockage Redis HASH
func (s *SessionData) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"token":   s.Token,
		"user_id": s.UserID,
		"name":    s.Name,
		"role":    string(s.Role),
	}
}

// SessionFromMap reconstruit une session depuis Redis
func SessionFromMap(values map[string]string) *SessionData {
	return &SessionData{
		Token:  values["token"],
		UserID: values["user_id"],
		Name:   values["name"],
		Role:   staffDto.StaffRole(values["role"]),
	}
}

// Constantes pour les erreurs d'authentification
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidOTP         = "INVALID_OTP"
	ErrCodeOTPExpired         = "OTP_EXPIRED"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeOTPDeliveryFailed  = "OTP_DELIVERY_FAILED"
)

// AuthError représente les erreurs d'authentification
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

func (e *AuthError) Error() string {
	return e.Message
}
