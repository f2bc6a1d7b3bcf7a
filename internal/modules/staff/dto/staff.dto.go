package dto

import "time"

// Rôle d'un membre du personnel (3 valeurs fixes, une par tableau de bord)
type StaffRole string

const (
	RoleFrontOffice StaffRole = "front-office"
	RoleDoctor      StaffRole = "doctor"
	RoleCounselor   StaffRole = "counselor"
)

// StaffUser - membre du personnel. Le mot de passe n'est jamais stocké en clair :
// uniquement le hash bcrypt (voir DESIGN.md, correction du stockage plaintext d'origine).
type StaffUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`  // unicité insensible à la casse
	Mobile       string    `json:"mobile"` // requis : canal du second facteur OTP
	Role         StaffRole `json:"role"`
	PasswordHash string    `json:"password_hash"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegisterStaffRequest - inscription d'un membre du personnel
type RegisterStaffRequest struct {
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email" binding:"required"`
	Mobile   string    `json:"mobile" binding:"required"`
	Role     StaffRole `json:"role" binding:"required"`
	Password string    `json:"password" binding:"required"`
}

// Constantes pour les erreurs du domaine staff
const (
	ErrCodeDuplicateEmail = "DUPLICATE_EMAIL"
	ErrCodeMissingMobile  = "MOBILE_REQUIRED"
	ErrCodeInvalidRole    = "INVALID_ROLE"
)

// StaffError représente les erreurs de validation du domaine staff
type StaffError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewStaffError(code, message string) *StaffError {
	return &StaffError{Code: code, Message: message}
}

func (e *StaffError) Error() string {
	return e.Message
}
