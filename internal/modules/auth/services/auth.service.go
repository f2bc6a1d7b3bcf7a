package services

import (
	"context"
	"fmt"
	"strings"

	"surgicare-core/internal/modules/auth/dto"
	staffServices "surgicare-core/internal/modules/staff/services"
	syncServices "surgicare-core/internal/modules/sync/services"
)

// AuthService orchestre le login en deux étapes : identifiants contre
// l'annuaire staff (lisible avant toute session, son chargement est
// inconditionnel), puis OTP sur le mobile enregistré.
type AuthService struct {
	staff    *staffServices.StaffService
	sessions *SessionService
	otp      *OTPService
	engine   *syncServices.SyncEngine
}

func NewAuthService(
	staff *staffServices.StaffService,
	sessions *SessionService,
	otp *OTPService,
	engine *syncServices.SyncEngine,
) *AuthService {
	return &AuthService{
		staff:    staff,
		sessions: sessions,
		otp:      otp,
		engine:   engine,
	}
}

// Login valide les identifiants et déclenche l'envoi du second facteur
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, found := s.staff.FindByEmail(req.Email)
	if !found || !s.staff.CheckPassword(user, req.Password) {
		// Même erreur dans les deux cas : ne pas révéler l'existence du compte
		return nil, dto.NewAuthError(dto.ErrCodeInvalidCredentials, "Identifiants invalides")
	}

	delivered, err := s.otp.Request(ctx, user.Mobile)
	if err != nil {
		return nil, dto.NewAuthError(dto.ErrCodeOTPDeliveryFailed, "Envoi du code impossible")
	}

	return &dto.LoginResponse{
		OTPRequired:  true,
		MaskedMobile: maskMobile(user.Mobile),
		Delivered:    delivered,
	}, nil
}

// VerifyOTP termine le login : consomme le code, ouvre la session et
// déclenche le chargement de la collection patients (conditionné au rôle actif)
func (s *AuthService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (string, *dto.SessionData, error) {
	user, found := s.staff.FindByEmail(req.Email)
	if !found {
		return "", nil, dto.NewAuthError(dto.ErrCodeInvalidCredentials, "Identifiants invalides")
	}

	if !s.otp.Verify(ctx, user.Mobile, strings.TrimSpace(req.Code)) {
		return "", nil, dto.NewAuthError(dto.ErrCodeInvalidOTP, "Code invalide ou expiré")
	}

	session := &dto.SessionData{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}

	token, err := s.sessions.Create(ctx, session)
	if err != nil {
		return "", nil, fmt.Errorf("session creation failed: %w", err)
	}

	// Première session => chargement initial des patients
	go s.engine.EnsurePatientsLoaded(context.Background())

	fmt.Printf("[AUTH] ✅ Session ouverte - %s (%s)\n", user.Email, user.Role)
	return token, session, nil
}

// Logout ferme la session (idempotent)
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.sessions.Delete(ctx, token)
}

// maskMobile ne laisse visible que les 2 derniers chiffres
func maskMobile(mobile string) string {
	if len(mobile) <= 2 {
		return mobile
	}
	return strings.Repeat("*", len(mobile)-2) + mobile[len(mobile)-2:]
}
