package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"surgicare-core/internal/modules/staff/dto"
	syncServices "surgicare-core/internal/modules/sync/services"
)

// StaffService gère l'annuaire du personnel. Comme pour les patients, les
// mutations sont en mémoire et persistées par le push différé du moteur.
type StaffService struct {
	engine *syncServices.SyncEngine
}

func NewStaffService(engine *syncServices.SyncEngine) *StaffService {
	return &StaffService{engine: engine}
}

// List retourne l'annuaire courant
func (s *StaffService) List() []dto.StaffUser {
	return s.engine.Staff()
}

// FindByEmail effectue un lookup par email (insensible à la casse)
func (s *StaffService) FindByEmail(email string) (dto.StaffUser, bool) {
	for _, user := range s.engine.Staff() {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}
	return dto.StaffUser{}, false
}

// Register inscrit un membre du personnel : email unique (insensible à la
// casse), mobile requis (canal OTP), mot de passe hashé bcrypt.
func (s *StaffService) Register(req *dto.RegisterStaffRequest) (dto.StaffUser, error) {
	if strings.TrimSpace(req.Mobile) == "" {
		return dto.StaffUser{}, dto.NewStaffError(dto.ErrCodeMissingMobile,
			"Numéro de mobile requis pour le second facteur")
	}

	switch req.Role {
	case dto.RoleFrontOffice, dto.RoleDoctor, dto.RoleCounselor:
	default:
		return dto.StaffUser{}, dto.NewStaffError(dto.ErrCodeInvalidRole,
			fmt.Sprintf("Rôle inconnu: %s", req.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.StaffUser{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := dto.StaffUser{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Mobile:       strings.TrimSpace(req.Mobile),
		Role:         req.Role,
		PasswordHash: string(hash),
		RegisteredAt: time.Now(),
	}

	err = s.engine.MutateStaff(func(records []dto.StaffUser) ([]dto.StaffUser, error) {
		for _, existing := range records {
			if strings.EqualFold(existing.Email, user.Email) {
				return nil, dto.NewStaffError(dto.ErrCodeDuplicateEmail,
					fmt.Sprintf("Email déjà enregistré: %s", user.Email))
			}
		}
		return append(records, user), nil
	})
	if err != nil {
		return dto.StaffUser{}, err
	}

	fmt.Printf("[STAFF] ✅ Personnel enregistré - %s (%s)\n", user.Email, user.Role)
	return user, nil
}

// CheckPassword vérifie un mot de passe contre le hash stocké
func (s *StaffService) CheckPassword(user dto.StaffUser, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
