package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	redisInfra "surgicare-core/internal/infrastructure/database/redis"
	"surgicare-core/internal/modules/auth/dto"
)

// SessionService gère les sessions actives : clé de rôle dans Redis (cache
// durable) + registre mémoire servant de garde au moteur de synchronisation.
type SessionService struct {
	redis *redisInfra.Client

	mu     sync.RWMutex
	active map[string]bool // tokens des sessions ouvertes par ce processus
}

func NewSessionService(redis *redisInfra.Client) *SessionService {
	return &SessionService{
		redis:  redis,
		active: make(map[string]bool),
	}
}

// Create ouvre une session pour un membre du personnel authentifié
func (s *SessionService) Create(ctx context.Context, data *dto.SessionData) (string, error) {
	token := uuid.NewString()
	data.Token = token

	key, err := s.redis.GenerateKey("auth_session", token)
	if err != nil {
		return "", fmt.Errorf("session key generation failed: %w", err)
	}

	if err := s.redis.HSet(ctx, key, data.ToMap()); err != nil {
		return "", fmt.Errorf("session storage failed: %w", err)
	}

	if ttl, err := s.redis.PatternTTL("auth_session"); err == nil && ttl > 0 {
		if err := s.redis.Expire(ctx, key, ttl); err != nil {
			return "", fmt.Errorf("session expiry failed: %w", err)
		}
	}

	s.mu.Lock()
	s.active[token] = true
	s.mu.Unlock()

	return token, nil
}

// Get récupère et valide une session par token
func (s *SessionService) Get(ctx context.Context, token string) (*dto.SessionData, error) {
	key, err := s.redis.GenerateKey("auth_session", token)
	if err != nil {
		return nil, dto.NewAuthError(dto.ErrCodeInvalidToken, "Token invalide")
	}

	values, err := s.redis.HGetAll(ctx, key)
	if err != nil || len(values) == 0 {
		return nil, dto.NewAuthError(dto.ErrCodeInvalidToken, "Session invalide ou expirée")
	}

	return dto.SessionFromMap(values), nil
}

// Delete ferme une session (logout, toujours idempotent)
func (s *SessionService) Delete(ctx context.Context, token string) {
	if key, err := s.redis.GenerateKey("auth_session", token); err == nil {
		_ = s.redis.Del(ctx, key)
	}

	s.mu.Lock()
	delete(s.active, token)
	s.mu.Unlock()
}

// HasActiveSession implémente la garde du moteur de synchronisation :
// sans session ouverte, la collection patients n'est ni chargée ni poussée
func (s *SessionService) HasActiveSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active) > 0
}

// OTP côté session : code à 6 chiffres, TTL court, consommé à la vérification

// StoreOTP enregistre un code OTP pour un mobile donné
func (s *SessionService) StoreOTP(ctx context.Context, mobile, code string) error {
	return s.redis.SetWithPattern(ctx, "auth_otp", code, mobile)
}

// ConsumeOTP vérifie et invalide un code OTP
func (s *SessionService) ConsumeOTP(ctx context.Context, mobile, code string) bool {
	stored, err := s.redis.GetWithPattern(ctx, "auth_otp", mobile)
	if err == goredis.Nil {
		return false
	}
	if err != nil || stored != code {
		return false
	}

	// Un code ne sert qu'une fois
	_ = s.redis.DelWithPattern(ctx, "auth_otp", mobile)
	return true
}
