package redis

import (
	"fmt"
	"strings"
)

// RedisKeyGenerator génère et valide les clés Redis selon les conventions SurgiCare
// Pattern: surgicare_{env}_{domain}_{context}:{identifier}
type RedisKeyGenerator struct {
	environment string
}

func NewRedisKeyGenerator(environment string) *RedisKeyGenerator {
	return &RedisKeyGenerator{environment: environment}
}

// RedisKeyPattern définit les patterns standards des clés
type RedisKeyPattern struct {
	Domain  string // sync, auth, cache
	Context string // backup, role, otp, session
	TTL     int    // TTL en secondes, 0 = pas d'expiration
}

// Patterns prédéfinis - seuls les patterns réellement utilisés sont listés ici
var RedisKeyPatterns = map[string]RedisKeyPattern{
	// Sync - miroirs durables des collections (fallback hors-ligne)
	"sync_patients_backup": {Domain: "sync", Context: "patients_backup", TTL: 0},
	"sync_staff_backup":    {Domain: "sync", Context: "staff_backup", TTL: 0},

	// Auth - session avec rôle actif + codes OTP
	"auth_session": {Domain: "auth", Context: "session", TTL: 28800}, // 8h, durée d'un poste
	"auth_otp":     {Domain: "auth", Context: "otp", TTL: 300},       // 5 minutes
}

// GenerateKey génère une clé Redis selon la convention surgicare_{env}_{domain}_{context}:{identifier}
func (rkg *RedisKeyGenerator) GenerateKey(patternName string, identifier ...string) (string, error) {
	pattern, exists := RedisKeyPatterns[patternName]
	if !exists {
		return "", fmt.Errorf("pattern Redis non trouvé: %s", patternName)
	}

	prefix := fmt.Sprintf("surgicare_%s_%s_%s", rkg.environment, pattern.Domain, pattern.Context)

	if len(identifier) > 0 {
		return fmt.Sprintf("%s:%s", prefix, strings.Join(identifier, "_")), nil
	}

	// Clé singleton (cas des backups de collection)
	return prefix, nil
}

// GetTTL récupère le TTL d'un pattern
func (rkg *RedisKeyGenerator) GetTTL(patternName string) (int, error) {
	pattern, exists := RedisKeyPatterns[patternName]
	if !exists {
		return 0, fmt.Errorf("pattern Redis non trouvé: %s", patternName)
	}
	return pattern.TTL, nil
}
