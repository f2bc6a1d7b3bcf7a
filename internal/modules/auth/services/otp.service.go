package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"
)

// OTPConfig - canal de livraison du second facteur (passerelle SMS)
type OTPConfig struct {
	GatewayURL string
	GatewayKey string
}

// OTPService génère les codes à usage unique et les livre sur le mobile du
// membre du personnel. Sans passerelle configurée, bascule en mode mock :
// le code est journalisé au lieu d'être envoyé (environnements de dev).
type OTPService struct {
	config     OTPConfig
	sessions   *SessionService
	httpClient *http.Client
}

func NewOTPService(config OTPConfig, sessions *SessionService) *OTPService {
	return &OTPService{
		config:   config,
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Request génère un code à 6 chiffres, le stocke avec TTL court et le livre.
// Retourne sent=false si la livraison a échoué (le code reste utilisable).
func (s *OTPService) Request(ctx context.Context, mobile string) (bool, error) {
	code, err := generateOTPCode()
	if err != nil {
		return false, fmt.Errorf("OTP generation failed: %w", err)
	}

	if err := s.sessions.StoreOTP(ctx, mobile, code); err != nil {
		return false, fmt.Errorf("OTP storage failed: %w", err)
	}

	return s.deliver(ctx, mobile, code), nil
}

// Verify consomme un code OTP
func (s *OTPService) Verify(ctx context.Context, mobile, code string) bool {
	return s.sessions.ConsumeOTP(ctx, mobile, code)
}

func (s *OTPService) deliver(ctx context.Context, mobile, code string) bool {
	if s.config.GatewayURL == "" {
		// Fallback mock : pas de passerelle en développement
		fmt.Printf("[OTP] ⚠️ Passerelle SMS non configurée - code pour %s: %s\n", mobile, code)
		return true
	}

	body, err := json.Marshal(map[string]string{
		"to":      mobile,
		"message": fmt.Sprintf("Votre code de connexion SurgiCare: %s", code),
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.GatewayKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.GatewayKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		fmt.Printf("[OTP] ❌ Livraison SMS échouée pour %s: %v\n", mobile, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 300
}

// generateOTPCode produit un code numérique à 6 chiffres
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
