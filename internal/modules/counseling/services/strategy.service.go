package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	patientDto "surgicare-core/internal/modules/patients/dto"
)

// FallbackStrategy est retournée quand le générateur distant échoue ou n'est
// pas configuré : le conseiller garde toujours un texte de départ.
const FallbackStrategy = "Reprendre les bénéfices cliniques de l'intervention, répondre à l'objection principale du patient, puis proposer une date tentative et un plan de paiement adapté."

// StrategyConfig - collaborateur externe de génération de texte de stratégie
type StrategyConfig struct {
	Endpoint string
	APIKey   string
}

// StrategyService interroge le générateur de stratégie (profil patient ->
// texte libre). Strictement meilleur effort : aucune erreur ne remonte.
type StrategyService struct {
	config     StrategyConfig
	httpClient *http.Client
}

func NewStrategyService(config StrategyConfig) *StrategyService {
	return &StrategyService{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type strategyRequest struct {
	Prompt string `json:"prompt"`
}

type strategyResponse struct {
	Text string `json:"text"`
}

// Generate produit un texte de stratégie de counseling pour un patient
func (s *StrategyService) Generate(ctx context.Context, patient patientDto.Patient) string {
	if s.config.Endpoint == "" {
		return FallbackStrategy
	}

	body, err := json.Marshal(strategyRequest{Prompt: buildProfilePrompt(patient)})
	if err != nil {
		return FallbackStrategy
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return FallbackStrategy
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		fmt.Printf("[STRATEGY] ⚠️ Générateur injoignable: %v (fallback)\n", err)
		return FallbackStrategy
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("[STRATEGY] ⚠️ Générateur en erreur (HTTP %d), fallback\n", resp.StatusCode)
		return FallbackStrategy
	}

	var parsed strategyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.Text == "" {
		return FallbackStrategy
	}

	return parsed.Text
}

// buildProfilePrompt résume le profil patient pour le générateur
func buildProfilePrompt(patient patientDto.Patient) string {
	prompt := fmt.Sprintf(
		"Patient: %s, %d ans, condition: %s, assurance: %s.",
		patient.Name, patient.Age, patient.Condition, patient.Insurance,
	)
	if patient.Assessment != nil {
		prompt += fmt.Sprintf(
			" Évaluation: %s, douleur %s, capacité %s, disposition %s.",
			patient.Assessment.Procedure,
			patient.Assessment.PainLevel,
			patient.Assessment.Affordability,
			patient.Assessment.Readiness,
		)
	}
	if patient.Proposal != nil && patient.Proposal.Objection != "" {
		prompt += fmt.Sprintf(" Objection: %s.", patient.Proposal.Objection)
	}
	return prompt
}
