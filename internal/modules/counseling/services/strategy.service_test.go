package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	patientDto "surgicare-core/internal/modules/patients/dto"
)

func samplePatient() patientDto.Patient {
	return patientDto.Patient{
		ID:        "SC-AAAAAA",
		Name:      "Ravi Kumar",
		Age:       45,
		Condition: patientDto.ConditionHernia,
		Insurance: patientDto.InsuranceYes,
		Assessment: &patientDto.DoctorAssessment{
			Recommendation: patientDto.RecommendationSurgery,
			Procedure:      "Hernia Repair",
			PainLevel:      patientDto.PainModerate,
			Affordability:  patientDto.AffordabilityMedium,
			Readiness:      patientDto.ReadinessWarm,
		},
		Proposal: &patientDto.PackageProposal{
			Objection: "Coût trop élevé",
		},
	}
}

func TestGenerateFallsBackWithoutEndpoint(t *testing.T) {
	svc := NewStrategyService(StrategyConfig{})

	if got := svc.Generate(context.Background(), samplePatient()); got != FallbackStrategy {
		t.Fatalf("fallback attendu sans endpoint, obtenu %q", got)
	}
}

func TestGenerateUsesRemoteText(t *testing.T) {
	var received strategyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer cle-test" {
			t.Errorf("en-tête Authorization inattendu: %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		_ = json.NewEncoder(w).Encode(strategyResponse{Text: "Stratégie générée"})
	}))
	defer server.Close()

	svc := NewStrategyService(StrategyConfig{Endpoint: server.URL, APIKey: "cle-test"})

	if got := svc.Generate(context.Background(), samplePatient()); got != "Stratégie générée" {
		t.Fatalf("texte distant attendu, obtenu %q", got)
	}

	// Le prompt résume le profil complet
	for _, fragment := range []string{"Ravi Kumar", "45", "Hernia Repair", "moderate", "warm", "Coût trop élevé"} {
		if !strings.Contains(received.Prompt, fragment) {
			t.Errorf("le prompt doit mentionner %q, obtenu %q", fragment, received.Prompt)
		}
	}
}

func TestGenerateFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewStrategyService(StrategyConfig{Endpoint: server.URL})

	if got := svc.Generate(context.Background(), samplePatient()); got != FallbackStrategy {
		t.Fatalf("fallback attendu sur erreur serveur, obtenu %q", got)
	}
}

func TestGenerateFallsBackOnEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(strategyResponse{Text: ""})
	}))
	defer server.Close()

	svc := NewStrategyService(StrategyConfig{Endpoint: server.URL})

	if got := svc.Generate(context.Background(), samplePatient()); got != FallbackStrategy {
		t.Fatalf("fallback attendu sur texte vide, obtenu %q", got)
	}
}
