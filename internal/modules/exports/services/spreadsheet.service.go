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

// SpreadsheetConfig - webhook tableur externe (fire-and-forget)
type SpreadsheetConfig struct {
	WebhookURL string
}

// SpreadsheetExportService pousse les instantanés patient vers le webhook
// tableur. Fire-and-forget : les échecs sont journalisés, jamais remontés.
type SpreadsheetExportService struct {
	config     SpreadsheetConfig
	httpClient *http.Client
}

func NewSpreadsheetExportService(config SpreadsheetConfig) *SpreadsheetExportService {
	return &SpreadsheetExportService{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Export envoie l'instantané complet du patient en arrière-plan
func (s *SpreadsheetExportService) Export(patient patientDto.Patient) {
	if s.config.WebhookURL == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		body, err := json.Marshal(patient)
		if err != nil {
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(body))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			fmt.Printf("[EXPORT] ⚠️ Webhook tableur injoignable: %v\n", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			fmt.Printf("[EXPORT] ⚠️ Webhook tableur en erreur (HTTP %d)\n", resp.StatusCode)
		}
	}()
}
