package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"surgicare-core/internal/modules/counseling/dto"
	patientDto "surgicare-core/internal/modules/patients/dto"
	syncServices "surgicare-core/internal/modules/sync/services"
)

type memStore struct {
	mu   sync.Mutex
	rows map[string]json.RawMessage
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]json.RawMessage)}
}

func (s *memStore) Lookup(ctx context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.rows[key]
	return payload, ok, nil
}

func (s *memStore) Insert(ctx context.Context, key string, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key] = payload
	return nil
}

func (s *memStore) Update(ctx context.Context, key string, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key] = payload
	return nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Read(ctx context.Context, pattern string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[pattern]
	return data, ok, nil
}

func (c *memCache) Write(ctx context.Context, pattern string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[pattern] = data
	return nil
}

func newTestSetup(t *testing.T, patients []patientDto.Patient) (*CounselingService, *syncServices.SyncEngine) {
	t.Helper()
	store := newMemStore()
	payload, err := json.Marshal(patients)
	if err != nil {
		t.Fatal(err)
	}
	store.rows["patients_row"] = payload
	store.rows["staff_row"] = json.RawMessage(`[]`)

	engine := syncServices.NewSyncEngine(syncServices.EngineConfig{
		PatientsRowKey: "patients_row",
		StaffRowKey:    "staff_row",
		Debounce:       10 * time.Millisecond,
	}, store, newMemCache(), nil, nil)
	engine.Start(context.Background())

	return NewCounselingService(engine), engine
}

func surgicalPatient(id string, status patientDto.ProposalStatus) patientDto.Patient {
	patient := patientDto.Patient{
		ID:   id,
		Name: "Patient " + id,
		Assessment: &patientDto.DoctorAssessment{
			Recommendation: patientDto.RecommendationSurgery,
		},
	}
	if status != "" {
		patient.Proposal = &patientDto.PackageProposal{
			Status:     status,
			ProposedAt: time.Now(),
		}
	}
	return patient
}

func TestQueueExcludesMedicationOnlyCases(t *testing.T) {
	svc, _ := newTestSetup(t, []patientDto.Patient{
		surgicalPatient("SC-AAAAAA", ""),
		{
			ID: "SC-BBBBBB",
			Assessment: &patientDto.DoctorAssessment{
				Recommendation: patientDto.RecommendationMedication,
			},
		},
		{ID: "SC-CCCCCC"}, // pas encore évalué
	})

	queue := svc.Queue()
	if len(queue) != 1 || queue[0].ID != "SC-AAAAAA" {
		t.Fatalf("seuls les cas chirurgicaux entrent dans la file, obtenu %+v", queue)
	}
}

func TestUpdateStatusValidTransition(t *testing.T) {
	svc, engine := newTestSetup(t, []patientDto.Patient{
		surgicalPatient("SC-AAAAAA", patientDto.ProposalPending),
	})

	err := svc.UpdateStatus("SC-AAAAAA", &dto.UpdateStatusRequest{
		Status:    patientDto.ProposalInDiscussion,
		Objection: "Coût trop élevé",
	})
	if err != nil {
		t.Fatalf("transition pending -> in_discussion refusée: %v", err)
	}

	patient := engine.Patients()[0]
	if patient.Proposal.Status != patientDto.ProposalInDiscussion {
		t.Fatalf("statut in_discussion attendu, obtenu %s", patient.Proposal.Status)
	}
	if patient.Proposal.Objection != "Coût trop élevé" {
		t.Fatalf("objection non enregistrée: %+v", patient.Proposal)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, engine := newTestSetup(t, []patientDto.Patient{
		surgicalPatient("SC-AAAAAA", patientDto.ProposalPending),
	})

	err := svc.UpdateStatus("SC-AAAAAA", &dto.UpdateStatusRequest{
		Status: patientDto.ProposalConverted,
	})

	counselingErr, ok := err.(*dto.CounselingError)
	if !ok || counselingErr.Code != dto.ErrCodeInvalidTransition {
		t.Fatalf("INVALID_STATUS_TRANSITION attendu, obtenu %v", err)
	}

	// Le rejet laisse la proposition intacte
	if got := engine.Patients()[0].Proposal.Status; got != patientDto.ProposalPending {
		t.Fatalf("statut pending attendu après rejet, obtenu %s", got)
	}
}

func TestUpdateStatusFollowUpRecordsDates(t *testing.T) {
	svc, engine := newTestSetup(t, []patientDto.Patient{
		surgicalPatient("SC-AAAAAA", patientDto.ProposalInDiscussion),
	})

	err := svc.UpdateStatus("SC-AAAAAA", &dto.UpdateStatusRequest{
		Status:           patientDto.ProposalFollowUp,
		NextFollowUpDate: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("transition vers follow_up refusée: %v", err)
	}

	proposal := engine.Patients()[0].Proposal
	if proposal.NextFollowUpDate == nil || proposal.NextFollowUpDate.Format("2006-01-02") != "2026-09-15" {
		t.Fatalf("date de relance attendue, obtenu %+v", proposal.NextFollowUpDate)
	}
	if proposal.LastFollowUpAt == nil {
		t.Fatal("LastFollowUpAt doit être horodaté")
	}
}

func TestUpdateStatusOutcomeStampsDate(t *testing.T) {
	svc, engine := newTestSetup(t, []patientDto.Patient{
		surgicalPatient("SC-AAAAAA", patientDto.ProposalInDiscussion),
	})

	err := svc.UpdateStatus("SC-AAAAAA", &dto.UpdateStatusRequest{
		Status: patientDto.ProposalConverted,
	})
	if err != nil {
		t.Fatalf("conversion refusée: %v", err)
	}

	proposal := engine.Patients()[0].Proposal
	if proposal.OutcomeDate == nil {
		t.Fatal("OutcomeDate doit être horodaté à l'issue")
	}

	// État terminal : plus aucune transition
	err = svc.UpdateStatus("SC-AAAAAA", &dto.UpdateStatusRequest{
		Status: patientDto.ProposalLost,
	})
	if err == nil {
		t.Fatal("converted est terminal, la transition doit être refusée")
	}
}

func TestUpdateStatusWithoutProposalFails(t *testing.T) {
	svc, _ := newTestSetup(t, []patientDto.Patient{
		surgicalPatient("SC-AAAAAA", ""),
	})

	err := svc.UpdateStatus("SC-AAAAAA", &dto.UpdateStatusRequest{
		Status: patientDto.ProposalInDiscussion,
	})

	counselingErr, ok := err.(*dto.CounselingError)
	if !ok || counselingErr.Code != dto.ErrCodeNoProposal {
		t.Fatalf("PROPOSAL_MISSING attendu, obtenu %v", err)
	}
}

func TestUpdateStatusInvalidFollowUpDate(t *testing.T) {
	svc, _ := newTestSetup(t, []patientDto.Patient{
		surgicalPatient("SC-AAAAAA", patientDto.ProposalInDiscussion),
	})

	err := svc.UpdateStatus("SC-AAAAAA", &dto.UpdateStatusRequest{
		Status:           patientDto.ProposalFollowUp,
		NextFollowUpDate: "15/09/2026",
	})
	if err == nil {
		t.Fatal("une date de relance hors format doit être rejetée")
	}
}
