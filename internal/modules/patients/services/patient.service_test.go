package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"surgicare-core/internal/modules/patients/dto"
	syncServices "surgicare-core/internal/modules/sync/services"
)

// Fakes minimaux : le service est testé au-dessus d'un moteur réel adossé à
// un magasin et un cache en mémoire.

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

func newTestService(t *testing.T) *PatientService {
	t.Helper()
	engine := syncServices.NewSyncEngine(syncServices.EngineConfig{
		PatientsRowKey: "patients_row",
		StaffRowKey:    "staff_row",
		Debounce:       10 * time.Millisecond,
	}, newMemStore(), newMemCache(), nil, nil)
	engine.Start(context.Background())
	return NewPatientService(engine)
}

func validRequest() *dto.CreatePatientRequest {
	return &dto.CreatePatientRequest{
		Name:      "Ravi Kumar",
		Gender:    dto.GenderMale,
		Mobile:    "9876543210",
		Insurance: dto.InsuranceNotSure,
		Condition: dto.ConditionPiles,
	}
}

func TestCreateAndFindPatient(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatalf("création refusée: %v", err)
	}
	if created.ID == "" {
		t.Fatal("un code d'enregistrement doit être généré")
	}
	if !strings.HasPrefix(created.ID, "SC-") || len(created.ID) != 9 {
		t.Fatalf("format de code inattendu: %q", created.ID)
	}

	// Lookup insensible à la casse
	found, ok := svc.Find(strings.ToLower(created.ID))
	if !ok || found.Name != "Ravi Kumar" {
		t.Fatalf("lookup insensible à la casse attendu, obtenu ok=%v %+v", ok, found)
	}
}

func TestCreateRejectsDuplicateCodeCaseInsensitive(t *testing.T) {
	svc := newTestService(t)

	first := validRequest()
	first.RegistrationCode = "SC-ABC234"
	if _, err := svc.Create(first); err != nil {
		t.Fatalf("première création refusée: %v", err)
	}

	second := validRequest()
	second.Name = "Autre Patient"
	second.RegistrationCode = "sc-abc234"
	_, err := svc.Create(second)

	patientErr, ok := err.(*dto.PatientError)
	if !ok || patientErr.Code != dto.ErrCodeDuplicateRegistration {
		t.Fatalf("rejet DUPLICATE_REGISTRATION_CODE attendu, obtenu %v", err)
	}

	// Le rejet laisse la collection strictement inchangée
	if got := len(svc.List()); got != 1 {
		t.Fatalf("la collection doit rester à 1 enregistrement, obtenu %d", got)
	}
}

func TestCreateRequiresNameAndMobile(t *testing.T) {
	svc := newTestService(t)

	noName := validRequest()
	noName.Name = "  "
	if _, err := svc.Create(noName); err == nil {
		t.Fatal("un nom vide doit être rejeté")
	}

	noMobile := validRequest()
	noMobile.Mobile = ""
	if _, err := svc.Create(noMobile); err == nil {
		t.Fatal("un mobile vide doit être rejeté")
	}
}

func TestCreateDerivesAgeFromBirthDate(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.DateOfBirth = "1990-03-10"
	req.Age = 99 // saisie manuelle écrasée par le calcul

	created, err := svc.Create(req)
	if err != nil {
		t.Fatalf("création refusée: %v", err)
	}

	want := dto.DeriveAge(time.Date(1990, time.March, 10, 0, 0, 0, 0, time.UTC), time.Now())
	if created.Age != want {
		t.Fatalf("âge dérivé attendu %d, obtenu %d", want, created.Age)
	}
}

func TestCreatePrependsNewest(t *testing.T) {
	svc := newTestService(t)

	a := validRequest()
	a.RegistrationCode = "SC-AAAAAA"
	b := validRequest()
	b.RegistrationCode = "SC-BBBBBB"

	if _, err := svc.Create(a); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(b); err != nil {
		t.Fatal(err)
	}

	list := svc.List()
	if len(list) != 2 || list[0].ID != "SC-BBBBBB" {
		t.Fatalf("les admissions récentes doivent être en tête, obtenu %+v", list)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("suppression refusée: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("la seconde suppression doit être un no-op, obtenu %v", err)
	}
	if got := len(svc.List()); got != 0 {
		t.Fatalf("collection vide attendue, obtenu %d", got)
	}
}

func TestUpdateUnknownPatientFails(t *testing.T) {
	svc := newTestService(t)

	err := svc.Update(dto.Patient{ID: "SC-ZZZZZZ", Name: "Inconnu"})
	patientErr, ok := err.(*dto.PatientError)
	if !ok || patientErr.Code != dto.ErrCodePatientNotFound {
		t.Fatalf("PATIENT_NOT_FOUND attendu, obtenu %v", err)
	}
}

func TestAttachProposalRequiresSurgeryRecommendation(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatal(err)
	}

	// Sans évaluation : refus
	err = svc.AttachProposal(created.ID, dto.PackageProposal{PackageAmount: 50000})
	patientErr, ok := err.(*dto.PatientError)
	if !ok || patientErr.Code != dto.ErrCodeSurgeryNotRecommended {
		t.Fatalf("SURGERY_NOT_RECOMMENDED attendu, obtenu %v", err)
	}

	// Évaluation médicamenteuse : refus aussi
	if err := svc.AttachAssessment(created.ID, dto.DoctorAssessment{
		Recommendation: dto.RecommendationMedication,
	}); err != nil {
		t.Fatal(err)
	}
	if err := svc.AttachProposal(created.ID, dto.PackageProposal{}); err == nil {
		t.Fatal("un cas médicamenteux ne doit pas recevoir de proposition")
	}

	// Chirurgie recommandée : accepté, statut initialisé à pending
	if err := svc.AttachAssessment(created.ID, dto.DoctorAssessment{
		Recommendation: dto.RecommendationSurgery,
	}); err != nil {
		t.Fatal(err)
	}
	if err := svc.AttachProposal(created.ID, dto.PackageProposal{PackageAmount: 50000}); err != nil {
		t.Fatalf("proposition refusée: %v", err)
	}

	patient, _ := svc.Find(created.ID)
	if patient.Proposal == nil || patient.Proposal.Status != dto.ProposalPending {
		t.Fatalf("proposition pending attendue, obtenu %+v", patient.Proposal)
	}
	if patient.Proposal.ProposedAt.IsZero() {
		t.Fatal("ProposedAt doit être horodaté")
	}
}

func TestAttachAssessmentStampsTime(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.AttachAssessment(created.ID, dto.DoctorAssessment{
		Recommendation: dto.RecommendationSurgery,
		PainLevel:      dto.PainSevere,
	}); err != nil {
		t.Fatal(err)
	}

	patient, _ := svc.Find(created.ID)
	if patient.Assessment == nil || patient.Assessment.AssessedAt.IsZero() {
		t.Fatal("AssessedAt doit être horodaté à l'attache")
	}
}
