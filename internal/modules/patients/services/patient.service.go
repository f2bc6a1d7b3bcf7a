package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"surgicare-core/internal/modules/patients/dto"
	syncServices "surgicare-core/internal/modules/sync/services"
)

// PatientService expose l'API de mutation consommée par les tableaux de bord.
// Toutes les opérations travaillent sur la collection en mémoire ; la
// persistance passe par le push différé du moteur de synchronisation.
type PatientService struct {
	engine *syncServices.SyncEngine
}

func NewPatientService(engine *syncServices.SyncEngine) *PatientService {
	return &PatientService{engine: engine}
}

// List retourne la collection patients courante
func (s *PatientService) List() []dto.Patient {
	return s.engine.Patients()
}

// Find effectue un lookup ponctuel par code d'enregistrement (insensible à la casse)
func (s *PatientService) Find(id string) (dto.Patient, bool) {
	for _, patient := range s.engine.Patients() {
		if strings.EqualFold(patient.ID, id) {
			return patient, true
		}
	}
	return dto.Patient{}, false
}

// Create enregistre un nouveau patient à l'admission. Le code d'enregistrement
// est généré si absent ; un doublon (insensible à la casse) est rejeté avant
// toute mutation, jamais fusionné silencieusement.
func (s *PatientService) Create(req *dto.CreatePatientRequest) (dto.Patient, error) {
	if strings.TrimSpace(req.Name) == "" {
		return dto.Patient{}, dto.NewPatientError(dto.ErrCodeMissingRequiredField, "Nom du patient requis")
	}
	if strings.TrimSpace(req.Mobile) == "" {
		return dto.Patient{}, dto.NewPatientError(dto.ErrCodeMissingRequiredField, "Numéro de mobile requis")
	}

	code := strings.TrimSpace(req.RegistrationCode)
	if code == "" {
		code = generateRegistrationCode()
	}

	patient := dto.Patient{
		ID:             code,
		FacilityCode:   req.FacilityCode,
		Name:           strings.TrimSpace(req.Name),
		Age:            req.Age,
		Gender:         req.Gender,
		Mobile:         strings.TrimSpace(req.Mobile),
		Occupation:     req.Occupation,
		Insurance:      req.Insurance,
		ReferralSource: req.ReferralSource,
		Condition:      req.Condition,
		ConditionOther: req.ConditionOther,
		CreatedAt:      time.Now(),
	}

	if patient.Insurance == dto.InsuranceYes {
		patient.InsuranceName = req.InsuranceName
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return dto.Patient{}, dto.NewPatientError(dto.ErrCodeMissingRequiredField,
				fmt.Sprintf("Date de naissance invalide: %s", req.DateOfBirth))
		}
		patient.DateOfBirth = &dob
		patient.RefreshAge(time.Now())
	}

	err := s.engine.MutatePatients(func(records []dto.Patient) ([]dto.Patient, error) {
		for _, existing := range records {
			if strings.EqualFold(existing.ID, patient.ID) {
				return nil, dto.NewPatientError(dto.ErrCodeDuplicateRegistration,
					fmt.Sprintf("Code d'enregistrement déjà utilisé: %s", patient.ID))
			}
		}
		// Les admissions récentes en tête de liste
		return append([]dto.Patient{patient}, records...), nil
	})
	if err != nil {
		return dto.Patient{}, err
	}

	fmt.Printf("[PATIENTS] ✅ Patient créé - Code: %s\n", patient.ID)
	return patient, nil
}

// Update remplace intégralement un dossier patient (pas de patch par champ)
func (s *PatientService) Update(patient dto.Patient) error {
	// Un changement de date de naissance recalcule l'âge
	patient.RefreshAge(time.Now())

	return s.engine.MutatePatients(func(records []dto.Patient) ([]dto.Patient, error) {
		for i, existing := range records {
			if strings.EqualFold(existing.ID, patient.ID) {
				records[i] = patient
				return records, nil
			}
		}
		return nil, dto.NewPatientError(dto.ErrCodePatientNotFound,
			fmt.Sprintf("Patient introuvable: %s", patient.ID))
	})
}

// Delete retire un patient de la collection. No-op idempotent si absent.
func (s *PatientService) Delete(id string) error {
	return s.engine.MutatePatients(func(records []dto.Patient) ([]dto.Patient, error) {
		filtered := records[:0]
		for _, existing := range records {
			if !strings.EqualFold(existing.ID, id) {
				filtered = append(filtered, existing)
			}
		}
		return filtered, nil
	})
}

// AttachAssessment attache ou remplace l'évaluation clinique d'un patient
func (s *PatientService) AttachAssessment(id string, assessment dto.DoctorAssessment) error {
	if assessment.AssessedAt.IsZero() {
		assessment.AssessedAt = time.Now()
	}

	return s.engine.MutatePatients(func(records []dto.Patient) ([]dto.Patient, error) {
		for i, existing := range records {
			if strings.EqualFold(existing.ID, id) {
				records[i].Assessment = &assessment
				return records, nil
			}
		}
		return nil, dto.NewPatientError(dto.ErrCodePatientNotFound,
			fmt.Sprintf("Patient introuvable: %s", id))
	})
}

// AttachProposal attache ou remplace la proposition de forfait d'un patient.
// Refusée tant que l'évaluation ne recommande pas la chirurgie : les cas
// médicamenteux restent hors de la file de counseling.
func (s *PatientService) AttachProposal(id string, proposal dto.PackageProposal) error {
	if proposal.Status == "" {
		proposal.Status = dto.ProposalPending
	}
	if proposal.ProposedAt.IsZero() {
		proposal.ProposedAt = time.Now()
	}

	return s.engine.MutatePatients(func(records []dto.Patient) ([]dto.Patient, error) {
		for i, existing := range records {
			if !strings.EqualFold(existing.ID, id) {
				continue
			}
			if !existing.NeedsCounseling() {
				return nil, dto.NewPatientError(dto.ErrCodeSurgeryNotRecommended,
					"Proposition impossible sans évaluation recommandant la chirurgie")
			}
			records[i].Proposal = &proposal
			return records, nil
		}
		return nil, dto.NewPatientError(dto.ErrCodePatientNotFound,
			fmt.Sprintf("Patient introuvable: %s", id))
	})
}

// Caractères sans ambiguïté visuelle (pas de O/0, I/1)
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateRegistrationCode produit un code court aléatoire quand l'opérateur
// laisse le champ vide
func generateRegistrationCode() string {
	code := make([]byte, 6)
	max := big.NewInt(int64(len(codeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand indisponible est irrécupérable sur nos cibles
			panic(fmt.Sprintf("registration code generation failed: %v", err))
		}
		code[i] = codeCharset[n.Int64()]
	}
	return "SC-" + string(code)
}
