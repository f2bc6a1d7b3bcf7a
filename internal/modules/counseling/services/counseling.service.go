package services

import (
	"fmt"
	"strings"
	"time"

	"surgicare-core/internal/modules/counseling/dto"
	patientDto "surgicare-core/internal/modules/patients/dto"
	syncServices "surgicare-core/internal/modules/sync/services"
)

// CounselingService pilote le workflow de conseil forfait chirurgical
type CounselingService struct {
	engine *syncServices.SyncEngine
}

func NewCounselingService(engine *syncServices.SyncEngine) *CounselingService {
	return &CounselingService{engine: engine}
}

// Queue retourne la file de counseling : uniquement les patients dont
// l'évaluation recommande la chirurgie (les cas médicamenteux sont exclus)
func (s *CounselingService) Queue() []patientDto.Patient {
	var queue []patientDto.Patient
	for _, patient := range s.engine.Patients() {
		if patient.NeedsCounseling() {
			queue = append(queue, patient)
		}
	}
	return queue
}

// UpdateStatus fait avancer le workflow d'une proposition en validant la
// transition demandée
func (s *CounselingService) UpdateStatus(id string, req *dto.UpdateStatusRequest) error {
	var followUp *time.Time
	if req.NextFollowUpDate != "" {
		parsed, err := time.Parse("2006-01-02", req.NextFollowUpDate)
		if err != nil {
			return dto.NewCounselingError(dto.ErrCodeInvalidTransition,
				fmt.Sprintf("Date de relance invalide: %s", req.NextFollowUpDate))
		}
		followUp = &parsed
	}

	return s.engine.MutatePatients(func(records []patientDto.Patient) ([]patientDto.Patient, error) {
		for i, patient := range records {
			if !strings.EqualFold(patient.ID, id) {
				continue
			}
			if patient.Proposal == nil {
				return nil, dto.NewCounselingError(dto.ErrCodeNoProposal,
					"Aucune proposition de forfait pour ce patient")
			}
			if !dto.CanTransition(patient.Proposal.Status, req.Status) {
				return nil, dto.NewCounselingError(dto.ErrCodeInvalidTransition,
					fmt.Sprintf("Transition %s -> %s non autorisée",
						patient.Proposal.Status, req.Status))
			}

			now := time.Now()
			proposal := *patient.Proposal
			proposal.Status = req.Status
			if req.Objection != "" {
				proposal.Objection = req.Objection
			}
			if req.DecisionPattern != "" {
				proposal.DecisionPattern = req.DecisionPattern
			}

			switch req.Status {
			case patientDto.ProposalFollowUp:
				proposal.NextFollowUpDate = followUp
				proposal.LastFollowUpAt = &now
			case patientDto.ProposalConverted, patientDto.ProposalLost:
				proposal.OutcomeDate = &now
			}

			records[i].Proposal = &proposal
			return records, nil
		}
		return nil, patientDto.NewPatientError(patientDto.ErrCodePatientNotFound,
			fmt.Sprintf("Patient introuvable: %s", id))
	})
}
