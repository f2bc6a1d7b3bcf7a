package dto

import (
	patientDto "surgicare-core/internal/modules/patients/dto"
)

// Transitions autorisées de la machine à états du workflow de counseling.
// pending -> in_discussion -> (follow_up <-> in_discussion) -> converted | lost
var allowedTransitions = map[patientDto.ProposalStatus][]patientDto.ProposalStatus{
	patientDto.ProposalPending:      {patientDto.ProposalInDiscussion, patientDto.ProposalLost},
	patientDto.ProposalInDiscussion: {patientDto.ProposalFollowUp, patientDto.ProposalConverted, patientDto.ProposalLost},
	patientDto.ProposalFollowUp:     {patientDto.ProposalInDiscussion, patientDto.ProposalConverted, patientDto.ProposalLost},
	patientDto.ProposalConverted:    {},
	patientDto.ProposalLost:         {},
}

// CanTransition vérifie qu'un passage d'état est autorisé
func CanTransition(from, to patientDto.ProposalStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateStatusRequest - avancement du workflow par le conseiller
type UpdateStatusRequest struct {
	Status           patientDto.ProposalStatus `json:"status" binding:"required"`
	NextFollowUpDate string                    `json:"next_follow_up_date"` // format 2006-01-02
	Objection        string                    `json:"objection"`
	DecisionPattern  string                    `json:"decision_pattern"`
}

// Constantes pour les erreurs du workflow counseling
const (
	ErrCodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeNoProposal        = "PROPOSAL_MISSING"
)

// CounselingError représente les erreurs du workflow de counseling
type CounselingError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewCounselingError(code, message string) *CounselingError {
	return &CounselingError{Code: code, Message: message}
}

func (e *CounselingError) Error() string {
	return e.Message
}
