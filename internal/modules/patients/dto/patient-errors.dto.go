package dto

// Constantes pour les erreurs du domaine patient
const (
	ErrCodeDuplicateRegistration = "DUPLICATE_REGISTRATION_CODE"
	ErrCodePatientNotFound       = "PATIENT_NOT_FOUND"
	ErrCodeMissingRequiredField  = "MISSING_REQUIRED_FIELD"
	ErrCodeSurgeryNotRecommended = "SURGERY_NOT_RECOMMENDED"
)

// PatientError représente les erreurs de validation du domaine patient,
// rejetées de façon synchrone avant toute mutation d'état
type PatientError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewPatientError(code, message string) *PatientError {
	return &PatientError{Code: code, Message: message}
}

// Error implémente l'interface error
func (e *PatientError) Error() string {
	return e.Message
}

// CreatePatientRequest - données d'admission saisies au front-office
type CreatePatientRequest struct {
	RegistrationCode string          `json:"registration_code"` // vide => généré automatiquement
	FacilityCode     string          `json:"facility_code"`
	Name             string          `json:"name" binding:"required"`
	DateOfBirth      string          `json:"date_of_birth"` // format 2006-01-02
	Age              int             `json:"age"`
	Gender           Gender          `json:"gender" binding:"required"`
	Mobile           string          `json:"mobile" binding:"required"`
	Occupation       string          `json:"occupation"`
	Insurance        InsuranceStatus `json:"insurance"`
	InsuranceName    string          `json:"insurance_name"`
	ReferralSource   string          `json:"referral_source"`
	Condition        Condition       `json:"condition"`
	ConditionOther   string          `json:"condition_other"`
}
