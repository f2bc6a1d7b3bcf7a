package dto

import (
	"time"
)

// Sexe du patient
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// InsuranceStatus - tri-état : le patient ne sait pas toujours s'il est couvert
type InsuranceStatus string

const (
	InsuranceYes     InsuranceStatus = "Yes"
	InsuranceNo      InsuranceStatus = "No"
	InsuranceNotSure InsuranceStatus = "NotSure"
)

// Condition présentée à l'accueil (ensemble fermé + échappatoire Other)
type Condition string

const (
	ConditionPiles         Condition = "Piles"
	ConditionFissure       Condition = "Fissure"
	ConditionFistula       Condition = "Fistula"
	ConditionHernia        Condition = "Hernia"
	ConditionGallstone     Condition = "Gallstone"
	ConditionKidneyStone   Condition = "KidneyStone"
	ConditionVaricoseVeins Condition = "VaricoseVeins"
	ConditionCataract      Condition = "Cataract"
	ConditionOther         Condition = "Other"
)

// Recommandation du médecin après évaluation
type Recommendation string

const (
	RecommendationMedication Recommendation = "medication_only"
	RecommendationSurgery    Recommendation = "surgery_recommended"
)

// Niveau de douleur (3 niveaux)
type PainLevel string

const (
	PainMild     PainLevel = "mild"
	PainModerate PainLevel = "moderate"
	PainSevere   PainLevel = "severe"
)

// Capacité financière estimée (3 niveaux)
type AffordabilityTier string

const (
	AffordabilityLow    AffordabilityTier = "low"
	AffordabilityMedium AffordabilityTier = "medium"
	AffordabilityHigh   AffordabilityTier = "high"
)

// Disposition à la conversion (4 niveaux)
type ReadinessTier string

const (
	ReadinessCold      ReadinessTier = "cold"
	ReadinessWarm      ReadinessTier = "warm"
	ReadinessHot       ReadinessTier = "hot"
	ReadinessCommitted ReadinessTier = "committed"
)

// Statut du parcours de counseling (machine à états, voir counseling/dto)
type ProposalStatus string

const (
	ProposalPending      ProposalStatus = "pending"
	ProposalInDiscussion ProposalStatus = "in_discussion"
	ProposalFollowUp     ProposalStatus = "follow_up"
	ProposalConverted    ProposalStatus = "converted"
	ProposalLost         ProposalStatus = "lost"
)

// PrescriptionArtifact - pièce jointe d'une évaluation (contenu encodé inline)
type PrescriptionArtifact struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Content    string    `json:"content,omitempty"` // base64
	URL        string    `json:"url,omitempty"`     // renseigné après dépôt blob
	UploadedAt time.Time `json:"uploaded_at"`
}

// DoctorAssessment - évaluation clinique embarquée dans le dossier patient.
// Sa présence est la porte d'entrée du parcours de counseling.
type DoctorAssessment struct {
	Recommendation  Recommendation         `json:"recommendation"`
	Procedure       string                 `json:"procedure,omitempty"`       // enum libre, texte libre si "Other"
	ProcedureOther  string                 `json:"procedure_other,omitempty"` // précision quand Procedure == Other
	PainLevel       PainLevel              `json:"pain_level"`
	Affordability   AffordabilityTier      `json:"affordability"`
	Readiness       ReadinessTier          `json:"readiness"`
	TentativeDate   *time.Time             `json:"tentative_date,omitempty"`
	ClinicalNotes   string                 `json:"clinical_notes,omitempty"`
	Prescriptions   []PrescriptionArtifact `json:"prescriptions,omitempty"`
	DoctorSignature string                 `json:"doctor_signature"`
	AssessedAt      time.Time              `json:"assessed_at"`
}

// PackageProposal - proposition de forfait chirurgical (workflow counseling)
type PackageProposal struct {
	Status              ProposalStatus `json:"status"`
	DecisionPattern     string         `json:"decision_pattern,omitempty"`
	Objection           string         `json:"objection,omitempty"`
	Strategy            string         `json:"strategy,omitempty"` // rédigée ou générée
	NextFollowUpDate    *time.Time     `json:"next_follow_up_date,omitempty"`
	OutcomeDate         *time.Time     `json:"outcome_date,omitempty"`
	PackageAmount       float64        `json:"package_amount,omitempty"`
	PaymentMode         string         `json:"payment_mode,omitempty"`
	InsuranceDocsShared bool           `json:"insurance_docs_shared"`
	PreOpPlan           string         `json:"pre_op_plan,omitempty"`
	MedicinesPlan       string         `json:"medicines_plan,omitempty"`
	ICUCharges          string         `json:"icu_charges,omitempty"`
	RoomType            string         `json:"room_type,omitempty"`
	StayDuration        string         `json:"stay_duration,omitempty"`
	PostOpPlan          string         `json:"post_op_plan,omitempty"`
	Equipment           []string       `json:"equipment,omitempty"`
	ProposedAt          time.Time      `json:"proposed_at"`
	LastFollowUpAt      *time.Time     `json:"last_follow_up_at,omitempty"`
}

// Patient - entité métier principale, dupliquée à l'identique entre mémoire,
// cache durable et ligne distante (réplication document entier)
type Patient struct {
	ID             string            `json:"id"` // code d'enregistrement, unicité insensible à la casse
	FacilityCode   string            `json:"facility_code,omitempty"`
	Name           string            `json:"name"`
	DateOfBirth    *time.Time        `json:"date_of_birth,omitempty"`
	Age            int               `json:"age"`
	Gender         Gender            `json:"gender"`
	Mobile         string            `json:"mobile"`
	Occupation     string            `json:"occupation,omitempty"`
	Insurance      InsuranceStatus   `json:"insurance"`
	InsuranceName  string            `json:"insurance_name,omitempty"`
	ReferralSource string            `json:"referral_source,omitempty"`
	Condition      Condition         `json:"condition"`
	ConditionOther string            `json:"condition_other,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Assessment     *DoctorAssessment `json:"assessment,omitempty"`
	Proposal       *PackageProposal  `json:"proposal,omitempty"`
}

// DeriveAge calcule l'âge à une date donnée, borné à zéro.
// La bascule se fait le jour exact de l'anniversaire.
func DeriveAge(dob time.Time, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() ||
		(today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// RefreshAge recalcule l'âge depuis la date de naissance quand elle est connue
func (p *Patient) RefreshAge(today time.Time) {
	if p.DateOfBirth != nil {
		p.Age = DeriveAge(*p.DateOfBirth, today)
	}
}

// NeedsCounseling indique si le patient entre dans la file de counseling
// (évaluation présente ET chirurgie recommandée)
func (p *Patient) NeedsCounseling() bool {
	return p.Assessment != nil && p.Assessment.Recommendation == RecommendationSurgery
}
