package patients

import (
	"go.uber.org/fx"

	"surgicare-core/internal/modules/patients/controllers"
	"surgicare-core/internal/modules/patients/services"
)

// Module regroupe le domaine patients : admissions front-office et
// évaluations médecin
var Module = fx.Options(
	fx.Provide(services.NewPatientService),
	fx.Provide(controllers.NewPatientController),
	fx.Provide(controllers.NewAssessmentController),
)
