package staff

import (
	"go.uber.org/fx"

	"surgicare-core/internal/modules/staff/controllers"
	"surgicare-core/internal/modules/staff/services"
)

// Module regroupe l'annuaire du personnel
var Module = fx.Options(
	fx.Provide(services.NewStaffService),
	fx.Provide(controllers.NewStaffController),
)
