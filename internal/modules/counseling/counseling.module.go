package counseling

import (
	"go.uber.org/fx"

	"surgicare-core/internal/modules/counseling/controllers"
	"surgicare-core/internal/modules/counseling/services"
)

// Module regroupe le workflow de conseil forfait et le générateur de stratégie
var Module = fx.Options(
	fx.Provide(services.NewCounselingService),
	fx.Provide(services.NewStrategyService),
	fx.Provide(controllers.NewCounselingController),
)
