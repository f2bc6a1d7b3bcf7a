package exports

import (
	"go.uber.org/fx"

	"surgicare-core/internal/modules/exports/services"
)

// Module regroupe les exports externes (webhook tableur)
var Module = fx.Options(
	fx.Provide(services.NewSpreadsheetExportService),
)
