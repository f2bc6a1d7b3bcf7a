package files

import (
	"go.uber.org/fx"

	"surgicare-core/internal/modules/files/controllers"
	"surgicare-core/internal/modules/files/services"
)

// Module regroupe le blob store des artefacts de prescription
var Module = fx.Options(
	fx.Provide(services.NewBlobStoreService),
	fx.Provide(controllers.NewFilesController),
)
