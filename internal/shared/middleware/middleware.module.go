package middleware

import (
	"go.uber.org/fx"

	"surgicare-core/internal/shared/middleware/auth"
	"surgicare-core/internal/shared/middleware/security"
)

// Module regroupe tous les providers des middlewares
var Module = fx.Options(
	fx.Provide(auth.NewSessionMiddleware),
	fx.Provide(security.CORSMiddleware),
)
