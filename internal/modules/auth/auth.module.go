package auth

import (
	"go.uber.org/fx"

	"surgicare-core/internal/modules/auth/controllers"
	"surgicare-core/internal/modules/auth/services"
)

// Module regroupe sessions, OTP et orchestration du login
var Module = fx.Options(
	fx.Provide(services.NewSessionService),
	fx.Provide(services.NewOTPService),
	fx.Provide(services.NewAuthService),
	fx.Provide(controllers.NewAuthController),
)
