package database

import (
	"go.uber.org/fx"

	"surgicare-core/internal/infrastructure/database/mongodb"
	"surgicare-core/internal/infrastructure/database/postgres"
	"surgicare-core/internal/infrastructure/database/redis"
)

var Module = fx.Options(

	// Modules database
	postgres.Module,
	redis.Module,
	mongodb.Module,
)
