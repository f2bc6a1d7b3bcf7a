package app

import (
	"surgicare-core/internal/app/config"
	"surgicare-core/internal/infrastructure/database"
	"surgicare-core/internal/infrastructure/database/redis"
	"surgicare-core/internal/infrastructure/logger"
	"surgicare-core/internal/modules/auth"
	authServices "surgicare-core/internal/modules/auth/services"
	"surgicare-core/internal/modules/counseling"
	"surgicare-core/internal/modules/exports"
	"surgicare-core/internal/modules/files"
	"surgicare-core/internal/modules/patients"
	"surgicare-core/internal/modules/rowstore"
	rowstoreServices "surgicare-core/internal/modules/rowstore/services"
	"surgicare-core/internal/modules/staff"
	syncmod "surgicare-core/internal/modules/sync"
	syncServices "surgicare-core/internal/modules/sync/services"
	"surgicare-core/internal/shared/middleware"

	"go.uber.org/fx"
)

// NewRedisKeyGenerator crée le générateur de clés Redis
func NewRedisKeyGenerator(cfg *config.Config) *redis.RedisKeyGenerator {
	return redis.NewRedisKeyGenerator(cfg.Environment)
}

// Adaptateurs d'interfaces du moteur de synchronisation : le moteur ne voit
// que des vues minimales, les implémentations vivent dans leurs modules
func provideRowStore(store *rowstoreServices.RowStoreService) syncServices.RowStore {
	return store
}

func provideCollectionCache(cache *syncServices.RedisCollectionCache) syncServices.CollectionCache {
	return cache
}

func provideChangeFeed(feed *rowstoreServices.ChangeFeedService) syncServices.ChangeFeed {
	return feed
}

func provideSessionGate(sessions *authServices.SessionService) syncServices.SessionGate {
	return sessions
}

var AppModule = fx.Options(
	// Configuration (doit être fournie en premier)
	fx.Provide(config.NewConfig),
	fx.Provide(config.NewDatabaseConfigProvider),
	fx.Provide(config.NewPostgresConfig),
	fx.Provide(config.NewRedisConfig),
	fx.Provide(config.NewMongoConfig),
	fx.Provide(config.NewEngineConfig),
	fx.Provide(config.NewStrategyConfig),
	fx.Provide(config.NewOTPConfig),
	fx.Provide(config.NewSpreadsheetConfig),

	// Utilitaires partagés (après config, avant infrastructure)
	fx.Provide(NewRedisKeyGenerator),

	// Infrastructure
	database.Module,
	logger.Module,

	// Adaptateurs d'interfaces du moteur de synchronisation
	fx.Provide(provideRowStore),
	fx.Provide(provideCollectionCache),
	fx.Provide(provideChangeFeed),
	fx.Provide(provideSessionGate),

	// Middlewares partagés (après infrastructure, avant modules métier)
	middleware.Module,

	// Modules métier
	rowstore.Module,
	syncmod.Module,
	patients.Module,
	staff.Module,
	auth.Module,
	counseling.Module,
	exports.Module,
	files.Module,

	// Router
	fx.Provide(NewRouter),

	// Application
	fx.Provide(NewApplication),

	// Lifecycle management
	fx.Invoke((*Application).Start),
)
