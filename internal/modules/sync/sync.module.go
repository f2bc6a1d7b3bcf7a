package sync

import (
	"context"

	"go.uber.org/fx"

	"surgicare-core/internal/modules/sync/controllers"
	"surgicare-core/internal/modules/sync/services"
)

// Module regroupe le moteur de synchronisation et sa surface HTTP.
// Les adaptateurs d'interfaces (RowStore, CollectionCache, ChangeFeed,
// SessionGate) sont fournis par le module applicatif.
var Module = fx.Options(
	fx.Provide(services.NewRedisCollectionCache),
	fx.Provide(services.NewSyncEngine),
	fx.Provide(controllers.NewEventsHub),
	fx.Provide(controllers.NewSyncController),
	fx.Invoke(RegisterEngineLifecycle),
)

func RegisterEngineLifecycle(lc fx.Lifecycle, engine *services.SyncEngine, hub *controllers.EventsHub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Chargement initial en arrière-plan : l'échec dégrade vers le
			// cache, il ne doit jamais empêcher le démarrage du processus
			go engine.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			engine.Shutdown(ctx)
			hub.Close()
			return nil
		},
	})
}
