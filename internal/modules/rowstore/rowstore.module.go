package rowstore

import (
	"context"

	"go.uber.org/fx"

	"surgicare-core/internal/modules/rowstore/services"
)

// Module regroupe l'accès au magasin de lignes distant et son flux de changements
var Module = fx.Options(
	fx.Provide(services.NewRowStoreService),
	fx.Provide(services.NewChangeFeedService),
	fx.Invoke(RegisterSchemaLifecycle),
	fx.Invoke(RegisterChangeFeedLifecycle),
)

// RegisterSchemaLifecycle vérifie la table documents et son trigger au démarrage,
// avant l'ouverture du flux de changements
func RegisterSchemaLifecycle(lc fx.Lifecycle, store *services.RowStoreService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.EnsureSchema(ctx)
		},
	})
}

func RegisterChangeFeedLifecycle(lc fx.Lifecycle, feed *services.ChangeFeedService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			feed.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			feed.Stop()
			return nil
		},
	})
}
