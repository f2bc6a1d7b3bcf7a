package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"surgicare-core/internal/infrastructure/database/postgres"
	"surgicare-core/internal/modules/rowstore/queries"
)

// DocChangeChannel est le canal pg_notify utilisé par le trigger du magasin
const DocChangeChannel = "surgicare_doc_changes"

// RowStoreService expose le magasin distant comme de simples lignes clé/payload JSON.
// Chaque collection métier (patients, staff) occupe exactement une ligne.
type RowStoreService struct {
	db *postgres.Client
}

func NewRowStoreService(db *postgres.Client) *RowStoreService {
	return &RowStoreService{db: db}
}

// EnsureSchema crée la table documents et le trigger de notification (idempotent).
// Les collections elles-mêmes sont créées implicitement au premier insert.
func (s *RowStoreService) EnsureSchema(ctx context.Context) error {
	if err := s.db.Exec(ctx, queries.DocumentQueries.EnsureSchema); err != nil {
		return fmt.Errorf("failed to ensure app_documents table: %w", err)
	}

	if err := s.db.Exec(ctx, queries.DocumentQueries.EnsureTrigger); err != nil {
		return fmt.Errorf("failed to ensure notify trigger: %w", err)
	}

	fmt.Printf("[ROWSTORE] ✅ Schéma documents vérifié (table + trigger)\n")
	return nil
}

// Lookup effectue un lookup ponctuel par clé. found=false signifie "ligne absente",
// jamais une erreur.
func (s *RowStoreService) Lookup(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var payload json.RawMessage
	var updatedAt time.Time

	err := s.db.QueryRow(ctx, queries.DocumentQueries.GetDocumentByKey, key).
		Scan(&payload, &updatedAt)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("document lookup failed for %s: %w", key, err)
	}

	return payload, true, nil
}

// Insert crée la ligne d'une collection (amorçage sur base vide)
func (s *RowStoreService) Insert(ctx context.Context, key string, payload json.RawMessage) error {
	if err := s.db.Exec(ctx, queries.DocumentQueries.InsertDocument, key, payload); err != nil {
		return fmt.Errorf("document insert failed for %s: %w", key, err)
	}
	return nil
}

// Update remplace intégralement le payload d'une ligne (pas de patch par champ,
// pas de verrou optimiste : dernier écrivain gagne à la granularité collection)
func (s *RowStoreService) Update(ctx context.Context, key string, payload json.RawMessage) error {
	if err := s.db.Exec(ctx, queries.DocumentQueries.UpdateDocument, key, payload); err != nil {
		return fmt.Errorf("document update failed for %s: %w", key, err)
	}
	return nil
}
