package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"surgicare-core/internal/modules/sync/dto"
)

// RowStore est la vue minimale du magasin distant requise par le moteur
type RowStore interface {
	Lookup(ctx context.Context, key string) (json.RawMessage, bool, error)
	Insert(ctx context.Context, key string, payload json.RawMessage) error
	Update(ctx context.Context, key string, payload json.RawMessage) error
}

// syncedCollection réplique une séquence ordonnée d'enregistrements entre la
// mémoire (copie autoritaire), le cache durable et une ligne distante unique.
//
// Chaque transition d'état porte une origine (local/remote). Le push planifié
// est sauté exactement une fois quand la dernière transition vient du distant,
// ce qui casse la boucle écho notification -> sauvegarde -> notification.
type syncedCollection[T any] struct {
	name         string
	rowKey       string
	cachePattern string
	debounce     time.Duration

	store RowStore        // nil => fonctionnement cache seul
	cache CollectionCache
	gate  func() bool // autorisation de push (session active) ; nil = inconditionnel

	onEvent func(dto.SyncEvent)

	mu           sync.Mutex
	records      []T
	loaded       bool
	origin       dto.Origin
	status       dto.SyncStatus
	lastSyncedAt time.Time
	pushTimer    *time.Timer
}

func newSyncedCollection[T any](
	name, rowKey, cachePattern string,
	debounce time.Duration,
	store RowStore,
	cache CollectionCache,
	gate func() bool,
	onEvent func(dto.SyncEvent),
) *syncedCollection[T] {
	return &syncedCollection[T]{
		name:         name,
		rowKey:       rowKey,
		cachePattern: cachePattern,
		debounce:     debounce,
		store:        store,
		cache:        cache,
		gate:         gate,
		onEvent:      onEvent,
		records:      []T{},
	}
}

// Load exécute le chargement initial : cache d'abord (état provisoire pour
// affichage immédiat), puis lookup distant autoritaire, avec amorçage de la
// ligne distante si elle n'existe pas encore.
func (c *syncedCollection[T]) Load(ctx context.Context) {
	provisional, hasCache := c.readCache(ctx)
	if hasCache {
		c.mu.Lock()
		c.records = provisional
		c.mu.Unlock()
	}

	if c.store == nil {
		// Magasin distant non configuré : on vit sur le cache
		c.mu.Lock()
		c.loaded = hasCache
		c.mu.Unlock()
		return
	}

	payload, found, err := c.store.Lookup(ctx, c.rowKey)
	if err != nil {
		fmt.Printf("[SYNC] ❌ Lookup distant échoué pour %s: %v (repli cache)\n", c.name, err)
		c.mu.Lock()
		c.status = dto.StatusError
		if hasCache {
			c.loaded = true
		}
		c.mu.Unlock()
		c.emit("status")
		return
	}

	if found {
		// La ligne distante fait autorité : écrase mémoire et cache
		c.ApplyRemote(ctx, payload)
		return
	}

	// Ligne absente : amorcer le distant depuis l'état provisoire (cache ou vide)
	seed, marshalErr := json.Marshal(provisionalOrEmpty(provisional))
	if marshalErr == nil {
		marshalErr = c.store.Insert(ctx, c.rowKey, seed)
	}
	c.mu.Lock()
	if marshalErr != nil {
		fmt.Printf("[SYNC] ⚠️ Amorçage distant échoué pour %s: %v\n", c.name, marshalErr)
		// Meilleur effort : si le cache avait des données, on opère déconnecté
		if hasCache {
			c.loaded = true
		}
		c.mu.Unlock()
		return
	}
	c.loaded = true
	c.status = dto.StatusSaved
	c.lastSyncedAt = time.Now()
	c.mu.Unlock()

	fmt.Printf("[SYNC] ✅ Ligne %s amorcée avec %d enregistrement(s)\n", c.rowKey, len(provisional))
	c.emit("loaded")
}

// Snapshot retourne une copie de la collection (lecture sans risque d'aliasing)
func (c *syncedCollection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// State retourne l'état de synchronisation courant
func (c *syncedCollection[T]) State() dto.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := dto.SyncState{
		Collection:  c.name,
		Status:      c.status,
		Loaded:      c.loaded,
		RecordCount: len(c.records),
	}
	if !c.lastSyncedAt.IsZero() {
		t := c.lastSyncedAt
		state.LastSyncedAt = &t
	}
	return state
}

// Mutate applique une mutation purement en mémoire puis planifie le push
// différé. Une erreur du callback laisse la collection strictement inchangée.
func (c *syncedCollection[T]) Mutate(fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	working := make([]T, len(c.records))
	copy(working, c.records)

	next, err := fn(working)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if next == nil {
		next = []T{}
	}

	c.records = next
	c.origin = dto.OriginLocal
	c.status = dto.StatusUnsaved
	c.reschedulePushLocked()
	c.mu.Unlock()

	c.emit("status")
	return nil
}

// reschedulePushLocked annule-et-replanifie la tâche de push différé.
// Un seul timer existe par collection ; chaque mutation le remet à zéro.
func (c *syncedCollection[T]) reschedulePushLocked() {
	if c.pushTimer != nil {
		c.pushTimer.Stop()
	}
	c.pushTimer = time.AfterFunc(c.debounce, func() {
		c.Flush(context.Background())
	})
}

// Flush exécute le push planifié : écriture synchrone du cache, puis mise à
// jour distante intégrale — sauf si la dernière transition vient du distant
// (suppression d'écho, sautée exactement une fois).
func (c *syncedCollection[T]) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.pushTimer != nil {
		c.pushTimer.Stop()
		c.pushTimer = nil
	}

	payload, err := json.Marshal(provisionalOrEmpty(c.records))
	if err != nil {
		c.mu.Unlock()
		fmt.Printf("[SYNC] ❌ Sérialisation impossible pour %s: %v\n", c.name, err)
		return
	}
	origin := c.origin
	c.mu.Unlock()

	// (a) le cache durable est toujours écrit, quelle que soit l'origine
	if err := c.cache.Write(ctx, c.cachePattern, payload); err != nil {
		fmt.Printf("[SYNC] ⚠️ Écriture cache échouée pour %s: %v\n", c.name, err)
	}

	// (b) push distant, sauté si l'état courant provient d'une notification
	if origin == dto.OriginRemote {
		return
	}
	if c.store == nil {
		return
	}
	if c.gate != nil && !c.gate() {
		return
	}

	c.setStatus(dto.StatusSaving)
	if err := c.store.Update(ctx, c.rowKey, payload); err != nil {
		// Pas de boucle de retry : la prochaine mutation ou un refresh manuel retentera
		fmt.Printf("[SYNC] ❌ Push distant échoué pour %s: %v\n", c.name, err)
		c.setStatus(dto.StatusError)
		return
	}

	c.mu.Lock()
	c.status = dto.StatusSaved
	c.lastSyncedAt = time.Now()
	c.mu.Unlock()
	c.emit("pushed")
}

// ApplyRemote remplace l'état mémoire par un payload d'origine distante.
// Les payloads malformés (pas une séquence ordonnée) sont ignorés.
func (c *syncedCollection[T]) ApplyRemote(ctx context.Context, payload json.RawMessage) {
	var incoming []T
	if err := json.Unmarshal(payload, &incoming); err != nil {
		fmt.Printf("[SYNC] ⚠️ Payload distant malformé pour %s: ignoré (%v)\n", c.name, err)
		return
	}
	if incoming == nil {
		incoming = []T{}
	}

	c.mu.Lock()
	c.records = incoming
	c.origin = dto.OriginRemote
	c.loaded = true
	c.status = dto.StatusSaved
	c.lastSyncedAt = time.Now()
	c.mu.Unlock()

	// Écriture directe du miroir durable
	if err := c.cache.Write(ctx, c.cachePattern, payload); err != nil {
		fmt.Printf("[SYNC] ⚠️ Écriture cache échouée pour %s: %v\n", c.name, err)
	}

	c.emit("remote_applied")
}

// HandleRemoteChange relit la ligne distante suite à une notification et
// applique son payload. Contourne entièrement le chemin de push.
func (c *syncedCollection[T]) HandleRemoteChange(ctx context.Context) {
	if c.store == nil {
		return
	}

	payload, found, err := c.store.Lookup(ctx, c.rowKey)
	if err != nil {
		fmt.Printf("[SYNC] ⚠️ Relecture après notification échouée pour %s: %v\n", c.name, err)
		return
	}
	if !found {
		return
	}

	c.ApplyRemote(ctx, payload)
}

func (c *syncedCollection[T]) readCache(ctx context.Context) ([]T, bool) {
	data, ok, err := c.cache.Read(ctx, c.cachePattern)
	if err != nil || !ok {
		return nil, false
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		fmt.Printf("[SYNC] ⚠️ Backup cache malformé pour %s: ignoré (%v)\n", c.name, err)
		return nil, false
	}
	return records, true
}

func (c *syncedCollection[T]) setStatus(status dto.SyncStatus) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	c.emit("status")
}

func (c *syncedCollection[T]) emit(kind string) {
	if c.onEvent == nil {
		return
	}
	c.mu.Lock()
	event := dto.SyncEvent{
		Collection: c.name,
		Kind:       kind,
		Status:     c.status,
		At:         time.Now(),
	}
	c.mu.Unlock()
	c.onEvent(event)
}

// provisionalOrEmpty garantit une sérialisation en tableau JSON, jamais null
func provisionalOrEmpty[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}
