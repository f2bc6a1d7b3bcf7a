package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"surgicare-core/internal/modules/sync/dto"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// fakeRowStore - magasin distant en mémoire, instrumenté pour les assertions
type fakeRowStore struct {
	mu        sync.Mutex
	rows      map[string]json.RawMessage
	lookupErr error
	updateErr error
	updates   int
	inserts   int
}

func newFakeRowStore() *fakeRowStore {
	return &fakeRowStore{rows: make(map[string]json.RawMessage)}
}

func (s *fakeRowStore) Lookup(ctx context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, false, s.lookupErr
	}
	payload, ok := s.rows[key]
	return payload, ok, nil
}

func (s *fakeRowStore) Insert(ctx context.Context, key string, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	s.rows[key] = payload
	return nil
}

func (s *fakeRowStore) Update(ctx context.Context, key string, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	s.rows[key] = payload
	return nil
}

func (s *fakeRowStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

func (s *fakeRowStore) row(key string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[key]
}

func (s *fakeRowStore) setLookupErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupErr = err
}

// fakeCache - cache durable en mémoire
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Read(ctx context.Context, pattern string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[pattern]
	return data, ok, nil
}

func (c *fakeCache) Write(ctx context.Context, pattern string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[pattern] = data
	return nil
}

func (c *fakeCache) get(pattern string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[pattern]
	return data, ok
}

func newTestCollection(store RowStore, cache CollectionCache, debounce time.Duration) *syncedCollection[record] {
	return newSyncedCollection[record]("test", "test_row", "test_backup", debounce, store, cache, nil, nil)
}

func TestLoadAppliesRemoteRow(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[{"id":"a","name":"Un"},{"id":"b","name":"Deux"}]`)
	cache := newFakeCache()

	c := newTestCollection(store, cache, time.Hour)
	c.Load(context.Background())

	records := c.Snapshot()
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "b" {
		t.Fatalf("snapshot inattendu: %+v", records)
	}

	state := c.State()
	if !state.Loaded || state.Status != dto.StatusSaved {
		t.Fatalf("état inattendu après chargement: %+v", state)
	}

	// Le miroir durable reflète la ligne distante
	if data, ok := cache.get("test_backup"); !ok || string(data) != `[{"id":"a","name":"Un"},{"id":"b","name":"Deux"}]` {
		t.Fatalf("cache non écrit après application distante: %s", data)
	}
}

func TestLoadSeedsAbsentRowFromCache(t *testing.T) {
	store := newFakeRowStore()
	cache := newFakeCache()
	cache.data["test_backup"] = []byte(`[{"id":"x","name":"Cache"}]`)

	c := newTestCollection(store, cache, time.Hour)
	c.Load(context.Background())

	if store.inserts != 1 {
		t.Fatalf("amorçage attendu (1 insert), obtenu %d", store.inserts)
	}

	var seeded []record
	if err := json.Unmarshal(store.row("test_row"), &seeded); err != nil {
		t.Fatalf("seed illisible: %v", err)
	}
	if len(seeded) != 1 || seeded[0].ID != "x" {
		t.Fatalf("seed inattendu: %+v", seeded)
	}

	if state := c.State(); !state.Loaded || state.Status != dto.StatusSaved {
		t.Fatalf("état inattendu après amorçage: %+v", state)
	}
}

func TestLoadSeedsAbsentRowAsEmptyArray(t *testing.T) {
	store := newFakeRowStore()
	cache := newFakeCache()

	c := newTestCollection(store, cache, time.Hour)
	c.Load(context.Background())

	if got := string(store.row("test_row")); got != "[]" {
		t.Fatalf("seed sur base vide doit être [], obtenu %q", got)
	}
}

func TestLoadFallsBackToCacheOnLookupError(t *testing.T) {
	store := newFakeRowStore()
	store.setLookupErr(errors.New("connexion refusée"))
	cache := newFakeCache()
	cache.data["test_backup"] = []byte(`[{"id":"x","name":"Cache"}]`)

	c := newTestCollection(store, cache, time.Hour)
	c.Load(context.Background())

	state := c.State()
	if !state.Loaded {
		t.Fatal("la collection doit rester utilisable sur les données du cache")
	}
	if state.Status != dto.StatusError {
		t.Fatalf("statut error attendu, obtenu %q", state.Status)
	}
	if records := c.Snapshot(); len(records) != 1 || records[0].ID != "x" {
		t.Fatalf("données cache attendues, obtenu %+v", records)
	}

	// Le refresh manuel retente quand le distant revient
	store.setLookupErr(nil)
	store.rows["test_row"] = json.RawMessage(`[{"id":"y","name":"Distant"}]`)
	c.Load(context.Background())

	if records := c.Snapshot(); len(records) != 1 || records[0].ID != "y" {
		t.Fatalf("ligne distante attendue après refresh, obtenu %+v", records)
	}
	if state := c.State(); state.Status != dto.StatusSaved {
		t.Fatalf("statut saved attendu après refresh, obtenu %q", state.Status)
	}
}

func TestLoadWithoutCacheAndLookupErrorStaysUnloaded(t *testing.T) {
	store := newFakeRowStore()
	store.setLookupErr(errors.New("connexion refusée"))

	c := newTestCollection(store, newFakeCache(), time.Hour)
	c.Load(context.Background())

	if state := c.State(); state.Loaded {
		t.Fatal("sans cache ni distant, la collection ne doit pas être marquée chargée")
	}
}

func TestMutateSchedulesDebouncedPush(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[]`)
	cache := newFakeCache()

	c := newTestCollection(store, cache, 20*time.Millisecond)
	c.Load(context.Background())

	err := c.Mutate(func(records []record) ([]record, error) {
		return append(records, record{ID: "n", Name: "Nouveau"}), nil
	})
	if err != nil {
		t.Fatalf("mutation refusée: %v", err)
	}

	if state := c.State(); state.Status != dto.StatusUnsaved {
		t.Fatalf("statut unsaved attendu après mutation, obtenu %q", state.Status)
	}

	waitFor(t, func() bool { return store.updateCount() == 1 })

	var pushed []record
	if err := json.Unmarshal(store.row("test_row"), &pushed); err != nil {
		t.Fatalf("payload poussé illisible: %v", err)
	}
	if len(pushed) != 1 || pushed[0].ID != "n" {
		t.Fatalf("payload poussé inattendu: %+v", pushed)
	}
	if state := c.State(); state.Status != dto.StatusSaved {
		t.Fatalf("statut saved attendu après push, obtenu %q", state.Status)
	}
}

func TestMutationsCoalesceIntoSinglePush(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[]`)

	c := newTestCollection(store, newFakeCache(), 30*time.Millisecond)
	c.Load(context.Background())

	for i := 0; i < 5; i++ {
		_ = c.Mutate(func(records []record) ([]record, error) {
			return append(records, record{ID: "r"}), nil
		})
	}

	waitFor(t, func() bool { return store.updateCount() >= 1 })
	time.Sleep(60 * time.Millisecond)

	if got := store.updateCount(); got != 1 {
		t.Fatalf("les mutations rapprochées doivent fusionner en 1 push, obtenu %d", got)
	}

	var pushed []record
	_ = json.Unmarshal(store.row("test_row"), &pushed)
	if len(pushed) != 5 {
		t.Fatalf("le push doit porter l'état final (5 enregistrements), obtenu %d", len(pushed))
	}
}

func TestMutateErrorLeavesCollectionUntouched(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[{"id":"a","name":"Un"}]`)

	c := newTestCollection(store, newFakeCache(), 20*time.Millisecond)
	c.Load(context.Background())

	boom := errors.New("doublon")
	err := c.Mutate(func(records []record) ([]record, error) {
		records[0].Name = "Corrompu"
		return nil, boom
	})
	if err != boom {
		t.Fatalf("l'erreur du callback doit remonter, obtenu %v", err)
	}

	if records := c.Snapshot(); records[0].Name != "Un" {
		t.Fatalf("la collection doit rester inchangée, obtenu %+v", records)
	}

	time.Sleep(50 * time.Millisecond)
	if store.updateCount() != 0 {
		t.Fatal("aucun push ne doit partir après une mutation refusée")
	}
}

func TestRemoteChangeSuppressesEchoPush(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[]`)
	cache := newFakeCache()

	c := newTestCollection(store, cache, 40*time.Millisecond)
	c.Load(context.Background())

	// Mutation locale puis notification distante avant l'échéance du push
	_ = c.Mutate(func(records []record) ([]record, error) {
		return append(records, record{ID: "local"}), nil
	})

	store.mu.Lock()
	store.rows["test_row"] = json.RawMessage(`[{"id":"remote","name":"Distant"}]`)
	store.mu.Unlock()
	c.HandleRemoteChange(context.Background())

	time.Sleep(100 * time.Millisecond)

	// Le flush planifié écrit le cache mais saute le push distant
	if store.updateCount() != 0 {
		t.Fatal("le push suivant une application distante doit être sauté (écho)")
	}
	if records := c.Snapshot(); len(records) != 1 || records[0].ID != "remote" {
		t.Fatalf("l'état distant doit faire autorité, obtenu %+v", records)
	}
	if data, _ := cache.get("test_backup"); string(data) != `[{"id":"remote","name":"Distant"}]` {
		t.Fatalf("le cache doit refléter l'état distant, obtenu %s", data)
	}

	// La suppression ne vaut qu'une fois : la mutation suivante pousse normalement
	_ = c.Mutate(func(records []record) ([]record, error) {
		return append(records, record{ID: "apres"}), nil
	})
	waitFor(t, func() bool { return store.updateCount() == 1 })
}

func TestApplyRemoteIgnoresMalformedPayload(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[{"id":"a","name":"Un"}]`)

	c := newTestCollection(store, newFakeCache(), time.Hour)
	c.Load(context.Background())

	c.ApplyRemote(context.Background(), json.RawMessage(`{"pas":"un tableau"}`))

	if records := c.Snapshot(); len(records) != 1 || records[0].ID != "a" {
		t.Fatalf("un payload malformé doit être ignoré, obtenu %+v", records)
	}
}

func TestFlushPushFailureSetsErrorWithoutRetry(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[]`)
	store.updateErr = errors.New("timeout")

	c := newTestCollection(store, newFakeCache(), 10*time.Millisecond)
	c.Load(context.Background())

	_ = c.Mutate(func(records []record) ([]record, error) {
		return append(records, record{ID: "n"}), nil
	})

	waitFor(t, func() bool { return c.State().Status == dto.StatusError })

	// Pas de boucle de retry : le statut reste error jusqu'à la prochaine action
	time.Sleep(50 * time.Millisecond)
	if store.updateCount() != 0 {
		t.Fatal("aucun retry automatique attendu après un push en échec")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := newFakeRowStore()
	store.rows["test_row"] = json.RawMessage(`[{"id":"a","name":"Un"}]`)

	c := newTestCollection(store, newFakeCache(), time.Hour)
	c.Load(context.Background())

	snapshot := c.Snapshot()
	snapshot[0].Name = "Modifié"

	if records := c.Snapshot(); records[0].Name != "Un" {
		t.Fatal("Snapshot doit retourner une copie isolée")
	}
}

// waitFor attend qu'une condition devienne vraie (timers de push courts)
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition jamais atteinte avant le timeout")
}
