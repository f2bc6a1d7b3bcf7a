package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	patientDto "surgicare-core/internal/modules/patients/dto"
	staffDto "surgicare-core/internal/modules/staff/dto"
	"surgicare-core/internal/modules/sync/dto"
)

// ChangeFeed est la vue minimale du flux de changements requise par le moteur
type ChangeFeed interface {
	Subscribe(key string, handler func(key string))
}

// SessionGate conditionne le chargement et le push de la collection patients :
// sans session active, aucune tentative n'est faite.
type SessionGate interface {
	HasActiveSession() bool
}

// EngineConfig - paramètres du moteur de synchronisation
type EngineConfig struct {
	PatientsRowKey string
	StaffRowKey    string
	Debounce       time.Duration
}

// SyncEngine possède la copie autoritaire des deux collections métier et
// coordonne chargement initial, push différé et application des notifications
// distantes. Les tableaux de bord ne touchent jamais le magasin ni le cache
// directement : toute mutation passe par ici.
type SyncEngine struct {
	patients *syncedCollection[patientDto.Patient]
	staff    *syncedCollection[staffDto.StaffUser]

	feed ChangeFeed
	gate SessionGate

	mu          sync.RWMutex
	subscribers []func(dto.SyncEvent)
}

func NewSyncEngine(
	config EngineConfig,
	store RowStore,
	cache CollectionCache,
	feed ChangeFeed,
	gate SessionGate,
) *SyncEngine {
	engine := &SyncEngine{
		feed: feed,
		gate: gate,
	}

	engine.patients = newSyncedCollection[patientDto.Patient](
		"patients",
		config.PatientsRowKey,
		"sync_patients_backup",
		config.Debounce,
		store,
		cache,
		func() bool { return gate == nil || gate.HasActiveSession() },
		engine.dispatch,
	)

	// Le statut staff n'est pas remonté aux tableaux de bord et son push
	// n'est pas conditionné à une session : la validation des identifiants
	// au login doit pouvoir lire la collection avant qu'un rôle n'existe.
	engine.staff = newSyncedCollection[staffDto.StaffUser](
		"staff",
		config.StaffRowKey,
		"sync_staff_backup",
		config.Debounce,
		store,
		cache,
		nil,
		nil,
	)

	return engine
}

// Start abonne le moteur au flux de changements puis charge la collection
// staff inconditionnellement. Les patients attendent une session active.
func (e *SyncEngine) Start(ctx context.Context) {
	if e.feed != nil {
		e.feed.Subscribe(e.patients.rowKey, func(string) {
			e.patients.HandleRemoteChange(context.Background())
		})
		e.feed.Subscribe(e.staff.rowKey, func(string) {
			e.staff.HandleRemoteChange(context.Background())
		})
	}

	e.staff.Load(ctx)
	fmt.Printf("[SYNC] ✅ Moteur démarré (staff: %d enregistrement(s))\n",
		e.staff.State().RecordCount)

	if e.gate == nil || e.gate.HasActiveSession() {
		e.patients.Load(ctx)
	}
}

// Shutdown pousse les mutations encore en attente (meilleur effort)
func (e *SyncEngine) Shutdown(ctx context.Context) {
	e.patients.Flush(ctx)
	e.staff.Flush(ctx)
}

// EnsurePatientsLoaded déclenche le chargement patients après ouverture de
// session, s'il n'a pas déjà eu lieu.
func (e *SyncEngine) EnsurePatientsLoaded(ctx context.Context) {
	if e.patients.State().Loaded {
		return
	}
	e.patients.Load(ctx)
}

// ForceRefresh relance le chargement initial patients sans condition.
// Action de récupération utilisateur quand le statut est "error".
func (e *SyncEngine) ForceRefresh(ctx context.Context) {
	e.patients.Load(ctx)
}

// Patients retourne une copie de la collection patients
func (e *SyncEngine) Patients() []patientDto.Patient {
	return e.patients.Snapshot()
}

// Staff retourne une copie de la collection staff
func (e *SyncEngine) Staff() []staffDto.StaffUser {
	return e.staff.Snapshot()
}

// MutatePatients applique une mutation sur la collection patients et planifie
// sa persistance différée
func (e *SyncEngine) MutatePatients(fn func([]patientDto.Patient) ([]patientDto.Patient, error)) error {
	return e.patients.Mutate(fn)
}

// MutateStaff applique une mutation sur la collection staff
func (e *SyncEngine) MutateStaff(fn func([]staffDto.StaffUser) ([]staffDto.StaffUser, error)) error {
	return e.staff.Mutate(fn)
}

// PatientsState expose l'état de synchronisation patients (seul surfacé à l'UI)
func (e *SyncEngine) PatientsState() dto.SyncState {
	return e.patients.State()
}

// OnEvent enregistre un abonné aux événements de synchronisation
func (e *SyncEngine) OnEvent(fn func(dto.SyncEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

func (e *SyncEngine) dispatch(event dto.SyncEvent) {
	e.mu.RLock()
	subscribers := make([]func(dto.SyncEvent), len(e.subscribers))
	copy(subscribers, e.subscribers)
	e.mu.RUnlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
