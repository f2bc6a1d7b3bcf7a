package dto

import "time"

// SyncStatus - statut grossier de synchronisation affiché aux tableaux de bord
type SyncStatus string

const (
	StatusIdle    SyncStatus = ""
	StatusUnsaved SyncStatus = "unsaved"
	StatusSaving  SyncStatus = "saving"
	StatusSaved   SyncStatus = "saved"
	StatusError   SyncStatus = "error"
)

// Origin étiquette l'origine de la dernière transition d'état d'une collection.
// Remplace les drapeaux booléens de suppression d'écho : le planificateur de
// push filtre sur l'origine au lieu de muter un booléen partagé.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

func (o Origin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "local"
}

// SyncState - instantané de l'état de synchronisation d'une collection
type SyncState struct {
	Collection   string     `json:"collection"`
	Status       SyncStatus `json:"status"`
	Loaded       bool       `json:"loaded"`
	RecordCount  int        `json:"record_count"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// SyncEvent - événement diffusé aux sessions connectées (websocket)
type SyncEvent struct {
	Collection string     `json:"collection"`
	Kind       string     `json:"kind"` // status, remote_applied, pushed, loaded
	Status     SyncStatus `json:"status"`
	At         time.Time  `json:"at"`
}
