package services

import (
	"fmt"
	"sync"

	"surgicare-core/internal/infrastructure/database/postgres"
)

// ChangeFeedService redistribue les notifications du magasin de documents
// aux abonnés enregistrés. Une notification porte la clé de la ligne modifiée ;
// l'abonné relit la ligne pour obtenir le payload à jour.
type ChangeFeedService struct {
	listener *postgres.Listener

	mu       sync.RWMutex
	handlers map[string][]func(key string)
}

func NewChangeFeedService(db *postgres.Client) *ChangeFeedService {
	feed := &ChangeFeedService{
		handlers: make(map[string][]func(key string)),
	}
	feed.listener = postgres.NewListener(db, DocChangeChannel, feed.dispatch)
	return feed
}

// Subscribe enregistre un handler pour une clé de document donnée.
// Les notifications portant une clé inconnue sont ignorées.
func (s *ChangeFeedService) Subscribe(key string, handler func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[key] = append(s.handlers[key], handler)
}

// Start démarre l'écoute LISTEN/NOTIFY
func (s *ChangeFeedService) Start() {
	s.listener.Start()
}

// Stop arrête l'écoute
func (s *ChangeFeedService) Stop() {
	s.listener.Stop()
}

func (s *ChangeFeedService) dispatch(key string) {
	s.mu.RLock()
	handlers := s.handlers[key]
	s.mu.RUnlock()

	if len(handlers) == 0 {
		// Ligne hors des clés connues : ignorée
		return
	}

	fmt.Printf("[ROWSTORE] Notification reçue pour %s (%d abonné(s))\n", key, len(handlers))
	for _, handler := range handlers {
		handler(key)
	}
}
