package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"surgicare-core/internal/modules/sync/dto"
)

// EventsHub diffuse les événements de synchronisation aux sessions tableau de
// bord connectées en websocket (propagation quasi temps réel entre postes).
type EventsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewEventsHub() *EventsHub {
	return &EventsHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Broadcast envoie un événement à tous les clients connectés.
// Un client en échec d'écriture est retiré silencieusement.
func (h *EventsHub) Broadcast(event dto.SyncEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.Unlock()

	for _, conn := range clients {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			h.removeClient(conn)
		}
		cancel()
	}
}

// Accept intègre une nouvelle connexion websocket au hub
func (h *EventsHub) Accept(w http.ResponseWriter, r *http.Request) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // même origine que les tableaux de bord, CORS géré en amont
	})
	if err != nil {
		return fmt.Errorf("websocket accept failed: %w", err)
	}

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	fmt.Printf("[SYNC] Session tableau de bord connectée (%d au total)\n", count)

	go h.readLoop(conn)
	return nil
}

// Close ferme toutes les connexions (arrêt du serveur)
func (h *EventsHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
	}
	h.clients = make(map[*websocket.Conn]bool)
}

// readLoop draine les messages entrants pour détecter la déconnexion
func (h *EventsHub) readLoop(conn *websocket.Conn) {
	defer h.removeClient(conn)
	for {
		if _, _, err := conn.Read(context.Background()); err != nil {
			return
		}
	}
}

func (h *EventsHub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
	h.mu.Unlock()
}
