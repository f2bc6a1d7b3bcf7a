package postgres

import (
	"context"
	"fmt"
	"time"
)

// NotificationHandler reçoit le payload brut d'une notification PostgreSQL.
type NotificationHandler func(payload string)

// Listener maintient une connexion dédiée en LISTEN sur un canal pg_notify
// et redistribue chaque notification au handler enregistré.
// La connexion est ré-établie automatiquement après une coupure.
type Listener struct {
	client  *Client
	channel string
	handler NotificationHandler

	retryDelay time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewListener(client *Client, channel string, handler NotificationHandler) *Listener {
	return &Listener{
		client:     client,
		channel:    channel,
		handler:    handler,
		retryDelay: 3 * time.Second,
	}
}

// Start lance la boucle d'écoute dans une goroutine dédiée.
func (l *Listener) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		for {
			if err := l.listen(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				fmt.Printf("[LISTENER] ⚠️ Écoute interrompue sur %s: %v (reconnexion dans %v)\n",
					l.channel, err, l.retryDelay)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(l.retryDelay):
			}
		}
	}()
}

// Stop arrête la boucle d'écoute et attend sa terminaison.
func (l *Listener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.client.Pool().Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %s", l.channel)); err != nil {
		return fmt.Errorf("LISTEN %s failed: %w", l.channel, err)
	}

	fmt.Printf("[LISTENER] ✅ Écoute active sur le canal %s\n", l.channel)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification failed: %w", err)
		}

		l.handler(notification.Payload)
	}
}
