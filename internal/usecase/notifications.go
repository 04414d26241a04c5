package usecase

import (
	"sync"
	"time"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

const maxPendingNotifications = 50

// Notifications acumula toasts até a tela buscá-los. Quando cheia, descarta a mais antiga.
type Notifications struct {
	mu      sync.Mutex
	pending []Notification
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

func (n *Notifications) Success(msg string) {
	n.push(LevelSuccess, msg)
}

func (n *Notifications) Error(msg string) {
	n.push(LevelError, msg)
}

func (n *Notifications) push(level NotificationLevel, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.pending) == maxPendingNotifications {
		n.pending = n.pending[1:]
	}
	n.pending = append(n.pending, Notification{Level: level, Message: msg, At: time.Now()})
}

// Drain devolve e limpa as notificações pendentes.
func (n *Notifications) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.pending
	n.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
