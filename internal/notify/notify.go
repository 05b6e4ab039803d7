// Package notify carries user-visible toasts from the state components to
// whatever rendering layer is attached.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/amythology/seedsmart-client/pkg/logger"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Toast is a single user-visible notification.
type Toast struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier is the surface the state components report through.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
	Warn(msg string)
}

// Hub logs every toast and retains a bounded backlog for the rendering
// layer to drain. When the backlog is full the oldest toast is dropped.
type Hub struct {
	mu      sync.Mutex
	logg    *logger.Logger
	backlog []Toast
	limit   int
}

const defaultBacklogLimit = 32

// NewHub builds a hub. limit <= 0 selects the default backlog size.
func NewHub(logg *logger.Logger, limit int) *Hub {
	if limit <= 0 {
		limit = defaultBacklogLimit
	}
	return &Hub{logg: logg, limit: limit}
}

func (h *Hub) Success(msg string) { h.push(KindSuccess, msg) }
func (h *Hub) Error(msg string)   { h.push(KindError, msg) }
func (h *Hub) Info(msg string)    { h.push(KindInfo, msg) }
func (h *Hub) Warn(msg string)    { h.push(KindWarning, msg) }

func (h *Hub) push(kind Kind, msg string) {
	h.mu.Lock()
	h.backlog = append(h.backlog, Toast{Kind: kind, Message: msg, At: time.Now()})
	if len(h.backlog) > h.limit {
		h.backlog = h.backlog[len(h.backlog)-h.limit:]
	}
	h.mu.Unlock()

	if h.logg == nil {
		return
	}
	ctx := h.logg.WithField(context.Background(), "toast", string(kind))
	switch kind {
	case KindError, KindWarning:
		h.logg.Warn(ctx, msg)
	default:
		h.logg.Info(ctx, msg)
	}
}

// Drain returns the pending toasts and clears the backlog.
func (h *Hub) Drain() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.backlog
	h.backlog = nil
	return out
}
