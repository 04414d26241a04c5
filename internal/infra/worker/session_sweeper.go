package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/logging"
)

// ExpiredSessionStore apaga registros de sessão vencidos.
type ExpiredSessionStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// WorkspaceEvicter descarta workspaces em memória sem sessão válida.
type WorkspaceEvicter interface {
	Evict(idle time.Duration) int
}

type SessionSweeper struct {
	store        ExpiredSessionStore
	workspaces   WorkspaceEvicter
	idleWindow   time.Duration
	tickInterval time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

const defaultSweepInterval = time.Minute

// NewSessionSweeper troca um intervalo não positivo pelo padrão de 1 minuto.
func NewSessionSweeper(store ExpiredSessionStore, workspaces WorkspaceEvicter, interval, idle time.Duration, logger *zap.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &SessionSweeper{
		store:        store,
		workspaces:   workspaces,
		idleWindow:   idle,
		tickInterval: interval,
		logger:       logging.OrNop(logger).Named("session_sweeper"),
		now:          time.Now,
	}
}

func (w *SessionSweeper) Start(ctx context.Context) {
	w.logger.Info("session sweeper iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("session sweeper encerrado")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	deleted, err := w.store.DeleteExpired(ctx, w.now())
	if err != nil {
		w.logger.Error("erro ao apagar sessões expiradas", zap.Error(err))
	}

	evicted := 0
	if w.workspaces != nil {
		evicted = w.workspaces.Evict(w.idleWindow)
	}

	if deleted > 0 || evicted > 0 {
		w.logger.Info("sessões expiradas removidas", zap.Int("deleted", deleted), zap.Int("evicted", evicted))
	}
}
