// Package workspace mantém o estado de tela de cada sessão do console.
package workspace

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
	"github.com/xavierca1/clinica-console/internal/infra/session"
	"github.com/xavierca1/clinica-console/internal/logging"
	"github.com/xavierca1/clinica-console/internal/usecase"
)

// Workspace agrupa o que uma aba do console tinha em memória: sessão, view-models, formulários e toasts.
type Workspace struct {
	Session       *session.Context
	API           *clinica.Client
	Notifications *usecase.Notifications
	Auth          *usecase.Auth
	Roster        *usecase.Roster
	Payments      *usecase.Payments
	Registration  *usecase.RegistrationForm
	ClientEdit    *usecase.ClientEditForm
	PaymentForm   *usecase.PaymentForm
	ReceiptForm   *usecase.ReceiptForm
	ReportForm    *usecase.ReportForm

	mu       sync.Mutex
	lastSeen time.Time
}

func (w *Workspace) ID() string {
	return w.Session.ID()
}

func (w *Workspace) Authenticated() bool {
	_, ok := w.Session.Get()
	return ok
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

type Config struct {
	ClinicAPIURL           string
	ClinicAPITimeout       time.Duration
	SessionTTL             time.Duration
	RegistrationCloseDelay time.Duration
	HTTPClient             *http.Client
}

type Manager struct {
	cfg    Config
	store  session.Store
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewManager(cfg Config, store session.Store, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      store,
		logger:     logging.OrNop(logger).Named("workspace"),
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Resolve devolve o workspace da sessão. Depois de um restart ele é reconstruído a partir do store;
// id vazio ou desconhecido gera um workspace anônimo com id novo.
func (m *Manager) Resolve(ctx context.Context, id string) (*Workspace, error) {
	now := m.now()

	if id != "" {
		m.mu.Lock()
		ws, ok := m.workspaces[id]
		m.mu.Unlock()
		if ok {
			ws.touch(now)
			return ws, nil
		}

		ws, err := m.restore(ctx, id)
		if err == nil {
			ws.touch(now)
			return m.register(ws), nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	}

	ws := m.build(session.NewID())
	ws.touch(now)
	return m.register(ws), nil
}

func (m *Manager) restore(ctx context.Context, id string) (*Workspace, error) {
	ws := m.build(id)
	if err := ws.Session.Restore(ctx); err != nil {
		return nil, err
	}
	m.logger.Debug("workspace restored from session store", zap.String("session_id", id))
	return ws, nil
}

// register evita duplicar workspaces quando duas requisições restauram a mesma sessão ao mesmo tempo.
func (m *Manager) register(ws *Workspace) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.workspaces[ws.ID()]; ok {
		return existing
	}
	m.workspaces[ws.ID()] = ws
	return ws
}

func (m *Manager) build(id string) *Workspace {
	logger := m.logger.With(zap.String("session_id", id))
	sess := session.NewContext(id, m.store, m.cfg.SessionTTL)

	opts := []clinica.Option{
		clinica.WithTimeout(m.cfg.ClinicAPITimeout),
		clinica.WithLogger(logger),
		clinica.OnUnauthorized(func(ctx context.Context) {
			logger.Info("backend rejected session token, clearing session")
			if err := sess.Clear(context.WithoutCancel(ctx)); err != nil {
				logger.Error("failed to clear session", zap.Error(err))
			}
		}),
	}
	if m.cfg.HTTPClient != nil {
		opts = append(opts, clinica.WithHTTPClient(m.cfg.HTTPClient))
	}
	api := clinica.NewClient(m.cfg.ClinicAPIURL, sess, opts...)

	notifications := usecase.NewNotifications()
	roster := usecase.NewRoster(api, notifications, logger)
	payments := usecase.NewPayments(api, notifications, logger)

	return &Workspace{
		Session:       sess,
		API:           api,
		Notifications: notifications,
		Auth:          usecase.NewAuth(api, sess, notifications, logger),
		Roster:        roster,
		Payments:      payments,
		Registration:  usecase.NewRegistrationForm(roster, m.cfg.RegistrationCloseDelay),
		ClientEdit:    usecase.NewClientEditForm(roster),
		PaymentForm:   usecase.NewPaymentForm(payments),
		ReceiptForm:   usecase.NewReceiptForm(payments),
		ReportForm:    usecase.NewReportForm(payments),
	}
}

// Forget descarta o workspace em memória (logout). O registro no store é responsabilidade do Auth.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	delete(m.workspaces, id)
	m.mu.Unlock()
}

// Evict remove workspaces sem sessão válida e ociosos há mais de idle.
func (m *Manager) Evict(idle time.Duration) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, ws := range m.workspaces {
		if ws.Authenticated() || ws.idleSince(now) < idle {
			continue
		}
		delete(m.workspaces, id)
		evicted++
	}
	return evicted
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}
