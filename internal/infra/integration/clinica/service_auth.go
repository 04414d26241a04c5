package clinica

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/infra/session"
	"github.com/xavierca1/clinica-console/internal/logging"
)

const opaqueTokenLifetime = time.Hour

// ServiceAuthenticator mantém um token de conta de serviço para processos sem navegador (worker de recibos).
type ServiceAuthenticator struct {
	api    *Client
	creds  Credentials
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewServiceAuthenticator(baseURL string, creds Credentials, logger *zap.Logger, opts ...Option) *ServiceAuthenticator {
	return &ServiceAuthenticator{
		api:    NewClient(baseURL, nil, opts...),
		creds:  creds,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// EnsureAuthenticated renova o token quando falta menos de 30s para expirar.
func (a *ServiceAuthenticator) EnsureAuthenticated(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.now().Add(30*time.Second).Before(a.tokenExpiry) {
		return nil
	}

	a.logger.Info("renovando token da conta de serviço", zap.String("username", a.creds.Username))

	token, err := a.api.Login(ctx, a.creds)
	if err != nil {
		return err
	}

	a.token = token
	a.tokenExpiry = session.ExpiryOf(token, a.now(), opaqueTokenLifetime)
	return nil
}

// Invalidate força novo login na próxima chamada (ex.: backend respondeu 401).
func (a *ServiceAuthenticator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
}

func (a *ServiceAuthenticator) Token() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token, a.token != ""
}
