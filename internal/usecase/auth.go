package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
	"github.com/xavierca1/clinica-console/internal/infra/session"
	"github.com/xavierca1/clinica-console/internal/logging"
)

const (
	msgLoginFailed    = "Erro ao fazer login: "
	msgRegisterFailed = "Erro ao registrar usuário: "
	msgRegistered     = "Usuário registrado com sucesso!"
)

type Auth struct {
	api     AuthAPI
	session SessionContext
	notify  Notifier
	logger  *zap.Logger
}

func NewAuth(api AuthAPI, sess SessionContext, notify Notifier, logger *zap.Logger) *Auth {
	return &Auth{
		api:     api,
		session: sess,
		notify:  notify,
		logger:  logging.OrNop(logger).Named("auth"),
	}
}

// Login guarda o token do backend no contexto da sessão.
func (a *Auth) Login(ctx context.Context, input LoginInput) (*SessionOutput, error) {
	if errs := ValidateCredentials(input.Username, input.Password); len(errs) > 0 {
		return nil, errs
	}
	username := strings.TrimSpace(input.Username)

	token, err := a.api.Login(ctx, clinica.Credentials{Username: username, Password: input.Password})
	if err != nil {
		a.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		a.notify.Error(msgLoginFailed + serverMessage(err))
		return nil, loginError(err)
	}

	rec, err := a.session.Set(ctx, username, token)
	if err != nil {
		return nil, &TechnicalError{Code: "SESSION_STORE", Message: "falha ao salvar sessão", Err: err}
	}

	a.logger.Info("user logged in", zap.String("username", username), zap.Time("expires_at", rec.ExpiresAt))
	return newSessionOutput(rec), nil
}

func (a *Auth) RegisterUser(ctx context.Context, input LoginInput) error {
	if errs := ValidateCredentials(input.Username, input.Password); len(errs) > 0 {
		return errs
	}
	username := strings.TrimSpace(input.Username)

	if err := a.api.Register(ctx, clinica.Credentials{Username: username, Password: input.Password}); err != nil {
		a.logger.Warn("user registration failed", zap.String("username", username), zap.Error(err))
		a.notify.Error(msgRegisterFailed + serverMessage(err))
		return loginError(err)
	}

	a.notify.Success(msgRegistered)
	return nil
}

func (a *Auth) Logout(ctx context.Context) error {
	if rec, ok := a.session.Get(); ok {
		a.logger.Info("user logged out", zap.String("username", rec.Username))
	}
	return a.session.Clear(ctx)
}

// Current devolve a sessão ativa, se houver.
func (a *Auth) Current() (*SessionOutput, bool) {
	rec, ok := a.session.Get()
	if !ok {
		return nil, false
	}
	return newSessionOutput(rec), true
}

// loginError não trata 401 como sessão expirada: no login ele significa credencial inválida.
func loginError(err error) error {
	if _, ok := clinica.AsAPIError(err); ok {
		return err
	}
	return classify("autenticar", err)
}

func newSessionOutput(rec session.Record) *SessionOutput {
	return &SessionOutput{
		SessionID: rec.ID,
		Username:  rec.Username,
		ExpiresAt: rec.ExpiresAt,
	}
}
