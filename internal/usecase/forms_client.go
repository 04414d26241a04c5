package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/clinica-console/internal/datefmt"
	"github.com/xavierca1/clinica-console/internal/entity"
)

// DefaultClientDraft é o rascunho inicial do cadastro.
func DefaultClientDraft() entity.Client {
	return entity.Client{
		Genero:      entity.GenderMasculino,
		Estado:      "MG",
		RecebeuAlta: entity.DischargeNao,
	}
}

type RegistrationForm struct {
	Modal

	roster     *Roster
	closeDelay time.Duration

	mu         sync.Mutex
	draft      entity.Client
	closeTimer *time.Timer
}

func NewRegistrationForm(roster *Roster, closeDelay time.Duration) *RegistrationForm {
	return &RegistrationForm{roster: roster, closeDelay: closeDelay, draft: DefaultClientDraft()}
}

// Open reabre o cadastro. Um fechamento agendado por um envio anterior é cancelado.
func (f *RegistrationForm) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
		f.close()
	}
	if err := f.open(); err != nil {
		return err
	}
	f.draft = DefaultClientDraft()
	return nil
}

func (f *RegistrationForm) Close() {
	f.mu.Lock()
	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
	}
	f.mu.Unlock()

	f.close()
}

func (f *RegistrationForm) Draft() entity.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft troca o rascunho. Enums vazios recebem os valores padrão.
func (f *RegistrationForm) SetDraft(c entity.Client) {
	defaults := DefaultClientDraft()
	if c.Genero == "" {
		c.Genero = defaults.Genero
	}
	if c.Estado == "" {
		c.Estado = defaults.Estado
	}
	if c.RecebeuAlta == "" {
		c.RecebeuAlta = defaults.RecebeuAlta
	}

	f.mu.Lock()
	f.draft = c
	f.mu.Unlock()
}

func (f *RegistrationForm) Validate() ValidationErrors {
	return ValidateClient(f.Draft())
}

// Submit bloqueia o envio se houver erro de campo. Em sucesso o modal fecha após closeDelay.
func (f *RegistrationForm) Submit(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}
	if errs := f.Validate(); len(errs) > 0 {
		f.fail(errs)
		return errs
	}

	if err := f.roster.Create(ctx, f.Draft()); err != nil {
		f.fail(err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft = DefaultClientDraft()
	if f.closeDelay <= 0 {
		f.close()
		return nil
	}
	var t *time.Timer
	t = time.AfterFunc(f.closeDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		// um Open ou Close posterior já assumiu o modal
		if f.closeTimer != t {
			return
		}
		f.closeTimer = nil
		f.close()
	})
	f.closeTimer = t
	return nil
}

// ClientEditForm edita um cliente existente. O CPF vem do registro carregado e não muda.
type ClientEditForm struct {
	Modal

	roster *Roster

	mu    sync.Mutex
	draft entity.Client
}

func NewClientEditForm(roster *Roster) *ClientEditForm {
	return &ClientEditForm{roster: roster}
}

// Open busca o registro completo e preenche o rascunho. Não troca o rascunho de um envio em andamento.
func (f *ClientEditForm) Open(ctx context.Context, cpf string) (entity.Client, error) {
	if f.State() == ModalSubmitting {
		return entity.Client{}, ErrSubmitting
	}
	client, err := f.roster.FetchDetail(ctx, cpf)
	if err != nil {
		return entity.Client{}, err
	}

	c := *client
	c.DataNascimento = datefmt.ToISO(c.DataNascimento)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.open(); err != nil {
		return entity.Client{}, err
	}
	f.draft = c
	return c, nil
}

func (f *ClientEditForm) Close() {
	f.close()
}

func (f *ClientEditForm) Draft() entity.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft ignora qualquer mudança de CPF.
func (f *ClientEditForm) SetDraft(c entity.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c.CPF = f.draft.CPF
	if c.ID == 0 {
		c.ID = f.draft.ID
	}
	f.draft = c
}

func (f *ClientEditForm) Submit(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}

	if err := f.roster.Save(ctx, f.Draft()); err != nil {
		f.fail(err)
		return err
	}

	f.close()
	return nil
}
