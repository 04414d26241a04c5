package usecase

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/datefmt"
	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
	"github.com/xavierca1/clinica-console/internal/logging"
)

const (
	msgClientUpdated      = "Cliente atualizado com sucesso!"
	msgClientUpdateFailed = "Erro ao atualizar cliente."
	msgClientDeleted      = "Cliente excluído com sucesso!"
	msgClientDeleteFailed = "Erro ao excluir cliente."
	msgClientCreated      = "Cliente cadastrado com sucesso!"
	msgClientCreateFailed = "Erro ao cadastrar cliente: "
	msgClientDetailFailed = "Erro ao carregar informações do cliente."

	PromptDeleteClient = "Tem certeza que deseja excluir este cliente?"

	slotLoad = "load"
)

// Roster é dono da lista de clientes da sessão. Chamadas de rede acontecem fora do lock.
type Roster struct {
	api    ClientAPI
	notify Notifier
	logger *zap.Logger
	fence  *fence

	mu      sync.RWMutex
	clients []entity.Client
	query   string
	loaded  bool
}

func NewRoster(api ClientAPI, notify Notifier, logger *zap.Logger) *Roster {
	return &Roster{
		api:    api,
		notify: notify,
		logger: logging.OrNop(logger).Named("roster"),
		fence:  newFence(),
	}
}

// Load troca a lista local inteira. Falha só vai para o log, sem toast.
func (r *Roster) Load(ctx context.Context) error {
	token := r.fence.issue(slotLoad)

	clients, err := r.api.ListClients(ctx)
	if !r.fence.isLatest(slotLoad, token) {
		r.logger.Debug("discarding stale roster load", zap.Uint64("token", token))
		return nil
	}
	if err != nil {
		r.logger.Error("failed to load clients", zap.Error(err))
		return classify("listar clientes", err)
	}
	if clients == nil {
		clients = []entity.Client{}
	}

	r.mu.Lock()
	r.clients = clients
	r.loaded = true
	r.mu.Unlock()

	r.logger.Debug("roster loaded", zap.Int("count", len(clients)))
	return nil
}

// Loaded indica se algum Load já teve sucesso.
func (r *Roster) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Lookup busca na lista local, sem chamada de rede.
func (r *Roster) Lookup(cpf string) (entity.Client, bool) {
	cpf = NormalizeCPF(cpf)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.CPF == cpf {
			return c, true
		}
	}
	return entity.Client{}, false
}

func (r *Roster) Clients() []entity.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Client, len(r.clients))
	copy(out, r.clients)
	return out
}

// Search grava a busca atual e devolve a visão filtrada. A lista autoritativa não muda.
func (r *Roster) Search(query string) []entity.Client {
	r.mu.Lock()
	r.query = query
	r.mu.Unlock()

	return r.Filtered()
}

func (r *Roster) Filtered() []entity.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterByName(r.clients, r.query)
}

func filterByName(clients []entity.Client, query string) []entity.Client {
	q := strings.ToLower(query)
	out := make([]entity.Client, 0, len(clients))
	for _, c := range clients {
		if q == "" || strings.Contains(strings.ToLower(c.Nome), q) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Roster) FetchDetail(ctx context.Context, cpf string) (*entity.Client, error) {
	client, err := r.api.GetClient(ctx, NormalizeCPF(cpf))
	if err != nil {
		r.logger.Error("failed to fetch client", zap.String("cpf", cpf), zap.Error(err))
		r.notify.Error(msgClientDetailFailed)
		if clinica.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, classify("buscar cliente", err)
	}
	return client, nil
}

// Save faz PUT do registro completo e substitui o item local pelo CPF.
// Em caso de falha o estado local não é revertido.
func (r *Roster) Save(ctx context.Context, client entity.Client) error {
	client = normalizeClientDates(client)
	slot := "save:" + client.CPF
	token := r.fence.issue(slot)

	err := r.api.UpdateClient(ctx, client)
	if !r.fence.isLatest(slot, token) {
		r.logger.Debug("discarding stale client save", zap.String("cpf", client.CPF), zap.Uint64("token", token))
		return nil
	}
	if err != nil {
		r.logger.Error("failed to update client", zap.String("cpf", client.CPF), zap.Error(err))
		r.notify.Error(msgClientUpdateFailed)
		return classify("atualizar cliente", err)
	}

	r.mu.Lock()
	for i := range r.clients {
		if r.clients[i].CPF == client.CPF {
			r.clients[i] = client
			break
		}
	}
	r.mu.Unlock()

	r.notify.Success(msgClientUpdated)
	return nil
}

// Create valida antes de qualquer chamada de rede e recarrega a lista após o POST.
func (r *Roster) Create(ctx context.Context, client entity.Client) error {
	if errs := ValidateClient(client); len(errs) > 0 {
		return errs
	}

	client.CPF = NormalizeCPF(client.CPF)
	client.Telefone = NormalizePhone(client.Telefone)
	client.Email = strings.TrimSpace(client.Email)
	client = normalizeClientDates(client)

	if err := r.api.CreateClient(ctx, client); err != nil {
		r.logger.Error("failed to create client", zap.String("cpf", client.CPF), zap.Error(err))
		r.notify.Error(msgClientCreateFailed + serverMessage(err))
		return classify("cadastrar cliente", err)
	}

	r.notify.Success(msgClientCreated)
	r.logger.Info("client created", zap.String("cpf", client.CPF))

	if err := r.Load(ctx); err != nil {
		r.logger.Warn("roster refresh after create failed", zap.Error(err))
	}
	return nil
}

func (r *Roster) Remove(ctx context.Context, cpf string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(PromptDeleteClient) {
		return ErrNotConfirmed
	}

	cpf = NormalizeCPF(cpf)
	if err := r.api.DeleteClient(ctx, cpf); err != nil {
		r.logger.Error("failed to delete client", zap.String("cpf", cpf), zap.Error(err))
		r.notify.Error(msgClientDeleteFailed)
		return classify("excluir cliente", err)
	}

	r.mu.Lock()
	kept := r.clients[:0:0]
	for _, c := range r.clients {
		if c.CPF != cpf {
			kept = append(kept, c)
		}
	}
	r.clients = kept
	r.mu.Unlock()

	r.notify.Success(msgClientDeleted)
	return nil
}

func normalizeClientDates(c entity.Client) entity.Client {
	c.DataNascimento = datefmt.ToISO(c.DataNascimento)
	c.DataInicioTratamento = datefmt.ToISO(c.DataInicioTratamento)
	c.DataFimTratamento = datefmt.ToISO(c.DataFimTratamento)
	return c
}
