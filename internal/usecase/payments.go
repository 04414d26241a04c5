package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/datefmt"
	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/logging"
)

const (
	msgPaymentUpdated      = "Pagamento atualizado com sucesso!"
	msgPaymentCreated      = "Pagamento cadastrado com sucesso!"
	msgPaymentSaveFailed   = "Erro ao salvar pagamento."
	msgPaymentDeleted      = "Pagamento excluído com sucesso!"
	msgPaymentDeleteFailed = "Erro ao excluir pagamento."
	msgPaymentsLoadFailed  = "Erro ao carregar pagamentos."
	msgReceiptGenerated    = "Recibo gerado com sucesso!"
	msgReceiptFailed       = "Erro ao gerar recibo. Verifique os dados selecionados."
	msgReportGenerated     = "Relatório gerado com sucesso!"
	msgReportFailed        = "Erro ao gerar relatório. Verifique as datas."

	PromptDeletePayment = "Tem certeza que deseja excluir este pagamento?"

	slotList = "list"

	contentTypePDF = "application/pdf"
)

// Payments guarda os pagamentos do cliente selecionado. Trocar a seleção descarta a coleção.
type Payments struct {
	api    PaymentAPI
	notify Notifier
	logger *zap.Logger
	fence  *fence

	mu       sync.RWMutex
	selected *entity.ClientRef
	payments []entity.Payment
}

func NewPayments(api PaymentAPI, notify Notifier, logger *zap.Logger) *Payments {
	return &Payments{
		api:    api,
		notify: notify,
		logger: logging.OrNop(logger).Named("payments"),
		fence:  newFence(),
	}
}

func (p *Payments) Select(client entity.ClientRef) {
	client.CPF = NormalizeCPF(client.CPF)

	p.mu.Lock()
	p.selected = &client
	p.payments = nil
	p.mu.Unlock()

	// invalida listagens em voo do cliente anterior
	p.fence.issue(slotList)
}

func (p *Payments) Selected() (entity.ClientRef, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.selected == nil {
		return entity.ClientRef{}, false
	}
	return *p.selected, true
}

func (p *Payments) Payments() []entity.Payment {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]entity.Payment, len(p.payments))
	copy(out, p.payments)
	return out
}

// List recarrega os pagamentos do cliente selecionado.
func (p *Payments) List(ctx context.Context) error {
	ref, ok := p.Selected()
	if !ok {
		return ErrNoClientSelected
	}
	return p.ListForClient(ctx, ref.CPF)
}

// ListForClient só atua sobre o cliente selecionado; nunca troca a seleção.
func (p *Payments) ListForClient(ctx context.Context, cpf string) error {
	cpf = NormalizeCPF(cpf)
	if ref, ok := p.Selected(); !ok || ref.CPF != cpf {
		return ErrNoClientSelected
	}
	return p.fetch(ctx, cpf, p.fence.issue(slotList))
}

// fetch grava a listagem apenas se o token ainda for o último do slot e o cliente continuar selecionado.
func (p *Payments) fetch(ctx context.Context, cpf string, token uint64) error {
	payments, err := p.api.ListPayments(ctx, cpf)
	if !p.fence.isLatest(slotList, token) {
		p.logger.Debug("discarding stale payment list", zap.String("cpf", cpf), zap.Uint64("token", token))
		return nil
	}
	if err != nil {
		p.logger.Error("failed to list payments", zap.String("cpf", cpf), zap.Error(err))
		p.notify.Error(msgPaymentsLoadFailed)
		return classify("listar pagamentos", err)
	}
	if payments == nil {
		payments = []entity.Payment{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil || p.selected.CPF != cpf {
		p.logger.Debug("discarding payment list of unselected client", zap.String("cpf", cpf))
		return nil
	}
	p.payments = payments
	return nil
}

// Save decide entre criação e atualização pela presença do id e depois recarrega a lista.
func (p *Payments) Save(ctx context.Context, payment entity.Payment) error {
	ref, ok := p.Selected()
	if !ok {
		return ErrNoClientSelected
	}
	if errs := ValidatePayment(payment); len(errs) > 0 {
		return errs
	}

	amount, _ := ParseAmount(payment.ValorPago)
	req := entity.PaymentRequest{
		CPF:            ref.CPF,
		ValorPago:      amount.StringFixed(2),
		DiaDoPagamento: datefmt.ToISO(strings.TrimSpace(payment.DiaDoPagamento)),
		Referencia:     strings.TrimSpace(payment.Referencia),
		Metodo:         payment.Metodo,
	}

	// o token é tirado antes da mutação: um Select no meio do caminho invalida o refetch
	token := p.fence.issue(slotList)

	var (
		err error
		msg string
	)
	if payment.Saved() {
		err = p.api.UpdatePayment(ctx, *payment.ID, req)
		msg = msgPaymentUpdated
	} else {
		err = p.api.CreatePayment(ctx, req)
		msg = msgPaymentCreated
	}
	if err != nil {
		p.logger.Error("failed to save payment", zap.String("cpf", ref.CPF), zap.Bool("update", payment.Saved()), zap.Error(err))
		p.notify.Error(msgPaymentSaveFailed)
		return classify("salvar pagamento", err)
	}

	p.notify.Success(msg)

	if !p.fence.isLatest(slotList, token) {
		p.logger.Debug("skipping payment refresh, selection changed during save", zap.String("cpf", ref.CPF))
		return nil
	}
	if err := p.fetch(ctx, ref.CPF, token); err != nil {
		p.logger.Warn("payment list refresh after save failed", zap.Error(err))
	}
	return nil
}

// Remove filtra a lista local sem refazer a listagem.
func (p *Payments) Remove(ctx context.Context, id int, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(PromptDeletePayment) {
		return ErrNotConfirmed
	}

	if err := p.api.DeletePayment(ctx, id); err != nil {
		p.logger.Error("failed to delete payment", zap.Int("id", id), zap.Error(err))
		p.notify.Error(msgPaymentDeleteFailed)
		return classify("excluir pagamento", err)
	}

	p.mu.Lock()
	kept := p.payments[:0:0]
	for _, pay := range p.payments {
		if pay.ID == nil || *pay.ID != id {
			kept = append(kept, pay)
		}
	}
	p.payments = kept
	p.mu.Unlock()

	p.notify.Success(msgPaymentDeleted)
	return nil
}

func (p *Payments) GenerateReceipt(ctx context.Context, cpf, month, year string, sink DocumentSink) error {
	if errs := ValidateReceiptPeriod(month, year); len(errs) > 0 {
		return errs
	}
	cpf = NormalizeCPF(cpf)
	month, year = strings.TrimSpace(month), strings.TrimSpace(year)

	data, err := p.api.Receipt(ctx, cpf, month, year)
	if err != nil {
		p.logger.Error("failed to generate receipt", zap.String("cpf", cpf), zap.String("month", month), zap.String("year", year), zap.Error(err))
		p.notify.Error(msgReceiptFailed)
		return classify("gerar recibo", err)
	}

	doc := Document{
		Name:        ReceiptFileName(cpf, month, year),
		ContentType: contentTypePDF,
		Data:        data,
	}
	if err := sink.Open(doc); err != nil {
		return &TechnicalError{Code: CodeDocumentSink, Message: "falha ao entregar recibo", Err: err}
	}

	p.notify.Success(msgReceiptGenerated)
	return nil
}

func (p *Payments) GenerateReport(ctx context.Context, startDate, endDate string, sink DocumentSink) error {
	if errs := ValidateReportRange(startDate, endDate); len(errs) > 0 {
		return errs
	}
	startDate = datefmt.ToISO(strings.TrimSpace(startDate))
	endDate = datefmt.ToISO(strings.TrimSpace(endDate))

	data, err := p.api.Report(ctx, startDate, endDate)
	if err != nil {
		p.logger.Error("failed to generate report", zap.String("start", startDate), zap.String("end", endDate), zap.Error(err))
		p.notify.Error(msgReportFailed)
		return classify("gerar relatório", err)
	}

	doc := Document{
		Name:        fmt.Sprintf("relatorio-%s-%s.pdf", startDate, endDate),
		ContentType: contentTypePDF,
		Data:        data,
	}
	if err := sink.Open(doc); err != nil {
		return &TechnicalError{Code: CodeDocumentSink, Message: "falha ao entregar relatório", Err: err}
	}

	p.notify.Success(msgReportGenerated)
	return nil
}

func ReceiptFileName(cpf, month, year string) string {
	if len(month) == 1 {
		month = "0" + month
	}
	return fmt.Sprintf("recibo-%s-%s-%s.pdf", cpf, year, month)
}
