package usecase

import (
	"context"
	"sync"

	"github.com/xavierca1/clinica-console/internal/datefmt"
	"github.com/xavierca1/clinica-console/internal/entity"
)

func BlankPaymentDraft() entity.Payment {
	return entity.Payment{Metodo: entity.MethodPix}
}

// PaymentForm cria (sem id) ou edita (com id) um pagamento do cliente selecionado.
type PaymentForm struct {
	Modal

	payments *Payments

	mu    sync.Mutex
	draft entity.Payment
}

func NewPaymentForm(payments *Payments) *PaymentForm {
	return &PaymentForm{payments: payments, draft: BlankPaymentDraft()}
}

func (f *PaymentForm) OpenNew() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.open(); err != nil {
		return err
	}
	f.draft = BlankPaymentDraft()
	return nil
}

// OpenEdit preenche o rascunho a partir de um pagamento salvo, com a data em ISO.
func (f *PaymentForm) OpenEdit(p entity.Payment) error {
	if !p.Saved() {
		return ErrPaymentWithoutID
	}
	p.DiaDoPagamento = datefmt.ToISO(p.DiaDoPagamento)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.open(); err != nil {
		return err
	}
	f.draft = p
	return nil
}

func (f *PaymentForm) Close() {
	f.mu.Lock()
	f.draft = BlankPaymentDraft()
	f.mu.Unlock()

	f.close()
}

func (f *PaymentForm) Draft() entity.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft mantém o id de edição; método vazio vira PIX.
func (f *PaymentForm) SetDraft(p entity.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = f.draft.ID
	if p.Metodo == "" {
		p.Metodo = entity.MethodPix
	}
	f.draft = p
}

func (f *PaymentForm) Validate() ValidationErrors {
	return ValidatePayment(f.Draft())
}

func (f *PaymentForm) Submit(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}
	if errs := f.Validate(); len(errs) > 0 {
		f.fail(errs)
		return errs
	}

	if err := f.payments.Save(ctx, f.Draft()); err != nil {
		f.fail(err)
		return err
	}

	f.Close()
	return nil
}

type ReceiptDraft struct {
	Month string `json:"month"`
	Year  string `json:"year"`
}

// ReceiptForm pede o recibo mensal do cliente selecionado.
type ReceiptForm struct {
	Modal

	payments *Payments

	mu    sync.Mutex
	draft ReceiptDraft
}

func NewReceiptForm(payments *Payments) *ReceiptForm {
	return &ReceiptForm{payments: payments}
}

func (f *ReceiptForm) Open() error {
	return f.open()
}

func (f *ReceiptForm) Close() {
	f.close()
}

func (f *ReceiptForm) Draft() ReceiptDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *ReceiptForm) SetDraft(d ReceiptDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// Submit entrega o PDF ao sink e limpa mês e ano. Em falha o rascunho fica.
func (f *ReceiptForm) Submit(ctx context.Context, sink DocumentSink) error {
	ref, ok := f.payments.Selected()
	if !ok {
		return ErrNoClientSelected
	}
	if err := f.begin(); err != nil {
		return err
	}

	d := f.Draft()
	if err := f.payments.GenerateReceipt(ctx, ref.CPF, d.Month, d.Year, sink); err != nil {
		f.fail(err)
		return err
	}

	f.SetDraft(ReceiptDraft{})
	f.close()
	return nil
}

type ReportDraft struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ReportForm struct {
	Modal

	payments *Payments

	mu    sync.Mutex
	draft ReportDraft
}

func NewReportForm(payments *Payments) *ReportForm {
	return &ReportForm{payments: payments}
}

func (f *ReportForm) Open() error {
	return f.open()
}

func (f *ReportForm) Close() {
	f.close()
}

func (f *ReportForm) Draft() ReportDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *ReportForm) SetDraft(d ReportDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

func (f *ReportForm) Submit(ctx context.Context, sink DocumentSink) error {
	if err := f.begin(); err != nil {
		return err
	}

	d := f.Draft()
	if err := f.payments.GenerateReport(ctx, d.StartDate, d.EndDate, sink); err != nil {
		f.fail(err)
		return err
	}

	f.SetDraft(ReportDraft{})
	f.close()
	return nil
}
