package entity

// Payment pertence a um Client via CPF. ID nil = rascunho ainda não salvo.
type Payment struct {
	ID             *int          `json:"id,omitempty"`
	ValorPago      string        `json:"valorPago"`
	DiaDoPagamento string        `json:"diaDoPagamento"`
	Referencia     string        `json:"referencia"`
	Metodo         PaymentMethod `json:"metodoPagamentoEnum"`
}

func (p Payment) Saved() bool {
	return p.ID != nil
}

// PaymentRequest é o corpo de POST /financeiro e PUT /financeiro/{id}.
type PaymentRequest struct {
	CPF            string        `json:"cpf"`
	ValorPago      string        `json:"valorPago"`
	DiaDoPagamento string        `json:"diaDoPagamento"`
	Referencia     string        `json:"referencia"`
	Metodo         PaymentMethod `json:"metodoPagamentoEnum"`
}

func IntPtr(v int) *int {
	return &v
}
