package entity

// Entidade: Client (paciente). O CPF é a chave no backend e não muda depois do cadastro.
type Client struct {
	ID                   int       `json:"id,omitempty"`
	Nome                 string    `json:"nome"`
	CPF                  string    `json:"cpf"`
	Email                string    `json:"email"`
	Telefone             string    `json:"telefone"`
	Endereco             string    `json:"endereco"`
	DataNascimento       string    `json:"dataNascimento"`
	Genero               Gender    `json:"generoEnum,omitempty"`
	Estado               State     `json:"estadosEnum,omitempty"`
	Religiao             string    `json:"religiao"`
	Tratamento           string    `json:"tratamento"`
	Medicamentos         string    `json:"medicamentos"`
	Frequencia           string    `json:"frequencia"`
	QueixaPrincipal      string    `json:"queixaPrincipal"`
	Escolaridade         Education `json:"escolaridadeEnum,omitempty"`
	DataInicioTratamento string    `json:"dataInicioTratamento"`
	DataFimTratamento    string    `json:"dataFimTratamento"`
	RecebeuAlta          Discharge `json:"recebeuAltaEnum,omitempty"`
}

// ClientRef é o mínimo que a tela financeira precisa para selecionar um cliente.
type ClientRef struct {
	Nome string `json:"nome"`
	CPF  string `json:"cpf"`
}

func (c Client) Ref() ClientRef {
	return ClientRef{Nome: c.Nome, CPF: c.CPF}
}
