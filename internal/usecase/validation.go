package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/clinica-console/internal/datefmt"
	"github.com/xavierca1/clinica-console/internal/entity"
)

var (
	cpfPunctuation   = regexp.MustCompile(`[.\-/\s]`)
	phonePunctuation = regexp.MustCompile(`[()\-+.\s]`)
	cpfPattern       = regexp.MustCompile(`^\d{11}$`)
	phonePattern     = regexp.MustCompile(`^\d{10,11}$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
	monthPattern     = regexp.MustCompile(`^(0?[1-9]|1[0-2])$`)
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors agrega os erros por campo; é o que a tela mostra ao lado de cada input.
type ValidationErrors map[string]string

func (v ValidationErrors) add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, ValidationError{Field: f, Message: v[f]}.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NormalizeCPF remove pontuação; o resultado ainda precisa passar por isValidCPF.
func NormalizeCPF(cpf string) string {
	return cpfPunctuation.ReplaceAllString(cpf, "")
}

func NormalizePhone(phone string) string {
	return phonePunctuation.ReplaceAllString(phone, "")
}

func isValidCPF(cpf string) bool {
	return cpfPattern.MatchString(NormalizeCPF(cpf))
}

func isValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

func isValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateClient aplica as regras do cadastro. Nenhuma chamada de rede acontece se houver erro.
func ValidateClient(c entity.Client) ValidationErrors {
	errs := ValidationErrors{}

	required := []struct {
		field string
		value string
	}{
		{"nome", c.Nome},
		{"endereco", c.Endereco},
		{"religiao", c.Religiao},
		{"tratamento", c.Tratamento},
		{"medicamentos", c.Medicamentos},
		{"queixaPrincipal", c.QueixaPrincipal},
		{"frequencia", c.Frequencia},
		{"dataInicioTratamento", c.DataInicioTratamento},
	}
	for _, r := range required {
		if blank(r.value) {
			errs.add(r.field, "is required")
		}
	}

	if blank(c.CPF) {
		errs.add("cpf", "is required")
	} else if !isValidCPF(c.CPF) {
		errs.add("cpf", "must have 11 digits")
	}

	if blank(c.Email) {
		errs.add("email", "is required")
	} else if !isValidEmail(c.Email) {
		errs.add("email", "is invalid")
	}

	if blank(c.Telefone) {
		errs.add("telefone", "is required")
	} else if !isValidPhoneNumber(c.Telefone) {
		errs.add("telefone", "must have 10 or 11 digits")
	}

	if !c.Escolaridade.Valid() {
		errs.add("escolaridadeEnum", "must be a valid education level")
	}
	if !c.Genero.Valid() {
		errs.add("generoEnum", "must be MASCULINO, FEMININO or OUTRO")
	}
	if !c.Estado.Valid() {
		errs.add("estadosEnum", "must be a valid UF")
	}
	if c.RecebeuAlta != "" && !c.RecebeuAlta.Valid() {
		errs.add("recebeuAltaEnum", "must be SIM or NAO")
	}

	return errs
}

// ParseAmount aceita "150.50" e "150,50". O valor precisa ser positivo.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("must be a decimal number")
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("must be greater than zero")
	}
	return d, nil
}

func ValidatePayment(p entity.Payment) ValidationErrors {
	errs := ValidationErrors{}

	if blank(p.ValorPago) {
		errs.add("valorPago", "is required")
	} else if _, err := ParseAmount(p.ValorPago); err != nil {
		errs.add("valorPago", err.Error())
	}
	if blank(p.DiaDoPagamento) {
		errs.add("diaDoPagamento", "is required")
	} else if _, err := datefmt.Parse(p.DiaDoPagamento); err != nil {
		errs.add("diaDoPagamento", "must be a valid date")
	}
	if !p.Metodo.Valid() {
		errs.add("metodoPagamentoEnum", "must be PIX, CARTAO, DINHEIRO, BOLETO or OUTRO")
	}

	return errs
}

func ValidateReceiptPeriod(month, year string) ValidationErrors {
	errs := ValidationErrors{}
	if !monthPattern.MatchString(strings.TrimSpace(month)) {
		errs.add("month", "must be 1-12")
	}
	if !yearPattern.MatchString(strings.TrimSpace(year)) {
		errs.add("year", "must be a 4 digit year")
	}
	return errs
}

func ValidateReportRange(startDate, endDate string) ValidationErrors {
	errs := ValidationErrors{}
	start, startErr := datefmt.Parse(startDate)
	end, endErr := datefmt.Parse(endDate)

	switch {
	case blank(startDate):
		errs.add("startDate", "is required")
	case startErr != nil:
		errs.add("startDate", "must be a valid date")
	}
	switch {
	case blank(endDate):
		errs.add("endDate", "is required")
	case endErr != nil:
		errs.add("endDate", "must be a valid date")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs.add("endDate", "must not be before startDate")
	}
	return errs
}

func ValidateCredentials(username, password string) ValidationErrors {
	errs := ValidationErrors{}
	if blank(username) {
		errs.add("username", "is required")
	}
	if blank(password) {
		errs.add("password", "is required")
	}
	return errs
}
