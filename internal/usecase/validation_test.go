package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/clinica-console/internal/entity"
)

func TestValidateClient_Valid(t *testing.T) {
	assert.Empty(t, ValidateClient(validClient()))
}

func TestValidateClient_AggregatesEveryField(t *testing.T) {
	errs := ValidateClient(entity.Client{})

	for _, field := range []string{
		"nome", "cpf", "email", "telefone", "endereco", "religiao", "tratamento", "medicamentos",
		"queixaPrincipal", "frequencia", "dataInicioTratamento", "escolaridadeEnum", "generoEnum", "estadosEnum",
	} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, "recebeuAltaEnum")
	assert.NotContains(t, errs, "dataFimTratamento")
}

func TestValidateClient_Formats(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*entity.Client)
		field string
	}{
		{"cpf curto", func(c *entity.Client) { c.CPF = "123" }, "cpf"},
		{"cpf com letras", func(c *entity.Client) { c.CPF = "1234567890a" }, "cpf"},
		{"email sem domínio", func(c *entity.Client) { c.Email = "ana@" }, "email"},
		{"email com espaço", func(c *entity.Client) { c.Email = "an a@x.com" }, "email"},
		{"telefone curto", func(c *entity.Client) { c.Telefone = "987654" }, "telefone"},
		{"telefone longo", func(c *entity.Client) { c.Telefone = "319876543210" }, "telefone"},
		{"uf inexistente", func(c *entity.Client) { c.Estado = "XX" }, "estadosEnum"},
		{"alta inválida", func(c *entity.Client) { c.RecebeuAlta = "TALVEZ" }, "recebeuAltaEnum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClient()
			tt.edit(&c)
			errs := ValidateClient(c)
			assert.Len(t, errs, 1)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "12345678909", NormalizeCPF("123.456.789-09"))
	assert.Equal(t, "12345678909", NormalizeCPF(" 123 456 789/09"))
	assert.Equal(t, "5531987654321", NormalizePhone("+55 (31) 98765-4321"))
	assert.Equal(t, "3133334444", NormalizePhone("31 3333.4444"))
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("150,5")
	assert.NoError(t, err)
	assert.Equal(t, "150.50", d.StringFixed(2))

	for _, bad := range []string{"", "abc", "0", "-1", "0,00"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{"nome": "is required", "cpf": "must have 11 digits"}
	assert.Equal(t, "validation failed: cpf: must have 11 digits, nome: is required", errs.Error())
}
