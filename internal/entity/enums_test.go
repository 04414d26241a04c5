package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateValid(t *testing.T) {
	assert.Len(t, states, 27)
	assert.True(t, State("MG").Valid())
	assert.True(t, State("TO").Valid())
	assert.False(t, State("mg").Valid())
	assert.False(t, State("XX").Valid())
}

func TestEducationValid(t *testing.T) {
	assert.Len(t, educationLevels, 14)
	assert.True(t, MestradoCompleto.Valid())
	assert.False(t, Education("ensinoSuperior").Valid())
}

func TestEnumsRejectEmpty(t *testing.T) {
	assert.False(t, Gender("").Valid())
	assert.False(t, Discharge("").Valid())
	assert.False(t, PaymentMethod("").Valid())
	assert.True(t, MethodBoleto.Valid())
	assert.True(t, DischargeNao.Valid())
	assert.True(t, GenderOutro.Valid())
}

func TestPaymentSaved(t *testing.T) {
	assert.False(t, Payment{}.Saved())
	assert.True(t, Payment{ID: IntPtr(7)}.Saved())
}
