package entity

type Gender string

const (
	GenderMasculino Gender = "MASCULINO"
	GenderFeminino  Gender = "FEMININO"
	GenderOutro     Gender = "OUTRO"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMasculino, GenderFeminino, GenderOutro:
		return true
	}
	return false
}

// State é a UF do cliente.
type State string

var states = map[State]struct{}{
	"AC": {}, "AL": {}, "AM": {}, "AP": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MG": {}, "MS": {}, "MT": {}, "PA": {}, "PB": {}, "PE": {}, "PI": {}, "PR": {},
	"RJ": {}, "RN": {}, "RO": {}, "RR": {}, "RS": {}, "SC": {}, "SE": {}, "SP": {}, "TO": {},
}

func (s State) Valid() bool {
	_, ok := states[s]
	return ok
}

type Education string

const (
	EnsinoFundamentalIncompleto Education = "ensinoFundamentalIncompleto"
	EnsinoFundamentalCompleto   Education = "ensinoFundamentalCompleto"
	EnsinoMedioIncompleto       Education = "ensinoMedioIncompleto"
	EnsinoMedioCompleto         Education = "ensinoMedioCompleto"
	EnsinoSuperiorIncompleto    Education = "ensinoSuperiorIncompleto"
	EnsinoSuperiorCompleto      Education = "ensinoSuperiorCompleto"
	PosGraduacaoIncompleta      Education = "posGraduacaoIncompleta"
	PosGraduacaoCompleta        Education = "posGraduacaoCompleta"
	MestradoIncompleto          Education = "mestradoIncompleto"
	MestradoCompleto            Education = "mestradoCompleto"
	DoutoradoIncompleto         Education = "doutoradoIncompleto"
	DoutoradoCompleto           Education = "doutoradoCompleto"
	PosDoutoradoIncompleto      Education = "posDoutoradoIncompleto"
	PosDoutoradoCompleto        Education = "posDoutoradoCompleto"
)

var educationLevels = []Education{
	EnsinoFundamentalIncompleto, EnsinoFundamentalCompleto,
	EnsinoMedioIncompleto, EnsinoMedioCompleto,
	EnsinoSuperiorIncompleto, EnsinoSuperiorCompleto,
	PosGraduacaoIncompleta, PosGraduacaoCompleta,
	MestradoIncompleto, MestradoCompleto,
	DoutoradoIncompleto, DoutoradoCompleto,
	PosDoutoradoIncompleto, PosDoutoradoCompleto,
}

func (e Education) Valid() bool {
	for _, lvl := range educationLevels {
		if lvl == e {
			return true
		}
	}
	return false
}

// Discharge indica se o paciente recebeu alta.
type Discharge string

const (
	DischargeSim Discharge = "SIM"
	DischargeNao Discharge = "NAO"
)

func (d Discharge) Valid() bool {
	return d == DischargeSim || d == DischargeNao
}

type PaymentMethod string

const (
	MethodPix      PaymentMethod = "PIX"
	MethodCartao   PaymentMethod = "CARTAO"
	MethodDinheiro PaymentMethod = "DINHEIRO"
	MethodBoleto   PaymentMethod = "BOLETO"
	MethodOutro    PaymentMethod = "OUTRO"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodPix, MethodCartao, MethodDinheiro, MethodBoleto, MethodOutro:
		return true
	}
	return false
}
