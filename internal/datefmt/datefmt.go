// Package datefmt converte datas entre o formato de exibição (DD/MM/YYYY) e o formato do backend (YYYY-MM-DD).
package datefmt

import (
	"strings"
	"time"
)

const (
	DisplayLayout = "02/01/2006"
	ISOLayout     = "2006-01-02"
)

// ToISO reordena DD/MM/YYYY para YYYY-MM-DD. Sem "/" a entrada volta intacta (já é ISO),
// o que torna a função idempotente. Não valida faixas numéricas.
func ToISO(display string) string {
	if !strings.Contains(display, "/") {
		return display
	}
	return reverse(strings.Split(display, "/"), "-")
}

// ToDisplay é o inverso de ToISO: YYYY-MM-DD vira DD/MM/YYYY; sem "-" volta intacta.
func ToDisplay(iso string) string {
	if !strings.Contains(iso, "-") {
		return iso
	}
	return reverse(strings.Split(iso, "-"), "/")
}

func reverse(parts []string, sep string) string {
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, sep)
}

// Parse aceita tanto DD/MM/YYYY quanto YYYY-MM-DD.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		return time.Parse(DisplayLayout, s)
	}
	return time.Parse(ISOLayout, s)
}
