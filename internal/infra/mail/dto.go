package mail

import "gopkg.in/gomail.v2"

type ReceiptEmailData struct {
	Name   string
	Period string
}

// ReceiptEmail é o recibo a ser enviado: destinatário, período e o PDF gerado pelo backend.
type ReceiptEmail struct {
	To       string
	Name     string
	Month    string
	Year     string
	FileName string
	PDF      []byte
}

// Dialer é o que *gomail.Dialer oferece; permite trocar o SMTP nos testes.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer Dialer
}
