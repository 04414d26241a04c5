package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"gopkg.in/gomail.v2"
)

//go:embed templates/receipt.html
var templatesFS embed.FS

var receiptTemplate = template.Must(template.ParseFS(templatesFS, "templates/receipt.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer troca o transporte SMTP.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

func (s *EmailSender) SendReceipt(ctx context.Context, email ReceiptEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email.To == "" {
		return fmt.Errorf("destinatário vazio para o recibo de %s/%s", email.Month, email.Year)
	}

	period := fmt.Sprintf("%s/%s", email.Month, email.Year)

	var body bytes.Buffer
	if err := receiptTemplate.Execute(&body, ReceiptEmailData{Name: email.Name, Period: period}); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	pdf := email.PDF
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", fmt.Sprintf("Recibo de pagamento - %s", period))
	m.SetBody("text/html", body.String())
	m.Attach(email.FileName,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
