package clinica

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/entity"
	"github.com/xavierca1/clinica-console/internal/logging"
)

// TokenSource fornece o bearer token da sessão atual.
type TokenSource interface {
	Token() (string, bool)
}

type Client struct {
	baseURL        string
	tokens         TokenSource
	http           *http.Client
	timeout        time.Duration
	logger         *zap.Logger
	onUnauthorized func(context.Context)
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout 0 desliga o timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

// OnUnauthorized é chamado quando o backend responde 401/403 numa rota autenticada.
func OnUnauthorized(fn func(context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// --- Auth ---

// Login: POST /auth/login, devolve o token opaco.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var out loginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, creds, &out, false); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("login sem token na resposta")
	}
	return out.Token, nil
}

func (c *Client) Register(ctx context.Context, creds Credentials) error {
	return c.do(ctx, "register", http.MethodPost, "/auth/register", nil, creds, nil, false)
}

// --- Clients ---

func (c *Client) ListClients(ctx context.Context) ([]entity.Client, error) {
	var out []entity.Client
	if err := c.do(ctx, "list_clients", http.MethodGet, "/clients/home-info", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetClient(ctx context.Context, cpf string) (*entity.Client, error) {
	var out entity.Client
	if err := c.do(ctx, "get_client", http.MethodGet, clientPath(cpf), nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateClient(ctx context.Context, client entity.Client) error {
	return c.do(ctx, "create_client", http.MethodPost, "/clients", nil, client, nil, true)
}

// UpdateClient faz PUT do registro inteiro.
func (c *Client) UpdateClient(ctx context.Context, client entity.Client) error {
	return c.do(ctx, "update_client", http.MethodPut, clientPath(client.CPF), nil, client, nil, true)
}

func (c *Client) DeleteClient(ctx context.Context, cpf string) error {
	return c.do(ctx, "delete_client", http.MethodDelete, clientPath(cpf), nil, nil, nil, true)
}

// --- Financeiro ---

func (c *Client) ListPayments(ctx context.Context, cpf string) ([]entity.Payment, error) {
	var out []entity.Payment
	path := "/financeiro/" + url.PathEscape(cpf) + "/pagamentos"
	if err := c.do(ctx, "list_payments", http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePayment(ctx context.Context, req entity.PaymentRequest) error {
	return c.do(ctx, "create_payment", http.MethodPost, "/financeiro", nil, req, nil, true)
}

func (c *Client) UpdatePayment(ctx context.Context, id int, req entity.PaymentRequest) error {
	return c.do(ctx, "update_payment", http.MethodPut, paymentPath(id), nil, req, nil, true)
}

func (c *Client) DeletePayment(ctx context.Context, id int) error {
	return c.do(ctx, "delete_payment", http.MethodDelete, paymentPath(id), nil, nil, nil, true)
}

// Receipt devolve o PDF do recibo de um cliente no mês/ano.
func (c *Client) Receipt(ctx context.Context, cpf, month, year string) ([]byte, error) {
	path := fmt.Sprintf("/financeiro/receipt/%s/%s/%s",
		url.PathEscape(cpf), url.PathEscape(month), url.PathEscape(year))
	return c.pdf(ctx, "receipt", path, nil)
}

// Report devolve o PDF com os pagamentos do intervalo.
func (c *Client) Report(ctx context.Context, startDate, endDate string) ([]byte, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	return c.pdf(ctx, "report", "/financeiro/report", q)
}

func clientPath(cpf string) string {
	return "/clients/" + url.PathEscape(cpf)
}

func paymentPath(id int) string {
	return "/financeiro/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("erro ao gerar json (%s): %w", op, err)
		}
		body = bytes.NewReader(jsonBody)
	}

	raw, err := c.send(ctx, op, method, path, query, body, authed)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("erro ao ler resposta (%s): %w", op, err)
	}
	return nil
}

func (c *Client) pdf(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	return c.send(ctx, op, http.MethodGet, path, query, nil, true)
}

func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, body io.Reader, authed bool) ([]byte, error) {
	start := time.Now()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, body != nil)

	resp, err := c.http.Do(req)
	if err != nil {
		recordCall(op, "transport_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("erro na conexão com a api (%s): %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		recordCall(op, "transport_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("erro ao ler corpo (%s): %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		recordCall(op, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

		var eb errorResponse
		_ = json.Unmarshal(raw, &eb)
		apiErr := &APIError{Status: resp.StatusCode, Message: eb.Message, Operation: op}

		c.logger.Warn("api clinica rejeitou a chamada",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", eb.Message),
		)
		if authed && c.onUnauthorized != nil && IsUnauthorized(apiErr) {
			c.onUnauthorized(ctx)
		}
		return nil, apiErr
	}

	recordCall(op, "ok", time.Since(start).Seconds())
	return raw, nil
}

// setHeaders centraliza os headers de toda chamada
func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/pdf")
	req.Header.Set("X-Request-ID", uuid.New().String())
	req.Header.Set("User-Agent", "ClinicaConsole/1.0")

	if c.tokens == nil {
		return
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
