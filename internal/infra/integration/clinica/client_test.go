package clinica

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clinica-console/internal/entity"
)

type staticToken string

func (s staticToken) Token() (string, bool) {
	return string(s), s != ""
}

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginSendsCredentialsWithoutBearer(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, Credentials{Username: "admin", Password: "s3cret"}, creds)

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})

	token, err := NewClient(srv.URL, nil).Login(context.Background(), Credentials{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestAuthedCallsCarryBearerAndRequestID(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "/clients/home-info", r.URL.Path)

		json.NewEncoder(w).Encode([]entity.Client{{Nome: "Ana", CPF: "12345678909"}})
	})

	clients, err := NewClient(srv.URL, staticToken("tok-9")).ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Ana", clients[0].Nome)
}

func TestPaymentRoutes(t *testing.T) {
	var seen []string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode([]entity.Payment{{ID: entity.IntPtr(7), ValorPago: "150.00"}})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	c := NewClient(srv.URL, staticToken("t"))
	ctx := context.Background()

	payments, err := c.ListPayments(ctx, "12345678909")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 7, *payments[0].ID)

	require.NoError(t, c.CreatePayment(ctx, entity.PaymentRequest{CPF: "12345678909"}))
	require.NoError(t, c.UpdatePayment(ctx, 7, entity.PaymentRequest{CPF: "12345678909"}))
	require.NoError(t, c.DeletePayment(ctx, 7))

	assert.Equal(t, []string{
		"GET /financeiro/12345678909/pagamentos",
		"POST /financeiro",
		"PUT /financeiro/7",
		"DELETE /financeiro/7",
	}, seen)
}

func TestReceiptAndReportReturnPDFBytes(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/financeiro/receipt/12345678909/3/2024":
		case "/financeiro/report":
			assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
			assert.Equal(t, "2024-01-31", r.URL.Query().Get("endDate"))
		default:
			t.Errorf("rota inesperada %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	})

	c := NewClient(srv.URL, staticToken("t"))

	got, err := c.Receipt(context.Background(), "12345678909", "3", "2024")
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	got, err = c.Report(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestServerErrorMessageIsSurfaced(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"CPF já cadastrado"}`)
	})

	err := NewClient(srv.URL, nil).CreateClient(context.Background(), entity.Client{CPF: "12345678909"})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "CPF já cadastrado", apiErr.Error())
}

func TestNotFoundAndUnauthorized(t *testing.T) {
	var hooked atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/clients/000" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := NewClient(srv.URL, staticToken("expired"), OnUnauthorized(func(context.Context) { hooked.Add(1) }))

	_, err := c.GetClient(context.Background(), "000")
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(0), hooked.Load())

	_, err = c.ListClients(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), hooked.Load())

	// login com credencial errada não derruba a sessão
	_, err = c.Login(context.Background(), Credentials{Username: "x"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), hooked.Load())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, nil).DeleteClient(context.Background(), "12345678909")
	require.Error(t, err)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
	assert.False(t, errors.Is(err, context.Canceled))
}

func TestServiceAuthenticatorCachesToken(t *testing.T) {
	var logins atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"token": "svc-token"})
	})

	auth := NewServiceAuthenticator(srv.URL, Credentials{Username: "svc", Password: "p"}, nil)
	ctx := context.Background()

	require.NoError(t, auth.EnsureAuthenticated(ctx))
	require.NoError(t, auth.EnsureAuthenticated(ctx))
	assert.Equal(t, int32(1), logins.Load())

	tok, ok := auth.Token()
	assert.True(t, ok)
	assert.Equal(t, "svc-token", tok)

	auth.Invalidate()
	require.NoError(t, auth.EnsureAuthenticated(ctx))
	assert.Equal(t, int32(2), logins.Load())
}
