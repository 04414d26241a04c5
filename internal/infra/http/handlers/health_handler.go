package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const Version = "1.0.0"

const (
	statusHealthy       = "healthy"
	statusConfigured    = "configured"
	statusNotConfigured = "not configured"
)

// WorkspaceCounter expõe quantas sessões estão em memória.
type WorkspaceCounter interface {
	Len() int
}

// depCheck devolve nil quando a dependência responde.
type depCheck struct {
	name  string
	check func(ctx context.Context) error
}

type HealthHandler struct {
	checks       []depCheck
	clinicAPIURL string
	workspaces   WorkspaceCounter
	startTime    time.Time
	timeout      time.Duration
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Sessions     int               `json:"sessions"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler só registra verificações para o que foi configurado; o resto aparece como "not configured".
func NewHealthHandler(db *sql.DB, rabbitMQ *amqp091.Connection, rdb redis.Cmdable, clinicAPIURL string, workspaces WorkspaceCounter) *HealthHandler {
	h := &HealthHandler{
		clinicAPIURL: clinicAPIURL,
		workspaces:   workspaces,
		startTime:    time.Now(),
		timeout:      2 * time.Second,
	}

	h.checks = append(h.checks, depCheck{name: "database"}, depCheck{name: "redis"}, depCheck{name: "rabbitmq"})
	if db != nil {
		h.checks[0].check = db.PingContext
	}
	if rdb != nil {
		h.checks[1].check = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if rabbitMQ != nil {
		h.checks[2].check = func(context.Context) error {
			if rabbitMQ.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
	}
	return h
}

// Handle (GET /health)
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := statusHealthy
	deps := make(map[string]string, len(h.checks)+1)

	for _, p := range h.checks {
		if p.check == nil {
			deps[p.name] = statusNotConfigured
			continue
		}
		if err := p.check(ctx); err != nil {
			deps[p.name] = "unhealthy: " + err.Error()
			status = "degraded"
			continue
		}
		deps[p.name] = statusHealthy
	}

	// a API da clínica é remota; aqui só conferimos a configuração
	deps["clinic_api"] = statusNotConfigured
	if h.clinicAPIURL != "" {
		deps["clinic_api"] = statusConfigured
	}

	sessions := 0
	if h.workspaces != nil {
		sessions = h.workspaces.Len()
	}

	code := http.StatusOK
	if status != statusHealthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Sessions:     sessions,
		Dependencies: deps,
	})
}
