package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const createSessionsTable = `
	CREATE TABLE IF NOT EXISTS console_sessions (
		id         TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		username   TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Migrate cria a tabela de sessões se ainda não existir.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("erro ao criar tabela console_sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	query := `SELECT id, token, username, expires_at, created_at FROM console_sessions WHERE id = $1`

	var rec Record
	err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.Token, &rec.Username, &rec.ExpiresAt, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("erro ao buscar sessão: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO console_sessions (id, token, username, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token, username = EXCLUDED.username, expires_at = EXCLUDED.expires_at
	`
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := s.DB.ExecContext(ctx, query, rec.ID, rec.Token, rec.Username, rec.ExpiresAt, createdAt); err != nil {
		return fmt.Errorf("erro ao salvar sessão: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM console_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("erro ao remover sessão: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM console_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("erro ao expirar sessões: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
