package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hoanghai1803/inkboard/internal/models"
)

// RecordGeneration appends an audit row. A missing ID is filled with a new
// UUID and a zero CreatedAt with the current time; both are written back
// to g.
func (s *Store) RecordGeneration(ctx context.Context, g *models.Generation) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations
			(id, operation, provider, model, fallback, fallback_reason, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Operation, g.Provider, g.Model, g.Fallback, g.FallbackReason,
		g.Error, g.DurationMs, formatTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("recording generation: %w", err)
	}
	return nil
}

const generationColumns = `id, operation, provider, model, fallback, fallback_reason, error, duration_ms, created_at`

// GetGeneration returns one audit row, or ErrNotFound.
func (s *Store) GetGeneration(ctx context.Context, id string) (*models.Generation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+generationColumns+` FROM generations WHERE id = ?`, id)

	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting generation %s: %w", id, err)
	}
	return g, nil
}

// GetRecentGenerations returns up to limit audit rows, newest first. When
// operation is not empty only rows for that operation are returned.
func (s *Store) GetRecentGenerations(ctx context.Context, operation string, limit int) ([]models.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations`
	args := []any{}
	if operation != "" {
		query += ` WHERE operation = ?`
		args = append(args, operation)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent generations: %w", err)
	}
	defer rows.Close()

	generations := []models.Generation{}
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning generation row: %w", err)
		}
		generations = append(generations, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating generation rows: %w", err)
	}
	return generations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (*models.Generation, error) {
	var (
		g         models.Generation
		createdAt string
	)
	if err := row.Scan(
		&g.ID, &g.Operation, &g.Provider, &g.Model, &g.Fallback,
		&g.FallbackReason, &g.Error, &g.DurationMs, &createdAt,
	); err != nil {
		return nil, err
	}
	g.CreatedAt = parseTime(createdAt)
	return &g, nil
}
