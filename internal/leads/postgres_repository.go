package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores applications in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row with status "new". The email column is null when
// the form left it empty.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateApplicationRequest) (*Application, error) {
	id := uuid.New()

	var email *string
	if trimmed := strings.TrimSpace(req.Email); trimmed != "" {
		email = &trimmed
	}

	query := `
		INSERT INTO applications (id, name, phone, email, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		strings.TrimSpace(req.Name),
		req.Phone,
		email,
		strings.TrimSpace(req.Message),
		StatusNew,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	app := &Application{
		ID:        id.String(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		Message:   strings.TrimSpace(req.Message),
		Status:    StatusNew,
		CreatedAt: createdAt,
	}
	if email != nil {
		app.Email = *email
	}
	return app, nil
}

// GetByID fetches a single application.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Application, error) {
	query := `
		SELECT id, name, phone, email, message, status, created_at
		FROM applications
		WHERE id = $1
	`
	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return app, nil
}

// List returns applications newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Application, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, name, phone, email, message, status, created_at
		FROM applications
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, string(filter.Status), limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	apps := make([]*Application, 0, limit)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return apps, nil
}

// UpdateStatus transitions an application's status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Application, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	query := `
		UPDATE applications
		SET status = $2
		WHERE id = $1
		RETURNING id, name, phone, email, message, status, created_at
	`
	app, err := scanApplication(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("leads: update failed: %w", err)
	}
	return app, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*Application, error) {
	var app Application
	var email *string
	var status string
	if err := row.Scan(
		&app.ID,
		&app.Name,
		&app.Phone,
		&email,
		&app.Message,
		&status,
		&app.CreatedAt,
	); err != nil {
		return nil, err
	}
	app.Status = Status(status)
	if email != nil {
		app.Email = *email
	}
	return &app, nil
}
