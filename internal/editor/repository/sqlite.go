package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"schematic-editor/internal/editor/models"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("design not found")

//go:embed migrations/*.sql
var migrations embed.FS

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет встроенные миграции по порядку имен.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Save сохраняет схему под именем и возвращает ее ID.
func (r *Repository) Save(ctx context.Context, name, content string, components, wires int) (models.DesignSummary, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO designs (id, name, content, components, wires)
        VALUES (?, ?, ?, ?, ?)
    `, id, name, content, components, wires)
	if err != nil {
		return models.DesignSummary{}, fmt.Errorf("insert design: %w", err)
	}

	rec, err := r.Get(ctx, id)
	if err != nil {
		return models.DesignSummary{}, err
	}
	return rec.DesignSummary, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.DesignRecord, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, components, wires, created_at, content
        FROM designs
        WHERE id = ?
    `, id)

	var d models.DesignRecord
	if err := row.Scan(&d.ID, &d.Name, &d.Components, &d.Wires, &d.CreatedAt, &d.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &d, nil
}

// List: библиотека, новые схемы первыми.
func (r *Repository) List(ctx context.Context) ([]models.DesignSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, components, wires, created_at
        FROM designs
        ORDER BY created_at DESC, rowid DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	out := []models.DesignSummary{}
	for rows.Next() {
		var d models.DesignSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.Components, &d.Wires, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete design: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Ping: проверка готовности для health-пробы.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
