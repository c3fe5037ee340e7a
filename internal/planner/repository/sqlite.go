package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"plan-builder/internal/planner/models"
)

// ============================================================
// SQLite Repository
// ============================================================

// StorageName: фиксированный префикс ключа сохранённых планов.
const StorageName = "builder-plan-storage"

var (
	ErrPlanNotFound       = errors.New("plan not found")
	ErrUnsupportedVersion = errors.New("unsupported plan version")
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// StorageKey привязывает имя хранилища к сессии редактирования.
func StorageKey(sessionID string) string {
	return StorageName + ":" + sessionID
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Save сохраняет (upsert) план под ключом key.
func (r *Repository) Save(ctx context.Context, key string, plan models.Plan) error {
	plan.Version = models.PlanVersion
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO plans (storage_key, version, data)
        VALUES (?, ?, ?)
        ON CONFLICT(storage_key) DO UPDATE SET
            version = excluded.version,
            data = excluded.data,
            updated_at = CURRENT_TIMESTAMP
    `, key, plan.Version, string(data))
	if err != nil {
		return fmt.Errorf("save plan %s: %w", key, err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context, key string) (*models.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT version, data
        FROM plans
        WHERE storage_key = ?
    `, key)

	var (
		version int
		data    string
	)
	if err := row.Scan(&version, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if version != models.PlanVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", key, err)
	}
	plan.Version = version
	return &plan, nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE storage_key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete plan %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// Ping используется readiness-пробой.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
