package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

const (
	scheduleConfigColumns = `id, name, cron_expression, is_active, created_at, updated_at`

	mysqlDuplicateEntry = 1062
)

// ScheduleConfigRepository persists named cron configurations.
type ScheduleConfigRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewScheduleConfigRepository(db *sqlx.DB) *ScheduleConfigRepository {
	return &ScheduleConfigRepository{db: db, now: time.Now}
}

func (r *ScheduleConfigRepository) Create(
	ctx context.Context,
	name, cronExpression string,
	isActive bool,
) (*domain.ScheduleConfig, error) {
	id := uuid.NewString()
	now := r.now().UTC()

	query := `
		INSERT INTO schedule_configs (id, name, cron_expression, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, id, name, cronExpression, isActive, now, now); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, fmt.Errorf("%w: %s", domain.ErrScheduleConfigConflict, name)
		}
		return nil, fmt.Errorf("failed to create schedule config: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *ScheduleConfigRepository) GetByID(ctx context.Context, id string) (*domain.ScheduleConfig, error) {
	return r.getOne(ctx, `SELECT `+scheduleConfigColumns+` FROM schedule_configs WHERE id = ?`, id)
}

func (r *ScheduleConfigRepository) FindByName(ctx context.Context, name string) (*domain.ScheduleConfig, error) {
	return r.getOne(ctx, `SELECT `+scheduleConfigColumns+` FROM schedule_configs WHERE name = ?`, name)
}

func (r *ScheduleConfigRepository) getOne(ctx context.Context, query string, arg any) (*domain.ScheduleConfig, error) {
	var cfg domain.ScheduleConfig
	if err := r.db.GetContext(ctx, &cfg, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule config: %w", err)
	}
	return &cfg, nil
}

func (r *ScheduleConfigRepository) FindAll(ctx context.Context) ([]domain.ScheduleConfig, error) {
	configs := []domain.ScheduleConfig{}
	query := `SELECT ` + scheduleConfigColumns + ` FROM schedule_configs ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("failed to list schedule configs: %w", err)
	}
	return configs, nil
}

func (r *ScheduleConfigRepository) FindActive(ctx context.Context) ([]domain.ScheduleConfig, error) {
	configs := []domain.ScheduleConfig{}
	query := `SELECT ` + scheduleConfigColumns + ` FROM schedule_configs WHERE is_active = TRUE ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("failed to list active schedule configs: %w", err)
	}
	return configs, nil
}

func (r *ScheduleConfigRepository) Update(
	ctx context.Context,
	id string,
	upd domain.ScheduleConfigUpdate,
) (*domain.ScheduleConfig, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if upd.CronExpression != nil {
		sets = append(sets, "cron_expression = ?")
		args = append(args, *upd.CronExpression)
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, r.now().UTC(), id)

	query := "UPDATE schedule_configs SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update schedule config: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *ScheduleConfigRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM schedule_configs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete schedule config: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}
