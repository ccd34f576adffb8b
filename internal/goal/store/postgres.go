package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"strive/internal/goal/models"
	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
	txcontext "strive/pkg/platform/tx"
)

// Postgres persists goals in a single table with a status column. The
// open->achieved transition is one conditional UPDATE, so there is no
// cross-store move and no partial-failure window.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const goalColumns = "id, owner_kind, owner_id, name, unit, amount, progress, status, created_at, target_date, achieved_at"

func (s *Postgres) Create(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(goal.ID),
		string(goal.Owner.Kind),
		goal.Owner.ID,
		goal.Name,
		goal.Unit,
		goal.Amount,
		goal.Progress,
		string(goal.Status),
		goal.CreatedAt,
		goal.TargetDate,
		goal.AchievedAt,
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, goalID id.GoalID) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(goalID))
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select goal: %w", err)
	}
	return goal, nil
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.Status) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE status = $1 ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()
	return scanGoals(rows)
}

func (s *Postgres) ListByOwner(ctx context.Context, owner models.Owner, status models.Status) ([]*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + ` FROM goals
		WHERE owner_kind = $1 AND owner_id = $2 AND status = $3
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, string(owner.Kind), owner.ID, string(status))
	if err != nil {
		return nil, fmt.Errorf("query goals by owner: %w", err)
	}
	defer rows.Close()
	return scanGoals(rows)
}

func (s *Postgres) Update(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET name = $2, unit = $3, amount = $4, target_date = $5
		WHERE id = $1 AND status = 'open'
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(goal.ID),
		goal.Name,
		goal.Unit,
		goal.Amount,
		goal.TargetDate,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

// AddProgress is the single conditional update that both accumulates
// progress and takes the achieved transition. Two racing calls serialize on
// the row, so no increment is ever lost.
func (s *Postgres) AddProgress(ctx context.Context, goalID id.GoalID, delta float64, now time.Time) (*models.Goal, error) {
	query := `
		UPDATE goals
		SET progress = progress + $2,
		    status = CASE WHEN progress + $2 >= amount THEN 'achieved' ELSE status END,
		    achieved_at = CASE WHEN progress + $2 >= amount THEN $3 ELSE achieved_at END
		WHERE id = $1 AND status = 'open'
		RETURNING ` + goalColumns + `
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(goalID), delta, now)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("add progress: %w", err)
	}
	return goal, nil
}

func (s *Postgres) Delete(ctx context.Context, goalID id.GoalID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM goals WHERE id = $1 AND status = 'open'`, uuid.UUID(goalID))
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	var (
		goal       models.Goal
		goalID     uuid.UUID
		ownerKind  string
		status     string
		achievedAt sql.NullTime
	)
	err := row.Scan(
		&goalID,
		&ownerKind,
		&goal.Owner.ID,
		&goal.Name,
		&goal.Unit,
		&goal.Amount,
		&goal.Progress,
		&status,
		&goal.CreatedAt,
		&goal.TargetDate,
		&achievedAt,
	)
	if err != nil {
		return nil, err
	}
	goal.ID = id.GoalID(goalID)
	goal.Owner.Kind = models.OwnerKind(ownerKind)
	goal.Status = models.Status(status)
	if achievedAt.Valid {
		goal.AchievedAt = &achievedAt.Time
	}
	return &goal, nil
}

func scanGoals(rows *sql.Rows) ([]*models.Goal, error) {
	var goals []*models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}
