package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/reflow/internal/db"
	"github.com/alexanderramin/reflow/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database. Statement
// helpers take db.DBTX, so Save can run them inside a transaction while
// List and Get run them directly against the database.
type SQLiteRunRepo struct {
	db *sql.DB
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(database *sql.DB) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: database}
}

// Save stores a run and its change rows in one transaction.
func (r *SQLiteRunRepo) Save(ctx context.Context, run *domain.ReflowRun) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := insertRun(ctx, tx, run); err != nil {
		return err
	}
	for i, c := range run.Changes {
		if err := insertChange(ctx, tx, run.ID, i, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	committed = true
	return nil
}

// List returns the most recent runs, newest first, without change rows.
// A non-positive limit lists everything.
func (r *SQLiteRunRepo) List(ctx context.Context, limit int) ([]*domain.ReflowRun, error) {
	return listRuns(ctx, r.db, limit)
}

// Get returns one run with its change rows, or nil when absent.
func (r *SQLiteRunRepo) Get(ctx context.Context, id string) (*domain.ReflowRun, error) {
	run, err := getRun(ctx, r.db, id)
	if err != nil || run == nil {
		return run, err
	}
	run.Changes, err = loadChanges(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func insertRun(ctx context.Context, q db.DBTX, run *domain.ReflowRun) error {
	query := `INSERT INTO runs (id, created_at, input_path, work_order_count, work_center_count, change_count, explanation, output_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.ExecContext(ctx, query,
		run.ID,
		timeToString(run.CreatedAt),
		run.InputPath,
		run.WorkOrderCount,
		run.WorkCenterCount,
		run.ChangeCount,
		stringsToJSON(run.Explanation),
		run.OutputJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func insertChange(ctx context.Context, q db.DBTX, runID string, seq int, c domain.ChangeRecord) error {
	query := `INSERT INTO run_changes (run_id, seq, work_order_id, work_order_number, work_center_id,
		old_start, old_end, new_start, new_end, start_delta_minutes, end_delta_minutes, reasons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.ExecContext(ctx, query,
		runID, seq,
		c.WorkOrderID, c.WorkOrderNumber, c.WorkCenterID,
		timeToString(c.OldStart), timeToString(c.OldEnd),
		timeToString(c.NewStart), timeToString(c.NewEnd),
		c.StartDeltaMinutes, c.EndDeltaMinutes,
		stringsToJSON(c.Reasons),
	)
	if err != nil {
		return fmt.Errorf("inserting change %d: %w", seq, err)
	}
	return nil
}

func listRuns(ctx context.Context, q db.DBTX, limit int) ([]*domain.ReflowRun, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, created_at, input_path, work_order_count, work_center_count, change_count, explanation, output_json
		FROM runs ORDER BY created_at DESC, id LIMIT ?`
	rows, err := q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.ReflowRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func getRun(ctx context.Context, q db.DBTX, id string) (*domain.ReflowRun, error) {
	query := `SELECT id, created_at, input_path, work_order_count, work_center_count, change_count, explanation, output_json
		FROM runs WHERE id = ?`
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("loading run: %w", err)
		}
		return nil, nil
	}
	return scanRun(rows)
}

func loadChanges(ctx context.Context, q db.DBTX, runID string) ([]domain.ChangeRecord, error) {
	query := `SELECT work_order_id, work_order_number, work_center_id,
		old_start, old_end, new_start, new_end, start_delta_minutes, end_delta_minutes, reasons
		FROM run_changes WHERE run_id = ? ORDER BY seq`
	rows, err := q.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run changes: %w", err)
	}
	defer rows.Close()

	var changes []domain.ChangeRecord
	for rows.Next() {
		var c domain.ChangeRecord
		var oldStart, oldEnd, newStart, newEnd, reasons string
		if err := rows.Scan(
			&c.WorkOrderID, &c.WorkOrderNumber, &c.WorkCenterID,
			&oldStart, &oldEnd, &newStart, &newEnd,
			&c.StartDeltaMinutes, &c.EndDeltaMinutes, &reasons,
		); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		c.OldStart = parseTime(oldStart)
		c.OldEnd = parseTime(oldEnd)
		c.NewStart = parseTime(newStart)
		c.NewEnd = parseTime(newEnd)
		c.Reasons = stringsFromJSON(reasons)
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating changes: %w", err)
	}
	return changes, nil
}

func scanRun(rows *sql.Rows) (*domain.ReflowRun, error) {
	var run domain.ReflowRun
	var createdAt, explanation string
	if err := rows.Scan(
		&run.ID, &createdAt, &run.InputPath,
		&run.WorkOrderCount, &run.WorkCenterCount, &run.ChangeCount,
		&explanation, &run.OutputJSON,
	); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.CreatedAt = parseTime(createdAt)
	run.Explanation = stringsFromJSON(explanation)
	return &run, nil
}
