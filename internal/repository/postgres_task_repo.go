package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/taskman/internal/model"
)

// dueDateLayout はdue_dateカラムの日付文字列フォーマット。
const dueDateLayout = "2006-01-02"

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// ListByUser はユーザーのタスク一覧をフィルタ付きで返す。
// 作成日時の降順（同時刻はIDの降順）で並べる。
func (r *PostgresTaskRepo) ListByUser(ctx context.Context, userID int64, filter model.TaskFilter) ([]*model.Task, error) {
	query := `SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
		 FROM tasks WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
		 FROM tasks WHERE id = $1`,
		id,
	)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Create はタスクを作成し、採番されたIDとタイムスタンプをtaskに書き戻す。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, status, priority, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		task.UserID, task.Title, nullString(task.Description),
		string(task.Status), string(task.Priority), nullDate(task.DueDate),
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Update はタスクの全フィールドを上書き更新する。
// updated_atはtask.UpdatedAtの値で書き込む。
func (r *PostgresTaskRepo) Update(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = $6
		 WHERE id = $7`,
		task.Title, nullString(task.Description), string(task.Status),
		string(task.Priority), nullDate(task.DueDate), task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete は指定IDのタスクを削除する。削除した場合はtrueを返す。
func (r *PostgresTaskRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// CountByUser はユーザーの全タスク件数を返す。
func (r *PostgresTaskRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// CountByStatus はユーザーのタスク件数をステータス別に返す。
func (r *PostgresTaskRepo) CountByStatus(ctx context.Context, userID int64) (model.StatusCounts, error) {
	counts := model.StatusCounts{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM tasks WHERE user_id = $1 GROUP BY status`,
		userID,
	)
	if err != nil {
		return counts, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return counts, fmt.Errorf("failed to scan status count: %w", err)
		}
		switch model.TaskStatus(status) {
		case model.TaskStatusPending:
			counts.Pending = count
		case model.TaskStatusInProgress:
			counts.InProgress = count
		case model.TaskStatusCompleted:
			counts.Completed = count
		}
	}
	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}

// CountByPriority はユーザーのタスク件数を優先度別に返す。
func (r *PostgresTaskRepo) CountByPriority(ctx context.Context, userID int64) (model.PriorityCounts, error) {
	counts := model.PriorityCounts{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT priority, count(*) FROM tasks WHERE user_id = $1 GROUP BY priority`,
		userID,
	)
	if err != nil {
		return counts, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var priority string
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return counts, fmt.Errorf("failed to scan priority count: %w", err)
		}
		switch model.TaskPriority(priority) {
		case model.TaskPriorityLow:
			counts.Low = count
		case model.TaskPriorityMedium:
			counts.Medium = count
		case model.TaskPriorityHigh:
			counts.High = count
		}
	}
	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("failed to iterate priority counts: %w", err)
	}

	return counts, nil
}

// CountOverdue は期限超過タスク件数を返す。
// due_dateがNULLのタスクと完了済みタスクは数えない。
func (r *PostgresTaskRepo) CountOverdue(ctx context.Context, userID int64, today string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks
		 WHERE user_id = $1 AND due_date < $2 AND status <> $3`,
		userID, today, string(model.TaskStatusCompleted),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return count, nil
}

// CountCompletedSince はsince以降にupdated_atが更新された完了タスク件数を返す。
func (r *PostgresTaskRepo) CountCompletedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks
		 WHERE user_id = $1 AND status = $2 AND updated_at >= $3`,
		userID, string(model.TaskStatusCompleted), since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通スキャンインターフェース。
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask は1行をmodel.Taskに変換する。
// sql.ErrNoRowsはそのまま呼び出し側に返す。
func scanTask(row rowScanner) (*model.Task, error) {
	task := &model.Task{}
	var description sql.NullString
	var status, priority string
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID, &task.UserID, &task.Title, &description,
		&status, &priority, &dueDate, &task.CreatedAt, &task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.Status = model.TaskStatus(status)
	task.Priority = model.TaskPriority(priority)
	if dueDate.Valid {
		d := dueDate.Time.Format(dueDateLayout)
		task.DueDate = &d
	}

	return task, nil
}

// nullString は*stringをsql.NullStringに変換する。
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullDate は"YYYY-MM-DD"形式の*stringをDATEカラム用のsql.NullStringに変換する。
func nullDate(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
