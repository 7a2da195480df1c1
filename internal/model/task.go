// Package model はドメインモデルを定義する。
package model

import "time"

// Task はユーザー所有のタスクを表す。
// DueDateは "YYYY-MM-DD" 形式の日付文字列。時刻は持たない。
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskStatus はタスクの進行状態を表す。
type TaskStatus string

const (
	// TaskStatusPending は未着手状態。
	TaskStatusPending TaskStatus = "Pending"
	// TaskStatusInProgress は進行中状態。
	TaskStatusInProgress TaskStatus = "In Progress"
	// TaskStatusCompleted は完了状態。
	TaskStatusCompleted TaskStatus = "Completed"
)

// Valid はステータスが定義済みの値かどうかを返す。
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// TaskPriority はタスクの優先度を表す。
type TaskPriority string

const (
	// TaskPriorityLow は低優先度。
	TaskPriorityLow TaskPriority = "Low"
	// TaskPriorityMedium は中優先度。
	TaskPriorityMedium TaskPriority = "Medium"
	// TaskPriorityHigh は高優先度。
	TaskPriorityHigh TaskPriority = "High"
)

// Valid は優先度が定義済みの値かどうかを返す。
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// TaskFilter は一覧取得の絞り込み条件を表す。
// nilのフィールドは条件として適用しない。
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
}

// TaskInput はタスク作成の入力を表す。
// StatusとPriorityは空文字の場合にデフォルト値（Pending/Medium)が適用される。
type TaskInput struct {
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *string
}

// TaskUpdate は部分更新の入力を表す。
// 各フィールドは「未指定 | 明示的な値（nullを含む）」を区別する。
// 未指定のフィールドは既存の値を変更しない。
type TaskUpdate struct {
	Title       OptionalString
	Description OptionalString
	Status      OptionalString
	Priority    OptionalString
	DueDate     OptionalString
}

// Empty は更新対象のフィールドが1つも指定されていないかどうかを返す。
func (u TaskUpdate) Empty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Status.Set &&
		!u.Priority.Set && !u.DueDate.Set
}
