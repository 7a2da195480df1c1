// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/taskman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番されたIDとタイムスタンプをuserに書き戻す。
	// emailの一意制約違反はmodel.APIError（EMAIL_TAKEN）として返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は指定emailのユーザーを取得する。見つからない場合はnilを返す。
	// emailは呼び出し側で小文字に正規化済みであること。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しない場合もエラーにしない。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
// 全ての読み書きは所有ユーザーIDでスコープされるか、サービス層で所有権を検証する。
type TaskRepository interface {
	// ListByUser はユーザーのタスク一覧をフィルタ付きで返す。
	// 作成日時の降順（同時刻はIDの降順）で並べる。
	ListByUser(ctx context.Context, userID int64, filter model.TaskFilter) ([]*model.Task, error)

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	// 所有権の検証はサービス層で行う。
	FindByID(ctx context.Context, id int64) (*model.Task, error)

	// Create はタスクを作成し、採番されたIDとタイムスタンプをtaskに書き戻す。
	Create(ctx context.Context, task *model.Task) error

	// Update はタスクの全フィールドを上書き更新する。
	Update(ctx context.Context, task *model.Task) error

	// Delete は指定IDのタスクを削除する。削除した場合はtrueを返す。
	Delete(ctx context.Context, id int64) (bool, error)

	// CountByUser はユーザーの全タスク件数を返す。
	CountByUser(ctx context.Context, userID int64) (int, error)

	// CountByStatus はユーザーのタスク件数をステータス別に返す。
	// データに存在しないステータスは0件として返る。
	CountByStatus(ctx context.Context, userID int64) (model.StatusCounts, error)

	// CountByPriority はユーザーのタスク件数を優先度別に返す。
	CountByPriority(ctx context.Context, userID int64) (model.PriorityCounts, error)

	// CountOverdue は期限超過タスク件数を返す。
	// due_dateがtoday（"YYYY-MM-DD"）より前かつ未完了のタスクが対象。
	// due_dateがNULLのタスクは数えない。
	CountOverdue(ctx context.Context, userID int64, today string) (int, error)

	// CountCompletedSince はsince以降にupdated_atが更新された完了タスク件数を返す。
	CountCompletedSince(ctx context.Context, userID int64, since time.Time) (int, error)
}
