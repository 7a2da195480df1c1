// Package task はタスクのCRUDと所有権検証のビジネスロジックを提供する。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
	"github.com/hitoshi/taskman/internal/security"
)

const (
	// maxTitleLength はタイトルの最大文字数。
	maxTitleLength = 255
	// dueDateLayout は期限日の形式。
	dueDateLayout = "2006-01-02"
)

// MetricsRecorder はタスク操作のメトリクスを記録する。
type MetricsRecorder interface {
	RecordTaskCreated()
	RecordTaskCompleted()
}

// Service はタスクに関するビジネスロジックを提供する。
// 全操作は呼び出しユーザーの所有タスクにスコープされ、
// 他ユーザーのタスクへのアクセスは存在しないタスクと区別できない。
type Service struct {
	taskRepo  repository.TaskRepository
	sanitizer security.TextSanitizerService
	metrics   MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilを許容する。
func NewService(taskRepo repository.TaskRepository, sanitizer security.TextSanitizerService, metrics MetricsRecorder) *Service {
	return &Service{
		taskRepo:  taskRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// List はユーザーのタスク一覧をフィルタ付きで返す。
func (s *Service) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]*model.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("不正なステータスです: %s", *filter.Status))
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("不正な優先度です: %s", *filter.Priority))
	}
	tasks, err := s.taskRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get は指定IDのタスクを返す。
// 存在しない場合と他ユーザー所有の場合はどちらもTASK_NOT_FOUNDになる。
func (s *Service) Get(ctx context.Context, userID, taskID int64) (*model.Task, error) {
	return s.findOwned(ctx, userID, taskID)
}

// Create はタスクを作成する。
// StatusとPriorityが空の場合はPending/Mediumが適用される。
func (s *Service) Create(ctx context.Context, userID int64, input model.TaskInput) (*model.Task, error) {
	title, err := s.normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	description := s.normalizeDescription(input.Description)

	status := input.Status
	if status == "" {
		status = model.TaskStatusPending
	}
	if !status.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("不正なステータスです: %s", status))
	}

	priority := input.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("不正な優先度です: %s", priority))
	}

	dueDate, err := normalizeDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.Info("task created", "task_id", task.ID, "user_id", userID, "priority", priority)
	if s.metrics != nil {
		s.metrics.RecordTaskCreated()
		if task.Status == model.TaskStatusCompleted {
			s.metrics.RecordTaskCompleted()
		}
	}
	return task, nil
}

// Update はタスクを部分更新する。
// 未指定のフィールドは変更されない。descriptionとdue_dateは
// 明示的なnullで消去できるが、title/status/priorityのnullは検証エラー。
func (s *Service) Update(ctx context.Context, userID, taskID int64, update model.TaskUpdate) (*model.Task, error) {
	if update.Empty() {
		return nil, model.NewValidationError("更新するフィールドが指定されていません")
	}

	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	wasCompleted := task.Status == model.TaskStatusCompleted

	if update.Title.Set {
		if update.Title.Value == nil {
			return nil, model.NewValidationError("titleにnullは指定できません")
		}
		title, err := s.normalizeTitle(*update.Title.Value)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if update.Description.Set {
		task.Description = s.normalizeDescription(update.Description.Value)
	}
	if update.Status.Set {
		if update.Status.Value == nil {
			return nil, model.NewValidationError("statusにnullは指定できません")
		}
		status := model.TaskStatus(*update.Status.Value)
		if !status.Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("不正なステータスです: %s", status))
		}
		task.Status = status
	}
	if update.Priority.Set {
		if update.Priority.Value == nil {
			return nil, model.NewValidationError("priorityにnullは指定できません")
		}
		priority := model.TaskPriority(*update.Priority.Value)
		if !priority.Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("不正な優先度です: %s", priority))
		}
		task.Priority = priority
	}
	if update.DueDate.Set {
		dueDate, err := normalizeDueDate(update.DueDate.Value)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	slog.Info("task updated", "task_id", task.ID, "user_id", userID)
	if s.metrics != nil && !wasCompleted && task.Status == model.TaskStatusCompleted {
		s.metrics.RecordTaskCompleted()
	}
	return task, nil
}

// Delete はタスクを削除する。
func (s *Service) Delete(ctx context.Context, userID, taskID int64) error {
	if _, err := s.findOwned(ctx, userID, taskID); err != nil {
		return err
	}
	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError(taskID)
	}
	slog.Info("task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

// findOwned はタスクを取得し所有権を検証する。
// 不存在と所有権不一致を区別しないのは他ユーザーのタスクIDの探索を防ぐため。
func (s *Service) findOwned(ctx context.Context, userID, taskID int64) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil || task.UserID != userID {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	return task, nil
}

// normalizeTitle はタイトルをサニタイズし長さを検証する。
func (s *Service) normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(s.sanitizer.Sanitize(raw))
	if title == "" {
		return "", model.NewValidationError("titleは必須です")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", model.NewValidationError(fmt.Sprintf("titleは%d文字以内で指定してください", maxTitleLength))
	}
	return title, nil
}

// normalizeDescription は説明をサニタイズする。nilはそのまま保持する。
func (s *Service) normalizeDescription(raw *string) *string {
	if raw == nil {
		return nil
	}
	sanitized := s.sanitizer.Sanitize(*raw)
	return &sanitized
}

// normalizeDueDate は期限日の形式を検証する。nilは「期限なし」を表す。
func normalizeDueDate(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := time.Parse(dueDateLayout, *raw)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("due_dateは%s形式で指定してください", "YYYY-MM-DD"))
	}
	normalized := parsed.Format(dueDateLayout)
	return &normalized, nil
}
