// Package analytics はダッシュボード向けのタスク集計を提供する。
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// completedWindow は「今週完了」とみなす期間。
const completedWindow = 7 * 24 * time.Hour

// Service はユーザー単位のタスク統計を計算する。
type Service struct {
	taskRepo repository.TaskRepository
	// now は現在時刻の取得関数。テストで差し替える。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(taskRepo repository.TaskRepository) *Service {
	return &Service{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// ComputeDashboard はユーザーのダッシュボード統計を計算する。
// 対象ユーザーのタスクのみが集計され、タスクが1件もない場合は全て0を返す。
func (s *Service) ComputeDashboard(ctx context.Context, userID int64) (*model.DashboardStats, error) {
	now := s.now()

	total, err := s.taskRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	byStatus, err := s.taskRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	byPriority, err := s.taskRepo.CountByPriority(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	overdue, err := s.taskRepo.CountOverdue(ctx, userID, now.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	completedThisWeek, err := s.taskRepo.CountCompletedSince(ctx, userID, now.Add(-completedWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count recently completed tasks: %w", err)
	}

	return &model.DashboardStats{
		TotalTasks:        total,
		ByStatus:          byStatus,
		ByPriority:        byPriority,
		OverdueTasks:      overdue,
		CompletedThisWeek: completedThisWeek,
		CompletionRate:    completionRate(byStatus.Completed, total),
	}, nil
}

// completionRate は完了率を百分率（小数第2位まで）で返す。
// タスクが0件の場合は0を返す。
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}
