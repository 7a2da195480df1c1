package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/taskman/internal/model"
)

// --- モック ---

type mockTaskRepo struct {
	countByUserFn         func(ctx context.Context, userID int64) (int, error)
	countByStatusFn       func(ctx context.Context, userID int64) (model.StatusCounts, error)
	countByPriorityFn     func(ctx context.Context, userID int64) (model.PriorityCounts, error)
	countOverdueFn        func(ctx context.Context, userID int64, today string) (int, error)
	countCompletedSinceFn func(ctx context.Context, userID int64, since time.Time) (int, error)
}

func (m *mockTaskRepo) ListByUser(ctx context.Context, userID int64, filter model.TaskFilter) ([]*model.Task, error) {
	return nil, nil
}
func (m *mockTaskRepo) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	return nil, nil
}
func (m *mockTaskRepo) Create(ctx context.Context, task *model.Task) error { return nil }
func (m *mockTaskRepo) Update(ctx context.Context, task *model.Task) error { return nil }
func (m *mockTaskRepo) Delete(ctx context.Context, id int64) (bool, error) { return false, nil }
func (m *mockTaskRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	if m.countByUserFn != nil {
		return m.countByUserFn(ctx, userID)
	}
	return 0, nil
}
func (m *mockTaskRepo) CountByStatus(ctx context.Context, userID int64) (model.StatusCounts, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx, userID)
	}
	return model.StatusCounts{}, nil
}
func (m *mockTaskRepo) CountByPriority(ctx context.Context, userID int64) (model.PriorityCounts, error) {
	if m.countByPriorityFn != nil {
		return m.countByPriorityFn(ctx, userID)
	}
	return model.PriorityCounts{}, nil
}
func (m *mockTaskRepo) CountOverdue(ctx context.Context, userID int64, today string) (int, error) {
	if m.countOverdueFn != nil {
		return m.countOverdueFn(ctx, userID, today)
	}
	return 0, nil
}
func (m *mockTaskRepo) CountCompletedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	if m.countCompletedSinceFn != nil {
		return m.countCompletedSinceFn(ctx, userID, since)
	}
	return 0, nil
}

// --- テスト ---

// TestService_ComputeDashboard_Empty はタスク0件で全統計が0になることを検証する。
func TestService_ComputeDashboard_Empty(t *testing.T) {
	svc := NewService(&mockTaskRepo{})

	stats, err := svc.ComputeDashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("ComputeDashboard returned error: %v", err)
	}
	if stats.TotalTasks != 0 || stats.OverdueTasks != 0 || stats.CompletedThisWeek != 0 {
		t.Errorf("counts should all be zero: %+v", stats)
	}
	if stats.CompletionRate != 0 {
		t.Errorf("CompletionRate = %v, want 0", stats.CompletionRate)
	}
}

// TestService_ComputeDashboard_Aggregates は各集計がまとめて返されることを検証する。
func TestService_ComputeDashboard_Aggregates(t *testing.T) {
	repo := &mockTaskRepo{
		countByUserFn: func(ctx context.Context, userID int64) (int, error) {
			if userID != 7 {
				t.Errorf("userID = %d, want 7", userID)
			}
			return 6, nil
		},
		countByStatusFn: func(ctx context.Context, userID int64) (model.StatusCounts, error) {
			return model.StatusCounts{Pending: 2, InProgress: 2, Completed: 2}, nil
		},
		countByPriorityFn: func(ctx context.Context, userID int64) (model.PriorityCounts, error) {
			return model.PriorityCounts{Low: 1, Medium: 3, High: 2}, nil
		},
		countOverdueFn: func(ctx context.Context, userID int64, today string) (int, error) {
			if _, err := time.Parse("2006-01-02", today); err != nil {
				t.Errorf("today = %q should be YYYY-MM-DD", today)
			}
			return 1, nil
		},
		countCompletedSinceFn: func(ctx context.Context, userID int64, since time.Time) (int, error) {
			age := time.Since(since)
			if age < 7*24*time.Hour-time.Minute || age > 7*24*time.Hour+time.Minute {
				t.Errorf("since should be about 7 days ago, got %v", since)
			}
			return 2, nil
		},
	}
	svc := NewService(repo)

	stats, err := svc.ComputeDashboard(context.Background(), 7)
	if err != nil {
		t.Fatalf("ComputeDashboard returned error: %v", err)
	}
	if stats.TotalTasks != 6 {
		t.Errorf("TotalTasks = %d, want 6", stats.TotalTasks)
	}
	if stats.ByStatus.Completed != 2 || stats.ByPriority.High != 2 {
		t.Errorf("unexpected breakdowns: %+v", stats)
	}
	if stats.OverdueTasks != 1 || stats.CompletedThisWeek != 2 {
		t.Errorf("OverdueTasks = %d, CompletedThisWeek = %d", stats.OverdueTasks, stats.CompletedThisWeek)
	}
	if stats.CompletionRate != 33.33 {
		t.Errorf("CompletionRate = %v, want 33.33", stats.CompletionRate)
	}
}

// TestCompletionRate は完了率の丸めを検証する。
func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"0件", 0, 0, 0},
		{"全て未完了", 0, 5, 0},
		{"3分の1", 1, 3, 33.33},
		{"3分の2", 2, 3, 66.67},
		{"全て完了", 4, 4, 100},
		{"7分の1", 1, 7, 14.29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completionRate(tt.completed, tt.total); got != tt.want {
				t.Errorf("completionRate(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}
