package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/taskman/internal/middleware"
	"github.com/hitoshi/taskman/internal/model"
)

// AnalyticsServiceInterface は分析ハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	ComputeDashboard(ctx context.Context, userID int64) (*model.DashboardStats, error)
}

// AnalyticsHandler はダッシュボード統計のHTTPハンドラー。
type AnalyticsHandler struct {
	service AnalyticsServiceInterface
}

// NewAnalyticsHandler はAnalyticsHandlerを生成する。
func NewAnalyticsHandler(service AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// statusCountsResponse はステータス別タスク件数のAPIレスポンス。
type statusCountsResponse struct {
	Pending    int `json:"Pending"`
	InProgress int `json:"In Progress"`
	Completed  int `json:"Completed"`
}

// priorityCountsResponse は優先度別タスク件数のAPIレスポンス。
type priorityCountsResponse struct {
	Low    int `json:"Low"`
	Medium int `json:"Medium"`
	High   int `json:"High"`
}

// dashboardResponse はダッシュボード統計のAPIレスポンス。
type dashboardResponse struct {
	TotalTasks        int                    `json:"totalTasks"`
	ByStatus          statusCountsResponse   `json:"byStatus"`
	ByPriority        priorityCountsResponse `json:"byPriority"`
	OverdueTasks      int                    `json:"overdueTasks"`
	CompletedThisWeek int                    `json:"completedThisWeek"`
	CompletionRate    float64                `json:"completionRate"`
}

// Dashboard はユーザーのダッシュボード統計を返す。
// GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	stats, err := h.service.ComputeDashboard(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalTasks: stats.TotalTasks,
		ByStatus: statusCountsResponse{
			Pending:    stats.ByStatus.Pending,
			InProgress: stats.ByStatus.InProgress,
			Completed:  stats.ByStatus.Completed,
		},
		ByPriority: priorityCountsResponse{
			Low:    stats.ByPriority.Low,
			Medium: stats.ByPriority.Medium,
			High:   stats.ByPriority.High,
		},
		OverdueTasks:      stats.OverdueTasks,
		CompletedThisWeek: stats.CompletedThisWeek,
		CompletionRate:    stats.CompletionRate,
	})
}
