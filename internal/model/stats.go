// Package model はドメインモデルを定義する。
package model

// StatusCounts はステータス別のタスク件数を表す。
// データに存在しないステータスも常に0件としてキーが揃う。
type StatusCounts struct {
	Pending    int
	InProgress int
	Completed  int
}

// PriorityCounts は優先度別のタスク件数を表す。
// データに存在しない優先度も常に0件としてキーが揃う。
type PriorityCounts struct {
	Low    int
	Medium int
	High   int
}

// DashboardStats はダッシュボード統計を表す。
// 永続化されず、リクエストごとに計算される派生データ。
type DashboardStats struct {
	TotalTasks        int
	ByStatus          StatusCounts
	ByPriority        PriorityCounts
	OverdueTasks      int
	CompletedThisWeek int
	CompletionRate    float64
}
