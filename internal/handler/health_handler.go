package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DatabasePinger はヘルスチェックに必要なデータベース接続確認のインターフェース。
type DatabasePinger interface {
	PingContext(ctx context.Context) error
}

// healthResponse はヘルスチェックのAPIレスポンス。
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// NewHealthHandler はヘルスチェックエンドポイントのハンドラーを返す。
// GET /health
// データベース接続に失敗した場合は503を返す。
func NewHealthHandler(db DatabasePinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Database:  "ok",
		}
		statusCode := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check: database ping failed", slog.String("error", err.Error()))
			resp.Status = "degraded"
			resp.Database = "unreachable"
			statusCode = http.StatusServiceUnavailable
		}

		writeJSON(w, statusCode, resp)
	}
}
