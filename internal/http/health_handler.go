package http

import (
	"context"
	"net/http"

	"github.com/izuleon01/fastserve/internal/health"
)

type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

type HealthResponse struct {
	Message  string `json:"message"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthHandler answers 200 while the database is reachable, 503 otherwise.
func HealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := checker.Check(r.Context())
		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, HealthResponse{
			Message:  "Server is running",
			Database: report.Database,
			Cache:    report.Cache,
		})
	}
}
