package api

import (
	"context"
	"net/http"
)

// HealthChecker is satisfied by *db.Manager.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type SystemHandler struct {
	db HealthChecker
}

func NewSystemHandler(db HealthChecker) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.HealthCheck(r.Context()) != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "service": "zelar"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "zelar"})
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": version, "buildTime": buildTime})
	}
}
