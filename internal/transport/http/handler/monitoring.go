package handler

import (
	"context"
	"net/http"

	"github.com/judicial-monitor/internal/application/monitoring"
)

// MonitoringTrigger runs a monitoring cycle on demand.
type MonitoringTrigger interface {
	TriggerNow(ctx context.Context) (monitoring.CycleReport, error)
}

// MonitoringHandler exposes the admin "run now" endpoint.
type MonitoringHandler struct {
	trigger MonitoringTrigger
}

func NewMonitoringHandler(trigger MonitoringTrigger) *MonitoringHandler {
	return &MonitoringHandler{trigger: trigger}
}

func (h *MonitoringHandler) Run(w http.ResponseWriter, r *http.Request) {
	// The cycle outlives a dropped client connection.
	report, err := h.trigger.TriggerNow(context.WithoutCancel(r.Context()))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
