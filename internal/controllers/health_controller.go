package controllers

import (
	"fmt"
	"medilens/internal/services"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	history   services.HistoryServiceInterface
	session   services.SessionServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	HistorySize   int     `json:"history_size"`
	Processing    bool    `json:"processing"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		HistorySize:   hc.history.Len(),
		Processing:    hc.session.State().Processing,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(history services.HistoryServiceInterface, session services.SessionServiceInterface) *HealthController {
	return &HealthController{
		history:   history,
		session:   session,
		startTime: time.Now(),
	}
}
