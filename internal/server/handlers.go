package server

import (
	"net/http"
	"time"

	"auroracast/internal/types"
)

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// visibilityView is the public shape of an evaluation. Age is rendered in
// whole seconds and Stale flags cached data older than the configured
// staleness horizon.
type visibilityView struct {
	ID                string   `json:"id"`
	State             string   `json:"state"`
	Lat               float64  `json:"lat"`
	Lon               float64  `json:"lon"`
	AuroraProbability float64  `json:"aurora_probability"`
	Score             *float64 `json:"score,omitempty"`
	CloudCover        *int     `json:"cloud_cover,omitempty"`
	Darkness          *float64 `json:"darkness,omitempty"`
	GeneratedAt       string   `json:"generated_at"`
	Cached            bool     `json:"cached"`
	AgeSeconds        int64    `json:"age_seconds"`
	Stale             bool     `json:"stale"`
}

// alertSettingsView is the read and write shape of the alert settings.
// LastAlertAt is read-only and omitted while no alert has ever fired.
type alertSettingsView struct {
	Enabled          bool       `json:"enabled"`
	ThresholdPercent int        `json:"threshold_percent"`
	LastAlertAt      *time.Time `json:"last_alert_at,omitempty"`
}

// alertSettingsRequest is the PUT payload. Both fields are required so a
// partial update can never silently zero the other field.
type alertSettingsRequest struct {
	Enabled          *bool `json:"enabled" validate:"required"`
	ThresholdPercent *int  `json:"threshold_percent" validate:"required,min=1,max=100"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, healthResponse{
		Status: "ok",
		Time:   s.clock.Now().Format(time.RFC3339),
	})
}

// handleVisibility returns the latest evaluation. Before the first tick
// completes there is nothing to serve and the endpoint reports 404.
func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	eval := s.evals.Latest()
	if eval == nil {
		s.writeError(w, r, types.NewAppError(
			types.ErrCodeNotFoundEvaluation, "no evaluation available yet", nil))
		return
	}

	view := visibilityView{
		ID:                eval.ID,
		State:             string(eval.State),
		Lat:               eval.Lat,
		Lon:               eval.Lon,
		AuroraProbability: eval.AuroraProbability,
		Score:             eval.Score,
		CloudCover:        eval.CloudCover,
		Darkness:          eval.Darkness,
		GeneratedAt:       eval.GeneratedAt.Format(time.RFC3339),
		Cached:            eval.IsCached,
		AgeSeconds:        int64(eval.Age / time.Second),
		Stale:             eval.IsCached && eval.Age > s.staleAfter,
	}
	s.writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleGetAlertSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.ReadAlertState(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if st == nil {
		defaults := s.defaults
		st = &defaults
	}
	s.writeJSON(w, r, http.StatusOK, alertStateView(*st))
}

// handlePutAlertSettings replaces the alert configuration. The anti-spam
// timestamp survives the update so toggling settings cannot bypass the
// cooldown.
func (s *Server) handlePutAlertSettings(w http.ResponseWriter, r *http.Request) {
	var req alertSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, types.NewAppError(
			types.ErrCodeValidationThresholdRange,
			"threshold_percent must be between 1 and 100 and enabled must be set", err))
		return
	}

	prior, err := s.store.ReadAlertState(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	next := types.AlertState{
		Enabled:          *req.Enabled,
		ThresholdPercent: *req.ThresholdPercent,
	}
	if prior != nil {
		next.LastAlertAt = prior.LastAlertAt
	}

	if err := s.store.WriteAlertState(r.Context(), next); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "alert settings updated",
		"enabled", next.Enabled,
		"threshold_percent", next.ThresholdPercent,
	)
	s.writeJSON(w, r, http.StatusOK, alertStateView(next))
}

// alertStateView converts stored alert state to its public shape.
func alertStateView(st types.AlertState) alertSettingsView {
	view := alertSettingsView{
		Enabled:          st.Enabled,
		ThresholdPercent: st.ThresholdPercent,
	}
	if !st.LastAlertAt.IsZero() {
		at := st.LastAlertAt
		view.LastAlertAt = &at
	}
	return view
}
