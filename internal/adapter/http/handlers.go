package adapthttp

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"healthsync/internal/domain"
)

func (s *Server) handlePermissions(w http.ResponseWriter, r *http.Request) {
	states := s.session.CheckPermissions(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"permissions": states})
}

func (s *Server) handlePermissionsRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MetricTypes []string `json:"metricTypes"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	metrics := make([]domain.MetricType, 0, len(body.MetricTypes))
	for _, name := range body.MetricTypes {
		m, err := domain.ParseMetric(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		metrics = append(metrics, m)
	}
	if len(metrics) == 0 {
		metrics = domain.Metrics()
	}
	states := s.session.RequestPermissions(r.Context(), metrics...)
	writeJSON(w, http.StatusOK, map[string]any{"permissions": states})
}

func (s *Server) handleAddReading(w http.ResponseWriter, r *http.Request) {
	m, err := metricFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var body struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	value := body.Value
	// Temperatures may arrive in °F; everything downstream is canonical °C.
	if m == domain.BodyTemperature && isFahrenheit(body.Unit) {
		value = domain.FahrenheitToCelsius(value)
	}
	if m == domain.Hydration && strings.EqualFold(body.Unit, "l") {
		value = domain.LitersToMilliliters(value)
	}

	res, err := s.session.AddReading(r.Context(), m, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func isFahrenheit(unit string) bool {
	switch strings.ToLower(strings.TrimPrefix(unit, "°")) {
	case "f", "fahrenheit":
		return true
	}
	return false
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	m, err := metricFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.session.Refresh(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUndoLast(w http.ResponseWriter, r *http.Request) {
	m, err := metricFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.session.UndoLast(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	m, err := metricFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	week, err := s.session.WeeklySeries(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unit": m.Unit(), "week": week})
}

func (s *Server) handleDayDetail(w http.ResponseWriter, r *http.Request) {
	m, err := metricFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	day := mux.Vars(r)["day"]
	detail, notice, err := s.session.DayDetail(r.Context(), m, day)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if detail == nil {
		writeJSON(w, http.StatusForbidden, map[string]any{"notice": notice})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unit": m.Unit(), "detail": detail})
}
