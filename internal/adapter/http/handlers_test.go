package adapthttp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	adapthttp "healthsync/internal/adapter/http"
	"healthsync/internal/adapter/memory"
	"healthsync/internal/app"
	"healthsync/internal/domain"
)

func newServer(t *testing.T) (http.Handler, *memory.Platform) {
	t.Helper()
	platform := memory.NewPlatform()
	store := memory.NewStore()
	gate := app.NewPermissionGate(platform)
	adapter := app.NewSyncAdapter(gate, platform, domain.DeviceInfo{Name: "test", Model: "go-test"})
	session := app.NewSyncSession(gate, adapter, store, store, zerolog.Nop())
	return adapthttp.New(session, zerolog.Nop()).Handler(), platform
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAddReading_OK(t *testing.T) {
	h, _ := newServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/metrics/heart_rate/readings", `{"value": 72}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Synced   bool `json:"synced"`
		Snapshot struct {
			LatestValue float64 `json:"latestValue"`
		} `json:"snapshot"`
	}
	decode(t, rec, &res)
	if res.Synced {
		t.Fatal("expected local-only write without permissions")
	}
	if res.Snapshot.LatestValue != 72 {
		t.Fatalf("expected snapshot 72, got %v", res.Snapshot.LatestValue)
	}
}

func TestAddReading_FahrenheitConverted(t *testing.T) {
	h, _ := newServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/metrics/body_temperature/readings", `{"value": 98.6, "unit": "F"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Snapshot struct {
			LatestValue float64 `json:"latestValue"`
		} `json:"snapshot"`
	}
	decode(t, rec, &res)
	if res.Snapshot.LatestValue != 37.0 {
		t.Fatalf("expected 98.6°F stored as 37.0°C, got %v", res.Snapshot.LatestValue)
	}
}

func TestAddReading_BadRequests(t *testing.T) {
	h, _ := newServer(t)
	tests := []struct {
		name string
		path string
		body string
	}{
		{"unknown metric", "/api/metrics/steps/readings", `{"value": 10}`},
		{"non-positive value", "/api/metrics/heart_rate/readings", `{"value": 0}`},
		{"malformed json", "/api/metrics/heart_rate/readings", `{"value": `},
		{"unknown field", "/api/metrics/heart_rate/readings", `{"value": 72, "bogus": 1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, tc.path, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPermissionsRequest(t *testing.T) {
	h, _ := newServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/permissions/request", `{"metricTypes": ["hydration"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Permissions []domain.PermissionState `json:"permissions"`
	}
	decode(t, rec, &res)
	if len(res.Permissions) != len(domain.Metrics()) {
		t.Fatalf("expected a state per metric, got %d", len(res.Permissions))
	}
	for _, st := range res.Permissions {
		want := st.MetricType == domain.Hydration
		if st.CanRead != want || st.CanWrite != want {
			t.Fatalf("expected grants only for hydration, got %+v", st)
		}
	}
}

func TestWeek_Shape(t *testing.T) {
	h, _ := newServer(t)
	doJSON(t, h, http.MethodPost, "/api/metrics/heart_rate/readings", `{"value": 72}`)

	rec := doJSON(t, h, http.MethodGet, "/api/metrics/heart_rate/week", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Unit string                `json:"unit"`
		Week []domain.DayAggregate `json:"week"`
	}
	decode(t, rec, &res)
	if res.Unit != domain.HeartRate.Unit() {
		t.Fatalf("expected unit %q, got %q", domain.HeartRate.Unit(), res.Unit)
	}
	if len(res.Week) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(res.Week))
	}
	last := res.Week[6]
	if !last.IsToday || last.Average != 72 {
		t.Fatalf("expected today's average 72, got %+v", last)
	}
}

func TestUndoLast_EmptyLedger(t *testing.T) {
	h, _ := newServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/metrics/hydration/undo-last", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Undone bool `json:"undone"`
	}
	decode(t, rec, &res)
	if res.Undone {
		t.Fatal("expected no-op undo")
	}
}

func TestDayDetail_Forbidden(t *testing.T) {
	h, _ := newServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/metrics/heart_rate/days/2026-03-10", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without read access, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Notice string `json:"notice"`
	}
	decode(t, rec, &res)
	if res.Notice == "" {
		t.Fatal("expected a notice explaining the missing permission")
	}
}

func TestDayDetail_BadDayKey(t *testing.T) {
	h, _ := newServer(t)
	doJSON(t, h, http.MethodPost, "/api/permissions/request", `{"metricTypes": ["heart_rate"]}`)

	rec := doJSON(t, h, http.MethodGet, "/api/metrics/heart_rate/days/10-03-2026", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed day, got %d: %s", rec.Code, rec.Body.String())
	}
}
