// Package app holds the application services of the sync engine.
package app

import (
	"context"
	"sync"

	"healthsync/internal/domain"
)

// PermissionGate tracks per-metric read/write grants against the external
// platform. Predicates answer from the last explicit check; callers that
// have been idle for a while should re-check before acting.
type PermissionGate struct {
	platform domain.HealthPlatform

	mu     sync.RWMutex
	states map[domain.MetricType]domain.PermissionState
}

// NewPermissionGate creates a gate with no grants known yet.
func NewPermissionGate(platform domain.HealthPlatform) *PermissionGate {
	return &PermissionGate{
		platform: platform,
		states:   make(map[domain.MetricType]domain.PermissionState),
	}
}

// CheckStatus recomputes the grant state for every metric type. An
// unavailable platform yields all-false states with no error; downstream
// code treats unavailability and denial identically.
func (g *PermissionGate) CheckStatus(ctx context.Context) []domain.PermissionState {
	fresh := make(map[domain.MetricType]domain.PermissionState, len(domain.Metrics()))
	for _, m := range domain.Metrics() {
		fresh[m] = domain.PermissionState{MetricType: m}
	}
	if g.platform.Available(ctx) {
		if grants, err := g.platform.Grants(ctx); err == nil {
			for m, st := range grants {
				if !m.Valid() {
					continue
				}
				st.MetricType = m
				fresh[m] = st
			}
		}
	}

	g.mu.Lock()
	g.states = fresh
	g.mu.Unlock()

	out := make([]domain.PermissionState, 0, len(domain.Metrics()))
	for _, m := range domain.Metrics() {
		out = append(out, fresh[m])
	}
	return out
}

// RequestAccess triggers the platform consent flow. The flow's outcome
// (granted, denied or dismissed) is not observable here; callers must run
// CheckStatus again to learn the result.
func (g *PermissionGate) RequestAccess(ctx context.Context, metrics ...domain.MetricType) {
	if !g.platform.Available(ctx) {
		return
	}
	_ = g.platform.RequestConsent(ctx, metrics)
}

// CanRead reports whether read access was granted at the last check.
func (g *PermissionGate) CanRead(m domain.MetricType) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.states[m].CanRead
}

// CanWrite reports whether write access was granted at the last check.
func (g *PermissionGate) CanWrite(m domain.MetricType) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.states[m].CanWrite
}
