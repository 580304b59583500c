// Package rest implements the health-platform port against a remote daemon
// speaking a small JSON API.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"healthsync/internal/domain"
)

// Platform talks to a remote health-data daemon. Every call carries an
// explicit timeout so a hung daemon cannot leave a caller waiting forever.
type Platform struct {
	client *resty.Client
}

// New builds a client for the daemon at baseURL. token, when non-empty, is
// sent as a bearer credential on every request.
func New(baseURL, token string) *Platform {
	var c *resty.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		c = resty.NewWithClient(oauth2.NewClient(context.Background(), src))
	} else {
		c = resty.New()
	}
	c.SetBaseURL(baseURL)
	c.SetTimeout(10 * time.Second)
	return &Platform{client: c}
}

var _ domain.HealthPlatform = (*Platform)(nil)

type wireGrant struct {
	MetricType domain.MetricType `json:"metricType"`
	CanRead    bool              `json:"canRead"`
	CanWrite   bool              `json:"canWrite"`
}

type wireSample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// wireRecord covers both record shapes the daemon returns: a bare value, or
// an embedded sample list. A present samples array selects the list shape.
type wireRecord struct {
	ID        string            `json:"id"`
	Value     *float64          `json:"value,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Samples   []wireSample      `json:"samples,omitempty"`
	Device    domain.DeviceInfo `json:"device"`
}

type writeRequest struct {
	MetricType domain.MetricType `json:"metricType"`
	Value      float64           `json:"value"`
	Timestamp  time.Time         `json:"timestamp"`
	Device     domain.DeviceInfo `json:"device"`
}

type writeResponse struct {
	ID string `json:"id"`
}

// Available reports whether the daemon answers its status endpoint.
func (p *Platform) Available(ctx context.Context) bool {
	resp, err := p.client.R().SetContext(ctx).Get("/v1/status")
	return err == nil && resp.IsSuccess()
}

// Grants fetches the current per-metric permission states.
func (p *Platform) Grants(ctx context.Context) (map[domain.MetricType]domain.PermissionState, error) {
	var grants []wireGrant
	resp, err := p.client.R().SetContext(ctx).SetResult(&grants).Get("/v1/grants")
	if err := mapErr(resp, err); err != nil {
		return nil, err
	}
	out := make(map[domain.MetricType]domain.PermissionState, len(grants))
	for _, g := range grants {
		out[g.MetricType] = domain.PermissionState{MetricType: g.MetricType, CanRead: g.CanRead, CanWrite: g.CanWrite}
	}
	return out, nil
}

// RequestConsent asks the daemon to run its consent flow. The response
// carries no grant outcome; callers re-query Grants.
func (p *Platform) RequestConsent(ctx context.Context, metrics []domain.MetricType) error {
	body := map[string][]domain.MetricType{"metricTypes": metrics}
	resp, err := p.client.R().SetContext(ctx).SetBody(body).Post("/v1/consent")
	return mapErr(resp, err)
}

// WriteRecord persists one value and returns the daemon's record id.
func (p *Platform) WriteRecord(ctx context.Context, m domain.MetricType, value float64, ts time.Time, device domain.DeviceInfo) (string, error) {
	var out writeResponse
	resp, err := p.client.R().SetContext(ctx).
		SetBody(writeRequest{MetricType: m, Value: value, Timestamp: ts, Device: device}).
		SetResult(&out).
		Post("/v1/records")
	if err := mapErr(resp, err); err != nil {
		return "", err
	}
	return out.ID, nil
}

// DeleteRecord removes one record by id.
func (p *Platform) DeleteRecord(ctx context.Context, m domain.MetricType, externalID string) error {
	resp, err := p.client.R().SetContext(ctx).
		SetPathParams(map[string]string{"metric": string(m), "id": externalID}).
		Delete("/v1/records/{metric}/{id}")
	return mapErr(resp, err)
}

// ReadRecords fetches raw records overlapping [start, end).
func (p *Platform) ReadRecords(ctx context.Context, m domain.MetricType, start, end time.Time) ([]domain.RawExternalRecord, error) {
	var records []wireRecord
	resp, err := p.client.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"metric": string(m),
			"start":  start.Format(time.RFC3339),
			"end":    end.Format(time.RFC3339),
		}).
		SetResult(&records).
		Get("/v1/records")
	if err := mapErr(resp, err); err != nil {
		return nil, err
	}

	out := make([]domain.RawExternalRecord, 0, len(records))
	for _, r := range records {
		if len(r.Samples) > 0 {
			rec := domain.RawExternalRecord{Kind: domain.RawSampleList, ID: r.ID, Device: r.Device}
			for _, s := range r.Samples {
				rec.Samples = append(rec.Samples, domain.RawSample{Timestamp: s.Timestamp, Value: s.Value})
			}
			out = append(out, rec)
			continue
		}
		rec := domain.RawExternalRecord{Kind: domain.RawSingleValue, ID: r.ID, Timestamp: r.Timestamp, Device: r.Device}
		if r.Value != nil {
			rec.Value = *r.Value
		}
		out = append(out, rec)
	}
	return out, nil
}

// mapErr translates transport and HTTP failures into the domain taxonomy:
// transport faults read as an unavailable platform, 401/403 as denial, 404
// as a missing record.
func mapErr(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPlatformUnavailable, err)
	}
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrPermissionDenied
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("platform: unexpected status %d", resp.StatusCode())
	}
	return nil
}
