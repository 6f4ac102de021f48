// Package gps is the out-of-scope external collaborator spec.md §1 names
// as "GPS metadata, GPS HTTP probe": purely informational location data
// stamped onto the root node of each anchor created by a mouse press
// (children created with Tab are not stamped). Grounded on original_source's
// gps_query (an HTTP GET against an IP-geolocation endpoint, parsed as
// "lat,lon"); no pack dependency targets IP geolocation specifically, so
// this stays on net/http (see DESIGN.md).
package gps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"scrawl/internal/canvas"
	"scrawl/internal/log"
)

// DefaultEndpoint mirrors the original's ipinfo.io/loc default.
const DefaultEndpoint = "https://ipinfo.io/loc"

// Prober reports the machine's current approximate location.
type Prober interface {
	Probe(ctx context.Context) (canvas.GPSCoord, error)
}

// HTTPProber fetches "lat,lon" from a configurable HTTP endpoint.
type HTTPProber struct {
	Endpoint string
	Timeout  time.Duration
	client   *http.Client
}

// NewHTTPProber builds a prober against endpoint, defaulting to
// DefaultEndpoint when empty.
func NewHTTPProber(endpoint string, timeout time.Duration) *HTTPProber {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPProber{
		Endpoint: endpoint,
		Timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// Probe performs the GET and parses the "lat,lon" response body.
func (p *HTTPProber) Probe(ctx context.Context) (canvas.GPSCoord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint, nil)
	if err != nil {
		return canvas.GPSCoord{}, fmt.Errorf("building gps request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return canvas.GPSCoord{}, fmt.Errorf("gps probe request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return canvas.GPSCoord{}, fmt.Errorf("gps probe: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return canvas.GPSCoord{}, fmt.Errorf("reading gps response: %w", err)
	}
	return parseLatLon(string(body))
}

func parseLatLon(body string) (canvas.GPSCoord, error) {
	parts := strings.SplitN(strings.TrimSpace(body), ",", 2)
	if len(parts) != 2 {
		return canvas.GPSCoord{}, fmt.Errorf("gps probe: malformed response %q", body)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return canvas.GPSCoord{}, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil {
		return canvas.GPSCoord{}, fmt.Errorf("parsing longitude: %w", err)
	}
	return canvas.GPSCoord{Lat: float32(lat), Lon: float32(lon)}, nil
}

// ProbeOnce runs the probe once with ctx and logs the
// outcome, mirroring the original's unwrap_or_else fallback: failure
// leaves coord zero rather than propagating. It never blocks the caller
// beyond the prober's own timeout, so it is safe to call in a goroutine
// launched at canvas-open.
func ProbeOnce(ctx context.Context, p Prober) canvas.GPSCoord {
	coord, err := p.Probe(ctx)
	if err != nil {
		log.Warn(log.CatGPS, "gps probe failed, leaving location unset", "error", err.Error())
		return canvas.GPSCoord{}
	}
	log.Info(log.CatGPS, "gps probe succeeded", "lat", coord.Lat, "lon", coord.Lon)
	return coord
}
