// Package geocoding resolves device coordinates into street addresses using a
// Nominatim-compatible reverse geocoding service.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"glowup-backend/models"

	"github.com/juju/clock"
	"github.com/juju/loggo"
	"github.com/juju/retry"
	"github.com/pkg/errors"
)

var logger = loggo.GetLogger("glowup.geocoding")

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Config configures a Client. Zero values take the defaults.
type Config struct {
	BaseURL    string
	UserAgent  string
	Attempts   int
	Delay      time.Duration
	MaxDelay   time.Duration
	HTTPClient *http.Client
	Clock      clock.Clock
}

// Client is a reverse geocoder. It retries transient failures with a doubling
// delay and gives up on client errors.
type Client struct {
	baseURL   string
	userAgent string
	attempts  int
	delay     time.Duration
	maxDelay  time.Duration
	http      *http.Client
	clock     clock.Clock
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		attempts:  cfg.Attempts,
		delay:     cfg.Delay,
		maxDelay:  cfg.MaxDelay,
		http:      cfg.HTTPClient,
		clock:     cfg.Clock,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = "GlowUp/1.0"
	}
	if c.attempts <= 0 {
		c.attempts = 3
	}
	if c.delay <= 0 {
		c.delay = 500 * time.Millisecond
	}
	if c.maxDelay <= 0 {
		c.maxDelay = 4 * time.Second
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	if c.clock == nil {
		c.clock = clock.WallClock
	}
	return c
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		Road          string `json:"road"`
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
		CityDistrict  string `json:"city_district"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		State         string `json:"state"`
		Postcode      string `json:"postcode"`
		Country       string `json:"country"`
	} `json:"address"`
}

// statusError is returned for non-200 responses.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("geocoder returned status %d", e.code)
}

// retryable reports whether a later attempt may succeed.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

// Reverse looks up the address at lat/lon.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (models.Location, error) {
	var resp reverseResponse
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			var err error
			resp, err = c.reverseOnce(ctx, lat, lon)
			return err
		},
		IsFatalError: func(err error) bool {
			return ctx.Err() != nil || !retryable(err)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("reverse geocoding attempt %d: %v", attempt, err)
		},
		Attempts:    c.attempts,
		Delay:       c.delay,
		MaxDelay:    c.maxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       c.clock,
		Stop:        ctx.Done(),
	})
	if err != nil {
		return models.Location{}, errors.Wrapf(retry.LastError(err), "reverse geocode %.5f,%.5f", lat, lon)
	}
	if resp.Error != "" {
		return models.Location{}, errors.Errorf("reverse geocode %.5f,%.5f: %s", lat, lon, resp.Error)
	}
	return resp.location(lat, lon), nil
}

func (c *Client) reverseOnce(ctx context.Context, lat, lon float64) (reverseResponse, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return reverseResponse{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return reverseResponse{}, errors.Wrap(err, "request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return reverseResponse{}, &statusError{code: res.StatusCode}
	}

	var out reverseResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return reverseResponse{}, errors.Wrap(err, "decode response")
	}
	return out, nil
}

func (r reverseResponse) location(lat, lon float64) models.Location {
	a := r.Address
	return models.Location{
		Lat:         lat,
		Lon:         lon,
		Road:        firstNonEmpty(a.Road, a.Neighbourhood),
		Suburb:      firstNonEmpty(a.Suburb, a.CityDistrict),
		City:        firstNonEmpty(a.City, a.Town, a.Village),
		State:       a.State,
		Postcode:    a.Postcode,
		Country:     a.Country,
		DisplayName: r.DisplayName,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
