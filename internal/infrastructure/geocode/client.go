package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/progression/domain"
)

// Config controls the postcode lookup client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Dial overrides the transport, mainly for tests.
	Dial fasthttp.DialFunc
}

// Client resolves UK postcodes through a postcodes.io compatible API.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

type lookupResponse struct {
	Status int `json:"status"`
	Result *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"result"`
	Error string `json:"error"`
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("geocode base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http: &fasthttp.Client{
			Name:                "employment-progression-geocoder",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
			Dial:                cfg.Dial,
		},
	}, nil
}

// Resolve returns nil, nil for a blank postcode and domain.ErrPostcodeNotFound
// when the service does not know it.
func (c *Client) Resolve(ctx context.Context, postcode string) (*domain.Coordinates, error) {
	postcode = Normalize(postcode)
	if postcode == "" {
		return nil, nil
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ctx.Err()
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/postcodes/" + url.PathEscape(postcode))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", postcode, err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound:
		return nil, domain.ErrPostcodeNotFound
	case status != fasthttp.StatusOK:
		return nil, fmt.Errorf("geocode %q: unexpected status %d", postcode, status)
	}

	var payload lookupResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("geocode %q: decode response: %w", postcode, err)
	}
	if payload.Result == nil || payload.Result.Latitude == nil || payload.Result.Longitude == nil {
		return nil, domain.ErrPostcodeNotFound
	}
	return &domain.Coordinates{
		Latitude:  *payload.Result.Latitude,
		Longitude: *payload.Result.Longitude,
	}, nil
}

// Normalize upper-cases a postcode and collapses inner whitespace to a single space.
func Normalize(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), " "))
}
