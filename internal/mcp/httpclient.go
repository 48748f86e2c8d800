package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gymdesk/gymdesk/internal/dashboard"
	"github.com/gymdesk/gymdesk/internal/models"
)

// HTTPClient implements DataSource by calling the GymDesk REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the service runs elsewhere (for example behind Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// monthParams encodes a 0-based month as the API's 1-based query.
func monthParams(year, month int) url.Values {
	v := url.Values{}
	v.Set("year", strconv.Itoa(year))
	v.Set("month", strconv.Itoa(month+1))
	return v
}

func (c *HTTPClient) Routines(ctx context.Context) ([]models.Routine, error) {
	body, err := c.get(ctx, "/api/v1/routines", nil)
	if err != nil {
		return nil, err
	}

	var routines []models.Routine
	if err := json.Unmarshal(body, &routines); err != nil {
		return nil, fmt.Errorf("httpclient: decode routines: %w", err)
	}
	return routines, nil
}

func (c *HTTPClient) Calendar(ctx context.Context, year, month int) (dashboard.CalendarView, error) {
	body, err := c.get(ctx, "/api/v1/calendar", monthParams(year, month))
	if err != nil {
		return dashboard.CalendarView{}, err
	}

	var view dashboard.CalendarView
	if err := json.Unmarshal(body, &view); err != nil {
		return dashboard.CalendarView{}, fmt.Errorf("httpclient: decode calendar: %w", err)
	}
	return view, nil
}

func (c *HTTPClient) Attendance(ctx context.Context, year, month int) (models.AttendanceSummary, error) {
	body, err := c.get(ctx, "/api/v1/attendance", monthParams(year, month))
	if err != nil {
		return models.AttendanceSummary{}, err
	}

	var summary models.AttendanceSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return models.AttendanceSummary{}, fmt.Errorf("httpclient: decode attendance: %w", err)
	}
	return summary, nil
}
