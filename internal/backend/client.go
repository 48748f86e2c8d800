// Package backend talks to the gym REST backend that owns routines, classes
// and exercise assignments.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gymdesk/gymdesk/internal/models"
)

// Options configures a Client. Empty paths fall back to the defaults.
type Options struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration
	RoutinesPath    string
	ClassesPath     string
	AssignmentsPath string
}

const (
	DefaultRoutinesPath    = "/rutinas"
	DefaultClassesPath     = "/clases"
	DefaultAssignmentsPath = "/asignaciones"
)

// Client fetches raw records from the backend.
type Client struct {
	baseURL         string
	token           string
	routinesPath    string
	classesPath     string
	assignmentsPath string
	httpClient      *http.Client
}

// New creates a Client for the given options.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		token:           opts.Token,
		routinesPath:    pathOr(opts.RoutinesPath, DefaultRoutinesPath),
		classesPath:     pathOr(opts.ClassesPath, DefaultClassesPath),
		assignmentsPath: pathOr(opts.AssignmentsPath, DefaultAssignmentsPath),
		httpClient:      &http.Client{Timeout: timeout},
	}
}

func pathOr(p, def string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return def
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend: %s %s returned %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// decodeList accepts either a bare JSON array or an envelope {"data": [...]}.
func decodeList[T any](body []byte, what string) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}

	if body[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("backend: decode %s envelope: %w", what, err)
		}
		return decodeList[T](env.Data, what)
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("backend: decode %s: %w", what, err)
	}
	return items, nil
}

// FetchRoutines returns every routine record.
func (c *Client) FetchRoutines(ctx context.Context) ([]models.RawRoutine, error) {
	body, err := c.do(ctx, http.MethodGet, c.routinesPath)
	if err != nil {
		return nil, err
	}
	return decodeList[models.RawRoutine](body, "routines")
}

// FetchClasses returns every class template.
func (c *Client) FetchClasses(ctx context.Context) ([]models.RawClass, error) {
	body, err := c.do(ctx, http.MethodGet, c.classesPath)
	if err != nil {
		return nil, err
	}
	return decodeList[models.RawClass](body, "classes")
}

// FetchAssignments returns every assignment with its exercise status.
func (c *Client) FetchAssignments(ctx context.Context) ([]models.Assignment, error) {
	body, err := c.do(ctx, http.MethodGet, c.assignmentsPath)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Assignment](body, "assignments")
}

// DeleteRoutine deletes a routine by backend id.
func (c *Client) DeleteRoutine(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("backend: delete routine: empty id")
	}
	_, err := c.do(ctx, http.MethodDelete, c.routinesPath+"/"+url.PathEscape(id))
	return err
}
