package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
)

var ErrUnauthorized = errors.New("credentials rejected")

const userAgent = "taskboard-reminder"

// Client talks to the taskboard API on behalf of a single user. It signs
// in with its own credentials and rotates its session when the access
// token expires.
type Client struct {
	logger   zerolog.Logger
	baseURL  string
	email    string
	password string
	http     *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewClient(logger zerolog.Logger, baseURL, email, password string, timeout time.Duration) *Client {
	return &Client{
		logger:   logger,
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		password: password,
		http:     &http.Client{Timeout: timeout},
	}
}

type tokensPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) setTokens(tokens tokensPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// Login opens a session for the configured credentials.
func (c *Client) Login(ctx context.Context) error {
	if c.email == "" || c.password == "" {
		return fmt.Errorf("%w: email and password are required", ErrUnauthorized)
	}

	body := map[string]string{
		"email":    c.email,
		"password": c.password,
	}
	var tokens tokensPayload
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &tokens, nil); err != nil {
		return err
	}
	c.setTokens(tokens)

	c.logger.Debug().
		Str("email", c.email).
		Msg("signed in")
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	_, refreshToken := c.tokens()
	if refreshToken == "" {
		return c.Login(ctx)
	}

	cookie := &http.Cookie{Name: "refresh_token", Value: refreshToken}
	var tokens tokensPayload
	err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, &tokens, cookie)
	if errors.Is(err, ErrUnauthorized) {
		c.logger.Warn().Msg("session expired, signing in again")
		return c.Login(ctx)
	}
	if err != nil {
		return err
	}
	c.setTokens(tokens)

	c.logger.Debug().Msg("refreshed session")
	return nil
}

type taskPayload struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	Type          string     `json:"type"`
	StartDateTime time.Time  `json:"start_date_time"`
	EndDateTime   *time.Time `json:"end_date_time"`
}

func (p taskPayload) task() (*models.Task, error) {
	status, err := models.ParseTaskStatus(p.Status)
	if err != nil {
		return nil, err
	}
	priority, err := models.ParseTaskPriority(p.Priority)
	if err != nil {
		return nil, err
	}
	taskType, err := models.ParseTaskType(p.Type)
	if err != nil {
		return nil, err
	}

	return &models.Task{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Status:        status,
		Priority:      priority,
		Type:          taskType,
		StartDateTime: p.StartDateTime,
		EndDateTime:   p.EndDateTime,
	}, nil
}

// ListTasks returns every task the user created or is assigned to.
func (c *Client) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var payload []taskPayload
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &payload); err != nil {
		return nil, err
	}

	tasks := make([]*models.Task, 0, len(payload))
	for _, p := range payload {
		task, err := p.task()
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("task_id", p.ID).
				Msg("skipping malformed task")
			continue
		}
		tasks = append(tasks, task)
	}
	c.logger.Debug().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	return tasks, nil
}

type createNotificationPayload struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Source    string `json:"source"`
	RelatedID string `json:"related_id"`
}

// Notify stores the alert as a Calendar warning notification for the user.
func (c *Client) Notify(ctx context.Context, alert Alert) error {
	body := createNotificationPayload{
		Message:   alert.Message,
		Type:      string(models.CategoryWarning),
		Source:    string(models.SourceCalendar),
		RelatedID: alert.Key.TaskID,
	}
	return c.do(ctx, http.MethodPost, "/notifications", body, nil)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+id+"/read", nil, nil)
}

// do sends an authenticated request, refreshing the session once when
// the access token is rejected.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if accessToken, _ := c.tokens(); accessToken == "" {
		if err := c.Login(ctx); err != nil {
			return err
		}
	}

	err := c.send(ctx, method, path, body, out, nil)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}
	if err = c.refresh(ctx); err != nil {
		return err
	}
	return c.send(ctx, method, path, body, out, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, cookie *http.Cookie) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken, _ := c.tokens(); accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
