// Package dataforseo is the HTTP client for the DataForSEO keyword-data API.
// It submits search-volume tasks, polls them by identifier, and decodes the
// provider's response envelope. Retry and backoff policy live in the engine;
// this client performs single request/response exchanges only.
package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kwatlas/kwatlas/internal/logging"
)

// API paths for the Google Ads search-volume endpoints.
const (
	taskPostPath = "/v3/keywords_data/google_ads/search_volume/task_post"
	taskGetPath  = "/v3/keywords_data/google_ads/search_volume/task_get/"
)

// defaultTimeout bounds one HTTP exchange when the caller configures none.
const defaultTimeout = 30 * time.Second

// Client errors.
var (
	ErrNoTaskID      = errors.New("provider returned no task id")
	ErrEmptyResponse = errors.New("provider returned an empty task list")
)

// Config holds the settings needed to construct a Client.
type Config struct {
	BaseURL      string
	Login        string
	Password     string
	LocationCode int
	LanguageName string
	// CallbackURL, when set, is passed to the provider as a postback URL.
	CallbackURL string
	Timeout     time.Duration
}

// Client talks to the DataForSEO v3 API with basic auth.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SubmitTask submits one batch of keywords as a single remote task and
// returns the provider-assigned task identifier.
func (c *Client) SubmitTask(ctx context.Context, keywords []string) (string, error) {
	log := logging.FromContext(ctx)

	payload := []taskDefinition{{
		LocationCode: c.cfg.LocationCode,
		LanguageName: c.cfg.LanguageName,
		Keywords:     keywords,
		PostbackURL:  c.cfg.CallbackURL,
	}}

	resp, err := c.post(ctx, taskPostPath, payload)
	if err != nil {
		return "", err
	}

	if len(resp.Tasks) == 0 {
		return "", ErrEmptyResponse
	}

	task := resp.Tasks[0]
	if task.StatusCode != CodeTaskCreated && task.StatusCode != CodeOK {
		return "", fmt.Errorf("task rejected: %d %s", task.StatusCode, task.StatusMessage)
	}
	if task.ID == "" {
		return "", ErrNoTaskID
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "dataforseo").
		Str("task_id", task.ID).
		Int("keyword_count", len(keywords)).
		Msg("task submitted")

	return task.ID, nil
}

// PollTask queries one task by identifier and classifies the outcome as
// running, done, or failed. A failed classification is a provider verdict,
// not a transport error; transport and decode problems are returned as
// errors so the caller can retry them.
func (c *Client) PollTask(ctx context.Context, taskID string) (PollResult, error) {
	log := logging.FromContext(ctx)

	resp, err := c.get(ctx, taskGetPath+taskID)
	if err != nil {
		return PollResult{}, err
	}

	if len(resp.Tasks) == 0 {
		return PollResult{}, ErrEmptyResponse
	}

	task := resp.Tasks[0]
	result := classifyTask(task)

	log.Debug().
		Ctx(ctx).
		Str("component", "dataforseo").
		Str("task_id", taskID).
		Str("status", result.Status.String()).
		Int("record_count", len(result.Records)).
		Msg("task polled")

	return result, nil
}

// classifyTask maps a task entry to a PollResult.
func classifyTask(task apiTask) PollResult {
	switch task.StatusCode {
	case CodeOK:
		return PollResult{Status: TaskDone, Records: task.Result}
	case CodeTaskHanded, CodeTaskInQueue, CodeTaskCreated:
		return PollResult{Status: TaskRunning}
	default:
		return PollResult{
			Status:  TaskFailed,
			Message: fmt.Sprintf("%d %s", task.StatusCode, task.StatusMessage),
		}
	}
}

// post sends a JSON POST request and decodes the envelope.
func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
}

// get sends a GET request and decodes the envelope.
func (c *Client) get(ctx context.Context, path string) (*apiResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// do performs one authenticated exchange against the API.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Login, c.cfg.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", path, httpResp.StatusCode)
	}

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", path, err)
	}

	if resp.StatusCode != CodeOK {
		return nil, fmt.Errorf("api error: %d %s", resp.StatusCode, resp.StatusMessage)
	}

	return &resp, nil
}
