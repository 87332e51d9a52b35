package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gofrs/uuid"

	"github.com/HannanShehzad/TaskManager/internal/apperror"
	"github.com/HannanShehzad/TaskManager/internal/models"
)

// TaskDraft is the payload for creating a task.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status,omitempty"`
}

// TaskPatch is a partial update. Nil fields are omitted from the request
// body and left unchanged by the server.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// APIClient talks to the task API. All transport failures and error
// envelopes are translated into apperror kinds in exactly one place, decode.
type APIClient struct {
	baseURL string
	http    *http.Client
	session *Session
}

func NewAPIClient(baseURL string, session *Session) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

type authResponse struct {
	Data struct {
		User  models.User `json:"user"`
		Token struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"token"`
	} `json:"data"`
}

// Signup registers a new account and initializes the session.
func (c *APIClient) Signup(ctx context.Context, name, email, password string) error {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}
	return c.applyAuth(email, out)
}

// Login authenticates and initializes the session.
func (c *APIClient) Login(ctx context.Context, email, password string) error {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}
	return c.applyAuth(email, out)
}

func (c *APIClient) applyAuth(email string, out authResponse) error {
	c.session.UserID = out.Data.User.ID
	c.session.Email = email
	c.session.AccessToken = out.Data.Token.AccessToken
	c.session.RefreshToken = out.Data.Token.RefreshToken
	return c.session.Save()
}

// Logout revokes the refresh token and tears the session down. Teardown
// happens even when the revoke call fails: a stale server record is better
// than a client that cannot log out.
func (c *APIClient) Logout(ctx context.Context) error {
	revokeErr := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refresh_token": c.session.RefreshToken,
	}, nil)

	if err := c.session.Clear(); err != nil {
		return err
	}
	return revokeErr
}

func (c *APIClient) ListTasks(ctx context.Context, status string) ([]models.Task, error) {
	path := "/api/v1/tasks"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var out struct {
		Data struct {
			Tasks []models.Task `json:"tasks"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data.Tasks, nil
}

func (c *APIClient) CreateTask(ctx context.Context, draft TaskDraft) (models.Task, error) {
	var out struct {
		Data struct {
			Task models.Task `json:"task"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", draft, &out); err != nil {
		return models.Task{}, err
	}
	return out.Data.Task, nil
}

func (c *APIClient) GetTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	var out struct {
		Data struct {
			Task models.Task `json:"task"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+id.String(), nil, &out); err != nil {
		return models.Task{}, err
	}
	return out.Data.Task, nil
}

func (c *APIClient) UpdateTask(ctx context.Context, id uuid.UUID, patch TaskPatch) (models.Task, error) {
	var out struct {
		Data struct {
			Task models.Task `json:"task"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+id.String(), patch, &out); err != nil {
		return models.Task{}, err
	}
	return out.Data.Task, nil
}

func (c *APIClient) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id.String(), nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "request failed", err)
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

// decode is the single translation point between transport responses and
// domain errors.
func decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		var envelope struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Message == "" {
			envelope.Message = http.StatusText(resp.StatusCode)
		}
		return apperror.FromStatus(resp.StatusCode, envelope.Message)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(apperror.KindInternal, "failed to decode response", err)
	}
	return nil
}
