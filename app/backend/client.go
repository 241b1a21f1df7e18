package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"conexa/app/metrics"
	"conexa/app/models"

	"go.uber.org/zap"
)

// StatusError is a non-2xx answer from the backend. It unwraps to the
// matching sentinel error when there is one.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalid
	}
	return nil
}

// Client implements Backend over the REST API served by restapi.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
		logger:  logger.Named("backend"),
	}
}

func (c *Client) ListForums(ctx context.Context) ([]models.Forum, error) {
	var forums []models.Forum
	err := c.do(ctx, "list_forums", http.MethodGet, "/api/forums", nil, nil, &forums)
	return forums, err
}

func (c *Client) GetFeed(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, "get_feed", http.MethodGet, "/api/posts", nil, nil, &posts)
	return posts, err
}

func (c *Client) GetPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	path := "/api/posts"
	if filter.TopicID != "" {
		path += "?topicId=" + url.QueryEscape(filter.TopicID)
	}
	var posts []models.Post
	err := c.do(ctx, "get_posts", http.MethodGet, path, nil, nil, &posts)
	return posts, err
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, "get_post", http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) SubmitPost(ctx context.Context, user *models.SessionUser, p NewPost) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, "submit_post", http.MethodPost, "/api/posts", user, p, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, user *models.SessionUser, id string, edit PostEdit) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, "update_post", http.MethodPut, "/api/posts/"+url.PathEscape(id), user, edit, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, user *models.SessionUser, id string) error {
	return c.do(ctx, "delete_post", http.MethodDelete, "/api/posts/"+url.PathEscape(id), user, nil, nil)
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, "list_comments", http.MethodGet, "/api/posts/"+url.PathEscape(postID)+"/comments", nil, nil, &comments)
	return comments, err
}

type commentBody struct {
	Content string `json:"content"`
}

func (c *Client) SubmitComment(ctx context.Context, user *models.SessionUser, postID, content string) (*models.Comment, error) {
	var comment models.Comment
	path := "/api/posts/" + url.PathEscape(postID) + "/comments"
	if err := c.do(ctx, "submit_comment", http.MethodPost, path, user, commentBody{content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, user *models.SessionUser, id, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, "update_comment", http.MethodPut, "/api/comments/"+url.PathEscape(id), user, commentBody{content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, user *models.SessionUser, id string) error {
	return c.do(ctx, "delete_comment", http.MethodDelete, "/api/comments/"+url.PathEscape(id), user, nil, nil)
}

func (c *Client) ListMarket(ctx context.Context) ([]models.MarketItem, error) {
	var items []models.MarketItem
	err := c.do(ctx, "list_market", http.MethodGet, "/api/market", nil, nil, &items)
	return items, err
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (*models.SessionUser, error) {
	body := map[string]string{"email": email, "password": password}
	var user models.SessionUser
	if err := c.do(ctx, "authenticate", http.MethodPost, "/api/session", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context, user *models.SessionUser) error {
	return c.do(ctx, "logout", http.MethodDelete, "/api/session", user, nil, nil)
}

// do sends one request, decodes the JSON answer into out and records the
// call. Mutations without a user fail before anything is sent.
func (c *Client) do(ctx context.Context, op, method, path string, user *models.SessionUser, in, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveBackend(op, err, time.Since(start))
		if err != nil {
			c.logger.Debug("backend call failed", zap.String("op", op), zap.Error(err))
		}
	}()

	if method != http.MethodGet && op != "authenticate" && (user == nil || user.Token == "") {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil && user.Token != "" {
		req.Header.Set("Authorization", "Bearer "+user.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &StatusError{Op: op, Status: resp.StatusCode, Message: msg}
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
