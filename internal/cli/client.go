package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// PostResponse — пост из API.
type PostResponse struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Platforms   []string `json:"platforms"`
	ImageURL    string   `json:"image_url,omitempty"`
	ScheduledAt string   `json:"scheduled_at"`
	Status      string   `json:"status"`
	PublishedAt string   `json:"published_at,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// UserResponse — пользователь из API.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse — токен и пользователь после register/login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// StatsResponse — агрегаты дашборда из API.
type StatsResponse struct {
	TotalPosts      int            `json:"total_posts"`
	ScheduledPosts  int            `json:"scheduled_posts"`
	PublishedPosts  int            `json:"published_posts"`
	DraftPosts      int            `json:"draft_posts"`
	FailedPosts     int            `json:"failed_posts"`
	PostsByPlatform map[string]int `json:"posts_by_platform"`
}

// --- Request types ---

// CreatePostRequest — создание поста.
type CreatePostRequest struct {
	Content     string   `json:"content"`
	Platforms   []string `json:"platforms"`
	ImageURL    string   `json:"image_url,omitempty"`
	ScheduledAt string   `json:"scheduled_at"`
	Status      string   `json:"status,omitempty"`
}

// UpdatePostRequest — обновление поста.
type UpdatePostRequest struct {
	Content     *string  `json:"content,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	ScheduledAt *string  `json:"scheduled_at,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// ListPostsOpts — параметры фильтрации постов.
type ListPostsOpts struct {
	Status string
	Limit  int
	Offset int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Publica API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создаёт клиент для API. Пустой token означает
// неавторизованные запросы (register/login).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Auth ---

// Register регистрирует пользователя и возвращает токен.
func (c *Client) Register(email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var auth AuthResponse
	err := c.post("/api/v1/auth/register", body, &auth)
	return &auth, err
}

// Login аутентифицирует пользователя и возвращает токен.
func (c *Client) Login(email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var auth AuthResponse
	err := c.post("/api/v1/auth/login", body, &auth)
	return &auth, err
}

// Me возвращает текущего пользователя.
func (c *Client) Me() (*UserResponse, error) {
	var user UserResponse
	err := c.get("/api/v1/auth/me", &user)
	return &user, err
}

// --- Posts ---

// ListPosts возвращает посты пользователя с фильтрацией.
func (c *Client) ListPosts(opts ListPostsOpts) ([]PostResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", fmt.Sprintf("%d", opts.Offset))
	}

	var posts []PostResponse
	err := c.list("/api/v1/posts", params, &posts)
	return posts, err
}

// CreatePost создаёт пост.
func (c *Client) CreatePost(req CreatePostRequest) (*PostResponse, error) {
	var post PostResponse
	err := c.post("/api/v1/posts", req, &post)
	return &post, err
}

// GetPost возвращает пост по ID.
func (c *Client) GetPost(id string) (*PostResponse, error) {
	var post PostResponse
	err := c.get("/api/v1/posts/"+id, &post)
	return &post, err
}

// UpdatePost обновляет пост.
func (c *Client) UpdatePost(id string, req UpdatePostRequest) (*PostResponse, error) {
	var post PostResponse
	err := c.put("/api/v1/posts/"+id, req, &post)
	return &post, err
}

// DeletePost удаляет пост.
func (c *Client) DeletePost(id string) error {
	return c.delete("/api/v1/posts/" + id)
}

// --- Dashboard ---

// Stats возвращает агрегаты по постам пользователя.
func (c *Client) Stats() (*StatsResponse, error) {
	var stats StatsResponse
	err := c.get("/api/v1/dashboard/stats", &stats)
	return &stats, err
}

// Upcoming возвращает ближайшие запланированные посты.
func (c *Client) Upcoming() ([]PostResponse, error) {
	var posts []PostResponse
	err := c.list("/api/v1/dashboard/upcoming", nil, &posts)
	return posts, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
