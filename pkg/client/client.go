// Package client is a Go client for the student blog API. It keeps the
// signed-in session in a SessionStore and attaches the bearer token to each
// request it sends.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// User is the public profile of an account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Student is a student record.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StudentInput is the body of CreateStudent.
type StudentInput struct {
	Name  string `json:"name"`
	Age   *int   `json:"age,omitempty"`
	Email string `json:"email,omitempty"`
}

// Author identifies the writer of a blog or comment.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Blog is a blog as returned by the public listing.
type Blog struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	Author        *Author    `json:"author"`
	Tags          []string   `json:"tags"`
	Category      string     `json:"category"`
	Status        string     `json:"status"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Views         int64      `json:"views"`
	Likes         []string   `json:"likes"`
	LikesCount    int        `json:"likesCount"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// BlogPage is one page of blogs.
type BlogPage struct {
	Blogs      []Blog     `json:"blogs"`
	Pagination Pagination `json:"pagination"`
}

// PublicBlogQuery filters ListPublicBlogs. Zero values are not sent.
type PublicBlogQuery struct {
	Page     int
	Limit    int
	Category string
	Tags     []string
	Search   string
}

func (q PublicBlogQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if len(q.Tags) > 0 {
		v.Set("tags", strings.Join(q.Tags, ","))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	Errors     []string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// Client talks to the API on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	rest       *resty.Client
	store      SessionStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) { c.store = store }
}

// New creates a client for the API rooted at baseURL, for example
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rest = resty.NewWithClient(c.httpClient).
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json")
	return c
}

// Session returns the stored session, or nil when signed out.
func (c *Client) Session() (*Session, error) {
	return c.store.Load()
}

// Restore validates a stored token against the profile endpoint. A rejected
// token clears the session and yields a nil user.
func (c *Client) Restore(ctx context.Context) (*User, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if session == nil || session.Token == "" {
		return nil, nil
	}

	user, err := c.Profile(ctx)
	if err != nil {
		if clearErr := c.store.Clear(); clearErr != nil {
			return nil, clearErr
		}
		if IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

type authPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterInput is the body of Register. Role defaults to "user" on the
// server when empty.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	return c.signIn(ctx, "/auth/register", in)
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	return c.signIn(ctx, "/auth/login", body)
}

func (c *Client) signIn(ctx context.Context, path string, body interface{}) (*User, error) {
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, path, nil, body, &payload); err != nil {
		return nil, err
	}
	if err := c.store.Save(&Session{Token: payload.Token, User: payload.User}); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// Logout asks the server to revoke the token and always clears the session.
func (c *Client) Logout(ctx context.Context) error {
	_ = c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	return c.store.Clear()
}

// Profile fetches the signed-in user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var payload struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.User, c.rememberUser(payload.User)
}

// UpdateProfile changes username and email.
func (c *Client) UpdateProfile(ctx context.Context, username, email string) (*User, error) {
	var payload struct {
		User *User `json:"user"`
	}
	body := map[string]string{"username": username, "email": email}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, body, &payload); err != nil {
		return nil, err
	}
	return payload.User, c.rememberUser(payload.User)
}

// ChangePassword replaces the password after checking the current one.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, body, nil)
}

// ListStudents returns every student.
func (c *Client) ListStudents(ctx context.Context) ([]Student, error) {
	var payload struct {
		Students []Student `json:"students"`
	}
	if err := c.do(ctx, http.MethodGet, "/students", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Students, nil
}

// CreateStudent adds a student record.
func (c *Client) CreateStudent(ctx context.Context, in StudentInput) (*Student, error) {
	var payload struct {
		Student *Student `json:"student"`
	}
	if err := c.do(ctx, http.MethodPost, "/students", nil, in, &payload); err != nil {
		return nil, err
	}
	return payload.Student, nil
}

// ListPublicBlogs returns one page of published blogs.
func (c *Client) ListPublicBlogs(ctx context.Context, q PublicBlogQuery) (*BlogPage, error) {
	var page BlogPage
	if err := c.do(ctx, http.MethodGet, "/blogs/public", q.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) rememberUser(user *User) error {
	session, err := c.store.Load()
	if err != nil || session == nil {
		return err
	}
	session.User = user
	return c.store.Save(session)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	session, err := c.store.Load()
	if err != nil {
		return err
	}

	var env envelope
	req := c.rest.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env)
	if session != nil && session.Token != "" {
		req.SetAuthToken(session.Token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		// an undecodable error body still reports the status
		if resp != nil && resp.IsError() {
			return &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if !resp.IsSuccess() {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: message, Code: env.Code, Errors: env.Errors}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
