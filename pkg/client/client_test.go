package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentblog/internal/testutil/apitest"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(apitest.NewAPI(t).Echo)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func TestClient_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	baseURL := newTestServer(t)
	store := NewMemoryStore()
	c := New(baseURL, WithSessionStore(store))

	user, err := c.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user", user.Role)

	session, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	token := session.Token

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	updated, err := c.UpdateProfile(ctx, "alice2", "alice2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	session, _ = store.Load()
	assert.Equal(t, "alice2", session.User.Username)

	age := 19
	student, err := c.CreateStudent(ctx, StudentInput{Name: "Grace", Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Grace", student.Name)

	students, err := c.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	require.NoError(t, c.Logout(ctx))
	session, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, session)

	_, err = c.ListStudents(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "TOKEN_MISSING", apiErr.Code)

	// the old token was revoked on logout
	stale := NewMemoryStore()
	require.NoError(t, stale.Save(&Session{Token: token}))
	restored, err := New(baseURL, WithSessionStore(stale)).Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)
	session, _ = stale.Load()
	assert.Nil(t, session)
}

func TestClient_RestoreFromFile(t *testing.T) {
	ctx := context.Background()
	baseURL := newTestServer(t)
	path := filepath.Join(t.TempDir(), "session", "token.json")

	first := New(baseURL, WithSessionStore(NewFileStore(path)))
	_, err := first.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second := New(baseURL, WithSessionStore(NewFileStore(path)))
	user, err := second.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "bob", user.Username)
}

func TestClient_RestoreWithoutSession(t *testing.T) {
	c := New(newTestServer(t))
	user, err := c.Restore(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestClient_ErrorsCarryEnvelope(t *testing.T) {
	ctx := context.Background()
	c := New(newTestServer(t))

	_, err := c.Login(ctx, "nobody@example.com", "secret123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.True(t, IsUnauthorized(err))

	_, err = c.Register(ctx, RegisterInput{Username: "x", Email: "bad", Password: "1"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.NotEmpty(t, apiErr.Errors)

	session, err := c.Session()
	require.NoError(t, err)
	assert.Nil(t, session, "failed sign-in stores nothing")
}

func TestClient_TokensArePerClient(t *testing.T) {
	ctx := context.Background()
	baseURL := newTestServer(t)

	alice := New(baseURL)
	bob := New(baseURL)
	_, err := alice.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = bob.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	me, err := alice.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	me, err = bob.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", me.Username)
}

func TestClient_RegisterWithRole(t *testing.T) {
	ctx := context.Background()
	c := New(newTestServer(t))

	user, err := c.Register(ctx, RegisterInput{
		Username: "root",
		Email:    "root@example.com",
		Password: "secret123",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	_, err = New(newTestServer(t)).Register(ctx, RegisterInput{
		Username: "eve",
		Email:    "eve@example.com",
		Password: "secret123",
		Role:     "owner",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestClient_NonJSONErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(&Session{Token: "tok"}))
	_, err := New(srv.URL, WithSessionStore(store)).ListStudents(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestClient_ListPublicBlogs(t *testing.T) {
	page, err := New(newTestServer(t)).ListPublicBlogs(context.Background(), PublicBlogQuery{
		Page:  1,
		Limit: 5,
		Tags:  []string{"go", "web"},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Blogs)
	assert.Equal(t, 1, page.Pagination.Current)
	assert.Equal(t, 5, page.Pagination.Limit)
	assert.EqualValues(t, 0, page.Pagination.Total)
}

func TestPublicBlogQuery_Values(t *testing.T) {
	v := PublicBlogQuery{Page: 2, Tags: []string{"a", "b"}, Search: "go web"}.values()
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "a,b", v.Get("tags"))
	assert.Equal(t, "go web", v.Get("search"))
	assert.Empty(t, v.Get("limit"))
}
