package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "studentblog/internal/errors"
	"studentblog/internal/model"
	"studentblog/internal/repository"
	"studentblog/internal/testutil"
)

func strPtr(s string) *string { return &s }

func statusPtr(s model.BlogStatus) *model.BlogStatus { return &s }

type blogServiceFixture struct {
	svc   BlogService
	alice *model.User
	bob   *model.User
}

func newBlogServiceFixture(t *testing.T) *blogServiceFixture {
	t.Helper()
	gormDB := testutil.NewDB(t)
	users := repository.NewUserRepository(gormDB)
	f := &blogServiceFixture{
		svc:   NewBlogService(repository.NewBlogRepository(gormDB)),
		alice: &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"},
		bob:   &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"},
	}
	require.NoError(t, users.Create(context.Background(), f.alice))
	require.NoError(t, users.Create(context.Background(), f.bob))
	return f
}

func (f *blogServiceFixture) publish(t *testing.T, author *model.User, title string, tags ...string) *model.Blog {
	t.Helper()
	blog, err := f.svc.Create(context.Background(), author.ID, BlogInput{
		Title:   strPtr(title),
		Content: strPtr("body of " + title),
		Tags:    &tags,
		Status:  statusPtr(model.BlogStatusPublished),
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	return blog
}

func TestBlogService_CreateDefaults(t *testing.T) {
	f := newBlogServiceFixture(t)

	blog, err := f.svc.Create(context.Background(), f.alice.ID, BlogInput{
		Title:   strPtr("  Hello  "),
		Content: strPtr("World"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", blog.Title)
	assert.Equal(t, model.DefaultCategory, blog.Category)
	assert.Equal(t, model.BlogStatusDraft, blog.Status)
	assert.Equal(t, "World", blog.Excerpt)
	assert.Nil(t, blog.PublishedAt)
	assert.Empty(t, blog.Tags)
	require.NotNil(t, blog.Author)
	assert.Equal(t, "alice", blog.Author.Username)
}

func TestBlogService_CreateRequiresTitleAndContent(t *testing.T) {
	f := newBlogServiceFixture(t)

	_, err := f.svc.Create(context.Background(), f.alice.ID, BlogInput{Title: strPtr(" ")})
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{"title is required", "content is required"}, validationErr.Errors)
}

func TestBlogService_PublishedVisibility(t *testing.T) {
	f := newBlogServiceFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Create(ctx, f.alice.ID, BlogInput{Title: strPtr("Draft"), Content: strPtr("wip")})
	require.NoError(t, err)

	page, err := f.svc.ListPublished(ctx, PublicBlogQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Blogs)
	assert.EqualValues(t, 0, page.Pagination.Total)

	_, err = f.svc.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)

	published, err := f.svc.Update(ctx, draft.ID, f.alice.ID, BlogInput{Status: statusPtr(model.BlogStatusPublished)})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)

	page, err = f.svc.ListPublished(ctx, PublicBlogQuery{})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, draft.ID, page.Blogs[0].ID)

	viewed, err := f.svc.GetPublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, viewed.Views)
	viewed, err = f.svc.GetPublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, viewed.Views)
}

func TestBlogService_ListPublishedPagination(t *testing.T) {
	f := newBlogServiceFixture(t)
	ctx := context.Background()

	var newest *model.Blog
	for i := 0; i < 5; i++ {
		newest = f.publish(t, f.alice, "post", "go")
	}

	seen := map[uuid.UUID]bool{}
	for p := 1; p <= 3; p++ {
		page, err := f.svc.ListPublished(ctx, PublicBlogQuery{Page: p, Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 5, page.Pagination.Total)
		assert.Equal(t, 3, page.Pagination.Pages)
		assert.Equal(t, p, page.Pagination.Current)
		if p == 1 {
			assert.Equal(t, newest.ID, page.Blogs[0].ID)
		}
		for _, b := range page.Blogs {
			seen[b.ID] = true
		}
	}
	assert.Len(t, seen, 5)

	page, err := f.svc.ListPublished(ctx, PublicBlogQuery{Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Blogs)

	page, err = f.svc.ListPublished(ctx, PublicBlogQuery{Page: math.MaxInt, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Blogs, "a page far past the end is empty")
	assert.Equal(t, MaxPage, page.Pagination.Current)
	assert.Equal(t, 1, page.Pagination.Pages)

	own, err := f.svc.ListOwn(ctx, f.alice.ID, OwnBlogQuery{Page: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, own.Blogs)
}

func TestBlogService_ListPublishedFilters(t *testing.T) {
	f := newBlogServiceFixture(t)
	ctx := context.Background()

	goPost := f.publish(t, f.alice, "Channels in depth", "go", "concurrency")
	rustPost := f.publish(t, f.bob, "Borrow checker", "rust")

	page, err := f.svc.ListPublished(ctx, PublicBlogQuery{Tags: []string{"GO"}})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, goPost.ID, page.Blogs[0].ID)

	page, err = f.svc.ListPublished(ctx, PublicBlogQuery{Search: "borrow"})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, rustPost.ID, page.Blogs[0].ID)

	page, err = f.svc.ListPublished(ctx, PublicBlogQuery{Category: "general"})
	require.NoError(t, err)
	assert.Len(t, page.Blogs, 2)
}

func TestBlogService_OwnershipIsHidden(t *testing.T) {
	f := newBlogServiceFixture(t)
	ctx := context.Background()
	blog := f.publish(t, f.alice, "Mine")

	_, err := f.svc.Update(ctx, blog.ID, f.bob.ID, BlogInput{Title: strPtr("Stolen")})
	assert.ErrorIs(t, err, apperrors.ErrBlogNotOwned)
	assert.ErrorIs(t, f.svc.Delete(ctx, blog.ID, f.bob.ID), apperrors.ErrBlogNotOwned)
	assert.ErrorIs(t, f.svc.Delete(ctx, uuid.New(), f.alice.ID), apperrors.ErrBlogNotOwned)

	require.NoError(t, f.svc.Delete(ctx, blog.ID, f.alice.ID))
	_, err = f.svc.GetPublished(ctx, blog.ID)
	assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
}

func TestBlogService_ListOwn(t *testing.T) {
	f := newBlogServiceFixture(t)
	ctx := context.Background()

	f.publish(t, f.alice, "Public")
	_, err := f.svc.Create(ctx, f.alice.ID, BlogInput{Title: strPtr("Private"), Content: strPtr("x")})
	require.NoError(t, err)
	f.publish(t, f.bob, "Not mine")

	page, err := f.svc.ListOwn(ctx, f.alice.ID, OwnBlogQuery{})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 2)
	assert.Equal(t, "Private", page.Blogs[0].Title)

	page, err = f.svc.ListOwn(ctx, f.alice.ID, OwnBlogQuery{Status: model.BlogStatusDraft})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)

	_, err = f.svc.ListOwn(ctx, f.alice.ID, OwnBlogQuery{Status: "bogus"})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestBlogService_ToggleLike(t *testing.T) {
	f := newBlogServiceFixture(t)
	ctx := context.Background()
	blog := f.publish(t, f.alice, "Likeable")

	res, err := f.svc.ToggleLike(ctx, blog.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Liked: true, LikesCount: 1}, res)

	res, err = f.svc.ToggleLike(ctx, blog.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Liked: true, LikesCount: 2}, res)

	res, err = f.svc.ToggleLike(ctx, blog.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Liked: false, LikesCount: 1}, res)

	_, err = f.svc.ToggleLike(ctx, uuid.New(), f.bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
}

func TestBlogService_Comments(t *testing.T) {
	f := newBlogServiceFixture(t)
	ctx := context.Background()
	blog := f.publish(t, f.alice, "Discuss")

	_, err := f.svc.AddComment(ctx, blog.ID, f.bob.ID, "   ")
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	first, err := f.svc.AddComment(ctx, blog.ID, f.bob.ID, "first!")
	require.NoError(t, err)
	require.NotNil(t, first.User)
	assert.Equal(t, "bob", first.User.Username)

	own, err := f.svc.AddComment(ctx, blog.ID, f.alice.ID, "thanks")
	require.NoError(t, err)

	// alice owns the blog and may remove bob's comment, bob may not remove hers
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, blog.ID, own.ID, f.bob.ID), apperrors.ErrCommentForbidden)
	require.NoError(t, f.svc.DeleteComment(ctx, blog.ID, first.ID, f.alice.ID))
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, blog.ID, first.ID, f.alice.ID), apperrors.ErrCommentNotFound)

	loaded, err := f.svc.GetPublished(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Comments, 1)
	assert.Equal(t, own.ID, loaded.Comments[0].ID)

	_, err = f.svc.AddComment(ctx, uuid.New(), f.bob.ID, "lost")
	assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
}
