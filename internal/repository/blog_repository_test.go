package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studentblog/internal/model"
	"studentblog/internal/testutil"
)

type blogFixture struct {
	db    *gorm.DB
	users UserRepository
	blogs BlogRepository
	alice *model.User
	bob   *model.User
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()
	gormDB := testutil.NewDB(t)
	f := &blogFixture{
		db:    gormDB,
		users: NewUserRepository(gormDB),
		blogs: NewBlogRepository(gormDB),
		alice: &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"},
		bob:   &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"},
	}
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, f.alice))
	require.NoError(t, f.users.Create(ctx, f.bob))
	return f
}

func (f *blogFixture) create(t *testing.T, author *model.User, title string, status model.BlogStatus, category string, tags ...string) *model.Blog {
	t.Helper()
	blog := &model.Blog{
		Title:    title,
		Content:  "content of " + title,
		AuthorID: author.ID,
		Status:   status,
		Category: category,
		Tags:     tags,
	}
	require.NoError(t, f.blogs.Create(context.Background(), blog))
	// distinct publication timestamps keep ordering assertions stable
	time.Sleep(5 * time.Millisecond)
	return blog
}

func TestBlogRepository_ListPublishedFilters(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	goPost := f.create(t, f.alice, "Go Concurrency", model.BlogStatusPublished, "Programming", "go", "concurrency")
	f.create(t, f.alice, "Secret Draft", model.BlogStatusDraft, "Programming", "go")
	gardenPost := f.create(t, f.bob, "Garden Life", model.BlogStatusPublished, "Lifestyle", "green living")
	f.create(t, f.bob, "Old News", model.BlogStatusArchived, "Lifestyle")

	published := BlogFilter{Status: model.BlogStatusPublished, OrderBy: "published_at DESC"}

	blogs, total, err := f.blogs.List(ctx, published)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, blogs, 2)
	assert.Equal(t, gardenPost.ID, blogs[0].ID, "newest publication first")
	assert.Equal(t, "bob", blogs[0].Author.Username)

	byCategory := published
	byCategory.Category = "PROG"
	blogs, total, err = f.blogs.List(ctx, byCategory)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, goPost.ID, blogs[0].ID)

	byTags := published
	byTags.Tags = []string{"Green Living", "nope"}
	blogs, _, err = f.blogs.List(ctx, byTags)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, gardenPost.ID, blogs[0].ID)

	partialTag := published
	partialTag.Tags = []string{"concur"}
	_, total, err = f.blogs.List(ctx, partialTag)
	require.NoError(t, err)
	assert.Zero(t, total, "tags match whole elements only")

	bySearch := published
	bySearch.Search = "concurrency unrelatedword"
	blogs, _, err = f.blogs.List(ctx, bySearch)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, goPost.ID, blogs[0].ID)

	wildcard := published
	wildcard.Search = "%"
	_, total, err = f.blogs.List(ctx, wildcard)
	require.NoError(t, err)
	assert.Zero(t, total, "LIKE wildcards in input are literal")
}

func TestBlogRepository_ListPagination(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.create(t, f.alice, "post", model.BlogStatusPublished, "")
	}

	seen := 0
	for offset := 0; offset < 5; offset += 2 {
		blogs, total, err := f.blogs.List(ctx, BlogFilter{Status: model.BlogStatusPublished, Offset: offset, Limit: 2, OrderBy: "published_at DESC"})
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		seen += len(blogs)
	}
	assert.Equal(t, 5, seen)
}

func TestBlogRepository_ToggleLike(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	blog := f.create(t, f.alice, "Likeable", model.BlogStatusPublished, "")

	liked, count, err := f.blogs.ToggleLike(ctx, blog.ID, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, count)

	liked, count, err = f.blogs.ToggleLike(ctx, blog.ID, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 2, count)

	liked, count, err = f.blogs.ToggleLike(ctx, blog.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 1, count)

	loaded, err := f.blogs.FindByID(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Likes, 1)
	assert.Equal(t, f.alice.ID, loaded.Likes[0].UserID)
}

func TestBlogRepository_IncrementViews(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	published := f.create(t, f.alice, "Seen", model.BlogStatusPublished, "")
	draft := f.create(t, f.alice, "Hidden", model.BlogStatusDraft, "")

	require.NoError(t, f.blogs.IncrementViews(ctx, published.ID))
	require.NoError(t, f.blogs.IncrementViews(ctx, published.ID))
	assert.ErrorIs(t, f.blogs.IncrementViews(ctx, draft.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, f.blogs.IncrementViews(ctx, uuid.New()), gorm.ErrRecordNotFound)

	loaded, err := f.blogs.FindByID(ctx, published.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, loaded.Views)
}

func TestBlogRepository_OwnershipAndComments(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	blog := f.create(t, f.alice, "Owned", model.BlogStatusPublished, "")

	_, err := f.blogs.FindByIDAndAuthor(ctx, blog.ID, f.bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	first := &model.BlogComment{BlogID: blog.ID, UserID: f.bob.ID, Content: "first"}
	require.NoError(t, f.blogs.AddComment(ctx, first))
	assert.Equal(t, "bob", first.User.Username)
	time.Sleep(5 * time.Millisecond)
	second := &model.BlogComment{BlogID: blog.ID, UserID: f.alice.ID, Content: "second"}
	require.NoError(t, f.blogs.AddComment(ctx, second))

	loaded, err := f.blogs.FindByIDAndAuthor(ctx, blog.ID, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Comments, 2)
	assert.Equal(t, "first", loaded.Comments[0].Content)
	assert.Equal(t, "alice", loaded.Comments[1].User.Username)

	_, err = f.blogs.FindComment(ctx, uuid.New(), first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, f.blogs.DeleteComment(ctx, first.ID))
	assert.ErrorIs(t, f.blogs.DeleteComment(ctx, first.ID), gorm.ErrRecordNotFound)

	assert.ErrorIs(t, f.blogs.DeleteByIDAndAuthor(ctx, blog.ID, f.bob.ID), gorm.ErrRecordNotFound)
	require.NoError(t, f.blogs.DeleteByIDAndAuthor(ctx, blog.ID, f.alice.ID))
	_, err = f.blogs.FindByID(ctx, blog.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBlogRepository_FiltersFoldNonASCII(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	umlaut := f.create(t, f.alice, "Über Ärger", model.BlogStatusPublished, "Ökologie", "Ärger")
	f.create(t, f.bob, "Plain", model.BlogStatusPublished, "Other", "arger")

	published := BlogFilter{Status: model.BlogStatusPublished}

	for _, tag := range []string{"Ärger", "ärger", "ÄRGER"} {
		byTag := published
		byTag.Tags = []string{tag}
		blogs, total, err := f.blogs.List(ctx, byTag)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total, tag)
		require.Len(t, blogs, 1)
		assert.Equal(t, umlaut.ID, blogs[0].ID)
		assert.Equal(t, []string{"Ärger"}, blogs[0].Tags, "stored tags keep their case")
	}

	byCategory := published
	byCategory.Category = "ökolog"
	_, total, err := f.blogs.List(ctx, byCategory)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	bySearch := published
	bySearch.Search = "ÜBER"
	blogs, _, err := f.blogs.List(ctx, bySearch)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, umlaut.ID, blogs[0].ID)
}

func TestBlogRepository_FiltersFollowUpdates(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	blog := f.create(t, f.alice, "Before", model.BlogStatusPublished, "", "old")

	blog.Title = "Renamed"
	blog.Tags = []string{"New"}
	require.NoError(t, f.blogs.Save(ctx, blog))

	blogs, _, err := f.blogs.List(ctx, BlogFilter{Tags: []string{"new"}})
	require.NoError(t, err)
	require.Len(t, blogs, 1)

	_, total, err := f.blogs.List(ctx, BlogFilter{Tags: []string{"old"}})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = f.blogs.List(ctx, BlogFilter{Search: "renamed"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestBlogRepository_AddLikeTwiceKeepsOneLike(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	blog := f.create(t, f.alice, "Raced", model.BlogStatusPublished, "")

	// a second insert of the same like is what a losing concurrent toggle does
	require.NoError(t, addLike(f.db.WithContext(ctx), blog.ID, f.bob.ID))
	require.NoError(t, addLike(f.db.WithContext(ctx), blog.ID, f.bob.ID))

	loaded, err := f.blogs.FindByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Likes, 1)

	liked, count, err := f.blogs.ToggleLike(ctx, blog.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, count)
}
