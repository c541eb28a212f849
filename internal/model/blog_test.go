package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeExcerpt(t *testing.T) {
	assert.Equal(t, "short", MakeExcerpt("  short  "))

	long := strings.Repeat("a", 200)
	excerpt := MakeExcerpt(long)
	assert.Equal(t, strings.Repeat("a", 150)+"...", excerpt)
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" go ", "", "web", "go", "  "})
	assert.Equal(t, []string{"go", "web"}, got)
	assert.Empty(t, NormalizeTags(nil))
}

func TestBlogBeforeSave_Defaults(t *testing.T) {
	b := &Blog{Content: "hello world", Status: BlogStatusPublished}
	assert.NoError(t, b.BeforeSave(nil))

	assert.Equal(t, DefaultCategory, b.Category)
	assert.Equal(t, "hello world", b.Excerpt)
	assert.NotNil(t, b.PublishedAt)
	assert.NotNil(t, b.Tags)

	first := *b.PublishedAt
	assert.NoError(t, b.BeforeSave(nil))
	assert.Equal(t, first, *b.PublishedAt)
}

func TestBlogStatus_Valid(t *testing.T) {
	assert.True(t, BlogStatusArchived.Valid())
	assert.False(t, BlogStatus("deleted").Valid())
}

func TestBlogBeforeSave_SearchFields(t *testing.T) {
	b := &Blog{Title: "Über", Content: "Straße", Category: "Ökologie", Tags: []string{"Ärger", "Go"}}
	assert.NoError(t, b.BeforeSave(nil))

	assert.Equal(t, "ökologie", b.SearchCategory)
	assert.Equal(t, `["ärger","go"]`, b.SearchTags)
	assert.Contains(t, b.SearchText, "über")
	assert.Contains(t, b.SearchText, "ärger go")
	assert.Equal(t, []string{"Ärger", "Go"}, b.Tags)
}
