package handler

import (
	"time"

	"github.com/google/uuid"

	"studentblog/internal/model"
	"studentblog/internal/service"
)

// BlogView is the JSON shape of a blog.
type BlogView struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Content       string           `json:"content"`
	Excerpt       string           `json:"excerpt"`
	Author        *model.AuthorRef `json:"author"`
	Tags          []string         `json:"tags"`
	Category      string           `json:"category"`
	Status        model.BlogStatus `json:"status"`
	FeaturedImage string           `json:"featuredImage,omitempty"`
	Views         int64            `json:"views"`
	Likes         []uuid.UUID      `json:"likes"`
	LikesCount    int              `json:"likesCount"`
	// Comments is nil on the public listing.
	Comments    *[]CommentView `json:"comments,omitempty"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CommentView is the JSON shape of a comment.
type CommentView struct {
	ID        uuid.UUID        `json:"id"`
	User      *model.AuthorRef `json:"user"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
}

// BlogResponse wraps one blog.
type BlogResponse struct {
	Blog BlogView `json:"blog"`
}

// BlogListResponse is one page of blogs.
type BlogListResponse struct {
	Blogs      []BlogView         `json:"blogs"`
	Pagination service.Pagination `json:"pagination"`
}

// CommentResponse wraps one comment.
type CommentResponse struct {
	Comment CommentView `json:"comment"`
}

func newBlogView(b *model.Blog, withComments bool) BlogView {
	likes := make([]uuid.UUID, 0, len(b.Likes))
	for _, like := range b.Likes {
		likes = append(likes, like.UserID)
	}
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}

	view := BlogView{
		ID:            b.ID,
		Title:         b.Title,
		Content:       b.Content,
		Excerpt:       b.Excerpt,
		Author:        b.Author.Ref(),
		Tags:          tags,
		Category:      b.Category,
		Status:        b.Status,
		FeaturedImage: b.FeaturedImage,
		Views:         b.Views,
		Likes:         likes,
		LikesCount:    len(likes),
		PublishedAt:   b.PublishedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if withComments {
		comments := make([]CommentView, 0, len(b.Comments))
		for i := range b.Comments {
			comments = append(comments, newCommentView(&b.Comments[i]))
		}
		view.Comments = &comments
	}
	return view
}

func newCommentView(c *model.BlogComment) CommentView {
	return CommentView{
		ID:        c.ID,
		User:      c.User.Ref(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func newBlogListResponse(page *service.BlogPage, withComments bool) BlogListResponse {
	views := make([]BlogView, 0, len(page.Blogs))
	for i := range page.Blogs {
		views = append(views, newBlogView(&page.Blogs[i], withComments))
	}
	return BlogListResponse{Blogs: views, Pagination: page.Pagination}
}
