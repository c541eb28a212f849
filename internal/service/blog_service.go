package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "studentblog/internal/errors"
	"studentblog/internal/model"
	"studentblog/internal/repository"
)

// PublicBlogQuery holds the optional filters of the public listing.
type PublicBlogQuery struct {
	Page     int
	Limit    int
	Category string
	Tags     []string
	Search   string
}

// OwnBlogQuery lists the requester's own blogs.
type OwnBlogQuery struct {
	Page   int
	Limit  int
	Status model.BlogStatus
}

// BlogPage is one page of a listing.
type BlogPage struct {
	Blogs      []model.Blog
	Pagination Pagination
}

// BlogInput carries blog fields. Nil pointers are left untouched on update,
// and empty title/content/category/status are ignored there as well.
type BlogInput struct {
	Title         *string
	Content       *string
	Excerpt       *string
	Tags          *[]string
	Category      *string
	Status        *model.BlogStatus
	FeaturedImage *string
}

// LikeResult reports the state after a like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

// BlogService exposes blog operations.
type BlogService interface {
	ListPublished(ctx context.Context, q PublicBlogQuery) (*BlogPage, error)
	// GetPublished counts a view and returns the blog with its comments.
	GetPublished(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	ListOwn(ctx context.Context, authorID uuid.UUID, q OwnBlogQuery) (*BlogPage, error)
	Create(ctx context.Context, authorID uuid.UUID, in BlogInput) (*model.Blog, error)
	Update(ctx context.Context, id, authorID uuid.UUID, in BlogInput) (*model.Blog, error)
	Delete(ctx context.Context, id, authorID uuid.UUID) error
	ToggleLike(ctx context.Context, id, userID uuid.UUID) (*LikeResult, error)
	AddComment(ctx context.Context, id, userID uuid.UUID, content string) (*model.BlogComment, error)
	DeleteComment(ctx context.Context, id, commentID, userID uuid.UUID) error
}

type blogService struct {
	repo repository.BlogRepository
}

// NewBlogService creates a new blog service.
func NewBlogService(repo repository.BlogRepository) BlogService {
	return &blogService{repo: repo}
}

func (s *blogService) ListPublished(ctx context.Context, q PublicBlogQuery) (*BlogPage, error) {
	page, limit := NormalizePage(q.Page, q.Limit)
	blogs, total, err := s.repo.List(ctx, repository.BlogFilter{
		Status:   model.BlogStatusPublished,
		Category: strings.TrimSpace(q.Category),
		Tags:     q.Tags,
		Search:   q.Search,
		Offset:   Offset(page, limit),
		Limit:    limit,
		OrderBy:  "published_at DESC, created_at DESC",
	})
	if err != nil {
		return nil, fmt.Errorf("list published blogs: %w", err)
	}
	return &BlogPage{Blogs: blogs, Pagination: NewPagination(total, page, limit)}, nil
}

func (s *blogService) GetPublished(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, mapBlogErr(err, apperrors.ErrBlogNotFound)
	}
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapBlogErr(err, apperrors.ErrBlogNotFound)
	}
	return blog, nil
}

func (s *blogService) ListOwn(ctx context.Context, authorID uuid.UUID, q OwnBlogQuery) (*BlogPage, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, apperrors.NewValidationError("status must be one of draft, published, archived")
	}
	page, limit := NormalizePage(q.Page, q.Limit)
	blogs, total, err := s.repo.List(ctx, repository.BlogFilter{
		AuthorID:        authorID,
		Status:          q.Status,
		Offset:          Offset(page, limit),
		Limit:           limit,
		OrderBy:         "created_at DESC",
		IncludeComments: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list own blogs: %w", err)
	}
	return &BlogPage{Blogs: blogs, Pagination: NewPagination(total, page, limit)}, nil
}

func (s *blogService) Create(ctx context.Context, authorID uuid.UUID, in BlogInput) (*model.Blog, error) {
	blog := &model.Blog{AuthorID: authorID}
	in.apply(blog)

	var problems []string
	if strings.TrimSpace(blog.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(blog.Content) == "" {
		problems = append(problems, "content is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError(problems...)
	}

	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return s.reload(ctx, blog.ID)
}

func (s *blogService) Update(ctx context.Context, id, authorID uuid.UUID, in BlogInput) (*model.Blog, error) {
	blog, err := s.repo.FindByIDAndAuthor(ctx, id, authorID)
	if err != nil {
		return nil, mapBlogErr(err, apperrors.ErrBlogNotOwned)
	}
	in.apply(blog)
	if err := s.repo.Save(ctx, blog); err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return s.reload(ctx, blog.ID)
}

func (s *blogService) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	if err := s.repo.DeleteByIDAndAuthor(ctx, id, authorID); err != nil {
		return mapBlogErr(err, apperrors.ErrBlogNotOwned)
	}
	return nil
}

func (s *blogService) ToggleLike(ctx context.Context, id, userID uuid.UUID) (*LikeResult, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return nil, err
	}
	liked, count, err := s.repo.ToggleLike(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

func (s *blogService) AddComment(ctx context.Context, id, userID uuid.UUID, content string) (*model.BlogComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content is required")
	}
	if err := s.mustExist(ctx, id); err != nil {
		return nil, err
	}
	comment := &model.BlogComment{BlogID: id, UserID: userID, Content: content}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

// DeleteComment lets the comment author or the blog author remove a comment.
func (s *blogService) DeleteComment(ctx context.Context, id, commentID, userID uuid.UUID) error {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapBlogErr(err, apperrors.ErrBlogNotFound)
	}
	comment, err := s.repo.FindComment(ctx, id, commentID)
	if err != nil {
		return mapBlogErr(err, apperrors.ErrCommentNotFound)
	}
	if comment.UserID != userID && blog.AuthorID != userID {
		return apperrors.ErrCommentForbidden
	}
	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return mapBlogErr(err, apperrors.ErrCommentNotFound)
	}
	return nil
}

func (s *blogService) mustExist(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check blog: %w", err)
	}
	if !exists {
		return apperrors.ErrBlogNotFound
	}
	return nil
}

func (s *blogService) reload(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapBlogErr(err, apperrors.ErrBlogNotFound)
	}
	return blog, nil
}

func (in BlogInput) apply(blog *model.Blog) {
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		blog.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		blog.Content = *in.Content
	}
	if in.Excerpt != nil {
		blog.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Tags != nil {
		blog.Tags = model.NormalizeTags(*in.Tags)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		blog.Category = strings.TrimSpace(*in.Category)
	}
	if in.Status != nil && *in.Status != "" {
		blog.Status = *in.Status
	}
	if in.FeaturedImage != nil {
		blog.FeaturedImage = strings.TrimSpace(*in.FeaturedImage)
	}
}

func mapBlogErr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("blog store: %w", err)
}
