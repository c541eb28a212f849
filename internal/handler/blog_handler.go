package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentblog/internal/middleware"
	"studentblog/internal/model"
	"studentblog/internal/service"
)

// BlogHandler handles blog, like and comment endpoints.
type BlogHandler struct {
	svc service.BlogService
}

// NewBlogHandler creates a blog handler.
func NewBlogHandler(svc service.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// PublicBlogQuery holds the public listing filters. Tags is comma separated.
type PublicBlogQuery struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Category string `query:"category"`
	Tags     string `query:"tags"`
	Search   string `query:"search"`
}

// OwnBlogQuery holds the owner listing filters.
type OwnBlogQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status" validate:"omitempty,oneof=draft published archived"`
}

// BlogRequest is the body of create and update. Absent fields are left
// unchanged on update.
type BlogRequest struct {
	Title         *string  `json:"title" validate:"omitempty,max=200"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt" validate:"omitempty,max=300"`
	Tags          *TagList `json:"tags"`
	Category      *string  `json:"category" validate:"omitempty,max=100"`
	Status        *string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	FeaturedImage *string  `json:"featuredImage" validate:"omitempty,max=500"`
}

func (r BlogRequest) input() service.BlogInput {
	in := service.BlogInput{
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		Category:      r.Category,
		FeaturedImage: r.FeaturedImage,
	}
	if r.Tags != nil {
		tags := []string(*r.Tags)
		in.Tags = &tags
	}
	if r.Status != nil {
		status := model.BlogStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// CommentRequest is the body of a new comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// ListPublicBlogs godoc
// @Summary List published blogs
// @Tags blogs
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Param category query string false "Category substring"
// @Param tags query string false "Comma separated tags"
// @Param search query string false "Search terms"
// @Success 200 {object} errors.Response{data=BlogListResponse}
// @Failure 400 {object} errors.Response
// @Router /blogs/public [get]
func (h *BlogHandler) ListPublicBlogs(c echo.Context) error {
	var q PublicBlogQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.svc.ListPublished(c.Request().Context(), service.PublicBlogQuery{
		Page:     q.Page,
		Limit:    q.Limit,
		Category: q.Category,
		Tags:     splitTags(q.Tags),
		Search:   q.Search,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Blogs retrieved successfully", newBlogListResponse(page, false))
}

// GetPublicBlog godoc
// @Summary Read a published blog
// @Description Counts one view.
// @Tags blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} errors.Response{data=BlogResponse}
// @Failure 404 {object} errors.Response
// @Router /blogs/public/{id} [get]
func (h *BlogHandler) GetPublicBlog(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	blog, err := h.svc.GetPublished(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Blog retrieved successfully", BlogResponse{Blog: newBlogView(blog, true)})
}

// ListOwnBlogs godoc
// @Summary List the current user's blogs
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Param status query string false "draft, published or archived"
// @Success 200 {object} errors.Response{data=BlogListResponse}
// @Failure 401 {object} errors.Response
// @Router /blogs [get]
func (h *BlogHandler) ListOwnBlogs(c echo.Context) error {
	var q OwnBlogQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.svc.ListOwn(c.Request().Context(), middleware.CurrentUser(c).ID, service.OwnBlogQuery{
		Page:   q.Page,
		Limit:  q.Limit,
		Status: model.BlogStatus(q.Status),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Blogs retrieved successfully", newBlogListResponse(page, true))
}

// CreateBlog godoc
// @Summary Create blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blog body BlogRequest true "Blog payload"
// @Success 201 {object} errors.Response{data=BlogResponse}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /blogs [post]
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	var req BlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	blog, err := h.svc.Create(c.Request().Context(), middleware.CurrentUser(c).ID, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Blog created successfully", BlogResponse{Blog: newBlogView(blog, true)})
}

// UpdateBlog godoc
// @Summary Update own blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Param blog body BlogRequest true "Blog payload"
// @Success 200 {object} errors.Response{data=BlogResponse}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /blogs/{id} [put]
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req BlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	blog, err := h.svc.Update(c.Request().Context(), id, middleware.CurrentUser(c).ID, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Blog updated successfully", BlogResponse{Blog: newBlogView(blog, true)})
}

// DeleteBlog godoc
// @Summary Delete own blog
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Success 200 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /blogs/{id} [delete]
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id, middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Blog deleted successfully", nil)
}

// ToggleLike godoc
// @Summary Like or unlike a blog
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Success 200 {object} errors.Response{data=service.LikeResult}
// @Failure 404 {object} errors.Response
// @Router /blogs/{id}/like [post]
func (h *BlogHandler) ToggleLike(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.svc.ToggleLike(c.Request().Context(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	message := "Blog unliked"
	if result.Liked {
		message = "Blog liked"
	}
	return respond(c, http.StatusOK, message, result)
}

// AddComment godoc
// @Summary Comment on a blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Param comment body CommentRequest true "Comment"
// @Success 201 {object} errors.Response{data=CommentResponse}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /blogs/{id}/comments [post]
func (h *BlogHandler) AddComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.svc.AddComment(c.Request().Context(), id, middleware.CurrentUser(c).ID, req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Comment added successfully", CommentResponse{Comment: newCommentView(comment)})
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Allowed for the comment author and the blog author.
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /blogs/{id}/comments/{commentId} [delete]
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteComment(c.Request().Context(), id, commentID, middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Comment deleted successfully", nil)
}
