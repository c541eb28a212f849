package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studentblog/internal/model"
)

// BlogFilter narrows a blog listing. Zero values mean "no constraint".
type BlogFilter struct {
	AuthorID uuid.UUID
	Status   model.BlogStatus
	// Category is matched as a case-insensitive substring.
	Category string
	// Tags matches blogs carrying at least one of the given tags.
	Tags []string
	// Search matches blogs where any whitespace separated term occurs in
	// title, content, excerpt or tags.
	Search string

	Offset int
	Limit  int
	// OrderBy is a trusted column expression, never user input.
	OrderBy string

	IncludeComments bool
}

// BlogRepository defines blog, like and comment persistence operations.
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	Save(ctx context.Context, blog *model.Blog) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	FindByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*model.Blog, error)
	List(ctx context.Context, filter BlogFilter) ([]model.Blog, int64, error)
	// IncrementViews bumps the view counter of a published blog and returns
	// gorm.ErrRecordNotFound when there is none.
	IncrementViews(ctx context.Context, id uuid.UUID) error
	DeleteByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) error

	ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (liked bool, likesCount int64, err error)

	AddComment(ctx context.Context, comment *model.BlogComment) error
	FindComment(ctx context.Context, blogID, commentID uuid.UUID) (*model.BlogComment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

func preloadComments(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func (r *blogRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author", preloadAuthor).
		Preload("Likes").
		Preload("Comments", preloadComments).
		Preload("Comments.User", preloadAuthor)
}

// Create inserts a blog without touching its associations.
func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(blog).Error
}

// Save persists all blog columns without touching its associations.
func (r *blogRepository) Save(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(blog).Error
}

func (r *blogRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Blog{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID loads a blog with author, likes and comments.
func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.withDetails(ctx).Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// FindByIDAndAuthor loads a blog only if authorID owns it.
func (r *blogRepository) FindByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.withDetails(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// List returns one page of blogs matching filter plus the total match count.
func (r *blogRepository) List(ctx context.Context, filter BlogFilter) ([]model.Blog, int64, error) {
	var total int64
	if err := applyBlogFilter(r.db.WithContext(ctx).Model(&model.Blog{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := applyBlogFilter(r.db.WithContext(ctx), filter).
		Preload("Author", preloadAuthor).
		Preload("Likes")
	if filter.IncludeComments {
		q = q.Preload("Comments", preloadComments).Preload("Comments.User", preloadAuthor)
	}
	if filter.OrderBy != "" {
		q = q.Order(filter.OrderBy)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	blogs := []model.Blog{}
	if err := q.Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func applyBlogFilter(q *gorm.DB, f BlogFilter) *gorm.DB {
	if f.AuthorID != uuid.Nil {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("search_category LIKE ? ESCAPE '!'", containsPattern(f.Category))
	}

	if tags := model.NormalizeTags(f.Tags); len(tags) > 0 {
		clauses := make([]string, 0, len(tags))
		args := make([]interface{}, 0, len(tags))
		for _, tag := range tags {
			clauses = append(clauses, "search_tags LIKE ? ESCAPE '!'")
			args = append(args, tagPattern(tag))
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	if terms := strings.Fields(f.Search); len(terms) > 0 {
		clauses := make([]string, 0, len(terms))
		args := make([]interface{}, 0, len(terms))
		for _, term := range terms {
			clauses = append(clauses, "search_text LIKE ? ESCAPE '!'")
			args = append(args, containsPattern(term))
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return q
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// tagPattern matches one element of the JSON encoded search_tags column exactly.
func tagPattern(tag string) string {
	encoded, _ := json.Marshal(strings.ToLower(tag))
	return "%" + likeEscaper.Replace(string(encoded)) + "%"
}

func (r *blogRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Blog{}).
		Where("id = ? AND status = ?", id, model.BlogStatusPublished).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByIDAndAuthor removes an owned blog together with its likes and comments.
func (r *blogRepository) DeleteByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&model.Blog{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("blog_id = ?", id).Delete(&model.BlogLike{}).Error; err != nil {
			return err
		}
		return tx.Where("blog_id = ?", id).Delete(&model.BlogComment{}).Error
	})
}

// ToggleLike removes the user's like if present, otherwise adds it.
func (r *blogRepository) ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("blog_id = ? AND user_id = ?", blogID, userID).Delete(&model.BlogLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			liked = true
			if err := addLike(tx, blogID, userID); err != nil {
				return err
			}
		}
		return tx.Model(&model.BlogLike{}).Where("blog_id = ?", blogID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// addLike inserts a like. A concurrent toggle that inserted the same like
// first leaves the blog liked and is not an error.
func addLike(tx *gorm.DB, blogID, userID uuid.UUID) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.BlogLike{BlogID: blogID, UserID: userID}).Error
}

func (r *blogRepository) AddComment(ctx context.Context, comment *model.BlogComment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("User", preloadAuthor).
		Where("id = ?", comment.ID).First(comment).Error
}

func (r *blogRepository) FindComment(ctx context.Context, blogID, commentID uuid.UUID) (*model.BlogComment, error) {
	var comment model.BlogComment
	if err := r.db.WithContext(ctx).Where("id = ? AND blog_id = ?", commentID, blogID).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *blogRepository) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&model.BlogComment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
