package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studentblog/internal/model"
)

// StudentRepository defines student persistence operations.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	// Delete returns gorm.ErrRecordNotFound when nothing was removed.
	Delete(ctx context.Context, id uuid.UUID) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context) ([]model.Student, error) {
	students := []model.Student{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Student{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
