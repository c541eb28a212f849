package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "studentblog/internal/errors"
	"studentblog/internal/model"
	"studentblog/internal/repository"
)

// StudentInput holds the writable student fields. Nil pointers are left
// untouched on update.
type StudentInput struct {
	Name  *string
	Age   *int
	Email *string
}

// StudentService exposes student CRUD. There is no ownership: every
// authenticated user may manage every record.
type StudentService interface {
	Create(ctx context.Context, in StudentInput) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Student, error)
	Update(ctx context.Context, id uuid.UUID, in StudentInput) (*model.Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type studentService struct {
	repo repository.StudentRepository
}

// NewStudentService creates a new student service.
func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) Create(ctx context.Context, in StudentInput) (*model.Student, error) {
	student := &model.Student{}
	in.apply(student)
	if student.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func (s *studentService) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapStudentErr(err)
	}
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id uuid.UUID, in StudentInput) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapStudentErr(err)
	}
	in.apply(student)
	if student.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapStudentErr(err)
	}
	return nil
}

func (in StudentInput) apply(student *model.Student) {
	if in.Name != nil {
		student.Name = *in.Name
	}
	if in.Age != nil {
		age := *in.Age
		student.Age = &age
	}
	if in.Email != nil {
		student.Email = *in.Email
	}
}

func mapStudentErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrStudentNotFound
	}
	return fmt.Errorf("student store: %w", err)
}
