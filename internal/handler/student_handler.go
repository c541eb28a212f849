package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studentblog/internal/model"
	"studentblog/internal/service"
)

// StudentHandler bundles student CRUD handlers.
type StudentHandler struct {
	svc service.StudentService
}

// NewStudentHandler creates a student handler.
func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// StudentRequest is the body of create and update. Absent fields are left
// unchanged on update.
type StudentRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Age   *int    `json:"age" validate:"omitempty,min=0,max=150"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (r StudentRequest) input() service.StudentInput {
	return service.StudentInput{Name: r.Name, Age: r.Age, Email: r.Email}
}

// StudentResponse wraps one student.
type StudentResponse struct {
	Student *model.Student `json:"student"`
}

// StudentListResponse wraps all students.
type StudentListResponse struct {
	Students []model.Student `json:"students"`
}

// ListStudents godoc
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response{data=StudentListResponse}
// @Failure 401 {object} errors.Response
// @Router /students [get]
func (h *StudentHandler) ListStudents(c echo.Context) error {
	students, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Students retrieved successfully", StudentListResponse{Students: students})
}

// CreateStudent godoc
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param student body StudentRequest true "Student payload"
// @Success 201 {object} errors.Response{data=StudentResponse}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c echo.Context) error {
	var req StudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	student, err := h.svc.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Student created successfully", StudentResponse{Student: student})
}

// GetStudent godoc
// @Summary Get student by id
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} errors.Response{data=StudentResponse}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	student, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Student retrieved successfully", StudentResponse{Student: student})
}

// UpdateStudent godoc
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param student body StudentRequest true "Student payload"
// @Success 200 {object} errors.Response{data=StudentResponse}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req StudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	student, err := h.svc.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Student updated successfully", StudentResponse{Student: student})
}

// DeleteStudent godoc
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Student deleted successfully", nil)
}
