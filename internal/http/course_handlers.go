package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/auth"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

type courseRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type courseResponse struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacherId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type enrollmentResponse struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	StudentID  string    `json:"studentId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

func mapCourse(course model.Course) courseResponse {
	return courseResponse{
		ID:          course.ID,
		TeacherID:   course.TeacherID,
		Title:       course.Title,
		Description: course.Description,
		CreatedAt:   course.CreatedAt,
	}
}

func mapEnrollments(enrollments []model.Enrollment) []enrollmentResponse {
	resp := make([]enrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		resp = append(resp, enrollmentResponse{
			ID:         enrollment.ID,
			CourseID:   enrollment.CourseID,
			StudentID:  enrollment.StudentID,
			EnrolledAt: enrollment.EnrolledAt,
		})
	}
	return resp
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.ListCourses(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, mapCourse(course))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": resp})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.store.GetCourse(r.Context(), chi.URLParam(r, "courseId"))
	if err != nil {
		s.fail(w, r, notFoundAs(err, "course_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"course": mapCourse(course)})
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	teacher, err := s.guard.Authorize(r, auth.Requirement{Roles: []model.Role{model.RoleTeacher}, Approved: true})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "missing_title")
		return
	}

	course, err := s.store.CreateCourse(r.Context(), model.Course{
		TeacherID:   teacher.ID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"course": mapCourse(course)})
}

// handleListCourseEnrollments is limited to the teacher who owns the course and admins.
func (s *Server) handleListCourseEnrollments(w http.ResponseWriter, r *http.Request) {
	user, err := s.guard.Authorize(r, auth.Requirement{
		Roles:    []model.Role{model.RoleTeacher, model.RoleAdmin},
		Approved: true,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	course, err := s.store.GetCourse(r.Context(), chi.URLParam(r, "courseId"))
	if err != nil {
		s.fail(w, r, notFoundAs(err, "course_not_found"))
		return
	}
	if user.Role == model.RoleTeacher {
		if err := auth.Check(auth.RequireOwner(user, course.TeacherID)); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	enrollments, err := s.store.ListEnrollmentsByCourse(r.Context(), course.ID)
	if err != nil {
		s.fail(w, r, notFoundAs(err, "course_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"enrollments": mapEnrollments(enrollments)})
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	student, err := s.guard.Authorize(r, auth.Requirement{Roles: []model.Role{model.RoleStudent}, Approved: true})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	enrollment, err := s.store.CreateEnrollment(r.Context(), chi.URLParam(r, "courseId"), student.ID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, r, http.StatusConflict, "already_enrolled")
			return
		}
		s.fail(w, r, notFoundAs(err, "course_not_found"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"enrollment": mapEnrollments([]model.Enrollment{enrollment})[0]})
}

// handleListStudentEnrollments lets students read only their own enrollments.
func (s *Server) handleListStudentEnrollments(w http.ResponseWriter, r *http.Request) {
	user, err := s.guard.Authorize(r, auth.Requirement{
		Roles:    []model.Role{model.RoleStudent, model.RoleAdmin},
		Approved: true,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	studentID := chi.URLParam(r, "studentId")
	if user.Role == model.RoleStudent {
		if err := auth.Check(auth.RequireOwner(user, studentID)); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	if _, err := s.store.GetUserByID(r.Context(), studentID); err != nil {
		s.fail(w, r, notFoundAs(err, "user_not_found"))
		return
	}

	enrollments, err := s.store.ListEnrollmentsByStudent(r.Context(), studentID)
	if err != nil {
		s.fail(w, r, notFoundAs(err, "user_not_found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"enrollments": mapEnrollments(enrollments)})
}
