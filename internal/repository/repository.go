package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/db"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

const userColumns = `id, email, name, password_hash, role, is_approved, onboarding_status, created_at, updated_at`

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type UserFilter struct {
	Status *model.OnboardingStatus
	Role   *model.Role
	Limit  int
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email))
	user, err := scanUser(row)
	return user, translate(err)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return model.User{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	return user, translate(err)
}

// CreateUser inserts the user, assigning an id when none is set.
func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, is_approved, onboarding_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		user.ID, NormalizeEmail(user.Email), user.Name, user.PasswordHash, string(user.Role), user.IsApproved, string(user.OnboardingStatus))
	created, err := scanUser(row)
	return created, translate(err)
}

func (s *Store) ListUsers(ctx context.Context, filter UserFilter) ([]model.User, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var status, role *string
	if filter.Status != nil {
		value := string(*filter.Status)
		status = &value
	}
	if filter.Role != nil {
		value := string(*filter.Role)
		role = &value
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1::text IS NULL OR onboarding_status = $1)
		  AND ($2::text IS NULL OR role = $2)
		ORDER BY created_at ASC
		LIMIT $3
	`, status, role, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountPendingByRole reports how many non-admin accounts await a decision.
func (s *Store) CountPendingByRole(ctx context.Context) (map[model.Role]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT role, COUNT(*)
		FROM users
		WHERE onboarding_status = 'PENDING' AND role <> 'ADMIN'
		GROUP BY role
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.Role]int{model.RoleTeacher: 0, model.RoleStudent: 0}
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[model.Role(role)] = count
	}
	return counts, rows.Err()
}

// ApproveUser sets is_approved and ACTIVE together in one statement.
func (s *Store) ApproveUser(ctx context.Context, userID string) (model.User, error) {
	return s.setOnboarding(ctx, userID, true, model.OnboardingActive)
}

// RejectUser clears is_approved and marks the account REJECTED.
func (s *Store) RejectUser(ctx context.Context, userID string) (model.User, error) {
	return s.setOnboarding(ctx, userID, false, model.OnboardingRejected)
}

func (s *Store) setOnboarding(ctx context.Context, userID string, approved bool, status model.OnboardingStatus) (model.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return model.User{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET is_approved = $2, onboarding_status = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		userID, approved, string(status))
	user, err := scanUser(row)
	return user, translate(err)
}

func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, teacher_id, title, description, created_at
		FROM courses
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(&course.ID, &course.TeacherID, &course.Title, &course.Description, &course.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Store) GetCourse(ctx context.Context, courseID string) (model.Course, error) {
	var course model.Course
	if _, err := uuid.Parse(courseID); err != nil {
		return course, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
		SELECT id, teacher_id, title, description, created_at
		FROM courses
		WHERE id = $1
	`, courseID)
	err := row.Scan(&course.ID, &course.TeacherID, &course.Title, &course.Description, &course.CreatedAt)
	return course, translate(err)
}

func (s *Store) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO courses (id, teacher_id, title, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, teacher_id, title, description, created_at
	`, course.ID, course.TeacherID, course.Title, course.Description)
	var created model.Course
	err := row.Scan(&created.ID, &created.TeacherID, &created.Title, &created.Description, &created.CreatedAt)
	return created, translate(err)
}

// CreateEnrollment returns ErrNotFound for an unknown course and ErrConflict when the
// student is already enrolled.
func (s *Store) CreateEnrollment(ctx context.Context, courseID, studentID string) (model.Enrollment, error) {
	var enrollment model.Enrollment
	if _, err := uuid.Parse(courseID); err != nil {
		return enrollment, ErrNotFound
	}
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO enrollments (id, course_id, student_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (course_id, student_id) DO NOTHING
			RETURNING id, course_id, student_id, enrolled_at
		`, uuid.NewString(), courseID, studentID)
		err := row.Scan(&enrollment.ID, &enrollment.CourseID, &enrollment.StudentID, &enrollment.EnrolledAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return err
	})
	return enrollment, translate(err)
}

func (s *Store) ListEnrollmentsByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error) {
	if _, err := uuid.Parse(courseID); err != nil {
		return nil, ErrNotFound
	}
	return s.listEnrollments(ctx, `WHERE course_id = $1`, courseID)
}

func (s *Store) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, ErrNotFound
	}
	return s.listEnrollments(ctx, `WHERE student_id = $1`, studentID)
}

func (s *Store) listEnrollments(ctx context.Context, where string, arg string) ([]model.Enrollment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, course_id, student_id, enrolled_at
		FROM enrollments
		`+where+`
		ORDER BY enrolled_at ASC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		var enrollment model.Enrollment
		if err := rows.Scan(&enrollment.ID, &enrollment.CourseID, &enrollment.StudentID, &enrollment.EnrolledAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	var role, status string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&role,
		&user.IsApproved,
		&status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	user.Role = model.Role(role)
	user.OnboardingStatus = model.OnboardingStatus(status)
	return user, err
}

// translate maps driver errors onto the package sentinels and passes everything else through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation, pgInvalidText:
			return ErrNotFound
		}
	}
	return err
}
