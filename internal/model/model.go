package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// ParseRole accepts any casing and returns false for values outside the closed set.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTeacher:
		return RoleTeacher, true
	case RoleStudent:
		return RoleStudent, true
	default:
		return "", false
	}
}

type OnboardingStatus string

const (
	OnboardingPending  OnboardingStatus = "PENDING"
	OnboardingActive   OnboardingStatus = "ACTIVE"
	OnboardingRejected OnboardingStatus = "REJECTED"
)

func ParseOnboardingStatus(value string) (OnboardingStatus, bool) {
	switch OnboardingStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case OnboardingPending:
		return OnboardingPending, true
	case OnboardingActive:
		return OnboardingActive, true
	case OnboardingRejected:
		return OnboardingRejected, true
	default:
		return "", false
	}
}

type User struct {
	ID               string
	Email            string
	Name             *string
	PasswordHash     string
	Role             Role
	IsApproved       bool
	OnboardingStatus OnboardingStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DisplayName falls back to the email when no name was provided.
func (u User) DisplayName() string {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return strings.TrimSpace(*u.Name)
	}
	return u.Email
}

// Active reports whether the account has been admitted by an admin.
func (u User) Active() bool {
	return u.IsApproved && u.OnboardingStatus == OnboardingActive
}

type Course struct {
	ID          string
	TeacherID   string
	Title       string
	Description *string
	CreatedAt   time.Time
}

type Enrollment struct {
	ID         string
	CourseID   string
	StudentID  string
	EnrolledAt time.Time
}
