package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// TeacherSignupRequest registers a teacher account pending admin approval.
type TeacherSignupRequest struct {
	Username    string    `json:"username" validate:"required,min=3,max=50"`
	Password    string    `json:"password" validate:"required,min=6"`
	FullName    string    `json:"full_name" validate:"required,max=100"`
	TeacherBand LevelBand `json:"teacher_band" validate:"omitempty,oneof=JHS SHS"`
}

// ParentSignupRequest registers a parent account linked to an existing student.
type ParentSignupRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Password      string `json:"password" validate:"required,min=6"`
	FullName      string `json:"full_name" validate:"required,max=100"`
	StudentNumber string `json:"student_number" validate:"required"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Role        UserRole   `json:"role"`
	TeacherBand *LevelBand `json:"teacher_band,omitempty"`
	StudentID   *string    `json:"student_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID      string    `json:"user_id"`
	Role        UserRole  `json:"role"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	TeacherBand LevelBand `json:"teacher_band,omitempty"`
	StudentID   string    `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// BandScope returns the band a teacher is restricted to, or nil when unrestricted.
func (c *JWTClaims) BandScope() *LevelBand {
	if c == nil || c.Role != RoleTeacher || !c.TeacherBand.Valid() {
		return nil
	}
	band := c.TeacherBand
	return &band
}

// ChildScope returns the student a parent is restricted to. ok is false for other roles.
func (c *JWTClaims) ChildScope() (string, bool) {
	if c == nil || c.Role != RoleParent {
		return "", false
	}
	return c.StudentID, true
}
