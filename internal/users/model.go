package users

import (
	"strings"
	"time"
)

const (
	RoleAdmin       = "admin"
	RoleHR          = "hr"
	RoleInterviewer = "interviewer"
	RoleApplicant   = "applicant"
)

type User struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	Role         string    `json:"role"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleInterviewer, RoleApplicant:
		return true
	}
	return false
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
