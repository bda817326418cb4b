// Package user holds the identity types resolved from the external
// identity service. Users are not stored locally.
package user

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       Role   `json:"role"`
	ManagerID  *int64 `json:"manager_id,omitempty"`

	EmploymentStartDate *time.Time `json:"employment_start_date,omitempty"`
}

// CanReview reports whether the user may approve or reject requests.
func (u User) CanReview() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
