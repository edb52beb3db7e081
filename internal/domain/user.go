package domain

import "time"

type UserRole string

const (
	RoleBuyer    UserRole = "buyer"
	RolePartner  UserRole = "partner"
	RoleEmployee UserRole = "employee"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email" validate:"required,email"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	Surname      string   `json:"surname,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Role         UserRole `json:"role"`
	// EmployerID is set for employees and points at the partner they work for.
	EmployerID *int64    `json:"employer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WorksFor reports whether the user may act on behalf of the given partner:
// the partner themselves or one of their employees.
func (u *User) WorksFor(partnerID int64) bool {
	if u.ID == partnerID {
		return true
	}
	return u.EmployerID != nil && *u.EmployerID == partnerID
}
