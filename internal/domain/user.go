package domain

import "time"

type UserRole string

const (
	UserRoleTenant     UserRole = "TENANT"
	UserRoleHouseOwner UserRole = "HOUSE_OWNER"
	UserRoleAdmin      UserRole = "ADMIN"
)

// User is mostly a read model here: identity is owned by the auth layer,
// the core checks existence, role and ownership.
type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
}
