package auth

import "time"

// User is the stored principal. The password field holds the bcrypt
// digest; it never leaves the repository layer except for comparison.
type User struct {
	ID        int64
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleGrant is one of a user's role assignments together with the
// permission names that role carries.
type RoleGrant struct {
	Role        string
	Permissions []string
}
