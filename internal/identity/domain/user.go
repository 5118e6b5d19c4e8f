package domain

import "time"

// User one platform account: importer agent, customs officer or admin
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	OrgID     string    `json:"org_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserQuery optional lookup criteria, combined with AND
type UserQuery struct {
	ID    *string
	Email *string
}

// RegisterInput payload of POST /auth/register
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	OrgID    string `json:"org_id"`
}

// LoginInput payload of POST /auth/login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
