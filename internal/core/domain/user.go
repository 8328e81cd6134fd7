package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is serialized with the safe field set only: id, name, role and created_at.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"-"`
	PhoneNumber  string    `json:"-"`
	Password     string    `json:"-"`
	Role         Role      `json:"role"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type LoginMethod string

const (
	LoginByEmail LoginMethod = "email"
	LoginByPhone LoginMethod = "phone_number"
)

type Credentials struct {
	Method     LoginMethod
	Identifier string
	Password   string
}

type TokenPair struct {
	Access  string
	Refresh string
}
