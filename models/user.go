package models

import (
	"time"
)

type User struct {
	ID        int       `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"`
	Firstname string    `json:"firstname,omitempty"`
	Lastname  string    `json:"lastname,omitempty"`
	TenantID  *string   `json:"tenant_id,omitempty"`
	Roles     []Role    `json:"roles,omitempty"`
	Token     string    `json:"token,omitempty"`
	Active    bool      `json:"active"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

type Role struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (u *User) HasRole(roleID int) bool {
	for _, role := range u.Roles {
		if role.ID == roleID {
			return true
		}
	}
	return false
}

// InfoUser is the decoded JWT user carried in the request context.
type InfoUser struct {
	ID       int
	Email    string
	TenantID string
	Roles    []int
	IsAdmin  bool
	IsStaff  bool
	IsClient bool
	IsAPI    bool
}

var ConstRoles = struct {
	Admin  int
	Staff  int
	Client int
	API    int
}{
	Admin:  1,
	Staff:  2,
	Client: 3,
	API:    4,
}
