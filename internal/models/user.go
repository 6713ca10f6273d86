package models

import "time"

const (
	AdminRoleName = "ADMIN"
	UserRoleName  = "USER"
)

// Actor records who created, changed or removed a record.
type Actor struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

type User struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash []byte     `json:"-"`
	Age          int        `json:"age,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Address      string     `json:"address,omitempty"`
	RoleID       string     `json:"role"`
	CreatedBy    *Actor     `json:"createdBy,omitempty"`
	UpdatedBy    *Actor     `json:"updatedBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"-"`

	// RoleName and Permissions are filled by the credential verifier and are
	// never stored on the row.
	RoleName    string       `json:"-"`
	Permissions []Permission `json:"permissions,omitempty"`
}

type Role struct {
	ID            string     `json:"_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	IsActive      bool       `json:"isActive"`
	PermissionIDs []string   `json:"permissions"`
	CreatedBy     *Actor     `json:"createdBy,omitempty"`
	UpdatedBy     *Actor     `json:"updatedBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeletedAt     *time.Time `json:"-"`
}

type Permission struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	APIPath   string     `json:"apiPath"`
	Method    string     `json:"method"`
	Module    string     `json:"module"`
	CreatedBy *Actor     `json:"createdBy,omitempty"`
	UpdatedBy *Actor     `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}

// Key is the canonical "METHOD path" form used inside access tokens.
func (p Permission) Key() string {
	return PermissionKey(p.Method, p.APIPath)
}
