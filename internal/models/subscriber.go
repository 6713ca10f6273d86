package models

import "time"

type Subscriber struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Skills    []string   `json:"skills"`
	IsActive  bool       `json:"isActive"`
	CreatedBy *Actor     `json:"createdBy,omitempty"`
	UpdatedBy *Actor     `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}
