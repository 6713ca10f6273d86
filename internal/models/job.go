package models

import "time"

type CompanyRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Job struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Skills      []string   `json:"skills"`
	Company     CompanyRef `json:"company"`
	Location    string     `json:"location"`
	Salary      int64      `json:"salary"`
	Quantity    int        `json:"quantity"`
	Level       string     `json:"level"`
	Description string     `json:"description"`
	Logo        string     `json:"logo"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	IsActive    bool       `json:"isActive"`
	CreatedBy   *Actor     `json:"createdBy,omitempty"`
	UpdatedBy   *Actor     `json:"updatedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"-"`
}
