package models

import "time"

type ResumeStatus string

const (
	ResumeStatusPending   ResumeStatus = "PENDING"
	ResumeStatusReviewing ResumeStatus = "REVIEWING"
	ResumeStatusApproved  ResumeStatus = "APPROVED"
	ResumeStatusRejected  ResumeStatus = "REJECTED"
)

func (s ResumeStatus) Valid() bool {
	switch s {
	case ResumeStatusPending, ResumeStatusReviewing, ResumeStatusApproved, ResumeStatusRejected:
		return true
	}
	return false
}

type ResumeHistory struct {
	Status    ResumeStatus `json:"status"`
	UpdatedAt time.Time    `json:"updatedAt"`
	UpdatedBy Actor        `json:"updatedBy"`
}

type Resume struct {
	ID        string          `json:"_id"`
	Email     string          `json:"email"`
	UserID    string          `json:"userId"`
	URL       string          `json:"url"`
	Status    ResumeStatus    `json:"status"`
	CompanyID string          `json:"companyId"`
	JobID     string          `json:"jobId"`
	History   []ResumeHistory `json:"history"`
	CreatedBy *Actor          `json:"createdBy,omitempty"`
	UpdatedBy *Actor          `json:"updatedBy,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *time.Time      `json:"-"`
}
