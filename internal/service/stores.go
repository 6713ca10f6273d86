package service

import (
	"context"
	"io"
	"time"

	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type RoleStore interface {
	GetByID(ctx context.Context, id string) (models.Role, error)
	FindByName(ctx context.Context, name string) (models.Role, error)
	PermissionsForRole(ctx context.Context, roleID string) ([]models.Permission, error)
}

// SessionStore holds at most one live refresh token per user.
type SessionStore interface {
	SetCurrentRefreshToken(ctx context.Context, userID string, token string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, userID string, presented string, next string, expiresAt time.Time) error
	FindUserByRefreshToken(ctx context.Context, token string) (models.User, error)
	ClearRefreshToken(ctx context.Context, userID string) error
}

type PermissionCache interface {
	Get(ctx context.Context, roleID string) ([]models.Permission, bool, error)
	Set(ctx context.Context, roleID string, permissions []models.Permission) error
	Invalidate(ctx context.Context, roleIDs ...string) error
}

type UserDirectory interface {
	UserStore
	List(ctx context.Context, page models.Page) ([]models.User, int, error)
	Update(ctx context.Context, id string, upd repository.UserUpdate, actor models.Actor) error
	SoftDelete(ctx context.Context, id string, actor models.Actor) error
}

type RoleDirectory interface {
	RoleStore
	Create(ctx context.Context, role models.Role) error
	List(ctx context.Context, page models.Page) ([]models.Role, int, error)
	Update(ctx context.Context, id string, upd repository.RoleUpdate, actor models.Actor) error
	SoftDelete(ctx context.Context, id string, actor models.Actor) error
}

type PermissionLookup interface {
	GetByID(ctx context.Context, id string) (models.Permission, error)
}

type JobLookup interface {
	GetByID(ctx context.Context, id string) (models.Job, error)
}

type PermissionDirectory interface {
	Create(ctx context.Context, p models.Permission) error
	GetByID(ctx context.Context, id string) (models.Permission, error)
	List(ctx context.Context, module string, page models.Page) ([]models.Permission, int, error)
	Update(ctx context.Context, id string, upd repository.PermissionUpdate, actor models.Actor) error
	SoftDelete(ctx context.Context, id string, actor models.Actor) error
	RoleIDsUsing(ctx context.Context, permissionID string) ([]string, error)
}

type JobStore interface {
	Create(ctx context.Context, job models.Job) error
	GetByID(ctx context.Context, id string) (models.Job, error)
	List(ctx context.Context, filter repository.JobFilter, page models.Page) ([]models.Job, int, error)
	ListOpen(ctx context.Context, at time.Time) ([]models.Job, error)
	Update(ctx context.Context, job models.Job, actor models.Actor) error
	SoftDelete(ctx context.Context, id string, actor models.Actor) error
}

type ResumeStore interface {
	Create(ctx context.Context, resume models.Resume) error
	GetByID(ctx context.Context, id string) (models.Resume, error)
	List(ctx context.Context, status models.ResumeStatus, page models.Page) ([]models.Resume, int, error)
	ListByUser(ctx context.Context, userID string) ([]models.Resume, error)
	UpdateStatus(ctx context.Context, id string, entry models.ResumeHistory) error
	SoftDelete(ctx context.Context, id string, actor models.Actor) error
}

type SubscriberStore interface {
	Create(ctx context.Context, s models.Subscriber) error
	GetByID(ctx context.Context, id string) (models.Subscriber, error)
	FindByEmail(ctx context.Context, email string) (models.Subscriber, error)
	List(ctx context.Context, page models.Page) ([]models.Subscriber, int, error)
	ListActive(ctx context.Context) ([]models.Subscriber, error)
	Upsert(ctx context.Context, s models.Subscriber, actor models.Actor) error
	SoftDelete(ctx context.Context, id string, actor models.Actor) error
}

// ObjectStore is the part of the blob store the file service writes to.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (int64, error)
	PublicURL(key string) string
}
