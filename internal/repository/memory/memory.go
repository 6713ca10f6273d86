// Package memory holds map-backed stores with the same contracts as the
// Postgres repositories. They back unit tests of the service and handler
// layers.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
	"jobboard/api/internal/security"
)

type session struct {
	hash      []byte
	expiresAt time.Time
}

type DB struct {
	mu          sync.Mutex
	users       map[string]models.User
	sessions    map[string]session
	roles       map[string]models.Role
	permissions map[string]models.Permission
}

func New() *DB {
	return &DB{
		users:       make(map[string]models.User),
		sessions:    make(map[string]session),
		roles:       make(map[string]models.Role),
		permissions: make(map[string]models.Permission),
	}
}

func (db *DB) Users() *Users       { return &Users{db: db} }
func (db *DB) Roles() *Roles       { return &Roles{db: db} }
func (db *DB) Sessions() *Sessions { return &Sessions{db: db} }
func (db *DB) Permissions() *Permissions {
	return &Permissions{db: db}
}

func (db *DB) PutRole(role models.Role) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.roles[role.ID] = role
}

func (db *DB) PutPermission(p models.Permission) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.permissions[p.ID] = p
}

func (db *DB) UserCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users)
}

type Users struct{ db *DB }

func (u *Users) Create(_ context.Context, user models.User) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	for _, existing := range u.db.users {
		if existing.Email == user.Email && existing.DeletedAt == nil {
			return repository.ErrDuplicate
		}
	}
	u.db.users[user.ID] = user
	return nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	for _, user := range u.db.users {
		if user.Email == email && user.DeletedAt == nil {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (u *Users) GetByID(_ context.Context, id string) (models.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	user, ok := u.db.users[id]
	if !ok || user.DeletedAt != nil {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (u *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := u.FindByEmail(ctx, email)
	return err == nil, nil
}

func (u *Users) List(_ context.Context, page models.Page) ([]models.User, int, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	var live []models.User
	for _, user := range u.db.users {
		if user.DeletedAt == nil {
			live = append(live, user)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	return paginate(live, page), len(live), nil
}

func (u *Users) Update(_ context.Context, id string, upd repository.UserUpdate, actor models.Actor) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	user, ok := u.db.users[id]
	if !ok || user.DeletedAt != nil {
		return repository.ErrUserNotFound
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.RoleID != nil {
		user.RoleID = *upd.RoleID
	}
	if upd.Age != nil {
		user.Age = *upd.Age
	}
	if upd.Gender != nil {
		user.Gender = *upd.Gender
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}
	user.UpdatedBy = &actor
	u.db.users[id] = user
	return nil
}

func (u *Users) SoftDelete(_ context.Context, id string, _ models.Actor) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	user, ok := u.db.users[id]
	if !ok || user.DeletedAt != nil {
		return repository.ErrUserNotFound
	}
	now := time.Now()
	user.DeletedAt = &now
	u.db.users[id] = user
	delete(u.db.sessions, id)
	return nil
}

type Roles struct{ db *DB }

func (r *Roles) Create(_ context.Context, role models.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.roles {
		if existing.Name == role.Name && existing.DeletedAt == nil {
			return repository.ErrDuplicate
		}
	}
	if !r.db.livePermissions(role.PermissionIDs) {
		return repository.ErrInvalidReference
	}
	r.db.roles[role.ID] = role
	return nil
}

func (r *Roles) List(_ context.Context, page models.Page) ([]models.Role, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var live []models.Role
	for _, role := range r.db.roles {
		if role.DeletedAt == nil {
			live = append(live, role)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	return paginate(live, page), len(live), nil
}

func (r *Roles) Update(_ context.Context, id string, upd repository.RoleUpdate, actor models.Actor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	role, ok := r.db.roles[id]
	if !ok || role.DeletedAt != nil {
		return repository.ErrRoleNotFound
	}
	if upd.Name != nil {
		role.Name = *upd.Name
	}
	if upd.Description != nil {
		role.Description = *upd.Description
	}
	if upd.IsActive != nil {
		role.IsActive = *upd.IsActive
	}
	if upd.PermissionIDs != nil {
		if !r.db.livePermissions(upd.PermissionIDs) {
			return repository.ErrInvalidReference
		}
		role.PermissionIDs = append([]string(nil), upd.PermissionIDs...)
	}
	role.UpdatedBy = &actor
	r.db.roles[id] = role
	return nil
}

func (r *Roles) SoftDelete(_ context.Context, id string, _ models.Actor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	role, ok := r.db.roles[id]
	if !ok || role.DeletedAt != nil {
		return repository.ErrRoleNotFound
	}
	now := time.Now()
	role.DeletedAt = &now
	r.db.roles[id] = role
	return nil
}

func (r *Roles) GetByID(_ context.Context, id string) (models.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	role, ok := r.db.roles[id]
	if !ok || role.DeletedAt != nil {
		return models.Role{}, repository.ErrRoleNotFound
	}
	return role, nil
}

func (r *Roles) FindByName(_ context.Context, name string) (models.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, role := range r.db.roles {
		if role.Name == name && role.DeletedAt == nil {
			return role, nil
		}
	}
	return models.Role{}, repository.ErrRoleNotFound
}

func (r *Roles) PermissionsForRole(_ context.Context, roleID string) ([]models.Permission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	role, ok := r.db.roles[roleID]
	if !ok {
		return nil, nil
	}
	var out []models.Permission
	for _, id := range role.PermissionIDs {
		if p, ok := r.db.permissions[id]; ok && p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// livePermissions must be called with db.mu held.
func (db *DB) livePermissions(ids []string) bool {
	for _, id := range ids {
		p, ok := db.permissions[id]
		if !ok || p.DeletedAt != nil {
			return false
		}
	}
	return true
}

type Permissions struct{ db *DB }

func (p *Permissions) GetByID(_ context.Context, id string) (models.Permission, error) {
	p.db.mu.Lock()
	defer p.db.mu.Unlock()
	permission, ok := p.db.permissions[id]
	if !ok || permission.DeletedAt != nil {
		return models.Permission{}, repository.ErrPermissionNotFound
	}
	return permission, nil
}

type Sessions struct{ db *DB }

func (s *Sessions) SetCurrentRefreshToken(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	if token == "" {
		return s.ClearRefreshToken(ctx, userID)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[userID]; !ok {
		return repository.ErrUserNotFound
	}
	s.db.sessions[userID] = session{hash: security.HashRefreshToken(token), expiresAt: expiresAt}
	return nil
}

func (s *Sessions) RotateRefreshToken(_ context.Context, userID string, presented string, next string, expiresAt time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	current, ok := s.db.sessions[userID]
	if !ok || !bytes.Equal(current.hash, security.HashRefreshToken(presented)) {
		return repository.ErrSessionNotFound
	}
	s.db.sessions[userID] = session{hash: security.HashRefreshToken(next), expiresAt: expiresAt}
	return nil
}

func (s *Sessions) FindUserByRefreshToken(_ context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, repository.ErrSessionNotFound
	}
	hash := security.HashRefreshToken(token)
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for userID, current := range s.db.sessions {
		if bytes.Equal(current.hash, hash) && current.expiresAt.After(time.Now()) {
			user, ok := s.db.users[userID]
			if !ok || user.DeletedAt != nil {
				break
			}
			return user, nil
		}
	}
	return models.User{}, repository.ErrSessionNotFound
}

func (s *Sessions) ClearRefreshToken(_ context.Context, userID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.sessions, userID)
	return nil
}

// HasSession reports whether userID currently holds a refresh token.
func (s *Sessions) HasSession(userID string) bool {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	_, ok := s.db.sessions[userID]
	return ok
}

func paginate[T any](items []T, page models.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.PageSize > 0 && start+page.PageSize < end {
		end = start + page.PageSize
	}
	return items[start:end]
}
