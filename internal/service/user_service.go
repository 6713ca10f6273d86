package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/ids"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

// ProtectedAdminEmail is the seeded administrator; it cannot be deleted.
const ProtectedAdminEmail = "admin@gmail.com"

type UserService struct {
	users    UserDirectory
	roles    RoleStore
	sessions SessionStore
	hasher   PasswordHasher
	log      zerolog.Logger
	now      func() time.Time
}

func NewUserService(users UserDirectory, roles RoleStore, sessions SessionStore, hasher PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, sessions: sessions, hasher: hasher, log: log, now: time.Now}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Age      int
	Gender   string
	Address  string
	RoleID   string
}

// Create adds a user on behalf of an administrator. An empty RoleID falls
// back to the USER role.
func (s *UserService) Create(ctx context.Context, input CreateUserInput, actor models.Actor) (RegisterResult, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return RegisterResult{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	roleID, err := s.roleOrDefault(ctx, input.RoleID)
	if err != nil {
		return RegisterResult{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return RegisterResult{}, err
	}
	if exists {
		return RegisterResult{}, ErrAlreadyExists
	}

	hash, err := s.hasher(input.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Age:          input.Age,
		Gender:       input.Gender,
		Address:      input.Address,
		RoleID:       roleID,
		CreatedBy:    &actor,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return RegisterResult{}, mapStoreErr(err)
	}

	s.log.Info().Str("user_id", user.ID).Str("by", actor.ID).Msg("user created")
	return RegisterResult{ID: user.ID, CreatedAt: user.CreatedAt}, nil
}

func (s *UserService) roleOrDefault(ctx context.Context, roleID string) (string, error) {
	if roleID == "" {
		role, err := s.roles.FindByName(ctx, models.UserRoleName)
		if err != nil {
			return "", ErrDefaultRoleMissing
		}
		return role.ID, nil
	}
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return "", fmt.Errorf("%w: unknown role %s", ErrInvalidInput, roleID)
	}
	return roleID, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	return user, mapStoreErr(err)
}

func (s *UserService) List(ctx context.Context, page models.Page) ([]models.User, models.PageMeta, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return users, models.NewPageMeta(page, total), nil
}

func (s *UserService) Update(ctx context.Context, id string, upd repository.UserUpdate, actor models.Actor) error {
	if upd.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, *upd.RoleID); err != nil {
			return fmt.Errorf("%w: unknown role %s", ErrInvalidInput, *upd.RoleID)
		}
	}
	return mapStoreErr(s.users.Update(ctx, id, upd, actor))
}

func (s *UserService) Delete(ctx context.Context, id string, actor models.Actor) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if user.Email == ProtectedAdminEmail {
		return fmt.Errorf("%w: cannot delete %s", ErrProtected, ProtectedAdminEmail)
	}
	if err := s.users.SoftDelete(ctx, id, actor); err != nil {
		return mapStoreErr(err)
	}
	if err := s.sessions.ClearRefreshToken(ctx, id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info().Str("user_id", id).Str("by", actor.ID).Msg("user deleted")
	return nil
}
