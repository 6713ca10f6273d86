package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/ids"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
	"jobboard/api/internal/security"
)

type AuthService struct {
	users    UserStore
	roles    RoleStore
	sessions SessionStore
	verifier *CredentialVerifier
	resolver *PermissionResolver
	tokens   *security.TokenIssuer
	hasher   PasswordHasher
	log      zerolog.Logger
	now      func() time.Time
}

type AuthOption func(*AuthService)

// WithPasswordHasher replaces the argon2id default, e.g. with cheaper parameters.
func WithPasswordHasher(h PasswordHasher) AuthOption {
	return func(s *AuthService) { s.hasher = h }
}

func NewAuthService(
	users UserStore,
	roles RoleStore,
	sessions SessionStore,
	resolver *PermissionResolver,
	tokens *security.TokenIssuer,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:    users,
		roles:    roles,
		sessions: sessions,
		resolver: resolver,
		tokens:   tokens,
		hasher:   security.HashPassword,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.verifier = NewCredentialVerifier(users, resolver, s.hasher)
	return s
}

func (s *AuthService) Verifier() *CredentialVerifier { return s.verifier }

type RoleRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type UserView struct {
	ID          string              `json:"_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        RoleRef             `json:"role"`
	Permissions []models.Permission `json:"permissions"`
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
	User         UserView
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (AuthResult, error) {
	user, err := s.verifier.Validate(ctx, email, password)
	if err != nil {
		return AuthResult{}, err
	}

	result, err := s.issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	// overwriting the slot ends any earlier session of this user
	expiresAt := s.now().Add(s.tokens.RefreshTTL())
	if err := s.sessions.SetCurrentRefreshToken(ctx, user.ID, result.RefreshToken, expiresAt); err != nil {
		return AuthResult{}, fmt.Errorf("store refresh token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

// Refresh exchanges a live refresh token for a new token pair. Signature,
// expiry, supersession and lost rotation races all surface as ErrInvalidCredentials.
func (s *AuthService) Refresh(ctx context.Context, presented string) (AuthResult, error) {
	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.sessions.FindUserByRefreshToken(ctx, presented)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if user.ID != claims.UserID {
		return AuthResult{}, ErrInvalidCredentials
	}

	// claims come from the current user row and role, not from the old token
	grant := s.resolver.Resolve(ctx, user.RoleID)
	user.RoleName = grant.RoleName
	user.Permissions = grant.Permissions

	result, err := s.issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	expiresAt := s.now().Add(s.tokens.RefreshTTL())
	if err := s.sessions.RotateRefreshToken(ctx, user.ID, presented, result.RefreshToken, expiresAt); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	return result, nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
	Gender   string
	Address  string
}

type RegisterResult struct {
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return RegisterResult{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	passwordHash, err := s.hasher(input.Password)
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

	role, err := s.roles.FindByName(ctx, models.UserRoleName)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return RegisterResult{}, ErrDefaultRoleMissing
		}
		return RegisterResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Age:          input.Age,
		Gender:       input.Gender,
		Address:      input.Address,
		RoleID:       role.ID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return RegisterResult{}, ErrAlreadyExists
		}
		return RegisterResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return RegisterResult{ID: user.ID, CreatedAt: user.CreatedAt}, nil
}

// Account projects the caller's token identity, with the role's current
// permission objects.
func (s *AuthService) Account(ctx context.Context, id security.Identity) UserView {
	grant := s.resolver.Resolve(ctx, id.RoleID)
	return UserView{
		ID:          id.UserID,
		Name:        id.Name,
		Email:       id.Email,
		Role:        RoleRef{ID: id.RoleID, Name: grant.RoleName},
		Permissions: grant.Permissions,
	}
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.ClearRefreshToken(ctx, userID)
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	identity := security.Identity{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		RoleID:      user.RoleID,
		Permissions: permissionKeys(user.Permissions),
	}

	accessToken, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return AuthResult{}, err
	}
	refreshToken, err := s.tokens.IssueRefresh(identity)
	if err != nil {
		return AuthResult{}, err
	}

	permissions := user.Permissions
	if permissions == nil {
		permissions = []models.Permission{}
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshTTL:   s.tokens.RefreshTTL(),
		User: UserView{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Role:        RoleRef{ID: user.RoleID, Name: user.RoleName},
			Permissions: permissions,
		},
	}, nil
}
