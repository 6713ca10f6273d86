package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
	"jobboard/api/internal/security"
)

type PasswordHasher func(password string) ([]byte, error)

// CredentialVerifier checks an email/password pair. Every rejection is
// ErrInvalidCredentials; unknown emails still pay for one hash comparison.
type CredentialVerifier struct {
	users    UserStore
	resolver *PermissionResolver
	hasher   PasswordHasher

	dummyOnce sync.Once
	dummyHash []byte
}

func NewCredentialVerifier(users UserStore, resolver *PermissionResolver, hasher PasswordHasher) *CredentialVerifier {
	if hasher == nil {
		hasher = security.HashPassword
	}
	return &CredentialVerifier{users: users, resolver: resolver, hasher: hasher}
}

func (v *CredentialVerifier) Validate(ctx context.Context, username string, password string) (models.User, error) {
	user, err := v.users.FindByEmail(ctx, normalizeEmail(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			v.burnComparison(password)
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, ErrInvalidCredentials
	}

	grant := v.resolver.Resolve(ctx, user.RoleID)
	user.RoleName = grant.RoleName
	user.Permissions = grant.Permissions
	return user, nil
}

func (v *CredentialVerifier) burnComparison(password string) {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = v.hasher("not-a-real-password")
	})
	if v.dummyHash != nil {
		_, _ = security.VerifyPassword(password, v.dummyHash)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
