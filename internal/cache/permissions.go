package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobboard/api/internal/models"
)

const permissionKeyPrefix = "perm:role:"

// PermissionCache keeps each role's resolved permission list as a JSON
// blob with a TTL.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	return &PermissionCache{client: client, ttl: ttl}
}

func (c *PermissionCache) Get(ctx context.Context, roleID string) ([]models.Permission, bool, error) {
	raw, err := c.client.Get(ctx, permissionKeyPrefix+roleID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var permissions []models.Permission
	if err := json.Unmarshal(raw, &permissions); err != nil {
		// a corrupt entry behaves like a miss and gets overwritten
		return nil, false, nil
	}
	if permissions == nil {
		permissions = []models.Permission{}
	}
	return permissions, true, nil
}

func (c *PermissionCache) Set(ctx context.Context, roleID string, permissions []models.Permission) error {
	if permissions == nil {
		permissions = []models.Permission{}
	}
	raw, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	return c.client.Set(ctx, permissionKeyPrefix+roleID, raw, c.ttl).Err()
}

func (c *PermissionCache) Invalidate(ctx context.Context, roleIDs ...string) error {
	if len(roleIDs) == 0 {
		return nil
	}
	keys := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		keys[i] = permissionKeyPrefix + id
	}
	return c.client.Del(ctx, keys...).Err()
}
