package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// SkillsCache holds each user's current skill radar as a hash of
// skill name to level, refreshed whenever progress is updated.
type SkillsCache interface {
	SetLevel(ctx context.Context, userID, skillName string, level int) error
	GetRadar(ctx context.Context, userID string) (map[string]int, error)
	Invalidate(ctx context.Context, userID string) error
}

type skillsCache struct {
	client *redis.Client
}

func NewSkillsCache(client *redis.Client) SkillsCache {
	return &skillsCache{client: client}
}

func (c *skillsCache) key(userID string) string {
	return fmt.Sprintf("user:%s:skills", userID)
}

func (c *skillsCache) SetLevel(ctx context.Context, userID, skillName string, level int) error {
	return c.client.HSet(ctx, c.key(userID), skillName, level).Err()
}

func (c *skillsCache) GetRadar(ctx context.Context, userID string) (map[string]int, error) {
	data, err := c.client.HGetAll(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, err
	}

	radar := make(map[string]int, len(data))
	for skill, raw := range data {
		level, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		radar[skill] = level
	}
	return radar, nil
}

func (c *skillsCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
