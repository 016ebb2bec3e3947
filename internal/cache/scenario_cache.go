package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Amoukli/Coach-AI/internal/model"
)

// ScenarioCache keeps scenario metadata (title, specialty, status,
// diagnosis, time limit) so read-side views resolve it without loading
// full scenario documents from Mongo.
type ScenarioCache interface {
	SetMeta(ctx context.Context, meta *model.ScenarioMeta) error
	GetMeta(ctx context.Context, scenarioID string) (*model.ScenarioMeta, error)
	Invalidate(ctx context.Context, scenarioID string) error
}

type scenarioCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScenarioCache(client *redis.Client) ScenarioCache {
	return &scenarioCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *scenarioCache) key(scenarioID string) string {
	return fmt.Sprintf("scenario:%s:meta", scenarioID)
}

func (c *scenarioCache) SetMeta(ctx context.Context, meta *model.ScenarioMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(meta.ScenarioID), data, c.ttl).Err()
}

func (c *scenarioCache) GetMeta(ctx context.Context, scenarioID string) (*model.ScenarioMeta, error) {
	data, err := c.client.Get(ctx, c.key(scenarioID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.ScenarioMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *scenarioCache) Invalidate(ctx context.Context, scenarioID string) error {
	return c.client.Del(ctx, c.key(scenarioID)).Err()
}
