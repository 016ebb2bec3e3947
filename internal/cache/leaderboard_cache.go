package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for the global and
// per-specialty leaderboards, ranked by average overall score.
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, specialty, userID string, avgScore int) error
	GetTop(ctx context.Context, specialty string, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, specialty, userID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

// An empty specialty addresses the global board.
func (c *leaderboardCache) key(specialty string) string {
	if specialty == "" {
		return "lb:global"
	}
	return fmt.Sprintf("lb:specialty:%s", specialty)
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, specialty, userID string, avgScore int) error {
	return c.client.ZAdd(ctx, c.key(specialty), redis.Z{
		Score:  float64(avgScore),
		Member: userID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, specialty string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(specialty), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			UserID: z.Member.(string),
			Score:  int(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, specialty, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(specialty), userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
