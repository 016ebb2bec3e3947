package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Amoukli/Coach-AI/internal/model"
)

// SessionCache holds the live dialogue state for in-progress sessions.
// Topic and red-flag sets are Redis sets so repeated merges stay
// idempotent; counters only ever increase.
type SessionCache interface {
	// Meta
	SetMeta(ctx context.Context, sessionID string, meta *SessionMeta) error
	GetMeta(ctx context.Context, sessionID string) (*SessionMeta, error)
	SetCurrentNode(ctx context.Context, sessionID, nodeID string) error

	// Cumulative sets
	AddTopics(ctx context.Context, sessionID string, topics ...string) error
	GetTopics(ctx context.Context, sessionID string) ([]string, error)
	AddRedFlags(ctx context.Context, sessionID string, flags ...string) error
	GetRedFlags(ctx context.Context, sessionID string) ([]string, error)

	// Counters
	IncrQuestions(ctx context.Context, sessionID string) (int, error)
	IncrRelevant(ctx context.Context, sessionID string) (int, error)
	GetCounters(ctx context.Context, sessionID string) (questions, relevant int, err error)

	// Transcript
	AppendTranscript(ctx context.Context, sessionID string, entry *model.TranscriptEntry) error
	GetTranscript(ctx context.Context, sessionID string) ([]model.TranscriptEntry, error)
	GetTranscriptTail(ctx context.Context, sessionID string, n int) ([]model.TranscriptEntry, error)

	// Finalize
	Clear(ctx context.Context, sessionID string) error
}

// SessionMeta is the cached snapshot checked on every dialogue turn.
type SessionMeta struct {
	SessionID     string              `json:"sessionId"`
	UserID        string              `json:"userId"`
	ScenarioID    string              `json:"scenarioId"`
	Status        model.SessionStatus `json:"status"`
	StartedAt     time.Time           `json:"startedAt"`
	CurrentNodeID string              `json:"currentNodeId"`
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

// Key helpers
func (c *sessionCache) metaKey(sessionID string) string {
	return fmt.Sprintf("session:%s:meta", sessionID)
}

func (c *sessionCache) topicsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:topics", sessionID)
}

func (c *sessionCache) redFlagsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:redflags", sessionID)
}

func (c *sessionCache) questionsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:questions", sessionID)
}

func (c *sessionCache) relevantKey(sessionID string) string {
	return fmt.Sprintf("session:%s:relevant", sessionID)
}

func (c *sessionCache) transcriptKey(sessionID string) string {
	return fmt.Sprintf("session:%s:transcript", sessionID)
}

func (c *sessionCache) SetMeta(ctx context.Context, sessionID string, meta *SessionMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.metaKey(sessionID), data, c.ttl).Err()
}

func (c *sessionCache) GetMeta(ctx context.Context, sessionID string) (*SessionMeta, error) {
	data, err := c.client.Get(ctx, c.metaKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta SessionMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *sessionCache) SetCurrentNode(ctx context.Context, sessionID, nodeID string) error {
	meta, err := c.GetMeta(ctx, sessionID)
	if err != nil || meta == nil {
		return err
	}
	meta.CurrentNodeID = nodeID
	return c.SetMeta(ctx, sessionID, meta)
}

func (c *sessionCache) AddTopics(ctx context.Context, sessionID string, topics ...string) error {
	if len(topics) == 0 {
		return nil
	}
	key := c.topicsKey(sessionID)
	args := make([]interface{}, len(topics))
	for i, t := range topics {
		args[i] = t
	}
	if err := c.client.SAdd(ctx, key, args...).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *sessionCache) GetTopics(ctx context.Context, sessionID string) ([]string, error) {
	return c.client.SMembers(ctx, c.topicsKey(sessionID)).Result()
}

func (c *sessionCache) AddRedFlags(ctx context.Context, sessionID string, flags ...string) error {
	if len(flags) == 0 {
		return nil
	}
	key := c.redFlagsKey(sessionID)
	args := make([]interface{}, len(flags))
	for i, f := range flags {
		args[i] = f
	}
	if err := c.client.SAdd(ctx, key, args...).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *sessionCache) GetRedFlags(ctx context.Context, sessionID string) ([]string, error) {
	return c.client.SMembers(ctx, c.redFlagsKey(sessionID)).Result()
}

func (c *sessionCache) IncrQuestions(ctx context.Context, sessionID string) (int, error) {
	key := c.questionsKey(sessionID)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	c.client.Expire(ctx, key, c.ttl)
	return int(n), nil
}

func (c *sessionCache) IncrRelevant(ctx context.Context, sessionID string) (int, error) {
	key := c.relevantKey(sessionID)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	c.client.Expire(ctx, key, c.ttl)
	return int(n), nil
}

func (c *sessionCache) GetCounters(ctx context.Context, sessionID string) (int, int, error) {
	questions, err := c.getInt(ctx, c.questionsKey(sessionID))
	if err != nil {
		return 0, 0, err
	}
	relevant, err := c.getInt(ctx, c.relevantKey(sessionID))
	if err != nil {
		return 0, 0, err
	}
	return questions, relevant, nil
}

func (c *sessionCache) getInt(ctx context.Context, key string) (int, error) {
	val, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

func (c *sessionCache) AppendTranscript(ctx context.Context, sessionID string, entry *model.TranscriptEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := c.transcriptKey(sessionID)
	if err := c.client.RPush(ctx, key, data).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *sessionCache) GetTranscript(ctx context.Context, sessionID string) ([]model.TranscriptEntry, error) {
	return c.rangeTranscript(ctx, sessionID, 0, -1)
}

// GetTranscriptTail returns the last n transcript entries in order.
func (c *sessionCache) GetTranscriptTail(ctx context.Context, sessionID string, n int) ([]model.TranscriptEntry, error) {
	return c.rangeTranscript(ctx, sessionID, int64(-n), -1)
}

func (c *sessionCache) rangeTranscript(ctx context.Context, sessionID string, start, stop int64) ([]model.TranscriptEntry, error) {
	raw, err := c.client.LRange(ctx, c.transcriptKey(sessionID), start, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.TranscriptEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *sessionCache) Clear(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx,
		c.metaKey(sessionID),
		c.topicsKey(sessionID),
		c.redFlagsKey(sessionID),
		c.questionsKey(sessionID),
		c.relevantKey(sessionID),
		c.transcriptKey(sessionID),
	).Err()
}
