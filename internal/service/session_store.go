package service

import (
	"context"
	"encoding/json"
	"errors"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore 按会话 id 保存会话快照
type SessionStore interface {
	Load(ctx context.Context, id string) (model.SessionSnapshot, error)
	Save(ctx context.Context, snap model.SessionSnapshot) error
	Delete(ctx context.Context, id string) error
	// ClaimSubmit 每个会话只有第一次调用返回 true，用于保证成绩只提交一次
	ClaimSubmit(ctx context.Context, id string) (bool, error)
}

type memoryEntry struct {
	snap      model.SessionSnapshot
	expiresAt time.Time
}

// MemorySessionStore 单实例部署使用的进程内存储
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	claimed map[string]struct{}
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		claimed: make(map[string]struct{}),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemorySessionStore) Load(ctx context.Context, id string) (model.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return model.SessionSnapshot{}, util.ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		delete(s.claimed, id)
		return model.SessionSnapshot{}, util.ErrSessionNotFound
	}
	return RestoreSession(entry.snap).Snapshot(), nil
}

func (s *MemorySessionStore) Save(ctx context.Context, snap model.SessionSnapshot) error {
	if snap.ID == "" {
		return util.NewValidationError("id", "session id is empty")
	}

	entry := memoryEntry{snap: RestoreSession(snap).Snapshot()}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[snap.ID] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	delete(s.claimed, id)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) ClaimSubmit(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false, util.ErrSessionNotFound
	}
	if _, ok := s.claimed[id]; ok {
		return false, nil
	}
	s.claimed[id] = struct{}{}
	return true, nil
}

// Len 当前保存的会话数（含已过期未清理的）
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

const redisSessionKeyPrefix = "assessment:session:"

// RedisSessionStore 多实例部署时共享会话，快照以 JSON 保存
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func redisSessionKey(id string) string {
	return redisSessionKeyPrefix + id
}

func redisSubmitKey(id string) string {
	return redisSessionKeyPrefix + id + ":submitted"
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (model.SessionSnapshot, error) {
	data, err := s.rdb.Get(ctx, redisSessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.SessionSnapshot{}, util.ErrSessionNotFound
	}
	if err != nil {
		return model.SessionSnapshot{}, err
	}

	var snap model.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.SessionSnapshot{}, err
	}
	return snap, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, snap model.SessionSnapshot) error {
	if snap.ID == "" {
		return util.NewValidationError("id", "session id is empty")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisSessionKey(snap.ID), data, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, redisSessionKey(id), redisSubmitKey(id)).Err()
}

// ClaimSubmit 用 SETNX 标记，多个实例同时交卷时只有一个成功
func (s *RedisSessionStore) ClaimSubmit(ctx context.Context, id string) (bool, error) {
	return s.rdb.SetNX(ctx, redisSubmitKey(id), 1, s.ttl).Result()
}
