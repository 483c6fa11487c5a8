package repository

import (
	"context"
	"encoding/json"
	"time"

	"taqyim_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// RedisSessionStateStore persists delivery session runtime state in Redis so
// an interrupted participant can resume mid-session and a restarted server
// can re-arm countdowns. Keys expire on their own well after any plausible
// time limit.
type RedisSessionStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStateStore(client *redis.Client, ttl time.Duration) *RedisSessionStateStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStateStore{client: client, ttl: ttl}
}

func (s *RedisSessionStateStore) Get(participantID string) (*model.DeliverySessionState, bool, error) {
	data, err := s.client.Get(context.Background(), s.key(participantID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var state model.DeliverySessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false, err
	}
	return &state, true, nil
}

func (s *RedisSessionStateStore) Save(state *model.DeliverySessionState) error {
	state.UpdatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(context.Background(), s.key(state.ParticipantID), data, s.ttl).Err()
}

func (s *RedisSessionStateStore) Delete(participantID string) error {
	return s.client.Del(context.Background(), s.key(participantID)).Err()
}

func (s *RedisSessionStateStore) key(participantID string) string {
	return "delivery:session:" + participantID
}
