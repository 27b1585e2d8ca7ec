package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"basegraph.app/tracecase/internal/model"
)

const DefaultRunKeyPrefix = "tracecase:run:"

type redisRunStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRunStore shares run state across server replicas. Keys carry no TTL:
// a run parked for clarification waits indefinitely.
func NewRedisRunStore(client *redis.Client, keyPrefix string) RunStore {
	if keyPrefix == "" {
		keyPrefix = DefaultRunKeyPrefix
	}
	return &redisRunStore{client: client, prefix: keyPrefix}
}

func (s *redisRunStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *redisRunStore) Claim(ctx context.Context, run *model.PipelineRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(run.SessionID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("claim run: %w", err)
	}
	if !ok {
		return ErrRunExists
	}
	return nil
}

func (s *redisRunStore) Get(ctx context.Context, sessionID string) (*model.PipelineRun, error) {
	return s.get(ctx, s.client, sessionID)
}

func (s *redisRunStore) get(ctx context.Context, c redis.Cmdable, sessionID string) (*model.PipelineRun, error) {
	data, err := c.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var run model.PipelineRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &run, nil
}

func (s *redisRunStore) Transition(ctx context.Context, run *model.PipelineRun, from model.RunState) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	key := s.key(run.SessionID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, run.SessionID)
		if err != nil {
			return err
		}
		if current.ID != run.ID {
			return ErrNotFound
		}
		if current.State != from {
			return ErrStateConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrStateConflict
	}
	return err
}

func (s *redisRunStore) Release(ctx context.Context, sessionID, runID string) error {
	key := s.key(sessionID)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, sessionID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if current.ID != runID {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)

	if err != nil {
		return fmt.Errorf("release run: %w", err)
	}
	return nil
}
