package repositories

import (
	"context"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/obs"
	"delivery-route-sim/internal/ports"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "delivery:package_records"

// Redis-backed implementation of the PackageRecordStore port.
// All records live in one hash; the field is the package id and the value the
// JSON-encoded record.
type RedisRecordStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisRecordStore(client *redis.Client, key string) *RedisRecordStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRecordStore{Client: client, Key: key}
}

func (s *RedisRecordStore) Put(ctx context.Context, rec domain.PackageRecord) (err error) {
	defer obs.Time(ctx, "records.redis.Put")(&err)

	if s.Client == nil {
		return errors.New("redis record store: client is nil")
	}
	if rec.PackageID == "" {
		return fmt.Errorf("put package record: %w", errEmptyID)
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("put package record %q: encode: %w", rec.PackageID, err)
	}
	if err := s.Client.HSet(ctx, s.Key, rec.PackageID, b).Err(); err != nil {
		return fmt.Errorf("put package record %q: hset: %w", rec.PackageID, err)
	}
	return nil
}

func (s *RedisRecordStore) Get(ctx context.Context, packageID string) (domain.PackageRecord, error) {
	if s.Client == nil {
		return domain.PackageRecord{}, errors.New("redis record store: client is nil")
	}

	raw, err := s.Client.HGet(ctx, s.Key, packageID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PackageRecord{}, fmt.Errorf("get package record %q: %w", packageID, ports.ErrRecordNotFound)
	}
	if err != nil {
		return domain.PackageRecord{}, fmt.Errorf("get package record %q: hget: %w", packageID, err)
	}

	var rec domain.PackageRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.PackageRecord{}, fmt.Errorf("get package record %q: decode: %w", packageID, err)
	}
	return rec, nil
}

func (s *RedisRecordStore) List(ctx context.Context) (_ []domain.PackageRecord, err error) {
	defer obs.Time(ctx, "records.redis.List")(&err)

	if s.Client == nil {
		return nil, errors.New("redis record store: client is nil")
	}

	all, err := s.Client.HGetAll(ctx, s.Key).Result()
	if err != nil {
		return nil, fmt.Errorf("list package records: hgetall: %w", err)
	}

	out := make([]domain.PackageRecord, 0, len(all))
	for id, raw := range all {
		var rec domain.PackageRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("list package records: decode %q: %w", id, err)
		}
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}
