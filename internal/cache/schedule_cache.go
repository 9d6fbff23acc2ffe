// Package cache holds the Redis-backed collaborators of the scheduling
// service: the doctor template cache, consultation timers and the
// medical-record linkage queue.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

const keyPrefix = "clinic"

func scheduleKey(tenantID string, doctorID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:doctor:%s:schedule", keyPrefix, tenantID, doctorID)
}

// ScheduleCache caches doctors with their weekly template.
type ScheduleCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewScheduleCache(client redis.Cmdable, ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{client: client, ttl: ttl}
}

// Get returns the cached doctor; ok is false on a miss.
func (c *ScheduleCache) Get(ctx context.Context, tenantID string, doctorID uuid.UUID) (*domain.Doctor, bool, error) {
	raw, err := c.client.Get(ctx, scheduleKey(tenantID, doctorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var doc domain.Doctor
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}
	return &doc, true, nil
}

func (c *ScheduleCache) Set(ctx context.Context, doc *domain.Doctor) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, scheduleKey(doc.TenantID, doc.ID), raw, c.ttl).Err()
}

func (c *ScheduleCache) Invalidate(ctx context.Context, tenantID string, doctorID uuid.UUID) error {
	return c.client.Del(ctx, scheduleKey(tenantID, doctorID)).Err()
}
