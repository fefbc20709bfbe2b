/*
 * Copyright 2025 The Omnivore Authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prof18/omnivore/types"

	"github.com/redis/go-redis/v9"
)

const defaultChannelPrefix = "omnivore.entity"

// RedisClient publishes entity events on a per-user Redis channel
// ("<prefix>.<userID>"). Subscribers (resolvers, sync workers) consume them
// out of band; nothing in this module waits on delivery.
type RedisClient struct {
	rdb           *redis.Client
	channelPrefix string
}

// NewRedisClient wraps an existing go-redis client. An empty channelPrefix
// falls back to the default.
func NewRedisClient(rdb *redis.Client, channelPrefix string) *RedisClient {
	if channelPrefix == "" {
		channelPrefix = defaultChannelPrefix
	}
	return &RedisClient{rdb: rdb, channelPrefix: channelPrefix}
}

func (c *RedisClient) EntityCreated(ctx context.Context, kind EntityType, entity interface{}, userID string) error {
	return c.publish(ctx, Event{
		Entity:    kind,
		Action:    ActionCreated,
		UserID:    userID,
		Data:      entity,
		Timestamp: time.Now(),
	})
}

func (c *RedisClient) EntityUpdated(ctx context.Context, kind EntityType, patch types.JsonObject, userID string) error {
	return c.publish(ctx, Event{
		Entity:    kind,
		Action:    ActionUpdated,
		UserID:    userID,
		Data:      patch,
		Timestamp: time.Now(),
	})
}

func (c *RedisClient) publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode entity event: %w", err)
	}
	channel := fmt.Sprintf("%s.%s", c.channelPrefix, ev.UserID)
	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish entity event: %w", err)
	}
	return nil
}

var _ Client = (*RedisClient)(nil)
