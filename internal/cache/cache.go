// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package cache stores finished QR byte streams so identical requests skip rendering.
// Generation is deterministic, so a cached stream is indistinguishable from a fresh one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

// ErrCacheMiss is returned by a Store when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Store is a byte cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore keeps entries in Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Key derives a stable cache key for a request.
func Key(req qr.Request) string {
	data, _ := json.Marshal([]any{req.Kind.String(), req.Text, req.Width, req.Height, req.IncludeLogo})
	sum := sha256.Sum256(data)
	return "qr:" + hex.EncodeToString(sum[:])
}

// Service decorates a qr.Service with a read-through cache. Cache faults never fail a request.
type Service struct {
	next   qr.Service
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

var _ qr.Service = (*Service)(nil)

// NewService wraps next. A zero ttl means entries never expire.
func NewService(next qr.Service, store Store, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{next: next, store: store, ttl: ttl, logger: logger}
}

func (s *Service) Generate(ctx context.Context, req qr.Request) ([]byte, error) {
	key := Key(req)
	if b, err := s.store.Get(ctx, key); err == nil {
		s.logger.Debug("QR cache hit", zap.String("key", key), zap.Int("size_bytes", len(b)))
		return b, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("QR cache read failed", zap.String("key", key), zap.Error(err))
	}

	b, err := s.next.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, key, b, s.ttl); err != nil {
		s.logger.Warn("QR cache write failed", zap.String("key", key), zap.Error(err))
	}
	return b, nil
}

func (s *Service) GenerateImage(ctx context.Context, text string, width, height int) ([]byte, error) {
	return s.Generate(ctx, qr.Request{Text: text, Width: width, Height: height, Kind: qr.Image})
}

func (s *Service) GenerateDocument(ctx context.Context, text string, width, height int) ([]byte, error) {
	return s.Generate(ctx, qr.Request{Text: text, Width: width, Height: height, Kind: qr.Document})
}

func (s *Service) GenerateImageWithLogo(ctx context.Context, text string, width, height int, includeLogo bool) ([]byte, error) {
	return s.Generate(ctx, qr.Request{Text: text, Width: width, Height: height, IncludeLogo: includeLogo, Kind: qr.Image})
}

func (s *Service) GenerateDocumentWithLogo(ctx context.Context, text string, width, height int, includeLogo bool) ([]byte, error) {
	return s.Generate(ctx, qr.Request{Text: text, Width: width, Height: height, IncludeLogo: includeLogo, Kind: qr.Document})
}
