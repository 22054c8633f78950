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

// Package app assembles the generation pipeline from configuration. Both the HTTP
// service and the command-line tool start from here.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/cache"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/config"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/diagnostics"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/logo"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

const (
	redisAttempts = 3
	redisInterval = time.Second
)

// App holds the wired components.
type App struct {
	Service     qr.Service
	Diagnostics *diagnostics.Diagnostics
	Resolver    logo.Resolver
	Limits      qr.Limits

	redis *redis.Client
}

// Options toggles optional components.
type Options struct {
	// OutputCache enables the Redis output cache when the configuration names a server.
	OutputCache bool
	Diagnostics bool
}

// New builds the pipeline. A Redis outage at startup disables the output cache
// instead of failing.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	resolver, err := NewResolver(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	limits := qr.Limits{
		MinSize:       cfg.MinSize,
		MaxSize:       cfg.MaxSize,
		MaxTextLength: cfg.MaxTextLength,
	}
	badge := qr.Badge{Text: cfg.BrandText, Color: cfg.Brand()}
	compositor := qr.NewCompositor(resolver, badge, log)

	a := &App{
		Service:  qr.NewService(log, limits, compositor),
		Resolver: resolver,
		Limits:   limits,
	}
	log.Debug("QR service initialized",
		zap.Int("min_size", limits.MinSize),
		zap.Int("max_size", limits.MaxSize),
		zap.Int("max_text_length", limits.MaxTextLength),
	)

	if opts.OutputCache && cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL, redisAttempts, redisInterval)
		if err != nil {
			log.Warn("Output cache disabled, Redis unavailable", zap.Error(err))
		} else {
			a.redis = client
			a.Service = cache.NewService(a.Service, cache.NewRedisStore(client), cfg.CacheTTL, log)
			log.Info("Output cache enabled", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	if opts.Diagnostics {
		a.Diagnostics = diagnostics.New(resolver, a.Service, limits, badge, log)
		log.Debug("Diagnostics enabled")
	}
	return a, nil
}

// NewResolver builds the logo lookup: the S3 object first when a bucket is configured,
// then the local candidate paths.
func NewResolver(ctx context.Context, cfg *config.Config, log *zap.Logger) (logo.Resolver, error) {
	var resolvers []logo.Resolver
	if cfg.LogoS3Bucket != "" {
		s3r, err := logo.NewS3Resolver(ctx, logo.S3Config{
			Bucket:      cfg.LogoS3Bucket,
			Key:         cfg.LogoS3Key,
			Region:      cfg.LogoS3Region,
			Endpoint:    cfg.LogoS3Endpoint,
			AccessKeyID: cfg.LogoS3KeyID,
			SecretKey:   cfg.LogoS3Secret,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 logo resolver: %w", err)
		}
		resolvers = append(resolvers, s3r)
		log.Debug("S3 logo source configured",
			zap.String("bucket", cfg.LogoS3Bucket),
			zap.String("key", cfg.LogoS3Key),
		)
	}
	if len(cfg.LogoPaths) > 0 {
		resolvers = append(resolvers, logo.NewFileResolver(log, cfg.LogoPaths...))
	}

	resolver := logo.Chain(resolvers...)
	if cfg.LogoCache {
		resolver = logo.NewCachedResolver(resolver)
	}
	return resolver, nil
}

// Close releases external connections.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
