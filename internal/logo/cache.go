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

package logo

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedResolver keeps the first successfully resolved asset for the life of the process.
// Misses are not cached, so a logo deployed later is still picked up.
type CachedResolver struct {
	next  Resolver
	group singleflight.Group

	mu    sync.RWMutex
	asset *Asset
}

// NewCachedResolver wraps next with a process-wide cache.
func NewCachedResolver(next Resolver) *CachedResolver {
	return &CachedResolver{next: next}
}

// Resolve returns the cached asset or loads it once for all concurrent callers.
func (c *CachedResolver) Resolve(ctx context.Context) (*Asset, error) {
	c.mu.RLock()
	asset := c.asset
	c.mu.RUnlock()
	if asset != nil {
		return asset, nil
	}

	// The shared load is detached from the caller so one canceled request
	// does not fail the others waiting on it.
	ch := c.group.DoChan("logo", func() (any, error) {
		a, err := c.next.Resolve(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.asset = a
		c.mu.Unlock()
		return a, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Asset), nil
	}
}

// Probe bypasses the cache.
func (c *CachedResolver) Probe(ctx context.Context) []ProbeResult {
	if p, ok := c.next.(Prober); ok {
		return p.Probe(ctx)
	}
	return nil
}
