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

package logo_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/logo"
)

type countingResolver struct {
	calls atomic.Int32
	asset *logo.Asset
	err   error
}

func (c *countingResolver) Resolve(context.Context) (*logo.Asset, error) {
	c.calls.Add(1)
	return c.asset, c.err
}

// gatedResolver blocks until released and records whether its context was canceled.
type gatedResolver struct {
	asset    *logo.Asset
	started  chan struct{}
	release  chan struct{}
	calls    atomic.Int32
	canceled atomic.Bool
}

func (g *gatedResolver) Resolve(ctx context.Context) (*logo.Asset, error) {
	g.calls.Add(1)
	close(g.started)
	<-g.release
	g.canceled.Store(ctx.Err() != nil)
	return g.asset, nil
}

func TestCachedResolverCanceledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	asset, err := logo.NewAsset("mem", pngBytes(t, 4, 4))
	require.NoError(t, err)
	backend := &gatedResolver{asset: asset, started: make(chan struct{}), release: make(chan struct{})}
	c := logo.NewCachedResolver(backend)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Resolve(firstCtx)
		firstErr <- err
	}()
	<-backend.started

	type result struct {
		asset *logo.Asset
		err   error
	}
	second := make(chan result, 1)
	go func() {
		a, err := c.Resolve(context.Background())
		second <- result{a, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(backend.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Same(t, asset, got.asset)
	assert.False(t, backend.canceled.Load())
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestCachedResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads once", func(t *testing.T) {
		t.Parallel()
		asset, err := logo.NewAsset("mem", pngBytes(t, 4, 4))
		require.NoError(t, err)
		backend := &countingResolver{asset: asset}
		c := logo.NewCachedResolver(backend)

		first, err := c.Resolve(ctx)
		require.NoError(t, err)
		assert.Same(t, asset, first)

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := c.Resolve(ctx)
				assert.NoError(t, err)
				assert.Same(t, asset, got)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), backend.calls.Load())
	})

	t.Run("misses are not cached", func(t *testing.T) {
		t.Parallel()
		backend := &countingResolver{err: logo.ErrNotFound}
		c := logo.NewCachedResolver(backend)

		for range 3 {
			_, err := c.Resolve(ctx)
			assert.ErrorIs(t, err, logo.ErrNotFound)
		}
		assert.Equal(t, int32(3), backend.calls.Load())
	})

	t.Run("probe bypasses the cache", func(t *testing.T) {
		t.Parallel()
		c := logo.NewCachedResolver(staticResolver{err: logo.ErrNotFound})
		results := c.Probe(ctx)
		require.Len(t, results, 1)
		assert.False(t, results[0].Loaded)
	})
}
