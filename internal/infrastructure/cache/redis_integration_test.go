//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/infrastructure/cache"
)

func TestRedisSummaryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := cache.NewRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	c := cache.NewRedisSummaryCache(rdb)

	_, ok, err := c.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.False(t, ok)

	in := &dto.ReportSummaryDTO{
		Today:         "2024-05-10",
		SalesToday:    dto.PeriodTotalDTO{From: "2024-05-10", Total: decimal.RequireFromString("12.50"), Count: 2},
		TotalProducts: 7,
	}
	require.NoError(t, c.Set(ctx, "t-1", in, time.Minute))

	got, ok, err := c.Get(ctx, "t-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, got.TotalProducts)
	assert.True(t, in.SalesToday.Total.Equal(got.SalesToday.Total))

	_, ok, _ = c.Get(ctx, "t-2")
	assert.False(t, ok, "la clave es por tenant")

	require.NoError(t, c.Invalidate(ctx, "t-1"))
	_, ok, err = c.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
