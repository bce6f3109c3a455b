package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskflow-api/config"
	"github.com/oksasatya/taskflow-api/internal/container"
	"github.com/oksasatya/taskflow-api/internal/infrastructure/memory"
	"github.com/oksasatya/taskflow-api/internal/router"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

func TestRun_MemoryStorage(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("ELASTICSEARCH_ADDRS", "")

	var out bytes.Buffer
	err := run(context.Background(), config.Load(), helpers.NewNopLogger(), "demo@example.com", "password123", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "seeded user:")
	assert.Equal(t, len(demoTasks), strings.Count(out.String(), "seeded task:"))
}

func TestSeed_ExistingUserIsNoop(t *testing.T) {
	cfg := config.Load()
	cfg.BcryptCost = 4
	c := container.New(cfg, helpers.NewNopLogger())
	c.Store = memory.NewStore()
	svc, err := router.BuildServices(c)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, seed(ctx, svc, "demo@example.com", "password123", &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, seed(ctx, svc, "demo@example.com", "password123", &out))
	assert.Contains(t, out.String(), "already exists")
	assert.NotContains(t, out.String(), "seeded task:")
}

func TestSeed_RejectsShortPassword(t *testing.T) {
	cfg := config.Load()
	cfg.BcryptCost = 4
	c := container.New(cfg, helpers.NewNopLogger())
	c.Store = memory.NewStore()
	svc, err := router.BuildServices(c)
	require.NoError(t, err)

	assert.Error(t, seed(context.Background(), svc, "demo@example.com", "short", &bytes.Buffer{}))
}
