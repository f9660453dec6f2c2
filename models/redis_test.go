package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")

	assert.Equal(t, "cache:6380", getEnv("REDIS_ADDR", "localhost:6379"))
	assert.Equal(t, "localhost:6379", getEnv("REDIS_ADDR_MISSING", "localhost:6379"))
}
