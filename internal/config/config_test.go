package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DELIVERY_FEE", "")
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ENFORCE_TRANSITION_GRAPH", "")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.True(t, cfg.DeliveryFee.Equal(decimal.NewFromFloat(3.5)))
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.EnforceTransitionGraph)
	assert.Equal(t, "+1", cfg.DefaultCountryCode)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DELIVERY_FEE", "4.90")
	t.Setenv("SWEEP_INTERVAL", "15")
	t.Setenv("HISTORY_CACHE_TTL", "2h")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("ENFORCE_TRANSITION_GRAPH", "false")
	t.Setenv("PREP_BASE_MINUTES", "not-a-number")

	cfg := Load()

	assert.True(t, cfg.DeliveryFee.Equal(decimal.RequireFromString("4.90")))
	assert.Equal(t, 15*time.Second, cfg.SweepInterval)
	assert.Equal(t, 2*time.Hour, cfg.HistoryCacheTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.EnforceTransitionGraph)
	assert.Equal(t, 15, cfg.PrepBaseMinutes)
}
