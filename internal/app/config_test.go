package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/sellerdesk/internal/pricing"
)

func TestCommissionTableDecode(t *testing.T) {
	var table CommissionTable
	require.NoError(t, table.Decode(" elektronik:0.08, kadın giyim:0.215 ,,"))
	assert.Equal(t, CommissionTable{
		{Keyword: "elektronik", Rate: 0.08},
		{Keyword: "kadın giyim", Rate: 0.215},
	}, table)

	for _, bad := range []string{"elektronik", "elektronik:", ":0.1", "kitap:abc", "kitap:1.5", "kitap:-0.1"} {
		assert.Error(t, table.Decode(bad), bad)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.SyncPageSize)
	assert.Equal(t, "Europe/Istanbul", cfg.Location().String())
	assert.False(t, cfg.IsProduction())

	p := cfg.Pricing()
	assert.Equal(t, 0.18, p.VATRate)
	assert.Equal(t, 6.99, p.PlatformFee)
	assert.Equal(t, pricing.CommissionRule{Keyword: "elektronik", Rate: 0.08}, p.CommissionRules[0])
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"storage":  {"STORAGE", "sqlite"},
		"cache":    {"DASHBOARD_CACHE_BACKEND", "memcached"},
		"timezone": {"DASHBOARD_TIMEZONE", "Mars/Olympus"},
		"pages":    {"SYNC_PAGE_SIZE", "0"},
		"vat":      {"VAT_RATE", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv("STORAGE", "memory")
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
