package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poalerts/config"
)

func TestParseQuantity(t *testing.T) {
	q := parseQuantity("12.500")
	assert.True(t, q.Valid)
	assert.Equal(t, "12.5", q.Decimal.String())

	assert.False(t, parseQuantity("").Valid)
	assert.False(t, parseQuantity("n/a").Valid)
}

func TestDueLinesQuery_UsesDatabase(t *testing.T) {
	q := dueLinesQuery("erp_dwh")
	assert.Contains(t, q, "FROM erp_dwh.po_lines_open FINAL")
	assert.Contains(t, q, "line_complete = 0")
	assert.Contains(t, q, "date_promised IS NOT NULL")
}

func TestClientOptions_TLSFollowsSecureFlag(t *testing.T) {
	cfg := config.ClickHouseConfig{Host: "dwh.internal", Port: 9440, Database: "erp_dwh", Username: "reader"}

	opts := clientOptions(cfg)
	assert.Nil(t, opts.TLS, "port alone must not switch on TLS")
	assert.Equal(t, []string{"dwh.internal:9440"}, opts.Addr)
	assert.Equal(t, "erp_dwh", opts.Auth.Database)

	cfg.Secure = true
	cfg.Port = 9000
	opts = clientOptions(cfg)
	require.NotNil(t, opts.TLS)
	assert.Equal(t, "dwh.internal", opts.TLS.ServerName)
}
