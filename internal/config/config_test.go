package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	orders := filepath.Join(dir, "orders.csv")
	mapping := filepath.Join(dir, "ips.csv")
	require.NoError(t, os.WriteFile(orders, []byte("order_number\n"), 0o644))
	require.NoError(t, os.WriteFile(mapping, []byte("order_number,ip_address\n"), 0o644))

	return Config{
		OrdersCSV:    orders,
		IPMappingCSV: mapping,
		IPInfoToken:  "token",
		BatchSize:    1000,
		Workers:      4,
		ReportState:  "Ontario",
		ReportYear:   2024,
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidate_MissingInputsAreFatal(t *testing.T) {
	cfg := validConfig(t)
	cfg.OrdersCSV = ""
	cfg.IPInfoToken = ""
	cfg.ReportYear = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDERS_CSV")
	assert.Contains(t, err.Error(), "IPINFO_TOKEN")
	assert.Contains(t, err.Error(), "REPORT_YEAR")
}

func TestValidate_InputFileMustExist(t *testing.T) {
	cfg := validConfig(t)
	cfg.OrdersCSV = filepath.Join(t.TempDir(), "missing.csv")
	assert.Error(t, cfg.Validate())
}
