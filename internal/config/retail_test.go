package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetailConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "retail.yml")
	content := []byte("retail:\n  taxRate: 0.11\n  pointsPerCurrencyUnit: 20\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	holder, err := NewRetailConfigHolderFromFile(path)
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, 0.11, cfg.TaxRate)
	assert.Equal(t, float64(20), cfg.PointsPerCurrencyUnit)
	// unset keys keep their defaults
	assert.Equal(t, 365, cfg.PointsExpiryDays)
	assert.Equal(t, "ORDER", cfg.OrderRuleCode)
	assert.Equal(t, "0.11", cfg.TaxRateDecimal().String())
}

func TestRetailConfigRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "retail.yml")
	require.NoError(t, os.WriteFile(path, []byte("retail:\n  pointsPerCurrencyUnit: 0\n"), 0o600))

	_, err := NewRetailConfigHolderFromFile(path)
	assert.Error(t, err)
}

func TestRetailConfigHolderDefaults(t *testing.T) {
	var holder *RetailConfigHolder
	assert.Equal(t, DefaultRetailConfig(), holder.Get())

	static := NewStaticRetailConfig(RetailConfig{TaxRate: 0.1, PointsPerCurrencyUnit: 5, PointsExpiryDays: 30, OrderRuleCode: "POS"})
	assert.Equal(t, "POS", static.Get().OrderRuleCode)
	assert.Equal(t, "0.05", DefaultRetailConfig().TaxRateDecimal().String())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, "UTC", Config{BusinessTimezone: "Mars/Olympus"}.Location().String())
	assert.Equal(t, "UTC", Config{}.Location().String())
}

func TestRetailConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "retail.yml")
	require.NoError(t, os.WriteFile(path, []byte("retail:\n  taxRate: 0.05\n"), 0o600))

	holder, err := NewRetailConfigHolderFromFile(path)
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, 0.05, cfg.TaxRate)
	assert.Equal(t, float64(10), cfg.PointsPerCurrencyUnit)
	assert.Equal(t, 365, cfg.PointsExpiryDays)
	assert.Equal(t, "ORDER", cfg.OrderRuleCode)
	assert.Equal(t, "RECEIPT", cfg.ReceiptRuleCode)
}

func TestRetailConfigEnvOverridesNestedKey(t *testing.T) {
	t.Setenv("RETAILERP_RETAIL_POINTSEXPIRYDAYS", "30")
	dir := t.TempDir()
	path := filepath.Join(dir, "retail.yml")
	require.NoError(t, os.WriteFile(path, []byte("retail:\n  pointsExpiryDays: 90\n"), 0o600))

	holder, err := NewRetailConfigHolderFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, holder.Get().PointsExpiryDays)
	assert.Equal(t, 0.05, holder.Get().TaxRate)
}

func TestRetailConfigReloadKeepsDefaultsAndRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "retail.yml")
	require.NoError(t, os.WriteFile(path, []byte("retail:\n  taxRate: 0.11\n"), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	holder, found, err := loadRetailConfig(v)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, os.WriteFile(path, []byte("retail:\n  pointsPerCurrencyUnit: 20\n"), 0o600))
	require.NoError(t, v.ReadInConfig())
	holder.reload(v, path)

	cfg := holder.Get()
	assert.Equal(t, float64(20), cfg.PointsPerCurrencyUnit)
	assert.Equal(t, 0.05, cfg.TaxRate)
	assert.Equal(t, 365, cfg.PointsExpiryDays)

	require.NoError(t, os.WriteFile(path, []byte("retail:\n  pointsExpiryDays: 0\n"), 0o600))
	require.NoError(t, v.ReadInConfig())
	holder.reload(v, path)
	assert.Equal(t, 365, holder.Get().PointsExpiryDays)
	assert.Equal(t, float64(20), holder.Get().PointsPerCurrencyUnit)
}
