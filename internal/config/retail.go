package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RetailConfig carries the business constants used at checkout.
type RetailConfig struct {
	TaxRate               float64 `mapstructure:"taxRate"`
	PointsPerCurrencyUnit float64 `mapstructure:"pointsPerCurrencyUnit"`
	PointsExpiryDays      int     `mapstructure:"pointsExpiryDays"`
	OrderRuleCode         string  `mapstructure:"orderRuleCode"`
	ReceiptRuleCode       string  `mapstructure:"receiptRuleCode"`
}

func DefaultRetailConfig() RetailConfig {
	return RetailConfig{
		TaxRate:               0.05,
		PointsPerCurrencyUnit: 10,
		PointsExpiryDays:      365,
		OrderRuleCode:         "ORDER",
		ReceiptRuleCode:       "RECEIPT",
	}
}

func (c RetailConfig) TaxRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TaxRate)
}

func (c RetailConfig) PointsRatioDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.PointsPerCurrencyUnit)
}

type RetailConfigHolder struct {
	current atomic.Value // holds RetailConfig
}

// NewRetailConfigHolder reads retail.yml from the usual locations and keeps
// watching it for changes.
func NewRetailConfigHolder() (*RetailConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("retail")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/retailerp/config")
	v.AddConfigPath("/etc/retailerp")
	v.AddConfigPath(".")

	return newRetailConfigHolder(v)
}

// NewRetailConfigHolderFromFile reads the given file instead of searching
// the default paths.
func NewRetailConfigHolderFromFile(path string) (*RetailConfigHolder, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return newRetailConfigHolder(v)
}

// NewStaticRetailConfig returns a holder that never reloads.
func NewStaticRetailConfig(cfg RetailConfig) *RetailConfigHolder {
	holder := &RetailConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func newRetailConfigHolder(v *viper.Viper) (*RetailConfigHolder, error) {
	holder, found, err := loadRetailConfig(v)
	if err != nil || !found {
		return holder, err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		holder.reload(v, e.Name)
	})
	return holder, nil
}

// loadRetailConfig reads v once without watching; found reports whether a
// config file was present.
func loadRetailConfig(v *viper.Viper) (*RetailConfigHolder, bool, error) {
	v.SetEnvPrefix("RETAILERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRetailConfig()
	v.SetDefault("retail.taxRate", defaults.TaxRate)
	v.SetDefault("retail.pointsPerCurrencyUnit", defaults.PointsPerCurrencyUnit)
	v.SetDefault("retail.pointsExpiryDays", defaults.PointsExpiryDays)
	v.SetDefault("retail.orderRuleCode", defaults.OrderRuleCode)
	v.SetDefault("retail.receiptRuleCode", defaults.ReceiptRuleCode)

	found := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, false, err
		}
		found = false
	}

	cfg := readRetailConfig(v)
	if err := validateRetailConfig(cfg); err != nil {
		return nil, false, err
	}

	holder := &RetailConfigHolder{}
	holder.current.Store(cfg)
	return holder, found, nil
}

// readRetailConfig resolves each key on its own so RETAILERP_* env values,
// the file and defaults layer per key.
func readRetailConfig(v *viper.Viper) RetailConfig {
	return RetailConfig{
		TaxRate:               v.GetFloat64("retail.taxRate"),
		PointsPerCurrencyUnit: v.GetFloat64("retail.pointsPerCurrencyUnit"),
		PointsExpiryDays:      v.GetInt("retail.pointsExpiryDays"),
		OrderRuleCode:         strings.TrimSpace(v.GetString("retail.orderRuleCode")),
		ReceiptRuleCode:       strings.TrimSpace(v.GetString("retail.receiptRuleCode")),
	}
}

// reload swaps in the file's current values; an invalid file keeps the
// previous config.
func (h *RetailConfigHolder) reload(v *viper.Viper, source string) {
	log := zap.L().Named("retail.config")
	updated := readRetailConfig(v)
	if err := validateRetailConfig(updated); err != nil {
		log.Warn("invalid retail config ignored", zap.String("file", source), zap.Error(err))
		return
	}
	h.current.Store(updated)
	log.Info("retail config reloaded", zap.String("file", source))
}

func (h *RetailConfigHolder) Get() RetailConfig {
	if h == nil {
		return DefaultRetailConfig()
	}
	cfg, ok := h.current.Load().(RetailConfig)
	if !ok {
		return DefaultRetailConfig()
	}
	return cfg
}

func validateRetailConfig(cfg RetailConfig) error {
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return errors.New("retail.taxRate must be within [0, 1)")
	}
	if cfg.PointsPerCurrencyUnit <= 0 {
		return errors.New("retail.pointsPerCurrencyUnit must be positive")
	}
	if cfg.PointsExpiryDays <= 0 {
		return errors.New("retail.pointsExpiryDays must be positive")
	}
	if strings.TrimSpace(cfg.OrderRuleCode) == "" {
		return errors.New("retail.orderRuleCode cannot be empty")
	}
	return nil
}
