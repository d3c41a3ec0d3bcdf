// Package region loads and validates per-region processing configuration.
// Every threshold the priority scorer and upsert planner consume comes from
// here; nothing is hard-coded so new markets onboard with a config edit.
package region

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default values applied when a region omits the optional tunables.
const (
	DefaultUpdateWindowMonths = 6
	DefaultMidSaleYears       = 13
)

// Config holds the processing parameters for one region. The two cutoff
// dates and two amount thresholds were historically rows in the Region
// table of the legacy database; they are required, and processing refuses
// to start without them.
type Config struct {
	Key         string // directory/map key, e.g. "roanoke_city_va"
	Name        string
	Code        string // short code used in output file naming, e.g. "ROA"
	FIPS        string // county FIPS; gates niche fast-path and skip-trace rows
	MarketType  string
	Description string

	// OldSaleCutoff: absentee properties last sold on or before this date
	// qualify for the high-priority absentee list.
	OldSaleCutoff time.Time

	// RecentBuyerCutoff: properties sold on or after this date qualify for
	// the recent-buyer lists.
	RecentBuyerCutoff time.Time

	LowAmount  float64 // low sale amount threshold
	HighAmount float64 // high sale amount threshold

	// MidSaleYears is the owner-occupant "old property" lookback. Markets
	// tune this between 13 and 14 years.
	MidSaleYears int

	// UpdateWindowMonths bounds which persisted records a monthly rerun may
	// update. Records untouched for longer are frozen.
	UpdateWindowMonths int
}

// rawConfig mirrors the TOML shape before date parsing and defaulting.
type rawConfig struct {
	Name               string  `toml:"name"`
	Code               string  `toml:"code"`
	FIPS               string  `toml:"fips"`
	MarketType         string  `toml:"market_type"`
	Description        string  `toml:"description"`
	OldSaleCutoff      string  `toml:"old_sale_cutoff"`
	RecentBuyerCutoff  string  `toml:"recent_buyer_cutoff"`
	LowAmount          float64 `toml:"low_amount"`
	HighAmount         float64 `toml:"high_amount"`
	MidSaleYears       int     `toml:"mid_sale_years"`
	UpdateWindowMonths int     `toml:"update_window_months"`
}

type rawFile struct {
	Regions map[string]rawConfig `toml:"regions"`
}

// Manager provides lookup over the loaded region configurations.
type Manager struct {
	configs map[string]Config
}

// Load reads and validates a regions TOML file. Any region with a missing
// or inconsistent threshold fails the whole load: processing with an
// undefined cutoff would misclassify an entire month's mailing.
func Load(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Manager from raw TOML content.
func Parse(data []byte) (*Manager, error) {
	var raw rawFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse regions config: %w", err)
	}
	if len(raw.Regions) == 0 {
		return nil, fmt.Errorf("regions config contains no regions")
	}

	m := &Manager{configs: make(map[string]Config, len(raw.Regions))}
	for key, rc := range raw.Regions {
		cfg, err := buildConfig(key, rc)
		if err != nil {
			return nil, err
		}
		m.configs[key] = cfg
	}
	return m, nil
}

// Get returns the configuration for a region key.
func (m *Manager) Get(key string) (Config, error) {
	cfg, ok := m.configs[key]
	if !ok {
		return Config{}, fmt.Errorf("region %q not found (available: %v)", key, m.Keys())
	}
	return cfg, nil
}

// Keys returns the configured region keys, sorted.
func (m *Manager) Keys() []string {
	keys := make([]string, 0, len(m.configs))
	for k := range m.configs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns all configurations sorted by region name.
func (m *Manager) List() []Config {
	configs := make([]Config, 0, len(m.configs))
	for _, c := range m.configs {
		configs = append(configs, c)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs
}

func buildConfig(key string, rc rawConfig) (Config, error) {
	if rc.Name == "" {
		return Config{}, fmt.Errorf("region %s: name is required", key)
	}
	if rc.FIPS == "" {
		return Config{}, fmt.Errorf("region %s: fips is required", key)
	}

	oldCutoff, err := parseDate(rc.OldSaleCutoff)
	if err != nil {
		return Config{}, fmt.Errorf("region %s: old_sale_cutoff: %w", key, err)
	}
	recentCutoff, err := parseDate(rc.RecentBuyerCutoff)
	if err != nil {
		return Config{}, fmt.Errorf("region %s: recent_buyer_cutoff: %w", key, err)
	}
	if !oldCutoff.Before(recentCutoff) {
		return Config{}, fmt.Errorf("region %s: old_sale_cutoff %s must predate recent_buyer_cutoff %s",
			key, oldCutoff.Format("2006-01-02"), recentCutoff.Format("2006-01-02"))
	}

	if rc.LowAmount <= 0 {
		return Config{}, fmt.Errorf("region %s: low_amount is required and must be positive", key)
	}
	if rc.HighAmount <= rc.LowAmount {
		return Config{}, fmt.Errorf("region %s: high_amount must exceed low_amount", key)
	}

	cfg := Config{
		Key:                key,
		Name:               rc.Name,
		Code:               rc.Code,
		FIPS:               rc.FIPS,
		MarketType:         rc.MarketType,
		Description:        rc.Description,
		OldSaleCutoff:      oldCutoff,
		RecentBuyerCutoff:  recentCutoff,
		LowAmount:          rc.LowAmount,
		HighAmount:         rc.HighAmount,
		MidSaleYears:       rc.MidSaleYears,
		UpdateWindowMonths: rc.UpdateWindowMonths,
	}
	if cfg.MidSaleYears == 0 {
		cfg.MidSaleYears = DefaultMidSaleYears
	}
	if cfg.UpdateWindowMonths == 0 {
		cfg.UpdateWindowMonths = DefaultUpdateWindowMonths
	}
	return cfg, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required (YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
