package quote

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Service is one catalog entry with its base price range.
type Service struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	MinGHS   int      `yaml:"min_ghs"`
	MaxGHS   int      `yaml:"max_ghs"`
	Fallback bool     `yaml:"fallback"`
}

// DeviceTier scales prices for a device class (flagships cost more in
// parts).
type DeviceTier struct {
	Match      []string `yaml:"match"`
	Multiplier float64  `yaml:"multiplier"`
}

type Catalog struct {
	Services    []Service    `yaml:"services"`
	DeviceTiers []DeviceTier `yaml:"device_tiers"`
}

// LoadCatalog reads the price table from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	return &catalog, nil
}

func (c *Catalog) Validate() error {
	if len(c.Services) == 0 {
		return errors.New("catalog has no services")
	}
	for _, svc := range c.Services {
		if svc.Name == "" {
			return errors.New("catalog service without a name")
		}
		if svc.MinGHS <= 0 || svc.MaxGHS < svc.MinGHS {
			return fmt.Errorf("service %q has invalid price range %d-%d", svc.Name, svc.MinGHS, svc.MaxGHS)
		}
	}
	for _, tier := range c.DeviceTiers {
		if tier.Multiplier <= 0 {
			return errors.New("device tier with non-positive multiplier")
		}
	}
	return nil
}

// DefaultCatalog is the built-in price table, used when no catalog file is
// configured.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Services: []Service{
			{Name: "Screen Replacement", Keywords: []string{"screen", "display", "lcd", "cracked", "shattered"}, MinGHS: 150, MaxGHS: 450},
			{Name: "Battery Replacement", Keywords: []string{"battery", "drain", "charge", "power off"}, MinGHS: 80, MaxGHS: 250},
			{Name: "Charging Port Repair", Keywords: []string{"charging port", "port", "usb", "not charging"}, MinGHS: 60, MaxGHS: 150},
			{Name: "Water Damage Treatment", Keywords: []string{"water", "liquid", "wet", "dropped in"}, MinGHS: 100, MaxGHS: 350},
			{Name: "Speaker/Mic Repair", Keywords: []string{"speaker", "microphone", "mic", "sound", "audio"}, MinGHS: 70, MaxGHS: 180},
			{Name: "Software Fix", Keywords: []string{"software", "boot", "stuck", "frozen", "virus", "slow"}, MinGHS: 40, MaxGHS: 120},
			{Name: "General Diagnosis", Keywords: []string{"diagnosis", "not sure", "unknown"}, MinGHS: 20, MaxGHS: 50, Fallback: true},
		},
		DeviceTiers: []DeviceTier{
			{Match: []string{"iphone", "ipad"}, Multiplier: 1.3},
			{Match: []string{"samsung galaxy s", "galaxy note", "pixel"}, Multiplier: 1.2},
			{Match: []string{"infinix", "tecno", "itel"}, Multiplier: 0.9},
		},
	}
}
