package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/spospectre/internal/analyzer"
	"gopkg.in/yaml.v3"
)

const (
	defaultFileName   = ".spospectre.yaml"
	alternateFileName = ".spospectre.yml"
)

// Config holds persistent defaults loaded from a config file. Every
// field can still be overridden by an explicitly set flag.
type Config struct {
	TenantID        string   `yaml:"tenant_id"`
	AppID           string   `yaml:"app_id"`
	CertPath        string   `yaml:"cert_path"`
	CertPassEnv     string   `yaml:"cert_pass_env"`
	ScriptPath      string   `yaml:"script_path"`
	InternalDomains []string `yaml:"internal_domains"`
	Output          string   `yaml:"output"`
	MaxItems        int      `yaml:"max_items"`
	BatchSize       int      `yaml:"batch_size"`
	TimeBudget      string   `yaml:"time_budget"`

	Thresholds *ThresholdOverrides `yaml:"thresholds"`
}

// ThresholdOverrides mirrors analyzer.Thresholds with optional fields so
// a config file can override any subset of limits and enable flags.
type ThresholdOverrides struct {
	Critical CriticalOverrides `yaml:"critical"`
	High     HighOverrides     `yaml:"high"`
	Medium   MediumOverrides   `yaml:"medium"`
}

type CriticalOverrides struct {
	AnyoneOrEveryone *bool `yaml:"anyone_or_everyone"`
	ExternalOwner    *bool `yaml:"external_owner"`
}

type HighOverrides struct {
	DirectWebPerms *bool `yaml:"direct_web_perms"`
	UniqueItemsGT  *int  `yaml:"unique_items_gt"`
}

type MediumOverrides struct {
	ExternalItemIdentitiesGTE *int  `yaml:"external_item_identities_gte"`
	GroupWithoutOwner         *bool `yaml:"group_without_owner"`
}

// Apply overlays the configured limits onto base and returns the result.
func (o *ThresholdOverrides) Apply(base analyzer.Thresholds) analyzer.Thresholds {
	if o == nil {
		return base
	}
	if v := o.Critical.AnyoneOrEveryone; v != nil {
		base.Critical.AnyoneOrEveryone = *v
	}
	if v := o.Critical.ExternalOwner; v != nil {
		base.Critical.ExternalOwner = *v
	}
	if v := o.High.DirectWebPerms; v != nil {
		base.High.DirectWebPerms = *v
	}
	if v := o.High.UniqueItemsGT; v != nil {
		base.High.UniqueItemsGT = *v
	}
	if v := o.Medium.ExternalItemIdentitiesGTE; v != nil {
		base.Medium.ExternalItemIdentitiesGTE = *v
	}
	if v := o.Medium.GroupWithoutOwner; v != nil {
		base.Medium.GroupWithoutOwner = *v
	}
	return base
}

// TimeBudgetDuration parses the TimeBudget field as a Go duration.
// Returns 0 if empty or unparseable.
func (c *Config) TimeBudgetDuration() time.Duration {
	if c.TimeBudget == "" {
		return 0
	}
	d, err := time.ParseDuration(c.TimeBudget)
	if err != nil {
		return 0
	}
	return d
}

// Load searches for a config file in the given directory and the user's
// home directory. Returns a zero-value Config if no file is found.
func Load(dir string) (Config, error) {
	paths := searchPaths(dir)
	for _, p := range paths {
		cfg, found, err := loadPath(p)
		if err != nil {
			return Config{}, err
		}
		if found {
			return cfg, nil
		}
	}
	return Config{}, nil
}

func searchPaths(dir string) []string {
	var paths []string
	if dir != "" {
		paths = append(paths, filepath.Join(dir, defaultFileName))
		paths = append(paths, filepath.Join(dir, alternateFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, defaultFileName))
		paths = append(paths, filepath.Join(home, alternateFileName))
	}
	return paths
}

func loadPath(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}
		return Config{}, false, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}
