// Package config loads the global deq-stats configuration from file, env,
// and defaults via viper. Precedence: flags > env > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Column names in the source dataset.
	StationColumn string `mapstructure:"station_column" yaml:"station_column"`
	DateColumn    string `mapstructure:"date_column" yaml:"date_column"`
	DepthColumn   string `mapstructure:"depth_column" yaml:"depth_column"`

	// Date handling: "layout" parses DateLayout strings, "serial" reads
	// Excel serial day numbers (spreadsheet-sourced tables).
	DateEncoding string `mapstructure:"date_encoding" yaml:"date_encoding"`
	DateLayout   string `mapstructure:"date_layout" yaml:"date_layout"`

	// Estimator policy.
	DepthThreshold float64 `mapstructure:"depth_threshold" yaml:"depth_threshold"`
	Aggregation    string  `mapstructure:"aggregation" yaml:"aggregation"`
	Confidence     float64 `mapstructure:"confidence" yaml:"confidence"`

	// Directories.
	StationDir string `mapstructure:"station_dir" yaml:"station_dir"`
	CorrDir    string `mapstructure:"corr_dir" yaml:"corr_dir"`

	// Variables included in correlation matrices.
	Variables []string `mapstructure:"variables" yaml:"variables"`
}

// defaultVariables is the standard panel of water-quality variables carried
// by the source dataset.
var defaultVariables = []string{
	"FDT_FIELD_PH", "FDT_TEMP_CELCIUS", "DO_mg_L", "NITROGEN_mg_L",
	"AMMONIA_mg_L", "NOX_mg_L", "NITROGEN_KJELDAHL_TOTAL_00625_mg_L",
	"PHOSPHORUS_TOTAL_00665_mg_L", "PHOSPHORUS_TOTAL_ORTHOPHOSPHATE_70507_mg_L",
	"HARDNESS_TOTAL_00900_mg_L", "CHLORIDE_mg_L", "SULFATE_mg_L",
	"ECOLI", "FECAL_COLI", "CHLOROPHYLL_A_ug_L",
	"TSS_mg_L", "SECCHI_DEPTH_M", "NOx_TKN_Sum",
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.deq-stats/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".deq-stats")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DEQSTATS")
	v.AutomaticEnv()

	v.SetDefault("station_column", "FDT_STA_ID")
	v.SetDefault("date_column", "FDT_DATE_TIME")
	v.SetDefault("depth_column", "FDT_DEPTH")
	v.SetDefault("date_encoding", "layout")
	v.SetDefault("date_layout", "1/2/06 15:04")
	v.SetDefault("depth_threshold", 1.0)
	v.SetDefault("aggregation", "mean")
	v.SetDefault("confidence", 0.95)
	v.SetDefault("station_dir", "station_csvs")
	v.SetDefault("corr_dir", "spearman_corr")
	v.SetDefault("variables", defaultVariables)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".deq-stats"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
