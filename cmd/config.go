package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/yangshao2/deq-stats/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set deq-stats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("station_column: %s\n", cfg.StationColumn)
		fmt.Printf("date_column: %s\n", cfg.DateColumn)
		fmt.Printf("depth_column: %s\n", cfg.DepthColumn)
		fmt.Printf("date_encoding: %s\n", cfg.DateEncoding)
		fmt.Printf("date_layout: %s\n", cfg.DateLayout)
		fmt.Printf("depth_threshold: %g\n", cfg.DepthThreshold)
		fmt.Printf("aggregation: %s\n", cfg.Aggregation)
		fmt.Printf("confidence: %g\n", cfg.Confidence)
		fmt.Printf("station_dir: %s\n", cfg.StationDir)
		fmt.Printf("corr_dir: %s\n", cfg.CorrDir)
		fmt.Printf("variables: %s\n", strings.Join(cfg.Variables, ","))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "station_column":
			cfg.StationColumn = val
		case "date_column":
			cfg.DateColumn = val
		case "depth_column":
			cfg.DepthColumn = val
		case "date_encoding":
			switch val {
			case "layout", "serial":
				cfg.DateEncoding = val
			default:
				return fmt.Errorf("invalid date_encoding: %s (use layout or serial)", val)
			}
		case "date_layout":
			cfg.DateLayout = val
		case "depth_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for depth_threshold: %v", val)
			}
			cfg.DepthThreshold = f
		case "aggregation":
			switch val {
			case "mean", "median":
				cfg.Aggregation = val
			default:
				return fmt.Errorf("invalid aggregation: %s (use mean or median)", val)
			}
		case "confidence":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("invalid confidence: %v (must be in (0, 1))", val)
			}
			cfg.Confidence = f
		case "station_dir":
			cfg.StationDir = val
		case "corr_dir":
			cfg.CorrDir = val
		case "variables":
			cfg.Variables = splitVariables(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

// splitVariables parses a comma-separated variable list, dropping empties.
func splitVariables(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
