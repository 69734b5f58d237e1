package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/hrnexus/hrnexus-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set hrnexus configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("base_url: %s\n", cfg.BaseURL)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("poll_strategy: %s\n", cfg.PollStrategy)
		fmt.Printf("poll_interval_sec: %d\n", cfg.PollIntervalSec)
		fmt.Printf("poll_initial_delay_sec: %d\n", cfg.PollInitialDelaySec)
		fmt.Printf("poll_recheck_sec: %d\n", cfg.PollRecheckSec)
		fmt.Printf("upload_max_mb: %d\n", cfg.UploadMaxMB)
		fmt.Printf("allowed_extensions: %s\n", strings.Join(cfg.AllowedExtensions, ","))
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("log_format: %s\n", cfg.LogFormat)
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
		case "base_url":
			cfg.BaseURL = strings.TrimRight(val, "/")
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		case "poll_strategy":
			if val != cfgpkg.PollStrategyInterval && val != cfgpkg.PollStrategyDelayed {
				return fmt.Errorf("invalid poll_strategy: %s (use %s or %s)", val, cfgpkg.PollStrategyInterval, cfgpkg.PollStrategyDelayed)
			}
			cfg.PollStrategy = val
		case "poll_interval_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for poll_interval_sec: %v", val)
			}
			cfg.PollIntervalSec = i
		case "poll_initial_delay_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for poll_initial_delay_sec: %v", val)
			}
			cfg.PollInitialDelaySec = i
		case "poll_recheck_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for poll_recheck_sec: %v", val)
			}
			cfg.PollRecheckSec = i
		case "upload_max_mb":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for upload_max_mb: %v", val)
			}
			cfg.UploadMaxMB = i
		case "allowed_extensions":
			parts := strings.Split(val, ",")
			exts := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.ToLower(strings.TrimSpace(p))
				if p == "" {
					continue
				}
				if !strings.HasPrefix(p, ".") {
					p = "." + p
				}
				exts = append(exts, p)
			}
			if len(exts) == 0 {
				return fmt.Errorf("allowed_extensions cannot be empty")
			}
			cfg.AllowedExtensions = exts
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			if val != "text" && val != "json" {
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
			cfg.LogFormat = val
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

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
