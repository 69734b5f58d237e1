package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrnexus/hrnexus-cli/internal/api"
	cfgpkg "github.com/hrnexus/hrnexus-cli/internal/config"
	"github.com/hrnexus/hrnexus-cli/internal/logging"
	"github.com/hrnexus/hrnexus-cli/internal/notify"
	"github.com/hrnexus/hrnexus-cli/internal/poller"
	"github.com/hrnexus/hrnexus-cli/internal/session"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	debug   bool
	// Overrides for config values if set
	flagBaseURL        string
	flagHTTPTimeoutSec int
	flagPollStrategy   string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hrnexus",
	Short: "HR Nexus CLI: documents, tasks, and the HR document assistant",
	Long: `hrnexus talks to an HR Nexus backend: upload policy documents and
track their background processing, manage HR tasks across the eight
pillars, and ask the document assistant questions about your uploads.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.hrnexus/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend origin (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagPollStrategy, "poll-strategy", "", "status poll strategy: interval or delayed (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// A broken config file must not leave the CLI without a usable
		// base URL, so fall back to the built-in defaults.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config, using defaults: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("base-url") && flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("poll-strategy") && flagPollStrategy != "" {
		cfg.PollStrategy = flagPollStrategy
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.New(os.Stderr, level, cfg.LogFormat)
	slog.SetDefault(logger)
}

// openSession opens the default session store.
func openSession() (*session.Store, error) {
	return session.OpenDefault(logger)
}

// newClient wires a client to the configured backend with the session
// store as its token source. A 401 from any endpoint clears the
// session and tells the user to sign in again; no individual command
// needs its own 401 handling.
func newClient(sess *session.Store) *api.Client {
	return api.New(cfg.BaseURL,
		api.WithTimeout(time.Duration(cfg.HTTPTimeoutSec)*time.Second),
		api.WithTokenSource(sess),
		api.WithLogger(logger),
		api.WithOnUnauthorized(func() {
			if err := sess.Clear(); err != nil {
				logger.Debug("clearing session failed", "err", err)
			}
			fmt.Fprintln(os.Stderr, "✗ Session expired. Run `hrnexus login` to sign in again.")
		}),
	)
}

// requireLogin fails fast when no token is stored. Presence is all we
// check; validity is the backend's call.
func requireLogin(sess *session.Store) error {
	if !sess.LoggedIn() {
		return fmt.Errorf("not logged in: run `hrnexus login` first")
	}
	return nil
}

// uploadPolicy builds the client-side validation gate from config.
func uploadPolicy() api.UploadPolicy {
	exts, maxBytes := cfg.UploadPolicyValues()
	return api.UploadPolicy{AllowedExtensions: exts, MaxBytes: maxBytes}
}

// newPoller builds a status poller against client with the configured
// interval strategy and a console notification sink.
func newPoller(client *api.Client, opts ...poller.Option) *poller.Poller {
	initial, recheck := cfg.PollDelays()
	base := []poller.Option{
		poller.WithInitialDelay(initial),
		poller.WithRecheckInterval(recheck),
		poller.WithNotifier(notify.NewConsole(os.Stdout)),
		poller.WithLogger(logger),
	}
	return poller.New(client.DocumentStatus, append(base, opts...)...)
}
