package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/google"
	"github.com/teemow/unified-analytics/internal/logging"
)

// Environment fallbacks for flags.
const (
	envCredentialsPath = "ANALYTICS_CREDENTIALS_PATH"
	envCacheURL        = "REPORT_CACHE_URL"
	envCacheTTL        = "REPORT_CACHE_TTL"
	envLogFormat       = "LOG_FORMAT"
	envMetricsEnabled  = "METRICS_ENABLED"
	envMetricsAddr     = "METRICS_ADDR"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	envFile     string
	credentials string
	sitesFile   string
	debug       bool
	logFormat   string
}

var globals globalFlags

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&globals.envFile, "env-file", ".env", "Environment file loaded at startup (missing file is ignored)")
	f.StringVar(&globals.credentials, "credentials", "", "Path to the Google service account key file. Can also use "+envCredentialsPath+" env var.")
	f.StringVar(&globals.sitesFile, "sites-file", "", "YAML file listing the sites. Can also use "+config.EnvSitesFile+" env var.")
	f.BoolVar(&globals.debug, "debug", false, "Enable debug logging")
	f.StringVar(&globals.logFormat, "log-format", logging.FormatText, "Log format: text or json. Can also use "+envLogFormat+" env var.")
}

// loadEnvFile loads path into the process environment. Variables that are
// already set are kept. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// stringFlagOrEnv returns the flag value when it was set on the command line,
// then the env var, then the flag default.
func stringFlagOrEnv(cmd *cobra.Command, flag, env string) string {
	f := cmd.Flags().Lookup(flag)
	if f != nil && f.Changed {
		return f.Value.String()
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	if f != nil {
		return f.Value.String()
	}
	return ""
}

func boolFlagOrEnv(cmd *cobra.Command, flag, env string) bool {
	v, err := strconv.ParseBool(stringFlagOrEnv(cmd, flag, env))
	return err == nil && v
}

func durationFlagOrEnv(cmd *cobra.Command, flag, env string) (time.Duration, error) {
	s := stringFlagOrEnv(cmd, flag, env)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q for --%s: %w", s, flag, err)
	}
	return d, nil
}

// runtimeEnv is what every subcommand that talks to Google needs.
type runtimeEnv struct {
	logger *slog.Logger
	sites  *config.Registry
	loader *google.ServiceAccountLoader
}

// loadRuntime loads the env file, builds the stderr logger and resolves the
// site registry and the credential path. The key file itself is read when
// the clients are built.
func loadRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	if err := loadEnvFile(globals.envFile); err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, logging.Options{
		Debug:  globals.debug,
		Format: stringFlagOrEnv(cmd, "log-format", envLogFormat),
	})
	slog.SetDefault(logger)

	sites, err := config.LoadRegistry(stringFlagOrEnv(cmd, "sites-file", config.EnvSitesFile), os.Getenv)
	if err != nil {
		return nil, err
	}

	path := stringFlagOrEnv(cmd, "credentials", envCredentialsPath)
	if path == "" {
		return nil, google.ErrNoCredentialsPath
	}

	return &runtimeEnv{
		logger: logger,
		sites:  sites,
		loader: google.NewServiceAccountLoader(path),
	}, nil
}
