package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/astroplot/pkg/buildinfo"
	"github.com/matzehuels/astroplot/pkg/config"
	"github.com/matzehuels/astroplot/pkg/datasource"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/httputil"
	"github.com/matzehuels/astroplot/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "astroplot"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Astroplot draws helioseismology and stellar physics figures",
		Long:         `Astroplot renders oscillating spherical harmonics with their nodal lines, the nuclear binding energy curve, the BiSON observatory network and MESA opacity curves.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.nodalCommand())
	root.AddCommand(c.sphereCommand())
	root.AddCommand(c.bindingCommand())
	root.AddCommand(c.bisonCommand())
	root.AddCommand(c.opacityCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, installs the logging hooks and attaches
// the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := &logHooks{logger: c.Logger}
	observability.SetRenderHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Data Source Factory
// =============================================================================

// newClient returns a dataset client backed by the response cache, or an
// uncached client when noCache is set or the cache cannot be opened.
// Retries follow the [data] section and are logged as warnings.
func (c *CLI) newClient(noCache bool) *datasource.Client {
	cache, err := newCache(noCache, c.Config.Data.CacheTTL.Duration)
	if err != nil {
		c.Logger.Warn("response cache disabled", "err", err)
	}
	policy := c.Config.Data.RetryPolicy()
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.Logger.Warn("download failed, retrying", "attempt", attempt, "of", policy.Attempts, "wait", wait, "err", err)
	}
	return datasource.NewClient(cache, policy)
}

func newCache(noCache bool, ttl time.Duration) (*httputil.Cache, error) {
	if noCache {
		return nil, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return httputil.NewCache(dir, ttl)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/astroplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pick returns the flag value when the user set it and the configured value
// otherwise.
func pick[T any](cmd *cobra.Command, name string, flag, configured T) T {
	if cmd.Flags().Changed(name) {
		return flag
	}
	return configured
}

// parseFloats parses a comma-separated list of exactly n numbers. n <= 0
// accepts any non-empty list.
func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if n > 0 && len(fields) != n {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseList splits a comma-separated list, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputFormat returns the lower-case extension of path and checks it
// against allowed.
func outputFormat(path string, allowed ...string) (string, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return "", err
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := apperrors.ValidateFormat(format, allowed...); err != nil {
		return "", err
	}
	return format, nil
}
