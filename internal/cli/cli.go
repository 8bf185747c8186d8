package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/buildinfo"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/cache"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/config"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/observability"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// SessionDir overrides the session directory; empty uses the default.
	SessionDir string

	cfg        config.Config
	configPath string
	apiURL     string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "spatialdash administers a spatial anchor platform",
		Long: `spatialdash manages the spaces, anchors, users and API keys of a spatial
anchor platform, and places anchors visually in an interactive 2D editor.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.apiURL, "api-url", "", "platform API base URL (default from config, then "+api.DefaultBaseURL+")")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spatialdash/config.toml)")

	root.AddCommand(c.loginCommand())
	root.AddCommand(c.registerCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.whoamiCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.usersCommand())
	root.AddCommand(c.keysCommand())
	root.AddCommand(c.spacesCommand())
	root.AddCommand(c.anchorsCommand())
	root.AddCommand(c.editorCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		registerDebugHooks(c.Logger)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates a platform client authenticated from the environment
// token or the stored session. The returned close func releases the cache.
func (c *CLI) newClient(ctx context.Context, refresh bool) (*api.Client, func(), error) {
	ch, err := c.openCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "err", err)
		ch = cache.NewNullCache()
	}

	tokens, err := c.tokenSource()
	if err != nil {
		ch.Close()
		return nil, nil, err
	}

	client, err := api.New(c.cfg.APIURL,
		api.WithTimeout(c.cfg.Timeout),
		api.WithTokenSource(tokens),
		api.WithCache(ch, c.cfg.Cache.TTL),
		api.WithRefresh(refresh),
		api.WithLogger(c.Logger),
	)
	if err != nil {
		ch.Close()
		return nil, nil, err
	}
	return client, func() { ch.Close() }, nil
}

func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	opts, err := c.cfg.CacheOptions()
	if err != nil {
		return nil, err
	}
	return cache.Open(ctx, opts)
}

func (c *CLI) tokenSource() (api.TokenSource, error) {
	if c.cfg.Token != "" {
		return api.StaticToken(c.cfg.Token), nil
	}
	return c.sessionStore()
}

func (c *CLI) sessionStore() (*session.CLIStore, error) {
	store, err := session.NewCLIStore(c.SessionDir, c.cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return store, nil
}

// withClient runs fn with a fresh client and closes it afterwards.
func (c *CLI) withClient(ctx context.Context, refresh bool, fn func(*api.Client) error) error {
	client, closeFn, err := c.newClient(ctx, refresh)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(client)
}

// debugHooks logs observability events at debug level.
type debugHooks struct {
	logger *log.Logger
}

func registerDebugHooks(l *log.Logger) {
	h := &debugHooks{logger: l}
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
	observability.SetEditorHooks(h)
}
