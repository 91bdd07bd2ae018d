// Package cli implements the imagectl command tree using Cobra.
package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-transform-api/internal/config"
	"image-transform-api/internal/services"
	"image-transform-api/pkg/server"
)

// ConfigLoader loads the runtime configuration.
type ConfigLoader func() (*config.Config, error)

// ServiceFactory builds the transform service from configuration.
type ServiceFactory func(cfg *config.Config) (services.TransformService, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig   ConfigLoader
	buildService ServiceFactory
	stdout       io.Writer
	stderr       io.Writer

	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	imagePath string
	prompt    string
	outDir    string
	prefix    string
	overwrite bool
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithServiceFactory injects the transform service constructor.
func WithServiceFactory(factory ServiceFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.buildService = factory
		}
	}
}

// WithIO injects process output streams.
func WithIO(stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:   loadLocalConfig,
		buildService: containerService,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "imagectl",
		Short: "imagectl - transform images with a generative model",
		Long: `imagectl runs the image transform service locally.

It reads the API key and model overrides from the environment (or a .env file),
sends an image and prompt to the model, and writes the generated images to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Global flags available to all commands.
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newTransformCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides the arguments the root command parses.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) initConfig() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Logs go to stderr so stdout stays parseable.
	logrus.SetOutput(a.stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if a.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	return nil
}

func loadLocalConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// A one-shot process has nothing to scrape.
	cfg.Metrics.Enabled = false
	return cfg, nil
}

func containerService(cfg *config.Config) (services.TransformService, error) {
	container, err := server.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	return container.TransformService, nil
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
