// Package cmd contains all CLI commands for emoreflect.
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/emoreflect/internal/classifier"
	"github.com/f3rmion/emoreflect/internal/config"
	"github.com/f3rmion/emoreflect/internal/logging"
	"github.com/f3rmion/emoreflect/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgDir string
	appCfg *config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "emoreflect",
	Short: "Emotion Analyzer - discover the emotions behind your reflections",
	Long: `emoreflect sends a short written reflection to an emotion classifier
and shows the detected emotion with a confidence bar.

Detected emotions are Happy, Sad, Anxious, Angry and Excited; anything else
the service returns is shown in a neutral style.

Running 'emoreflect' without arguments launches the interactive TUI.`,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/emoreflect)")
	rootCmd.PersistentFlags().String("endpoint", "", "classifier URL (default "+classifier.DefaultEndpoint+")")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at debug level")

	viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// resolveConfigDir fills cfgDir from --config or the default location.
func resolveConfigDir() error {
	if cfgDir != "" {
		return nil
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("finding config directory: %w", err)
	}
	cfgDir = dir
	return nil
}

// setup loads the configuration (defaults, config file, EMOREFLECT_* env
// and flags, lowest to highest) and opens the log file.
func setup(cmd *cobra.Command, args []string) error {
	if err := resolveConfigDir(); err != nil {
		return err
	}

	v := viper.GetViper()
	config.SetDefaults(v, cfgDir)
	if err := config.ReadFile(v, cfgDir); err != nil {
		return err
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	appCfg = cfg

	log, err := logging.New(cfg.Log, v.GetBool("verbose"))
	if err != nil {
		return err
	}
	logger = log
	logger.Debug("configuration loaded",
		zap.String("config_dir", cfgDir),
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("timeout", cfg.Timeout),
	)
	return nil
}

func newClient() *classifier.Client {
	return classifier.NewClient(appCfg.Endpoint,
		classifier.WithTimeout(appCfg.Timeout),
		classifier.WithLogger(logger.Named("classifier")),
	)
}

// runTUI launches the interactive form.
func runTUI(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(
		tui.NewApp(newClient(), appCfg, cfgDir, logger),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
