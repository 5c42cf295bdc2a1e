package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/emoreflect/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize emoreflect configuration",
	Long: `Write a config.yaml with the default settings to your config directory.

Edit the file to point the form at another classifier, set a request
timeout, or change where the diagnostic log is written.`,
	// Skips config loading so --force can replace an invalid file.
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return resolveConfigDir()
	},
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := filepath.Join(cfgDir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	cfg := config.Default(cfgDir)
	if endpoint := viper.GetString("endpoint"); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfgDir, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initializing emoreflect configuration in %s\n\n", cfgDir)
	fmt.Fprintf(out, "  Created %s\n\n", config.FileName)
	fmt.Fprintln(out, "Configuration initialized!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit config.yaml to change the classifier endpoint or timeout")
	fmt.Fprintln(out, "  2. Run 'emoreflect' to open the form")

	return nil
}
