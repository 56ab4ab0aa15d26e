package softkbd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dasdy/softkbd/logging"
)

var (
	cfgFile string
	verbose bool
	logFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "softkbd",
	Short: "On-screen keyboard",
	Long: `softkbd shows an on-screen keyboard and types what you touch.
Layouts are YAML files; key presses can go to a USB HID bridge over a serial
port and be recorded to a sqlite file for a usage heatmap.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd, args)

		return setupLogging(cmd)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.softkbd.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "If provided, debug output will be shown")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".softkbd" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".softkbd")
	}
	// Set environment variable prefix
	viper.SetEnvPrefix("softkbd")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			createExampleConfig()
		} else {
			slog.Error("Error reading config file", "error", err)
			os.Exit(1)
		}
	}
}

const exampleConfig = `# softkbd configuration. Flags given on the command line win.
layoutfile = "layouts/default.yaml"
layout = "us"
fontfamily = "monospace"
fontsize = 12
keyborder = 1
keypad = 0
keymargin = 0
rowspacing = 0
colspacing = 1
longpress = "600ms"
modifierpolicy = "momentary"
popuprelease = "discard"
injector = "log"
baud = 9600
orientation = "any"
port = 9000
`

func createExampleConfig() {
	configPath := "./.softkbd.toml"

	err := os.WriteFile(configPath, []byte(exampleConfig), 0o644)
	if err != nil {
		slog.Error("Error creating example config file", "error", err)
		os.Exit(1)
	}

	slog.Info("Example config file created", "path", configPath)
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	bindFlagSet(cmd.Flags(), viper.GetViper())
}

func bindFlagSet(flags *pflag.FlagSet, v *viper.Viper) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Config keys drop the hyphens; viper compares case-insensitively.
		configName := strings.ReplaceAll(f.Name, "-", "")

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(configName) {
			val := v.Get(configName)

			if err := flags.Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				slog.Error("Error setting flag from config", "flag", f.Name, "error", err)

				return
			}

			slog.Debug("Flag set from config", "flag", f.Name, "value", val)
		}
	})
}

func setupLogging(cmd *cobra.Command) error {
	var out io.Writer = os.Stderr

	// The terminal belongs to the keyboard while it runs.
	if logFile == "" && cmd == runCmd {
		logFile = filepath.Join(os.TempDir(), "softkbd.log")
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}

		cobra.OnFinalize(func() { _ = f.Close() })

		out = f
	}

	slog.SetDefault(logging.New(out, verbose))
	slog.Debug("Logging configured", "command", cmd.Name(), "config", viper.ConfigFileUsed())

	return nil
}
