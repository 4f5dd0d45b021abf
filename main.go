// Package main provides the entry point for the voicestudio CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mwg-labs/voicestudio/internal/config"
	"github.com/mwg-labs/voicestudio/internal/speech"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "voicestudio [FILE|-]",
		Short: "Turn Vietnamese text into natural speech",
		Long: paragraph(
			fmt.Sprintf("\nTurn text into %s with Gemini voices, then play it or save it as WAV.", keyword("natural speech")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"txt", "md"}, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// validateOptions loads the configuration every command except config and
// man runs with. Changed flags win over the environment, which wins over
// the config file.
func validateOptions(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "config", "man":
		return nil
	}

	if f := cmd.Flag("config"); f != nil && f.Changed {
		viper.SetConfigFile(config.ExpandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var err error
	cfg, err = config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	log.Debug("Configuration loaded",
		"engine", cfg.Engine,
		"voice", cfg.Voice,
		"style", cfg.Style,
		"speed", cfg.Speed,
		"file", viper.ConfigFileUsed())
	return nil
}

// execute runs a conversion when given input, otherwise it shows help.
func execute(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && convertText == "" && !convertClipboard {
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if !yes {
			return cmd.Help()
		}
	}
	return runConvert(cmd, args)
}

func isTerminal() bool {
	return isTerminalFile(os.Stdout)
}

func isTerminalFile(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	_ = closer()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.StringP("engine", "e", "gemini", "speech engine (gemini or mock)")
	flags.String("voice", speech.DefaultVoice().ID, "voice id or name (see 'voicestudio voices')")
	flags.StringP("style", "s", speech.DefaultStyle().ID, "reading style: story, ads or news")
	flags.Float64("speed", 1.0, "playback speed between 0.5 and 2.0")
	flags.String("audio", "auto", "audio output: auto, device or mock")

	// Config bindings
	_ = viper.BindPFlag("engine", flags.Lookup("engine"))
	_ = viper.BindPFlag("voice", flags.Lookup("voice"))
	_ = viper.BindPFlag("style", flags.Lookup("style"))
	_ = viper.BindPFlag("speed", flags.Lookup("speed"))
	_ = viper.BindPFlag("audio.kind", flags.Lookup("audio"))

	addConvertFlags(rootCmd)

	rootCmd.AddCommand(convertCmd, previewCmd, chunksCmd, voicesCmd, decodeCmd, inspectCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "voicestudio")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "voicestudio")}, dirs...)
	}

	if c := os.Getenv("VOICESTUDIO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("voicestudio")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("voicestudio")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "voicestudio.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
