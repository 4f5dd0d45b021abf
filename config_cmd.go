package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mwg-labs/voicestudio/internal/config"
)

// Every setting is commented out so the environment and built-in defaults
// stay in effect until the user edits the file.
const defaultConfig = `# speech engine: gemini or mock
# engine: "gemini"
# Gemini text-to-speech model
# model: "gemini-2.5-flash-preview-tts"
# API key; GEMINI_API_KEY or VOICESTUDIO_API_KEY are used when unset
# api_key: ""
# language named in the prompt
# language: "Vietnamese"
# requests per minute sent to the service
# requests_per_minute: 10
# time limit for a single request
# timeout: "2m"

# default voice and reading style (see 'voicestudio voices')
# voice: "vn-male-hanoi"
# style: "story"
# playback speed, 0.5 to 2.0
# speed: 1.0

# sample rate of the service's PCM output
# sample_rate: 24000
# longest text sent in one request, 0 to disable splitting
# chunk_runes: 2000
# requests in flight for one conversion
# concurrency: 3
# where converted files are written
# output_dir: "."

# cache of synthesized speech
cache:
  # defaults to voicestudio/cache under the user cache directory
  # dir: ""
  # memory_mb: 64
  # disk_mb: 512
  # ttl_days: 7
  # zstd level, 0 stores uncompressed
  # compression_level: 3

audio:
  # auto, device or mock
  # kind: "auto"
  # device buffer, e.g. "100ms"; empty picks a platform default
  # buffer: ""
`

var configShow bool

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the voicestudio config file",
	Long:    paragraph(fmt.Sprintf("\n%s the voicestudio config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("voicestudio config\nvoicestudio config --config path/to/config.yml\nvoicestudio config --show"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configShow {
			return showConfig(cmd)
		}

		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("voicestudio", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configShow, "show", false, "print the effective configuration instead of editing it")
}

// showConfig prints the merged configuration as YAML with the API key
// masked.
func showConfig(cmd *cobra.Command) error {
	if f := cmd.Flag("config"); f != nil && f.Changed {
		viper.SetConfigFile(config.ExpandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	c, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		c.APIKey = "****"
	}

	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("unable to encode config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
