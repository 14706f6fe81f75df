package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/replyscore/internal/logging"
	"github.com/ppiankov/replyscore/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "replyscore",
	Short: "replyscore - Portuguese text normalization and chatbot reply scoring",
	Long: `replyscore normalizes Portuguese text into deterministic stemmed tokens and
scores chatbot replies against the facts they are expected to state.

Replies are checked for fact presence (local heuristic or an LLM judge) and,
optionally, compared with reference replies by embedding or lexical similarity.

Scores are heuristics with ad hoc thresholds, not calibrated probabilities.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of replyscore.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "replyscore %s\n", version)
	},
}

// envKeys are the config keys overridable with REPLYSCORE_* variables
var envKeys = []string{
	"normalizer.language",
	"normalizer.stem",
	"judge.provider",
	"judge.model",
	"judge.api_key",
	"judge.base_url",
	"judge.timeout",
	"judge.http_proxy",
	"judge.https_proxy",
	"judge.no_proxy",
	"embedding.provider",
	"embedding.model",
	"embedding.api_key",
	"embedding.base_url",
	"embedding.normalize",
	"cache.enabled",
	"rate_limiting.requests_per_second",
	"rate_limiting.burst_size",
	"transcript.format",
	"transcript.bot_sender",
	"logging.json",
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.replyscore/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and ENV variables
func initConfig() {
	// API keys usually live in a local .env; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".replyscore"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// REPLYSCORE_JUDGE_PROVIDER -> judge.provider
	viper.SetEnvPrefix("REPLYSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: decode config: %w", model.ErrConfiguration, err)
	}

	applyProviderEnv(&cfg.Judge.APIKey, &cfg.Judge.BaseURL, cfg.Judge.Provider)
	applyProviderEnv(&cfg.Embedding.APIKey, &cfg.Embedding.BaseURL, cfg.Embedding.Provider)

	return cfg, nil
}

// applyProviderEnv fills credentials from the providers' conventional variables
func applyProviderEnv(apiKey, baseURL *string, provider string) {
	switch strings.ToLower(provider) {
	case "openai":
		if *apiKey == "" {
			*apiKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if *apiKey == "" {
			*apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if *baseURL == "" {
			*baseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}

// newLogger creates the stderr logger for a command run
func newLogger(cfg *model.Config) logging.Logger {
	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: structured logging unavailable: %v\n", err)
		return logging.Nop()
	}
	return logger
}
