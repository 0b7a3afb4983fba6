package cmd

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillgap/internal/ai"
)

const (
	app = "skillgap"
)

type Config struct {
	TaxonomyFile string            `mapstructure:"taxonomy-file"`
	Extraction   *ExtractionConfig `mapstructure:"extraction"`
	AI           *ai.Config        `mapstructure:"ai"`
}

type ExtractionConfig struct {
	Parallel       bool     `mapstructure:"parallel"`
	PatternVariant string   `mapstructure:"pattern-variant"`
	ClassifiedOnly bool     `mapstructure:"classified-only"`
	EntityLabels   []string `mapstructure:"entity-labels"`
	Disabled       []string `mapstructure:"disabled"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillgap extracts skills from a resume and a job description and reports the gap between them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("extraction.parallel", true)
	viper.SetDefault("extraction.pattern-variant", "strict")
	viper.SetDefault("ai.provider", ai.ProviderGemini)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.embedding-model", "gemini-embedding-001")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillgap.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("taxonomy-file", "t", "", "a skill taxonomy file. Default is the built-in taxonomy.")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("taxonomy-file", rootCmd.PersistentFlags().Lookup("taxonomy-file"))
}

func initConfig() {
	// Only analyze and taxonomy read the configuration.
	if analyzeCmd.CalledAs() == "" && taxonomyCmd.CalledAs() == "" {
		return
	}

	// A missing .env file is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The default config file is optional; an explicit one is not.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Extraction == nil {
		config.Extraction = &ExtractionConfig{}
	}
	if config.AI == nil {
		config.AI = &ai.Config{}
	}

	return config, nil
}
