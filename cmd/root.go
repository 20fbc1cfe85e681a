package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "reps-assessor"
)

type Config struct {
	UserAgent string        `mapstructure:"user-agent"`
	APIURL    string        `mapstructure:"api-url"`
	TokenFile string        `mapstructure:"token-file"`
	DataDir   string        `mapstructure:"data-dir"`
	Recorder  string        `mapstructure:"recorder"`
	Skills    []SkillConfig `mapstructure:"skills"`
	AI        *AIConfig     `mapstructure:"ai"`
}

type SkillConfig struct {
	Name     string `mapstructure:"name"`
	Category string `mapstructure:"category"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "reps-assessor runs AI-scored language and contact center skill assessments and builds a REPS profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "REPS_TOKEN_FILE"); err != nil {
		log.Fatalf("binding REPS_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("data-dir", "REPS_DATA_DIR"); err != nil {
		log.Fatalf("binding REPS_DATA_DIR environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is reps-assessor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// The config file is optional: flags and env cover the defaults.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}
	return config, nil
}

// defaultSkills is the stock contact center skill set used when the config
// does not define one.
func defaultSkills() []SkillConfig {
	return []SkillConfig{
		{Name: "Active Listening", Category: "Communication"},
		{Name: "Clear Speech", Category: "Communication"},
		{Name: "Empathy", Category: "Communication"},
		{Name: "Tone Management", Category: "Communication"},
		{Name: "Issue Analysis", Category: "Problem Solving"},
		{Name: "Solution Finding", Category: "Problem Solving"},
		{Name: "Decision Making", Category: "Problem Solving"},
		{Name: "Resource Utilization", Category: "Problem Solving"},
		{Name: "Service Orientation", Category: "Customer Service"},
		{Name: "Conflict Resolution", Category: "Customer Service"},
		{Name: "Product Knowledge", Category: "Customer Service"},
		{Name: "Quality Assurance", Category: "Customer Service"},
	}
}
