package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spigell/mentor-match/internal/email"
	"github.com/spigell/mentor-match/internal/matching"
	"github.com/spigell/mentor-match/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "mentor-match"
)

type Config struct {
	MentorCSV string                 `mapstructure:"mentor-csv"`
	MenteeCSV string                 `mapstructure:"mentee-csv"`
	Algorithm string                 `mapstructure:"algorithm"`
	Hybrid    *matching.HybridConfig `mapstructure:"hybrid"`
	Solver    *SolverConfig          `mapstructure:"solver"`
	Email     *EmailConfig           `mapstructure:"email"`
}

type SolverConfig struct {
	Backend        string        `mapstructure:"backend"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryOnTimeout bool          `mapstructure:"retry-on-timeout"`
}

type EmailConfig struct {
	Program      string            `mapstructure:"program"`
	Signature    string            `mapstructure:"signature"`
	Subject      string            `mapstructure:"subject"`
	PasswordFile string            `mapstructure:"password-file"`
	SMTP         *email.SMTPConfig `mapstructure:"smtp"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "mentor-match assigns mentees to mentors and optionally emails the matched pairs",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("email.password-file", "MENTOR_MATCH_SMTP_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding MENTOR_MATCH_SMTP_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is mentor-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("mentor-csv", "", "path to the mentor responses CSV file")
	rootCmd.PersistentFlags().String("mentee-csv", "", "path to the mentee responses CSV file")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("mentor-csv", rootCmd.PersistentFlags().Lookup("mentor-csv"))
	viper.BindPFlag("mentee-csv", rootCmd.PersistentFlags().Lookup("mentee-csv"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The CSV paths and algorithm can also arrive via flags, so a missing
	// config file is fine; a broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, nil
}

// weightOptions maps configuration keys to the weight fields they override.
func weightOptions(w *scoring.Weights) map[string]*float64 {
	return map[string]*float64{
		"in-person-match":     &w.InPersonMatch,
		"online-match":        &w.OnlineMatch,
		"preference-fallback": &w.PreferenceFallback,
		"topic-match":         &w.TopicMatch,
		"career-topic-match":  &w.CareerTopicMatch,
		"program-match":       &w.ProgramMatch,
		"senior-mentor":       &w.SeniorMentor,
	}
}

// resolveWeights starts from the documented defaults and overlays only the
// keys present under "weights" in the configuration. Unknown option names
// are rejected before anything is scored.
func resolveWeights() (scoring.Weights, error) {
	w := scoring.DefaultWeights()

	sub := viper.Sub("weights")
	if sub == nil {
		return w, nil
	}

	options := weightOptions(&w)
	for _, key := range sub.AllKeys() {
		if key == "topic-mode" {
			w.TopicMode = sub.GetString(key)
			continue
		}

		field, ok := options[key]
		if !ok {
			return scoring.Weights{}, &scoring.InvalidConfigurationError{Option: key, Reason: "unknown option"}
		}
		*field = sub.GetFloat64(key)
	}

	return w, nil
}
