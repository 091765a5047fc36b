package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spigell/mentor-match/internal/email"
	"github.com/spigell/mentor-match/internal/logger"
	"github.com/spigell/mentor-match/internal/matching"
	"github.com/spigell/mentor-match/internal/matching/solver"
	"github.com/spigell/mentor-match/internal/profile"
	"github.com/spigell/mentor-match/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptSendEmails = "Send emails"
	PromptDryRun     = "Dry-run emails"
	PromptShowPairs  = "Show matched pairs"
	PromptDumpToFile = "Dump assignment to file"
	PromptNo         = "No"

	defaultAlgorithm     = matching.AlgorithmWeighted
	defaultSolverTimeout = 30 * time.Second
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptSendEmails, PromptDryRun, PromptShowPairs, PromptDumpToFile, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match mentees to mentors with one algorithm",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("algorithm", "a", "", "matching algorithm: greedy, weighted, stable, hybrid or ilp")
	runCmd.Flags().BoolP("send-emails", "s", false, "send the match emails without prompting")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation after matching")

	viper.BindPFlag("algorithm", runCmd.Flags().Lookup("algorithm"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the mentor-match", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, engine := setup(logger, config)

	algorithm := viper.GetString("algorithm")
	if algorithm == "" {
		algorithm = defaultAlgorithm
	}

	logger.Info("starting the matching", zap.String("algorithm", algorithm))

	result, err := engine.Run(ctx, algorithm)
	if err != nil {
		logger.Fatal("running the algorithm", zap.Error(err))
	}
	if result.Failed() {
		logger.Fatal("algorithm failed", zap.String("algorithm", result.Strategy), zap.Error(result.Err))
	}

	reportAssignment(logger, engine, result)

	if result.Assignment.MatchedCount() == 0 {
		logger.Info("exiting", zap.String("reason", "no pairs matched"))
		return
	}

	if cmd.Flag("send-emails").Value.String() == "true" {
		if err := sendEmails(ctx, logger, config, store, result.Assignment, false); err != nil {
			logger.Fatal("sending emails", zap.Error(err))
		}
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, logger, config, store, result.Assignment); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// setup loads the profiles and builds the engine. Malformed profiles and
// invalid configuration are fatal here: nothing computed afterwards would be
// trustworthy.
func setup(logger *zap.Logger, config *Config) (*profile.Store, *matching.Engine) {
	mentorCSV := viper.GetString("mentor-csv")
	menteeCSV := viper.GetString("mentee-csv")
	if mentorCSV == "" || menteeCSV == "" {
		logger.Fatal("mentor-csv and mentee-csv files are required")
	}

	store, err := profile.LoadStore(mentorCSV, menteeCSV)
	if err != nil {
		logger.Fatal("loading profiles", zap.Error(err))
	}

	logger.Info("profiles loaded",
		zap.Int("mentors", store.MentorCount()),
		zap.Int("mentees", store.MenteeCount()),
		zap.Int("total_capacity", store.TotalCapacity()),
	)

	weights, err := resolveWeights()
	if err != nil {
		logger.Fatal("resolving scoring weights", zap.Error(err))
	}

	engineCfg := matching.EngineConfig{Weights: weights}
	if config != nil && config.Hybrid != nil {
		engineCfg.Hybrid = *config.Hybrid
	}
	engineCfg.Backend, engineCfg.ILP = resolveSolver(logger, config)

	engine, err := matching.NewEngine(store, engineCfg, logger)
	if err != nil {
		logger.Fatal("building the matching engine", zap.Error(err))
	}

	return store, engine
}

// resolveSolver picks the ILP backend. An unavailable backend is not fatal:
// the ilp strategy alone reports the failure.
func resolveSolver(logger *zap.Logger, config *Config) (solver.Solver, matching.ILPConfig) {
	ilpCfg := matching.ILPConfig{Timeout: defaultSolverTimeout}
	name := ""

	if config != nil && config.Solver != nil {
		name = config.Solver.Backend
		ilpCfg.RetryOnTimeout = config.Solver.RetryOnTimeout
		if config.Solver.Timeout > 0 {
			ilpCfg.Timeout = config.Solver.Timeout
		}
	}

	backend, err := solver.New(name)
	if err != nil {
		logger.Warn("ilp solver backend unavailable", zap.Error(err))
		return nil, ilpCfg
	}

	return backend, ilpCfg
}

func reportAssignment(logger *zap.Logger, engine *matching.Engine, result *matching.Result) {
	for _, pair := range result.Assignment.Pairs() {
		logger.Info("matched pair",
			zap.String("mentor", pair.Mentor),
			zap.String("mentee", pair.Mentee),
			zap.Float64("score", pair.Score),
		)
	}

	if stranded := engine.Matrix().StrandedMentees(); len(stranded) > 0 {
		logger.Warn("mentees with no eligible mentor at all",
			zap.Strings("mentees", stranded),
		)
	}

	if unassigned := result.Assignment.Unassigned(); len(unassigned) > 0 {
		logger.Warn("mentees left unassigned",
			zap.Strings("mentees", unassigned),
			zap.Int("count", len(unassigned)),
		)
	}

	logger.Info("matching finished",
		zap.String("algorithm", result.Strategy),
		zap.Float64("total_score", result.TotalScore),
		zap.Int("matched", result.Assignment.MatchedCount()),
	)
}

func handleAction(ctx context.Context, action string, logger *zap.Logger, config *Config, store *profile.Store, assignment *matching.Assignment) error {
	switch action {
	case PromptSendEmails:
		if err := sendEmails(ctx, logger, config, store, assignment, false); err != nil {
			return err
		}
		return errExit
	case PromptDryRun:
		return sendEmails(ctx, logger, config, store, assignment, true)
	case PromptShowPairs:
		pretty, _ := json.MarshalIndent(assignment.Pairs(), "", "  ")
		logger.Info(string(pretty), zap.Int("pairs count", assignment.MatchedCount()))
		return nil
	case PromptDumpToFile:
		filename, err := assignment.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump assignment to file: %w", err)
		}
		logger.Info("dumping assignment to file", zap.String("filename", filename))
		return nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// sendEmails renders both sides of every matched pair and hands them to the
// selected sender. Dry runs log the rendered messages instead of delivering.
func sendEmails(ctx context.Context, logger *zap.Logger, config *Config, store *profile.Store, assignment *matching.Assignment, dryRun bool) error {
	emailCfg := &EmailConfig{}
	if config != nil && config.Email != nil {
		emailCfg = config.Email
	}

	composer := &email.Composer{
		Program:   emailCfg.Program,
		Signature: emailCfg.Signature,
		Subject:   emailCfg.Subject,
	}

	messages := make([]email.Message, 0, assignment.MatchedCount()*2)
	for _, pair := range assignment.Pairs() {
		mentor := store.MentorByEmail(pair.Mentor)
		mentee := store.MenteeByEmail(pair.Mentee)
		if mentor == nil || mentee == nil {
			return fmt.Errorf("assignment references unknown profile: %s / %s", pair.Mentor, pair.Mentee)
		}

		mentorMsg, menteeMsg, err := composer.ComposePair(mentor, mentee)
		if err != nil {
			return err
		}
		messages = append(messages, mentorMsg, menteeMsg)
	}

	sender, err := buildSender(logger, emailCfg, dryRun)
	if err != nil {
		return err
	}

	sent, failed := email.Deliver(ctx, sender, messages, logger)
	logger.Info("delivery finished",
		zap.Bool("dry_run", dryRun),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return nil
}

func buildSender(logger *zap.Logger, emailCfg *EmailConfig, dryRun bool) (email.Sender, error) {
	if dryRun {
		return &email.DryRunSender{Logger: logger}, nil
	}

	if emailCfg.SMTP == nil {
		return nil, errors.New("email.smtp configuration is required to send emails")
	}

	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: emailCfg.PasswordFile,
		Env:  "MENTOR_MATCH_SMTP_PASSWORD",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set email.password-file or MENTOR_MATCH_SMTP_PASSWORD)", err)
	}

	smtpCfg := *emailCfg.SMTP
	smtpCfg.Password = password

	return email.NewSMTPSender(smtpCfg)
}
