package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spigell/mentor-match/internal/evaluation"
	"github.com/spigell/mentor-match/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run every matching algorithm and rank the results",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().Bool("dump", false, "dump the report as JSON to a temporary file")
}

func evaluate(cmd *cobra.Command) {
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

	_, engine := setup(logger, config)

	results := engine.RunAll(ctx)
	report := evaluation.Evaluate(results, engine.Matrix())

	fmt.Print(report)

	if best, ok := report.Best(); ok {
		logger.Info("best strategy",
			zap.String("algorithm", best.Strategy),
			zap.Float64("total_score", best.TotalScore),
			zap.Int("blocking_pairs", best.BlockingPairs),
			zap.Int("unmatched", best.Unmatched),
		)
	} else {
		logger.Warn("every strategy failed")
	}

	if cmd.Flag("dump").Value.String() == "true" {
		filename, err := report.DumpToTmpFile()
		if err != nil {
			logger.Fatal("dumping the report to file", zap.Error(err))
		}
		logger.Info("dumping the report to file", zap.String("filename", filename))
	}
}
