package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"asreval/internal/evaluation"
	"asreval/internal/report"
)

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Compute WER of the predictions against the reference transcripts",
		Long: "Compute overall WER, WER per environment, noise type (or speaking rate) and speaker,\n" +
			"and list the clips with the largest errors. Inputs and schema come from the configuration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, logger, err := ctx.runContext(cmd)
			if err != nil {
				return err
			}

			eval, err := evaluation.Run(cfg, logger)
			out := cmd.OutOrStdout()
			opts := report.Options{Color: stdoutIsTerminal(cmd)}
			if errors.Is(err, evaluation.ErrNoMatches) {
				return report.NoMatches(out, cfg.Evaluation.Schema, eval, opts)
			}
			if err != nil {
				return err
			}
			return report.Write(out, eval, opts)
		},
	}
}

// stdoutIsTerminal reports whether the command writes to an interactive
// terminal; redirected or captured output gets no colour.
func stdoutIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && report.ColorEnabled(f)
}
