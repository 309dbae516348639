package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"asreval/internal/deps"
	"asreval/internal/preflight"
	"asreval/internal/report"
)

type checkOutput struct {
	Dependencies []deps.Status      `json:"dependencies"`
	Paths        []preflight.Result `json:"paths"`
	Ready        bool               `json:"ready"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report external binaries and input/output paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result := checkOutput{
				Dependencies: preflight.CheckSystemDeps(cmd.Context(), cfg),
				Paths:        preflight.RunAll(cfg),
				Ready:        true,
			}
			for _, dep := range result.Dependencies {
				if !dep.Available && !dep.Optional {
					result.Ready = false
				}
			}
			if len(preflight.Failed(result.Paths)) > 0 {
				result.Ready = false
			}

			if asJSON {
				return writeJSON(cmd, result)
			}

			color := stdoutIsTerminal(cmd)
			depRows := make([][]string, 0, len(result.Dependencies))
			for _, dep := range result.Dependencies {
				detail := dep.Detail
				if detail == "" {
					detail = dep.Path
					if dep.Version != "" {
						detail += " (" + dep.Version + ")"
					}
				}
				depRows = append(depRows, []string{dep.Name, dep.Command, yesNo(dep.Available), detail})
			}
			pathRows := make([][]string, 0, len(result.Paths))
			for _, p := range result.Paths {
				pathRows = append(pathRows, []string{p.Name, yesNo(p.Passed), p.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Dependencies:")
			depColumns := []report.Column{report.Left("Name"), report.Left("Command"), report.Left("Available"), report.Left("Detail")}
			fmt.Fprintln(out, report.Table(depColumns, depRows, color))
			fmt.Fprintln(out, "\nPaths:")
			pathColumns := []report.Column{report.Left("Check"), report.Left("OK"), report.Left("Detail")}
			fmt.Fprintln(out, report.Table(pathColumns, pathRows, color))
			if result.Ready {
				fmt.Fprintln(out, "\nReady to transcribe and evaluate")
			} else {
				fmt.Fprintln(out, "\nSome checks failed; see the tables above")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	return cmd
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
