package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"asreval/internal/config"
	"asreval/internal/evaluation"
)

const clipRule = 70

// Options controls console rendering.
type Options struct {
	Color bool
}

// ColorEnabled reports whether f is an interactive terminal.
func ColorEnabled(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NoMatches writes the load summary of eval, when there is one, followed by
// the notice printed when no record could be evaluated.
func NoMatches(w io.Writer, schema string, eval *evaluation.Evaluation, opts Options) error {
	var b strings.Builder
	if eval != nil {
		writeLoadSummary(&b, eval, opts)
	}
	switch schema {
	case config.SchemaCombined:
		b.WriteString("No rows with a reference transcript found in predictions_with_ref.csv\n")
	default:
		b.WriteString("No matching rows found between correct_transcript.csv and predictions_raw.csv\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Write renders eval as the console report.
func Write(w io.Writer, eval *evaluation.Evaluation, opts Options) error {
	var b strings.Builder
	writeLoadSummary(&b, eval, opts)

	fmt.Fprintf(&b, "\nOverall WER: %s\n", formatWER(eval.Overall))

	writeGroups(&b, "WER by environment:", "Environment", eval.Environments, opts)
	writeGroups(&b, fmt.Sprintf("WER by %s:", conditionLabel(eval.Schema)), conditionColumn(eval.Schema), eval.Conditions, opts)

	speakerTitle := "WER by speaker:"
	if eval.SpeakerGroups > len(eval.Speakers) {
		speakerTitle = fmt.Sprintf("WER by speaker (top %d worst):", len(eval.Speakers))
	}
	writeGroups(&b, speakerTitle, "Speaker", eval.Speakers, opts)

	fmt.Fprintf(&b, "\nTop %d clips with largest errors:\n", len(eval.WorstClips))
	for _, clip := range eval.WorstClips {
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", clipRule))
		b.WriteString("\n")
		fmt.Fprintf(&b, "File: %s\n", clip.FileName)
		fmt.Fprintf(&b, "Environment: %s | %s: %s | Speaker: %s\n",
			clip.Environment, conditionShort(eval.Schema), clip.Condition, clip.Speaker)
		fmt.Fprintf(&b, "WER: %s\n", paint(opts, werColor(clip.WER), formatWER(clip.WER)))
		fmt.Fprintf(&b, "REF: %s\n", clip.Reference)
		fmt.Fprintf(&b, "HYP: %s\n", clip.Hypothesis)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeLoadSummary(b *strings.Builder, eval *evaluation.Evaluation, opts Options) {
	if eval.Schema == config.SchemaCombined {
		fmt.Fprintf(b, "Loaded %d reference/prediction pairs\n", len(eval.Records))
	} else {
		fmt.Fprintf(b, "Loaded %d ground truth transcripts\n", eval.GroundTruth)
		fmt.Fprintf(b, "Matched %d predictions with ground truth\n", len(eval.Records))
	}
	if n := len(eval.Unmatched); n > 0 {
		b.WriteString(paint(opts, text.FgYellow, fmt.Sprintf("Warning: %d predictions could not be matched", n)))
		b.WriteByte('\n')
	}
	if eval.Skipped > 0 {
		fmt.Fprintf(b, "Skipped %d blank or malformed rows\n", eval.Skipped)
	}
}

func writeGroups(b *strings.Builder, title, column string, groups []evaluation.GroupStat, opts Options) {
	fmt.Fprintf(b, "\n%s\n", title)
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Key, formatWER(g.WER), strconv.Itoa(g.Count)})
	}
	b.WriteString(Table([]Column{Left(column), Right("WER"), Right("n")}, rows, opts.Color))
	b.WriteByte('\n')
}

func formatWER(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func conditionLabel(schema string) string {
	if schema == config.SchemaCombined {
		return "speaking rate"
	}
	return "noise type"
}

func conditionColumn(schema string) string {
	if schema == config.SchemaCombined {
		return "Rate"
	}
	return "Noise type"
}

func conditionShort(schema string) string {
	if schema == config.SchemaCombined {
		return "Rate"
	}
	return "Noise"
}

func werColor(v float64) text.Color {
	switch {
	case v >= 0.5:
		return text.FgRed
	case v > 0:
		return text.FgYellow
	default:
		return text.FgGreen
	}
}

func paint(opts Options, c text.Color, s string) string {
	if !opts.Color {
		return s
	}
	return c.Sprint(s)
}
