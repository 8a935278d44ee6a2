package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/cli/config"
	"github.com/secmon-lab/conformity/pkg/domain/scoring"
	"github.com/secmon-lab/conformity/pkg/repository/memory"
	"github.com/secmon-lab/conformity/pkg/usecase"
	"github.com/secmon-lab/conformity/pkg/utils/logging"
	"github.com/secmon-lab/conformity/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdScore() *cli.Command {
	var catalogCfg config.Catalog
	var framework string
	var responsesPath string
	var format string
	var output string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "framework",
			Aliases:     []string{"f"},
			Usage:       "Framework name to score against",
			Required:    true,
			Destination: &framework,
		},
		&cli.StringFlag{
			Name:        "responses",
			Aliases:     []string{"r"},
			Usage:       "Responses file (JSON, YAML or TOML map of question ID to response)",
			Required:    true,
			Destination: &responsesPath,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Output format (text, json)",
			Value:       "text",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file (stdout when omitted)",
			Destination: &output,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:  "score",
		Usage: "Score a responses file against a framework without starting the server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = logging.With(ctx, logging.Default())

			if format != "text" && format != "json" {
				return goerr.New("invalid output format", goerr.V("format", format))
			}

			frameworks, err := catalogCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load framework catalog")
			}

			responses, err := config.LoadResponses(responsesPath)
			if err != nil {
				return err
			}

			uc := usecase.New(memory.New())
			if _, err := uc.Framework.Seed(ctx, frameworks); err != nil {
				return goerr.Wrap(err, "failed to seed frameworks")
			}

			eval, err := uc.Framework.Score(ctx, framework, responses)
			if err != nil {
				return goerr.Wrap(err, "failed to score responses", goerr.V("framework", framework))
			}

			var w io.Writer = os.Stdout
			if output != "" {
				// #nosec G304 - path is expected to be provided by CLI argument
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer safe.Close(ctx, f)
				w = f
			}

			if format == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(eval); err != nil {
					return goerr.Wrap(err, "failed to write evaluation")
				}
				return nil
			}

			printEvaluation(w, eval)
			return nil
		},
	}
}

// scoreColor picks a color for a 0-100 score where higher is better
func scoreColor(score float64) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen)
	case score >= 50:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printEvaluation(w io.Writer, eval *scoring.Evaluation) {
	bold := color.New(color.Bold)

	_, _ = bold.Fprintf(w, "%s\n", eval.Framework)
	_, _ = fmt.Fprintf(w, "  Overall score: %s\n", scoreColor(float64(eval.OverallScore)).Sprintf("%d", eval.OverallScore))
	_, _ = fmt.Fprintf(w, "  Completion:    %.1f%% (%d/%d)\n", eval.Completion, eval.Answered, eval.TotalQuestions)

	if r := eval.ExportLiability; r != nil {
		bonus := ""
		if r.HasBonus {
			bonus = " (completion bonus)"
		}
		_, _ = bold.Fprintln(w, "\nExport Liability Index")
		_, _ = fmt.Fprintf(w, "  Score:          %s%s\n", scoreColor(r.Score).Sprintf("%.1f", r.Score), bonus)
		_, _ = fmt.Fprintf(w, "  Critical risks: %d\n", r.CriticalRisks)
	}

	if r := eval.PenaltyExposure; r != nil {
		_, _ = bold.Fprintln(w, "\nPenalty Exposure")
		exposure := color.New(color.FgGreen).Sprint(r.FormattedExposure)
		if r.NonCompliantCount > 0 {
			exposure = color.New(color.FgRed).Sprint(r.FormattedExposure)
		}
		_, _ = fmt.Fprintf(w, "  Total:          %s (%d non-compliant)\n", exposure, r.NonCompliantCount)
	}

	if r := eval.CriminalLiability; r != nil {
		_, _ = bold.Fprintln(w, "\nCriminal Liability")
		_, _ = fmt.Fprintf(w, "  Probability:    %s\n", scoreColor(float64(100-r.Probability)).Sprintf("%d%%", r.Probability))
		for _, factor := range r.RiskFactors {
			_, _ = fmt.Fprintf(w, "  - %s\n", factor)
		}
	}

	if r := eval.Generic; r != nil {
		_, _ = bold.Fprintln(w, "\nCompliance Score")
		_, _ = fmt.Fprintf(w, "  Overall:        %s\n", scoreColor(r.OverallScore).Sprintf("%.1f", r.OverallScore))
	}

	if len(eval.Radar) > 0 {
		_, _ = bold.Fprintln(w, "\nCategory Scores")
		width := 0
		for _, c := range eval.Radar {
			width = max(width, len(c.Category))
		}
		for _, c := range eval.Radar {
			pad := strings.Repeat(" ", width-len(c.Category))
			_, _ = fmt.Fprintf(w, "  %s%s  %s\n", c.Category, pad, scoreColor(float64(c.Score)).Sprintf("%3d", c.Score))
		}
	}
}
