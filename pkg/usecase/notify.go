package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/scoring"
	"github.com/secmon-lab/conformity/pkg/service/slack"
	"github.com/secmon-lab/conformity/pkg/utils/async"
	"github.com/secmon-lab/conformity/pkg/utils/errutil"
	"github.com/secmon-lab/conformity/pkg/utils/logging"
	goslack "github.com/slack-go/slack"
)

// notifier posts assessment summaries to Slack. A nil notifier or one
// without a service is a no-op.
type notifier struct {
	slackService slack.Service
	channelID    string
	baseURL      string
}

func newNotifier(service slack.Service, channelID, baseURL string) *notifier {
	if service == nil || channelID == "" {
		return nil
	}
	return &notifier{
		slackService: service,
		channelID:    channelID,
		baseURL:      baseURL,
	}
}

// assessmentCompleted posts the summary in the background (best-effort)
func (n *notifier) assessmentCompleted(ctx context.Context, assessment *model.Assessment, eval *scoring.Evaluation) {
	if n == nil {
		return
	}

	assessmentURL := ""
	if n.baseURL != "" {
		assessmentURL = fmt.Sprintf("%s/assessments/%d", strings.TrimRight(n.baseURL, "/"), assessment.ID)
	}
	blocks := buildAssessmentSummaryBlocks(assessment, eval, assessmentURL)
	fallbackText := fmt.Sprintf("Assessment completed: %s (%s) scored %d", assessment.OrganizationName, assessment.FrameworkType, assessment.OverallScore)

	async.Dispatch(ctx, func(ctx context.Context) error {
		ts, err := n.slackService.PostMessage(ctx, n.channelID, blocks, fallbackText)
		if err != nil {
			return errutil.Handle(ctx, err, "failed to post assessment summary to Slack")
		}
		logging.From(ctx).Info("Assessment summary posted",
			"assessment_id", assessment.ID,
			"channel_id", n.channelID,
			"ts", ts,
		)
		return nil
	})
}

// buildAssessmentSummaryBlocks constructs Block Kit blocks for a completed assessment
func buildAssessmentSummaryBlocks(assessment *model.Assessment, eval *scoring.Evaluation, assessmentURL string) []goslack.Block {
	blocks := []goslack.Block{
		goslack.NewHeaderBlock(
			goslack.NewTextBlockObject(goslack.PlainTextType, "Assessment completed: "+assessment.OrganizationName, true, false),
		),
	}

	fields := []*goslack.TextBlockObject{
		goslack.NewTextBlockObject(goslack.MarkdownType, "*Framework*\n"+assessment.FrameworkType, false, false),
		goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*Overall score*\n%d / 100", assessment.OverallScore), false, false),
	}
	if eval.PenaltyExposure != nil {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType,
			"*Penalty exposure*\n"+eval.PenaltyExposure.FormattedExposure, false, false))
	}
	if eval.CriminalLiability != nil {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType,
			fmt.Sprintf("*Criminal liability*\n%d%%", eval.CriminalLiability.Probability), false, false))
	}
	blocks = append(blocks, goslack.NewSectionBlock(nil, fields, nil))

	if eval.CriminalLiability != nil && len(eval.CriminalLiability.RiskFactors) > 0 {
		lines := make([]string, len(eval.CriminalLiability.RiskFactors))
		for i, factor := range eval.CriminalLiability.RiskFactors {
			lines[i] = "• " + factor
		}
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, strings.Join(lines, "\n"), false, false),
			nil, nil,
		))
	}

	contextParts := []string{fmt.Sprintf("Assessment #%d", assessment.ID)}
	if assessmentURL != "" {
		contextParts = append(contextParts, fmt.Sprintf(":link: <%s|Open>", assessmentURL))
	}
	blocks = append(blocks, goslack.NewContextBlock("",
		goslack.NewTextBlockObject(goslack.MarkdownType, strings.Join(contextParts, "  |  "), false, false),
	))

	return blocks
}
