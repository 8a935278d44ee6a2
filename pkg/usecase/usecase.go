package usecase

import (
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/service/slack"
)

type UseCases struct {
	repo           interfaces.Repository
	slackService   slack.Service
	slackChannelID string
	baseURL        string

	Framework  *FrameworkUseCase
	Assessment *AssessmentUseCase
	ActionItem *ActionItemUseCase
	Dashboard  *DashboardUseCase
	Report     *ReportUseCase
}

type Option func(*UseCases)

// WithSlack enables completion notifications to the given channel
func WithSlack(service slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = service
		uc.slackChannelID = channelID
	}
}

// WithBaseURL sets the public URL used for links in notifications
func WithBaseURL(baseURL string) Option {
	return func(uc *UseCases) {
		uc.baseURL = baseURL
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Framework = NewFrameworkUseCase(repo)
	uc.Assessment = NewAssessmentUseCase(repo, uc.slackService, uc.slackChannelID, uc.baseURL)
	uc.ActionItem = NewActionItemUseCase(repo)
	uc.Dashboard = NewDashboardUseCase(repo)
	uc.Report = NewReportUseCase(repo)

	return uc
}
