package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"github.com/secmon-lab/conformity/pkg/repository/memory"
	"github.com/secmon-lab/conformity/pkg/usecase"
	"github.com/slack-go/slack"
)

const (
	testExportControl = "Export Control"
	testGDPR          = "GDPR"
	testAIRMF         = "NIST AI-RMF"
)

func testFrameworks() []*model.Framework {
	return []*model.Framework{
		{
			Name:    testExportControl,
			Version: "2024.1",
			Scorers: []types.ScorerKind{
				types.ScorerExportLiability,
				types.ScorerPenaltyExposure,
				types.ScorerCriminalLiability,
			},
			Questions: []model.Question{
				{ID: "ec-1", Category: "Classification", Text: "Are items classified?", RiskLevel: types.RiskCritical, MaxPenalty: 1_000_000, HasCriminalRisk: true, RegulatoryBody: types.RegulatorBIS},
				{ID: "ec-2", Category: "Screening", Text: "Are parties screened?", RiskLevel: types.RiskHigh, MaxPenalty: 35_000_000, HasCriminalRisk: true, RegulatoryBody: types.RegulatorEU},
				{ID: "ec-3", Category: "Recordkeeping", Text: "Are records kept?", RiskLevel: types.RiskLow, MaxPenalty: 100_000, RegulatoryBody: types.RegulatorBIS},
			},
		},
		{
			Name: testGDPR,
			Questions: []model.Question{
				{ID: "gdpr-1", Article: "Art. 5", Text: "Is processing lawful?"},
				{ID: "gdpr-2", Article: "Art. 32", Text: "Is data secured?"},
			},
		},
		{
			Name: testAIRMF,
			Questions: []model.Question{
				{ID: "ai-1", Category: "Govern", Text: "Is there an AI policy?"},
			},
		},
	}
}

// setup returns use cases backed by a memory repository with the test
// frameworks seeded
func setup(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, context.Context) {
	t.Helper()
	ctx := context.Background()
	uc := usecase.New(memory.New(), opts...)

	n, err := uc.Framework.Seed(ctx, testFrameworks())
	gt.NoError(t, err).Required()
	gt.Value(t, n).Equal(3)

	return uc, ctx
}

// mockSlackService is a mock implementation of slack.Service for testing
type mockSlackService struct {
	postMessageFn func(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	mu    sync.Mutex
	posts []postedMessage
	sent  chan struct{}
}

type postedMessage struct {
	channelID string
	blocks    []slack.Block
	text      string
}

func newMockSlackService() *mockSlackService {
	return &mockSlackService{
		sent: make(chan struct{}, 10),
	}
}

func (m *mockSlackService) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	m.posts = append(m.posts, postedMessage{channelID: channelID, blocks: blocks, text: text})
	m.mu.Unlock()
	defer func() { m.sent <- struct{}{} }()

	if m.postMessageFn != nil {
		return m.postMessageFn(ctx, channelID, blocks, text)
	}
	return "1700000000.000100", nil
}

func (m *mockSlackService) messages() []postedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]postedMessage(nil), m.posts...)
}
