package config

import (
	"context"
	_ "embed"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"github.com/secmon-lab/conformity/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

// CatalogFile is the TOML representation of a framework catalog
type CatalogFile struct {
	Frameworks []FrameworkEntry `toml:"framework"`
}

// FrameworkEntry represents one framework of the catalog
type FrameworkEntry struct {
	Name        string          `toml:"name"`
	Description string          `toml:"description"`
	Version     string          `toml:"version"`
	Scorers     []string        `toml:"scorers"`
	Questions   []QuestionEntry `toml:"question"`
}

// QuestionEntry represents one questionnaire item
type QuestionEntry struct {
	ID              string  `toml:"id"`
	Category        string  `toml:"category"`
	Article         string  `toml:"article"`
	Text            string  `toml:"text"`
	Reference       string  `toml:"reference"`
	RiskLevel       string  `toml:"risk_level"`
	MaxPenalty      float64 `toml:"max_penalty"`
	HasCriminalRisk bool    `toml:"has_criminal_risk"`
	RegulatoryBody  string  `toml:"regulatory_body"`
}

// Validate checks if the QuestionEntry is valid
func (q *QuestionEntry) Validate() error {
	if q.ID == "" {
		return goerr.Wrap(ErrMissingName, "question ID is required")
	}
	if q.Category == "" && q.Article == "" {
		return goerr.Wrap(ErrMissingGroup, "invalid question", goerr.V(QuestionIDKey, q.ID))
	}
	if q.RiskLevel != "" && !types.RiskLevel(q.RiskLevel).IsValid() {
		return goerr.Wrap(ErrInvalidRiskLevel, "invalid question",
			goerr.V(QuestionIDKey, q.ID),
			goerr.V("risk_level", q.RiskLevel))
	}
	if q.RegulatoryBody != "" && !types.RegulatoryBody(q.RegulatoryBody).IsValid() {
		return goerr.Wrap(ErrInvalidRegulator, "invalid question",
			goerr.V(QuestionIDKey, q.ID),
			goerr.V("regulatory_body", q.RegulatoryBody))
	}
	if q.MaxPenalty < 0 {
		return goerr.Wrap(ErrInvalidPenalty, "invalid question",
			goerr.V(QuestionIDKey, q.ID),
			goerr.V("max_penalty", q.MaxPenalty))
	}
	return nil
}

// Validate checks if the FrameworkEntry is valid
func (f *FrameworkEntry) Validate() error {
	if f.Name == "" {
		return goerr.Wrap(ErrMissingName, "framework name is required")
	}
	for _, s := range f.Scorers {
		if !types.ScorerKind(s).IsValid() {
			return goerr.Wrap(ErrInvalidScorer, "invalid framework",
				goerr.V(FrameworkKey, f.Name),
				goerr.V(ScorerKey, s))
		}
	}

	ids := make(map[string]bool, len(f.Questions))
	for i := range f.Questions {
		q := &f.Questions[i]
		if err := q.Validate(); err != nil {
			return goerr.Wrap(err, "invalid question",
				goerr.V(FrameworkKey, f.Name),
				goerr.V(QuestionIdxKey, i))
		}
		if ids[q.ID] {
			return goerr.Wrap(ErrDuplicateQuestionID, "invalid framework",
				goerr.V(FrameworkKey, f.Name),
				goerr.V(QuestionIDKey, q.ID))
		}
		ids[q.ID] = true
	}
	return nil
}

// Validate checks if the CatalogFile is valid
func (c *CatalogFile) Validate() error {
	if len(c.Frameworks) == 0 {
		return goerr.Wrap(ErrInvalidCatalog, "catalog has no framework")
	}

	names := make(map[string]bool, len(c.Frameworks))
	for i := range c.Frameworks {
		fw := &c.Frameworks[i]
		if err := fw.Validate(); err != nil {
			return err
		}
		if names[fw.Name] {
			return goerr.Wrap(ErrDuplicateFramework, "invalid catalog", goerr.V(FrameworkKey, fw.Name))
		}
		names[fw.Name] = true
	}
	return nil
}

// ToFrameworks converts the catalog into domain frameworks. The scorer set
// defaults to the generic scorer when a framework declares none.
func (c *CatalogFile) ToFrameworks() []*model.Framework {
	frameworks := make([]*model.Framework, len(c.Frameworks))
	for i, entry := range c.Frameworks {
		scorers := make([]types.ScorerKind, 0, len(entry.Scorers))
		for _, s := range entry.Scorers {
			scorers = append(scorers, types.ScorerKind(s))
		}
		if len(scorers) == 0 {
			scorers = append(scorers, types.ScorerGeneric)
		}

		questions := make([]model.Question, len(entry.Questions))
		for j, q := range entry.Questions {
			questions[j] = model.Question{
				ID:              q.ID,
				Category:        q.Category,
				Article:         q.Article,
				Text:            q.Text,
				Reference:       q.Reference,
				RiskLevel:       types.RiskLevel(q.RiskLevel),
				MaxPenalty:      q.MaxPenalty,
				HasCriminalRisk: q.HasCriminalRisk,
				RegulatoryBody:  types.RegulatoryBody(q.RegulatoryBody),
			}
		}

		frameworks[i] = &model.Framework{
			Name:        entry.Name,
			Description: entry.Description,
			Version:     entry.Version,
			Questions:   questions,
			Scorers:     scorers,
		}
	}
	return frameworks
}

// ParseCatalog decodes and validates a TOML catalog
func ParseCatalog(data []byte) (*CatalogFile, error) {
	var catalog CatalogFile
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(ErrInvalidCatalog, "failed to parse TOML catalog", goerr.V("error", err.Error()))
	}
	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed")
	}
	return &catalog, nil
}

// Catalog holds CLI flags for the framework catalog
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to a framework catalog TOML file (built-in catalog when omitted)",
			Category:    "Catalog",
			Sources:     cli.EnvVars("CONFORMITY_CATALOG"),
			Destination: &c.path,
		},
	}
}

func (c Catalog) LogValue() slog.Value {
	path := c.path
	if path == "" {
		path = "(built-in)"
	}
	return slog.GroupValue(slog.String("path", path))
}

// Configure loads the catalog from the configured path, or the built-in one
func (c *Catalog) Configure(ctx context.Context) ([]*model.Framework, error) {
	data := defaultCatalog
	if c.path != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		raw, err := os.ReadFile(c.path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(CatalogPathKey, c.path))
		}
		data = raw
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load catalog", goerr.V(CatalogPathKey, c.path))
	}

	frameworks := catalog.ToFrameworks()
	logging.From(ctx).Debug("Catalog loaded", "catalog", c, "frameworks", len(frameworks))
	return frameworks, nil
}
