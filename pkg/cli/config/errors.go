package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidCatalog       = goerr.New("invalid catalog")
	ErrDuplicateFramework   = goerr.New("duplicate framework name")
	ErrDuplicateQuestionID  = goerr.New("duplicate question ID")
	ErrMissingName          = goerr.New("name is required")
	ErrInvalidScorer        = goerr.New("invalid scorer kind")
	ErrInvalidRiskLevel     = goerr.New("invalid risk level")
	ErrInvalidRegulator     = goerr.New("invalid regulatory body")
	ErrInvalidPenalty       = goerr.New("max penalty must not be negative")
	ErrMissingGroup         = goerr.New("question requires a category or an article")
	ErrUnsupportedFormat    = goerr.New("unsupported file format")
	ErrInvalidResponseValue = goerr.New("invalid response value")
)

// Context keys for error values
const (
	CatalogPathKey = "catalog_path"
	FrameworkKey   = "framework"
	QuestionIDKey  = "question_id"
	QuestionIdxKey = "question_index"
	ScorerKey      = "scorer"
	FilePathKey    = "file_path"
)
