package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// LoadResponses reads a flat question ID to response map from a JSON, YAML
// or TOML file. The format is chosen by file extension.
func LoadResponses(path string) (model.Responses, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read responses file", goerr.V(FilePathKey, path))
	}

	responses, err := ParseResponses(data, filepath.Ext(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load responses", goerr.V(FilePathKey, path))
	}
	return responses, nil
}

// ParseResponses decodes responses in the format named by ext
// (".json", ".yaml", ".yml" or ".toml")
func ParseResponses(data []byte, ext string) (model.Responses, error) {
	raw := map[string]string{}

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to parse JSON responses")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to parse YAML responses")
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to parse TOML responses")
		}
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "unknown responses format", goerr.V("extension", ext))
	}

	responses := make(model.Responses, len(raw))
	for id, value := range raw {
		status, err := types.ParseResponseStatus(value)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidResponseValue, "invalid response",
				goerr.V(QuestionIDKey, id),
				goerr.V("value", value))
		}
		responses[id] = status
	}
	return responses, nil
}
