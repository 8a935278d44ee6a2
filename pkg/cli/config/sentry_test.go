package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/conformity/pkg/cli/config"
)

func TestSentryConfigure_WithoutDSN(t *testing.T) {
	var cfg config.Sentry
	closer, err := cfg.Configure("dev")
	gt.NoError(t, err).Required()
	gt.Value(t, closer).NotNil()
	closer()
}
