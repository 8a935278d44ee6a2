package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/cli/config"
	"github.com/secmon-lab/conformity/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a framework catalog",
		Flags:   catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			frameworks, err := catalogCfg.Configure(logging.With(ctx, logger))
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			logger.Info("Catalog validation passed",
				"catalog", catalogCfg,
				"framework_count", len(frameworks),
			)
			for _, fw := range frameworks {
				logger.Info("Framework validated",
					"name", fw.Name,
					"version", fw.Version,
					"question_count", len(fw.Questions),
					"scorers", fw.Scorers,
				)
			}
			return nil
		},
	}
}
