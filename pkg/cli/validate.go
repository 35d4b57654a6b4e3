package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/cli/config"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

var errSchemaDefects = errors.New("schema validation failed")

func cmdValidate() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate form schema files (TOML or YAML)",
		ArgsUsage: "<schema file>...",
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("at least one schema file is required")
			}

			defects := 0
			for _, path := range paths {
				input, err := config.LoadFormSchema(path)
				if err != nil {
					defects++
					logger.Error("Schema file could not be loaded", "path", path, logging.ErrAttr(err))
					continue
				}

				errs := config.ValidateFormSchema(input)
				for _, err := range errs {
					attrs := []any{"path", path, "error", err.Error()}
					var ge *goerr.Error
					if errors.As(err, &ge) {
						attrs = append(attrs, "values", ge.Values())
					}
					logger.Warn("Schema defect found", attrs...)
				}
				if len(errs) > 0 {
					defects += len(errs)
					continue
				}

				logger.Info("Schema validated",
					"path", path,
					"title", input.Title,
					"field_count", len(input.Fields),
				)
			}

			if defects > 0 {
				return goerr.Wrap(errSchemaDefects, fmt.Sprintf("found %d defect(s)", defects),
					goerr.V("files", len(paths)))
			}
			return nil
		},
	}
}
