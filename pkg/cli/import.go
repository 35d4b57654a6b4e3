package cli

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/cli/config"
	"github.com/secmon-lab/formgate/pkg/usecase"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var repoCfg config.Repository
	var ownerID string
	var publish bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Owner ID of the imported form",
			Required:    true,
			Sources:     cli.EnvVars("FORMGATE_OWNER"),
			Destination: &ownerID,
		},
		&cli.BoolFlag{
			Name:        "publish",
			Usage:       "Publish the form right after import",
			Destination: &publish,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:      "import",
		Aliases:   []string{"i"},
		Usage:     "Create a form from a schema file",
		ArgsUsage: "<schema file>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if c.Args().Len() != 1 {
				return goerr.New("exactly one schema file is required", goerr.V("args", c.Args().Len()))
			}
			path := c.Args().First()

			input, err := config.LoadFormSchema(path)
			if err != nil {
				return err
			}
			if errs := config.ValidateFormSchema(input); len(errs) > 0 {
				for _, e := range errs {
					logger.Warn("Schema defect found", "path", path, "error", e.Error())
				}
				return goerr.Wrap(errors.Join(errs...), "schema is invalid", goerr.V(config.SchemaPathKey, path))
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			form, err := uc.Form.ImportForm(ctx, ownerID, *input, publish)
			if err != nil {
				return goerr.Wrap(err, "failed to import form", goerr.V(config.SchemaPathKey, path))
			}

			logger.Info("Form imported",
				"id", form.ID,
				"token", form.Token,
				"status", form.Status,
				"fields", len(form.Fields),
			)
			return nil
		},
	}
}
