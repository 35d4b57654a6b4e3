package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/cli/config"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the index changes without applying them",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore composite indexes used by formgate",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if repoCfg.ProjectID() == "" {
				return goerr.Wrap(config.ErrInvalidConfig, "--firestore-project-id is required for migrate")
			}

			client, err := fireconf.NewClient(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID())
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logging.Default().Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			return migrateIndexes(ctx, client, indexConfig(repoCfg.CollectionPrefix()), dryRun)
		},
	}
}

func migrateIndexes(ctx context.Context, client *fireconf.Client, cfg *fireconf.Config, dryRun bool) error {
	logger := logging.Default().With("dry_run", dryRun)

	if !dryRun {
		if err := client.Migrate(ctx, cfg); err != nil {
			return goerr.Wrap(err, "failed to apply index migration")
		}
		logger.Info("Indexes are up to date")
		return nil
	}

	plan, err := client.GetMigrationPlan(ctx, cfg)
	if err != nil {
		return goerr.Wrap(err, "failed to create migration plan")
	}
	if len(plan.Steps) == 0 {
		logger.Info("Indexes are up to date")
		return nil
	}
	for _, step := range plan.Steps {
		logger.Info("Planned index change",
			"collection", step.Collection,
			"operation", step.Operation,
			"description", step.Description,
			"destructive", step.Destructive)
	}
	return nil
}

// indexConfig lists the composite indexes the Firestore repository queries
// need. Paths are document field names. Submissions are only ordered by
// SubmittedAt inside their own subcollection, which the automatic
// single-field index serves.
func indexConfig(collectionPrefix string) *fireconf.Config {
	forms := "forms"
	if collectionPrefix != "" {
		forms = collectionPrefix + "_forms"
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: forms,
				Indexes: []fireconf.Index{
					// ListByOwner
					{
						Fields: []fireconf.IndexField{
							{Path: "OwnerID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
						},
					},
				},
			},
		},
	}
}
