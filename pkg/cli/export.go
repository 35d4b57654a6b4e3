package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/cli/config"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/usecase"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdExport() *cli.Command {
	var repoCfg config.Repository
	var ownerID string
	var format string
	var outputDir string
	var parallel int

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Owner ID of the forms to export",
			Required:    true,
			Sources:     cli.EnvVars("FORMGATE_OWNER"),
			Destination: &ownerID,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Export format",
			Value:       types.ExportFormatCSV.String(),
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory to write export files to",
			Value:       ".",
			Destination: &outputDir,
		},
		&cli.IntFlag{
			Name:        "parallel",
			Usage:       "Number of forms exported concurrently",
			Value:       4,
			Destination: &parallel,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:      "export",
		Aliases:   []string{"e"},
		Usage:     "Export submissions of forms to files; all forms of the owner when no ID is given",
		ArgsUsage: "[form ID]...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			exporter := &formExporter{
				uc:        usecase.New(repo),
				ownerID:   ownerID,
				format:    types.ParseExportFormat(format),
				outputDir: outputDir,
				parallel:  parallel,
			}
			return exporter.run(ctx, c.Args().Slice())
		},
	}
}

type formExporter struct {
	uc        *usecase.UseCases
	ownerID   string
	format    types.ExportFormat
	outputDir string
	parallel  int
}

// run exports every form into <outputDir>/<form ID>/<file name>. Forms
// without submissions are skipped.
func (x *formExporter) run(ctx context.Context, formIDs []string) error {
	logger := logging.Default()

	if len(formIDs) == 0 {
		forms, err := x.uc.Form.ListForms(ctx, x.ownerID)
		if err != nil {
			return goerr.Wrap(err, "failed to list forms")
		}
		for _, form := range forms {
			formIDs = append(formIDs, form.ID)
		}
	}
	if len(formIDs) == 0 {
		logger.Info("No forms to export", "owner_id", x.ownerID)
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	if x.parallel > 0 {
		eg.SetLimit(x.parallel)
	}

	for _, id := range formIDs {
		eg.Go(func() error {
			return x.exportForm(ctx, id)
		})
	}

	return eg.Wait()
}

func (x *formExporter) exportForm(ctx context.Context, formID string) error {
	logger := logging.Default().With("form_id", formID)

	file, err := x.uc.Report.ExportSubmissions(ctx, x.ownerID, formID, x.format)
	if err != nil {
		if errors.Is(err, usecase.ErrNoSubmissions) {
			logger.Warn("Form has no submissions, skipped")
			return nil
		}
		return goerr.Wrap(err, "failed to export form", goerr.V(usecase.FormIDKey, formID))
	}

	dir := filepath.Join(x.outputDir, formID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return goerr.Wrap(err, "failed to create export directory", goerr.V("dir", dir))
	}

	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Body, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write export file", goerr.V("path", path))
	}

	logger.Info("Form exported", "path", path, "bytes", len(file.Body))
	return nil
}
