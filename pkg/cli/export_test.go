package cli

import (
	"context"

	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/usecase"
)

// ExportFormsForTest runs the export command logic against the given use cases
func ExportFormsForTest(ctx context.Context, uc *usecase.UseCases, ownerID string, format types.ExportFormat, outputDir string, formIDs []string) error {
	x := &formExporter{
		uc:        uc,
		ownerID:   ownerID,
		format:    format,
		outputDir: outputDir,
		parallel:  2,
	}
	return x.run(ctx, formIDs)
}

var LoadEnvFileForTest = loadEnvFile

var IndexConfigForTest = indexConfig
