package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/cli"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/repository/memory"
	"github.com/secmon-lab/formgate/pkg/usecase"
	"github.com/secmon-lab/formgate/pkg/utils/async"
)

func TestExportForms(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	uc := usecase.New(memory.New(), usecase.WithClock(func() time.Time { return now }))

	newForm := func(title string) *model.Form {
		form, err := uc.Form.ImportForm(ctx, "owner-1", model.FormInput{
			Title:  title,
			Fields: []model.FieldInput{{ID: "name", Label: "Name", Type: types.FieldTypeText}},
		}, true)
		gt.NoError(t, err).Required()
		return form
	}

	answered := newForm("Answered")
	empty := newForm("Empty")
	_, err := uc.Submission.Submit(ctx, answered.Token, model.RawInput{"name": "Alice"})
	gt.NoError(t, err).Required()
	async.Wait()

	t.Run("all forms of the owner", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, cli.ExportFormsForTest(ctx, uc, "owner-1", types.ExportFormatCSV, dir, nil)).Required()

		data, err := os.ReadFile(filepath.Join(dir, answered.ID, "Answered_export_2024-05-01.csv"))
		gt.NoError(t, err).Required()
		gt.B(t, strings.Contains(string(data), `"Alice"`)).True()

		_, err = os.Stat(filepath.Join(dir, empty.ID))
		gt.B(t, os.IsNotExist(err)).True()
	})

	t.Run("unknown form fails", func(t *testing.T) {
		err := cli.ExportFormsForTest(ctx, uc, "owner-1", types.ExportFormatCSV, t.TempDir(), []string{"missing"})
		gt.Error(t, err).Is(usecase.ErrFormNotFound)
	})

	t.Run("pdf is not implemented", func(t *testing.T) {
		err := cli.ExportFormsForTest(ctx, uc, "owner-1", types.ExportFormatPDF, t.TempDir(), []string{answered.ID})
		gt.Error(t, err).Is(model.ErrNotImplemented)
	})
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	gt.NoError(t, os.WriteFile(path, []byte("FORMGATE_TEST_FROM_DOTENV=loaded\n"), 0o600)).Required()
	t.Setenv("FORMGATE_TEST_FROM_DOTENV", "")
	gt.NoError(t, os.Unsetenv("FORMGATE_TEST_FROM_DOTENV"))

	gt.NoError(t, cli.LoadEnvFileForTest([]string{"formgate", "--env-file", path, "serve"})).Required()
	gt.V(t, os.Getenv("FORMGATE_TEST_FROM_DOTENV")).Equal("loaded")

	err := cli.LoadEnvFileForTest([]string{"formgate", "--env-file=" + filepath.Join(t.TempDir(), "missing.env")})
	gt.Error(t, err)
}
