package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/usecase"
	"github.com/secmon-lab/formgate/pkg/utils/async"
)

func TestReportUseCase_ExportSubmissions(t *testing.T) {
	t.Run("csv export", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		form := env.publishedForm(t)

		_, err := env.uc.Submission.Submit(ctx, form.Token, model.RawInput{"attending": "Yes", "guests": "2", "diet": []any{"None", "Vegan"}})
		gt.NoError(t, err).Required()
		_, err = env.uc.Submission.Submit(ctx, form.Token, model.RawInput{"attending": "No", "newsletter": true})
		gt.NoError(t, err).Required()

		file, err := env.uc.Report.ExportSubmissions(ctx, testOwnerID, form.ID, types.ExportFormatCSV)
		gt.NoError(t, err).Required()

		gt.V(t, file.Name).Equal("Party RSVP_export_2024-05-01.csv")
		gt.V(t, file.ContentType).Equal("text/csv")

		lines := strings.Split(strings.TrimPrefix(string(file.Body), "\ufeff"), "\n")
		gt.A(t, lines).Length(3)
		gt.V(t, lines[0]).Equal(`"Attending?";"Guests";"Diet";"Newsletter"`)
		gt.V(t, lines[1]).Equal(`"Yes";"2";"Vegan, None";"false"`)
		gt.V(t, lines[2]).Equal(`"No";"";"";"true"`)
	})

	t.Run("no submissions", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.publishedForm(t)

		_, err := env.uc.Report.ExportSubmissions(context.Background(), testOwnerID, form.ID, types.ExportFormatCSV)
		gt.Error(t, err).Is(usecase.ErrNoSubmissions)
	})

	t.Run("pdf is not implemented", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.publishedForm(t)

		_, err := env.uc.Report.ExportSubmissions(context.Background(), testOwnerID, form.ID, types.ExportFormatPDF)
		gt.Error(t, err).Is(model.ErrNotImplemented)
	})

	t.Run("unknown format", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.publishedForm(t)

		_, err := env.uc.Report.ExportSubmissions(context.Background(), testOwnerID, form.ID, "xml")
		gt.Error(t, err).Is(model.ErrUnsupportedExportFormat)
	})

	t.Run("other owner", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.publishedForm(t)

		_, err := env.uc.Report.ExportSubmissions(context.Background(), "intruder", form.ID, types.ExportFormatCSV)
		gt.Error(t, err).Is(usecase.ErrFormNotFound)
	})
}

// countOnlyRepository fails every submission listing, so a use case that
// decides from Count alone never touches List
type countOnlyRepository struct {
	interfaces.Repository
}

func (r *countOnlyRepository) Submission() interfaces.SubmissionRepository {
	return &countOnlySubmissions{SubmissionRepository: r.Repository.Submission()}
}

type countOnlySubmissions struct {
	interfaces.SubmissionRepository
}

func (r *countOnlySubmissions) List(_ context.Context, formID string) ([]*model.Submission, error) {
	return nil, goerr.New("list must not be called", goerr.V("form_id", formID))
}

func TestReportUseCase_ExportSubmissions_EmptyFormIsCounted(t *testing.T) {
	env := newTestEnv(t)
	form := env.publishedForm(t)

	uc := usecase.New(&countOnlyRepository{Repository: env.repo})
	_, err := uc.Report.ExportSubmissions(context.Background(), testOwnerID, form.ID, types.ExportFormatCSV)
	gt.Error(t, err).Is(usecase.ErrNoSubmissions)
}

func TestReportUseCase_GetStats(t *testing.T) {
	t.Run("no views", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.publishedForm(t)

		stats, err := env.uc.Report.GetStats(context.Background(), testOwnerID, form.ID)
		gt.NoError(t, err).Required()
		gt.V(t, stats.Views).Equal(int64(0))
		gt.V(t, stats.Submissions).Equal(int64(0))
		gt.V(t, stats.ConversionRate).Equal("0")
	})

	t.Run("conversion rate", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		form := env.publishedForm(t)

		for i := 0; i < 3; i++ {
			_, err := env.uc.Submission.GetPublicForm(ctx, form.Token)
			gt.NoError(t, err).Required()
		}
		async.Wait()

		_, err := env.uc.Submission.Submit(ctx, form.Token, model.RawInput{"attending": "No"})
		gt.NoError(t, err).Required()

		stats, err := env.uc.Report.GetStats(ctx, testOwnerID, form.ID)
		gt.NoError(t, err).Required()
		gt.V(t, stats.Views).Equal(int64(3))
		gt.V(t, stats.Submissions).Equal(int64(1))
		gt.V(t, stats.ConversionRate).Equal("33.33")
		gt.V(t, stats.Keys).Equal([]string{"attending", "newsletter"})
		gt.A(t, stats.Responses).Length(1)
	})
}
