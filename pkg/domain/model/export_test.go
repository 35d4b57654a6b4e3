package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
)

func submission(records ...model.Record) *model.Submission {
	return &model.Submission{ID: model.NewSubmissionID(), FormID: "form", Data: records}
}

func text(id, value string) model.Record {
	return model.Record{FieldID: id, Value: model.TextValue(value)}
}

func TestProjectToTable(t *testing.T) {
	t.Run("headers follow encounter order", func(t *testing.T) {
		subs := []*model.Submission{
			submission(text("A", "1"), text("B", "2")),
			submission(text("B", "3"), text("C", "4")),
		}
		table := model.ProjectToTable(nil, subs)
		gt.V(t, table.Headers).Equal([]string{"A", "B", "C"})
		gt.V(t, table.Rows).Equal([][]string{{"1", "2", ""}, {"", "3", "4"}})
	})

	t.Run("lists are joined", func(t *testing.T) {
		subs := []*model.Submission{
			submission(model.Record{FieldID: "tags", Value: model.ListValue([]string{"A", "C"})}),
		}
		table := model.ProjectToTable(nil, subs)
		gt.V(t, table.Rows).Equal([][]string{{"A, C"}})
	})

	t.Run("labels come from current fields or the key", func(t *testing.T) {
		fields := []model.FieldDefinition{{ID: "f1", Label: "Full name", Type: types.FieldTypeText}}
		subs := []*model.Submission{submission(text("f1", "x"), text("old_field", "y"))}
		table := model.ProjectToTable(fields, subs)
		gt.V(t, table.Labels).Equal([]string{"Full name", "OLD FIELD"})
	})

	t.Run("no submissions", func(t *testing.T) {
		table := model.ProjectToTable(nil, nil)
		gt.A(t, table.Headers).Length(0)
		gt.A(t, table.Rows).Length(0)
	})
}

func TestEncodeCSV(t *testing.T) {
	table := &model.Table{
		Headers: []string{"a", "b"},
		Labels:  []string{"A", "B"},
		Rows: [][]string{
			{`say "hi"`, ""},
			{"x;y", "line\nbreak"},
		},
	}
	body := string(model.EncodeCSV(table))

	gt.B(t, strings.HasPrefix(body, "\ufeff")).True()
	want := "\ufeff" + `"A";"B"` + "\n" + `"say ""hi""";""` + "\n" + `"x;y";"line` + "\n" + `break"`
	gt.V(t, body).Equal(want)
}

func TestExport(t *testing.T) {
	form := &model.Form{ID: "form", Title: "Survey 2024"}
	subs := []*model.Submission{submission(text("A", "1"))}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("csv", func(t *testing.T) {
		file, err := model.Export(types.ExportFormatCSV, form, subs, at)
		gt.NoError(t, err).Required()
		gt.V(t, file.Name).Equal("Survey 2024_export_2024-05-01.csv")
		gt.V(t, file.ContentType).Equal("text/csv")
		gt.V(t, string(file.Body)).Equal("\ufeff" + `"A"` + "\n" + `"1"`)
	})

	t.Run("pdf is not implemented", func(t *testing.T) {
		_, err := model.Export(types.ExportFormatPDF, form, subs, at)
		gt.Error(t, err).Is(model.ErrNotImplemented)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := model.Export("xlsx", form, subs, at)
		gt.Error(t, err).Is(model.ErrUnsupportedExportFormat)
	})
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	gt.V(t, model.ExportFileName("a/b", types.ExportFormatCSV, at)).Equal("a_b_export_2024-01-02.csv")
	gt.V(t, model.ExportFileName("  ", types.ExportFormatCSV, at)).Equal("form_export_2024-01-02.csv")
}

func TestNewFormStats(t *testing.T) {
	gt.V(t, model.NewFormStats("f", 0, 0).ConversionRate).Equal("0")
	gt.V(t, model.NewFormStats("f", 3, 1).ConversionRate).Equal("33.33")
	gt.V(t, model.NewFormStats("f", 4, 4).ConversionRate).Equal("100.00")
}

func TestFormPublic(t *testing.T) {
	form := &model.Form{
		ID: "id", OwnerID: "owner", Token: "tok", Title: "T", Status: types.FormStatusPublished,
		Fields: []model.FieldDefinition{textField("a", true)},
	}
	pub := form.Public()
	gt.V(t, pub.Token).Equal("tok")
	gt.A(t, pub.Fields).Length(1)
	pub.Fields[0].Label = "changed"
	gt.V(t, form.Fields[0].Label).Equal("a")
	gt.B(t, form.IsPublished()).True()
}
