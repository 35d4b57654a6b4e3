package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"google.golang.org/api/iterator"
)

const submissionsCollection = "submissions"

type submissionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.SubmissionRepository = &submissionRepository{}

func newSubmissionRepository(client *firestore.Client) *submissionRepository {
	return &submissionRepository{client: client}
}

// submissionDocument is the Firestore persistence model of a submission.
// Values are strings, or string arrays for choice groups.
type submissionDocument struct {
	ID            string           `firestore:"ID"`
	FormID        string           `firestore:"FormID"`
	SchemaVersion int              `firestore:"SchemaVersion"`
	SubmittedAt   time.Time        `firestore:"SubmittedAt"`
	Data          []recordDocument `firestore:"Data"`
}

type recordDocument struct {
	FieldID string      `firestore:"FieldID"`
	Value   interface{} `firestore:"Value"`
}

func toSubmissionDocument(s *model.Submission) *submissionDocument {
	records := make([]recordDocument, len(s.Data))
	for i, r := range s.Data {
		records[i] = recordDocument{FieldID: r.FieldID, Value: r.Value.Any()}
	}
	return &submissionDocument{
		ID:            s.ID,
		FormID:        s.FormID,
		SchemaVersion: s.SchemaVersion,
		SubmittedAt:   s.SubmittedAt,
		Data:          records,
	}
}

func toSubmissionModel(doc *submissionDocument) (*model.Submission, error) {
	records := make([]model.Record, len(doc.Data))
	for i, r := range doc.Data {
		value, err := model.AnswerValueFrom(r.Value)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid stored answer",
				goerr.V("submission_id", doc.ID),
				goerr.V("field_id", r.FieldID))
		}
		records[i] = model.Record{FieldID: r.FieldID, Value: value}
	}
	return &model.Submission{
		ID:            doc.ID,
		FormID:        doc.FormID,
		SchemaVersion: doc.SchemaVersion,
		SubmittedAt:   doc.SubmittedAt,
		Data:          records,
	}, nil
}

func (r *submissionRepository) collection(formID string) *firestore.CollectionRef {
	return r.client.
		Collection(formsCollectionName(r.collectionPrefix)).Doc(formID).
		Collection(submissionsCollection)
}

// Append writes one new document. Each submission is its own document so
// concurrent appends never contend on a shared array.
func (r *submissionRepository) Append(ctx context.Context, submission *model.Submission) (*model.Submission, error) {
	if submission.FormID == "" {
		return nil, goerr.New("submission has no form ID")
	}

	created := model.CopySubmission(submission)
	if created.ID == "" {
		created.ID = model.NewSubmissionID()
	}
	if created.SubmittedAt.IsZero() {
		created.SubmittedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	ref := r.collection(created.FormID).Doc(created.ID)
	if _, err := ref.Create(ctx, toSubmissionDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to append submission",
			goerr.V("form_id", created.FormID),
			goerr.V("submission_id", created.ID))
	}

	return created, nil
}

func (r *submissionRepository) List(ctx context.Context, formID string) ([]*model.Submission, error) {
	iter := r.collection(formID).OrderBy("SubmittedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	submissions := make([]*model.Submission, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate submissions", goerr.V("form_id", formID))
		}

		var doc submissionDocument
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal submission", goerr.V("doc_id", docSnap.Ref.ID))
		}
		s, err := toSubmissionModel(&doc)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	return submissions, nil
}

func (r *submissionRepository) Count(ctx context.Context, formID string) (int64, error) {
	result, err := r.collection(formID).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count submissions", goerr.V("form_id", formID))
	}

	value, ok := result["all"].(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count result", goerr.V("form_id", formID))
	}
	return value.GetIntegerValue(), nil
}

func (r *submissionRepository) DeleteByForm(ctx context.Context, formID string) (int, error) {
	const batchSize = 500
	totalDeleted := 0

	for {
		iter := r.collection(formID).Limit(batchSize).Documents(ctx)
		bulkWriter := r.client.BulkWriter(ctx)
		count := 0

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				bulkWriter.End()
				return totalDeleted, goerr.Wrap(err, "failed to iterate submissions for deletion")
			}

			if _, err := bulkWriter.Delete(doc.Ref); err != nil {
				iter.Stop()
				bulkWriter.End()
				return totalDeleted, goerr.Wrap(err, "failed to delete submission")
			}
			count++
		}
		iter.Stop()
		bulkWriter.End()

		if count == 0 {
			break
		}
		totalDeleted += count

		if count < batchSize {
			break
		}
	}

	return totalDeleted, nil
}
