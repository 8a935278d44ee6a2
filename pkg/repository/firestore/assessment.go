package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assessmentDocument struct {
	ID               int64             `firestore:"id"`
	OrganizationName string            `firestore:"organization_name"`
	FrameworkType    string            `firestore:"framework_type"`
	OverallScore     int               `firestore:"overall_score"`
	Responses        map[string]string `firestore:"responses"`
	Status           string            `firestore:"status"`
	CreatedAt        time.Time         `firestore:"created_at"`
	UpdatedAt        time.Time         `firestore:"updated_at"`
}

func newAssessmentDocument(a *model.Assessment) *assessmentDocument {
	responses := make(map[string]string, len(a.Responses))
	for id, status := range a.Responses {
		responses[id] = status.String()
	}

	return &assessmentDocument{
		ID:               a.ID,
		OrganizationName: a.OrganizationName,
		FrameworkType:    a.FrameworkType,
		OverallScore:     a.OverallScore,
		Responses:        responses,
		Status:           a.Status.String(),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func (d *assessmentDocument) toModel() *model.Assessment {
	responses := make(model.Responses, len(d.Responses))
	for id, status := range d.Responses {
		responses[id] = types.ResponseStatus(status)
	}

	return &model.Assessment{
		ID:               d.ID,
		OrganizationName: d.OrganizationName,
		FrameworkType:    d.FrameworkType,
		OverallScore:     d.OverallScore,
		Responses:        responses,
		Status:           types.AssessmentStatus(d.Status),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *assessmentRepository) assessmentsCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, "assessments"))
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	id, err := getNextID(ctx, r.client, r.collectionPrefix, "assessment_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := newAssessmentDocument(assessment)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.assessmentsCollection().Doc(fmt.Sprintf("%d", id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	doc, err := r.assessmentsCollection().Doc(fmt.Sprintf("%d", id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var assessmentDoc assessmentDocument
	if err := doc.DataTo(&assessmentDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}

	return assessmentDoc.toModel(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	return r.list(ctx, r.assessmentsCollection().OrderBy("id", firestore.Asc))
}

func (r *assessmentRepository) ListByFramework(ctx context.Context, frameworkType string) ([]*model.Assessment, error) {
	query := r.assessmentsCollection().
		Where("framework_type", "==", frameworkType).
		OrderBy("id", firestore.Asc)
	return r.list(ctx, query)
}

func (r *assessmentRepository) list(ctx context.Context, query firestore.Query) ([]*model.Assessment, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	assessments := make([]*model.Assessment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		var assessmentDoc assessmentDocument
		if err := doc.DataTo(&assessmentDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("doc_id", doc.Ref.ID))
		}

		assessments = append(assessments, assessmentDoc.toModel())
	}

	return assessments, nil
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	docRef := r.assessmentsCollection().Doc(fmt.Sprintf("%d", assessment.ID))

	var updated *assessmentDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", assessment.ID))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V("id", assessment.ID))
		}

		var existing assessmentDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", assessment.ID))
		}

		updated = newAssessmentDocument(assessment)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", assessment.ID))
	}

	return updated.toModel(), nil
}
