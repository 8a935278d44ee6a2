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

type actionItemDocument struct {
	ID            int64      `firestore:"id"`
	AssessmentID  *int64     `firestore:"assessment_id"`
	Title         string     `firestore:"title"`
	Description   string     `firestore:"description"`
	Priority      string     `firestore:"priority"`
	Status        string     `firestore:"status"`
	DueDate       *time.Time `firestore:"due_date"`
	FrameworkType string     `firestore:"framework_type"`
	CreatedAt     time.Time  `firestore:"created_at"`
	UpdatedAt     time.Time  `firestore:"updated_at"`
}

func newActionItemDocument(item *model.ActionItem) *actionItemDocument {
	c := item.Copy()
	return &actionItemDocument{
		ID:            c.ID,
		AssessmentID:  c.AssessmentID,
		Title:         c.Title,
		Description:   c.Description,
		Priority:      c.Priority.String(),
		Status:        c.Status.String(),
		DueDate:       c.DueDate,
		FrameworkType: c.FrameworkType,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (d *actionItemDocument) toModel() *model.ActionItem {
	item := &model.ActionItem{
		ID:            d.ID,
		AssessmentID:  d.AssessmentID,
		Title:         d.Title,
		Description:   d.Description,
		Priority:      types.Priority(d.Priority),
		Status:        types.ActionStatus(d.Status),
		DueDate:       d.DueDate,
		FrameworkType: d.FrameworkType,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	return item.Copy()
}

type actionItemRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *actionItemRepository) actionItemsCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, "action_items"))
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	id, err := getNextID(ctx, r.client, r.collectionPrefix, "action_item_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := newActionItemDocument(item)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.actionItemsCollection().Doc(fmt.Sprintf("%d", id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create action item", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *actionItemRepository) Get(ctx context.Context, id int64) (*model.ActionItem, error) {
	doc, err := r.actionItemsCollection().Doc(fmt.Sprintf("%d", id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action item", goerr.V("id", id))
	}

	var itemDoc actionItemDocument
	if err := doc.DataTo(&itemDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal action item", goerr.V("id", id))
	}

	return itemDoc.toModel(), nil
}

func (r *actionItemRepository) List(ctx context.Context) ([]*model.ActionItem, error) {
	return r.list(ctx, r.actionItemsCollection().OrderBy("id", firestore.Asc))
}

func (r *actionItemRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.ActionItem, error) {
	query := r.actionItemsCollection().
		Where("assessment_id", "==", assessmentID).
		OrderBy("id", firestore.Asc)
	return r.list(ctx, query)
}

func (r *actionItemRepository) ListByFramework(ctx context.Context, frameworkType string) ([]*model.ActionItem, error) {
	query := r.actionItemsCollection().
		Where("framework_type", "==", frameworkType).
		OrderBy("id", firestore.Asc)
	return r.list(ctx, query)
}

func (r *actionItemRepository) list(ctx context.Context, query firestore.Query) ([]*model.ActionItem, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	items := make([]*model.ActionItem, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate action items")
		}

		var itemDoc actionItemDocument
		if err := doc.DataTo(&itemDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal action item", goerr.V("doc_id", doc.Ref.ID))
		}

		items = append(items, itemDoc.toModel())
	}

	return items, nil
}

func (r *actionItemRepository) Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	docRef := r.actionItemsCollection().Doc(fmt.Sprintf("%d", item.ID))

	var updated *actionItemDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", item.ID))
			}
			return goerr.Wrap(err, "failed to get action item", goerr.V("id", item.ID))
		}

		var existing actionItemDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal action item", goerr.V("id", item.ID))
		}

		updated = newActionItemDocument(item)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V("id", item.ID))
	}

	return updated.toModel(), nil
}
