package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	client     *firestore.Client
	assessment *assessmentRepository
	actionItem *actionItemRepository
	framework  *frameworkRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates collections, e.g. per test run
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.assessment.collectionPrefix = prefix
		f.actionItem.collectionPrefix = prefix
		f.framework.collectionPrefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := newClient(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		assessment: &assessmentRepository{client: client},
		actionItem: &actionItemRepository{client: client},
		framework:  &frameworkRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func newClient(ctx context.Context, projectID, databaseID string) (*firestore.Client, error) {
	if databaseID == "" {
		return firestore.NewClient(ctx, projectID)
	}
	return firestore.NewClientWithDatabase(ctx, projectID, databaseID)
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *Firestore) ActionItem() interfaces.ActionItemRepository {
	return f.actionItem
}

func (f *Firestore) Framework() interfaces.FrameworkRepository {
	return f.framework
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// getNextID increments the named counter document in a transaction and
// returns the new value. Counters start at 1.
func getNextID(ctx context.Context, client *firestore.Client, prefix, counterDoc string) (int64, error) {
	counterRef := client.Collection(collectionName(prefix, "counters")).Doc(counterDoc)

	var nextID int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("counter", counterDoc))
	}

	return nextID, nil
}
