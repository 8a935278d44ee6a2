package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type questionDocument struct {
	ID              string  `firestore:"id"`
	Category        string  `firestore:"category"`
	Article         string  `firestore:"article"`
	Text            string  `firestore:"text"`
	Reference       string  `firestore:"reference"`
	RiskLevel       string  `firestore:"risk_level"`
	MaxPenalty      float64 `firestore:"max_penalty"`
	HasCriminalRisk bool    `firestore:"has_criminal_risk"`
	RegulatoryBody  string  `firestore:"regulatory_body"`
}

type frameworkDocument struct {
	ID          int64              `firestore:"id"`
	Name        string             `firestore:"name"`
	Description string             `firestore:"description"`
	Version     string             `firestore:"version"`
	Questions   []questionDocument `firestore:"questions"`
	Scorers     []string           `firestore:"scorers"`
	CreatedAt   time.Time          `firestore:"created_at"`
}

func newFrameworkDocument(f *model.Framework) *frameworkDocument {
	doc := &frameworkDocument{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Version:     f.Version,
		Questions:   make([]questionDocument, 0, len(f.Questions)),
		Scorers:     make([]string, 0, len(f.Scorers)),
		CreatedAt:   f.CreatedAt,
	}
	for _, q := range f.Questions {
		doc.Questions = append(doc.Questions, questionDocument{
			ID:              q.ID,
			Category:        q.Category,
			Article:         q.Article,
			Text:            q.Text,
			Reference:       q.Reference,
			RiskLevel:       q.RiskLevel.String(),
			MaxPenalty:      q.MaxPenalty,
			HasCriminalRisk: q.HasCriminalRisk,
			RegulatoryBody:  q.RegulatoryBody.String(),
		})
	}
	for _, s := range f.Scorers {
		doc.Scorers = append(doc.Scorers, s.String())
	}
	return doc
}

func (d *frameworkDocument) toModel() *model.Framework {
	f := &model.Framework{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Version:     d.Version,
		Questions:   make([]model.Question, 0, len(d.Questions)),
		Scorers:     make([]types.ScorerKind, 0, len(d.Scorers)),
		CreatedAt:   d.CreatedAt,
	}
	for _, q := range d.Questions {
		f.Questions = append(f.Questions, model.Question{
			ID:              q.ID,
			Category:        q.Category,
			Article:         q.Article,
			Text:            q.Text,
			Reference:       q.Reference,
			RiskLevel:       types.RiskLevel(q.RiskLevel),
			MaxPenalty:      q.MaxPenalty,
			HasCriminalRisk: q.HasCriminalRisk,
			RegulatoryBody:  types.RegulatoryBody(q.RegulatoryBody),
		})
	}
	for _, s := range d.Scorers {
		f.Scorers = append(f.Scorers, types.ScorerKind(s))
	}
	return f
}

type frameworkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *frameworkRepository) frameworksCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, "frameworks"))
}

func (r *frameworkRepository) Create(ctx context.Context, framework *model.Framework) (*model.Framework, error) {
	if _, err := r.Get(ctx, framework.Name); err == nil {
		return nil, goerr.Wrap(ErrAlreadyExists, "framework already exists", goerr.V("name", framework.Name))
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, err := getNextID(ctx, r.client, r.collectionPrefix, "framework_counter")
	if err != nil {
		return nil, err
	}

	doc := newFrameworkDocument(framework)
	doc.ID = id
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.frameworksCollection().Doc(fmt.Sprintf("%d", id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create framework", goerr.V("name", framework.Name))
	}

	return doc.toModel(), nil
}

func (r *frameworkRepository) Get(ctx context.Context, name string) (*model.Framework, error) {
	iter := r.frameworksCollection().Where("name", "==", name).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "framework not found", goerr.V("name", name))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("name", name))
	}

	var frameworkDoc frameworkDocument
	if err := doc.DataTo(&frameworkDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal framework", goerr.V("name", name))
	}

	return frameworkDoc.toModel(), nil
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.Framework, error) {
	iter := r.frameworksCollection().OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	frameworks := make([]*model.Framework, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate frameworks")
		}

		var frameworkDoc frameworkDocument
		if err := doc.DataTo(&frameworkDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal framework", goerr.V("doc_id", doc.Ref.ID))
		}

		frameworks = append(frameworks, frameworkDoc.toModel())
	}

	return frameworks, nil
}
