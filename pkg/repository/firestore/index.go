package firestore

import "github.com/m-mizutani/fireconf"

// IndexConfig returns the composite indexes required by the filtered list
// queries. Collection names carry the same prefix as WithCollectionPrefix.
func IndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: collectionName(prefix, "assessments"),
				Indexes: []fireconf.Index{
					// ListByFramework: framework_type ASC, id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "framework_type", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: collectionName(prefix, "action_items"),
				Indexes: []fireconf.Index{
					// ListByAssessment: assessment_id ASC, id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "assessment_id", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderAscending},
						},
					},
					// ListByFramework: framework_type ASC, id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "framework_type", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
