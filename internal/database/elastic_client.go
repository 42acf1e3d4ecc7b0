package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/micollege/elms/internal/domain"
)

const userIndex = "users"

// UserDoc mirrors the searchable subset of domain.User for the directory index.
// No password material ever reaches the index.
type UserDoc struct {
	ID          int64  `json:"id"`
	EmployeeID  string `json:"employee_id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// NewUserDoc projects a user into its index document.
func NewUserDoc(u *domain.User) UserDoc {
	return UserDoc{
		ID:          u.ID,
		EmployeeID:  u.EmployeeID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Department:  u.Department,
		Designation: u.Designation,
	}
}

// ElasticSearchClient wraps olivere/elastic for the employee directory.
// A nil receiver is a disabled index; every method no-ops safely so the
// API runs without Elasticsearch configured.
type ElasticSearchClient struct {
	client *elastic.Client
}

// NewElasticSearchClient creates a client for Elasticsearch 7.x.
func NewElasticSearchClient(url string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // essential when using Docker or cloud
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &ElasticSearchClient{client: client}, nil
}

// Enabled reports whether the index is configured.
func (es *ElasticSearchClient) Enabled() bool {
	return es != nil && es.client != nil
}

// IndexUser indexes a user document using the record ID as document ID.
func (es *ElasticSearchClient) IndexUser(ctx context.Context, doc UserDoc) error {
	if !es.Enabled() {
		return nil
	}
	_, err := es.client.Index().
		Index(userIndex).
		Id(fmt.Sprintf("%d", doc.ID)).
		BodyJson(doc).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index user %d: %w", doc.ID, err)
	}
	return nil
}

// RemoveUser deletes a user document from the index.
func (es *ElasticSearchClient) RemoveUser(ctx context.Context, id int64) error {
	if !es.Enabled() {
		return nil
	}
	_, err := es.client.Delete().
		Index(userIndex).
		Id(fmt.Sprintf("%d", id)).
		Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("failed to remove user %d from index: %w", id, err)
	}
	return nil
}

// SearchUsers performs a full-text match on name, email, and designation,
// optionally restricted to one department.
func (es *ElasticSearchClient) SearchUsers(ctx context.Context, q, department string) ([]UserDoc, error) {
	if !es.Enabled() {
		return nil, nil
	}

	query := elastic.NewBoolQuery().
		Must(elastic.NewMultiMatchQuery(q, "name", "email", "designation", "employee_id"))
	if department != "" {
		query = query.Filter(elastic.NewTermQuery("department.keyword", department))
	}

	searchResult, err := es.client.Search().
		Index(userIndex).
		Query(query).
		Size(100).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("user search failed: %w", err)
	}

	var docs []UserDoc
	for _, hit := range searchResult.Hits.Hits {
		var doc UserDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// BulkIndexUsers indexes many user documents in one request, used after a
// spreadsheet import completes.
func (es *ElasticSearchClient) BulkIndexUsers(ctx context.Context, docs []UserDoc) error {
	if !es.Enabled() || len(docs) == 0 {
		return nil
	}

	bulkRequest := es.client.Bulk()
	for _, doc := range docs {
		req := elastic.NewBulkIndexRequest().
			Index(userIndex).
			Id(fmt.Sprintf("%d", doc.ID)).
			Doc(doc)
		bulkRequest = bulkRequest.Add(req)
	}

	bulkResponse, err := bulkRequest.Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}
	if bulkResponse.Errors {
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Error != nil {
					return fmt.Errorf("bulk item failed: %s", op.Error.Reason)
				}
			}
		}
	}
	return nil
}
