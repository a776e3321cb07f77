package database

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olivere/elastic/v7"
)

// CommissionDoc is one archived per-salesperson result of a calculation run.
type CommissionDoc struct {
	RunID           string    `json:"run_id"`
	SalespersonID   string    `json:"salesperson_id"`
	SalespersonName string    `json:"salesperson_name"`
	PeriodStart     time.Time `json:"period_start"`
	PeriodEnd       time.Time `json:"period_end"`
	TotalSales      string    `json:"total_sales"`
	Commission      string    `json:"commission"`
	SaleCount       int       `json:"sale_count"`
	RuleID          string    `json:"rule_id,omitempty"`
	Percentage      string    `json:"percentage,omitempty"`
	FallbackApplied bool      `json:"fallback_applied"`
	Source          string    `json:"source"`
	CalculatedAt    time.Time `json:"calculated_at"`
}

// DocID is stable per run and salesperson so re-archiving a run overwrites it.
func (d CommissionDoc) DocID() string {
	return d.RunID + "-" + d.SalespersonID
}

// ElasticSearchClient wraps olivere/elastic client.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient creates a new client for Elasticsearch 7.x. Extra
// options are appended after the defaults.
func NewElasticSearchClient(url, index string, opts ...elastic.ClientOptionFunc) (*ElasticSearchClient, error) {
	options := append([]elastic.ClientOptionFunc{
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
	}, opts...)
	client, err := elastic.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &ElasticSearchClient{client: client, index: index}, nil
}

// Index returns the archive index name.
func (es *ElasticSearchClient) Index() string {
	return es.index
}

// BulkIndexCommissions indexes all results of one run.
func (es *ElasticSearchClient) BulkIndexCommissions(ctx context.Context, docs []CommissionDoc) error {
	bulkRequest := es.client.Bulk()

	for _, doc := range docs {
		req := elastic.NewBulkIndexRequest().
			Index(es.index).
			Id(doc.DocID()).
			Doc(doc)
		bulkRequest = bulkRequest.Add(req)
	}

	if bulkRequest.NumberOfActions() == 0 {
		return nil
	}

	bulkResponse, err := bulkRequest.Refresh("true").Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}

	if bulkResponse.Errors {
		for _, item := range bulkResponse.Failed() {
			if item.Error != nil {
				return fmt.Errorf("bulk item %s failed: %s", item.Id, item.Error.Reason)
			}
		}
	}

	return nil
}

// SearchBySalesperson performs a full-text match on the salesperson name,
// newest runs first.
func (es *ElasticSearchClient) SearchBySalesperson(ctx context.Context, name string, size int) ([]CommissionDoc, error) {
	if size <= 0 {
		size = 100
	}
	query := elastic.NewMatchQuery("salesperson_name", name)

	searchResult, err := es.client.Search().
		Index(es.index).
		Query(query).
		Sort("calculated_at", false).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return decodeHits(searchResult.Hits.Hits), nil
}

// ScrollRun returns every archived document of runID.
func (es *ElasticSearchClient) ScrollRun(ctx context.Context, runID string) ([]CommissionDoc, error) {
	var all []CommissionDoc

	scroll := es.client.Scroll(es.index).
		Query(elastic.NewTermQuery("run_id.keyword", runID)).
		Size(500).
		KeepAlive("2m").
		Sort("_doc", true)
	defer scroll.Clear(context.Background())

	for {
		results, err := scroll.Do(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scroll error: %w", err)
		}
		all = append(all, decodeHits(results.Hits.Hits)...)
	}

	return all, nil
}

func decodeHits(hits []*elastic.SearchHit) []CommissionDoc {
	docs := make([]CommissionDoc, 0, len(hits))
	for _, hit := range hits {
		var doc CommissionDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}
