package delivery

import (
	"context"
	"encoding/json"
	"time"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/pipeline"
)

// DocumentIndexer is satisfied by database.ElasticsearchClient.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, index, id string, body []byte) error
}

// SearchIndex writes reports into an Elasticsearch index.
type SearchIndex struct {
	es    DocumentIndexer
	index string
}

func NewSearchIndex(es DocumentIndexer, index string) *SearchIndex {
	return &SearchIndex{es: es, index: index}
}

func (s *SearchIndex) Name() string { return "elasticsearch" }

type indexedReport struct {
	ReportID    string                 `json:"reportId"`
	Template    string                 `json:"template"`
	Identifiers map[string]interface{} `json:"identifiers"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Report      json.RawMessage        `json:"report"`
}

func (s *SearchIndex) Deliver(ctx context.Context, r *pipeline.Result) error {
	body, err := json.Marshal(indexedReport{
		ReportID:    r.ReportID,
		Template:    r.Template,
		Identifiers: r.Identifiers,
		GeneratedAt: r.Timestamp,
		Report:      json.RawMessage(r.Encoded),
	})
	if err != nil {
		return errors.NewReportIndexFailedError(s.index, err)
	}
	if err := s.es.IndexDocument(ctx, s.index, r.ReportID, body); err != nil {
		return errors.NewReportIndexFailedError(s.index, err)
	}
	return nil
}
