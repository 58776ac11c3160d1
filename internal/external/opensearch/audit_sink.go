package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/webhook"
)

var _ webhook.AuditSink = (*AuditSink)(nil)

// AuditSink records every dispatched webhook event in OpenSearch so
// operators can search the processing history per gateway and event type.
type AuditSink struct {
	client *opensearch.Client
	index  string
}

func NewAuditSink(ctx context.Context, urls []string, index string) (*AuditSink, error) {
	if len(urls) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}

	cfg := opensearch.Config{
		Addresses: urls,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
		},
	}
	client, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	sink := &AuditSink{client: client, index: index}
	if err := sink.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *AuditSink) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"event_id":        map[string]any{"type": "keyword"},
				"gateway":         map[string]any{"type": "keyword"},
				"raw_type":        map[string]any{"type": "keyword"},
				"normalized_type": map[string]any{"type": "keyword"},
				"outcome":         map[string]any{"type": "keyword"},
				"handlers_run":    map[string]any{"type": "integer"},
				"handlers_failed": map[string]any{"type": "integer"},
				"recorded_at":     map[string]any{"type": "date"},
				"payload":         map[string]any{"type": "object", "enabled": true},
			},
		},
		"settings": map[string]any{
			"number_of_replicas": 0,
		},
	}
	buf, _ := json.Marshal(body)
	cr, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	if cr.IsError() {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

type auditDoc struct {
	EventID        string          `json:"event_id"`
	Gateway        string          `json:"gateway"`
	RawType        string          `json:"raw_type"`
	NormalizedType string          `json:"normalized_type"`
	Outcome        string          `json:"outcome"`
	HandlersRun    int             `json:"handlers_run"`
	HandlersFailed int             `json:"handlers_failed"`
	RecordedAt     time.Time       `json:"recorded_at"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// RecordDispatch stores the outcome of one dispatched event, keyed by the
// provider event ID so redeliveries overwrite instead of duplicating.
func (s *AuditSink) RecordDispatch(ctx context.Context, event *gateway.WebhookEvent, rec webhook.DispatchRecord) error {
	doc := auditDoc{
		EventID:        event.EventID,
		Gateway:        event.GatewayID,
		RawType:        event.RawType,
		NormalizedType: string(event.NormalizedType),
		Outcome:        rec.Outcome,
		HandlersRun:    rec.HandlersRun,
		HandlersFailed: rec.HandlersFailed,
		RecordedAt:     time.Now().UTC(),
		Payload:        event.RawObject,
	}
	payload, _ := json.Marshal(doc)

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(event.EventID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

// RecentEvents returns up to limit audit records for one gateway, newest
// first.
func (s *AuditSink) RecentEvents(ctx context.Context, gatewayID string, limit int) ([]webhook.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	body := map[string]any{
		"size": limit,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"gateway": gatewayID}},
				},
			},
		},
		"sort": []map[string]any{
			{"recorded_at": map[string]any{"order": "desc"}},
		},
	}
	raw, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(raw)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var sr struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}

	out := make([]webhook.AuditEntry, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		var doc auditDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return nil, fmt.Errorf("decode hit: %w", err)
		}
		out = append(out, webhook.AuditEntry{
			EventID:        doc.EventID,
			Gateway:        doc.Gateway,
			RawType:        doc.RawType,
			NormalizedType: doc.NormalizedType,
			Outcome:        doc.Outcome,
			RecordedAt:     doc.RecordedAt,
		})
	}
	return out, nil
}
