/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"oceanbase-mcp/internal/logging"
)

// Hit keys
const (
	KeyID          = "_id"
	KeyScore       = "_score"
	KeySource      = "_source"
	KeyTable       = "_table"
	KeyRerankScore = "_rerank_score"
)

const hybridSearchQuery = "SELECT DBMS_HYBRID_SEARCH.SEARCH(?, ?)"

// Hit is one search result document
type Hit map[string]interface{}

// Backend runs one search request against one table
type Backend interface {
	Search(ctx context.Context, table string, body map[string]interface{}) ([]Hit, error)
}

// OceanBaseBackend searches with OceanBase's DBMS_HYBRID_SEARCH package. It
// does not own the database handle.
type OceanBaseBackend struct {
	db *sqlx.DB
}

// NewOceanBaseBackend creates a backend over an open database
func NewOceanBaseBackend(db *sqlx.DB) *OceanBaseBackend {
	return &OceanBaseBackend{db: db}
}

// Search executes body against table and returns the hits tagged with the
// table name
func (b *OceanBaseBackend) Search(ctx context.Context, table string, body map[string]interface{}) ([]Hit, error) {
	startTime := time.Now()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search body: %w", err)
	}

	var raw sql.NullString
	if err := b.db.GetContext(ctx, &raw, hybridSearchQuery, table, string(payload)); err != nil {
		logging.Info("hybrid search failed", "table", table, "duration", time.Since(startTime).String(), "error", err)
		return nil, err
	}

	hits, err := ParseHits([]byte(raw.String), table)
	if err != nil {
		return nil, err
	}

	logging.Debug("hybrid search succeeded", "table", table, "hits", len(hits), "duration", time.Since(startTime).String())
	return hits, nil
}

// ParseHits normalises a search response into hits tagged with table. The
// response may be an object with hits.hits, an array of hits, or a single
// document.
func ParseHits(raw []byte, table string) ([]Hit, error) {
	if len(raw) == 0 {
		return []Hit{}, nil
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	var items []interface{}
	switch v := doc.(type) {
	case nil:
		return []Hit{}, nil
	case []interface{}:
		items = v
	case map[string]interface{}:
		if _, ok := v["hits"]; ok {
			if outer, ok := v["hits"].(map[string]interface{}); ok {
				items, _ = outer["hits"].([]interface{})
			}
		} else {
			items = []interface{}{v}
		}
	default:
		return nil, fmt.Errorf("unexpected search response of type %T", doc)
	}

	hits := make([]Hit, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			logging.Debug("skipping non-object search hit", "table", table)
			continue
		}
		obj[KeyTable] = table
		hits = append(hits, Hit(obj))
	}
	return hits, nil
}
