// Package search provides keyword search over the endpoints, DTO classes
// and services of a snapshot, backed by an in-memory bleve index.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/mvp-joe/project-atlas/internal/analyzer"
)

// Document kinds.
const (
	KindEndpoint = "endpoint"
	KindDto      = "dto"
	KindService  = "service"
)

// Search limits.
const (
	DefaultLimit = 15
	MaxLimit     = 100
)

// Options narrow a search. The zero value searches everything.
type Options struct {
	Kind   string // one of the Kind constants, or "" for all
	Module string // domain module key, or "" for all
	Limit  int
}

// Result is one matching document.
type Result struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	FilePath string  `json:"file_path"`
	Module   string  `json:"module,omitempty"`
	Score    float64 `json:"score"`
}

// Index is a searchable view of one snapshot. It is safe for concurrent
// use; Rebuild swaps in a new snapshot.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewIndex indexes every endpoint, DTO class and service of snap.
func NewIndex(ctx context.Context, snap *analyzer.Snapshot) (*Index, error) {
	index, err := build(ctx, snap)
	if err != nil {
		return nil, err
	}
	return &Index{index: index}, nil
}

// Rebuild replaces the indexed content with snap.
func (ix *Index) Rebuild(ctx context.Context, snap *analyzer.Snapshot) error {
	index, err := build(ctx, snap)
	if err != nil {
		return err
	}

	ix.mu.Lock()
	old := ix.index
	ix.index = index
	ix.mu.Unlock()

	return old.Close()
}

// Close releases the index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index.Close()
}

func build(ctx context.Context, snap *analyzer.Snapshot) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for _, doc := range documents(snap) {
		if err := ctx.Err(); err != nil {
			index.Close()
			return nil, err
		}
		if err := batch.Index(doc["id"].(string), doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to add %s to batch: %w", doc["id"], err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}
	return index, nil
}

// buildMapping analyzes text and title for keyword search. Kind and
// module are matched exactly.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("id", fieldMapping("keyword", true, false))
	docMapping.AddFieldMappingsAt("kind", fieldMapping("keyword", true, true))
	docMapping.AddFieldMappingsAt("module", fieldMapping("keyword", true, true))
	docMapping.AddFieldMappingsAt("title", fieldMapping("standard", true, true))
	docMapping.AddFieldMappingsAt("file_path", fieldMapping("standard", true, true))
	docMapping.AddFieldMappingsAt("text", fieldMapping("standard", false, true))

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func fieldMapping(analyzerName string, store, index bool) *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = analyzerName
	fm.Store = store
	fm.Index = index
	return fm
}

func documents(snap *analyzer.Snapshot) []map[string]interface{} {
	docs := []map[string]interface{}{}
	module := func(file string) string {
		key, _ := snap.ModuleOf(file)
		return key
	}

	for _, e := range snap.Endpoints() {
		docs = append(docs, map[string]interface{}{
			"id":        KindEndpoint + ":" + e.Controller + "." + e.Method,
			"kind":      KindEndpoint,
			"module":    module(e.File),
			"title":     e.HTTPMethod + " " + e.Path,
			"file_path": e.File,
			"text": strings.Join(append([]string{
				e.Controller, e.Method, e.HTTPMethod, e.Path, e.Params,
				strings.Join(e.Roles, " "),
			}, e.Dtos...), " "),
		})
	}

	for _, name := range snap.DtoIndex.Names() {
		entry := snap.DtoIndex[name]
		fields := make([]string, 0, len(entry.Class.Properties)*2)
		for _, p := range entry.Class.Properties {
			fields = append(fields, p.Name, p.TypeAnnotation)
		}
		docs = append(docs, map[string]interface{}{
			"id":        KindDto + ":" + name,
			"kind":      KindDto,
			"module":    module(entry.File),
			"title":     name,
			"file_path": entry.File,
			"text":      name + " " + strings.Join(fields, " "),
		})
	}

	for _, name := range snap.ServiceIndex.Names() {
		svc := snap.ServiceIndex[name]
		methods := make([]string, 0, len(svc.Methods))
		for _, m := range svc.Methods {
			methods = append(methods, m.Name)
		}
		docs = append(docs, map[string]interface{}{
			"id":        KindService + ":" + name,
			"kind":      KindService,
			"module":    module(svc.File),
			"title":     name,
			"file_path": svc.File,
			"text":      name + " " + strings.Join(methods, " "),
		})
	}
	return docs
}

// Search runs a bleve query-string query. Supports field scoping, boolean
// operators, phrases, wildcards and fuzzy terms.
func (ix *Index) Search(ctx context.Context, queryStr string, opts *Options) ([]Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	limit := opts.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	queries := []query.Query{bleve.NewQueryStringQuery(queryStr)}
	if opts.Kind != "" {
		q := bleve.NewTermQuery(opts.Kind)
		q.SetField("kind")
		queries = append(queries, q)
	}
	if opts.Module != "" {
		q := bleve.NewTermQuery(opts.Module)
		q.SetField("module")
		queries = append(queries, q)
	}

	var finalQuery query.Query = queries[0]
	if len(queries) > 1 {
		finalQuery = bleve.NewConjunctionQuery(queries...)
	}

	req := bleve.NewSearchRequestOptions(finalQuery, limit, 0, false)
	req.Fields = []string{"id", "kind", "module", "title", "file_path"}
	req.SortBy([]string{"-_score", "_id"})

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	res, err := ix.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		kind, _ := hit.Fields["kind"].(string)
		module, _ := hit.Fields["module"].(string)
		title, _ := hit.Fields["title"].(string)
		filePath, _ := hit.Fields["file_path"].(string)
		results = append(results, Result{
			ID:       hit.ID,
			Kind:     kind,
			Module:   module,
			Title:    title,
			FilePath: filePath,
			Score:    hit.Score,
		})
	}
	return results, nil
}

// Count returns the number of indexed documents.
func (ix *Index) Count() (uint64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.index.DocCount()
}
