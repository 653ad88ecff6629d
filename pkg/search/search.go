package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// TipDocument 建索引的安全贴士文档
type TipDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Hit 一条命中结果
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Engine 基于 bleve 的贴士全文检索
type Engine struct {
	index bleve.Index
}

// NewEngine 创建检索引擎，path 为空时使用内存索引
func NewEngine(path string) (*Engine, error) {
	m := buildMapping()

	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(m)
	} else {
		idx, err = bleve.New(path, m)
		if err == bleve.ErrorIndexPathExists {
			idx, err = bleve.Open(path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open tips index: %w", err)
	}
	return &Engine{index: idx}, nil
}

func buildMapping() mapping.IndexMapping {
	tipMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	tipMapping.AddFieldMappingsAt("title", textField)
	tipMapping.AddFieldMappingsAt("content", textField)

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = "keyword"
	tipMapping.AddFieldMappingsAt("category", keywordField)

	m := bleve.NewIndexMapping()
	m.AddDocumentMapping("tip", tipMapping)
	m.DefaultType = "tip"
	return m
}

// IndexTips 批量建索引
func (e *Engine) IndexTips(docs []TipDocument) error {
	batch := e.index.NewBatch()
	for _, d := range docs {
		if err := batch.Index(d.ID, d); err != nil {
			return err
		}
	}
	return e.index.Batch(batch)
}

// Search 按查询串检索，返回按相关度排序的命中
func (e *Engine) Search(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := e.index.Search(req)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Close 关闭索引
func (e *Engine) Close() error { return e.index.Close() }
