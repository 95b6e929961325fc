package controllers

import (
	"github.com/granitehub/backend-go/app/bootstrap"
	"github.com/granitehub/backend-go/internal/knowledge"
	"github.com/granitehub/backend-go/internal/metrics"
)

// SearchController 检索控制器
type SearchController struct {
	BaseController
	engine *knowledge.SearchEngine
}

func (c *SearchController) Prepare() {
	if c.engine == nil {
		c.engine = bootstrap.GetApp().SearchEngine
	}
}

// searchRequest 检索请求
type searchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k" validate:"omitempty,min=1"`
}

// POST /api/search
func (c *SearchController) Search() {
	var req searchRequest
	if !c.BindJSON(&req) {
		return
	}
	if req.TopK == 0 {
		req.TopK = knowledge.DefaultTopK
	}

	metrics.SearchRequests.Inc()

	results, err := c.engine.Query(c.Ctx.Request.Context(), req.Query, req.TopK)
	if err != nil {
		c.HandleServiceError(err)
		return
	}
	if results == nil {
		results = []knowledge.QueryResult{}
	}

	c.JSONSuccess(map[string]interface{}{
		"results": results,
		"query":   req.Query,
	})
}

// GET /api/corpus/stats
func (c *SearchController) CorpusStats() {
	app := bootstrap.GetApp()
	c.JSONSuccess(map[string]interface{}{
		"chunks":    app.Corpus.Size(),
		"dimension": app.Corpus.Dim(),
	})
}
