package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 核心业务指标
var (
	// ChatRequests 聊天请求计数，按模式区分
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granite_chat_requests_total",
		Help: "Total number of chat requests by mode.",
	}, []string{"mode"})

	// DocumentsIngested 入库文档计数
	DocumentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "granite_documents_ingested_total",
		Help: "Total number of documents ingested into the corpus.",
	})

	// ChunksIndexed 已索引分块计数
	ChunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "granite_chunks_indexed_total",
		Help: "Total number of chunks added to the vector index.",
	})

	// CorpusChunks 语料库当前分块数量
	CorpusChunks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "granite_corpus_chunks",
		Help: "Current number of chunks in the in-memory corpus.",
	})

	// SearchRequests 检索请求计数
	SearchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "granite_search_requests_total",
		Help: "Total number of similarity search requests.",
	})
)
