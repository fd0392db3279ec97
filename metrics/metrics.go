// Package metrics 定义推荐服务的 Prometheus 指标，通过 /metrics 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimilarityCacheHits 相似度缓存命中次数
	SimilarityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scentkit_similarity_cache_hits_total",
			Help: "Total number of similarity cache hits",
		},
	)

	// SimilarityCacheMisses 相似度缓存未命中次数
	SimilarityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scentkit_similarity_cache_misses_total",
			Help: "Total number of similarity cache misses",
		},
	)

	// SimilarityCacheEvictions 相似度缓存淘汰次数
	SimilarityCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scentkit_similarity_cache_evictions_total",
			Help: "Total number of similarity cache evictions",
		},
	)

	// RankRequests 按响应类型统计的推荐请求数
	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scentkit_rank_requests_total",
			Help: "Total number of recommendation requests by response type",
		},
		[]string{"type"},
	)

	// RankDuration 一次混合排序的耗时
	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scentkit_rank_duration_seconds",
			Help:    "Duration of hybrid ranking in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
		},
	)

	// SignalCandidates 各信号源产出的候选数
	SignalCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scentkit_signal_candidates_total",
			Help: "Total number of candidates produced per signal source",
		},
		[]string{"source"},
	)

	// SignalErrors 各信号源读取协作方失败的次数（已降级处理）
	SignalErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scentkit_signal_errors_total",
			Help: "Total number of degraded signal lookups per source",
		},
		[]string{"source", "reason"},
	)
)
