// Package scentkit 是一个香水混合推荐服务（scent recommender kit）。
//
// 设计要点：
// - Pipeline-first: 推荐流程由 Node 串联（Recall → Rank → ReRank），见 recommend.Engine
// - 多信号融合: 标题内容相似、问卷偏好、收藏相似三路并发召回，按物品合并取最大权重
// - Labels-first: 候选携带来源与相似度 label，便于 explain / 观测
package scentkit

import (
	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/pipeline"
	"github.com/rushteam/scentkit/recommend"
)

// 轻量 facade：便于直接 import "scentkit" 使用核心抽象。
type (
	Engine      = recommend.Engine
	RankRequest = core.RankRequest
	RankedPage  = core.RankedPage
	Item        = core.Item
	Pipeline    = pipeline.Pipeline
	Node        = pipeline.Node
	Kind        = pipeline.Kind
)

const (
	KindRecall = pipeline.KindRecall
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)

// NewEngine 是 recommend.New 的别名。
var NewEngine = recommend.New
