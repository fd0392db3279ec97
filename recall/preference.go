package recall

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/metrics"
	"github.com/rushteam/scentkit/quiz"
)

// Preference 是基于问卷偏好的召回：调用 quiz.Scorer 打分，
// 权重为 QuizBaseWeight + QuizStepWeight × 分数。
//
// 用户没有偏好记录时不产出候选；记录无法解析时按没有偏好处理，并记录 warn 日志。
type Preference struct {
	Store  core.PreferencesStore
	Scorer *quiz.Scorer
	Rank   core.RankConfig
}

func (r *Preference) Name() string { return string(core.SourceQuiz) }

func (r *Preference) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	if r.Store == nil || r.Scorer == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	prefs, err := r.Store.GetPreferences(ctx, rctx.UserID)
	switch {
	case errors.Is(err, core.ErrPreferencesNotFound):
		return nil, nil
	case errors.Is(err, core.ErrMalformedPreferences):
		metrics.SignalErrors.WithLabelValues(r.Name(), "malformed").Inc()
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("user_id", rctx.UserID).
			Msg("malformed preferences ignored")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	scored := r.Scorer.ScoreAll(ctx, prefs)
	out := make([]*core.Candidate, 0, len(scored))
	for _, c := range scored {
		w := core.NewCandidate(c.Item, r.Rank.QuizWeight(c.Score), core.SourceQuiz)
		for k, v := range c.Labels {
			w.PutLabel(k, v)
		}
		out = append(out, w)
	}
	return out, nil
}
