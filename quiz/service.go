package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/scentkit/core"
)

// Recommender 是问卷提交后生成推荐的下游（recommend.Engine 实现）。
type Recommender interface {
	Rank(ctx context.Context, req core.RankRequest) (*core.RankedPage, error)
}

// Service 负责问卷的开始与提交，偏好以覆盖语义写入 PreferencesStore。
type Service struct {
	store       core.PreferencesStore
	recommender Recommender
	perPage     int
	logger      zerolog.Logger
}

type ServiceOption func(*Service)

func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithPerPage 设置提交后返回的推荐个数。
func WithPerPage(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.perPage = n
		}
	}
}

func NewService(store core.PreferencesStore, rec Recommender, opts ...ServiceOption) *Service {
	s := &Service{
		store:       store,
		recommender: rec,
		perPage:     core.DefaultRankConfig().DefaultPerPage,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "quiz").Logger()
	return s
}

// Start 校验等级，用 {experience_level} 覆盖用户已有的偏好记录，返回该等级的题目。
func (s *Service) Start(ctx context.Context, userID, level string) ([]Question, error) {
	tier, err := core.ParseTier(level)
	if err != nil {
		return nil, err
	}
	answers := map[string]any{core.KeyExperienceLevel: string(tier)}
	if err := s.store.ReplacePreferences(ctx, userID, answers); err != nil {
		return nil, fmt.Errorf("replace preferences: %w", err)
	}
	s.logger.Debug().Str("user_id", userID).Str("level", string(tier)).Msg("quiz started")
	return Questions(tier), nil
}

// Submit 把答案合并进已开始的问卷记录并写回，然后返回第一页推荐。
func (s *Service) Submit(ctx context.Context, userID string, answers map[string]any) (*core.RankedPage, error) {
	if len(answers) == 0 {
		return nil, core.ErrAnswersRequired
	}

	prefs, err := s.store.GetPreferences(ctx, userID)
	switch {
	case errors.Is(err, core.ErrPreferencesNotFound):
		return nil, core.ErrQuizNotStarted
	case errors.Is(err, core.ErrMalformedPreferences):
		// 旧记录已损坏，需要重新开始
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("stored preferences malformed")
		return nil, core.ErrQuizNotStarted
	case err != nil:
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	merged := make(map[string]any, len(prefs.Raw)+len(answers))
	for k, v := range prefs.Raw {
		merged[k] = v
	}
	for k, v := range answers {
		merged[k] = v
	}
	if _, err := core.PreferencesFromAnswers(userID, merged); err != nil {
		return nil, err
	}

	if err := s.store.ReplacePreferences(ctx, userID, merged); err != nil {
		return nil, fmt.Errorf("replace preferences: %w", err)
	}

	return s.recommender.Rank(ctx, core.RankRequest{
		UserID:  userID,
		Page:    1,
		PerPage: s.perPage,
	})
}

// Replace 用完整的偏好覆盖用户记录（不要求先 Start），然后返回第一页推荐。
func (s *Service) Replace(ctx context.Context, userID string, prefs map[string]any) (*core.RankedPage, error) {
	if len(prefs) == 0 {
		return nil, core.ErrAnswersRequired
	}
	if _, err := core.PreferencesFromAnswers(userID, prefs); err != nil {
		return nil, err
	}
	if err := s.store.ReplacePreferences(ctx, userID, prefs); err != nil {
		return nil, fmt.Errorf("replace preferences: %w", err)
	}
	return s.recommender.Rank(ctx, core.RankRequest{
		UserID:  userID,
		Page:    1,
		PerPage: s.perPage,
	})
}
