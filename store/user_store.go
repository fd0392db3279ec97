package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/scentkit/core"
)

// UserStore 基于 core.KeyValueStore 实现问卷偏好与收藏的存储。
//
// 存储布局：
//   - {prefix}prefs:{uid}    偏好 JSON（覆盖写）
//   - {prefix}fav:{uid}      有序集合，member 为物品 ID，score 为加入时间（微秒，单调递增）
//   - {prefix}fav:{uid}:rec  Hash，field 为物品 ID，value 为收藏记录 JSON
//
// 收藏 ID 即物品 ID。
type UserStore struct {
	kv     core.KeyValueStore
	prefix string

	// 同一进程内串行化收藏写入，保证幂等添加
	mu sync.Mutex
}

type UserStoreOption func(*UserStore)

// WithKeyPrefix 设置 key 前缀，多个服务共用一个 Redis 时使用。
func WithKeyPrefix(prefix string) UserStoreOption {
	return func(s *UserStore) { s.prefix = prefix }
}

func NewUserStore(kv core.KeyValueStore, opts ...UserStoreOption) *UserStore {
	s := &UserStore{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserStore) prefsKey(userID string) string { return s.prefix + "prefs:" + userID }
func (s *UserStore) favKey(userID string) string   { return s.prefix + "fav:" + userID }
func (s *UserStore) recKey(userID string) string   { return s.prefix + "fav:" + userID + ":rec" }

func (s *UserStore) GetPreferences(ctx context.Context, userID string) (*core.UserPreferences, error) {
	blob, err := s.kv.Get(ctx, s.prefsKey(userID))
	if core.IsStoreNotFound(err) {
		return nil, core.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return core.ParsePreferences(userID, blob)
}

func (s *UserStore) ReplacePreferences(ctx context.Context, userID string, answers map[string]any) error {
	blob, err := core.EncodePreferences(answers)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return s.kv.Set(ctx, s.prefsKey(userID), blob)
}

func (s *UserStore) ListFavorites(ctx context.Context, userID string) ([]int64, error) {
	members, err := s.kv.ZRange(ctx, s.favKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	// ZRange 为降序，反转为加入顺序
	ids := make([]int64, 0, len(members))
	for i := len(members) - 1; i >= 0; i-- {
		id, err := strconv.ParseInt(members[i], 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *UserStore) Favorites(ctx context.Context, userID string) ([]*core.Favorite, error) {
	ids, err := s.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Favorite, 0, len(ids))
	for _, id := range ids {
		fav, err := s.GetFavorite(ctx, userID, id)
		if errors.Is(err, core.ErrFavoriteNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, fav)
	}
	return out, nil
}

func (s *UserStore) AddFavorite(ctx context.Context, userID string, itemID int64) (*core.Favorite, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fav, err := s.GetFavorite(ctx, userID, itemID); err == nil {
		return fav, false, nil
	} else if !errors.Is(err, core.ErrFavoriteNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	score, err := s.nextScore(ctx, userID, now)
	if err != nil {
		return nil, false, err
	}

	fav := &core.Favorite{
		ID:        itemID,
		UserID:    userID,
		ItemID:    itemID,
		CreatedAt: now,
	}
	blob, err := json.Marshal(fav)
	if err != nil {
		return nil, false, fmt.Errorf("encode favorite: %w", err)
	}

	member := strconv.FormatInt(itemID, 10)
	if err := s.kv.HSet(ctx, s.recKey(userID), member, blob); err != nil {
		return nil, false, fmt.Errorf("add favorite: %w", err)
	}
	if err := s.kv.ZAdd(ctx, s.favKey(userID), score, member); err != nil {
		return nil, false, fmt.Errorf("add favorite: %w", err)
	}
	return fav, true, nil
}

func (s *UserStore) GetFavorite(ctx context.Context, userID string, itemID int64) (*core.Favorite, error) {
	blob, err := s.kv.HGet(ctx, s.recKey(userID), strconv.FormatInt(itemID, 10))
	if core.IsStoreNotFound(err) {
		return nil, core.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	var fav core.Favorite
	if err := json.Unmarshal(blob, &fav); err != nil {
		return nil, fmt.Errorf("decode favorite: %w", err)
	}
	return &fav, nil
}

func (s *UserStore) RemoveFavorite(ctx context.Context, userID string, favoriteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetFavorite(ctx, userID, favoriteID); err != nil {
		return err
	}
	member := strconv.FormatInt(favoriteID, 10)
	if err := s.kv.ZRem(ctx, s.favKey(userID), member); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if err := s.kv.HDel(ctx, s.recKey(userID), member); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// nextScore 返回严格大于当前最大分数的加入时间分数，保证同一微秒内的多次添加仍有序
func (s *UserStore) nextScore(ctx context.Context, userID string, now time.Time) (float64, error) {
	score := float64(now.UnixMicro())
	last, err := s.kv.ZRange(ctx, s.favKey(userID), 0, 0)
	if err != nil {
		return 0, fmt.Errorf("read favorites: %w", err)
	}
	if len(last) == 0 {
		return score, nil
	}
	top, err := s.kv.ZScore(ctx, s.favKey(userID), last[0])
	if err != nil && !core.IsStoreNotFound(err) {
		return 0, fmt.Errorf("read favorites: %w", err)
	}
	if score <= top {
		score = top + 1
	}
	return score, nil
}
