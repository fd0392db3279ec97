package core

import (
	"context"
	"time"
)

// CatalogStore 提供目录全量数据，进程启动时调用一次。
//
// 实现：
//   - sqlstore.Store（bun + sqlite）
type CatalogStore interface {
	// AllItems 按目录顺序返回所有物品，顺序即相似度矩阵的行顺序
	AllItems(ctx context.Context) ([]*Item, error)
}

// PreferencesStore 是问卷偏好的存储接口。
//
// 实现：
//   - sqlstore.Store（quiz_results 表）
//   - store.UserStore（基于 core.KeyValueStore，Redis / Memory）
type PreferencesStore interface {
	// GetPreferences 获取用户偏好
	// 不存在时返回 ErrPreferencesNotFound；blob 无法解析时返回包装了 ErrMalformedPreferences 的错误
	GetPreferences(ctx context.Context, userID string) (*UserPreferences, error)

	// ReplacePreferences 以覆盖语义写入用户偏好
	ReplacePreferences(ctx context.Context, userID string, answers map[string]any) error
}

// Favorite 是用户收藏的一条记录，(UserID, ItemID) 唯一。
type Favorite struct {
	ID        int64     `json:"favorite_id"`
	UserID    string    `json:"user_id"`
	ItemID    int64     `json:"fragrance_id"`
	CreatedAt time.Time `json:"date_added"`
}

// FavoritesStore 是用户收藏的存储接口。
//
// 实现：
//   - sqlstore.Store（favorites 表）
//   - store.UserStore（基于 core.KeyValueStore，收藏 ID 即物品 ID）
type FavoritesStore interface {
	// ListFavorites 按加入顺序返回收藏的物品 ID（不截断，调用方自行限制数量）
	ListFavorites(ctx context.Context, userID string) ([]int64, error)

	// Favorites 按加入顺序返回收藏记录
	Favorites(ctx context.Context, userID string) ([]*Favorite, error)

	// AddFavorite 幂等添加：已存在时返回原记录，created 为 false
	AddFavorite(ctx context.Context, userID string, itemID int64) (fav *Favorite, created bool, err error)

	// GetFavorite 查询用户是否收藏了某个物品，未收藏返回 ErrFavoriteNotFound
	GetFavorite(ctx context.Context, userID string, itemID int64) (*Favorite, error)

	// RemoveFavorite 按收藏 ID 删除，不存在返回 ErrFavoriteNotFound
	RemoveFavorite(ctx context.Context, userID string, favoriteID int64) error
}

// UserStore 同时提供偏好与收藏。
type UserStore interface {
	PreferencesStore
	FavoritesStore
}
