// Package sqlstore 是基于 bun 的关系型存储，提供目录、问卷偏好与收藏。
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"

	"github.com/rushteam/scentkit/core"
)

var (
	_ core.CatalogStore = (*Store)(nil)
	_ core.UserStore    = (*Store)(nil)
)

type Store struct {
	db *bun.DB
}

// Open 打开 sqlite 数据库（dsn 例如 "scentkit.db" 或 "file:test?mode=memory&cache=shared"）并建表。
func Open(ctx context.Context, dsn string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite 只允许单写者
	sqldb.SetMaxOpenConns(1)

	s, err := New(ctx, sqldb, sqlitedialect.New())
	if err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return s, nil
}

// New 使用已有连接和方言创建 Store，并在表不存在时建表。
func New(ctx context.Context, sqldb *sql.DB, dialect schema.Dialect) (*Store, error) {
	db := bun.NewDB(sqldb, dialect)

	if _, err := db.NewCreateTable().Model((*fragrance)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create fragrances table: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*quizResult)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create quiz_results table: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*favorite)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create favorites table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) DB() *bun.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// CatalogStore Implementation

func (s *Store) AllItems(ctx context.Context) ([]*core.Item, error) {
	var rows []*fragrance
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select fragrances: %w", err)
	}
	items := make([]*core.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toItem())
	}
	return items, nil
}

// SaveItems 按 ID 写入或更新目录物品。
func (s *Store) SaveItems(ctx context.Context, items []*core.Item) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]*fragrance, 0, len(items))
	for _, it := range items {
		r, err := fromItem(it)
		if err != nil {
			return fmt.Errorf("encode fragrance %d: %w", it.ID, err)
		}
		rows = append(rows, r)
	}

	q := s.db.NewInsert().Model(&rows).On("CONFLICT (id) DO UPDATE")
	for _, col := range []string{"name", "brand", "gender", "rating_value", "rating_count", "main_accords", "perfumers", "description", "url"} {
		q = q.Set(col + " = EXCLUDED." + col)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("save fragrances: %w", err)
	}
	return nil
}

// PreferencesStore Implementation

func (s *Store) GetPreferences(ctx context.Context, userID string) (*core.UserPreferences, error) {
	row := new(quizResult)
	if err := s.db.NewSelect().Model(row).Where("user_id = ?", userID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("select quiz result: %w", err)
	}
	prefs, err := core.ParsePreferences(userID, []byte(row.Preferences))
	if err != nil {
		return nil, err
	}
	prefs.UpdatedAt = row.UpdatedAt
	return prefs, nil
}

func (s *Store) ReplacePreferences(ctx context.Context, userID string, answers map[string]any) error {
	blob, err := core.EncodePreferences(answers)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	row := &quizResult{
		UserID:      userID,
		Preferences: string(blob),
		UpdatedAt:   time.Now().UTC(),
	}
	_, err = s.db.NewInsert().Model(row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("preferences = EXCLUDED.preferences").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert quiz result: %w", err)
	}
	return nil
}

// FavoritesStore Implementation

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := s.db.NewSelect().Model((*favorite)(nil)).
		Column("fragrance_id").
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	return ids, nil
}

func (s *Store) Favorites(ctx context.Context, userID string) ([]*core.Favorite, error) {
	var rows []*favorite
	if err := s.db.NewSelect().Model(&rows).Where("user_id = ?", userID).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	out := make([]*core.Favorite, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID string, itemID int64) (*core.Favorite, bool, error) {
	var (
		fav     *core.Favorite
		created bool
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := favoriteByItem(ctx, tx, userID, itemID)
		if err == nil {
			fav = existing.toCore()
			return nil
		}
		if !errors.Is(err, core.ErrFavoriteNotFound) {
			return err
		}

		row := &favorite{
			UserID:      userID,
			FragranceID: itemID,
			DateAdded:   time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert favorite: %w", err)
		}
		fav, created = row.toCore(), true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return fav, created, nil
}

func (s *Store) GetFavorite(ctx context.Context, userID string, itemID int64) (*core.Favorite, error) {
	row, err := favoriteByItem(ctx, s.db, userID, itemID)
	if err != nil {
		return nil, err
	}
	return row.toCore(), nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID string, favoriteID int64) error {
	res, err := s.db.NewDelete().Model((*favorite)(nil)).
		Where("id = ? AND user_id = ?", favoriteID, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrFavoriteNotFound
	}
	return nil
}

func favoriteByItem(ctx context.Context, db bun.IDB, userID string, itemID int64) (*favorite, error) {
	row := new(favorite)
	err := db.NewSelect().Model(row).
		Where("user_id = ? AND fragrance_id = ?", userID, itemID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("select favorite: %w", err)
	}
	return row, nil
}
