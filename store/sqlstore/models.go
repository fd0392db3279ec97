package sqlstore

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/uptrace/bun"

	"github.com/rushteam/scentkit/core"
)

// fragrance 是目录表的一行。accord / perfumer 以原始文本保存，加载时由 core.ParseAccords 归一。
type fragrance struct {
	bun.BaseModel `bun:"table:fragrances,alias:f"`

	ID          int64   `bun:"id,pk"`
	Name        string  `bun:",notnull"`
	Brand       string  `bun:",nullzero"`
	Gender      string  `bun:",nullzero"`
	RatingValue float64 `bun:",notnull,default:0"`
	RatingCount int     `bun:",notnull,default:0"`
	MainAccords string  `bun:",nullzero"`
	Perfumers   string  `bun:",nullzero"`
	Description string  `bun:",nullzero"`
	URL         string  `bun:"url,nullzero"`
}

func (f *fragrance) toItem() *core.Item {
	return &core.Item{
		ID:          f.ID,
		Name:        f.Name,
		Brand:       f.Brand,
		Gender:      f.Gender,
		RatingValue: f.RatingValue,
		RatingCount: f.RatingCount,
		MainAccords: core.ParseAccords(f.MainAccords),
		Perfumers:   core.ParseAccords(f.Perfumers),
		Description: f.Description,
		URL:         f.URL,
	}
}

func fromItem(it *core.Item) (*fragrance, error) {
	accords, err := encodeList(it.MainAccords)
	if err != nil {
		return nil, err
	}
	perfumers, err := encodeList(it.Perfumers)
	if err != nil {
		return nil, err
	}
	return &fragrance{
		ID:          it.ID,
		Name:        it.Name,
		Brand:       it.Brand,
		Gender:      it.Gender,
		RatingValue: it.RatingValue,
		RatingCount: it.RatingCount,
		MainAccords: accords,
		Perfumers:   perfumers,
		Description: it.Description,
		URL:         it.URL,
	}, nil
}

func encodeList(v []string) (string, error) {
	if len(v) == 0 {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// quizResult 每个用户一行，preferences 为扁平答案 JSON
type quizResult struct {
	bun.BaseModel `bun:"table:quiz_results,alias:q"`

	ID          int64     `bun:",pk,autoincrement"`
	UserID      string    `bun:",unique,notnull"`
	Preferences string    `bun:",notnull"`
	UpdatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// favorite (user_id, fragrance_id) 唯一
type favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:fav"`

	ID          int64     `bun:",pk,autoincrement"`
	UserID      string    `bun:",notnull,unique:user_fragrance"`
	FragranceID int64     `bun:",notnull,unique:user_fragrance"`
	DateAdded   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

func (f *favorite) toCore() *core.Favorite {
	return &core.Favorite{
		ID:        f.ID,
		UserID:    f.UserID,
		ItemID:    f.FragranceID,
		CreatedAt: f.DateAdded,
	}
}
