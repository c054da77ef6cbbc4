package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// SourceTable 投稿の保存先テーブル
type SourceTable string

const (
	SourceReviews    SourceTable = "reviews"     // レストランのレビュー
	SourceOwnReviews SourceTable = "own_reviews" // 自炊・ホームメイドのレビュー
)

// AllSourceTables は検索対象となる全テーブル（マージ順）
func AllSourceTables() []SourceTable {
	return []SourceTable{SourceReviews, SourceOwnReviews}
}

// Coordinates 緯度経度
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid 緯度経度が有限かつ範囲内かチェック
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// ContentItem 検索結果として扱う投稿（レビュー）
type ContentItem struct {
	ID           string       `json:"id"`
	Source       SourceTable  `json:"source_table"`
	AuthorID     string       `json:"author_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	LocationText string       `json:"location_text"`
	Country      string       `json:"country,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"` // 座標が無い投稿は地図に出さない
	Rating       float64      `json:"rating"` // 星の数。DB と同じく小数は評価フィルタに一致しない
	AllTags      []string     `json:"all_tags"`
	Caption      string       `json:"caption,omitempty"`
	Review       string       `json:"review,omitempty"`
	DishName     string       `json:"dish_name,omitempty"`
	Anonymous    bool         `json:"anonymous"`
	Mentions     []Tag        `json:"mentions,omitempty"`
}

// HasCoordinates 地図に描画可能か
func (c *ContentItem) HasCoordinates() bool {
	return c.Coordinates != nil && c.Coordinates.Valid()
}

// Public 匿名投稿の場合は投稿者IDを伏せたコピーを返す
func (c ContentItem) Public() ContentItem {
	if c.Anonymous {
		c.AuthorID = ""
	}
	return c
}

// LocationJSON location カラム（JSONB）の形
type LocationJSON struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Country   string   `json:"country,omitempty"`
}

// ContentRow reviews / own_reviews テーブルの行
type ContentRow struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UserID    string        `json:"user_id"`
	Rating    float64       `json:"rating"`
	AllTags   []string      `json:"all_tags"`
	Location  *LocationJSON `json:"location"`
	Review    string        `json:"review"`
	Caption   string        `json:"caption"`
	DishName  string        `json:"dish_name"`
	Anonymous bool          `json:"anonymous"`
	Tags      []Tag         `json:"tags"`
}

// ToContentItem 行をドメインの ContentItem に変換し、取得元テーブルを付与する
func (r *ContentRow) ToContentItem(source SourceTable) ContentItem {
	item := ContentItem{
		ID:        r.ID,
		Source:    source,
		AuthorID:  r.UserID,
		CreatedAt: r.CreatedAt,
		Rating:    r.Rating,
		AllTags:   r.AllTags,
		Caption:   r.Caption,
		Review:    r.Review,
		DishName:  r.DishName,
		Anonymous: r.Anonymous,
		Mentions:  r.Tags,
	}
	if item.AllTags == nil {
		item.AllTags = []string{}
	}

	if r.Location != nil {
		item.LocationText = r.Location.Address
		item.Country = r.Location.Country
		if r.Location.Latitude != nil && r.Location.Longitude != nil {
			coords := Coordinates{Lat: *r.Location.Latitude, Lng: *r.Location.Longitude}
			if coords.Valid() {
				item.Coordinates = &coords
			}
		}
	}

	return item
}

// TagKind メンションタグの種類
type TagKind string

const (
	TagKindPlain TagKind = "plain"
	TagKindUser  TagKind = "user"
)

// TaggedUser ユーザーメンションの中身
type TaggedUser struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Tag 投稿に付いたタグ
// DBには文字列とユーザーオブジェクトが混在して入っているため、読み込み時に Kind で正規化する
type Tag struct {
	Kind  TagKind     `json:"kind"`
	Value string      `json:"value"`
	User  *TaggedUser `json:"user,omitempty"`
}

// UnmarshalJSON 文字列 / ユーザーオブジェクト / 正規化済みの形 のいずれも受け付ける
func (t *Tag) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = Tag{Kind: TagKindPlain, Value: plain}
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("タグの形式が不正です: %w", err)
	}

	if _, ok := raw["kind"]; ok {
		type normalized Tag
		var n normalized
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("タグの形式が不正です: %w", err)
		}
		*t = Tag(n)
		return nil
	}

	var user TaggedUser
	if err := json.Unmarshal(data, &user); err != nil {
		return fmt.Errorf("ユーザータグの形式が不正です: %w", err)
	}
	if user.Username == "" {
		return fmt.Errorf("ユーザータグに username がありません")
	}
	*t = Tag{Kind: TagKindUser, Value: user.Username, User: &user}
	return nil
}
