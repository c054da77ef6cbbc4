package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"Foodie-App/internal/domain/model"
)

// locationDB location カラム（JSONB）の生の形
// アプリのバージョンによって緯度経度が数値と文字列の両方で保存されている
type locationDB struct {
	Address   string          `json:"address"`
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
	Country   string          `json:"country"`
}

// ParseLocationJSON location カラムを model.LocationJSON に変換する
func ParseLocationJSON(raw []byte) (*model.LocationJSON, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var loc locationDB
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
	}

	return &model.LocationJSON{
		Address:   loc.Address,
		Latitude:  parseCoordinate(loc.Latitude),
		Longitude: parseCoordinate(loc.Longitude),
		Country:   loc.Country,
	}, nil
}

// parseCoordinate 数値・数値文字列のどちらも受け付ける。解釈できなければ nil
func parseCoordinate(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// LocationToPoint 座標が揃っていれば orb.Point（経度, 緯度）を返す
func LocationToPoint(loc *model.LocationJSON) (orb.Point, bool) {
	if loc == nil || loc.Latitude == nil || loc.Longitude == nil {
		return orb.Point{}, false
	}
	point := orb.Point{*loc.Longitude, *loc.Latitude}
	coords := model.Coordinates{Lat: point.Lat(), Lng: point.Lon()}
	if !coords.Valid() {
		return orb.Point{}, false
	}
	return point, true
}

// normalizeCoordinates 範囲外・片方だけの座標は地図に出せないので両方とも外す
func normalizeCoordinates(loc *model.LocationJSON) {
	if loc == nil {
		return
	}
	point, ok := LocationToPoint(loc)
	if !ok {
		loc.Latitude, loc.Longitude = nil, nil
		return
	}
	lat, lng := point.Lat(), point.Lon()
	loc.Latitude, loc.Longitude = &lat, &lng
}

// contentRowDB Supabase REST から返る reviews / own_reviews の行
type contentRowDB struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UserID    string          `json:"user_id"`
	Rating    *float64        `json:"rating"`
	AllTags   []string        `json:"all_tags"`
	Location  json.RawMessage `json:"location"`
	Review    *string         `json:"review"`
	Caption   *string         `json:"caption"`
	DishName  *string         `json:"dish_name"`
	Anonymous *bool           `json:"anonymous"`
	Tags      json.RawMessage `json:"tags"`
}

// toContentRow NULL や揺れのある値を正規化して model.ContentRow にする
func (r *contentRowDB) toContentRow() (*model.ContentRow, error) {
	location, err := ParseLocationJSON(r.Location)
	if err != nil {
		return nil, fmt.Errorf("投稿 %s: %w", r.ID, err)
	}
	normalizeCoordinates(location)

	tags, err := parseMentionTags(r.Tags)
	if err != nil {
		return nil, fmt.Errorf("投稿 %s: %w", r.ID, err)
	}

	row := &model.ContentRow{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UserID:    r.UserID,
		AllTags:   r.AllTags,
		Location:  location,
		Review:    derefString(r.Review),
		Caption:   derefString(r.Caption),
		DishName:  derefString(r.DishName),
		Tags:      tags,
	}
	if r.Rating != nil {
		row.Rating = *r.Rating
	}
	if r.Anonymous != nil {
		row.Anonymous = *r.Anonymous
	}
	return row, nil
}

// parseMentionTags tags カラム（文字列とユーザーオブジェクトの混在配列）を読み込む
func parseMentionTags(raw []byte) ([]model.Tag, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var tags []model.Tag
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("tags JSONBパースエラー: %w", err)
	}
	return tags, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
