package model

// PostSearchRequest 投稿検索リクエスト
type PostSearchRequest struct {
	ViewerID   string          `json:"viewer_id"`
	SearchText string          `json:"search_text"`
	Selection  FilterSelection `json:"selection"`
	Limit      int             `json:"limit"`
}

// PostSearchResponse 投稿検索レスポンス
// 失敗時も Items は空配列で返し、Message に固定の文言を入れる
type PostSearchResponse struct {
	Items         []ContentItem `json:"items"`
	Count         int           `json:"count"`
	CountryScoped bool          `json:"country_scoped"`
	Message       string        `json:"message,omitempty"`
}

// MapSearchRequest 地図検索リクエスト
type MapSearchRequest struct {
	PostSearchRequest
	Bounds *BoundingBox `json:"bounds,omitempty"`
}

// MapSearchResponse 地図検索レスポンス
type MapSearchResponse struct {
	MapAggregate
	Message string `json:"message,omitempty"`
}

// UserProfile ユーザー検索結果
type UserProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url,omitempty"`
}

// UserSearchResponse ユーザー検索レスポンス
type UserSearchResponse struct {
	Users   []UserProfile `json:"users"`
	Message string        `json:"message,omitempty"`
}

// ViewerProfile 閲覧者のプロフィール（絞り込みのヒントのみ）
type ViewerProfile struct {
	ID              string `json:"id"`
	PriorityCountry string `json:"priority_country"`
}
