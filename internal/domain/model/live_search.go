package model

// LiveSearchCommandType ライブ検索でクライアントから届くメッセージの種類
type LiveSearchCommandType string

const (
	LiveSearchQuery  LiveSearchCommandType = "query"
	LiveSearchToggle LiveSearchCommandType = "toggle"
	LiveSearchReset  LiveSearchCommandType = "reset"
	LiveSearchRemove LiveSearchCommandType = "remove"
)

// LiveSearchCommand クライアントからのメッセージ
type LiveSearchCommand struct {
	Type       LiveSearchCommandType `json:"type"`
	Text       string                `json:"text,omitempty"`
	CategoryID string                `json:"category_id,omitempty"`
	OptionID   string                `json:"option_id,omitempty"`
	Label      string                `json:"label,omitempty"`
}

// LiveSearchEventType サーバーから送るメッセージの種類
type LiveSearchEventType string

const (
	LiveSearchResults LiveSearchEventType = "results"
	LiveSearchError   LiveSearchEventType = "error"
)

// LiveSearchEvent サーバーから送るメッセージ。Seq は最新のリクエストのものだけが届く
type LiveSearchEvent struct {
	Type          LiveSearchEventType `json:"type"`
	Seq           uint64              `json:"seq"`
	Query         string              `json:"query"`
	ActiveFilters []ActiveFilter      `json:"active_filters"`
	Items         []ContentItem       `json:"items"`
	CountryScoped bool                `json:"country_scoped"`
	Message       string              `json:"message,omitempty"`
}
