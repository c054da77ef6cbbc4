package model

// Cluster 座標を丸めたバケット単位のクラスタ
type Cluster struct {
	Key       string   `json:"key"`
	CenterLat float64  `json:"center_lat"`
	CenterLng float64  `json:"center_lng"`
	Count     int      `json:"count"`
	MemberIDs []string `json:"member_ids"`
}

// HeatmapPoint ヒートマップの1点（クラスタ単位）
type HeatmapPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Weight    int     `json:"weight"`    // クラスタの投稿数
	Intensity float64 `json:"intensity"` // 0〜1 に正規化
}

// Viewport 地図の表示領域
type Viewport struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// BoundingBox 地図リクエストの表示範囲
type BoundingBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// MapAggregate 地図表示用の集計結果
type MapAggregate struct {
	Clusters []Cluster      `json:"clusters"`
	Heatmap  []HeatmapPoint `json:"heatmap"`
	Viewport Viewport       `json:"viewport"`
	Plotted  int            `json:"plotted"`
	Dropped  int            `json:"dropped"` // 座標が無く地図から除外した件数
}
