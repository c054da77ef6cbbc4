package model

import "time"

// 検索まわりのデフォルト値
const (
	DefaultSearchLimit      = 20
	DefaultDebounceWindow   = 500 * time.Millisecond
	DefaultClusterPrecision = 4
	DefaultViewportPadding  = 0.2
	DefaultViewportMinDelta = 0.01
	DefaultCatalogCacheTTL  = 5 * time.Minute
	SearchFailedMessage     = "Could not load posts"
	UserSearchFailedMessage = "Could not load users"
	MapSearchFailedMessage  = "Could not load map"
	defaultRegionLatitude   = 31.5204
	defaultRegionLongitude  = 74.3587
	defaultRegionLatDelta   = 0.0922
	defaultRegionLngDelta   = 0.0421
)

// DefaultViewport 表示できる投稿が無い場合の地図領域（ラホール中心）
func DefaultViewport() Viewport {
	return Viewport{
		Latitude:       defaultRegionLatitude,
		Longitude:      defaultRegionLongitude,
		LatitudeDelta:  defaultRegionLatDelta,
		LongitudeDelta: defaultRegionLngDelta,
	}
}

// FilterCategoryConstants フィルタカテゴリのID
const (
	CuisineCategoryID   = "cuisine"
	AmenitiesCategoryID = "amenities"
	DietaryCategoryID   = "dietary"
	RatingCategoryID    = "rating"
)

// CategoryNameMap カテゴリIDから表示名へのマッピング
var CategoryNameMap = map[string]string{
	CuisineCategoryID:   "Cuisine",
	AmenitiesCategoryID: "Amenities",
	DietaryCategoryID:   "Dietary",
	RatingCategoryID:    "Rating",
}

// GetCategoryName カテゴリIDから表示名を取得する
func GetCategoryName(categoryID string) string {
	if name, ok := CategoryNameMap[categoryID]; ok {
		return name
	}
	return categoryID // デフォルトはそのまま返す
}

// GetCuisineOptions 料理ジャンルの選択肢
func GetCuisineOptions() []FilterOption {
	return []FilterOption{
		{ID: "desi", Label: "Desi"},
		{ID: "bbq", Label: "BBQ"},
		{ID: "chinese", Label: "Chinese"},
		{ID: "japanese", Label: "Japanese"},
		{ID: "italian", Label: "Italian"},
		{ID: "fast_food", Label: "Fast Food"},
		{ID: "cafe", Label: "Cafe"},
		{ID: "desserts", Label: "Desserts"},
	}
}

// GetAmenityOptions 設備の選択肢
func GetAmenityOptions() []FilterOption {
	return []FilterOption{
		{ID: "outdoor_seating", Label: "Outdoor Seating"},
		{ID: "family_friendly", Label: "Family Friendly"},
		{ID: "parking", Label: "Parking"},
		{ID: "wifi", Label: "Wi-Fi"},
		{ID: "delivery", Label: "Delivery"},
	}
}

// GetDietaryOptions 食事制限の選択肢
func GetDietaryOptions() []FilterOption {
	return []FilterOption{
		{ID: "vegetarian", Label: "Vegetarian"},
		{ID: "vegan", Label: "Vegan"},
		{ID: "gluten_free", Label: "Gluten Free"},
		{ID: "halal", Label: "Halal"},
	}
}

// GetRatingOptions 評価の選択肢（IDの先頭の数字が評価値）
func GetRatingOptions() []FilterOption {
	return []FilterOption{
		{ID: "5star", Label: "5 Stars"},
		{ID: "4star", Label: "4 Stars"},
		{ID: "3star", Label: "3 Stars"},
		{ID: "2star", Label: "2 Stars"},
		{ID: "1star", Label: "1 Star"},
	}
}

// GetDefaultFilterCategories 画面表示時の初期フィルタ構成
func GetDefaultFilterCategories() []FilterCategory {
	return []FilterCategory{
		{ID: CuisineCategoryID, Name: GetCategoryName(CuisineCategoryID), Options: GetCuisineOptions()},
		{ID: AmenitiesCategoryID, Name: GetCategoryName(AmenitiesCategoryID), Options: GetAmenityOptions()},
		{ID: DietaryCategoryID, Name: GetCategoryName(DietaryCategoryID), Options: GetDietaryOptions()},
		{ID: RatingCategoryID, Name: GetCategoryName(RatingCategoryID), Options: GetRatingOptions()},
	}
}
