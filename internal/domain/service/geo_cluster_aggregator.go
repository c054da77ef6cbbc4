package service

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"Foodie-App/internal/domain/model"
)

// ClusterCenterMode クラスタ中心の決め方
type ClusterCenterMode int

const (
	// CenterCentroid メンバー座標の平均
	CenterCentroid ClusterCenterMode = iota
	// CenterFirstMember バケットに最初に入った投稿の座標
	CenterFirstMember
)

// GeoClusterOptions 集計の設定
type GeoClusterOptions struct {
	Precision       int     // 丸める小数点以下の桁数（4桁で約11m）
	Padding         float64 // 表示領域に足す余白の割合
	MinDelta        float64 // 1点だけの場合などに使う最小の表示幅
	CenterMode      ClusterCenterMode
	DefaultViewport model.Viewport
}

// DefaultGeoClusterOptions デフォルト設定
func DefaultGeoClusterOptions() GeoClusterOptions {
	return GeoClusterOptions{
		Precision:       model.DefaultClusterPrecision,
		Padding:         model.DefaultViewportPadding,
		MinDelta:        model.DefaultViewportMinDelta,
		CenterMode:      CenterCentroid,
		DefaultViewport: model.DefaultViewport(),
	}
}

// GeoClusterAggregator 座標を丸めたバケットで投稿をクラスタリングする
// 距離ベースではないため、境界をまたぐ近接点は別クラスタになり得る
type GeoClusterAggregator struct {
	opts GeoClusterOptions
}

// NewGeoClusterAggregator 新しい GeoClusterAggregator を作成
func NewGeoClusterAggregator(opts GeoClusterOptions) *GeoClusterAggregator {
	if opts.Precision < 0 {
		opts.Precision = model.DefaultClusterPrecision
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	if opts.MinDelta <= 0 {
		opts.MinDelta = model.DefaultViewportMinDelta
	}
	return &GeoClusterAggregator{opts: opts}
}

// RoundCoordinate JavaScript の Math.round と同じく 0.5 を正の方向へ丸める
func RoundCoordinate(value float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Floor(value*factor+0.5) / factor
}

// ClusterKey "31.5204_74.3587" 形式のバケットキー
func ClusterKey(lat, lng float64, precision int) string {
	return strconv.FormatFloat(RoundCoordinate(lat, precision), 'f', -1, 64) +
		"_" +
		strconv.FormatFloat(RoundCoordinate(lng, precision), 'f', -1, 64)
}

type clusterBucket struct {
	cluster model.Cluster
	sumLat  float64
	sumLng  float64
}

// Aggregate 座標付きの投稿をクラスタ・ヒートマップ・表示領域に集計する
func (a *GeoClusterAggregator) Aggregate(items []model.ContentItem) model.MapAggregate {
	result := model.MapAggregate{
		Clusters: []model.Cluster{},
		Heatmap:  []model.HeatmapPoint{},
	}

	buckets := make(map[string]*clusterBucket)
	order := []string{}
	points := make([]orb.Point, 0, len(items))

	for _, item := range items {
		if !item.HasCoordinates() {
			result.Dropped++
			continue
		}
		lat, lng := item.Coordinates.Lat, item.Coordinates.Lng
		points = append(points, orb.Point{lng, lat})

		key := ClusterKey(lat, lng, a.opts.Precision)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &clusterBucket{
				cluster: model.Cluster{
					Key:       key,
					CenterLat: lat,
					CenterLng: lng,
					MemberIDs: []string{},
				},
			}
			buckets[key] = bucket
			order = append(order, key)
		}
		bucket.cluster.Count++
		bucket.cluster.MemberIDs = append(bucket.cluster.MemberIDs, item.ID)
		bucket.sumLat += lat
		bucket.sumLng += lng
	}

	result.Plotted = len(points)

	maxWeight := 0
	for _, key := range order {
		bucket := buckets[key]
		if a.opts.CenterMode == CenterCentroid {
			n := float64(bucket.cluster.Count)
			bucket.cluster.CenterLat = bucket.sumLat / n
			bucket.cluster.CenterLng = bucket.sumLng / n
		}
		result.Clusters = append(result.Clusters, bucket.cluster)
		if bucket.cluster.Count > maxWeight {
			maxWeight = bucket.cluster.Count
		}
	}

	for _, c := range result.Clusters {
		result.Heatmap = append(result.Heatmap, model.HeatmapPoint{
			Lat:       c.CenterLat,
			Lng:       c.CenterLng,
			Weight:    c.Count,
			Intensity: float64(c.Count) / float64(maxWeight),
		})
	}

	result.Viewport = a.Viewport(points)
	return result
}

// Viewport 全ての点を含む表示領域を計算する。点が無い場合はデフォルト領域
func (a *GeoClusterAggregator) Viewport(points []orb.Point) model.Viewport {
	if len(points) == 0 {
		return a.opts.DefaultViewport
	}

	bound := orb.Bound{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		bound = bound.Extend(p)
	}

	center := bound.Center()
	latDelta := (bound.Max.Lat() - bound.Min.Lat()) * (1 + a.opts.Padding)
	lngDelta := (bound.Max.Lon() - bound.Min.Lon()) * (1 + a.opts.Padding)

	return model.Viewport{
		Latitude:       center.Lat(),
		Longitude:      center.Lon(),
		LatitudeDelta:  math.Max(latDelta, a.opts.MinDelta),
		LongitudeDelta: math.Max(lngDelta, a.opts.MinDelta),
	}
}

// FilterByBounds 表示範囲外の投稿を除く。座標の無い投稿はそのまま残す（地図集計で除外される）
func FilterByBounds(items []model.ContentItem, box *model.BoundingBox) []model.ContentItem {
	if box == nil {
		return items
	}
	bound := orb.Bound{
		Min: orb.Point{box.MinLng, box.MinLat},
		Max: orb.Point{box.MaxLng, box.MaxLat},
	}

	filtered := make([]model.ContentItem, 0, len(items))
	for _, item := range items {
		if item.HasCoordinates() && !bound.Contains(orb.Point{item.Coordinates.Lng, item.Coordinates.Lat}) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
