package service

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"Foodie-App/internal/domain/model"
)

// ClustersToFeatureCollection クラスタを GeoJSON の Point フィーチャーに変換する
// 地図ライブラリにそのまま渡せるよう、件数とヒートマップの強度をプロパティに入れる
func ClustersToFeatureCollection(aggregate model.MapAggregate) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	intensity := make(map[string]float64, len(aggregate.Heatmap))
	for i, h := range aggregate.Heatmap {
		if i < len(aggregate.Clusters) {
			intensity[aggregate.Clusters[i].Key] = h.Intensity
		}
	}

	for _, c := range aggregate.Clusters {
		f := geojson.NewFeature(orb.Point{c.CenterLng, c.CenterLat})
		f.ID = c.Key
		f.Properties["key"] = c.Key
		f.Properties["count"] = c.Count
		f.Properties["member_ids"] = c.MemberIDs
		f.Properties["intensity"] = intensity[c.Key]
		fc.Append(f)
	}

	return fc
}
