package usecase

import (
	"context"
	"log"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/service"
)

type MapUseCase interface {
	// GetFoodMap 検索結果をクラスタ・ヒートマップ・表示領域に集計する
	GetFoodMap(ctx context.Context, req *model.MapSearchRequest) (*model.MapSearchResponse, error)
}

// mapUseCaseImpl はMapUseCaseの実装
type mapUseCaseImpl struct {
	searcher   *PostSearcher
	aggregator *service.GeoClusterAggregator
}

// NewMapUseCase は新しいMapUseCaseインスタンスを作成
func NewMapUseCase(searcher *PostSearcher, aggregator *service.GeoClusterAggregator) MapUseCase {
	return &mapUseCaseImpl{
		searcher:   searcher,
		aggregator: aggregator,
	}
}

func (u *mapUseCaseImpl) GetFoodMap(ctx context.Context, req *model.MapSearchRequest) (*model.MapSearchResponse, error) {
	result, err := u.searcher.Search(ctx, &req.PostSearchRequest)
	if err != nil {
		log.Printf("❌ 地図用の投稿検索に失敗: %v", err)
		return &model.MapSearchResponse{
			MapAggregate: u.aggregator.Aggregate(nil),
			Message:      model.MapSearchFailedMessage,
		}, err
	}

	items := service.FilterByBounds(result.Items, req.Bounds)
	aggregate := u.aggregator.Aggregate(items)
	log.Printf("🗺️ 地図集計完了: クラスタ %d件, 描画 %d件, 座標なし %d件", len(aggregate.Clusters), aggregate.Plotted, aggregate.Dropped)

	return &model.MapSearchResponse{MapAggregate: aggregate}, nil
}
