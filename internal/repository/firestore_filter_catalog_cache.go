package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
)

const (
	filterCatalogCollection = "filterCatalog"
	filterCatalogDocument   = "current"
)

// firestoreFilterCatalog Firestore に保存するドキュメント
// expireAt は Firestore の TTL ポリシーにも使う
type firestoreFilterCatalog struct {
	Categories string    `firestore:"categories"`
	UpdatedAt  time.Time `firestore:"updatedAt"`
	ExpireAt   time.Time `firestore:"expireAt"`
}

// FirestoreFilterCatalogCache Firestoreを使用したフィルタカタログのキャッシュ
type FirestoreFilterCatalogCache struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreFilterCatalogCache 新しいFirestoreFilterCatalogCacheインスタンスを作成
func NewFirestoreFilterCatalogCache(client *firestore.Client) repository.FilterCatalogCacheRepository {
	return &FirestoreFilterCatalogCache{
		client: client,
		now:    time.Now,
	}
}

func (c *FirestoreFilterCatalogCache) doc() *firestore.DocumentRef {
	return c.client.Collection(filterCatalogCollection).Doc(filterCatalogDocument)
}

func (c *FirestoreFilterCatalogCache) Get(ctx context.Context) ([]model.FilterCategory, bool, error) {
	snap, err := c.doc().Get(ctx)
	if err != nil {
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("フィルタカタログの取得に失敗しました: %w", err)
	}

	var stored firestoreFilterCatalog
	if err := snap.DataTo(&stored); err != nil {
		return nil, false, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	// TTL ポリシーによる削除は遅れることがあるので読み込み時にも期限を確認する
	if !c.now().Before(stored.ExpireAt) {
		return nil, false, nil
	}

	var categories []model.FilterCategory
	if err := json.Unmarshal([]byte(stored.Categories), &categories); err != nil {
		return nil, false, fmt.Errorf("フィルタカタログのJSONアンマーシャル失敗: %w", err)
	}
	return categories, true, nil
}

func (c *FirestoreFilterCatalogCache) Set(ctx context.Context, categories []model.FilterCategory, ttl time.Duration) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("フィルタカタログのJSONマーシャル失敗: %w", err)
	}

	now := c.now()
	_, err = c.doc().Set(ctx, firestoreFilterCatalog{
		Categories: string(payload),
		UpdatedAt:  now,
		ExpireAt:   now.Add(ttl),
	})
	if err != nil {
		log.Printf("❌ Failed to save filter catalog: %v", err)
		return fmt.Errorf("フィルタカタログの保存に失敗しました: %w", err)
	}

	log.Printf("✅ Filter catalog saved to Firestore (expires in %s)", ttl)
	return nil
}

func (c *FirestoreFilterCatalogCache) Invalidate(ctx context.Context) error {
	if _, err := c.doc().Delete(ctx); err != nil {
		return fmt.Errorf("フィルタカタログの削除に失敗しました: %w", err)
	}
	return nil
}
