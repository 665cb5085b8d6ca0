package catalog

import (
	"encoding/json"

	"edhserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Card はカタログ照会の結果です。Metadataはこのサーバーでは中身を解釈しません。
type Card struct {
	ExternalID string
	ImageRef   string
	TypeLine   string
	Metadata   interface{}
}

// Lookup はカード名からカタログ情報を引く外部コラボレータのインターフェースです。
// デッキ展開時にのみ使用され、見つからないことはエラーではありません。
type Lookup interface {
	Find(name string) (*Card, bool)
}

// gormCatalog はPostgreSQLのキャッシュテーブルを参照する実装です。
type gormCatalog struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormCatalog(db *gorm.DB, logger *zap.Logger) Lookup {
	return &gormCatalog{db: db, logger: logger}
}

func (c *gormCatalog) Find(name string) (*Card, bool) {
	var row models.CatalogCard
	if err := c.db.Where("name = ?", name).First(&row).Error; err != nil {
		return nil, false
	}

	card := &Card{
		ExternalID: row.ExternalID,
		ImageRef:   row.ImageRef,
		TypeLine:   row.TypeLine,
	}
	if row.MetadataJSON != "" {
		var metadata interface{}
		if err := json.Unmarshal([]byte(row.MetadataJSON), &metadata); err != nil {
			c.logger.Error("Failed to decode catalog metadata", zap.String("name", name), zap.Error(err))
		} else {
			card.Metadata = metadata
		}
	}
	return card, true
}
