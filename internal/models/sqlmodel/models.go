package sqlmodel

import (
	"time"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"github.com/pkg/errors"
)

// Resource 定义了数据库表 resources，用于读写已发布的学习资源。
type Resource struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	Title       string    `gorm:"type:VARCHAR(255) NOT NULL"`
	Subject     string    `gorm:"type:VARCHAR(255) NOT NULL"`
	Price       uint64    `gorm:"not null"`
	FileID      string    `gorm:"type:VARCHAR(64) NOT NULL"`
	TokenID     string    `gorm:"type:VARCHAR(64) NOT NULL"`
	OwnerID     string    `gorm:"type:VARCHAR(64) NOT NULL;index"`
	Size        uint64    `gorm:"not null"`
	Hash        string    `gorm:"type:VARCHAR(64) NOT NULL"`
	TimeCreated time.Time `gorm:"not null"`
}

// Purchase 定义了数据库表 purchases。(resource_id, buyer_id) 上建有索引以便鉴权查询。
type Purchase struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false"`
	ResourceID    int64     `gorm:"not null;index:idx_purchase_resource_buyer"`
	BuyerID       string    `gorm:"type:VARCHAR(64) NOT NULL;index:idx_purchase_resource_buyer"`
	Amount        uint64    `gorm:"not null"`
	TransactionID string    `gorm:"type:VARCHAR(128) NOT NULL"`
	TimeCreated   time.Time `gorm:"not null"`
}

// OrphanedArtifact 定义了数据库表 orphaned_artifacts，记录中途失败的发布在账本上留下的文件与代币。
type OrphanedArtifact struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	FileID      string    `gorm:"type:VARCHAR(64)"`
	TokenID     string    `gorm:"type:VARCHAR(64)"`
	FailedStep  string    `gorm:"type:VARCHAR(32) NOT NULL"`
	Reason      string    `gorm:"type:TEXT"`
	OwnerID     string    `gorm:"type:VARCHAR(64) NOT NULL"`
	Title       string    `gorm:"type:VARCHAR(255) NOT NULL"`
	TimeCreated time.Time `gorm:"not null"`
}

// ToModel 将一个 `sqlmodel.Resource` 对象转为 `common.Resource` 对象。
func (r *Resource) ToModel() *common.Resource {
	return &common.Resource{
		ID:        parseInt64ToSnowflakeString(r.ID),
		Title:     r.Title,
		Subject:   r.Subject,
		Price:     r.Price,
		FileID:    r.FileID,
		TokenID:   r.TokenID,
		OwnerID:   r.OwnerID,
		Size:      r.Size,
		Hash:      r.Hash,
		Timestamp: r.TimeCreated,
	}
}

// NewResourceFromModel 通过 `common.Resource` 对象创建一个 `sqlmodel.Resource` 对象。
func NewResourceFromModel(model *common.Resource) (*Resource, error) {
	id, err := parseSnowflakeStringToInt64(model.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "无法转换资源对象为数据库对象: id: %v", model.ID)
	}

	return &Resource{
		ID:          id,
		Title:       model.Title,
		Subject:     model.Subject,
		Price:       model.Price,
		FileID:      model.FileID,
		TokenID:     model.TokenID,
		OwnerID:     model.OwnerID,
		Size:        model.Size,
		Hash:        model.Hash,
		TimeCreated: model.Timestamp,
	}, nil
}

// ToModel 将一个 `sqlmodel.Purchase` 对象转为 `common.PurchaseRecord` 对象。
func (p *Purchase) ToModel() *common.PurchaseRecord {
	return &common.PurchaseRecord{
		ID:            parseInt64ToSnowflakeString(p.ID),
		ResourceID:    parseInt64ToSnowflakeString(p.ResourceID),
		BuyerID:       p.BuyerID,
		Amount:        p.Amount,
		TransactionID: p.TransactionID,
		Timestamp:     p.TimeCreated,
	}
}

// NewPurchaseFromModel 通过 `common.PurchaseRecord` 对象创建一个 `sqlmodel.Purchase` 对象。
func NewPurchaseFromModel(model *common.PurchaseRecord) (*Purchase, error) {
	errMsg := "无法转换购买记录对象为数据库对象"

	id, err := parseSnowflakeStringToInt64(model.ID)
	if err != nil {
		return nil, errors.Wrapf(err, errMsg+": id: %v", model.ID)
	}

	resourceID, err := parseSnowflakeStringToInt64(model.ResourceID)
	if err != nil {
		return nil, errors.Wrapf(err, errMsg+": resourceID: %v", model.ResourceID)
	}

	return &Purchase{
		ID:            id,
		ResourceID:    resourceID,
		BuyerID:       model.BuyerID,
		Amount:        model.Amount,
		TransactionID: model.TransactionID,
		TimeCreated:   model.Timestamp,
	}, nil
}

// ToModel 将一个 `sqlmodel.OrphanedArtifact` 对象转为 `common.OrphanedArtifact` 对象。
func (o *OrphanedArtifact) ToModel() *common.OrphanedArtifact {
	// An unknown step string only comes from manual edits. It maps to Started.
	failedStep, _ := common.NewPublicationStepFromString(o.FailedStep)

	return &common.OrphanedArtifact{
		ID:         parseInt64ToSnowflakeString(o.ID),
		FileID:     o.FileID,
		TokenID:    o.TokenID,
		FailedStep: failedStep,
		Reason:     o.Reason,
		OwnerID:    o.OwnerID,
		Title:      o.Title,
		Timestamp:  o.TimeCreated,
	}
}

// NewOrphanedArtifactFromModel 通过 `common.OrphanedArtifact` 对象创建一个 `sqlmodel.OrphanedArtifact` 对象。
func NewOrphanedArtifactFromModel(model *common.OrphanedArtifact) (*OrphanedArtifact, error) {
	id, err := parseSnowflakeStringToInt64(model.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "无法转换遗留产物对象为数据库对象: id: %v", model.ID)
	}

	return &OrphanedArtifact{
		ID:          id,
		FileID:      model.FileID,
		TokenID:     model.TokenID,
		FailedStep:  model.FailedStep.String(),
		Reason:      model.Reason,
		OwnerID:     model.OwnerID,
		Title:       model.Title,
		TimeCreated: model.Timestamp,
	}, nil
}
