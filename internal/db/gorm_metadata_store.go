package db

import (
	"context"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"gitee.com/czyczk/learnledger/internal/models/sqlmodel"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormMetadataStore 将元数据保存于关系数据库
type GormMetadataStore struct {
	DB *gorm.DB
}

func NewGormMetadataStore(db *gorm.DB) *GormMetadataStore {
	return &GormMetadataStore{DB: db}
}

// Migrate 创建或更新所需的表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&sqlmodel.Resource{}, &sqlmodel.Purchase{}, &sqlmodel.OrphanedArtifact{}); err != nil {
		return errors.Wrap(err, "无法迁移数据库表")
	}

	return nil
}

func (s *GormMetadataStore) InsertResource(ctx context.Context, resource *common.Resource) (string, error) {
	resourceDB, err := sqlmodel.NewResourceFromModel(resource)
	if err != nil {
		return "", err
	}

	if dbResult := s.DB.WithContext(ctx).Create(resourceDB); dbResult.Error != nil {
		return "", errors.Wrap(dbResult.Error, "无法将资源存入数据库")
	}

	return resource.ID, nil
}

func (s *GormMetadataStore) FindResourceByID(ctx context.Context, id string) (*common.Resource, error) {
	// IDs that are not snowflakes cannot name any row
	sfID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, errorcode.ErrorNotFound
	}

	var resourceDB sqlmodel.Resource
	dbResult := s.DB.WithContext(ctx).Where("id = ?", sfID.Int64()).Take(&resourceDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取资源")
		}
	}

	return resourceDB.ToModel(), nil
}

func (s *GormMetadataStore) ListResources(ctx context.Context) ([]*common.Resource, error) {
	var resourcesDB []sqlmodel.Resource
	if dbResult := s.DB.WithContext(ctx).Order("time_created, id").Find(&resourcesDB); dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取资源列表")
	}

	ret := make([]*common.Resource, len(resourcesDB))
	for i := range resourcesDB {
		ret[i] = resourcesDB[i].ToModel()
	}

	return ret, nil
}

func (s *GormMetadataStore) InsertPurchase(ctx context.Context, purchase *common.PurchaseRecord) error {
	purchaseDB, err := sqlmodel.NewPurchaseFromModel(purchase)
	if err != nil {
		return err
	}

	if dbResult := s.DB.WithContext(ctx).Create(purchaseDB); dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法将购买记录存入数据库")
	}

	return nil
}

func (s *GormMetadataStore) FindPurchase(ctx context.Context, resourceID string, buyerID string) (*common.PurchaseRecord, error) {
	sfID, err := snowflake.ParseString(resourceID)
	if err != nil {
		return nil, errorcode.ErrorNotFound
	}

	var purchaseDB sqlmodel.Purchase
	dbResult := s.DB.WithContext(ctx).Where("resource_id = ? AND buyer_id = ?", sfID.Int64(), buyerID).Order("time_created").Take(&purchaseDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取购买记录")
		}
	}

	return purchaseDB.ToModel(), nil
}

func (s *GormMetadataStore) InsertOrphanedArtifact(ctx context.Context, artifact *common.OrphanedArtifact) error {
	artifactDB, err := sqlmodel.NewOrphanedArtifactFromModel(artifact)
	if err != nil {
		return err
	}

	if dbResult := s.DB.WithContext(ctx).Create(artifactDB); dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法将遗留产物记录存入数据库")
	}

	return nil
}

func (s *GormMetadataStore) ListOrphanedArtifacts(ctx context.Context) ([]*common.OrphanedArtifact, error) {
	var artifactsDB []sqlmodel.OrphanedArtifact
	if dbResult := s.DB.WithContext(ctx).Order("time_created, id").Find(&artifactsDB); dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取遗留产物列表")
	}

	ret := make([]*common.OrphanedArtifact, len(artifactsDB))
	for i := range artifactsDB {
		ret[i] = artifactsDB[i].ToModel()
	}

	return ret, nil
}
