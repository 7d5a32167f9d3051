package db

import (
	"context"

	"gitee.com/czyczk/learnledger/internal/models/common"
)

// IMetadataStore 为资源元数据与购买记录的存储能力
type IMetadataStore interface {
	// 保存资源记录。
	//
	// 参数：
	//   资源（ID 须已生成）
	//
	// 返回：
	//   资源 ID
	InsertResource(ctx context.Context, resource *common.Resource) (string, error)

	// 获取资源记录。资源不存在时返回 errorcode.ErrorNotFound。
	//
	// 参数：
	//   资源 ID
	//
	// 返回：
	//   资源
	FindResourceByID(ctx context.Context, id string) (*common.Resource, error)

	// 列出所有资源，按创建时间升序。
	//
	// 返回：
	//   资源列表
	ListResources(ctx context.Context) ([]*common.Resource, error)

	// 保存购买记录。
	//
	// 参数：
	//   购买记录（ID 须已生成）
	InsertPurchase(ctx context.Context, purchase *common.PurchaseRecord) error

	// 获取某买家对某资源的购买记录。记录不存在时返回 errorcode.ErrorNotFound。
	//
	// 参数：
	//   资源 ID
	//   买家账户 ID
	//
	// 返回：
	//   购买记录
	FindPurchase(ctx context.Context, resourceID string, buyerID string) (*common.PurchaseRecord, error)

	// 保存中途失败的发布留下的账本产物。
	//
	// 参数：
	//   遗留产物记录（ID 须已生成）
	InsertOrphanedArtifact(ctx context.Context, artifact *common.OrphanedArtifact) error

	// 列出所有遗留产物记录，按创建时间升序。
	//
	// 返回：
	//   遗留产物列表
	ListOrphanedArtifacts(ctx context.Context) ([]*common.OrphanedArtifact, error)
}
