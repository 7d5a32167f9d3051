package service

import (
	"context"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"github.com/tjfoc/gmsm/sm2"
)

// PublishRequest 为发布资源的请求
type PublishRequest struct {
	Content []byte
	Title   string // 为空时使用 "Untitled"
	Subject string // 为空时使用 "Unknown"
	Price   uint64
	OwnerID string
}

// PurchaseRequest 为购买资源的请求
type PurchaseRequest struct {
	ResourceID  string
	BuyerID     string
	BuyerKey    *sm2.PrivateKey
	RecipientID string // 为空时为资源所有者
	Amount      uint64 // 为 0 时为资源价格
}

// ResourceServiceInterface 定义了资源发布、下载与购买的服务的接口。
type ResourceServiceInterface interface {
	// 发布资源：存储内容、创建代币、保存资源记录。
	//
	// 参数：
	//   发布请求
	//
	// 返回：
	//   资源
	Publish(ctx context.Context, req *PublishRequest) (*common.Resource, error)

	// 下载资源内容。仅所有者与已购买者可下载。
	//
	// 参数：
	//   资源 ID
	//   请求者账户 ID
	//
	// 返回：
	//   资源
	//   资源内容
	Download(ctx context.Context, resourceID string, requesterID string) (*common.Resource, []byte, error)

	// 购买资源。转账成功后保存购买记录。
	//
	// 参数：
	//   购买请求
	//
	// 返回：
	//   购买记录
	Purchase(ctx context.Context, req *PurchaseRequest) (*common.PurchaseRecord, error)

	// 获取资源。
	//
	// 参数：
	//   资源 ID
	//
	// 返回：
	//   资源
	GetResource(ctx context.Context, resourceID string) (*common.Resource, error)

	// 列出所有资源。
	//
	// 返回：
	//   资源列表
	ListResources(ctx context.Context) ([]*common.Resource, error)

	// 列出中途失败的发布留下的账本产物。
	//
	// 返回：
	//   遗留产物列表
	ListOrphanedArtifacts(ctx context.Context) ([]*common.OrphanedArtifact, error)
}
