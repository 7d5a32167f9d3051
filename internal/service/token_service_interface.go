package service

import (
	"context"

	"github.com/tjfoc/gmsm/sm2"
)

// TokenServiceInterface 定义了发行资源所有权代币的服务的接口。
type TokenServiceInterface interface {
	// 为资源创建代币。每次调用都会创建新的代币，调用方须保证每份资源只调用一次。
	//
	// 参数：
	//   资源标题（作为代币名称）
	//
	// 返回：
	//   代币 ID
	Mint(ctx context.Context, title string) (string, error)

	// 增发代币。
	//
	// 参数：
	//   代币 ID
	//   增发数量（须大于 0）
	//   代币的增发私钥
	//
	// 返回：
	//   交易 ID
	MintAdditional(ctx context.Context, tokenID string, amount uint64, supplyKey *sm2.PrivateKey) (string, error)
}
