package service

import "context"

// AccessServiceInterface 定义了判断资源访问权限的服务的接口。
type AccessServiceInterface interface {
	// 判断请求者是否有权访问资源。所有者与已购买者有权访问。
	//
	// 参数：
	//   资源 ID
	//   请求者账户 ID
	//
	// 返回：
	//   是否有权访问
	Authorize(ctx context.Context, resourceID string, requesterID string) (bool, error)
}
