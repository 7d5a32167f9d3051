package service

import (
	"context"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"github.com/pkg/errors"
)

// AccessService 根据资源所有者与购买记录判断访问权限。
type AccessService struct {
	ServiceInfo *Info
}

// Authorize 判断请求者是否有权访问资源。资源不存在时返回 ErrResourceNotFound。
//
// 参数：
//   资源 ID
//   请求者账户 ID
//
// 返回：
//   是否有权访问
func (s *AccessService) Authorize(ctx context.Context, resourceID string, requesterID string) (bool, error) {
	resource, err := s.ServiceInfo.MetadataStore.FindResourceByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, errorcode.ErrorNotFound) {
			return false, ErrResourceNotFound.WithDetail("资源 '"+resourceID+"' 不存在", err)
		}
		return false, errors.Wrapf(err, "无法获取资源 '%v'", resourceID)
	}

	if requesterID == "" {
		return false, nil
	}
	if resource.OwnerID == requesterID {
		return true, nil
	}

	_, err = s.ServiceInfo.MetadataStore.FindPurchase(ctx, resourceID, requesterID)
	if err == nil {
		return true, nil
	} else if errors.Is(err, errorcode.ErrorNotFound) {
		return false, nil
	}

	return false, errors.Wrapf(err, "无法获取资源 '%v' 的购买记录", resourceID)
}
