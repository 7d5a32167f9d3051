package service

import (
	"context"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"github.com/tjfoc/gmsm/sm2"
)

// PaymentServiceInterface 定义了结算转账的服务的接口。
type PaymentServiceInterface interface {
	// 从付款方向收款方转账。余额预检仅供参考，结果以回执为准。
	//
	// 参数：
	//   付款方账户 ID
	//   付款方私钥
	//   收款方账户 ID
	//   金额（须大于 0）
	//
	// 返回：
	//   转账回执
	Transfer(ctx context.Context, senderID string, senderKey *sm2.PrivateKey, recipientID string, amount uint64) (*common.TransferReceipt, error)
}
