package bcao

import (
	"context"

	"gitee.com/czyczk/learnledger/pkg/models/ledger"
)

// ILedgerBCAO 为账本网络的最小访问能力。所有方法均为阻塞的远程调用，以 ctx 的截止时间为限。
//
// 所有方法都可能返回包装了 errorcode.ErrorNetwork（传输失败，结果未知）、errorcode.ErrorRemoteRejected（账本拒绝受理）
// 或 errorcode.ErrorTimeout（超时，结果未知）的错误。
type ILedgerBCAO interface {
	// 提交已签名交易。
	//
	// 参数：
	//   已签名交易
	//
	// 返回：
	//   交易创建信息
	SubmitTransaction(ctx context.Context, signed *ledger.SignedTransaction) (*TransactionCreationInfo, error)

	// 等待并返回交易回执。回执状态非成功不视为错误。
	//
	// 参数：
	//   交易 ID
	//
	// 返回：
	//   交易回执
	AwaitReceipt(ctx context.Context, transactionID string) (*ledger.Receipt, error)

	// 查询账户可用余额。
	//
	// 参数：
	//   账户 ID
	//
	// 返回：
	//   余额
	QueryBalance(ctx context.Context, accountID string) (uint64, error)

	// 查询文件的完整内容。文件不存在时返回包装了 errorcode.ErrorNotFound 的错误。
	//
	// 参数：
	//   文件 ID
	//
	// 返回：
	//   文件内容
	QueryFileContents(ctx context.Context, fileID string) ([]byte, error)
}
