package common

import "time"

// Resource 表示一份已发布的学习资源。内容存放于账本文件，所有权由账本代币表示。
type Resource struct {
	ID        string    `json:"id"`        // 资源 ID
	Title     string    `json:"title"`     // 标题
	Subject   string    `json:"subject"`   // 学科
	Price     uint64    `json:"price"`     // 价格（最小货币单位）
	FileID    string    `json:"fileId"`    // 账本文件 ID
	TokenID   string    `json:"tokenId"`   // 账本代币 ID
	OwnerID   string    `json:"ownerId"`   // 所有者账户 ID
	Size      uint64    `json:"size"`      // 内容大小
	Hash      string    `json:"hash"`      // 内容的 SHA-256 哈希（Base64 编码）
	Timestamp time.Time `json:"timestamp"` // 创建时间
}

// PurchaseRecord 表示一次已结算的购买。仅在转账回执为成功后创建，此后不再修改。
type PurchaseRecord struct {
	ID            string    `json:"id"`
	ResourceID    string    `json:"resourceId"`
	BuyerID       string    `json:"buyerId"`
	Amount        uint64    `json:"amount"`
	TransactionID string    `json:"transactionId"` // 结算交易 ID
	Timestamp     time.Time `json:"timestamp"`
}

// Token 表示一份资源的所有权代币
type Token struct {
	TokenID           string `json:"tokenId"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Decimals          uint32 `json:"decimals"`
	InitialSupply     uint64 `json:"initialSupply"`
	TreasuryAccountID string `json:"treasuryAccountId"`
}

// StoredFile 表示账本上的一个文件及已追加的字节数
type StoredFile struct {
	FileID string `json:"fileId"`
	Size   uint64 `json:"size"`
}

// TransferReceipt 为一次结算交易的结果
type TransferReceipt struct {
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}
