package ledger

import "time"

// TransactionType 表示账本交易的种类
type TransactionType string

const (
	// FileCreate 创建一个空文件记录
	FileCreate TransactionType = "FILE_CREATE"
	// FileAppend 向已有文件末尾追加一段内容
	FileAppend TransactionType = "FILE_APPEND"
	// TokenCreate 创建一种新的同质化代币
	TokenCreate TransactionType = "TOKEN_CREATE"
	// TokenMint 增发已有代币
	TokenMint TransactionType = "TOKEN_MINT"
	// CryptoTransfer 在账户之间转移货币
	CryptoTransfer TransactionType = "CRYPTO_TRANSFER"
)

// Transaction 为待签名的账本交易体。根据 Type 的不同，恰有一个交易体字段非空。
type Transaction struct {
	TransactionID     string          `json:"transactionId"`     // 交易 ID，格式为 "<付费账户>@<秒>.<纳秒>"
	Type              TransactionType `json:"type"`              // 交易种类
	PayerAccountID    string          `json:"payerAccountId"`    // 支付手续费的账户
	MaxTransactionFee uint64          `json:"maxTransactionFee"` // 愿意支付的最高手续费
	Memo              string          `json:"memo,omitempty"`    // 备注
	ValidStart        time.Time       `json:"validStart"`        // 交易生效时间

	FileCreate  *FileCreateBody  `json:"fileCreate,omitempty"`
	FileAppend  *FileAppendBody  `json:"fileAppend,omitempty"`
	TokenCreate *TokenCreateBody `json:"tokenCreate,omitempty"`
	TokenMint   *TokenMintBody   `json:"tokenMint,omitempty"`
	Transfer    *TransferBody    `json:"transfer,omitempty"`
}

// FileCreateBody 创建文件。Keys 中的每把公钥都须对该文件后续的追加交易签名。
type FileCreateBody struct {
	Keys         []string `json:"keys"`         // PEM 格式公钥
	ExpectedSize uint64   `json:"expectedSize"` // 最终内容大小，仅作记录
}

// FileAppendBody 在指定偏移处（必须等于文件当前大小）追加内容
type FileAppendBody struct {
	FileID   string `json:"fileId"`
	Offset   uint64 `json:"offset"`
	Contents []byte `json:"contents"`
}

// TokenCreateBody 创建代币
type TokenCreateBody struct {
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Decimals          uint32 `json:"decimals"`
	InitialSupply     uint64 `json:"initialSupply"`
	TreasuryAccountID string `json:"treasuryAccountId"`
	SupplyKey         string `json:"supplyKey"` // PEM 格式公钥
}

// TokenMintBody 增发代币
type TokenMintBody struct {
	TokenID string `json:"tokenId"`
	Amount  uint64 `json:"amount"`
}

// AccountAmount 为转账中的一条记账腿。负数表示扣款，正数表示入账。
type AccountAmount struct {
	AccountID string `json:"accountId"`
	Amount    int64  `json:"amount"`
}

// TransferBody 转账。所有记账腿之和必须为 0。
type TransferBody struct {
	Transfers []AccountAmount `json:"transfers"`
}

// SignaturePair 为一把公钥及其对交易体的签名
type SignaturePair struct {
	PublicKey string `json:"publicKey"` // PEM 格式公钥
	Signature []byte `json:"signature"`
}

// SignedTransaction 为已签名、可提交的交易
type SignedTransaction struct {
	BodyBytes  []byte          `json:"bodyBytes"` // Transaction 的 JSON 序列化结果
	Signatures []SignaturePair `json:"signatures"`
}
