package ledger

import "time"

// ReceiptStatus 为账本为交易给出的最终状态
type ReceiptStatus string

const (
	StatusSuccess                    ReceiptStatus = "SUCCESS"
	StatusInvalidSignature           ReceiptStatus = "INVALID_SIGNATURE"
	StatusInsufficientPayerBalance   ReceiptStatus = "INSUFFICIENT_PAYER_BALANCE"
	StatusInsufficientAccountBalance ReceiptStatus = "INSUFFICIENT_ACCOUNT_BALANCE"
	StatusInsufficientTxFee          ReceiptStatus = "INSUFFICIENT_TX_FEE"
	StatusInvalidFileID              ReceiptStatus = "INVALID_FILE_ID"
	StatusInvalidTokenID             ReceiptStatus = "INVALID_TOKEN_ID"
	StatusInvalidAccountID           ReceiptStatus = "INVALID_ACCOUNT_ID"
	StatusInvalidAccountAmounts      ReceiptStatus = "INVALID_ACCOUNT_AMOUNTS"
	StatusFileOffsetMismatch         ReceiptStatus = "FILE_OFFSET_MISMATCH"
	StatusTransactionOversize        ReceiptStatus = "TRANSACTION_OVERSIZE"
	StatusTokenHasNoSupplyKey        ReceiptStatus = "TOKEN_HAS_NO_SUPPLY_KEY"
	StatusInvalidTokenMintAmount     ReceiptStatus = "INVALID_TOKEN_MINT_AMOUNT"
	StatusDuplicateTransaction       ReceiptStatus = "DUPLICATE_TRANSACTION"
	StatusInvalidTransactionBody     ReceiptStatus = "INVALID_TRANSACTION_BODY"
	StatusPayerAccountNotFound       ReceiptStatus = "PAYER_ACCOUNT_NOT_FOUND"
)

// IsSuccess 判断状态是否为成功
func (s ReceiptStatus) IsSuccess() bool {
	return s == StatusSuccess
}

// Receipt 为交易回执
type Receipt struct {
	TransactionID      string        `json:"transactionId"`
	Status             ReceiptStatus `json:"status"`
	FileID             string        `json:"fileId,omitempty"`  // FILE_CREATE 成功时给出
	TokenID            string        `json:"tokenId,omitempty"` // TOKEN_CREATE 成功时给出
	TotalSupply        uint64        `json:"totalSupply,omitempty"`
	ChargedFee         uint64        `json:"chargedFee"`
	ConsensusTimestamp time.Time     `json:"consensusTimestamp"`
}

// FeeSchedule 为账本按交易种类收取的固定手续费，以及单次追加的内容上限
type FeeSchedule struct {
	FileCreate     uint64 `json:"fileCreate" yaml:"fileCreate" mapstructure:"fileCreate"`
	FileAppend     uint64 `json:"fileAppend" yaml:"fileAppend" mapstructure:"fileAppend"`
	TokenCreate    uint64 `json:"tokenCreate" yaml:"tokenCreate" mapstructure:"tokenCreate"`
	TokenMint      uint64 `json:"tokenMint" yaml:"tokenMint" mapstructure:"tokenMint"`
	CryptoTransfer uint64 `json:"cryptoTransfer" yaml:"cryptoTransfer" mapstructure:"cryptoTransfer"`
	MaxChunkSize   int    `json:"maxChunkSize" yaml:"maxChunkSize" mapstructure:"maxChunkSize"`
}

// FeeFor 返回指定交易种类的手续费
func (f FeeSchedule) FeeFor(txType TransactionType) uint64 {
	switch txType {
	case FileCreate:
		return f.FileCreate
	case FileAppend:
		return f.FileAppend
	case TokenCreate:
		return f.TokenCreate
	case TokenMint:
		return f.TokenMint
	case CryptoTransfer:
		return f.CryptoTransfer
	default:
		return 0
	}
}

// DefaultFeeSchedule 返回开发环境使用的默认手续费表
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		FileCreate:     100_000_000,
		FileAppend:     100_000_000,
		TokenCreate:    500_000_000,
		TokenMint:      100_000_000,
		CryptoTransfer: 1_000_000,
		MaxChunkSize:   1024,
	}
}
