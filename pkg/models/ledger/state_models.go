package ledger

// AccountState 为账本上保存的账户
type AccountState struct {
	AccountID string `json:"accountId"`
	PublicKey string `json:"publicKey"` // PEM 格式公钥
	Balance   uint64 `json:"balance"`
}

// FileState 为账本上保存的文件元数据。内容按块单独存放。
type FileState struct {
	FileID       string   `json:"fileId"`
	Keys         []string `json:"keys"`
	Size         uint64   `json:"size"`
	ExpectedSize uint64   `json:"expectedSize"`
	ChunkCount   int      `json:"chunkCount"`
}

// TokenState 为账本上保存的代币
type TokenState struct {
	TokenID           string `json:"tokenId"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Decimals          uint32 `json:"decimals"`
	TotalSupply       uint64 `json:"totalSupply"`
	TreasuryAccountID string `json:"treasuryAccountId"`
	TreasuryBalance   uint64 `json:"treasuryBalance"`
	SupplyKey         string `json:"supplyKey,omitempty"`
}
