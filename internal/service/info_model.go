package service

import (
	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"gitee.com/czyczk/learnledger/internal/db"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/tjfoc/gmsm/sm2"
)

// Info holds everything a service needs to reach the ledger and the metadata store. A single Info is built at startup and shared by all services.
type Info struct {
	LedgerBCAO    bcao.ILedgerBCAO
	MetadataStore db.IMetadataStore
	Operator      *OperatorInfo
	Params        *Params
}

// OperatorInfo 为平台付费账户。文件与代币均由该账户创建并支付手续费。
type OperatorInfo struct {
	AccountID  string
	PrivateKey *sm2.PrivateKey
	FileKey    *sm2.PrivateKey // 文件创建与追加须由该密钥签名
	SupplyKey  *sm2.PrivateKey // 其公钥作为新代币的增发密钥
}

// Params 为服务层的可调参数
type Params struct {
	ChunkSize int                // 单次追加的最大字节数
	Fees      ledger.FeeSchedule // 手续费估计。用于余额预检和各交易的最高手续费，实际扣费以回执为准。
}

// DefaultChunkSize 为账本单次追加的默认上限
const DefaultChunkSize = 1024

func (p *Params) chunkSize() int {
	if p.ChunkSize <= 0 {
		return DefaultChunkSize
	}

	return p.ChunkSize
}
