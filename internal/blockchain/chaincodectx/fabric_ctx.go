package chaincodectx

import (
	"gitee.com/czyczk/learnledger/internal/blockchain"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/ledger"
)

// ChannelClient 为 `*channel.Client` 中被账本访问对象用到的部分
type ChannelClient interface {
	Execute(request channel.Request, options ...channel.RequestOption) (channel.Response, error)
	Query(request channel.Request, options ...channel.RequestOption) (channel.Response, error)
}

type FabricChaincodeCtx struct {
	ChannelID     string
	OrgName       string
	Username      string
	ChaincodeID   string
	ChannelClient ChannelClient
	LedgerClient  *ledger.Client // 可为空。为空时交易创建信息中不含区块 ID。
}

func (ctx *FabricChaincodeCtx) GetBCType() blockchain.BCType {
	return blockchain.Fabric
}
