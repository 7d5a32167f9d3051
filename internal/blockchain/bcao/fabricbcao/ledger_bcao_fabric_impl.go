package fabricbcao

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"gitee.com/czyczk/learnledger/internal/blockchain/chaincodectx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LedgerBCAOFabricImpl 通过 Fabric 通道调用账本链码
type LedgerBCAOFabricImpl struct {
	ctx          *chaincodectx.FabricChaincodeCtx
	pollInterval time.Duration
}

func NewLedgerBCAOFabricImpl(ctx *chaincodectx.FabricChaincodeCtx, pollInterval time.Duration) *LedgerBCAOFabricImpl {
	return &LedgerBCAOFabricImpl{
		ctx:          ctx,
		pollInterval: pollInterval,
	}
}

func (o *LedgerBCAOFabricImpl) SubmitTransaction(ctx context.Context, signed *ledger.SignedTransaction) (*bcao.TransactionCreationInfo, error) {
	signedBytes, err := json.Marshal(signed)
	if err != nil {
		return nil, errors.Wrap(err, "无法序列化链码参数")
	}

	chaincodeFcn := "submitTransaction"
	channelReq := channel.Request{
		ChaincodeID: o.ctx.ChaincodeID,
		Fcn:         chaincodeFcn,
		Args:        [][]byte{signedBytes},
	}

	resp, err := executeChannelRequestWithTimer(ctx, o.ctx.ChannelClient, &channelReq, "提交账本交易")
	if err != nil {
		return nil, bcao.GetClassifiedErrorWithContext(ctx, chaincodeFcn, err)
	}

	// The chaincode answers with the receipt. Only its transaction ID is needed here.
	var receipt ledger.Receipt
	if err = json.Unmarshal(resp.Payload, &receipt); err != nil {
		return nil, errors.Wrap(err, "链码返回的回执不合法")
	}

	info := &bcao.TransactionCreationInfo{TransactionID: receipt.TransactionID}
	if o.ctx.LedgerClient != nil {
		blockID, err := getBlockHashFromTxID(o.ctx.LedgerClient, resp.TransactionID)
		if err != nil {
			log.Debugf("无法获取交易 '%v' 所在区块: %v", resp.TransactionID, err)
		} else {
			info.BlockID = blockID
		}
	}

	return info, nil
}

func (o *LedgerBCAOFabricImpl) AwaitReceipt(ctx context.Context, transactionID string) (*ledger.Receipt, error) {
	return bcao.PollReceipt(ctx, transactionID, o.pollInterval, func(ctx context.Context) (*ledger.Receipt, error) {
		chaincodeFcn := "getReceipt"
		channelReq := channel.Request{
			ChaincodeID: o.ctx.ChaincodeID,
			Fcn:         chaincodeFcn,
			Args:        [][]byte{[]byte(transactionID)},
		}

		resp, err := queryChannelRequestWithTimer(ctx, o.ctx.ChannelClient, &channelReq, "查询交易回执")
		if err != nil {
			return nil, bcao.GetClassifiedErrorWithContext(ctx, chaincodeFcn, err)
		}

		var receipt ledger.Receipt
		if err = json.Unmarshal(resp.Payload, &receipt); err != nil {
			return nil, errors.Wrap(err, "获取的回执不合法")
		}

		return &receipt, nil
	})
}

func (o *LedgerBCAOFabricImpl) QueryBalance(ctx context.Context, accountID string) (uint64, error) {
	chaincodeFcn := "getBalance"
	channelReq := channel.Request{
		ChaincodeID: o.ctx.ChaincodeID,
		Fcn:         chaincodeFcn,
		Args:        [][]byte{[]byte(accountID)},
	}

	resp, err := queryChannelRequestWithTimer(ctx, o.ctx.ChannelClient, &channelReq, "查询账户余额")
	if err != nil {
		return 0, bcao.GetClassifiedErrorWithContext(ctx, chaincodeFcn, err)
	}

	balance, err := strconv.ParseUint(string(resp.Payload), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "获取的余额不合法")
	}

	return balance, nil
}

func (o *LedgerBCAOFabricImpl) QueryFileContents(ctx context.Context, fileID string) ([]byte, error) {
	chaincodeFcn := "getFileContents"
	channelReq := channel.Request{
		ChaincodeID: o.ctx.ChaincodeID,
		Fcn:         chaincodeFcn,
		Args:        [][]byte{[]byte(fileID)},
	}

	resp, err := queryChannelRequestWithTimer(ctx, o.ctx.ChannelClient, &channelReq, "查询文件内容")
	if err != nil {
		return nil, bcao.GetClassifiedErrorWithContext(ctx, chaincodeFcn, err)
	}

	return resp.Payload, nil
}
