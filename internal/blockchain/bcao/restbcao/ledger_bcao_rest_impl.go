package restbcao

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"gitee.com/czyczk/learnledger/internal/blockchain/chaincodectx"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
)

// LedgerBCAORESTImpl 通过 HTTP 账本中继访问账本
type LedgerBCAORESTImpl struct {
	ctx          *chaincodectx.RESTLedgerCtx
	pollInterval time.Duration
}

func NewLedgerBCAORESTImpl(ctx *chaincodectx.RESTLedgerCtx, pollInterval time.Duration) *LedgerBCAORESTImpl {
	return &LedgerBCAORESTImpl{
		ctx:          ctx,
		pollInterval: pollInterval,
	}
}

func classify(fcn string, err error) error {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return errors.Wrapf(errorcode.ErrorNotFound, "账本函数 '%v': %v", fcn, statusErr.Message)
		case http.StatusUnprocessableEntity:
			return errors.Wrapf(errorcode.ErrorRemoteRejected, "账本函数 '%v': %v", fcn, statusErr.Message)
		case http.StatusBadRequest:
			return errors.Wrapf(errorcode.ErrorInvalidInput, "账本函数 '%v': %v", fcn, statusErr.Message)
		}
	}

	return bcao.GetClassifiedError(fcn, err)
}

func (o *LedgerBCAORESTImpl) SubmitTransaction(ctx context.Context, signed *ledger.SignedTransaction) (*bcao.TransactionCreationInfo, error) {
	signedBytes, err := json.Marshal(signed)
	if err != nil {
		return nil, errors.Wrap(err, "无法序列化交易")
	}

	form := url.Values{}
	form.Set("signedTx", string(signedBytes))

	respBytes, err := sendForm(ctx, o.ctx, "/transactions", form, "提交账本交易")
	if err != nil {
		return nil, classify("submitTransaction", err)
	}

	var info bcao.TransactionCreationInfo
	if err = json.Unmarshal(respBytes, &info); err != nil {
		return nil, errors.Wrap(err, "账本返回的交易信息不合法")
	}

	return &info, nil
}

func (o *LedgerBCAORESTImpl) AwaitReceipt(ctx context.Context, transactionID string) (*ledger.Receipt, error) {
	return bcao.PollReceipt(ctx, transactionID, o.pollInterval, func(ctx context.Context) (*ledger.Receipt, error) {
		respBytes, err := sendGet(ctx, o.ctx, "/transactions/"+url.PathEscape(transactionID)+"/receipt", "查询交易回执")
		if err != nil {
			return nil, classify("getReceipt", err)
		}

		var receipt ledger.Receipt
		if err = json.Unmarshal(respBytes, &receipt); err != nil {
			return nil, errors.Wrap(err, "获取的回执不合法")
		}

		return &receipt, nil
	})
}

func (o *LedgerBCAORESTImpl) QueryBalance(ctx context.Context, accountID string) (uint64, error) {
	respBytes, err := sendGet(ctx, o.ctx, "/accounts/"+url.PathEscape(accountID)+"/balance", "查询账户余额")
	if err != nil {
		return 0, classify("getBalance", err)
	}

	var balanceResp balanceResponse
	if err = json.Unmarshal(respBytes, &balanceResp); err != nil {
		return 0, errors.Wrap(err, "获取的余额不合法")
	}

	balance, err := strconv.ParseUint(balanceResp.Balance, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "获取的余额不合法")
	}

	return balance, nil
}

func (o *LedgerBCAORESTImpl) QueryFileContents(ctx context.Context, fileID string) ([]byte, error) {
	respBytes, err := sendGet(ctx, o.ctx, "/files/"+url.PathEscape(fileID)+"/contents", "查询文件内容")
	if err != nil {
		return nil, classify("getFileContents", err)
	}

	return respBytes, nil
}
