package service

import (
	"context"
	"time"

	"gitee.com/czyczk/learnledger/internal/metrics"
	"gitee.com/czyczk/learnledger/internal/utils/timingutils"
	"gitee.com/czyczk/learnledger/pkg/ledgertx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/tjfoc/gmsm/sm2"
)

// signAndSubmit signs the transaction, submits it and waits for its receipt. A non-success receipt is returned without error.
// Submission failures are returned as they came from the ledger so that callers can tell rejections from transport errors.
func signAndSubmit(ctx context.Context, info *Info, tx *ledger.Transaction, keys ...*sm2.PrivateKey) (*ledger.Receipt, error) {
	defer timingutils.GetDeferrableTimingLogger("账本交易 " + string(tx.Type))()

	signed, err := ledgertx.Sign(tx, uniqueKeys(keys)...)
	if err != nil {
		return nil, errors.Wrap(err, "无法签名交易")
	}

	start := time.Now()
	receipt, err := submitSigned(ctx, info, signed)
	metrics.LedgerTransactionSeconds.WithLabelValues(string(tx.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LedgerTransactions.WithLabelValues(string(tx.Type), "ERROR").Inc()
		return nil, err
	}

	metrics.LedgerTransactions.WithLabelValues(string(tx.Type), string(receipt.Status)).Inc()
	return receipt, nil
}

func submitSigned(ctx context.Context, info *Info, signed *ledger.SignedTransaction) (*ledger.Receipt, error) {
	txInfo, err := info.LedgerBCAO.SubmitTransaction(ctx, signed)
	if err != nil {
		return nil, err
	}

	return info.LedgerBCAO.AwaitReceipt(ctx, txInfo.TransactionID)
}

// uniqueKeys drops repeated keys so that a key serving several roles signs once.
func uniqueKeys(keys []*sm2.PrivateKey) []*sm2.PrivateKey {
	ret := make([]*sm2.PrivateKey, 0, len(keys))
	for _, key := range keys {
		if key == nil {
			// Left for Sign to reject
			ret = append(ret, key)
			continue
		}

		duplicated := false
		for _, k := range ret {
			if k != nil && (k == key || k.D.Cmp(key.D) == 0) {
				duplicated = true
				break
			}
		}
		if !duplicated {
			ret = append(ret, key)
		}
	}

	return ret
}

// checkBalance fails with InsufficientFundsError when the account holds less than `required`.
func checkBalance(ctx context.Context, info *Info, accountID string, required uint64) error {
	balance, err := info.LedgerBCAO.QueryBalance(ctx, accountID)
	if err != nil {
		return errors.Wrapf(err, "无法查询账户 '%v' 的余额", accountID)
	}

	if balance < required {
		return &InsufficientFundsError{AccountID: accountID, Balance: balance, Required: required}
	}

	return nil
}
