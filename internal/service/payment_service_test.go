package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tjfoc/gmsm/sm2"
)

const (
	senderAccountID    = "0.0.3"
	recipientAccountID = "0.0.4"
)

func newPaymentEnv(t *testing.T, senderBalance uint64) (*testEnv, *PaymentService, *sm2.PrivateKey) {
	env := newTestEnv(t, 1_000_000)
	senderKey := newKey(t)
	createAccount(t, env.ledger, senderAccountID, senderKey, senderBalance)
	createAccount(t, env.ledger, recipientAccountID, newKey(t), 0)

	return env, &PaymentService{ServiceInfo: env.info}, senderKey
}

func TestTransferExactBalance(t *testing.T) {
	// 余额恰好等于金额与手续费之和
	env, s, senderKey := newPaymentEnv(t, 500)

	receipt, err := s.Transfer(context.Background(), senderAccountID, senderKey, recipientAccountID, 400)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, string(ledger.StatusSuccess), receipt.Status)
	assert.NotEmpty(t, receipt.TransactionID)

	assert.Equal(t, uint64(0), env.balance(t, senderAccountID))
	assert.Equal(t, uint64(400), env.balance(t, recipientAccountID))

	transfers := env.ledger.SubmittedOfType(ledger.CryptoTransfer)
	if isLen := assert.Len(t, transfers, 1); !isLen {
		t.FailNow()
	}
	assert.Equal(t, PaymentMemo, transfers[0].Memo)
	assert.Equal(t, senderAccountID, transfers[0].PayerAccountID)
	assert.Equal(t, []ledger.AccountAmount{
		{AccountID: senderAccountID, Amount: -400},
		{AccountID: recipientAccountID, Amount: 400},
	}, transfers[0].Transfer.Transfers)
}

func TestTransferInsufficientFunds(t *testing.T) {
	env, s, senderKey := newPaymentEnv(t, 499)

	_, err := s.Transfer(context.Background(), senderAccountID, senderKey, recipientAccountID, 400)
	var fundsErr *InsufficientFundsError
	if isErrorAs := assert.True(t, errors.As(err, &fundsErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, uint64(499), fundsErr.Balance)
	assert.Equal(t, uint64(500), fundsErr.Required)
	assert.Empty(t, env.ledger.SubmittedOfType(ledger.CryptoTransfer))
	assert.Equal(t, uint64(499), env.balance(t, senderAccountID))
}

func TestTransferRejectsInvalidArguments(t *testing.T) {
	env, s, senderKey := newPaymentEnv(t, 500)
	ctx := context.Background()

	_, err := s.Transfer(ctx, senderAccountID, senderKey, recipientAccountID, 0)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	_, err = s.Transfer(ctx, senderAccountID, senderKey, senderAccountID, 100)
	assert.Equal(t, errorcode.KindInvalidInput, errorcode.KindOf(err))

	_, err = s.Transfer(ctx, senderAccountID, nil, recipientAccountID, 100)
	assert.Equal(t, errorcode.KindInvalidInput, errorcode.KindOf(err))

	_, err = s.Transfer(ctx, "", senderKey, recipientAccountID, 100)
	assert.Equal(t, errorcode.KindInvalidInput, errorcode.KindOf(err))

	assert.Empty(t, env.ledger.SubmittedOfType(ledger.CryptoTransfer))
}

func TestTransferFailedReceipt(t *testing.T) {
	env, s, senderKey := newPaymentEnv(t, 500)
	env.ledger.FailNext(ledger.CryptoTransfer, ledger.StatusInsufficientAccountBalance)

	_, err := s.Transfer(context.Background(), senderAccountID, senderKey, recipientAccountID, 400)
	var failedErr *TransferFailedError
	if isErrorAs := assert.True(t, errors.As(err, &failedErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, ledger.StatusInsufficientAccountBalance, failedErr.Status)
	assert.NotEmpty(t, failedErr.TransactionID)
	assert.Equal(t, errorcode.KindRemoteRejected, errorcode.KindOf(err))
	assert.Equal(t, uint64(500), env.balance(t, senderAccountID))
}

func TestTransferWrongKey(t *testing.T) {
	env, s, _ := newPaymentEnv(t, 500)

	_, err := s.Transfer(context.Background(), senderAccountID, newKey(t), recipientAccountID, 400)
	var failedErr *TransferFailedError
	if isErrorAs := assert.True(t, errors.As(err, &failedErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, ledger.StatusInvalidSignature, failedErr.Status)
	assert.Equal(t, uint64(0), env.balance(t, recipientAccountID))
}

func TestTransferTransportFailure(t *testing.T) {
	env, s, senderKey := newPaymentEnv(t, 500)
	env.ledger.SetTransportError(fmt.Errorf("connection reset"))

	_, err := s.Transfer(context.Background(), senderAccountID, senderKey, recipientAccountID, 400)
	var settlementErr *SettlementError
	assert.True(t, errors.As(err, &settlementErr))
	assert.Equal(t, errorcode.KindNetworkError, errorcode.KindOf(err))
}

func TestTransferReceiptTimeout(t *testing.T) {
	env, s, senderKey := newPaymentEnv(t, 500)
	env.ledger.SetReceiptDelay(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Transfer(ctx, senderAccountID, senderKey, recipientAccountID, 400)
	var settlementErr *SettlementError
	if isErrorAs := assert.True(t, errors.As(err, &settlementErr)); !isErrorAs {
		t.FailNow()
	}
	// 交易已提交，交易 ID 可用于对账
	assert.NotEmpty(t, settlementErr.TransactionID)
	assert.Equal(t, errorcode.KindTimeout, errorcode.KindOf(err))
}
