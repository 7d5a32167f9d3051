package bcao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetClassifiedError(t *testing.T) {
	assert.Nil(t, GetClassifiedError("getBalance", nil))

	err := GetClassifiedError("getBalance", fmt.Errorf("账户 '0.0.9' 不存在: %v", errorcode.CodeNotFound))
	assert.True(t, errors.Is(err, errorcode.ErrorNotFound))

	err = GetClassifiedError("submitTransaction", fmt.Errorf("duplicate: %v", errorcode.CodeRemoteRejected))
	assert.True(t, errors.Is(err, errorcode.ErrorRemoteRejected))

	err = GetClassifiedError("getReceipt", context.DeadlineExceeded)
	assert.True(t, errors.Is(err, errorcode.ErrorTimeout))

	err = GetClassifiedError("getReceipt", fmt.Errorf("connection refused"))
	assert.True(t, errors.Is(err, errorcode.ErrorNetwork))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetClassifiedErrorWithContext(t *testing.T) {
	sdkErr := fmt.Errorf("Client Status Code: (5) TIMEOUT. Description: request timed out or been cancelled")

	err := GetClassifiedErrorWithContext(context.Background(), "getBalance", sdkErr)
	assert.True(t, errors.Is(err, errorcode.ErrorNetwork))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = GetClassifiedErrorWithContext(ctx, "getBalance", sdkErr)
	assert.True(t, errors.Is(err, errorcode.ErrorTimeout))
	assert.Nil(t, GetClassifiedErrorWithContext(ctx, "getBalance", nil))
}

func TestPollReceipt(t *testing.T) {
	calls := 0
	receipt, err := PollReceipt(context.Background(), "tx", time.Millisecond, func(ctx context.Context) (*ledger.Receipt, error) {
		calls++
		if calls < 3 {
			return nil, errors.Wrap(errorcode.ErrorNotFound, "pending")
		}
		return &ledger.Receipt{TransactionID: "tx", Status: ledger.StatusSuccess}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "tx", receipt.TransactionID)
}

func TestPollReceiptTimesOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := PollReceipt(ctx, "tx", time.Millisecond, func(ctx context.Context) (*ledger.Receipt, error) {
		return nil, errors.Wrap(errorcode.ErrorNotFound, "pending")
	})
	assert.True(t, errors.Is(err, errorcode.ErrorTimeout))
}

func TestPollReceiptStopsOnOtherErrors(t *testing.T) {
	_, err := PollReceipt(context.Background(), "tx", time.Millisecond, func(ctx context.Context) (*ledger.Receipt, error) {
		return nil, errors.Wrap(errorcode.ErrorNetwork, "down")
	})
	assert.True(t, errors.Is(err, errorcode.ErrorNetwork))
}
