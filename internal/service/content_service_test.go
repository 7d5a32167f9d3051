package service

import (
	"context"
	"fmt"
	"testing"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStoreAndRetrieveRoundTrip(t *testing.T) {
	for _, size := range []int{1, 1024, 1025, 2500} {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			env := newTestEnv(t, 1_000_000)
			s := &ContentService{ServiceInfo: env.info}
			content := makeContent(size)

			fileID, err := s.Store(context.Background(), content)
			if isNoError := assert.NoError(t, err); !isNoError {
				t.FailNow()
			}

			retrieved, err := s.Retrieve(context.Background(), fileID)
			if isNoError := assert.NoError(t, err); !isNoError {
				t.FailNow()
			}
			assert.Equal(t, content, retrieved)

			numChunks := (size + DefaultChunkSize - 1) / DefaultChunkSize
			assert.Len(t, env.ledger.SubmittedOfType(ledger.FileCreate), 1)
			assert.Len(t, env.ledger.SubmittedOfType(ledger.FileAppend), numChunks)
		})
	}
}

func TestStoreRejectsEmptyContent(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &ContentService{ServiceInfo: env.info}

	_, err := s.Store(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidContent))
	assert.Equal(t, errorcode.KindInvalidInput, errorcode.KindOf(err))
	assert.Empty(t, env.ledger.Submitted())
}

func TestStoreAppendsChunksInOrder(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &ContentService{ServiceInfo: env.info}

	fileID, err := s.Store(context.Background(), makeContent(2500))
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	appends := env.ledger.SubmittedOfType(ledger.FileAppend)
	if isLen := assert.Len(t, appends, 3); !isLen {
		t.FailNow()
	}

	expectedOffsets := []uint64{0, 1024, 2048}
	expectedLengths := []int{1024, 1024, 452}
	for i, tx := range appends {
		assert.Equal(t, fileID, tx.FileAppend.FileID)
		assert.Equal(t, expectedOffsets[i], tx.FileAppend.Offset)
		assert.Len(t, tx.FileAppend.Contents, expectedLengths[i])
	}

	// 平台账户支付一次创建与三次追加
	assert.Equal(t, uint64(1_000_000-10-3*10), env.balance(t, operatorAccountID))
}

func TestStoreInsufficientFunds(t *testing.T) {
	env := newTestEnv(t, 19)
	s := &ContentService{ServiceInfo: env.info}

	_, err := s.Store(context.Background(), makeContent(10))
	var fundsErr *InsufficientFundsError
	if isErrorAs := assert.True(t, errors.As(err, &fundsErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, uint64(19), fundsErr.Balance)
	assert.Equal(t, uint64(20), fundsErr.Required)
	assert.Equal(t, errorcode.KindInsufficientFunds, errorcode.KindOf(err))
	assert.Empty(t, env.ledger.Submitted())
}

func TestStoreChunkAppendFailure(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	env.ledger.FailNext(ledger.FileAppend, ledger.StatusInvalidSignature)
	s := &ContentService{ServiceInfo: env.info}

	_, err := s.Store(context.Background(), makeContent(2500))
	var appendErr *ChunkAppendFailedError
	if isErrorAs := assert.True(t, errors.As(err, &appendErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, 0, appendErr.Offset)
	assert.Equal(t, ledger.StatusInvalidSignature, appendErr.Status)
	assert.NotEmpty(t, appendErr.FileID)
	assert.NotEmpty(t, appendErr.TransactionID)
	assert.Equal(t, errorcode.KindRemoteRejected, errorcode.KindOf(err))

	// 不重试，也不继续追加后续块
	assert.Len(t, env.ledger.SubmittedOfType(ledger.FileAppend), 1)
}

func TestStoreTransportFailure(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	env.ledger.SetTransportError(fmt.Errorf("connection refused"))
	s := &ContentService{ServiceInfo: env.info}

	_, err := s.Store(context.Background(), makeContent(10))
	assert.Error(t, err)
	assert.Equal(t, errorcode.KindNetworkError, errorcode.KindOf(err))
}

func TestRetrieveUnknownFile(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &ContentService{ServiceInfo: env.info}

	_, err := s.Retrieve(context.Background(), "0.0.9999")
	assert.True(t, errors.Is(err, ErrContentNotFound))
	assert.Equal(t, errorcode.KindNotFound, errorcode.KindOf(err))
}
