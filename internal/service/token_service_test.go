package service

import (
	"context"
	"testing"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMint(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &TokenService{ServiceInfo: env.info}

	tokenID, err := s.Mint(context.Background(), "Linear Algebra Notes")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	token, err := env.ledger.Token(tokenID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, "Linear Algebra Notes", token.Name)
	assert.Equal(t, TokenSymbol, token.Symbol)
	assert.Equal(t, uint32(0), token.Decimals)
	assert.Equal(t, uint64(TokenInitialSupply), token.TotalSupply)
	assert.Equal(t, operatorAccountID, token.TreasuryAccountID)
	assert.NotEmpty(t, token.SupplyKey)

	// 每次调用都会创建新的代币
	anotherID, err := s.Mint(context.Background(), "Linear Algebra Notes")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.NotEqual(t, tokenID, anotherID)
}

func TestMintRejectsEmptyTitle(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &TokenService{ServiceInfo: env.info}

	_, err := s.Mint(context.Background(), " ")
	assert.Equal(t, errorcode.KindInvalidInput, errorcode.KindOf(err))
	assert.Empty(t, env.ledger.Submitted())
}

func TestMintInsufficientFunds(t *testing.T) {
	env := newTestEnv(t, 49)
	s := &TokenService{ServiceInfo: env.info}

	_, err := s.Mint(context.Background(), "Notes")
	assert.Equal(t, errorcode.KindInsufficientFunds, errorcode.KindOf(err))
	assert.Empty(t, env.ledger.Submitted())
}

func TestMintRejectedByLedger(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	env.ledger.FailNext(ledger.TokenCreate, ledger.StatusInvalidSignature)
	s := &TokenService{ServiceInfo: env.info}

	_, err := s.Mint(context.Background(), "Notes")
	var receiptErr *ReceiptError
	if isErrorAs := assert.True(t, errors.As(err, &receiptErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, ledger.StatusInvalidSignature, receiptErr.Status)
	assert.Equal(t, errorcode.KindRemoteRejected, errorcode.KindOf(err))
}

func TestMintAdditional(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &TokenService{ServiceInfo: env.info}

	tokenID, err := s.Mint(context.Background(), "Notes")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	txID, err := s.MintAdditional(context.Background(), tokenID, 50, env.info.Operator.SupplyKey)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.NotEmpty(t, txID)

	token, err := env.ledger.Token(tokenID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, uint64(150), token.TotalSupply)
}

func TestMintAdditionalWithWrongKey(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &TokenService{ServiceInfo: env.info}

	tokenID, err := s.Mint(context.Background(), "Notes")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	_, err = s.MintAdditional(context.Background(), tokenID, 50, newKey(t))
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, errorcode.KindUnauthorized, errorcode.KindOf(err))

	token, err := env.ledger.Token(tokenID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, uint64(TokenInitialSupply), token.TotalSupply)
}

func TestMintAdditionalRejectsZeroAmount(t *testing.T) {
	env := newTestEnv(t, 1_000_000)
	s := &TokenService{ServiceInfo: env.info}

	_, err := s.MintAdditional(context.Background(), "0.0.1001", 0, env.info.Operator.SupplyKey)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Equal(t, errorcode.KindInvalidInput, errorcode.KindOf(err))
	assert.Empty(t, env.ledger.Submitted())
}
