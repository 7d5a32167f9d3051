package ledgertx

import (
	"strings"
	"testing"
	"time"

	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/stretchr/testify/assert"
)

func TestNewTransactionID(t *testing.T) {
	validStart := time.Unix(1650000000, 42)
	assert.Equal(t, "0.0.2@1650000000.000000042", NewTransactionID("0.0.2", validStart))
}

func TestSignAndOpen(t *testing.T) {
	payerKey, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	otherKey, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	tx := NewTransaction(ledger.CryptoTransfer, "0.0.2", 100)
	tx.Transfer = &ledger.TransferBody{Transfers: []ledger.AccountAmount{{AccountID: "0.0.2", Amount: -5}, {AccountID: "0.0.3", Amount: 5}}}

	signed, err := Sign(tx, payerKey, otherKey)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Len(t, signed.Signatures, 2)

	opened, signers, err := Open(signed)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, tx.TransactionID, opened.TransactionID)
	assert.Equal(t, int64(-5), opened.Transfer.Transfers[0].Amount)

	payerPem, _ := sm2keyutils.PublicKeyPEMOf(payerKey)
	otherPem, _ := sm2keyutils.PublicKeyPEMOf(otherKey)
	assert.True(t, signers[payerPem])
	assert.True(t, signers[otherPem])
}

func TestOpenIgnoresBadSignatures(t *testing.T) {
	key, _ := sm2keyutils.GenerateKeyPair()
	tx := NewTransaction(ledger.TokenMint, "0.0.2", 100)
	tx.TokenMint = &ledger.TokenMintBody{TokenID: "0.0.9", Amount: 1}

	signed, err := Sign(tx, key)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// Tamper with the body after signing
	signed.BodyBytes = []byte(strings.Replace(string(signed.BodyBytes), `"amount":1`, `"amount":1000`, 1))

	opened, signers, err := Open(signed)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, uint64(1000), opened.TokenMint.Amount)
	assert.Empty(t, signers)
}

func TestSignRequiresKey(t *testing.T) {
	_, err := Sign(NewTransaction(ledger.FileCreate, "0.0.2", 1))
	assert.Error(t, err)
}
