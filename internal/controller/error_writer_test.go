package controller

import (
	"net/http"
	"net/url"
	"testing"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"gitee.com/czyczk/learnledger/internal/service"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewErrorInfoHidesLedgerDetails(t *testing.T) {
	relayErr := errors.New(`Get "http://127.0.0.1:1/internal-relay/secret/accounts/0.0.2/balance": dial tcp 127.0.0.1:1: connect: connection refused`)

	cases := []struct {
		err    error
		status int
		kind   errorcode.Kind
	}{
		{bcao.GetClassifiedError("getBalance", relayErr), http.StatusBadGateway, errorcode.KindNetworkError},
		{errors.Wrap(errorcode.ErrorTimeout, "等待 http://relay.internal/receipts/0.0.2-1 超时"), http.StatusGatewayTimeout, errorcode.KindTimeout},
		{&service.ReceiptError{TxType: ledger.CryptoTransfer, TransactionID: "0.0.2-1", Status: ledger.StatusInvalidSignature}, http.StatusBadGateway, errorcode.KindRemoteRejected},
		{errors.New("dial tcp 10.0.0.5:3306: connection refused"), http.StatusInternalServerError, errorcode.KindInternal},
	}

	for _, c := range cases {
		status, info := newErrorInfo(c.err)
		assert.Equal(t, c.status, status)
		assert.Equal(t, string(c.kind), info.Kind)
		assert.NotEmpty(t, info.Detail)
		assert.NotContains(t, info.Detail, "http://")
		assert.NotContains(t, info.Detail, "~")
		assert.NotContains(t, info.Detail, "getBalance")
		assert.NotContains(t, info.Detail, "10.0.0.5")
	}
}

func TestNewErrorInfoKeepsTransactionID(t *testing.T) {
	err := &service.ReceiptError{TxType: ledger.CryptoTransfer, TransactionID: "0.0.2-1", Status: ledger.StatusInvalidSignature}

	_, info := newErrorInfo(err)
	assert.Equal(t, "0.0.2-1", info.TransactionID)
}

func TestNewErrorInfoStripsErrorCode(t *testing.T) {
	_, info := newErrorInfo(errors.Wrap(errorcode.ErrorInvalidInput, "金额必须为正整数"))
	assert.Equal(t, string(errorcode.KindInvalidInput), info.Kind)
	assert.Equal(t, "金额必须为正整数", info.Detail)
}

func TestPaymentNetworkErrorBody(t *testing.T) {
	s := newTestServer(t)
	s.ledger.SetTransportError(errors.New(`Post "http://relay.internal:7050/transactions": connection refused`))

	w := s.postForm("/api/v1/payments", url.Values{
		"senderId":    {buyerID},
		"senderKey":   {keyPEM(t, s.buyerKey)},
		"recipientId": {ownerID},
		"amount":      {"100"},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	info := decodeErrorInfo(t, w)
	assert.Equal(t, "NetworkError", info.Kind)
	assert.NotContains(t, info.Detail, "relay.internal")
	assert.NotContains(t, info.Detail, "~")
}
