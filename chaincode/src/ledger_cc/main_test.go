package main

import (
	"encoding/json"
	"testing"

	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/stretchr/testify/assert"
)

// Init with no parameter. Should fall back to the default fee schedule.
func TestInitWithNoParameter(t *testing.T) {
	mockStub := createMockStub(t, "TestInitWithNoParameter")

	resp := initChaincode(mockStub, [][]byte{})
	expectResponseStatusOK(t, &resp)

	resp = invokeChaincode(mockStub, "getFeeSchedule")
	expectResponseStatusOK(t, &resp)

	var fees ledger.FeeSchedule
	if isNoError := assert.NoError(t, json.Unmarshal(resp.Payload, &fees)); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, ledger.DefaultFeeSchedule(), fees)
}

// Init with a fee schedule. Should store it.
func TestInitWithFeeSchedule(t *testing.T) {
	fees := ledger.FeeSchedule{FileCreate: 1, FileAppend: 2, TokenCreate: 3, TokenMint: 4, CryptoTransfer: 5, MaxChunkSize: 16}
	mockStub := createInitializedMockStub(t, "TestInitWithFeeSchedule", fees)

	resp := invokeChaincode(mockStub, "getFeeSchedule")
	expectResponseStatusOK(t, &resp)

	var stored ledger.FeeSchedule
	if isNoError := assert.NoError(t, json.Unmarshal(resp.Payload, &stored)); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, fees, stored)
}

// Init with a malformed fee schedule or too many parameters. Should return error.
func TestInitWithInvalidParameters(t *testing.T) {
	mockStub := createMockStub(t, "TestInitWithInvalidParameters")

	resp := initChaincode(mockStub, [][]byte{[]byte("Whatever")})
	expectResponseStatusERROR(t, &resp)

	resp = initChaincode(mockStub, [][]byte{[]byte("{}"), []byte("{}")})
	expectResponseStatusERROR(t, &resp)
}

// Invoke with an unknown function name. Should return error.
func TestInvokeUnknownFunction(t *testing.T) {
	mockStub := createInitializedMockStub(t, "TestInvokeUnknownFunction", ledger.DefaultFeeSchedule())

	resp := invokeChaincode(mockStub, "transferScrews")
	expectResponseStatusERROR(t, &resp)
}
