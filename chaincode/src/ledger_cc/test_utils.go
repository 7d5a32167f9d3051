package main

import (
	"encoding/json"
	"strings"
	"testing"

	"gitee.com/czyczk/learnledger/pkg/ledgertx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/google/uuid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-protos-go/peer"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/tjfoc/gmsm/sm2"
)

var testLogger = log.StandardLogger()

// Creates a MockStub bound to the chaincode struct LedgerCC.
func createMockStub(t *testing.T, stubName string) *shimtest.MockStub {
	return shimtest.NewMockStub(stubName, new(LedgerCC))
}

// Creates a MockStub and initializes it with the fee schedule specified.
func createInitializedMockStub(t *testing.T, stubName string, fees ledger.FeeSchedule) *shimtest.MockStub {
	mockStub := createMockStub(t, stubName)

	feesBytes, err := json.Marshal(fees)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	resp := initChaincode(mockStub, [][]byte{feesBytes})
	expectResponseStatusOK(t, &resp)
	return mockStub
}

func initChaincode(stub *shimtest.MockStub, args [][]byte) peer.Response {
	return stub.MockInit(uuid.NewString(), args)
}

func invokeChaincode(stub *shimtest.MockStub, funcName string, args ...[]byte) peer.Response {
	return stub.MockInvoke(uuid.NewString(), append([][]byte{[]byte(funcName)}, args...))
}

func newKey(t *testing.T) *sm2.PrivateKey {
	key, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return key
}

func publicKeyPEM(t *testing.T, key *sm2.PrivateKey) string {
	pubKeyPem, err := sm2keyutils.PublicKeyPEMOf(key)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return pubKeyPem
}

func signTransaction(t *testing.T, tx *ledger.Transaction, keys ...*sm2.PrivateKey) []byte {
	signed, err := ledgertx.Sign(tx, keys...)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	signedBytes, err := json.Marshal(signed)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return signedBytes
}

// Submits the transaction and decodes the receipt. The response must be OK.
func submitTransaction(t *testing.T, stub *shimtest.MockStub, tx *ledger.Transaction, keys ...*sm2.PrivateKey) *ledger.Receipt {
	resp := invokeChaincode(stub, "submitTransaction", signTransaction(t, tx, keys...))
	expectResponseStatusOK(t, &resp)

	var receipt ledger.Receipt
	if isNoError := assert.NoError(t, json.Unmarshal(resp.Payload, &receipt)); !isNoError {
		t.FailNow()
	}

	return &receipt
}

// Check if the string ends with the specified phrases.
func expectStringEndsWith(t *testing.T, expectedSuffix string, actual string) {
	isCorrectEnding := strings.HasSuffix(actual, expectedSuffix)
	if !isCorrectEnding {
		testLogger.Infof("Value was '%v'. Expecting to end with '%v'\n", actual, expectedSuffix)
		t.FailNow()
	}
}

// Check if the response state is OK.
func expectResponseStatusOK(t *testing.T, resp *peer.Response) {
	if resp.Status != shim.OK {
		testLogger.Infof("Response status was ERROR with message '%v'. Expecting response status to be OK\n", resp.Message)
		t.FailNow()
	}
}

// Check if the response state is ERROR.
func expectResponseStatusERROR(t *testing.T, resp *peer.Response) {
	if resp.Status != shim.ERROR {
		testLogger.Infof("Expecting response status to be ERROR\n")
		t.FailNow()
	}
}
