package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/ledgerstate"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

func (lc *LedgerCC) createAccount(stub shim.ChaincodeStubInterface, args []string) peer.Response {
	// 检查参数数量。第三个参数为可选的账户 ID。
	if len(args) != 2 && len(args) != 3 {
		return shim.Error("参数数量不正确。应为 2 或 3 个")
	}

	// 解析参数
	publicKeyPem := args[0]
	balance, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return shim.Error(errors.Wrap(errorcode.ErrorInvalidInput, "初始余额须为非负整数").Error())
	}

	accountID := ""
	if len(args) == 3 {
		accountID = args[2]
	}

	account, err := ledgerstate.CreateAccount(stub, accountID, publicKeyPem, balance)
	if err != nil {
		return shim.Error(err.Error())
	}

	return successJSON(account)
}

func (lc *LedgerCC) submitTransaction(stub shim.ChaincodeStubInterface, args []string) peer.Response {
	// 检查参数数量
	if len(args) != 1 {
		return shim.Error("参数数量不正确。应为 1 个")
	}

	var signed ledger.SignedTransaction
	if err := json.Unmarshal([]byte(args[0]), &signed); err != nil {
		return shim.Error(errors.Wrapf(errorcode.ErrorRemoteRejected, "已签名交易不合法: %v", err).Error())
	}

	fees, err := loadFeeSchedule(stub)
	if err != nil {
		return shim.Error(err.Error())
	}

	// 以交易提案的创建时间作为共识时间，保证各背书节点结果一致
	now, err := getTimeFromStub(stub)
	if err != nil {
		return shim.Error(fmt.Sprintf("无法获取交易时间: %v", err))
	}

	receipt, err := ledgerstate.Apply(stub, &signed, *fees, now)
	if err != nil {
		return shim.Error(err.Error())
	}

	return successJSON(receipt)
}

func (lc *LedgerCC) getReceipt(stub shim.ChaincodeStubInterface, args []string) peer.Response {
	if len(args) != 1 {
		return shim.Error("参数数量不正确。应为 1 个")
	}

	receipt, err := ledgerstate.GetReceipt(stub, args[0])
	if err != nil {
		return shim.Error(err.Error())
	}

	return successJSON(receipt)
}

func (lc *LedgerCC) getBalance(stub shim.ChaincodeStubInterface, args []string) peer.Response {
	if len(args) != 1 {
		return shim.Error("参数数量不正确。应为 1 个")
	}

	balance, err := ledgerstate.GetBalance(stub, args[0])
	if err != nil {
		return shim.Error(err.Error())
	}

	return shim.Success([]byte(strconv.FormatUint(balance, 10)))
}

func (lc *LedgerCC) getFileContents(stub shim.ChaincodeStubInterface, args []string) peer.Response {
	if len(args) != 1 {
		return shim.Error("参数数量不正确。应为 1 个")
	}

	contents, err := ledgerstate.GetFileContents(stub, args[0])
	if err != nil {
		return shim.Error(err.Error())
	}

	return shim.Success(contents)
}

func (lc *LedgerCC) getToken(stub shim.ChaincodeStubInterface, args []string) peer.Response {
	if len(args) != 1 {
		return shim.Error("参数数量不正确。应为 1 个")
	}

	token, err := ledgerstate.GetToken(stub, args[0])
	if err != nil {
		return shim.Error(err.Error())
	}

	return successJSON(token)
}

func (lc *LedgerCC) getFeeSchedule(stub shim.ChaincodeStubInterface, args []string) peer.Response {
	if len(args) != 0 {
		return shim.Error("参数数量不正确。应为 0 个")
	}

	fees, err := loadFeeSchedule(stub)
	if err != nil {
		return shim.Error(err.Error())
	}

	return successJSON(fees)
}

func loadFeeSchedule(stub shim.ChaincodeStubInterface) (*ledger.FeeSchedule, error) {
	feesBytes, err := stub.GetState(keyFeeSchedule)
	if err != nil {
		return nil, errors.Wrap(err, "无法读取手续费表")
	}
	if len(feesBytes) == 0 {
		return nil, errors.Wrap(errorcode.ErrorNotFound, "链码未初始化手续费表")
	}

	var fees ledger.FeeSchedule
	if err = json.Unmarshal(feesBytes, &fees); err != nil {
		return nil, errors.Wrap(err, "手续费表不合法")
	}

	return &fees, nil
}

func getTimeFromStub(stub shim.ChaincodeStubInterface) (time.Time, error) {
	// 从 stub 中得到交易提案创建时间
	timestamp, err := stub.GetTxTimestamp()
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(timestamp.Seconds, int64(timestamp.Nanos)).UTC(), nil
}

func successJSON(v interface{}) peer.Response {
	bytes, err := json.Marshal(v)
	if err != nil {
		return shim.Error(fmt.Sprintf("无法序列化返回值: %v", err))
	}

	return shim.Success(bytes)
}
