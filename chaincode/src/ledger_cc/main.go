package main

import (
	"encoding/json"
	"fmt"

	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
	log "github.com/sirupsen/logrus"
)

// 手续费表在世界状态中的 key。账本状态的 key 均带有 "~"，不会与之冲突。
const keyFeeSchedule = "feeschedule"

// LedgerCC 实现 Chaincode 接口。它在 Fabric 世界状态上维护账户、文件、代币与交易回执。
type LedgerCC struct{}

// Init 用于初始化链码。可接收一个参数，为 JSON 格式的手续费表；不给出时使用默认手续费表。
func (lc *LedgerCC) Init(stub shim.ChaincodeStubInterface) peer.Response {
	args := stub.GetArgs()
	if len(args) > 1 {
		return shim.Error("初始化至多接收 1 个参数")
	}

	fees := ledger.DefaultFeeSchedule()
	if len(args) == 1 {
		if err := json.Unmarshal(args[0], &fees); err != nil {
			return shim.Error(fmt.Sprintf("无法解析手续费表: %v", err))
		}
	}

	feesBytes, err := json.Marshal(fees)
	if err != nil {
		return shim.Error(fmt.Sprintf("无法序列化手续费表: %v", err))
	}

	if err = stub.PutState(keyFeeSchedule, feesBytes); err != nil {
		return shim.Error(fmt.Sprintf("无法保存手续费表: %v", err))
	}

	return shim.Success(nil)
}

// Invoke 用于分流链码调用。
func (lc *LedgerCC) Invoke(stub shim.ChaincodeStubInterface) peer.Response {
	// 解出具体函数名与参数
	funcName, args := stub.GetFunctionAndParameters()

	switch funcName {
	case "createAccount":
		return lc.createAccount(stub, args)
	case "submitTransaction":
		return lc.submitTransaction(stub, args)
	case "getReceipt":
		return lc.getReceipt(stub, args)
	case "getBalance":
		return lc.getBalance(stub, args)
	case "getFileContents":
		return lc.getFileContents(stub, args)
	case "getToken":
		return lc.getToken(stub, args)
	case "getFeeSchedule":
		return lc.getFeeSchedule(stub, args)
	}

	return shim.Error(fmt.Sprintf("未知的函数名 '%v'", funcName))
}

func main() {
	if err := shim.Start(new(LedgerCC)); err != nil {
		log.Errorf("启动链码 LedgerCC 时出错: %v", err)
	}
}
