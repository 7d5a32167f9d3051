package ledgerstate

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
)

// StateStore is the key-value view of the world state. `shim.ChaincodeStubInterface` satisfies it.
type StateStore interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
}

const (
	keyEntitySeq   = "entityseq"
	firstEntityNum = 1001
)

func accountKey(accountID string) string       { return "account~" + accountID }
func fileKey(fileID string) string             { return "file~" + fileID }
func fileChunkKey(fileID string, i int) string { return fmt.Sprintf("filechunk~%v~%08d", fileID, i) }
func tokenKey(tokenID string) string           { return "token~" + tokenID }
func receiptKey(transactionID string) string   { return "receipt~" + transactionID }
func entityID(num uint64) string               { return fmt.Sprintf("0.0.%d", num) }

func getJSON(store StateStore, key string, v interface{}) (bool, error) {
	data, err := store.GetState(key)
	if err != nil {
		return false, errors.Wrapf(err, "无法读取状态 '%v'", key)
	}
	if len(data) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrapf(err, "无法解析状态 '%v'", key)
	}

	return true, nil
}

func marshal(v interface{}) []byte {
	// All state values are plain structs, so marshaling cannot fail.
	data, _ := json.Marshal(v)
	return data
}

// allocateEntityNum reads the sequence counter and returns the next number together with the write that advances it.
func allocateEntityNum(store StateStore) (uint64, pendingWrite, error) {
	data, err := store.GetState(keyEntitySeq)
	if err != nil {
		return 0, pendingWrite{}, errors.Wrap(err, "无法读取实体序号")
	}

	next := uint64(firstEntityNum)
	if len(data) != 0 {
		next, err = strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return 0, pendingWrite{}, errors.Wrap(err, "无法解析实体序号")
		}
	}

	return next, pendingWrite{key: keyEntitySeq, value: []byte(strconv.FormatUint(next+1, 10))}, nil
}

type pendingWrite struct {
	key   string
	value []byte
}

// GetAccount 获取账户。账户不存在时返回 errorcode.ErrorNotFound。
func GetAccount(store StateStore, accountID string) (*ledger.AccountState, error) {
	var account ledger.AccountState
	found, err := getJSON(store, accountKey(accountID), &account)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(errorcode.ErrorNotFound, "账户 '%v' 不存在", accountID)
	}

	return &account, nil
}

// GetBalance 获取账户余额
func GetBalance(store StateStore, accountID string) (uint64, error) {
	account, err := GetAccount(store, accountID)
	if err != nil {
		return 0, err
	}

	return account.Balance, nil
}

// GetReceipt 获取交易回执。交易未被处理时返回 errorcode.ErrorNotFound。
func GetReceipt(store StateStore, transactionID string) (*ledger.Receipt, error) {
	var receipt ledger.Receipt
	found, err := getJSON(store, receiptKey(transactionID), &receipt)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(errorcode.ErrorNotFound, "交易 '%v' 的回执不存在", transactionID)
	}

	return &receipt, nil
}

// GetToken 获取代币信息
func GetToken(store StateStore, tokenID string) (*ledger.TokenState, error) {
	var token ledger.TokenState
	found, err := getJSON(store, tokenKey(tokenID), &token)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(errorcode.ErrorNotFound, "代币 '%v' 不存在", tokenID)
	}

	return &token, nil
}

// GetFile 获取文件元数据
func GetFile(store StateStore, fileID string) (*ledger.FileState, error) {
	var file ledger.FileState
	found, err := getJSON(store, fileKey(fileID), &file)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(errorcode.ErrorNotFound, "文件 '%v' 不存在", fileID)
	}

	return &file, nil
}

// GetFileContents 按块顺序拼接出文件的完整内容
func GetFileContents(store StateStore, fileID string) ([]byte, error) {
	file, err := GetFile(store, fileID)
	if err != nil {
		return nil, err
	}

	contents := make([]byte, 0, file.Size)
	for i := 0; i < file.ChunkCount; i++ {
		chunk, err := store.GetState(fileChunkKey(fileID, i))
		if err != nil {
			return nil, errors.Wrapf(err, "无法读取文件 '%v' 的第 %d 块", fileID, i)
		}
		contents = append(contents, chunk...)
	}

	if uint64(len(contents)) != file.Size {
		return nil, fmt.Errorf("文件 '%v' 的内容长度 %d 与记录的大小 %d 不一致", fileID, len(contents), file.Size)
	}

	return contents, nil
}
