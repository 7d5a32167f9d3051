// Package ledgerstate 实现账本世界状态的转换规则。链码与内存账本共用这一套规则，从而保证两者对同一笔交易给出相同的回执。
package ledgerstate

import (
	"math"
	"sort"
	"time"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/ledgertx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
)

// CreateAccount 创建账户。accountID 为空时自动分配。
//
// 参数：
//   状态存储
//   账户 ID（可为空）
//   PEM 格式公钥
//   初始余额
//
// 返回：
//   新账户
func CreateAccount(store StateStore, accountID string, publicKeyPem string, balance uint64) (*ledger.AccountState, error) {
	canonicalKey, err := ledgertx.CanonicalPublicKey(publicKeyPem)
	if err != nil {
		return nil, errors.Wrap(errorcode.ErrorInvalidInput, "公钥格式不正确")
	}

	var writes []pendingWrite
	if accountID == "" {
		num, seqWrite, err := allocateEntityNum(store)
		if err != nil {
			return nil, err
		}
		accountID = entityID(num)
		writes = append(writes, seqWrite)
	}

	var existing ledger.AccountState
	found, err := getJSON(store, accountKey(accountID), &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, errors.Wrapf(errorcode.ErrorInvalidInput, "账户 '%v' 已存在", accountID)
	}

	account := &ledger.AccountState{AccountID: accountID, PublicKey: canonicalKey, Balance: balance}
	writes = append(writes, pendingWrite{key: accountKey(accountID), value: marshal(account)})
	if err := flush(store, writes); err != nil {
		return nil, err
	}

	return account, nil
}

// Apply 执行一笔已签名交易并返回其回执。
//
// 交易体无法解析、缺少交易 ID 或交易 ID 重复时，交易不被受理，返回包装了 errorcode.ErrorRemoteRejected 的错误且不写入任何状态。
// 其余情况下交易均被受理并写入回执；只有回执状态为 SUCCESS 时才会改变账户、文件与代币状态并向付费账户收取手续费。
// 同一次 Apply 中不会读取已写入的键。
func Apply(store StateStore, signed *ledger.SignedTransaction, fees ledger.FeeSchedule, now time.Time) (*ledger.Receipt, error) {
	tx, signers, err := ledgertx.Open(signed)
	if err != nil {
		return nil, errors.Wrap(errorcode.ErrorRemoteRejected, err.Error())
	}
	if tx.TransactionID == "" {
		return nil, errors.Wrap(errorcode.ErrorRemoteRejected, "交易 ID 不能为空")
	}

	var prior ledger.Receipt
	found, err := getJSON(store, receiptKey(tx.TransactionID), &prior)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, errors.Wrapf(errorcode.ErrorRemoteRejected, "交易 '%v' 已提交过", tx.TransactionID)
	}

	a := &applier{
		store:    store,
		tx:       tx,
		signers:  signers,
		fees:     fees,
		accounts: make(map[string]*ledger.AccountState),
		receipt:  &ledger.Receipt{TransactionID: tx.TransactionID, ConsensusTimestamp: now.UTC()},
	}

	status, err := a.run()
	if err != nil {
		return nil, err
	}

	a.receipt.Status = status
	if status.IsSuccess() {
		a.writes = append(a.writes, a.accountWrites()...)
	} else {
		// 失败的交易只留下回执
		a.writes = nil
		a.receipt.FileID = ""
		a.receipt.TokenID = ""
		a.receipt.TotalSupply = 0
		a.receipt.ChargedFee = 0
	}
	a.writes = append(a.writes, pendingWrite{key: receiptKey(tx.TransactionID), value: marshal(a.receipt)})

	if err := flush(store, a.writes); err != nil {
		return nil, err
	}

	return a.receipt, nil
}

func flush(store StateStore, writes []pendingWrite) error {
	for _, w := range writes {
		if err := store.PutState(w.key, w.value); err != nil {
			return errors.Wrapf(err, "无法写入状态 '%v'", w.key)
		}
	}

	return nil
}

type applier struct {
	store    StateStore
	tx       *ledger.Transaction
	signers  map[string]bool
	fees     ledger.FeeSchedule
	accounts map[string]*ledger.AccountState
	writes   []pendingWrite
	receipt  *ledger.Receipt
}

// account loads an account once per transaction. Later mutations go to the cached copy.
func (a *applier) account(accountID string) (*ledger.AccountState, error) {
	if account, ok := a.accounts[accountID]; ok {
		return account, nil
	}

	var account ledger.AccountState
	found, err := getJSON(a.store, accountKey(accountID), &account)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	a.accounts[accountID] = &account
	return &account, nil
}

func (a *applier) accountWrites() []pendingWrite {
	ids := make([]string, 0, len(a.accounts))
	for id := range a.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	writes := make([]pendingWrite, 0, len(ids))
	for _, id := range ids {
		writes = append(writes, pendingWrite{key: accountKey(id), value: marshal(a.accounts[id])})
	}

	return writes
}

func (a *applier) signedBy(pubKeyPem string) bool {
	canonical, err := ledgertx.CanonicalPublicKey(pubKeyPem)
	if err != nil {
		return false
	}

	return a.signers[canonical]
}

func (a *applier) run() (ledger.ReceiptStatus, error) {
	payer, err := a.account(a.tx.PayerAccountID)
	if err != nil {
		return "", err
	}
	if payer == nil {
		return ledger.StatusPayerAccountNotFound, nil
	}
	if !a.signedBy(payer.PublicKey) {
		return ledger.StatusInvalidSignature, nil
	}

	fee := a.fees.FeeFor(a.tx.Type)
	if a.tx.MaxTransactionFee < fee {
		return ledger.StatusInsufficientTxFee, nil
	}
	if payer.Balance < fee {
		return ledger.StatusInsufficientPayerBalance, nil
	}

	var status ledger.ReceiptStatus
	switch a.tx.Type {
	case ledger.FileCreate:
		status, err = a.fileCreate()
	case ledger.FileAppend:
		status, err = a.fileAppend()
	case ledger.TokenCreate:
		status, err = a.tokenCreate()
	case ledger.TokenMint:
		status, err = a.tokenMint()
	case ledger.CryptoTransfer:
		status, err = a.transfer()
	default:
		status = ledger.StatusInvalidTransactionBody
	}
	if err != nil || !status.IsSuccess() {
		return status, err
	}

	// 交易体可能已扣减了付费账户的余额，因此在此处再检查一次
	if payer.Balance < fee {
		return ledger.StatusInsufficientPayerBalance, nil
	}
	payer.Balance -= fee
	a.receipt.ChargedFee = fee

	return ledger.StatusSuccess, nil
}

func (a *applier) fileCreate() (ledger.ReceiptStatus, error) {
	body := a.tx.FileCreate
	if body == nil || len(body.Keys) == 0 {
		return ledger.StatusInvalidTransactionBody, nil
	}

	keys := make([]string, 0, len(body.Keys))
	for _, key := range body.Keys {
		canonical, err := ledgertx.CanonicalPublicKey(key)
		if err != nil {
			return ledger.StatusInvalidTransactionBody, nil
		}
		if !a.signers[canonical] {
			return ledger.StatusInvalidSignature, nil
		}
		keys = append(keys, canonical)
	}

	num, seqWrite, err := allocateEntityNum(a.store)
	if err != nil {
		return "", err
	}

	file := &ledger.FileState{FileID: entityID(num), Keys: keys, ExpectedSize: body.ExpectedSize}
	a.writes = append(a.writes, seqWrite, pendingWrite{key: fileKey(file.FileID), value: marshal(file)})
	a.receipt.FileID = file.FileID

	return ledger.StatusSuccess, nil
}

func (a *applier) fileAppend() (ledger.ReceiptStatus, error) {
	body := a.tx.FileAppend
	if body == nil || len(body.Contents) == 0 {
		return ledger.StatusInvalidTransactionBody, nil
	}
	if a.fees.MaxChunkSize > 0 && len(body.Contents) > a.fees.MaxChunkSize {
		return ledger.StatusTransactionOversize, nil
	}

	var file ledger.FileState
	found, err := getJSON(a.store, fileKey(body.FileID), &file)
	if err != nil {
		return "", err
	}
	if !found {
		return ledger.StatusInvalidFileID, nil
	}

	for _, key := range file.Keys {
		if !a.signers[key] {
			return ledger.StatusInvalidSignature, nil
		}
	}

	if body.Offset != file.Size {
		return ledger.StatusFileOffsetMismatch, nil
	}

	chunkIndex := file.ChunkCount
	file.Size += uint64(len(body.Contents))
	file.ChunkCount++
	a.writes = append(a.writes,
		pendingWrite{key: fileChunkKey(file.FileID, chunkIndex), value: body.Contents},
		pendingWrite{key: fileKey(file.FileID), value: marshal(&file)},
	)
	a.receipt.FileID = file.FileID

	return ledger.StatusSuccess, nil
}

func (a *applier) tokenCreate() (ledger.ReceiptStatus, error) {
	body := a.tx.TokenCreate
	if body == nil || body.Name == "" || body.Symbol == "" {
		return ledger.StatusInvalidTransactionBody, nil
	}

	treasury, err := a.account(body.TreasuryAccountID)
	if err != nil {
		return "", err
	}
	if treasury == nil {
		return ledger.StatusInvalidAccountID, nil
	}
	if !a.signedBy(treasury.PublicKey) {
		return ledger.StatusInvalidSignature, nil
	}

	supplyKey := ""
	if body.SupplyKey != "" {
		supplyKey, err = ledgertx.CanonicalPublicKey(body.SupplyKey)
		if err != nil {
			return ledger.StatusInvalidTransactionBody, nil
		}
	}

	num, seqWrite, err := allocateEntityNum(a.store)
	if err != nil {
		return "", err
	}

	token := &ledger.TokenState{
		TokenID:           entityID(num),
		Name:              body.Name,
		Symbol:            body.Symbol,
		Decimals:          body.Decimals,
		TotalSupply:       body.InitialSupply,
		TreasuryAccountID: treasury.AccountID,
		TreasuryBalance:   body.InitialSupply,
		SupplyKey:         supplyKey,
	}
	a.writes = append(a.writes, seqWrite, pendingWrite{key: tokenKey(token.TokenID), value: marshal(token)})
	a.receipt.TokenID = token.TokenID
	a.receipt.TotalSupply = token.TotalSupply

	return ledger.StatusSuccess, nil
}

func (a *applier) tokenMint() (ledger.ReceiptStatus, error) {
	body := a.tx.TokenMint
	if body == nil {
		return ledger.StatusInvalidTransactionBody, nil
	}

	var token ledger.TokenState
	found, err := getJSON(a.store, tokenKey(body.TokenID), &token)
	if err != nil {
		return "", err
	}
	if !found {
		return ledger.StatusInvalidTokenID, nil
	}
	if token.SupplyKey == "" {
		return ledger.StatusTokenHasNoSupplyKey, nil
	}
	if body.Amount == 0 || token.TotalSupply+body.Amount < token.TotalSupply {
		return ledger.StatusInvalidTokenMintAmount, nil
	}
	if !a.signers[token.SupplyKey] {
		return ledger.StatusInvalidSignature, nil
	}

	token.TotalSupply += body.Amount
	token.TreasuryBalance += body.Amount
	a.writes = append(a.writes, pendingWrite{key: tokenKey(token.TokenID), value: marshal(&token)})
	a.receipt.TokenID = token.TokenID
	a.receipt.TotalSupply = token.TotalSupply

	return ledger.StatusSuccess, nil
}

func (a *applier) transfer() (ledger.ReceiptStatus, error) {
	body := a.tx.Transfer
	if body == nil || len(body.Transfers) < 2 {
		return ledger.StatusInvalidAccountAmounts, nil
	}

	var debitSum, creditSum uint64
	seen := make(map[string]bool, len(body.Transfers))
	for _, leg := range body.Transfers {
		if leg.Amount == 0 || leg.Amount == math.MinInt64 || seen[leg.AccountID] {
			return ledger.StatusInvalidAccountAmounts, nil
		}
		seen[leg.AccountID] = true

		if leg.Amount < 0 {
			if !addWithoutOverflow(&debitSum, uint64(-leg.Amount)) {
				return ledger.StatusInvalidAccountAmounts, nil
			}
		} else {
			if !addWithoutOverflow(&creditSum, uint64(leg.Amount)) {
				return ledger.StatusInvalidAccountAmounts, nil
			}
		}
	}
	if debitSum != creditSum {
		return ledger.StatusInvalidAccountAmounts, nil
	}

	// Validate every leg before touching any balance
	for _, leg := range body.Transfers {
		account, err := a.account(leg.AccountID)
		if err != nil {
			return "", err
		}
		if account == nil {
			return ledger.StatusInvalidAccountID, nil
		}

		if leg.Amount < 0 {
			if !a.signedBy(account.PublicKey) {
				return ledger.StatusInvalidSignature, nil
			}
			if account.Balance < uint64(-leg.Amount) {
				return ledger.StatusInsufficientAccountBalance, nil
			}
		}
	}

	for _, leg := range body.Transfers {
		account := a.accounts[leg.AccountID]
		if leg.Amount < 0 {
			account.Balance -= uint64(-leg.Amount)
		} else {
			account.Balance += uint64(leg.Amount)
		}
	}

	return ledger.StatusSuccess, nil
}

// addWithoutOverflow 在不溢出时将 delta 累加到 sum 上，溢出时保持 sum 不变并返回 false。
func addWithoutOverflow(sum *uint64, delta uint64) bool {
	if *sum > math.MaxUint64-delta {
		return false
	}
	*sum += delta
	return true
}
