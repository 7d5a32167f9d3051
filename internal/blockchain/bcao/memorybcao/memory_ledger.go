// Package memorybcao provides an in-process ledger. It applies the same state rules as the ledger chaincode and can inject faults.
package memorybcao

import (
	"context"
	"sync"
	"time"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/ledgerstate"
	"gitee.com/czyczk/learnledger/pkg/ledgertx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type memState map[string][]byte

func (s memState) GetState(key string) ([]byte, error) {
	value, ok := s[key]
	if !ok {
		return nil, nil
	}

	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (s memState) PutState(key string, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)
	s[key] = copied
	return nil
}

// MemoryLedger is safe for concurrent use. Transactions are applied one at a time.
type MemoryLedger struct {
	mu             sync.Mutex
	state          memState
	fees           ledger.FeeSchedule
	submitted      []*ledger.Transaction
	forcedStatuses map[ledger.TransactionType][]ledger.ReceiptStatus
	forcedReceipts map[string]*ledger.Receipt
	transportErr   error
	receiptDelay   time.Duration
}

// NewMemoryLedger creates an empty ledger charging the given fees.
func NewMemoryLedger(fees ledger.FeeSchedule) *MemoryLedger {
	return &MemoryLedger{
		state:          memState{},
		fees:           fees,
		forcedStatuses: make(map[ledger.TransactionType][]ledger.ReceiptStatus),
		forcedReceipts: make(map[string]*ledger.Receipt),
	}
}

// CreateAccount creates an account. An empty accountID lets the ledger choose one.
func (l *MemoryLedger) CreateAccount(accountID string, publicKeyPem string, balance uint64) (*ledger.AccountState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return ledgerstate.CreateAccount(l.state, accountID, publicKeyPem, balance)
}

// Fees returns the fee schedule of the ledger.
func (l *MemoryLedger) Fees() ledger.FeeSchedule {
	return l.fees
}

// FailNext makes the next submitted transaction of `txType` end with `status` without changing any state.
func (l *MemoryLedger) FailNext(txType ledger.TransactionType, status ledger.ReceiptStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.forcedStatuses[txType] = append(l.forcedStatuses[txType], status)
}

// SetTransportError makes every call fail as if the network were unreachable. Pass nil to restore.
func (l *MemoryLedger) SetTransportError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transportErr = err
}

// SetReceiptDelay delays every receipt. Callers with a shorter deadline time out after the transaction was applied.
func (l *MemoryLedger) SetReceiptDelay(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.receiptDelay = d
}

// Submitted returns the transactions accepted so far, in submission order.
func (l *MemoryLedger) Submitted() []*ledger.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	ret := make([]*ledger.Transaction, len(l.submitted))
	copy(ret, l.submitted)
	return ret
}

// SubmittedOfType returns the accepted transactions of one type, in submission order.
func (l *MemoryLedger) SubmittedOfType(txType ledger.TransactionType) []*ledger.Transaction {
	var ret []*ledger.Transaction
	for _, tx := range l.Submitted() {
		if tx.Type == txType {
			ret = append(ret, tx)
		}
	}

	return ret
}

// Token returns a token's state.
func (l *MemoryLedger) Token(tokenID string) (*ledger.TokenState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return ledgerstate.GetToken(l.state, tokenID)
}

func (l *MemoryLedger) checkTransport() error {
	if l.transportErr != nil {
		return errors.Wrapf(errorcode.ErrorNetwork, "无法连接账本: %v", l.transportErr)
	}

	return nil
}

func (l *MemoryLedger) SubmitTransaction(ctx context.Context, signed *ledger.SignedTransaction) (*bcao.TransactionCreationInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, bcao.GetClassifiedError("submitTransaction", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkTransport(); err != nil {
		return nil, err
	}

	tx, _, err := ledgertx.Open(signed)
	if err != nil {
		return nil, errors.Wrap(errorcode.ErrorRemoteRejected, err.Error())
	}

	if forced := l.forcedStatuses[tx.Type]; len(forced) > 0 {
		l.forcedStatuses[tx.Type] = forced[1:]
		if _, dup := l.forcedReceipts[tx.TransactionID]; dup {
			return nil, errors.Wrapf(errorcode.ErrorRemoteRejected, "交易 '%v' 已提交过", tx.TransactionID)
		}

		l.forcedReceipts[tx.TransactionID] = &ledger.Receipt{TransactionID: tx.TransactionID, Status: forced[0], ConsensusTimestamp: time.Now().UTC()}
		l.submitted = append(l.submitted, tx)
		log.Debugf("内存账本: 交易 '%v' 被强制置为 %v", tx.TransactionID, forced[0])
		return &bcao.TransactionCreationInfo{TransactionID: tx.TransactionID}, nil
	}

	receipt, err := ledgerstate.Apply(l.state, signed, l.fees, time.Now())
	if err != nil {
		return nil, err
	}

	l.submitted = append(l.submitted, tx)
	log.Debugf("内存账本: 交易 '%v' (%v) -> %v", receipt.TransactionID, tx.Type, receipt.Status)
	return &bcao.TransactionCreationInfo{TransactionID: receipt.TransactionID}, nil
}

// GetReceipt returns a receipt without waiting.
func (l *MemoryLedger) GetReceipt(transactionID string) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkTransport(); err != nil {
		return nil, err
	}

	if receipt, ok := l.forcedReceipts[transactionID]; ok {
		copied := *receipt
		return &copied, nil
	}

	return ledgerstate.GetReceipt(l.state, transactionID)
}

func (l *MemoryLedger) AwaitReceipt(ctx context.Context, transactionID string) (*ledger.Receipt, error) {
	l.mu.Lock()
	delay := l.receiptDelay
	l.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(errorcode.ErrorTimeout, "等待交易 '%v' 的回执超时", transactionID)
		case <-time.After(delay):
		}
	}

	// Receipts are written together with the transaction, so a missing one means the ID was never submitted.
	return l.GetReceipt(transactionID)
}

func (l *MemoryLedger) QueryBalance(ctx context.Context, accountID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, bcao.GetClassifiedError("getBalance", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkTransport(); err != nil {
		return 0, err
	}

	return ledgerstate.GetBalance(l.state, accountID)
}

func (l *MemoryLedger) QueryFileContents(ctx context.Context, fileID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, bcao.GetClassifiedError("getFileContents", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkTransport(); err != nil {
		return nil, err
	}

	return ledgerstate.GetFileContents(l.state, fileID)
}
