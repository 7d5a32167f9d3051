package service

import (
	"context"
	"sync"
	"testing"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao/memorybcao"
	"gitee.com/czyczk/learnledger/internal/models/common"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tjfoc/gmsm/sm2"
)

const operatorAccountID = "0.0.2"

var testFees = ledger.FeeSchedule{
	FileCreate:     10,
	FileAppend:     10,
	TokenCreate:    50,
	TokenMint:      10,
	CryptoTransfer: 100,
	MaxChunkSize:   1024,
}

type fakeMetadataStore struct {
	mu        sync.Mutex
	resources map[string]*common.Resource
	order     []string
	purchases map[string]*common.PurchaseRecord
	orphans   []*common.OrphanedArtifact

	insertResourceErr error
	insertPurchaseErr error
}

func newFakeMetadataStore() *fakeMetadataStore {
	return &fakeMetadataStore{
		resources: make(map[string]*common.Resource),
		purchases: make(map[string]*common.PurchaseRecord),
	}
}

func purchaseKey(resourceID, buyerID string) string { return resourceID + "/" + buyerID }

func (s *fakeMetadataStore) InsertResource(ctx context.Context, resource *common.Resource) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertResourceErr != nil {
		return "", s.insertResourceErr
	}

	copied := *resource
	s.resources[resource.ID] = &copied
	s.order = append(s.order, resource.ID)
	return resource.ID, nil
}

func (s *fakeMetadataStore) FindResourceByID(ctx context.Context, id string) (*common.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resource, ok := s.resources[id]
	if !ok {
		return nil, errors.Wrapf(errorcode.ErrorNotFound, "资源 '%v' 不存在", id)
	}

	copied := *resource
	return &copied, nil
}

func (s *fakeMetadataStore) ListResources(ctx context.Context) ([]*common.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret := make([]*common.Resource, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.resources[id]
		ret = append(ret, &copied)
	}

	return ret, nil
}

func (s *fakeMetadataStore) InsertPurchase(ctx context.Context, purchase *common.PurchaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertPurchaseErr != nil {
		return s.insertPurchaseErr
	}

	copied := *purchase
	s.purchases[purchaseKey(purchase.ResourceID, purchase.BuyerID)] = &copied
	return nil
}

func (s *fakeMetadataStore) FindPurchase(ctx context.Context, resourceID string, buyerID string) (*common.PurchaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchase, ok := s.purchases[purchaseKey(resourceID, buyerID)]
	if !ok {
		return nil, errors.Wrap(errorcode.ErrorNotFound, "购买记录不存在")
	}

	copied := *purchase
	return &copied, nil
}

func (s *fakeMetadataStore) InsertOrphanedArtifact(ctx context.Context, artifact *common.OrphanedArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *artifact
	s.orphans = append(s.orphans, &copied)
	return nil
}

func (s *fakeMetadataStore) ListOrphanedArtifacts(ctx context.Context) ([]*common.OrphanedArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret := make([]*common.OrphanedArtifact, len(s.orphans))
	copy(ret, s.orphans)
	return ret, nil
}

func (s *fakeMetadataStore) purchaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.purchases)
}

// testEnv 为一个内存账本、伪元数据存储与平台账户组成的测试环境
type testEnv struct {
	ledger *memorybcao.MemoryLedger
	store  *fakeMetadataStore
	info   *Info
}

func newKey(t *testing.T) *sm2.PrivateKey {
	key, err := sm2keyutils.GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return key
}

func newTestEnv(t *testing.T, operatorBalance uint64) *testEnv {
	l := memorybcao.NewMemoryLedger(testFees)
	operatorKey := newKey(t)
	createAccount(t, l, operatorAccountID, operatorKey, operatorBalance)

	store := newFakeMetadataStore()
	info := &Info{
		LedgerBCAO:    l,
		MetadataStore: store,
		Operator: &OperatorInfo{
			AccountID:  operatorAccountID,
			PrivateKey: operatorKey,
			FileKey:    newKey(t),
			SupplyKey:  newKey(t),
		},
		Params: &Params{ChunkSize: DefaultChunkSize, Fees: testFees},
	}

	return &testEnv{ledger: l, store: store, info: info}
}

func createAccount(t *testing.T, l *memorybcao.MemoryLedger, accountID string, key *sm2.PrivateKey, balance uint64) {
	pem, err := sm2keyutils.PublicKeyPEMOf(key)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	_, err = l.CreateAccount(accountID, pem, balance)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
}

func (e *testEnv) balance(t *testing.T, accountID string) uint64 {
	balance, err := e.ledger.QueryBalance(context.Background(), accountID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return balance
}

func makeContent(size int) []byte {
	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i % 251)
	}

	return content
}
