package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tjfoc/gmsm/sm2"
)

const (
	ownerAccountID = "0.0.10"
	buyerAccountID = "0.0.11"
)

type resourceEnv struct {
	*testEnv
	service  *ResourceService
	buyerKey *sm2.PrivateKey
}

func newResourceEnv(t *testing.T) *resourceEnv {
	env := newTestEnv(t, 1_000_000)
	createAccount(t, env.ledger, ownerAccountID, newKey(t), 0)
	buyerKey := newKey(t)
	createAccount(t, env.ledger, buyerAccountID, buyerKey, 1_000)

	return &resourceEnv{testEnv: env, service: NewResourceService(env.info), buyerKey: buyerKey}
}

func (e *resourceEnv) publish(t *testing.T, size int, price uint64) *common.Resource {
	resource, err := e.service.Publish(context.Background(), &PublishRequest{
		Content: makeContent(size),
		Title:   "Linear Algebra Notes",
		Subject: "Mathematics",
		Price:   price,
		OwnerID: ownerAccountID,
	})
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return resource
}

func TestPublish(t *testing.T) {
	env := newResourceEnv(t)

	resource := env.publish(t, 2500, 400)
	assert.NotEmpty(t, resource.ID)
	assert.NotEmpty(t, resource.FileID)
	assert.NotEmpty(t, resource.TokenID)
	assert.Equal(t, "Linear Algebra Notes", resource.Title)
	assert.Equal(t, "Mathematics", resource.Subject)
	assert.Equal(t, uint64(400), resource.Price)
	assert.Equal(t, ownerAccountID, resource.OwnerID)
	assert.Equal(t, uint64(2500), resource.Size)

	stored, err := env.service.GetResource(context.Background(), resource.ID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, resource.FileID, stored.FileID)

	token, err := env.ledger.Token(resource.TokenID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, resource.Title, token.Name)
}

func TestPublishDefaults(t *testing.T) {
	env := newResourceEnv(t)

	resource, err := env.service.Publish(context.Background(), &PublishRequest{
		Content: makeContent(10),
		OwnerID: ownerAccountID,
	})
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, DefaultTitle, resource.Title)
	assert.Equal(t, DefaultSubject, resource.Subject)
}

func TestPublishFirstStepFailure(t *testing.T) {
	env := newResourceEnv(t)

	_, err := env.service.Publish(context.Background(), &PublishRequest{OwnerID: ownerAccountID})
	// 第一步失败时原样返回该步骤的错误
	assert.True(t, errors.Is(err, ErrInvalidContent))
	var partialErr *PartialPublicationError
	assert.False(t, errors.As(err, &partialErr))
	assert.Empty(t, env.store.orphans)
}

func TestPublishTokenizeFailure(t *testing.T) {
	env := newResourceEnv(t)
	env.ledger.FailNext(ledger.TokenCreate, ledger.StatusInvalidSignature)

	_, err := env.service.Publish(context.Background(), &PublishRequest{
		Content: makeContent(100),
		Title:   "Notes",
		OwnerID: ownerAccountID,
	})
	var partialErr *PartialPublicationError
	if isErrorAs := assert.True(t, errors.As(err, &partialErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, []common.PublicationStep{common.ContentStored}, partialErr.CompletedSteps)
	assert.Equal(t, common.Tokenized, partialErr.FailedStep)
	assert.NotEmpty(t, partialErr.FileID)
	assert.Empty(t, partialErr.TokenID)
	assert.Equal(t, errorcode.KindPartialPublication, errorcode.KindOf(err))

	resources, err := env.service.ListResources(context.Background())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Empty(t, resources)

	orphans, err := env.service.ListOrphanedArtifacts(context.Background())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	if isLen := assert.Len(t, orphans, 1); !isLen {
		t.FailNow()
	}
	assert.Equal(t, partialErr.FileID, orphans[0].FileID)
	assert.Equal(t, common.Tokenized, orphans[0].FailedStep)
	assert.Equal(t, "Notes", orphans[0].Title)
}

func TestPublishPersistFailure(t *testing.T) {
	env := newResourceEnv(t)
	env.store.insertResourceErr = fmt.Errorf("database is locked")

	_, err := env.service.Publish(context.Background(), &PublishRequest{
		Content: makeContent(100),
		OwnerID: ownerAccountID,
	})
	var partialErr *PartialPublicationError
	if isErrorAs := assert.True(t, errors.As(err, &partialErr)); !isErrorAs {
		t.FailNow()
	}
	assert.Equal(t, []common.PublicationStep{common.ContentStored, common.Tokenized}, partialErr.CompletedSteps)
	assert.Equal(t, common.Persisted, partialErr.FailedStep)
	assert.NotEmpty(t, partialErr.FileID)
	assert.NotEmpty(t, partialErr.TokenID)
}

func TestAuthorize(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		authorized, err := env.service.Access.Authorize(ctx, resource.ID, ownerAccountID)
		assert.NoError(t, err)
		assert.True(t, authorized)

		authorized, err = env.service.Access.Authorize(ctx, resource.ID, buyerAccountID)
		assert.NoError(t, err)
		assert.False(t, authorized)
	}

	_, err := env.service.Access.Authorize(ctx, "1234", ownerAccountID)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestDownloadUnauthorized(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)

	_, _, err := env.service.Download(context.Background(), resource.ID, buyerAccountID)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, errorcode.KindUnauthorized, errorcode.KindOf(err))
}

func TestDownloadByOwner(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 2500, 400)

	_, content, err := env.service.Download(context.Background(), resource.ID, ownerAccountID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, makeContent(2500), content)
}

func TestDownloadIntegrityMismatch(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)
	env.store.resources[resource.ID].Hash = "dGFtcGVyZWQ="

	_, _, err := env.service.Download(context.Background(), resource.ID, ownerAccountID)
	assert.True(t, errors.Is(err, ErrIntegrityMismatch))
}

func TestPurchase(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)
	ctx := context.Background()

	record, err := env.service.Purchase(ctx, &PurchaseRequest{
		ResourceID: resource.ID,
		BuyerID:    buyerAccountID,
		BuyerKey:   env.buyerKey,
	})
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, uint64(400), record.Amount)
	assert.NotEmpty(t, record.TransactionID)

	assert.Equal(t, uint64(1_000-400-100), env.balance(t, buyerAccountID))
	assert.Equal(t, uint64(400), env.balance(t, ownerAccountID))

	_, content, err := env.service.Download(ctx, resource.ID, buyerAccountID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, makeContent(100), content)

	_, err = env.service.Purchase(ctx, &PurchaseRequest{
		ResourceID: resource.ID,
		BuyerID:    buyerAccountID,
		BuyerKey:   env.buyerKey,
	})
	assert.True(t, errors.Is(err, ErrAlreadyPurchased))
	assert.Len(t, env.ledger.SubmittedOfType(ledger.CryptoTransfer), 1)
}

func TestPurchaseValidation(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)
	free := env.publish(t, 100, 0)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *PurchaseRequest
	}{
		{"own resource", &PurchaseRequest{ResourceID: resource.ID, BuyerID: ownerAccountID, BuyerKey: env.buyerKey}},
		{"wrong recipient", &PurchaseRequest{ResourceID: resource.ID, BuyerID: buyerAccountID, BuyerKey: env.buyerKey, RecipientID: operatorAccountID}},
		{"wrong amount", &PurchaseRequest{ResourceID: resource.ID, BuyerID: buyerAccountID, BuyerKey: env.buyerKey, Amount: 1}},
		{"free resource", &PurchaseRequest{ResourceID: free.ID, BuyerID: buyerAccountID, BuyerKey: env.buyerKey}},
		{"missing key", &PurchaseRequest{ResourceID: resource.ID, BuyerID: buyerAccountID}},
	}
	for _, c := range cases {
		_, err := env.service.Purchase(ctx, c.req)
		assert.Equal(t, errorcode.KindInvalidInput, errorcode.KindOf(err), c.name)
	}

	_, err := env.service.Purchase(ctx, &PurchaseRequest{ResourceID: "1234", BuyerID: buyerAccountID, BuyerKey: env.buyerKey})
	assert.True(t, errors.Is(err, ErrResourceNotFound))

	assert.Empty(t, env.ledger.SubmittedOfType(ledger.CryptoTransfer))
	assert.Equal(t, 0, env.store.purchaseCount())
}

func TestPurchaseFailedTransfer(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)
	env.ledger.FailNext(ledger.CryptoTransfer, ledger.StatusInsufficientAccountBalance)

	_, err := env.service.Purchase(context.Background(), &PurchaseRequest{
		ResourceID: resource.ID,
		BuyerID:    buyerAccountID,
		BuyerKey:   env.buyerKey,
	})
	var failedErr *TransferFailedError
	assert.True(t, errors.As(err, &failedErr))
	assert.Equal(t, 0, env.store.purchaseCount())

	authorized, err := env.service.Access.Authorize(context.Background(), resource.ID, buyerAccountID)
	assert.NoError(t, err)
	assert.False(t, authorized)
}

func TestPurchaseTimeout(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)
	env.ledger.SetReceiptDelay(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := env.service.Purchase(ctx, &PurchaseRequest{
		ResourceID: resource.ID,
		BuyerID:    buyerAccountID,
		BuyerKey:   env.buyerKey,
	})
	assert.Equal(t, errorcode.KindTimeout, errorcode.KindOf(err))
	assert.Equal(t, 0, env.store.purchaseCount())
}

func TestPurchaseUnrecorded(t *testing.T) {
	env := newResourceEnv(t)
	resource := env.publish(t, 100, 400)
	env.store.insertPurchaseErr = fmt.Errorf("database is locked")

	_, err := env.service.Purchase(context.Background(), &PurchaseRequest{
		ResourceID: resource.ID,
		BuyerID:    buyerAccountID,
		BuyerKey:   env.buyerKey,
	})
	var unrecordedErr *UnrecordedPurchaseError
	if isErrorAs := assert.True(t, errors.As(err, &unrecordedErr)); !isErrorAs {
		t.FailNow()
	}
	assert.NotEmpty(t, unrecordedErr.TransactionID)
	assert.Equal(t, errorcode.KindInternal, errorcode.KindOf(err))

	// 转账已生效
	assert.Equal(t, uint64(400), env.balance(t, ownerAccountID))
}
