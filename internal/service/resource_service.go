package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"gitee.com/czyczk/learnledger/internal/metrics"
	"gitee.com/czyczk/learnledger/internal/models/common"
	"gitee.com/czyczk/learnledger/internal/utils/idutils"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultTitle 为未指定标题时的资源标题
	DefaultTitle = "Untitled"
	// DefaultSubject 为未指定学科时的资源学科
	DefaultSubject = "Unknown"
	// OrphanRecordTimeout 为写入一条遗留产物记录的时限
	OrphanRecordTimeout = 5 * time.Second
)

// ResourceService 编排资源的发布、下载与购买。
type ResourceService struct {
	ServiceInfo *Info
	Content     ContentServiceInterface
	Tokens      TokenServiceInterface
	Payments    PaymentServiceInterface
	Access      AccessServiceInterface
}

// NewResourceService 以同一 Info 构造各个子服务并组装 ResourceService。
func NewResourceService(info *Info) *ResourceService {
	return &ResourceService{
		ServiceInfo: info,
		Content:     &ContentService{ServiceInfo: info},
		Tokens:      &TokenService{ServiceInfo: info},
		Payments:    &PaymentService{ServiceInfo: info},
		Access:      &AccessService{ServiceInfo: info},
	}
}

// publication 为一次发布尝试的状态，依次经过各个步骤。
type publication struct {
	req       *PublishRequest
	state     common.PublicationStep
	completed []common.PublicationStep
	fileID    string
	tokenID   string
	resource  *common.Resource
}

type publicationStep struct {
	target common.PublicationStep
	run    func(ctx context.Context, p *publication) error
}

func (s *ResourceService) publicationSteps() []publicationStep {
	return []publicationStep{
		{target: common.ContentStored, run: s.storeContent},
		{target: common.Tokenized, run: s.tokenize},
		{target: common.Persisted, run: s.persist},
	}
}

// Publish 发布资源。任一步骤失败即中止，不回收已创建的账本文件或代币。
//
// 参数：
//   发布请求
//
// 返回：
//   资源
func (s *ResourceService) Publish(ctx context.Context, req *PublishRequest) (*common.Resource, error) {
	if req == nil {
		return nil, ErrInvalidArgument.WithDetail("发布请求不能为空", nil)
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, ErrInvalidArgument.WithDetail("所有者不能为空", nil)
	}

	normalized := *req
	if strings.TrimSpace(normalized.Title) == "" {
		normalized.Title = DefaultTitle
	}
	if strings.TrimSpace(normalized.Subject) == "" {
		normalized.Subject = DefaultSubject
	}

	p := &publication{req: &normalized, state: common.Started}
	for _, step := range s.publicationSteps() {
		if err := step.run(ctx, p); err != nil {
			return nil, s.failPublication(p, step.target, err)
		}

		p.state = step.target
		p.completed = append(p.completed, step.target)
		log.Debugf("资源发布进入 %v 阶段", p.state)
	}

	metrics.Publications.WithLabelValues("success").Inc()
	return p.resource, nil
}

func (s *ResourceService) storeContent(ctx context.Context, p *publication) error {
	fileID, err := s.Content.Store(ctx, p.req.Content)
	if err != nil {
		return err
	}

	p.fileID = fileID
	return nil
}

func (s *ResourceService) tokenize(ctx context.Context, p *publication) error {
	tokenID, err := s.Tokens.Mint(ctx, p.req.Title)
	if err != nil {
		return err
	}

	p.tokenID = tokenID
	return nil
}

func (s *ResourceService) persist(ctx context.Context, p *publication) error {
	id, err := idutils.GenerateSnowflakeId()
	if err != nil {
		return err
	}

	hash := sha256.Sum256(p.req.Content)
	resource := &common.Resource{
		ID:        id,
		Title:     p.req.Title,
		Subject:   p.req.Subject,
		Price:     p.req.Price,
		FileID:    p.fileID,
		TokenID:   p.tokenID,
		OwnerID:   p.req.OwnerID,
		Size:      uint64(len(p.req.Content)),
		Hash:      base64.StdEncoding.EncodeToString(hash[:]),
		Timestamp: time.Now(),
	}

	if _, err = s.ServiceInfo.MetadataStore.InsertResource(ctx, resource); err != nil {
		return errors.Wrap(err, "无法保存资源记录")
	}

	p.resource = resource
	return nil
}

// failPublication 将失败的步骤转换为返回的错误。已有步骤完成时记录遗留产物。
func (s *ResourceService) failPublication(p *publication, failedStep common.PublicationStep, err error) error {
	if len(p.completed) == 0 {
		metrics.Publications.WithLabelValues("failed").Inc()
		return err
	}

	metrics.Publications.WithLabelValues("partial").Inc()
	partialErr := &PartialPublicationError{
		CompletedSteps: p.completed,
		FailedStep:     failedStep,
		FileID:         p.fileID,
		TokenID:        p.tokenID,
		Err:            err,
	}
	log.Warnf("资源发布中途失败，文件 '%v' 与代币 '%v' 未被回收: %v", p.fileID, p.tokenID, err)

	s.recordOrphan(p, partialErr)
	return partialErr
}

// recordOrphan 使用独立的上下文写入遗留产物，请求的上下文此时可能已经超时。
func (s *ResourceService) recordOrphan(p *publication, partialErr *PartialPublicationError) {
	id, err := idutils.GenerateSnowflakeId()
	if err != nil {
		log.Errorf("无法记录遗留产物: %v", err)
		return
	}

	artifact := &common.OrphanedArtifact{
		ID:         id,
		FileID:     partialErr.FileID,
		TokenID:    partialErr.TokenID,
		FailedStep: partialErr.FailedStep,
		Reason:     partialErr.Err.Error(),
		OwnerID:    p.req.OwnerID,
		Title:      p.req.Title,
		Timestamp:  time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), OrphanRecordTimeout)
	defer cancel()
	if err = s.ServiceInfo.MetadataStore.InsertOrphanedArtifact(ctx, artifact); err != nil {
		log.Errorf("无法记录遗留产物 (文件 '%v', 代币 '%v'): %v", artifact.FileID, artifact.TokenID, err)
	}
}

// Download 获取资源内容，并核对其大小与哈希。
//
// 参数：
//   资源 ID
//   请求者账户 ID
//
// 返回：
//   资源
//   资源内容
func (s *ResourceService) Download(ctx context.Context, resourceID string, requesterID string) (*common.Resource, []byte, error) {
	authorized, err := s.Access.Authorize(ctx, resourceID, requesterID)
	if err != nil {
		return nil, nil, err
	}
	if !authorized {
		return nil, nil, ErrUnauthorized.WithDetail("账户 '"+requesterID+"' 无权访问资源 '"+resourceID+"'", nil)
	}

	resource, err := s.GetResource(ctx, resourceID)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.Content.Retrieve(ctx, resource.FileID)
	if err != nil {
		return nil, nil, err
	}

	if uint64(len(content)) != resource.Size {
		return nil, nil, ErrIntegrityMismatch.WithDetail("资源 '"+resourceID+"' 的内容大小与记录不一致", nil)
	}
	hash := sha256.Sum256(content)
	if base64.StdEncoding.EncodeToString(hash[:]) != resource.Hash {
		return nil, nil, ErrIntegrityMismatch.WithDetail("资源 '"+resourceID+"' 的内容哈希与记录不一致", nil)
	}

	return resource, content, nil
}

// Purchase 购买资源。仅在转账回执为成功后保存购买记录。
//
// 参数：
//   购买请求
//
// 返回：
//   购买记录
func (s *ResourceService) Purchase(ctx context.Context, req *PurchaseRequest) (*common.PurchaseRecord, error) {
	if req == nil || strings.TrimSpace(req.ResourceID) == "" || strings.TrimSpace(req.BuyerID) == "" {
		return nil, ErrInvalidArgument.WithDetail("资源与买家不能为空", nil)
	}
	if req.BuyerKey == nil {
		return nil, ErrInvalidArgument.WithDetail("买家私钥不能为空", nil)
	}

	resource, err := s.GetResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	if resource.OwnerID == req.BuyerID {
		return nil, ErrInvalidArgument.WithDetail("不能购买自己的资源", nil)
	}
	if resource.Price == 0 {
		return nil, ErrInvalidAmount.WithDetail("免费资源无需购买", nil)
	}

	_, err = s.ServiceInfo.MetadataStore.FindPurchase(ctx, req.ResourceID, req.BuyerID)
	if err == nil {
		return nil, ErrAlreadyPurchased
	} else if !errors.Is(err, errorcode.ErrorNotFound) {
		return nil, errors.Wrapf(err, "无法获取资源 '%v' 的购买记录", req.ResourceID)
	}

	recipientID := req.RecipientID
	if recipientID == "" {
		recipientID = resource.OwnerID
	} else if recipientID != resource.OwnerID {
		return nil, ErrInvalidArgument.WithDetail("收款方必须为资源所有者", nil)
	}

	amount := req.Amount
	if amount == 0 {
		amount = resource.Price
	} else if amount != resource.Price {
		return nil, ErrInvalidArgument.WithDetail("金额必须等于资源价格", nil)
	}

	receipt, err := s.Payments.Transfer(ctx, req.BuyerID, req.BuyerKey, recipientID, amount)
	if err != nil {
		metrics.Purchases.WithLabelValues("failed").Inc()
		return nil, err
	}

	record := &common.PurchaseRecord{
		ResourceID:    req.ResourceID,
		BuyerID:       req.BuyerID,
		Amount:        amount,
		TransactionID: receipt.TransactionID,
		Timestamp:     receipt.Timestamp,
	}
	if record.ID, err = idutils.GenerateSnowflakeId(); err == nil {
		err = s.ServiceInfo.MetadataStore.InsertPurchase(ctx, record)
	}
	if err != nil {
		metrics.Purchases.WithLabelValues("unrecorded").Inc()
		log.Errorf("转账 '%v' 已成功，但无法保存购买记录: %v", receipt.TransactionID, err)
		return nil, &UnrecordedPurchaseError{
			ResourceID:    req.ResourceID,
			BuyerID:       req.BuyerID,
			TransactionID: receipt.TransactionID,
			Err:           err,
		}
	}

	metrics.Purchases.WithLabelValues("success").Inc()
	return record, nil
}

// GetResource 获取资源。资源不存在时返回 ErrResourceNotFound。
//
// 参数：
//   资源 ID
//
// 返回：
//   资源
func (s *ResourceService) GetResource(ctx context.Context, resourceID string) (*common.Resource, error) {
	resource, err := s.ServiceInfo.MetadataStore.FindResourceByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, errorcode.ErrorNotFound) {
			return nil, ErrResourceNotFound.WithDetail("资源 '"+resourceID+"' 不存在", err)
		}
		return nil, errors.Wrapf(err, "无法获取资源 '%v'", resourceID)
	}

	return resource, nil
}

// ListResources 列出所有资源。
func (s *ResourceService) ListResources(ctx context.Context) ([]*common.Resource, error) {
	resources, err := s.ServiceInfo.MetadataStore.ListResources(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "无法列出资源")
	}

	return resources, nil
}

// ListOrphanedArtifacts 列出中途失败的发布留下的账本产物。
func (s *ResourceService) ListOrphanedArtifacts(ctx context.Context) ([]*common.OrphanedArtifact, error) {
	artifacts, err := s.ServiceInfo.MetadataStore.ListOrphanedArtifacts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "无法列出遗留产物")
	}

	return artifacts, nil
}
