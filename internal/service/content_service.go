package service

import (
	"context"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/ledgertx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ContentService 将内容分块存储于账本文件。
type ContentService struct {
	ServiceInfo *Info
}

// Store 创建账本文件并按块追加内容。
//
// 参数：
//   内容（不能为空）
//
// 返回：
//   账本文件 ID
func (s *ContentService) Store(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", ErrInvalidContent
	}

	operator := s.ServiceInfo.Operator
	fees := s.ServiceInfo.Params.Fees

	// 至少要能支付一次创建与一次追加
	if err := checkBalance(ctx, s.ServiceInfo, operator.AccountID, fees.FileCreate+fees.FileAppend); err != nil {
		return "", err
	}

	fileKeyPem, err := sm2keyutils.PublicKeyPEMOf(operator.FileKey)
	if err != nil {
		return "", errors.Wrap(err, "无法获取文件密钥")
	}

	createTx := ledgertx.NewTransaction(ledger.FileCreate, operator.AccountID, fees.FileCreate)
	createTx.FileCreate = &ledger.FileCreateBody{
		Keys:         []string{fileKeyPem},
		ExpectedSize: uint64(len(content)),
	}

	receipt, err := signAndSubmit(ctx, s.ServiceInfo, createTx, operator.PrivateKey, operator.FileKey)
	if err != nil {
		return "", errors.Wrap(err, "无法创建账本文件")
	}
	if !receipt.Status.IsSuccess() {
		return "", &ReceiptError{TxType: ledger.FileCreate, TransactionID: receipt.TransactionID, Status: receipt.Status}
	}

	fileID := receipt.FileID
	chunkSize := s.ServiceInfo.Params.chunkSize()
	for offset := 0; offset < len(content); offset += chunkSize {
		end := offset + chunkSize
		if end > len(content) {
			end = len(content)
		}

		appendTx := ledgertx.NewTransaction(ledger.FileAppend, operator.AccountID, fees.FileAppend)
		appendTx.FileAppend = &ledger.FileAppendBody{
			FileID:   fileID,
			Offset:   uint64(offset),
			Contents: content[offset:end],
		}

		receipt, err = signAndSubmit(ctx, s.ServiceInfo, appendTx, operator.PrivateKey, operator.FileKey)
		if err != nil {
			return "", &ChunkAppendFailedError{FileID: fileID, Offset: offset, TransactionID: appendTx.TransactionID, Err: err}
		}
		if !receipt.Status.IsSuccess() {
			return "", &ChunkAppendFailedError{FileID: fileID, Offset: offset, TransactionID: receipt.TransactionID, Status: receipt.Status}
		}
	}

	log.Debugf("内容已写入账本文件 '%v' (%d 字节)", fileID, len(content))
	return fileID, nil
}

// Retrieve 读取账本文件的完整内容。
//
// 参数：
//   账本文件 ID
//
// 返回：
//   文件内容
func (s *ContentService) Retrieve(ctx context.Context, fileID string) ([]byte, error) {
	content, err := s.ServiceInfo.LedgerBCAO.QueryFileContents(ctx, fileID)
	if err != nil {
		if errors.Is(err, errorcode.ErrorNotFound) {
			return nil, ErrContentNotFound.WithDetail("账本上不存在文件 '"+fileID+"'", err)
		}

		return nil, errors.Wrapf(err, "无法读取账本文件 '%v'", fileID)
	}

	return content, nil
}
