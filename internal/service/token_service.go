package service

import (
	"context"
	"strings"

	"gitee.com/czyczk/learnledger/pkg/ledgertx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/pkg/errors"
	"github.com/tjfoc/gmsm/sm2"
)

const (
	// TokenSymbol 为所有资源代币的符号
	TokenSymbol = "RES"
	// TokenInitialSupply 为资源代币的初始发行量
	TokenInitialSupply = 100
)

// TokenService 发行代表资源所有权的代币。
type TokenService struct {
	ServiceInfo *Info
}

// Mint 为资源创建代币。代币不可分割，国库账户为平台账户。
//
// 参数：
//   资源标题
//
// 返回：
//   代币 ID
func (s *TokenService) Mint(ctx context.Context, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", ErrInvalidArgument.WithDetail("代币名称不能为空", nil)
	}

	operator := s.ServiceInfo.Operator
	fee := s.ServiceInfo.Params.Fees.TokenCreate
	if err := checkBalance(ctx, s.ServiceInfo, operator.AccountID, fee); err != nil {
		return "", err
	}

	supplyKeyPem, err := sm2keyutils.PublicKeyPEMOf(operator.SupplyKey)
	if err != nil {
		return "", errors.Wrap(err, "无法获取代币增发密钥")
	}

	tx := ledgertx.NewTransaction(ledger.TokenCreate, operator.AccountID, fee)
	tx.TokenCreate = &ledger.TokenCreateBody{
		Name:              title,
		Symbol:            TokenSymbol,
		Decimals:          0,
		InitialSupply:     TokenInitialSupply,
		TreasuryAccountID: operator.AccountID,
		SupplyKey:         supplyKeyPem,
	}

	receipt, err := signAndSubmit(ctx, s.ServiceInfo, tx, operator.PrivateKey)
	if err != nil {
		return "", errors.Wrap(err, "无法创建代币")
	}
	if !receipt.Status.IsSuccess() {
		return "", &ReceiptError{TxType: ledger.TokenCreate, TransactionID: receipt.TransactionID, Status: receipt.Status}
	}

	return receipt.TokenID, nil
}

// MintAdditional 增发代币。签名与代币记录的增发密钥不符时返回 ErrUnauthorized。
//
// 参数：
//   代币 ID
//   增发数量
//   增发私钥
//
// 返回：
//   交易 ID
func (s *TokenService) MintAdditional(ctx context.Context, tokenID string, amount uint64, supplyKey *sm2.PrivateKey) (string, error) {
	if amount == 0 {
		return "", ErrInvalidAmount
	}
	if strings.TrimSpace(tokenID) == "" {
		return "", ErrInvalidArgument.WithDetail("代币 ID 不能为空", nil)
	}
	if supplyKey == nil {
		return "", ErrInvalidArgument.WithDetail("增发私钥不能为空", nil)
	}

	operator := s.ServiceInfo.Operator
	tx := ledgertx.NewTransaction(ledger.TokenMint, operator.AccountID, s.ServiceInfo.Params.Fees.TokenMint)
	tx.TokenMint = &ledger.TokenMintBody{TokenID: tokenID, Amount: amount}

	receipt, err := signAndSubmit(ctx, s.ServiceInfo, tx, operator.PrivateKey, supplyKey)
	if err != nil {
		return "", errors.Wrapf(err, "无法增发代币 '%v'", tokenID)
	}

	switch receipt.Status {
	case ledger.StatusSuccess:
		return receipt.TransactionID, nil
	case ledger.StatusInvalidSignature:
		return "", ErrUnauthorized.WithDetail("增发密钥与代币 '"+tokenID+"' 不符", &ReceiptError{TxType: ledger.TokenMint, TransactionID: receipt.TransactionID, Status: receipt.Status})
	default:
		return "", &ReceiptError{TxType: ledger.TokenMint, TransactionID: receipt.TransactionID, Status: receipt.Status}
	}
}
