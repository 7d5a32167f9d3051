// Package ledgertx 负责账本交易的构造、签名与验签。
package ledgertx

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/pkg/errors"
	"github.com/tjfoc/gmsm/sm2"
)

// NewTransactionID 以付费账户和生效时间生成交易 ID
func NewTransactionID(payerAccountID string, validStart time.Time) string {
	return fmt.Sprintf("%v@%d.%09d", payerAccountID, validStart.Unix(), validStart.Nanosecond())
}

// NewTransaction 创建一个填好交易 ID、付费账户和生效时间的交易
func NewTransaction(txType ledger.TransactionType, payerAccountID string, maxFee uint64) *ledger.Transaction {
	now := time.Now().UTC()
	return &ledger.Transaction{
		TransactionID:     NewTransactionID(payerAccountID, now),
		Type:              txType,
		PayerAccountID:    payerAccountID,
		MaxTransactionFee: maxFee,
		ValidStart:        now,
	}
}

// Sign 序列化交易体并用给定的每一把私钥签名。
//
// 参数：
//   交易
//   私钥（至少一把）
//
// 返回：
//   已签名交易
func Sign(tx *ledger.Transaction, keys ...*sm2.PrivateKey) (*ledger.SignedTransaction, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("至少需要一把私钥")
	}

	bodyBytes, err := json.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(err, "无法序列化交易体")
	}

	signed := &ledger.SignedTransaction{BodyBytes: bodyBytes}
	for _, key := range keys {
		if key == nil {
			return nil, fmt.Errorf("私钥不能为空")
		}

		sig, err := key.Sign(rand.Reader, bodyBytes, nil)
		if err != nil {
			return nil, errors.Wrap(err, "无法签名交易")
		}

		pubKeyPem, err := sm2keyutils.PublicKeyPEMOf(key)
		if err != nil {
			return nil, err
		}

		signed.Signatures = append(signed.Signatures, ledger.SignaturePair{PublicKey: pubKeyPem, Signature: sig})
	}

	return signed, nil
}

// Open 解析已签名交易，校验每一个签名。
//
// 参数：
//   已签名交易
//
// 返回：
//   交易体
//   签名有效的公钥集合（规范化 PEM）
func Open(signed *ledger.SignedTransaction) (*ledger.Transaction, map[string]bool, error) {
	if signed == nil {
		return nil, nil, fmt.Errorf("交易不能为空")
	}

	var tx ledger.Transaction
	if err := json.Unmarshal(signed.BodyBytes, &tx); err != nil {
		return nil, nil, errors.Wrap(err, "无法解析交易体")
	}

	signers := make(map[string]bool)
	for _, pair := range signed.Signatures {
		pubKey, err := sm2keyutils.ConvertPEMToPublicKey([]byte(pair.PublicKey))
		if err != nil {
			continue
		}

		if !pubKey.Verify(signed.BodyBytes, pair.Signature) {
			continue
		}

		canonical, err := CanonicalPublicKey(pair.PublicKey)
		if err != nil {
			continue
		}
		signers[canonical] = true
	}

	return &tx, signers, nil
}

// CanonicalPublicKey 将 PEM 公钥重新编码，使同一把公钥总是得到相同的字符串
func CanonicalPublicKey(pubKeyPem string) (string, error) {
	pubKey, err := sm2keyutils.ConvertPEMToPublicKey([]byte(pubKeyPem))
	if err != nil {
		return "", err
	}

	canonical, err := sm2keyutils.ConvertPublicKeyToPEM(pubKey)
	if err != nil {
		return "", err
	}

	return string(canonical), nil
}
