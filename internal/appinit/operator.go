package appinit

import (
	"gitee.com/czyczk/learnledger/internal/service"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	errors "github.com/pkg/errors"
)

// LoadOperatorKeys loads the keys of the platform account from the paths specified in `location`.
//
// Parameters:
//   the operator location
//
// Returns:
//   the operator info used by the services
func LoadOperatorKeys(location *OperatorLocation) (*service.OperatorInfo, error) {
	privKey, err := sm2keyutils.LoadPrivateKeyFromFile(location.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "无法读取平台账户私钥")
	}

	fileKey, err := sm2keyutils.LoadPrivateKeyFromFile(location.FileKey)
	if err != nil {
		return nil, errors.Wrap(err, "无法读取文件密钥")
	}

	supplyKey, err := sm2keyutils.LoadPrivateKeyFromFile(location.SupplyKey)
	if err != nil {
		return nil, errors.Wrap(err, "无法读取代币增发密钥")
	}

	return &service.OperatorInfo{
		AccountID:  location.AccountID,
		PrivateKey: privKey,
		FileKey:    fileKey,
		SupplyKey:  supplyKey,
	}, nil
}
