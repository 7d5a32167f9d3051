package appinit

import (
	"net/http"
	"time"

	"gitee.com/czyczk/learnledger/internal/blockchain"
	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"gitee.com/czyczk/learnledger/internal/blockchain/bcao/fabricbcao"
	"gitee.com/czyczk/learnledger/internal/blockchain/bcao/memorybcao"
	"gitee.com/czyczk/learnledger/internal/blockchain/bcao/restbcao"
	"gitee.com/czyczk/learnledger/internal/blockchain/chaincodectx"
	"gitee.com/czyczk/learnledger/internal/global"
	"gitee.com/czyczk/learnledger/internal/service"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/mitchellh/mapstructure"
	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// FabricOptions are the ledger options when the ledger is reached through Fabric.
type FabricOptions struct {
	SDKConfigPath string `mapstructure:"sdkConfigPath"` // The Fabric SDK config file
	ChannelID     string `mapstructure:"channelID"`
	OrgName       string `mapstructure:"orgName"`
	Username      string `mapstructure:"username"`
	ChaincodeID   string `mapstructure:"chaincodeID"`
}

// RESTOptions are the ledger options when the ledger is reached through a REST relay.
type RESTOptions struct {
	APIPrefix string        `mapstructure:"apiPrefix"`
	Timeout   time.Duration `mapstructure:"timeout"` // Per HTTP call. 0 leaves it to the request context.
}

// MemoryOptions are the ledger options of the in-process ledger.
type MemoryOptions struct {
	OperatorBalance uint64 `mapstructure:"operatorBalance"` // The initial balance of the platform account
}

func decodeOptions(options map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(options)
}

// NewLedgerBCAO creates the ledger gateway described by `info`. The returned function releases the resources held by the gateway.
//
// Parameters:
//   the ledger info
//   the platform account, used to seed the in-process ledger
//   the fee schedule, used by the in-process ledger
//
// Returns:
//   the ledger gateway
//   the cleanup function
func NewLedgerBCAO(info *LedgerInfo, operator *service.OperatorInfo, fees ledger.FeeSchedule) (bcao.ILedgerBCAO, func(), error) {
	bcType, err := blockchain.NewBCTypeFromString(info.Type)
	if err != nil {
		return nil, nil, err
	}

	switch bcType {
	case blockchain.Fabric:
		var opts FabricOptions
		if err = decodeOptions(info.Options, &opts); err != nil {
			return nil, nil, errors.Wrap(err, "无法解析 Fabric 账本选项")
		}

		if err = SetupSDK(opts.SDKConfigPath); err != nil {
			return nil, nil, err
		}
		cleanup := func() { global.SDKInstance.Close() }

		networkConfig, err := DescribeNetwork(global.SDKInstance)
		if err == nil {
			err = networkConfig.CheckOrg(opts.OrgName)
		}
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		ctx, err := NewFabricChaincodeCtx(global.SDKInstance, &opts)
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		return fabricbcao.NewLedgerBCAOFabricImpl(ctx, info.GetPollInterval()), cleanup, nil
	case blockchain.REST:
		var opts RESTOptions
		if err = decodeOptions(info.Options, &opts); err != nil {
			return nil, nil, errors.Wrap(err, "无法解析 REST 账本选项")
		}
		if opts.APIPrefix == "" {
			return nil, nil, errors.New("未指定账本中继的 URL 前缀")
		}

		ctx := &chaincodectx.RESTLedgerCtx{
			APIPrefix:  opts.APIPrefix,
			HTTPClient: &http.Client{Timeout: opts.Timeout},
		}
		return restbcao.NewLedgerBCAORESTImpl(ctx, info.GetPollInterval()), func() {}, nil
	default:
		var opts MemoryOptions
		if err = decodeOptions(info.Options, &opts); err != nil {
			return nil, nil, errors.Wrap(err, "无法解析内存账本选项")
		}

		memoryLedger, err := NewSeededMemoryLedger(operator, opts.OperatorBalance, fees)
		if err != nil {
			return nil, nil, err
		}

		log.Warnln("正在使用进程内账本，数据不会持久化。")
		return memoryLedger, func() {}, nil
	}
}

// NewSeededMemoryLedger creates an in-process ledger holding only the platform account.
func NewSeededMemoryLedger(operator *service.OperatorInfo, balance uint64, fees ledger.FeeSchedule) (*memorybcao.MemoryLedger, error) {
	pubKeyPem, err := sm2keyutils.PublicKeyPEMOf(operator.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "无法获取平台账户公钥")
	}

	memoryLedger := memorybcao.NewMemoryLedger(fees)
	if _, err = memoryLedger.CreateAccount(operator.AccountID, pubKeyPem, balance); err != nil {
		return nil, errors.Wrap(err, "无法创建平台账户")
	}

	return memoryLedger, nil
}
