package appinit

import (
	"fmt"

	"gitee.com/czyczk/learnledger/internal/blockchain/chaincodectx"
	"gitee.com/czyczk/learnledger/internal/global"
	"gitee.com/czyczk/learnledger/internal/networkinfo"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/ledger"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/msp"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/resmgmt"
	"github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SetupSDK creates a Fabric SDK instance from the specified config file. The SDK instance will be available as `global.SDKInstance`.
//
// Parameters:
//   the path to the config file
func SetupSDK(configFilePath string) error {
	if configFilePath == "" {
		return fmt.Errorf("未指定 Fabric SDK 配置文件")
	}

	sdk, err := fabsdk.New(config.FromFile(configFilePath))
	if err != nil {
		return errors.Wrap(err, "初始化 Fabric SDK 失败")
	}
	global.SDKInstance = sdk

	return nil
}

// DescribeNetwork parses the network config the SDK instance was created with.
func DescribeNetwork(sdk *fabsdk.FabricSDK) (*networkinfo.Config, error) {
	sdkConfig, err := sdk.Config()
	if err != nil {
		return nil, errors.Wrap(err, "无法获取 Fabric SDK 配置")
	}

	return networkinfo.ParseConfig(sdkConfig)
}

// InstantiateResMgmtClient creates a resource management client for the user of the org as specified. The client will be available as singletons in `global.ResMgmtClientInstances`.
//
// Parameters:
//   organization name
//   user ID
func InstantiateResMgmtClient(orgName, userID string) error {
	if global.ResMgmtClientInstances == nil {
		global.ResMgmtClientInstances = make(map[string]map[string]*resmgmt.Client)
	}
	if global.ResMgmtClientInstances[orgName] == nil {
		global.ResMgmtClientInstances[orgName] = make(map[string]*resmgmt.Client)
	}
	if global.ResMgmtClientInstances[orgName][userID] != nil {
		return nil
	}

	clientCtx := global.SDKInstance.Context(fabsdk.WithUser(userID), fabsdk.WithOrg(orgName))
	resMgmtClient, err := resmgmt.New(clientCtx)
	if err != nil {
		return errors.Wrapf(err, "无法为 %v@%v 创建资源管理客户端", userID, orgName)
	}
	global.ResMgmtClientInstances[orgName][userID] = resMgmtClient

	return nil
}

// InstantiateMSPClient creates an MSP client for the user of the org as specified. The MSP client will be available as singletons in `global.MSPClientInstances`.
//
// Parameters:
//   organization name
//   user ID
func InstantiateMSPClient(orgName, userID string) error {
	if global.MSPClientInstances == nil {
		global.MSPClientInstances = make(map[string]map[string]*msp.Client)
	}
	if global.MSPClientInstances[orgName] == nil {
		global.MSPClientInstances[orgName] = make(map[string]*msp.Client)
	}
	if global.MSPClientInstances[orgName][userID] != nil {
		return nil
	}

	clientCtx := global.SDKInstance.Context(fabsdk.WithUser(userID), fabsdk.WithOrg(orgName))
	mspClient, err := msp.New(clientCtx, msp.WithOrg(orgName))
	if err != nil {
		return errors.Wrapf(err, "无法为 %v@%v 创建 MSP 客户端", userID, orgName)
	}
	global.MSPClientInstances[orgName][userID] = mspClient

	return nil
}

// NewFabricChaincodeCtx creates the channel client and the ledger client the Fabric ledger gateway works with.
//
// Parameters:
//   initialized Fabric SDK instance
//   Fabric ledger options
//
// Returns:
//   the chaincode context
func NewFabricChaincodeCtx(sdk *fabsdk.FabricSDK, opts *FabricOptions) (*chaincodectx.FabricChaincodeCtx, error) {
	if opts.ChannelID == "" || opts.OrgName == "" || opts.Username == "" || opts.ChaincodeID == "" {
		return nil, fmt.Errorf("Fabric 账本选项不完整")
	}

	// Channel clients can query and execute chaincode. Ledger clients can query blocks and transactions.
	clientCtx := sdk.ChannelContext(opts.ChannelID, fabsdk.WithUser(opts.Username), fabsdk.WithOrg(opts.OrgName))
	channelClient, err := channel.New(clientCtx)
	if err != nil {
		return nil, errors.Wrapf(err, "无法在通道 '%v' 上为 %v@%v 创建通道客户端", opts.ChannelID, opts.Username, opts.OrgName)
	}

	ledgerClient, err := ledger.New(clientCtx)
	if err != nil {
		return nil, errors.Wrapf(err, "无法在通道 '%v' 上为 %v@%v 创建账本客户端", opts.ChannelID, opts.Username, opts.OrgName)
	}

	log.Infof("已在通道 '%v' 上为 %v@%v 创建客户端。", opts.ChannelID, opts.Username, opts.OrgName)

	return &chaincodectx.FabricChaincodeCtx{
		ChannelID:     opts.ChannelID,
		OrgName:       opts.OrgName,
		Username:      opts.Username,
		ChaincodeID:   opts.ChaincodeID,
		ChannelClient: channelClient,
		LedgerClient:  ledgerClient,
	}, nil
}
