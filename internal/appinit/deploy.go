package appinit

import (
	"encoding/json"
	"fmt"

	"gitee.com/czyczk/learnledger/internal/global"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/resmgmt"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/errors/retry"
	providersmsp "github.com/hyperledger/fabric-sdk-go/pkg/common/providers/msp"
	"github.com/hyperledger/fabric-sdk-go/pkg/fab/ccpackager/gopackager"
	"github.com/hyperledger/fabric-sdk-go/third_party/github.com/hyperledger/fabric/common/policydsl"
	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// InitApp creates the clients, configures the channels and deploys the ledger chaincode according to the init info. `global.SDKInstance` must be set up.
func InitApp(initInfo *InitInfo) error {
	if global.SDKInstance == nil {
		return fmt.Errorf("无法初始化应用: Fabric SDK 未实例化")
	}

	for orgName, orgInfo := range initInfo.Users {
		for _, userID := range append(append([]string{}, orgInfo.AdminIDs...), orgInfo.UserIDs...) {
			if err := InstantiateResMgmtClient(orgName, userID); err != nil {
				return err
			}
			if err := InstantiateMSPClient(orgName, userID); err != nil {
				return err
			}
		}
	}

	for channelID, channelInfo := range initInfo.Channels {
		for _, configInfo := range channelInfo.Configs {
			if err := ApplyChannelConfigTx(channelID, configInfo); err != nil {
				return err
			}
		}

		for orgName, operator := range channelInfo.Participants {
			if err := JoinChannel(channelID, orgName, operator); err != nil {
				return err
			}
		}
	}

	cc := initInfo.Chaincode
	for orgName, operator := range cc.Installations {
		if err := InstallCC(cc, orgName, operator); err != nil {
			return err
		}
	}
	for channelID, instantiationInfo := range cc.Instantiations {
		if err := InstantiateCC(cc, channelID, instantiationInfo); err != nil {
			return err
		}
	}

	return nil
}

func resMgmtClientOf(identity *OperatingIdentity) (*resmgmt.Client, error) {
	if identity == nil {
		return nil, fmt.Errorf("未指定操作用户")
	}

	client := global.ResMgmtClientInstances[identity.OrgName][identity.UserID]
	if client == nil {
		return nil, fmt.Errorf("%v@%v 的资源管理客户端未实例化", identity.UserID, identity.OrgName)
	}

	return client, nil
}

// ApplyChannelConfigTx applies a channel config transaction file to create a channel or configure a channel.
//
// Parameters:
//   channel ID
//   channel config info
func ApplyChannelConfigTx(channelID string, info *ChannelConfigInfo) error {
	resMgmtClient, err := resMgmtClientOf(info.Operator)
	if err != nil {
		return err
	}

	mspClient := global.MSPClientInstances[info.Operator.OrgName][info.Operator.UserID]
	if mspClient == nil {
		return fmt.Errorf("%v@%v 的 MSP 客户端未实例化", info.Operator.UserID, info.Operator.OrgName)
	}

	signingIdentity, err := mspClient.GetSigningIdentity(info.Operator.UserID)
	if err != nil {
		return errors.Wrapf(err, "无法获取 %v@%v 的签名身份", info.Operator.UserID, info.Operator.OrgName)
	}

	channelReq := resmgmt.SaveChannelRequest{
		ChannelID:         channelID,
		ChannelConfigPath: info.Path,
		SigningIdentities: []providersmsp.SigningIdentity{signingIdentity},
	}
	if _, err = resMgmtClient.SaveChannel(channelReq, resmgmt.WithRetry(retry.DefaultResMgmtOpts)); err != nil {
		return errors.Wrapf(err, "为通道 '%v' 应用通道配置交易文件 '%v' 失败", channelID, info.Path)
	}

	log.Infof("已为通道 '%v' 应用通道配置交易文件 '%v'。", channelID, info.Path)
	return nil
}

// JoinChannel joins the peers of the specified org to the specified channel with the specified operating identity.
//
// Parameters:
//   channel ID
//   organization name
//   operating identity
func JoinChannel(channelID, orgName string, operator *OperatingIdentity) error {
	resMgmtClient, err := resMgmtClientOf(operator)
	if err != nil {
		return err
	}

	// Peers are not specified in options, so it will join all peers that belong to the client's MSP.
	if err = resMgmtClient.JoinChannel(channelID, resmgmt.WithRetry(retry.DefaultResMgmtOpts)); err != nil {
		return errors.Wrapf(err, "无法将 '%v' 的节点加入通道 '%v'", orgName, channelID)
	}

	log.Infof("已将 '%v' 的节点加入通道 '%v'。", orgName, channelID)
	return nil
}

// InstallCC installs the ledger chaincode on all the peers of the specified org.
//
// Parameters:
//   chaincode info
//   organization name
//   operating identity
func InstallCC(cc *ChaincodeInfo, orgName string, operator *OperatingIdentity) error {
	resMgmtClient, err := resMgmtClientOf(operator)
	if err != nil {
		return err
	}

	log.Infof("开始为组织 '%v' 的节点安装链码 '%v'...", orgName, cc.ID)

	ccPkg, err := gopackager.NewCCPackage(cc.Path, cc.GoPath)
	if err != nil {
		return errors.Wrapf(err, "为链码 '%v' 创建链码包失败", cc.ID)
	}

	installCCReq := resmgmt.InstallCCRequest{
		Name:    cc.ID,
		Path:    cc.Path,
		Version: cc.Version,
		Package: ccPkg,
	}
	if _, err = resMgmtClient.InstallCC(installCCReq, resmgmt.WithRetry(retry.DefaultResMgmtOpts)); err != nil {
		return errors.Wrapf(err, "为组织 '%v' 的节点安装链码 '%v' 失败", orgName, cc.ID)
	}

	log.Infof("已为组织 '%v' 的节点安装链码 '%v'。", orgName, cc.ID)
	return nil
}

// InstantiateCC instantiates the ledger chaincode on the specified channel. The fee schedule is passed as the only init argument.
//
// Parameters:
//   chaincode info
//   channel ID
//   chaincode instantiation info
func InstantiateCC(cc *ChaincodeInfo, channelID string, info *ChaincodeInstantiationInfo) error {
	resMgmtClient, err := resMgmtClientOf(info.Operator)
	if err != nil {
		return err
	}

	log.Infof("开始在通道 '%v' 上实例化链码 '%v'...", channelID, cc.ID)

	ccPolicy, err := policydsl.FromString(info.Policy)
	if err != nil {
		return errors.Wrapf(err, "无法解析链码 '%v' 的背书策略", cc.ID)
	}

	fees := ledger.DefaultFeeSchedule()
	if info.Fees != nil {
		fees = *info.Fees
	}
	feesBytes, err := json.Marshal(fees)
	if err != nil {
		return errors.Wrap(err, "无法序列化手续费表")
	}

	instantiateCCReq := resmgmt.InstantiateCCRequest{
		Name:    cc.ID,
		Path:    cc.Path,
		Version: cc.Version,
		Args:    [][]byte{feesBytes},
		Policy:  ccPolicy,
	}
	if _, err = resMgmtClient.InstantiateCC(channelID, instantiateCCReq, resmgmt.WithRetry(retry.DefaultResMgmtOpts)); err != nil {
		return errors.Wrapf(err, "在通道 '%v' 上实例化链码 '%v' 失败", channelID, cc.ID)
	}

	log.Infof("已在通道 '%v' 上实例化链码 '%v'。", channelID, cc.ID)
	return nil
}
