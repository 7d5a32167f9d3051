package appinit

import (
	"io/ioutil"

	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	errors "github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// InitInfo is the Go struct for contents in init.yaml. It describes how the ledger chaincode is deployed on a Fabric network.
type InitInfo struct {
	SDKConfigPath string                  `yaml:"sdkConfigPath"` // The Fabric SDK config file
	Users         map[string]*OrgInfo     `yaml:"users"`         // Org name -> users to create clients for
	Channels      map[string]*ChannelInfo `yaml:"channels"`      // Channel ID -> how the channel is configured
	Chaincode     *ChaincodeInfo          `yaml:"chaincode"`     // The ledger chaincode
}

// OperatingIdentity represents the client / user that performs the operation.
type OperatingIdentity struct {
	OrgName string `yaml:"orgName"` // The name of the organization to which the user that performs the operation belongs
	UserID  string `yaml:"userID"`  // The ID of the user
}

// OrgInfo contains the users of an org. A resource management client and an MSP client will be created for each ID in it.
type OrgInfo struct {
	AdminIDs []string `yaml:"adminIDs"`
	UserIDs  []string `yaml:"userIDs"`
}

// ChannelInfo is needed to create a channel.
type ChannelInfo struct {
	Participants map[string]*OperatingIdentity `yaml:"participants"` // Org name -> the operating user. Peers in the orgs will be joined to the channel.
	Configs      []*ChannelConfigInfo          `yaml:"configs"`      // Config transactions applied in order
}

// ChannelConfigInfo contains info about a channel config transaction and the user that applies it.
type ChannelConfigInfo struct {
	Path     string             `yaml:"path"`
	Operator *OperatingIdentity `yaml:"operator"`
}

// ChaincodeInfo describes the ledger chaincode and where it is installed and instantiated.
type ChaincodeInfo struct {
	ID             string                                 `yaml:"id"`
	Version        string                                 `yaml:"version"`
	Path           string                                 `yaml:"path"`           // Chaincode files should be in ${GoPath}/src/${Path}
	GoPath         string                                 `yaml:"goPath"`         // Chaincode files should be in ${GoPath}/src/${Path}
	Installations  map[string]*OperatingIdentity          `yaml:"installations"`  // Org name -> the operating user
	Instantiations map[string]*ChaincodeInstantiationInfo `yaml:"instantiations"` // Channel ID -> how the chaincode is instantiated
}

// ChaincodeInstantiationInfo is needed to instantiate the ledger chaincode on a channel.
type ChaincodeInstantiationInfo struct {
	Policy   string              `yaml:"policy"` // The endorsement policy
	Fees     *ledger.FeeSchedule `yaml:"fees"`   // The fee schedule the chaincode charges. Defaults apply if omitted.
	Operator *OperatingIdentity  `yaml:"operator"`
}

// LoadInitInfo loads the init config file (in YAML) which contains info needed during the init process.
//
// Parameters:
//   the path to the config file
//
// Returns:
//   the `InitInfo` struct containing the info needed during the init process
func LoadInitInfo(configFilePath string) (ret InitInfo, err error) {
	yamlStr, err := ioutil.ReadFile(configFilePath)
	if err != nil {
		err = errors.Wrap(err, "读取初始化配置文件失败")
		return
	}

	err = yaml.Unmarshal(yamlStr, &ret)
	if err != nil {
		err = errors.Wrap(err, "解析 YAML 文件时出现错误")
		return
	}

	if ret.Chaincode == nil {
		err = errors.New("未指定账本链码")
	}

	return
}
