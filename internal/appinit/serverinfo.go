package appinit

import (
	"io/ioutil"
	"time"

	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	errors "github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ServerInfo is the Go struct for contents in server.yaml.
type ServerInfo struct {
	Port            int                 `yaml:"port"`
	RequestTimeout  string              `yaml:"requestTimeout"`  // e.g. "30s". Empty or "0" means no limit.
	LogLevel        string              `yaml:"logLevel"`        // logrus level name
	ShowTimingLogs  bool                `yaml:"showTimingLogs"`  // Whether ledger calls log their durations
	Ledger          *LedgerInfo         `yaml:"ledger"`          // How the ledger network is reached
	Operator        *OperatorLocation   `yaml:"operator"`        // The platform account
	ChunkSize       int                 `yaml:"chunkSize"`       // Max bytes per file append
	Fees            *ledger.FeeSchedule `yaml:"fees"`            // Fee estimates for pre-flight checks
	DB              *DBInfo             `yaml:"db"`              // The metadata database
	CacheExpiration string              `yaml:"cacheExpiration"` // How long resource rows stay cached. Empty disables the cache.
	MaxUploadSize   int64               `yaml:"maxUploadSize"`   // Max upload size in bytes
	AllowedOrigins  []string            `yaml:"allowedOrigins"`  // CORS origins. Empty allows all.
}

// LedgerInfo selects the ledger gateway. `Options` is decoded according to `Type`.
type LedgerInfo struct {
	Type         string                 `yaml:"type"`         // "fabric", "rest" or "memory"
	PollInterval string                 `yaml:"pollInterval"` // Receipt polling interval
	Options      map[string]interface{} `yaml:"options"`
}

// OperatorLocation records the platform account and the paths to its keys.
type OperatorLocation struct {
	AccountID  string `yaml:"accountID"`
	PrivateKey string `yaml:"privateKey"` // The path to the private key paying the fees
	FileKey    string `yaml:"fileKey"`    // The path to the key guarding ledger files
	SupplyKey  string `yaml:"supplyKey"`  // The path to the supply key of new tokens
}

// DBInfo tells how to reach the metadata database.
type DBInfo struct {
	Driver string `yaml:"driver"` // "mysql" or "sqlite"
	DSN    string `yaml:"dsn"`
}

// LoadServerInfo loads the server config file (in YAML) which contains info needed to start a server. Missing optional fields are filled with defaults.
//
// Parameters:
//   the path to the config file
//
// Returns:
//   the `ServerInfo` struct containing the info needed to start a server
func LoadServerInfo(configFilePath string) (ret ServerInfo, err error) {
	yamlStr, err := ioutil.ReadFile(configFilePath)
	if err != nil {
		err = errors.Wrap(err, "读取服务器配置文件失败")
		return
	}

	err = yaml.Unmarshal(yamlStr, &ret)
	if err != nil {
		err = errors.Wrap(err, "解析 YAML 文件时出现错误")
		return
	}

	ret.applyDefaults()
	err = ret.validate()
	return
}

func (si *ServerInfo) applyDefaults() {
	if si.Port == 0 {
		si.Port = 8081
	}
	if si.LogLevel == "" {
		si.LogLevel = "info"
	}
	if si.Ledger == nil {
		si.Ledger = &LedgerInfo{Type: "memory"}
	}
	if si.Fees == nil {
		fees := ledger.DefaultFeeSchedule()
		si.Fees = &fees
	}
	if si.DB == nil {
		si.DB = &DBInfo{Driver: "sqlite", DSN: "learnledger.db"}
	}
}

func (si *ServerInfo) validate() error {
	if si.Operator == nil || si.Operator.AccountID == "" {
		return errors.New("未指定平台账户")
	}
	if si.Operator.PrivateKey == "" || si.Operator.FileKey == "" || si.Operator.SupplyKey == "" {
		return errors.New("平台账户的私钥、文件密钥与增发密钥均须指定")
	}

	for name, d := range map[string]string{
		"requestTimeout":      si.RequestTimeout,
		"cacheExpiration":     si.CacheExpiration,
		"ledger.pollInterval": si.Ledger.PollInterval,
	} {
		if _, err := parseOptionalDuration(d); err != nil {
			return errors.Wrapf(err, "配置项 '%v' 不合法", name)
		}
	}

	return nil
}

// GetRequestTimeout returns the request timeout. 0 means no limit.
func (si *ServerInfo) GetRequestTimeout() time.Duration {
	d, _ := parseOptionalDuration(si.RequestTimeout)
	return d
}

// GetCacheExpiration returns how long resource rows stay cached. 0 disables the cache.
func (si *ServerInfo) GetCacheExpiration() time.Duration {
	d, _ := parseOptionalDuration(si.CacheExpiration)
	return d
}

// GetPollInterval returns the receipt polling interval. 0 means the gateway default.
func (li *LedgerInfo) GetPollInterval() time.Duration {
	d, _ := parseOptionalDuration(li.PollInterval)
	return d
}

func parseOptionalDuration(str string) (time.Duration, error) {
	if str == "" || str == "0" {
		return 0, nil
	}

	return time.ParseDuration(str)
}
