package global

import (
	"github.com/hyperledger/fabric-sdk-go/pkg/client/msp"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/resmgmt"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
)

var SDKInstance *fabsdk.FabricSDK // Only set when the ledger is reached through Fabric
var ShowTimingLogs bool           // Whether ledger calls log their durations at debug level

// Clients used while deploying the ledger chaincode. Keyed by org name, then user ID.
var ResMgmtClientInstances map[string]map[string]*resmgmt.Client
var MSPClientInstances map[string]map[string]*msp.Client
