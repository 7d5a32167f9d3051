// Package networkinfo 从 Fabric SDK 配置中提取客户端关心的网络信息。
package networkinfo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hyperledger/fabric-sdk-go/pkg/common/providers/core"
	"github.com/hyperledger/fabric-sdk-go/pkg/fab"
)

// Config contains config info about the Fabric network which is needed by a client.
type Config struct {
	Orderers      map[string]string       // Orderer name -> URL
	Organizations map[string]Organization // Org name -> org
	Peers         map[string]string       // Peer name -> URL
}

// Organization contains info about an organization which is needed by a client.
type Organization struct {
	Name  string
	MSPID string
	Peers []string
	Users []string
}

// lookupSection decodes a top-level section of the SDK config into `out`.
func lookupSection(configBackend core.ConfigBackend, section string, out interface{}) error {
	value, ok := configBackend.Lookup(section)
	if !ok {
		return fmt.Errorf("SDK 配置中缺少 '%v' 部分", section)
	}

	// The backend returns generic maps. Round trip through JSON to get the SDK config structs.
	sectionBytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(sectionBytes, out)
}

// ParseConfig parses the "orderers", "organizations" and "peers" sections of the SDK config.
//
// Parameters:
//   the config backend
//
// Returns:
//   the network config
func ParseConfig(configBackend core.ConfigBackend) (*Config, error) {
	orderersMap := make(map[string]fab.OrdererConfig)
	if err := lookupSection(configBackend, "orderers", &orderersMap); err != nil {
		return nil, err
	}

	organizationsMap := make(map[string]fab.OrganizationConfig)
	if err := lookupSection(configBackend, "organizations", &organizationsMap); err != nil {
		return nil, err
	}

	peersMap := make(map[string]fab.PeerConfig)
	if err := lookupSection(configBackend, "peers", &peersMap); err != nil {
		return nil, err
	}

	result := &Config{
		Orderers:      make(map[string]string),
		Organizations: make(map[string]Organization),
		Peers:         make(map[string]string),
	}
	for name, v := range orderersMap {
		result.Orderers[name] = v.URL
	}
	for name, v := range organizationsMap {
		var users []string
		for userName := range v.Users {
			users = append(users, userName)
		}
		sort.Strings(users)

		result.Organizations[name] = Organization{Name: name, MSPID: v.MSPID, Peers: v.Peers, Users: users}
	}
	for name, v := range peersMap {
		result.Peers[name] = v.URL
	}

	return result, nil
}

// CheckOrg makes sure the org is defined in the config and has at least one peer. Org names are case-insensitive.
func (c *Config) CheckOrg(orgName string) error {
	for name, org := range c.Organizations {
		if !strings.EqualFold(name, orgName) {
			continue
		}
		if len(org.Peers) == 0 {
			return fmt.Errorf("组织 '%v' 没有可用的节点", orgName)
		}

		return nil
	}

	return fmt.Errorf("SDK 配置中没有组织 '%v'", orgName)
}

func (c *Config) String() string {
	var sb strings.Builder

	names := make([]string, 0, len(c.Orderers))
	for name := range c.Orderers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "orderer %v: %v\n", name, c.Orderers[name])
	}

	names = names[:0]
	for name := range c.Organizations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		org := c.Organizations[name]
		fmt.Fprintf(&sb, "org %v (%v): peers %v\n", name, org.MSPID, org.Peers)
	}

	names = names[:0]
	for name := range c.Peers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "peer %v: %v\n", name, c.Peers[name])
	}

	return sb.String()
}
