package network

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type Name string

const (
	Name_Mainnet  Name = "mainnet"
	Name_Testnet  Name = "testnet"
	Name_Devnet   Name = "devnet"
	Name_Localnet Name = "localnet"
)

// EnvNetwork is read when no explicit network is configured.
const EnvNetwork = "network"

var gateways = map[Name]string{
	Name_Mainnet:  "https://fullnode.mainnet.sui.io:443",
	Name_Testnet:  "https://fullnode.testnet.sui.io:443",
	Name_Devnet:   "https://fullnode.devnet.sui.io:443",
	Name_Localnet: "http://127.0.0.1:9000",
}

var faucets = map[Name]string{
	Name_Testnet:  "https://faucet.testnet.sui.io/gas",
	Name_Devnet:   "https://faucet.devnet.sui.io/gas",
	Name_Localnet: "http://127.0.0.1:9123/gas",
}

const explorerBase = "https://suiexplorer.com"

// Network is either one of the named presets or a custom gateway URL.
type Network struct {
	name    Name
	gateway string
}

func Mainnet() Network  { return Network{name: Name_Mainnet, gateway: gateways[Name_Mainnet]} }
func Testnet() Network  { return Network{name: Name_Testnet, gateway: gateways[Name_Testnet]} }
func Devnet() Network   { return Network{name: Name_Devnet, gateway: gateways[Name_Devnet]} }
func Localnet() Network { return Network{name: Name_Localnet, gateway: gateways[Name_Localnet]} }

// Custom points at an arbitrary gateway.
func Custom(gateway string) Network {
	return Network{gateway: strings.TrimRight(gateway, "/")}
}

// Parse maps a preset name to its network; anything else is treated as a custom gateway URL.
func Parse(value string) (Network, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Mainnet(), nil
	}
	if gw, ok := gateways[Name(strings.ToLower(value))]; ok {
		return Network{name: Name(strings.ToLower(value)), gateway: gw}, nil
	}

	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Network{}, fmt.Errorf("network %q is neither a known network nor an http(s) gateway URL", value)
	}
	return Custom(value), nil
}

// FromEnv reads the network environment variable and defaults to mainnet.
func FromEnv() (Network, error) {
	return Parse(os.Getenv(EnvNetwork))
}

func (n Network) IsCustom() bool {
	return n.name == ""
}

// Name is the preset name, or the gateway URL for custom networks.
func (n Network) Name() string {
	if n.IsCustom() {
		return n.gateway
	}
	return string(n.name)
}

func (n Network) Gateway() string {
	return n.gateway
}

// FaucetURL fails on mainnet, which has no faucet.
func (n Network) FaucetURL() (string, error) {
	if n.IsCustom() {
		return n.gateway + "/gas", nil
	}
	if u, ok := faucets[n.name]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%s does not support faucet", n.name)
}

func (n Network) ObjectLink(objectID string) string {
	return fmt.Sprintf("%s/object/%s?network=%s", explorerBase, objectID, url.QueryEscape(n.Name()))
}

func (n Network) TransactionLink(digest string) string {
	return fmt.Sprintf("%s/txblock/%s?network=%s", explorerBase, digest, url.QueryEscape(n.Name()))
}

func (n Network) String() string {
	return fmt.Sprintf("[%s, %s]", n.Name(), n.gateway)
}
