package bitcoin

import (
	"fmt"

	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// Network UTXO链的部署目标
//
// 网络参数化三组地址前缀：base58地址的版本字节、bech32地址的
// 可读前缀，以及WIF私钥编码的版本字节。
type Network struct {
	name         string
	p2pkhVersion byte
	p2shVersion  byte
	hrp          string
	wifVersion   byte
}

var _ chain.Network = Network{}

// 内置网络
var (
	// Mainnet 主网
	Mainnet = Network{
		name:         "mainnet",
		p2pkhVersion: 0x00,
		p2shVersion:  0x05,
		hrp:          "bc",
		wifVersion:   0x80,
	}
	// Testnet3 测试网
	Testnet3 = Network{
		name:         "testnet3",
		p2pkhVersion: 0x6f,
		p2shVersion:  0xc4,
		hrp:          "tb",
		wifVersion:   0xef,
	}
)

// Name 返回网络规范名称
func (n Network) Name() string {
	return n.name
}

// String 实现 fmt.Stringer
func (n Network) String() string {
	return n.name
}

// Networks 返回内置支持的网络列表
func Networks() []Network {
	return []Network{Mainnet, Testnet3}
}

// ParseNetwork 按规范名称解析内置网络
//
// 返回：
//   - error: 名称未注册时返回 types.ErrUnsupportedNetwork
func ParseNetwork(name string) (Network, error) {
	for _, n := range Networks() {
		if n.name == name {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("%w: %q", types.ErrUnsupportedNetwork, name)
}

// networkForWIFVersion 按WIF版本字节识别网络
func networkForWIFVersion(version byte) (Network, bool) {
	for _, n := range Networks() {
		if n.wifVersion == version {
			return n, true
		}
	}
	return Network{}, false
}
