package ethereum

import (
	"fmt"

	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// Network 参考链的部署目标
//
// 网络参数化交易的链ID字段。地址字节在各网络间一致，
// 但地址值携带网络标签，保证(字节,网络)二元组的值语义完整。
type Network struct {
	name    string
	chainID uint64
}

var _ chain.Network = Network{}

// 内置网络
var (
	// Mainnet 主网，链ID 1
	Mainnet = Network{name: "mainnet", chainID: 1}
	// Sepolia 测试网，链ID 11155111
	Sepolia = Network{name: "sepolia", chainID: 11155111}
)

// NewNetwork 构造自定义网络
//
// 供接入内置集合之外的EVM兼容部署使用，name为空时
// 按链ID派生显示标签。
func NewNetwork(name string, chainID uint64) Network {
	return Network{name: name, chainID: chainID}
}

// Name 返回网络规范名称
func (n Network) Name() string {
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("evm-%d", n.chainID)
}

// ChainID 返回EIP-155链标识
func (n Network) ChainID() uint64 {
	return n.chainID
}

// String 实现 fmt.Stringer
func (n Network) String() string {
	return n.Name()
}

// Networks 返回内置支持的网络列表
func Networks() []Network {
	return []Network{Mainnet, Sepolia}
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

// NetworkForChainID 按链ID解析内置网络
func NetworkForChainID(chainID uint64) (Network, error) {
	for _, n := range Networks() {
		if n.chainID == chainID {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("%w: chain id %d", types.ErrUnsupportedNetwork, chainID)
}

// networkForChainID 解码路径使用：未注册的链ID降级为未命名网络，
// 结构合法的外来交易不因网络集合封闭而无法解析
func networkForChainID(chainID uint64) Network {
	if n, err := NetworkForChainID(chainID); err == nil {
		return n
	}
	return Network{chainID: chainID}
}
