package bitcoin

import (
	"fmt"

	"github.com/weisyn/chainkit/pkg/chains"
	"github.com/weisyn/chainkit/pkg/crypto/secp256k1"
	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// ChainName 注册表中的链规范名称
const ChainName = "bitcoin"

// DefaultFormat 适配器派生地址时使用的格式
const DefaultFormat = FormatP2WPKH

// Adapter UTXO链适配器
//
// 在init中注册到 pkg/chains 注册表。链无关代码通过空白导入
// 激活注册：
//
//	import _ "github.com/weisyn/chainkit/pkg/chains/bitcoin"
type Adapter struct{}

var _ chain.Adapter = Adapter{}

func init() {
	chains.MustRegister(Adapter{})
}

// Name 返回链规范名称
func (Adapter) Name() string {
	return ChainName
}

// Networks 返回内置网络名称列表
func (Adapter) Networks() []string {
	nets := Networks()
	names := make([]string, 0, len(nets))
	for _, n := range nets {
		names = append(names, n.Name())
	}
	return names
}

// DeriveAddress 从33字节压缩公钥派生原生隔离见证地址
//
// 参数：
//   - compressedPublicKey: 33字节压缩公钥
//   - network: 网络规范名称（"mainnet"、"testnet3"）
//
// 返回：
//   - string: Bech32地址文本
//   - error: 公钥非法返回 types.ErrInvalidKey，网络未知返回
//     types.ErrUnsupportedNetwork
func (Adapter) DeriveAddress(compressedPublicKey []byte, network string) (string, error) {
	net, err := ParseNetwork(network)
	if err != nil {
		return "", err
	}
	if len(compressedPublicKey) != secp256k1.CompressedPubKeyLength {
		return "", fmt.Errorf("压缩公钥长度非法: %d: %w", len(compressedPublicKey), types.ErrInvalidKey)
	}
	pub, err := NewPublicKey(compressedPublicKey)
	if err != nil {
		return "", err
	}
	addr, err := AddressFromPublicKey(pub, DefaultFormat, net)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// ValidateAddress 校验地址文本在指定网络下是否合法
//
// 接受该网络的全部三种格式：Base58Check的P2PKH与P2SH，
// 以及Bech32的版本0见证程序。
func (Adapter) ValidateAddress(address, network string) error {
	net, err := ParseNetwork(network)
	if err != nil {
		return err
	}
	_, err = ParseAddress(address, net)
	return err
}
