package bitcoin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/weisyn/chainkit/pkg/crypto/hash"
	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// HashLength 地址载荷字节长度（HASH160输出）
const HashLength = 20

// witnessVersion0 版本0见证程序的版本号
const witnessVersion0 = 0x00

// 脚本操作码
const (
	op0           = 0x00
	opPushData1   = 0x4c
	opDup         = 0x76
	opEqual       = 0x87
	opEqualVerify = 0x88
	opHash160     = 0xa9
	opCheckSig    = 0xac
)

// Format 地址格式
//
// 格式决定载荷哈希的来源与文本编码方案：P2PKH与P2SH使用
// Base58Check（版本字节区分），P2WPKH使用Bech32。
type Format uint8

const (
	// FormatP2PKH 支付到公钥哈希，Base58Check编码
	FormatP2PKH Format = iota
	// FormatP2SH 支付到脚本哈希，Base58Check编码。
	// 从公钥派生时为嵌套见证（P2SH-P2WPKH）。
	FormatP2SH
	// FormatP2WPKH 支付到见证公钥哈希，Bech32编码
	FormatP2WPKH
)

// String 返回格式的规范名称
func (f Format) String() string {
	switch f {
	case FormatP2PKH:
		return "p2pkh"
	case FormatP2SH:
		return "p2sh"
	case FormatP2WPKH:
		return "p2wpkh"
	default:
		return fmt.Sprintf("format-%d", uint8(f))
	}
}

// Address UTXO链地址
//
// 地址是公钥或脚本经HASH160得到的20字节标识符。值类型，
// 可直接用 == 比较。文本编码在构造时固定，String不会失败。
type Address struct {
	format  Format
	network Network
	payload [HashLength]byte
	encoded string
}

var _ chain.Address = Address{}

// NewAddress 从20字节载荷构造地址
//
// 参数：
//   - format: 地址格式
//   - payload: 20字节HASH160载荷
//   - network: 所属网络
func NewAddress(format Format, payload []byte, network Network) (Address, error) {
	if len(payload) != HashLength {
		return Address{}, fmt.Errorf("地址载荷必须为%d字节, 实际%d: %w", HashLength, len(payload), types.ErrMalformedAddress)
	}
	encoded, err := encodePayload(format, payload, network)
	if err != nil {
		return Address{}, err
	}
	addr := Address{format: format, network: network, encoded: encoded}
	copy(addr.payload[:], payload)
	return addr, nil
}

// AddressFromPublicKey 从公钥派生地址
//
// P2PKH按公钥的压缩偏好序列化后取HASH160。见证系格式
// （P2WPKH与嵌套的P2SH-P2WPKH）强制要求压缩公钥，
// 未压缩偏好的公钥直接拒绝。
func AddressFromPublicKey(pub *PublicKey, format Format, network Network) (Address, error) {
	switch format {
	case FormatP2PKH:
		return NewAddress(FormatP2PKH, hash.Hash160(pub.Serialize()), network)
	case FormatP2WPKH:
		if !pub.preferCompressed {
			return Address{}, fmt.Errorf("见证地址要求压缩公钥: %w", types.ErrInvalidKey)
		}
		return NewAddress(FormatP2WPKH, hash.Hash160(pub.SerializeCompressed()), network)
	case FormatP2SH:
		if !pub.preferCompressed {
			return Address{}, fmt.Errorf("见证地址要求压缩公钥: %w", types.ErrInvalidKey)
		}
		redeem := witnessScript(hash.Hash160(pub.SerializeCompressed()))
		return NewAddress(FormatP2SH, hash.Hash160(redeem), network)
	default:
		return Address{}, fmt.Errorf("未知地址格式: %d: %w", format, types.ErrMalformedAddress)
	}
}

// ParseAddress 解析并验证文本格式地址
//
// 前缀匹配网络的人类可读部分时走Bech32路径，否则走
// Base58Check路径。两条路径都验证校验和、版本与载荷长度，
// 跨网络的地址一律拒绝。
//
// 返回：
//   - error: 校验和错误返回 types.ErrChecksumMismatch，
//     其余结构问题返回 types.ErrMalformedAddress
func ParseAddress(s string, network Network) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("地址为空: %w", types.ErrMalformedAddress)
	}
	if strings.HasPrefix(strings.ToLower(s), network.hrp+"1") {
		return parseSegwit(s, network)
	}
	return parseBase58(s, network)
}

// Format 返回地址格式
func (a Address) Format() Format {
	return a.format
}

// Bytes 返回20字节载荷副本
func (a Address) Bytes() []byte {
	out := make([]byte, HashLength)
	copy(out, a.payload[:])
	return out
}

// String 返回文本编码（Base58Check或Bech32）
func (a Address) String() string {
	return a.encoded
}

// Network 返回地址所属网络
func (a Address) Network() chain.Network {
	return a.network
}

// PkScript 返回地址对应的锁定脚本
//
// P2PKH: OP_DUP OP_HASH160 <20字节> OP_EQUALVERIFY OP_CHECKSIG
// P2SH:  OP_HASH160 <20字节> OP_EQUAL
// P2WPKH: OP_0 <20字节>
func (a Address) PkScript() []byte {
	switch a.format {
	case FormatP2PKH:
		script := make([]byte, 0, 25)
		script = append(script, opDup, opHash160, HashLength)
		script = append(script, a.payload[:]...)
		return append(script, opEqualVerify, opCheckSig)
	case FormatP2SH:
		script := make([]byte, 0, 23)
		script = append(script, opHash160, HashLength)
		script = append(script, a.payload[:]...)
		return append(script, opEqual)
	default:
		return witnessScript(a.payload[:])
	}
}

// witnessScript 构造版本0见证脚本（OP_0 <20字节>）
//
// 该字节串既是P2WPKH的锁定脚本，也是嵌套见证的赎回脚本。
func witnessScript(h []byte) []byte {
	script := make([]byte, 0, 2+HashLength)
	script = append(script, op0, HashLength)
	return append(script, h...)
}

func parseSegwit(s string, network Network) (Address, error) {
	hrp, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		var checksumErr bech32.ErrInvalidChecksum
		if errors.As(err, &checksumErr) {
			return Address{}, fmt.Errorf("Bech32校验和错误: %w", types.ErrChecksumMismatch)
		}
		return Address{}, fmt.Errorf("Bech32解码失败: %v: %w", err, types.ErrMalformedAddress)
	}
	if hrp != network.hrp {
		return Address{}, fmt.Errorf("人类可读前缀%q不属于%s网络: %w", hrp, network.name, types.ErrMalformedAddress)
	}
	if len(data) == 0 {
		return Address{}, fmt.Errorf("见证程序为空: %w", types.ErrMalformedAddress)
	}
	if data[0] != witnessVersion0 {
		return Address{}, fmt.Errorf("不支持的见证版本: %d: %w", data[0], types.ErrMalformedAddress)
	}
	if version != bech32.Version0 {
		return Address{}, fmt.Errorf("版本0见证地址必须使用Bech32校验和: %w", types.ErrMalformedAddress)
	}
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("见证程序位宽转换失败: %v: %w", err, types.ErrMalformedAddress)
	}
	if len(program) != HashLength {
		return Address{}, fmt.Errorf("见证程序长度非法: %d字节: %w", len(program), types.ErrMalformedAddress)
	}
	return NewAddress(FormatP2WPKH, program, network)
}

func parseBase58(s string, network Network) (Address, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		if err == base58.ErrChecksum {
			return Address{}, fmt.Errorf("Base58校验和错误: %w", types.ErrChecksumMismatch)
		}
		return Address{}, fmt.Errorf("Base58解码失败: %v: %w", err, types.ErrMalformedAddress)
	}
	if len(payload) != HashLength {
		return Address{}, fmt.Errorf("地址载荷长度非法: %d字节: %w", len(payload), types.ErrMalformedAddress)
	}

	var format Format
	switch version {
	case network.p2pkhVersion:
		format = FormatP2PKH
	case network.p2shVersion:
		format = FormatP2SH
	default:
		return Address{}, fmt.Errorf("版本字节%#02x不属于%s网络: %w", version, network.name, types.ErrMalformedAddress)
	}
	return NewAddress(format, payload, network)
}

func encodePayload(format Format, payload []byte, network Network) (string, error) {
	switch format {
	case FormatP2PKH:
		return base58.CheckEncode(payload, network.p2pkhVersion), nil
	case FormatP2SH:
		return base58.CheckEncode(payload, network.p2shVersion), nil
	case FormatP2WPKH:
		words, err := bech32.ConvertBits(payload, 8, 5, true)
		if err != nil {
			return "", fmt.Errorf("见证程序位宽转换失败: %v: %w", err, types.ErrMalformedAddress)
		}
		return bech32.Encode(network.hrp, append([]byte{witnessVersion0}, words...))
	default:
		return "", fmt.Errorf("未知地址格式: %d: %w", format, types.ErrMalformedAddress)
	}
}
