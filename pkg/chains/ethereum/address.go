package ethereum

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/weisyn/chainkit/pkg/crypto/hash"
	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// AddressLength 地址字节长度
const AddressLength = 20

// Address 参考链地址
//
// 地址是公钥经Keccak-256截断得到的20字节标识符。值类型，
// 可直接用 == 比较：相等当且仅当字节载荷与网络都相等。
type Address struct {
	bytes   [AddressLength]byte
	network Network
}

var _ chain.Address = Address{}

// NewAddress 从20字节载荷构造地址
func NewAddress(b []byte, network Network) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("地址长度必须为%d字节, 实际%d: %w", AddressLength, len(b), types.ErrMalformedAddress)
	}
	addr := Address{network: network}
	copy(addr.bytes[:], b)
	return addr, nil
}

// AddressFromPublicKey 从公钥派生地址
//
// 派生管线：未压缩序列化去掉04前缀，对64字节坐标做Keccak-256，
// 取摘要的低20字节。
func AddressFromPublicKey(pub chain.PublicKey, network Network) (Address, error) {
	uncompressed := pub.SerializeUncompressed()
	if len(uncompressed) != 65 || uncompressed[0] != 0x04 {
		return Address{}, fmt.Errorf("公钥未压缩格式非法: %w", types.ErrInvalidKey)
	}
	digest := hash.Keccak256(uncompressed[1:])
	return NewAddress(digest[12:], network)
}

// ParseAddress 解析并验证文本格式地址
//
// 接受0x前缀加40位十六进制。混合大小写按校验规则验证；
// 全小写与全大写视为未携带校验信息，跳过校验直接接受。
//
// 返回：
//   - error: 结构非法返回 types.ErrMalformedAddress，
//     混合大小写与校验规则不符返回 types.ErrChecksumMismatch
func ParseAddress(s string, network Network) (Address, error) {
	if len(s) != 2+2*AddressLength || s[:2] != "0x" {
		return Address{}, fmt.Errorf("地址必须为0x前缀加%d位十六进制: %w", 2*AddressLength, types.ErrMalformedAddress)
	}
	body := s[2:]

	raw, err := hex.DecodeString(body)
	if err != nil {
		return Address{}, fmt.Errorf("地址包含非十六进制字符: %w", types.ErrMalformedAddress)
	}

	// 全小写或全大写的地址不携带校验信息
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if body != checksumHex(raw) {
			return Address{}, fmt.Errorf("地址大小写与校验规则不符: %w", types.ErrChecksumMismatch)
		}
	}

	return NewAddress(raw, network)
}

// Bytes 返回20字节地址载荷副本
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a.bytes[:])
	return out
}

// String 返回校验大小写的0x前缀十六进制显示格式
func (a Address) String() string {
	return "0x" + checksumHex(a.bytes[:])
}

// Network 返回地址所属网络
func (a Address) Network() chain.Network {
	return a.network
}

// checksumHex 计算校验大小写的十六进制体
//
// 对40位小写十六进制字符的ASCII字节做Keccak-256（不含0x前缀），
// 第i位为字母且摘要第i个半字节不小于8时转为大写。
func checksumHex(b []byte) string {
	lower := hex.EncodeToString(b)
	digest := hash.Keccak256([]byte(lower))

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}
