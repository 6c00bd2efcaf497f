package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashLength 哈希摘要的固定长度（32字节）
const HashLength = 32

// Hash 256位哈希摘要
//
// 作为值类型使用：可直接用 == 比较，可作为map键。
// 所有链模块的交易ID、签名摘要、存储键都使用本类型承载。
type Hash [HashLength]byte

// NewHash 从字节切片构造哈希
//
// 参数：
//   - b: 必须恰好32字节
//
// 返回：
//   - Hash: 哈希值
//   - error: 长度不符时返回错误
func NewHash(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, fmt.Errorf("哈希长度错误: 期望 %d 字节，实际 %d 字节", HashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// NewHashFromHex 从十六进制字符串构造哈希
//
// 接受带或不带 0x 前缀的64位十六进制字符。
func NewHashFromHex(s string) (Hash, error) {
	var h Hash
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != HashLength*2 {
		return h, fmt.Errorf("哈希字符串长度错误: 期望 %d 个字符，实际 %d 个", HashLength*2, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("哈希字符串解析失败: %w", err)
	}
	copy(h[:], raw)
	return h, nil
}

// Bytes 返回哈希的字节副本
func (h Hash) Bytes() []byte {
	out := make([]byte, HashLength)
	copy(out, h[:])
	return out
}

// Hex 返回带 0x 前缀的小写十六进制表示
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// String 实现 fmt.Stringer
func (h Hash) String() string {
	return h.Hex()
}

// IsZero 判断是否为全零哈希
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Equal 判断两个哈希是否相等
func (h Hash) Equal(other Hash) bool {
	return bytes.Equal(h[:], other[:])
}

// MarshalText 实现 encoding.TextMarshaler
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := NewHashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
