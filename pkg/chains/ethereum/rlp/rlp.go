// Package rlp 实现规范的递归长度前缀编码
//
// 编码规则：
//   - 单字节 [0x00,0x7f] 即其自身编码
//   - 0-55字节的串：0x80+长度 后接内容
//   - 更长的串：0xb7+长度的字节数 后接大端长度与内容
//   - 0-55字节载荷的列表：0xc0+长度 后接各项编码的连接
//   - 更长的列表：0xf7+长度的字节数 后接大端长度与载荷
//
// 整数一律使用最小大端字节表示，无前导零，零编码为空串。
// 解码端严格拒绝一切非规范形式：同一字节序列只存在唯一合法解码。
package rlp

import (
	"errors"
	"fmt"
	"math/big"
)

// 解码错误
var (
	ErrEmptyInput      = errors.New("rlp: empty input")
	ErrTruncated       = errors.New("rlp: input truncated")
	ErrTrailingBytes   = errors.New("rlp: trailing bytes after value")
	ErrNonCanonical    = errors.New("rlp: non-canonical encoding")
	ErrExpectedString  = errors.New("rlp: expected string, got list")
	ErrExpectedList    = errors.New("rlp: expected list, got string")
	ErrIntegerOverflow = errors.New("rlp: integer larger than 64 bits")
	ErrLeadingZero     = errors.New("rlp: integer with leading zero byte")
)

// Kind 区分编码值的两种结构
type Kind int

const (
	// KindString 字节串
	KindString Kind = iota
	// KindList 列表
	KindList
)

// Value 一个已解析或待编码的RLP值
//
// 字节串持有原始内容，列表持有子值序列。零值是空字节串。
type Value struct {
	kind Kind
	str  []byte
	list []Value
}

// String 构造字节串值
func String(b []byte) Value {
	return Value{kind: KindString, str: b}
}

// Uint64 构造整数值（最小大端表示，零为空串）
func Uint64(u uint64) Value {
	if u == 0 {
		return Value{kind: KindString}
	}
	b := make([]byte, 8)
	n := 0
	for shift := 56; shift >= 0; shift -= 8 {
		byt := byte(u >> shift)
		if n == 0 && byt == 0 {
			continue
		}
		b[n] = byt
		n++
	}
	return Value{kind: KindString, str: b[:n]}
}

// List 构造列表值
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Kind 返回值的结构类别
func (v Value) Kind() Kind {
	return v.kind
}

// IsList 判断是否为列表
func (v Value) IsList() bool {
	return v.kind == KindList
}

// Bytes 取出字节串内容
func (v Value) Bytes() ([]byte, error) {
	if v.kind != KindString {
		return nil, ErrExpectedString
	}
	return v.str, nil
}

// Items 取出列表的子值
func (v Value) Items() ([]Value, error) {
	if v.kind != KindList {
		return nil, ErrExpectedList
	}
	return v.list, nil
}

// Uint64Value 按规范整数规则解释字节串
//
// 拒绝前导零与超过8字节的表示。
func (v Value) Uint64Value() (uint64, error) {
	if v.kind != KindString {
		return 0, ErrExpectedString
	}
	if len(v.str) > 8 {
		return 0, ErrIntegerOverflow
	}
	if len(v.str) > 0 && v.str[0] == 0 {
		return 0, ErrLeadingZero
	}
	var u uint64
	for _, b := range v.str {
		u = u<<8 | uint64(b)
	}
	return u, nil
}

// BigIntValue 按规范整数规则解释字节串为任意精度整数
func (v Value) BigIntValue() (*big.Int, error) {
	if v.kind != KindString {
		return nil, ErrExpectedString
	}
	if len(v.str) > 0 && v.str[0] == 0 {
		return nil, ErrLeadingZero
	}
	return new(big.Int).SetBytes(v.str), nil
}

// ================================================================================
// 编码
// ================================================================================

// Encode 将值编码为RLP字节序列
func Encode(v Value) []byte {
	return appendValue(nil, v)
}

// EncodeList 编码一个列表，等价于 Encode(List(items...))
func EncodeList(items ...Value) []byte {
	return Encode(List(items...))
}

func appendValue(dst []byte, v Value) []byte {
	if v.kind == KindString {
		return appendString(dst, v.str)
	}

	var payload []byte
	for _, item := range v.list {
		payload = appendValue(payload, item)
	}
	dst = appendLength(dst, 0xc0, len(payload))
	return append(dst, payload...)
}

func appendString(dst, b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return append(dst, b[0])
	}
	dst = appendLength(dst, 0x80, len(b))
	return append(dst, b...)
}

// appendLength 写入长度前缀：offset为0x80（串）或0xc0（列表）
func appendLength(dst []byte, offset byte, length int) []byte {
	if length <= 55 {
		return append(dst, offset+byte(length))
	}

	// 长形式：先写长度的字节数，再写大端长度
	lenBytes := make([]byte, 0, 8)
	for l := uint64(length); l > 0; l >>= 8 {
		lenBytes = append([]byte{byte(l)}, lenBytes...)
	}
	dst = append(dst, offset+55+byte(len(lenBytes)))
	return append(dst, lenBytes...)
}

// ================================================================================
// 解码
// ================================================================================

// Decode 解码完整的RLP字节序列
//
// 输入必须恰好包含一个顶层值，尾部多余字节视为错误。
func Decode(data []byte) (Value, error) {
	if len(data) == 0 {
		return Value{}, ErrEmptyInput
	}
	v, rest, err := decodeValue(data)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, len(rest))
	}
	return v, nil
}

func decodeValue(data []byte) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, ErrTruncated
	}

	b0 := data[0]
	switch {
	case b0 < 0x80:
		// 单字节即自身
		return Value{kind: KindString, str: data[:1]}, data[1:], nil

	case b0 <= 0xb7:
		// 短串
		length := int(b0 - 0x80)
		if len(data) < 1+length {
			return Value{}, nil, ErrTruncated
		}
		content := data[1 : 1+length]
		// 单字节且 < 0x80 时必须用单字节形式
		if length == 1 && content[0] < 0x80 {
			return Value{}, nil, fmt.Errorf("%w: single byte below 0x80 with prefix", ErrNonCanonical)
		}
		return Value{kind: KindString, str: content}, data[1+length:], nil

	case b0 <= 0xbf:
		// 长串
		content, rest, err := decodeLongPayload(data, b0-0xb7)
		if err != nil {
			return Value{}, nil, err
		}
		return Value{kind: KindString, str: content}, rest, nil

	case b0 <= 0xf7:
		// 短列表
		length := int(b0 - 0xc0)
		if len(data) < 1+length {
			return Value{}, nil, ErrTruncated
		}
		items, err := decodeListPayload(data[1 : 1+length])
		if err != nil {
			return Value{}, nil, err
		}
		return Value{kind: KindList, list: items}, data[1+length:], nil

	default:
		// 长列表
		payload, rest, err := decodeLongPayload(data, b0-0xf7)
		if err != nil {
			return Value{}, nil, err
		}
		items, err := decodeListPayload(payload)
		if err != nil {
			return Value{}, nil, err
		}
		return Value{kind: KindList, list: items}, rest, nil
	}
}

// decodeLongPayload 解析长形式（>55字节）的长度字段并返回载荷
func decodeLongPayload(data []byte, lenOfLen byte) ([]byte, []byte, error) {
	n := int(lenOfLen)
	if len(data) < 1+n {
		return nil, nil, ErrTruncated
	}
	lenBytes := data[1 : 1+n]
	if lenBytes[0] == 0 {
		return nil, nil, fmt.Errorf("%w: length with leading zero byte", ErrNonCanonical)
	}
	if n > 8 {
		return nil, nil, fmt.Errorf("%w: length field too wide", ErrNonCanonical)
	}

	var length uint64
	for _, b := range lenBytes {
		length = length<<8 | uint64(b)
	}
	if length <= 55 {
		return nil, nil, fmt.Errorf("%w: long form used for short payload", ErrNonCanonical)
	}
	if length > uint64(len(data)-1-n) {
		return nil, nil, ErrTruncated
	}

	start := 1 + n
	end := start + int(length)
	return data[start:end], data[end:], nil
}

// decodeListPayload 把列表载荷逐项解码直至耗尽
func decodeListPayload(payload []byte) ([]Value, error) {
	items := []Value{}
	for len(payload) > 0 {
		v, rest, err := decodeValue(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		payload = rest
	}
	return items, nil
}
