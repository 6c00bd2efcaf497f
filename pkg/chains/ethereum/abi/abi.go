// Package abi 实现合约调用数据的参数编码
//
// 调用数据 = 4字节选择器 + 32字节字对齐的参数区。参数区分为
// 头部与尾部：静态类型就地编码为一个字，动态类型在头部放置
// 相对参数区起点的偏移字，实际内容按声明顺序依次排入尾部。
//
// 支持的类型：uint8..uint256、address、bool、bytes1..bytes32、
// bytes、string。数组与元组不在支持范围内。
//
// 解码端严格拒绝非规范布局：偏移必须精确指向按声明顺序紧密
// 排列的尾部位置，填充字节必须为零，越界与多余字节一律报错。
package abi

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/weisyn/chainkit/pkg/crypto/hash"
	"github.com/weisyn/chainkit/pkg/types"
)

// WordLength ABI参数字长
const WordLength = 32

// SelectorLength 方法选择器长度
const SelectorLength = 4

// 编解码错误
var (
	ErrSignatureSyntax = errors.New("abi: malformed method signature")
	ErrUnsupportedType = errors.New("abi: unsupported type")
	ErrArgumentCount   = errors.New("abi: argument count mismatch")
	ErrArgumentType    = errors.New("abi: argument type mismatch")
	ErrMalformedData   = errors.New("abi: malformed call data")
)

// Kind 类型类别
type Kind int

const (
	// KindUint 无符号整数 uint8..uint256
	KindUint Kind = iota
	// KindAddress 20字节地址
	KindAddress
	// KindBool 布尔
	KindBool
	// KindFixedBytes 定长字节串 bytes1..bytes32
	KindFixedBytes
	// KindBytes 变长字节串
	KindBytes
	// KindString 变长字符串
	KindString
)

// Type 一个ABI参数类型
type Type struct {
	kind Kind
	bits int // KindUint的位宽
	size int // KindFixedBytes的字节数
}

// ParseType 解析类型名称
//
// "uint"规范化为"uint256"。位宽必须是8的倍数且不超过256，
// 定长字节串长度必须在1到32之间。
func ParseType(s string) (Type, error) {
	switch s {
	case "address":
		return Type{kind: KindAddress}, nil
	case "bool":
		return Type{kind: KindBool}, nil
	case "bytes":
		return Type{kind: KindBytes}, nil
	case "string":
		return Type{kind: KindString}, nil
	case "uint":
		return Type{kind: KindUint, bits: 256}, nil
	}

	if rest, ok := strings.CutPrefix(s, "uint"); ok {
		bits, err := strconv.Atoi(rest)
		if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
			return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
		}
		return Type{kind: KindUint, bits: bits}, nil
	}
	if rest, ok := strings.CutPrefix(s, "bytes"); ok {
		size, err := strconv.Atoi(rest)
		if err != nil || size < 1 || size > 32 {
			return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
		}
		return Type{kind: KindFixedBytes, size: size}, nil
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
}

// Kind 返回类型类别
func (t Type) Kind() Kind {
	return t.kind
}

// IsDynamic 判断是否为动态类型（头部放偏移，内容进尾部）
func (t Type) IsDynamic() bool {
	return t.kind == KindBytes || t.kind == KindString
}

// String 返回规范类型名称
func (t Type) String() string {
	switch t.kind {
	case KindUint:
		return "uint" + strconv.Itoa(t.bits)
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.size)
	case KindBytes:
		return "bytes"
	default:
		return "string"
	}
}

// Method 一个已解析的方法签名
type Method struct {
	Name   string
	Inputs []Type
}

// ParseSignature 解析方法签名字符串
//
// 输入必须是紧凑形式 name(type1,type2)，不含空白。
// 类型名称在解析时规范化，选择器按规范形式计算。
func ParseSignature(s string) (Method, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Method{}, fmt.Errorf("%w: %q", ErrSignatureSyntax, s)
	}
	name := s[:open]
	if !validMethodName(name) {
		return Method{}, fmt.Errorf("%w: 方法名 %q 非法", ErrSignatureSyntax, name)
	}

	inner := s[open+1 : len(s)-1]
	m := Method{Name: name}
	if inner == "" {
		return m, nil
	}
	for _, part := range strings.Split(inner, ",") {
		t, err := ParseType(part)
		if err != nil {
			return Method{}, err
		}
		m.Inputs = append(m.Inputs, t)
	}
	return m, nil
}

func validMethodName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Canonical 返回规范签名字符串
func (m Method) Canonical() string {
	names := make([]string, len(m.Inputs))
	for i, t := range m.Inputs {
		names[i] = t.String()
	}
	return m.Name + "(" + strings.Join(names, ",") + ")"
}

// Selector 计算4字节方法选择器：规范签名Keccak-256的前4字节
func (m Method) Selector() [SelectorLength]byte {
	digest := hash.Keccak256([]byte(m.Canonical()))
	var sel [SelectorLength]byte
	copy(sel[:], digest[:SelectorLength])
	return sel
}

// Encode 编码完整调用数据：选择器后接参数区
func (m Method) Encode(args ...interface{}) ([]byte, error) {
	encoded, err := EncodeArguments(m.Inputs, args)
	if err != nil {
		return nil, err
	}
	sel := m.Selector()
	return append(sel[:], encoded...), nil
}

// EncodeCall 一步完成签名解析与调用数据编码
//
// 参数值的Go类型约定：
//   - uintM: types.Amount、uint64 或 *big.Int
//   - address: 20字节 []byte
//   - bool: bool
//   - bytesN: N字节 []byte
//   - bytes: []byte
//   - string: string
func EncodeCall(signature string, args ...interface{}) ([]byte, error) {
	m, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	return m.Encode(args...)
}

// ========================================
// 参数区编码
// ========================================

// EncodeArguments 编码参数区（不含选择器）
func EncodeArguments(inputs []Type, args []interface{}) ([]byte, error) {
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("%w: 期望%d个, 实际%d个", ErrArgumentCount, len(inputs), len(args))
	}

	head := make([]byte, 0, len(inputs)*WordLength)
	var tail []byte
	tailOffset := len(inputs) * WordLength

	for i, t := range inputs {
		if !t.IsDynamic() {
			word, err := encodeStatic(t, args[i])
			if err != nil {
				return nil, fmt.Errorf("参数%d: %w", i, err)
			}
			head = append(head, word[:]...)
			continue
		}

		content, err := dynamicContent(t, args[i])
		if err != nil {
			return nil, fmt.Errorf("参数%d: %w", i, err)
		}
		head = append(head, uintWord(uint64(tailOffset+len(tail)))...)
		tail = append(tail, uintWord(uint64(len(content)))...)
		tail = append(tail, padRight(content)...)
	}
	return append(head, tail...), nil
}

// encodeStatic 静态类型编码为单个字
func encodeStatic(t Type, arg interface{}) ([WordLength]byte, error) {
	var word [WordLength]byte

	switch t.kind {
	case KindUint:
		amount, err := amountArg(arg)
		if err != nil {
			return word, err
		}
		if amount.BigInt().BitLen() > t.bits {
			return word, fmt.Errorf("值超出%s容量: %w", t, types.ErrAmountOverflow)
		}
		return amount.FillWord()

	case KindAddress:
		b, ok := arg.([]byte)
		if !ok || len(b) != 20 {
			return word, fmt.Errorf("%w: address需要20字节", ErrArgumentType)
		}
		copy(word[WordLength-20:], b)
		return word, nil

	case KindBool:
		v, ok := arg.(bool)
		if !ok {
			return word, fmt.Errorf("%w: bool需要布尔值", ErrArgumentType)
		}
		if v {
			word[WordLength-1] = 1
		}
		return word, nil

	default: // KindFixedBytes
		b, ok := arg.([]byte)
		if !ok || len(b) != t.size {
			return word, fmt.Errorf("%w: %s需要%d字节", ErrArgumentType, t, t.size)
		}
		copy(word[:], b)
		return word, nil
	}
}

func dynamicContent(t Type, arg interface{}) ([]byte, error) {
	if t.kind == KindString {
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("%w: string需要字符串", ErrArgumentType)
		}
		return []byte(s), nil
	}
	b, ok := arg.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: bytes需要字节切片", ErrArgumentType)
	}
	return b, nil
}

func amountArg(arg interface{}) (types.Amount, error) {
	switch v := arg.(type) {
	case types.Amount:
		return v, nil
	case uint64:
		return types.NewAmount(v), nil
	case *big.Int:
		return types.NewAmountFromBig(v)
	default:
		return types.Amount{}, fmt.Errorf("%w: uint需要Amount、uint64或*big.Int", ErrArgumentType)
	}
}

func uintWord(u uint64) []byte {
	word := make([]byte, WordLength)
	for i := 0; i < 8; i++ {
		word[WordLength-1-i] = byte(u >> (8 * i))
	}
	return word
}

// padRight 右侧补零到字边界
func padRight(b []byte) []byte {
	if len(b)%WordLength == 0 {
		return b
	}
	padded := make([]byte, (len(b)/WordLength+1)*WordLength)
	copy(padded, b)
	return padded
}

// ========================================
// 参数区解码
// ========================================

// DecodeCall 校验选择器并解码参数区
func DecodeCall(m Method, data []byte) ([]interface{}, error) {
	if len(data) < SelectorLength {
		return nil, fmt.Errorf("%w: 数据短于选择器", ErrMalformedData)
	}
	sel := m.Selector()
	if string(data[:SelectorLength]) != string(sel[:]) {
		return nil, fmt.Errorf("%w: 选择器不匹配", ErrMalformedData)
	}
	return DecodeArguments(m.Inputs, data[SelectorLength:])
}

// DecodeArguments 严格解码参数区
//
// 解码出的Go类型：uintM为types.Amount，address为20字节[]byte，
// bool为bool，bytesN与bytes为[]byte，string为string。
// 偏移必须按声明顺序紧密排列，填充字节必须为零，
// 多余字节一律拒绝。
func DecodeArguments(inputs []Type, data []byte) ([]interface{}, error) {
	headSize := len(inputs) * WordLength
	if len(data) < headSize {
		return nil, fmt.Errorf("%w: 头部不完整", ErrMalformedData)
	}

	out := make([]interface{}, len(inputs))
	expectedTail := headSize

	for i, t := range inputs {
		word := data[i*WordLength : (i+1)*WordLength]

		if !t.IsDynamic() {
			v, err := decodeStatic(t, word)
			if err != nil {
				return nil, fmt.Errorf("参数%d: %w", i, err)
			}
			out[i] = v
			continue
		}

		offset, err := wordToUint(word)
		if err != nil {
			return nil, fmt.Errorf("参数%d: %w", i, err)
		}
		if offset != uint64(expectedTail) {
			return nil, fmt.Errorf("%w: 参数%d偏移%d应为%d", ErrMalformedData, i, offset, expectedTail)
		}

		content, consumed, err := decodeDynamic(data, expectedTail)
		if err != nil {
			return nil, fmt.Errorf("参数%d: %w", i, err)
		}
		if t.kind == KindString {
			out[i] = string(content)
		} else {
			out[i] = content
		}
		expectedTail += consumed
	}

	if expectedTail != len(data) {
		return nil, fmt.Errorf("%w: 尾部有%d个多余字节", ErrMalformedData, len(data)-expectedTail)
	}
	return out, nil
}

func decodeStatic(t Type, word []byte) (interface{}, error) {
	switch t.kind {
	case KindUint:
		if err := requireZero(word[:WordLength-t.bits/8]); err != nil {
			return nil, fmt.Errorf("uint%d高位非零: %w", t.bits, ErrMalformedData)
		}
		return types.NewAmountFromBytes(word), nil

	case KindAddress:
		if err := requireZero(word[:WordLength-20]); err != nil {
			return nil, fmt.Errorf("address高位非零: %w", ErrMalformedData)
		}
		out := make([]byte, 20)
		copy(out, word[WordLength-20:])
		return out, nil

	case KindBool:
		if err := requireZero(word[:WordLength-1]); err != nil {
			return nil, fmt.Errorf("bool高位非零: %w", ErrMalformedData)
		}
		switch word[WordLength-1] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, fmt.Errorf("bool取值非法: %d: %w", word[WordLength-1], ErrMalformedData)
		}

	default: // KindFixedBytes
		if err := requireZero(word[t.size:]); err != nil {
			return nil, fmt.Errorf("bytes%d填充非零: %w", t.size, ErrMalformedData)
		}
		out := make([]byte, t.size)
		copy(out, word[:t.size])
		return out, nil
	}
}

// decodeDynamic 读取尾部的一段动态内容，返回内容与消耗的字节数
func decodeDynamic(data []byte, start int) ([]byte, int, error) {
	if len(data) < start+WordLength {
		return nil, 0, fmt.Errorf("%w: 长度字不完整", ErrMalformedData)
	}
	length, err := wordToUint(data[start : start+WordLength])
	if err != nil {
		return nil, 0, err
	}
	if length > uint64(len(data)) {
		return nil, 0, fmt.Errorf("%w: 内容越界", ErrMalformedData)
	}

	padded := (int(length) + WordLength - 1) / WordLength * WordLength
	end := start + WordLength + padded
	if end > len(data) {
		return nil, 0, fmt.Errorf("%w: 内容越界", ErrMalformedData)
	}

	content := data[start+WordLength : start+WordLength+int(length)]
	if err := requireZero(data[start+WordLength+int(length) : end]); err != nil {
		return nil, 0, fmt.Errorf("动态内容填充非零: %w", ErrMalformedData)
	}

	out := make([]byte, length)
	copy(out, content)
	return out, WordLength + padded, nil
}

// wordToUint 把一个字解释为uint64，拒绝超出范围的高位
func wordToUint(word []byte) (uint64, error) {
	if err := requireZero(word[:WordLength-8]); err != nil {
		return 0, fmt.Errorf("%w: 长度或偏移超出范围", ErrMalformedData)
	}
	var u uint64
	for _, b := range word[WordLength-8:] {
		u = u<<8 | uint64(b)
	}
	return u, nil
}

func requireZero(b []byte) error {
	for _, c := range b {
		if c != 0 {
			return ErrMalformedData
		}
	}
	return nil
}
