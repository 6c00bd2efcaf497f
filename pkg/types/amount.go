package types

import (
	"fmt"
	"math/big"
	"strings"
)

// ========================================
// 金额类型（任意精度，非负）
// ========================================

// maxWordBits 单个编码字段可承载的最大位宽（256位）
const maxWordBits = 256

// Amount 链上原生价值数量
//
// 以链的最小单位计（wei、satoshi等），内部用任意精度整数表示，
// 永不为负。所有运算都是显式检查的：减法越界返回
// ErrAmountUnderflow，向固定宽度转换越界返回 ErrAmountOverflow，
// 绝不发生静默回绕。
//
// 零值即金额0，可直接使用。
type Amount struct {
	v big.Int
}

// NewAmount 从uint64构造金额
func NewAmount(u uint64) Amount {
	var a Amount
	a.v.SetUint64(u)
	return a
}

// NewAmountFromBig 从big.Int构造金额
//
// 参数：
//   - b: 非负整数，传入nil视为0
//
// 返回：
//   - Amount: 金额值（内部为副本，不持有b的引用）
//   - error: b为负数时返回 ErrAmountUnderflow
func NewAmountFromBig(b *big.Int) (Amount, error) {
	var a Amount
	if b == nil {
		return a, nil
	}
	if b.Sign() < 0 {
		return a, fmt.Errorf("金额不能为负: %s: %w", b.String(), ErrAmountUnderflow)
	}
	a.v.Set(b)
	return a, nil
}

// NewAmountFromBytes 从最小大端字节表示构造金额
//
// 空切片视为0。
func NewAmountFromBytes(b []byte) Amount {
	var a Amount
	a.v.SetBytes(b)
	return a
}

// ParseAmount 解析十进制金额字符串
//
// 参数：
//   - s: 十进制整数字符串（最小单位计价，不含小数点）
//
// 返回：
//   - Amount: 解析后的金额
//   - error: 格式非法或为负数时的错误
func ParseAmount(s string) (Amount, error) {
	var a Amount
	s = strings.TrimSpace(s)
	if s == "" {
		return a, fmt.Errorf("金额字符串为空")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return a, fmt.Errorf("金额格式无效: %q", s)
	}
	return NewAmountFromBig(v)
}

// Add 金额加法
//
// 任意精度下加法不会溢出，结果总是精确的。
func (a Amount) Add(b Amount) Amount {
	var out Amount
	out.v.Add(&a.v, &b.v)
	return out
}

// Sub 金额减法
//
// 返回：
//   - Amount: a - b
//   - error: a < b 时返回 ErrAmountUnderflow，不回绕
func (a Amount) Sub(b Amount) (Amount, error) {
	var out Amount
	if a.v.Cmp(&b.v) < 0 {
		return out, fmt.Errorf("金额减法越界: %s - %s: %w", a.String(), b.String(), ErrAmountUnderflow)
	}
	out.v.Sub(&a.v, &b.v)
	return out, nil
}

// Mul 金额乘法
func (a Amount) Mul(b Amount) Amount {
	var out Amount
	out.v.Mul(&a.v, &b.v)
	return out
}

// Cmp 比较两个金额，返回 -1/0/+1
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// IsZero 判断金额是否为0
func (a Amount) IsZero() bool {
	return a.v.Sign() == 0
}

// BigInt 返回金额的big.Int副本
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(&a.v)
}

// Uint64 转换为uint64
//
// 返回：
//   - uint64: 金额值
//   - error: 超出uint64范围时返回 ErrAmountOverflow
func (a Amount) Uint64() (uint64, error) {
	if !a.v.IsUint64() {
		return 0, fmt.Errorf("金额超出uint64范围: %s: %w", a.String(), ErrAmountOverflow)
	}
	return a.v.Uint64(), nil
}

// Int64 转换为int64
//
// 返回：
//   - int64: 金额值
//   - error: 超出int64范围时返回 ErrAmountOverflow
func (a Amount) Int64() (int64, error) {
	if !a.v.IsInt64() {
		return 0, fmt.Errorf("金额超出int64范围: %s: %w", a.String(), ErrAmountOverflow)
	}
	return a.v.Int64(), nil
}

// Bytes 返回最小大端字节表示
//
// 金额0返回空切片，与规范化整数编码规则一致。
func (a Amount) Bytes() []byte {
	return a.v.Bytes()
}

// FillWord 将金额编码为32字节大端字
//
// 用于需要定宽256位字段的编码场景（交易字段、合约调用参数）。
//
// 返回：
//   - [32]byte: 右对齐、高位补零的编码结果
//   - error: 金额超过256位时返回 ErrAmountOverflow
func (a Amount) FillWord() ([32]byte, error) {
	var word [32]byte
	if a.v.BitLen() > maxWordBits {
		return word, fmt.Errorf("金额超出256位字段范围: %w", ErrAmountOverflow)
	}
	a.v.FillBytes(word[:])
	return word, nil
}

// String 返回十进制字符串表示
func (a Amount) String() string {
	return a.v.String()
}

// MarshalText 实现 encoding.TextMarshaler（十进制字符串）
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
