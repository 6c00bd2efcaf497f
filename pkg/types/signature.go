package types

import (
	"fmt"
	"math/big"
)

// 签名编码长度常量
const (
	// SignatureComponentLength 单个签名分量（r或s）的长度
	SignatureComponentLength = 32

	// CompactSignatureLength 紧凑可恢复签名长度：r(32) + s(32) + recoveryID(1)
	CompactSignatureLength = 65
)

// Signature 可恢复的ECDSA签名
//
// 由两个曲线阶范围内的整数分量 r、s 和一个恢复指示位组成。
// 恢复指示位只允许 0 或 1，用于在两个候选公钥中唯一确定签名者。
//
// 分量的曲线阶范围校验由曲线封装层负责（本包不依赖具体曲线参数），
// 这里只保证结构与长度合法。
type Signature struct {
	R          [SignatureComponentLength]byte // 签名分量r（大端）
	S          [SignatureComponentLength]byte // 签名分量s（大端）
	RecoveryID byte                           // 恢复指示位（0或1）
}

// NewSignature 从big.Int分量构造签名
//
// 参数：
//   - r, s: 签名分量，必须为正且不超过256位
//   - recoveryID: 恢复指示位，必须为0或1
//
// 返回：
//   - Signature: 签名值
//   - error: 分量越界或恢复指示位非法时返回 ErrInvalidSignature
func NewSignature(r, s *big.Int, recoveryID byte) (Signature, error) {
	var sig Signature
	if r == nil || s == nil || r.Sign() <= 0 || s.Sign() <= 0 {
		return sig, fmt.Errorf("签名分量必须为正整数: %w", ErrInvalidSignature)
	}
	if r.BitLen() > 256 || s.BitLen() > 256 {
		return sig, fmt.Errorf("签名分量超出256位: %w", ErrInvalidSignature)
	}
	if recoveryID > 1 {
		return sig, fmt.Errorf("恢复指示位非法: %d，期望0或1: %w", recoveryID, ErrInvalidSignature)
	}
	r.FillBytes(sig.R[:])
	s.FillBytes(sig.S[:])
	sig.RecoveryID = recoveryID
	return sig, nil
}

// ParseCompactSignature 解析紧凑格式签名 r(32)+s(32)+recoveryID(1)
func ParseCompactSignature(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != CompactSignatureLength {
		return sig, fmt.Errorf("签名长度错误: 期望 %d 字节，实际 %d 字节: %w",
			CompactSignatureLength, len(b), ErrInvalidSignature)
	}
	if b[64] > 1 {
		return sig, fmt.Errorf("恢复指示位非法: %d，期望0或1: %w", b[64], ErrInvalidSignature)
	}
	copy(sig.R[:], b[0:32])
	copy(sig.S[:], b[32:64])
	sig.RecoveryID = b[64]
	return sig, nil
}

// Compact 序列化为紧凑格式 r(32)+s(32)+recoveryID(1)
func (sig Signature) Compact() []byte {
	out := make([]byte, CompactSignatureLength)
	copy(out[0:32], sig.R[:])
	copy(out[32:64], sig.S[:])
	out[64] = sig.RecoveryID
	return out
}

// RBig 返回分量r的big.Int副本
func (sig Signature) RBig() *big.Int {
	return new(big.Int).SetBytes(sig.R[:])
}

// SBig 返回分量s的big.Int副本
func (sig Signature) SBig() *big.Int {
	return new(big.Int).SetBytes(sig.S[:])
}

// String 返回十六进制表示，便于日志与调试输出
func (sig Signature) String() string {
	return fmt.Sprintf("sig{r=%x s=%x v=%d}", sig.R, sig.S, sig.RecoveryID)
}
