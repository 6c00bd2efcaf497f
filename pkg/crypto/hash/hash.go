// Package hash 提供链工具包使用的哈希原语
//
// 🎯 **设计目的**：
// 统一封装各链指定的哈希函数：参考链的Keccak-256、UTXO链的
// 双重SHA-256与HASH160。全部为纯函数，无缓存、无共享状态，
// 任意并发调用安全。
package hash

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"

	"github.com/weisyn/chainkit/pkg/types"
)

// Keccak256 计算Keccak-256哈希
//
// 注意是以太坊使用的原始Keccak，不是NIST标准化后的SHA3-256。
//
// 参数:
//   - data: 要计算哈希的数据段，多段按顺序连续写入
//
// 返回:
//   - []byte: 32字节的Keccak-256哈希结果
func Keccak256(data ...[]byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

// Keccak256Hash 计算Keccak-256哈希并返回Hash值类型
func Keccak256Hash(data ...[]byte) types.Hash {
	var h types.Hash
	copy(h[:], Keccak256(data...))
	return h
}

// SHA256 计算SHA-256哈希
func SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DoubleSHA256 计算双重SHA-256哈希
//
// UTXO链的交易ID与校验和使用本函数。
func DoubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleSHA256Hash 计算双重SHA-256哈希并返回Hash值类型
func DoubleSHA256Hash(data []byte) types.Hash {
	var h types.Hash
	copy(h[:], DoubleSHA256(data))
	return h
}

// RIPEMD160 计算RIPEMD-160哈希
//
// 返回:
//   - []byte: 20字节的RIPEMD-160哈希结果
func RIPEMD160(data []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}

// Hash160 计算HASH160（先SHA-256再RIPEMD-160）
//
// UTXO链的公钥哈希与脚本哈希使用本函数，结果为20字节。
func Hash160(data []byte) []byte {
	return RIPEMD160(SHA256(data))
}
