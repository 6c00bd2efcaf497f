package ethereum

import (
	"github.com/weisyn/chainkit/pkg/crypto/secp256k1"
	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// PrivateKey secp256k1私钥
//
// 构造即校验：零标量与不小于曲线阶的标量直接拒绝，绝不截断修正。
// 实例持有独立的密钥副本，用毕调用 Wipe 清除。
type PrivateKey struct {
	d []byte
}

var _ chain.PrivateKey = (*PrivateKey)(nil)

// GeneratePrivateKey 生成新的随机私钥
func GeneratePrivateKey() (*PrivateKey, error) {
	d, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{d: d}, nil
}

// NewPrivateKey 从32字节标量构造私钥
//
// 参数：
//   - b: 32字节大端私钥标量，必须在 [1, N-1] 区间内
//
// 返回：
//   - error: 长度或取值非法时返回 types.ErrInvalidKey
func NewPrivateKey(b []byte) (*PrivateKey, error) {
	if err := secp256k1.ValidatePrivateKey(b); err != nil {
		return nil, err
	}
	d := make([]byte, len(b))
	copy(d, b)
	return &PrivateKey{d: d}, nil
}

// PublicKey 派生对应的公钥
func (k *PrivateKey) PublicKey() (chain.PublicKey, error) {
	compressed, err := secp256k1.DerivePublicKey(k.d)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(compressed)
}

// Sign 对32字节摘要做确定性可恢复签名
//
// 参数：
//   - digest: 32字节签名摘要，调用方负责先行哈希
//
// 返回：
//   - types.Signature: r、s与恢复指示位，s恒为低S规范形式
//   - error: 摘要长度错误时返回 types.ErrInvalidDigestLength
func (k *PrivateKey) Sign(digest []byte) (types.Signature, error) {
	compact, err := secp256k1.SignRecoverable(k.d, digest)
	if err != nil {
		return types.Signature{}, err
	}
	return types.ParseCompactSignature(compact)
}

// Bytes 返回32字节私钥副本
func (k *PrivateKey) Bytes() []byte {
	out := make([]byte, len(k.d))
	copy(out, k.d)
	return out
}

// Wipe 安全擦除私钥内存，擦除后实例不可再用
func (k *PrivateKey) Wipe() {
	secp256k1.SecureWipe(k.d)
}

// PublicKey secp256k1公钥
//
// 构造时完成曲线校验并缓存两种序列化格式，
// 之后的序列化调用不再产生错误路径。
type PublicKey struct {
	compressed   [secp256k1.CompressedPubKeyLength]byte
	uncompressed [secp256k1.UncompressedPubKeyLength]byte
}

var _ chain.PublicKey = (*PublicKey)(nil)

// NewPublicKey 从序列化字节构造公钥
//
// 参数：
//   - b: 33字节压缩或65字节未压缩格式
//
// 返回：
//   - error: 格式非法或点不在曲线上时返回 types.ErrInvalidKey
func NewPublicKey(b []byte) (*PublicKey, error) {
	if err := secp256k1.ValidatePublicKey(b); err != nil {
		return nil, err
	}

	pub := &PublicKey{}
	if len(b) == secp256k1.CompressedPubKeyLength {
		uncompressed, err := secp256k1.DecompressPublicKey(b)
		if err != nil {
			return nil, err
		}
		copy(pub.compressed[:], b)
		copy(pub.uncompressed[:], uncompressed)
		return pub, nil
	}

	// 65字节输入经过一次往返归一化为标准04前缀形式
	compressed, err := secp256k1.CompressPublicKey(b)
	if err != nil {
		return nil, err
	}
	uncompressed, err := secp256k1.DecompressPublicKey(compressed)
	if err != nil {
		return nil, err
	}
	copy(pub.compressed[:], compressed)
	copy(pub.uncompressed[:], uncompressed)
	return pub, nil
}

// SerializeCompressed 返回33字节压缩格式副本（02/03前缀 + X坐标）
func (p *PublicKey) SerializeCompressed() []byte {
	out := make([]byte, secp256k1.CompressedPubKeyLength)
	copy(out, p.compressed[:])
	return out
}

// SerializeUncompressed 返回65字节未压缩格式副本（04前缀 + X + Y坐标）
func (p *PublicKey) SerializeUncompressed() []byte {
	out := make([]byte, secp256k1.UncompressedPubKeyLength)
	copy(out, p.uncompressed[:])
	return out
}
