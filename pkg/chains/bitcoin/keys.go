package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/weisyn/chainkit/pkg/crypto/secp256k1"
	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// wifCompressedFlag WIF载荷中压缩公钥的标记字节
const wifCompressedFlag = 0x01

// PrivateKey secp256k1私钥
//
// 标量规则与参考链一致：零与越界拒绝，绝不截断修正。
// 额外携带公钥压缩偏好：该偏好决定WIF导出形式与P2PKH地址派生
// 使用的公钥序列化格式。
type PrivateKey struct {
	d          []byte
	compressed bool
}

var _ chain.PrivateKey = (*PrivateKey)(nil)

// GeneratePrivateKey 生成新的随机私钥（压缩公钥偏好）
func GeneratePrivateKey() (*PrivateKey, error) {
	d, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{d: d, compressed: true}, nil
}

// NewPrivateKey 从32字节标量构造私钥
//
// 参数：
//   - b: 32字节大端私钥标量
//   - compressed: 公钥压缩偏好
//
// 返回：
//   - error: 长度或取值非法时返回 types.ErrInvalidKey
func NewPrivateKey(b []byte, compressed bool) (*PrivateKey, error) {
	if err := secp256k1.ValidatePrivateKey(b); err != nil {
		return nil, err
	}
	d := make([]byte, len(b))
	copy(d, b)
	return &PrivateKey{d: d, compressed: compressed}, nil
}

// FromWIF 解析WIF编码的私钥
//
// 版本字节决定网络，载荷尾部的0x01标记决定压缩偏好。
//
// 返回：
//   - *PrivateKey: 解析出的私钥
//   - Network: 版本字节对应的网络
//   - error: 校验和错误返回 types.ErrChecksumMismatch，
//     其余结构问题返回 types.ErrInvalidKey
func FromWIF(s string) (*PrivateKey, Network, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		if err == base58.ErrChecksum {
			return nil, Network{}, fmt.Errorf("WIF校验和错误: %w", types.ErrChecksumMismatch)
		}
		return nil, Network{}, fmt.Errorf("WIF结构非法: %v: %w", err, types.ErrInvalidKey)
	}

	network, ok := networkForWIFVersion(version)
	if !ok {
		return nil, Network{}, fmt.Errorf("WIF版本字节未注册: %#02x: %w", version, types.ErrInvalidKey)
	}

	var scalar []byte
	var compressed bool
	switch {
	case len(payload) == secp256k1.PrivateKeyLength:
		scalar, compressed = payload, false
	case len(payload) == secp256k1.PrivateKeyLength+1 && payload[secp256k1.PrivateKeyLength] == wifCompressedFlag:
		scalar, compressed = payload[:secp256k1.PrivateKeyLength], true
	default:
		return nil, Network{}, fmt.Errorf("WIF载荷长度非法: %d: %w", len(payload), types.ErrInvalidKey)
	}

	key, err := NewPrivateKey(scalar, compressed)
	if err != nil {
		return nil, Network{}, err
	}
	secp256k1.SecureWipe(scalar)
	return key, network, nil
}

// ToWIF 导出WIF编码
//
// 压缩偏好的私钥在载荷尾部附加0x01标记。
func (k *PrivateKey) ToWIF(network Network) string {
	payload := make([]byte, 0, secp256k1.PrivateKeyLength+1)
	payload = append(payload, k.d...)
	if k.compressed {
		payload = append(payload, wifCompressedFlag)
	}
	encoded := base58.CheckEncode(payload, network.wifVersion)
	secp256k1.SecureWipe(payload)
	return encoded
}

// Compressed 返回公钥压缩偏好
func (k *PrivateKey) Compressed() bool {
	return k.compressed
}

// PublicKey 派生对应的公钥，压缩偏好随私钥
func (k *PrivateKey) PublicKey() (chain.PublicKey, error) {
	return k.derivePublicKey()
}

func (k *PrivateKey) derivePublicKey() (*PublicKey, error) {
	compressed, err := secp256k1.DerivePublicKey(k.d)
	if err != nil {
		return nil, err
	}
	uncompressed, err := secp256k1.DecompressPublicKey(compressed)
	if err != nil {
		return nil, err
	}
	pub := &PublicKey{preferCompressed: k.compressed}
	copy(pub.compressed[:], compressed)
	copy(pub.uncompressed[:], uncompressed)
	return pub, nil
}

// Sign 对32字节摘要做确定性可恢复签名
func (k *PrivateKey) Sign(digest []byte) (types.Signature, error) {
	compact, err := secp256k1.SignRecoverable(k.d, digest)
	if err != nil {
		return types.Signature{}, err
	}
	return types.ParseCompactSignature(compact)
}

// SignDER 对32字节摘要生成DER编码签名（脚本签名用）
func (k *PrivateKey) SignDER(digest []byte) ([]byte, error) {
	return secp256k1.SignDER(k.d, digest)
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
// 两种序列化格式在构造时缓存。压缩偏好决定 Serialize 的默认
// 输出，见证系地址始终使用压缩格式。
type PublicKey struct {
	compressed       [secp256k1.CompressedPubKeyLength]byte
	uncompressed     [secp256k1.UncompressedPubKeyLength]byte
	preferCompressed bool
}

var _ chain.PublicKey = (*PublicKey)(nil)

// NewPublicKey 从序列化字节构造公钥，压缩偏好取自输入格式
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
		pub.preferCompressed = true
		copy(pub.compressed[:], b)
		copy(pub.uncompressed[:], uncompressed)
		return pub, nil
	}

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

// SerializeCompressed 返回33字节压缩格式副本
func (p *PublicKey) SerializeCompressed() []byte {
	out := make([]byte, secp256k1.CompressedPubKeyLength)
	copy(out, p.compressed[:])
	return out
}

// SerializeUncompressed 返回65字节未压缩格式副本
func (p *PublicKey) SerializeUncompressed() []byte {
	out := make([]byte, secp256k1.UncompressedPubKeyLength)
	copy(out, p.uncompressed[:])
	return out
}

// Serialize 按压缩偏好返回序列化副本
func (p *PublicKey) Serialize() []byte {
	if p.preferCompressed {
		return p.SerializeCompressed()
	}
	return p.SerializeUncompressed()
}
