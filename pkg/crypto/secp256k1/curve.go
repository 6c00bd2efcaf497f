// Package secp256k1 提供 secp256k1 椭圆曲线封装
//
// 🎯 **设计目的**：
// 封装 btcd/btcec 与 decred 的 secp256k1 实现，对外提供链工具包
// 统一的曲线操作：私钥校验、公钥派生、确定性可恢复签名、公钥恢复、
// 压缩/未压缩格式互转。通过封装层隔离第三方库依赖。
//
// 🔒 **安全原则**：
// - 使用经过验证的密码学库（btcd是Bitcoin Core的Go实现）
// - 标量校验先于一切使用：零值或超出曲线阶的私钥直接拒绝，绝不静默取模
// - 签名随机数按RFC6979从(私钥,摘要)确定性派生，相同输入必得相同签名
package secp256k1

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	btcec_ecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/weisyn/chainkit/pkg/types"
)

// 长度常量
const (
	// PrivateKeyLength 私钥长度（32字节标量）
	PrivateKeyLength = 32

	// CompressedPubKeyLength 压缩公钥长度（02/03前缀 + X坐标）
	CompressedPubKeyLength = 33

	// UncompressedPubKeyLength 未压缩公钥长度（04前缀 + X + Y坐标）
	UncompressedPubKeyLength = 65

	// DigestLength 签名摘要长度
	DigestLength = 32
)

// CurveOrder 返回secp256k1曲线群阶N的副本
func CurveOrder() *big.Int {
	return new(big.Int).Set(btcec.S256().N)
}

// ValidatePrivateKey 验证私钥有效性
//
// 检查私钥是否为合法的secp256k1标量：长度32字节、非零、小于曲线阶N。
// 非法标量直接拒绝，绝不静默取模修正。
//
// 参数：
//   - privateKey: 待验证的私钥字节
//
// 返回：
//   - error: 私钥无效时返回归类到 types.ErrInvalidKey 的错误
func ValidatePrivateKey(privateKey []byte) error {
	if len(privateKey) != PrivateKeyLength {
		return &ErrInvalidKeyLength{Expected: PrivateKeyLength, Got: len(privateKey)}
	}

	// 用decred的模N标量做精确校验：
	// SetByteSlice 返回是否发生模约减（即标量 >= N）
	var s secp.ModNScalar
	overflow := s.SetByteSlice(privateKey)
	defer s.Zero()
	if overflow {
		return fmt.Errorf("私钥超出secp256k1曲线阶: %w", types.ErrInvalidKey)
	}
	if s.IsZero() {
		return fmt.Errorf("私钥不能为零: %w", types.ErrInvalidKey)
	}

	return nil
}

// GeneratePrivateKey 生成新的随机私钥
//
// 使用密码学安全随机源生成，返回前已通过标量校验。
//
// 返回：
//   - []byte: 32字节私钥，调用方用毕应执行 SecureWipe
//   - error: 随机源失败时的错误
func GeneratePrivateKey() ([]byte, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("生成私钥失败: %w", err)
	}

	out := make([]byte, PrivateKeyLength)
	serialized := priv.Serialize()
	copy(out, serialized)

	// 清除中间副本
	SecureWipe(serialized)
	priv.Zero()

	return out, nil
}

// DerivePublicKey 从私钥导出压缩公钥
//
// 参数：
//   - privateKey: 32字节私钥
//
// 返回：
//   - []byte: 33字节压缩公钥
//   - error: 私钥无效时返回归类到 types.ErrInvalidKey 的错误
func DerivePublicKey(privateKey []byte) ([]byte, error) {
	// 校验必须先于 PrivKeyFromBytes：后者对超阶标量会静默取模
	if err := ValidatePrivateKey(privateKey); err != nil {
		return nil, err
	}

	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	defer priv.Zero()

	return priv.PubKey().SerializeCompressed(), nil
}

// DeriveUncompressedPublicKey 从私钥导出未压缩公钥
//
// 用于需要完整公钥坐标的场景（如参考链的地址派生）。
//
// 参数：
//   - privateKey: 32字节私钥
//
// 返回：
//   - []byte: 65字节未压缩公钥
//   - error: 私钥无效时返回归类到 types.ErrInvalidKey 的错误
func DeriveUncompressedPublicKey(privateKey []byte) ([]byte, error) {
	if err := ValidatePrivateKey(privateKey); err != nil {
		return nil, err
	}

	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	defer priv.Zero()

	return priv.PubKey().SerializeUncompressed(), nil
}

// ValidatePublicKey 验证公钥有效性
//
// 支持33字节压缩与65字节未压缩两种格式，验证点确实在曲线上。
func ValidatePublicKey(publicKey []byte) error {
	if len(publicKey) != CompressedPubKeyLength && len(publicKey) != UncompressedPubKeyLength {
		return &ErrInvalidKeyLength{Expected: CompressedPubKeyLength, Got: len(publicKey)}
	}
	if _, err := btcec.ParsePubKey(publicKey); err != nil {
		return fmt.Errorf("公钥不在secp256k1曲线上: %v: %w", err, types.ErrInvalidKey)
	}
	return nil
}

// CompressPublicKey 将未压缩公钥转换为压缩格式
//
// 参数：
//   - uncompressedKey: 65字节未压缩公钥
//
// 返回：
//   - []byte: 33字节压缩公钥
//   - error: 格式错误或点不在曲线上时的错误
func CompressPublicKey(uncompressedKey []byte) ([]byte, error) {
	if len(uncompressedKey) != UncompressedPubKeyLength {
		return nil, &ErrInvalidKeyLength{Expected: UncompressedPubKeyLength, Got: len(uncompressedKey)}
	}
	pub, err := btcec.ParsePubKey(uncompressedKey)
	if err != nil {
		return nil, fmt.Errorf("解析未压缩公钥失败: %v: %w", err, types.ErrInvalidKey)
	}
	return pub.SerializeCompressed(), nil
}

// DecompressPublicKey 将压缩公钥转换为未压缩格式
//
// 参数：
//   - compressedKey: 33字节压缩公钥
//
// 返回：
//   - []byte: 65字节未压缩公钥
//   - error: 格式错误或X坐标无对应曲线点时的错误
func DecompressPublicKey(compressedKey []byte) ([]byte, error) {
	if len(compressedKey) != CompressedPubKeyLength {
		return nil, &ErrInvalidKeyLength{Expected: CompressedPubKeyLength, Got: len(compressedKey)}
	}
	pub, err := btcec.ParsePubKey(compressedKey)
	if err != nil {
		return nil, fmt.Errorf("解析压缩公钥失败: %v: %w", err, types.ErrInvalidKey)
	}
	return pub.SerializeUncompressed(), nil
}

// SignRecoverable 生成确定性可恢复签名
//
// 随机数按RFC6979从(私钥,摘要)派生：相同输入必然产生相同签名，
// 既保证可测试性，也消除弱随机数导致的随机数重用风险。
// 产生的s分量恒为低S规范形式。
//
// 参数：
//   - privateKey: 32字节私钥
//   - digest: 32字节签名摘要（调用方负责先行哈希）
//
// 返回：
//   - []byte: 65字节签名 r(32)+s(32)+recoveryID(1)，恢复位为0或1
//   - error: 私钥或摘要非法时的错误
func SignRecoverable(privateKey, digest []byte) ([]byte, error) {
	if err := ValidatePrivateKey(privateKey); err != nil {
		return nil, err
	}
	if len(digest) != DigestLength {
		return nil, &ErrInvalidDigestLength{Expected: DigestLength, Got: len(digest)}
	}

	// 使用 btcec 直接生成 compact signature（包含 recovery id），
	// 避免自行猜测 recoveryID 导致不稳定/失败
	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	defer priv.Zero()

	compact := btcec_ecdsa.SignCompact(priv, digest, true) // header + r + s
	if len(compact) != 65 {
		return nil, fmt.Errorf("生成可恢复签名失败: compact签名长度异常=%d: %w", len(compact), types.ErrInvalidSignature)
	}

	// compact[0] = 27 + recID (+4 表示压缩)
	recID := (compact[0] - 27) & 0x03
	if recID > 1 {
		// r >= N 的极端曲线点才会出现2/3，按契约拒绝
		return nil, fmt.Errorf("恢复指示位超出范围: %d: %w", recID, types.ErrInvalidSignature)
	}

	// 转换为本仓库约定的 r(32)+s(32)+recID(1) 格式
	out := make([]byte, 65)
	copy(out[:64], compact[1:])
	out[64] = recID

	return out, nil
}

// RecoverPublicKey 从签名恢复公钥
//
// 参数：
//   - digest: 32字节签名摘要
//   - signature: 65字节签名 r(32)+s(32)+recoveryID(1)
//
// 返回：
//   - []byte: 65字节未压缩公钥
//   - error: 签名非法或无法恢复有效曲线点时的错误
func RecoverPublicKey(digest, signature []byte) ([]byte, error) {
	if len(signature) != 65 {
		return nil, &ErrInvalidSignatureLength{Expected: 65, Got: len(signature)}
	}
	if len(digest) != DigestLength {
		return nil, &ErrInvalidDigestLength{Expected: DigestLength, Got: len(digest)}
	}

	recID := signature[64]
	if recID > 1 {
		return nil, fmt.Errorf("恢复指示位非法: %d，期望0或1: %w", recID, types.ErrInvalidSignature)
	}

	// btcd/btcec 的 RecoverCompact 期望"紧凑签名"格式：
	//   sig[0] = header = 27 + recID (+4 表示压缩公钥)
	//   sig[1:33] = r, sig[33:65] = s
	compactSig := make([]byte, 65)
	compactSig[0] = 27 + recID + 4
	copy(compactSig[1:], signature[:64])

	pubKey, _, err := btcec_ecdsa.RecoverCompact(compactSig, digest)
	if err != nil {
		return nil, fmt.Errorf("公钥恢复失败: %v: %w", err, types.ErrInvalidSignature)
	}

	return pubKey.SerializeUncompressed(), nil
}

// VerifySignature 验证签名
//
// 参数：
//   - publicKey: 公钥（33字节压缩或65字节未压缩）
//   - digest: 32字节签名摘要
//   - signature: 签名（64字节 r+s 或 65字节 r+s+recoveryID）
//
// 返回：
//   - bool: 签名是否有效
func VerifySignature(publicKey, digest, signature []byte) bool {
	if len(digest) != DigestLength {
		return false
	}

	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return false
	}

	// 64字节为 r+s，65字节取前64字节
	sigBytes := signature
	if len(signature) == 65 {
		sigBytes = signature[:64]
	} else if len(signature) != 64 {
		return false
	}

	var r, s secp.ModNScalar
	if overflow := r.SetByteSlice(sigBytes[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(sigBytes[32:]); overflow || s.IsZero() {
		return false
	}

	return btcec_ecdsa.NewSignature(&r, &s).Verify(digest, pub)
}

// SignDER 生成DER编码的确定性签名
//
// 供脚本系签名场景使用：不含恢复指示位，s分量恒为低S规范形式，
// 随机数派生规则与 SignRecoverable 一致。
//
// 参数：
//   - privateKey: 32字节私钥
//   - digest: 32字节签名摘要
//
// 返回：
//   - []byte: DER编码签名
//   - error: 私钥或摘要非法时的错误
func SignDER(privateKey, digest []byte) ([]byte, error) {
	if err := ValidatePrivateKey(privateKey); err != nil {
		return nil, err
	}
	if len(digest) != DigestLength {
		return nil, &ErrInvalidDigestLength{Expected: DigestLength, Got: len(digest)}
	}

	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	defer priv.Zero()

	return btcec_ecdsa.Sign(priv, digest).Serialize(), nil
}

// VerifyDERSignature 验证DER编码签名
//
// 参数：
//   - publicKey: 公钥（33字节压缩或65字节未压缩）
//   - digest: 32字节签名摘要
//   - signature: DER编码签名
//
// 返回：
//   - bool: 签名是否有效
func VerifyDERSignature(publicKey, digest, signature []byte) bool {
	if len(digest) != DigestLength {
		return false
	}
	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := btcec_ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pub)
}

// CompactToDER 将紧凑签名重编码为DER格式
//
// 参数：
//   - signature: 64字节 r+s 或 65字节 r+s+recoveryID（指示位忽略）
//
// 返回：
//   - []byte: DER编码签名，s分量恒按低S规范输出
//   - error: 分量越界时返回归类到 types.ErrInvalidSignature 的错误
func CompactToDER(signature []byte) ([]byte, error) {
	if len(signature) != 64 && len(signature) != 65 {
		return nil, &ErrInvalidSignatureLength{Expected: 64, Got: len(signature)}
	}

	var r, s secp.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow || r.IsZero() {
		return nil, fmt.Errorf("签名r值非法: %w", types.ErrInvalidSignature)
	}
	if overflow := s.SetByteSlice(signature[32:64]); overflow || s.IsZero() {
		return nil, fmt.Errorf("签名s值非法: %w", types.ErrInvalidSignature)
	}

	return btcec_ecdsa.NewSignature(&r, &s).Serialize(), nil
}

// ValidateSignatureComponents 校验签名分量取值范围
//
// r、s 必须满足 1 <= r,s < N。requireLowS 为真时额外要求
// s <= N/2（低S规范，拒绝可延展的镜像签名）。
//
// 返回：
//   - error: 分量越界时返回归类到 types.ErrInvalidSignature 的错误
func ValidateSignatureComponents(r, s *big.Int, requireLowS bool) error {
	if r == nil || s == nil {
		return fmt.Errorf("签名分量缺失: %w", types.ErrInvalidSignature)
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return fmt.Errorf("签名分量必须为正: %w", types.ErrInvalidSignature)
	}
	if r.BitLen() > 256 || s.BitLen() > 256 {
		return fmt.Errorf("签名分量超出256位: %w", types.ErrInvalidSignature)
	}

	var rs, ss secp.ModNScalar
	rBytes := make([]byte, 32)
	sBytes := make([]byte, 32)
	r.FillBytes(rBytes)
	s.FillBytes(sBytes)
	if overflow := rs.SetByteSlice(rBytes); overflow {
		return fmt.Errorf("签名r值超出曲线阶: %w", types.ErrInvalidSignature)
	}
	if overflow := ss.SetByteSlice(sBytes); overflow {
		return fmt.Errorf("签名s值超出曲线阶: %w", types.ErrInvalidSignature)
	}
	if requireLowS && ss.IsOverHalfOrder() {
		return fmt.Errorf("签名s值过高，违反低S规范: %w", types.ErrInvalidSignature)
	}

	return nil
}

// SecureWipe 安全擦除敏感数据
//
// 使用多阶段覆盖策略确保数据无法恢复：
// 1. 随机数据覆盖
// 2. 全1覆盖
// 3. 全0覆盖
//
// 参数:
//   - data: 要擦除的数据字节切片
func SecureWipe(data []byte) {
	if len(data) == 0 {
		return
	}

	// 第一阶段：随机数据覆盖
	randomData := make([]byte, len(data))
	rand.Read(randomData)
	copy(data, randomData)

	// 第二阶段：全1覆盖
	for i := range data {
		data[i] = 0xFF
	}

	// 第三阶段：全0覆盖（最终状态）
	for i := range data {
		data[i] = 0x00
	}

	// 清除临时随机数据
	for i := range randomData {
		randomData[i] = 0
	}
}

// ================================================================================
// 🔧 错误类型定义
// ================================================================================

// ErrInvalidKeyLength 密钥长度无效
type ErrInvalidKeyLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidKeyLength) Error() string {
	return fmt.Sprintf("无效的密钥长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

func (e *ErrInvalidKeyLength) Unwrap() error {
	return types.ErrInvalidKey
}

// ErrInvalidSignatureLength 签名长度无效
type ErrInvalidSignatureLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidSignatureLength) Error() string {
	return fmt.Sprintf("无效的签名长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

func (e *ErrInvalidSignatureLength) Unwrap() error {
	return types.ErrInvalidSignature
}

// ErrInvalidDigestLength 摘要长度无效
type ErrInvalidDigestLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidDigestLength) Error() string {
	return fmt.Sprintf("无效的摘要长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

func (e *ErrInvalidDigestLength) Unwrap() error {
	return types.ErrInvalidDigestLength
}
