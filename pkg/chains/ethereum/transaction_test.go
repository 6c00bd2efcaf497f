package ethereum

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/weisyn/chainkit/pkg/chains/ethereum/rlp"
	"github.com/weisyn/chainkit/pkg/crypto/hash"
	"github.com/weisyn/chainkit/pkg/crypto/secp256k1"
	"github.com/weisyn/chainkit/pkg/types"
)

// EIP-155规范向量：nonce=9, gasPrice=20e9, gas=21000, value=1e18, chainID=1
const (
	eip155KeyHex      = "4646464646464646464646464646464646464646464646464646464646464646"
	eip155ToHex       = "0x3535353535353535353535353535353535353535"
	eip155UnsignedHex = "ec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080"
	eip155DigestHex   = "daf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"
	eip155SignedHex   = "f86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025" +
		"a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276" +
		"a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83"

	goldenAddrHex = "7e5f4552091a69125d5dfcb7b8c2659029395bdf"
)

func eip155Key(t *testing.T) *PrivateKey {
	t.Helper()
	key, err := NewPrivateKey(mustHexBytes(t, eip155KeyHex))
	if err != nil {
		t.Fatalf("构造EIP-155向量私钥失败: %v", err)
	}
	return key
}

func eip155Tx(t *testing.T) *Transaction {
	t.Helper()
	to, err := ParseAddress(eip155ToHex, Mainnet)
	if err != nil {
		t.Fatalf("解析目标地址失败: %v", err)
	}
	tx, err := NewTransaction(&LegacyTx{
		ChainID:  1,
		Nonce:    9,
		GasPrice: types.NewAmount(20_000_000_000),
		Gas:      21000,
		To:       &to,
		Value:    types.NewAmount(1_000_000_000_000_000_000),
	})
	if err != nil {
		t.Fatalf("构造交易失败: %v", err)
	}
	return tx
}

// derivedAddress 私钥对应的发送方地址
func derivedAddress(t *testing.T, key *PrivateKey, network Network) Address {
	t.Helper()
	pub, err := key.PublicKey()
	if err != nil {
		t.Fatalf("派生公钥失败: %v", err)
	}
	addr, err := AddressFromPublicKey(pub, network)
	if err != nil {
		t.Fatalf("派生地址失败: %v", err)
	}
	return addr
}

// TestLegacyCanonicalVector EIP-155规范向量的逐字节端到端验证
func TestLegacyCanonicalVector(t *testing.T) {
	tx := eip155Tx(t)
	key := eip155Key(t)

	unsigned, err := tx.EncodeUnsigned()
	if err != nil {
		t.Fatalf("未签名编码失败: %v", err)
	}
	if got := hex.EncodeToString(unsigned); got != eip155UnsignedHex {
		t.Fatalf("未签名编码不匹配:\n期望 %s\n实际 %s", eip155UnsignedHex, got)
	}

	digest, err := tx.SigningDigest()
	if err != nil {
		t.Fatalf("计算摘要失败: %v", err)
	}
	if digest.Hex() != "0x"+eip155DigestHex {
		t.Fatalf("签名摘要不匹配: %s", digest.Hex())
	}

	signed, err := tx.Sign(key)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	sig, ok := signed.Signature()
	if !ok {
		t.Fatal("已签名交易应携带签名")
	}
	if sig.RecoveryID != 0 {
		t.Fatalf("恢复指示位应为0, 实际 %d", sig.RecoveryID)
	}

	wire, err := signed.EncodeSigned(sig)
	if err != nil {
		t.Fatalf("已签名编码失败: %v", err)
	}
	if got := hex.EncodeToString(wire); got != eip155SignedHex {
		t.Fatalf("已签名编码不匹配:\n期望 %s\n实际 %s", eip155SignedHex, got)
	}

	id, err := signed.TransactionID()
	if err != nil {
		t.Fatalf("计算交易ID失败: %v", err)
	}
	if id != hash.Keccak256Hash(wire) {
		t.Fatalf("交易ID应为已签名编码的Keccak-256: %s", id)
	}
	if id.Hex() != "0x33469b22e9f636356c4160a87eb19df52b7412e8eac32a4a55ffe88ea8350788" {
		t.Fatalf("交易ID不匹配: %s", id.Hex())
	}

	sender, err := signed.RecoverSender()
	if err != nil {
		t.Fatalf("恢复发送方失败: %v", err)
	}
	if sender != derivedAddress(t, key, Mainnet) {
		t.Fatalf("恢复出的发送方与私钥派生地址不一致: %s", sender)
	}
	if sender.String() != "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F" {
		t.Fatalf("发送方校验和格式不匹配: %s", sender)
	}
	t.Logf("✅ 规范向量端到端通过, 发送方 %s", sender)
}

// TestDecodeLegacyCanonicalVector 解码规范向量并无损重编码
func TestDecodeLegacyCanonicalVector(t *testing.T) {
	wire := mustHexBytes(t, eip155SignedHex)

	tx, err := DecodeTransaction(wire)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if tx.Type() != LegacyTxType {
		t.Fatalf("封套类型错误: %d", tx.Type())
	}
	if tx.ChainID() != 1 {
		t.Fatalf("链ID错误: %d", tx.ChainID())
	}

	payload, ok := tx.Payload().(*LegacyTx)
	if !ok {
		t.Fatalf("载荷类型错误: %T", tx.Payload())
	}
	if payload.Nonce != 9 || payload.Gas != 21000 {
		t.Fatalf("字段错误: nonce=%d gas=%d", payload.Nonce, payload.Gas)
	}
	if payload.GasPrice.String() != "20000000000" {
		t.Fatalf("gasPrice错误: %s", payload.GasPrice)
	}
	if payload.Value.String() != "1000000000000000000" {
		t.Fatalf("value错误: %s", payload.Value)
	}
	if payload.To == nil || !bytes.Equal(payload.To.Bytes(), mustHexBytes(t, "3535353535353535353535353535353535353535")) {
		t.Fatal("to字段错误")
	}
	if len(payload.Data) != 0 {
		t.Fatalf("data应为空: %x", payload.Data)
	}

	sig, ok := tx.Signature()
	if !ok || sig.RecoveryID != 0 {
		t.Fatal("签名未正确还原")
	}
	reencoded, err := tx.EncodeSigned(sig)
	if err != nil {
		t.Fatalf("重编码失败: %v", err)
	}
	if !bytes.Equal(reencoded, wire) {
		t.Fatal("重编码与原始线格式不一致")
	}

	sender, err := tx.RecoverSender()
	if err != nil {
		t.Fatalf("恢复发送方失败: %v", err)
	}
	if sender != derivedAddress(t, eip155Key(t), Mainnet) {
		t.Fatalf("发送方不一致: %s", sender)
	}
}

// TestLegacyNonceZeroVector 非对齐字段的未签名布局
func TestLegacyNonceZeroVector(t *testing.T) {
	to, err := ParseAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", Mainnet)
	if err != nil {
		t.Fatalf("解析地址失败: %v", err)
	}
	tx, err := NewTransaction(&LegacyTx{
		ChainID:  1,
		Nonce:    0,
		GasPrice: types.NewAmount(1),
		Gas:      21000,
		To:       &to,
		Value:    types.NewAmount(0),
	})
	if err != nil {
		t.Fatalf("构造交易失败: %v", err)
	}

	unsigned, err := tx.EncodeUnsigned()
	if err != nil {
		t.Fatalf("未签名编码失败: %v", err)
	}
	want := "df800182520894" + goldenAddrHex + "8080018080"
	if got := hex.EncodeToString(unsigned); got != want {
		t.Fatalf("未签名编码不匹配:\n期望 %s\n实际 %s", want, got)
	}

	digest, err := tx.SigningDigest()
	if err != nil {
		t.Fatalf("计算摘要失败: %v", err)
	}
	if digest.Hex() != "0x29c25c3dd87e474688ba883916e52d1588882d8bea6c3ec0cc80587421e90a15" {
		t.Fatalf("签名摘要不匹配: %s", digest.Hex())
	}

	// 该向量的r分量高位字节为零, 覆盖签名分量的最小化整数编码
	key := scalarKey(t, 1)
	signed, err := tx.Sign(key)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	sig, _ := signed.Signature()
	wire, err := signed.EncodeSigned(sig)
	if err != nil {
		t.Fatalf("已签名编码失败: %v", err)
	}
	wantWire := "f85e8001825208947e5f4552091a69125d5dfcb7b8c2659029395bdf808025" +
		"9f4614ee6e1f3f70a8efbb928dfc3a67014c85ab3e99c404c692edac2cec13b4" +
		"a03d9fd744ccbe1ec28fac487edbed2554761ef9e9c2293859918d93dfcbba3524"
	if got := hex.EncodeToString(wire); got != wantWire {
		t.Fatalf("已签名编码不匹配:\n期望 %s\n实际 %s", wantWire, got)
	}

	decoded, err := DecodeTransaction(wire)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	sender, err := decoded.RecoverSender()
	if err != nil {
		t.Fatalf("恢复发送方失败: %v", err)
	}
	if sender != derivedAddress(t, key, Mainnet) {
		t.Fatalf("发送方不一致: %s", sender)
	}
	reencoded, err := decoded.EncodeSigned(sig)
	if err != nil {
		t.Fatalf("重编码失败: %v", err)
	}
	if !bytes.Equal(reencoded, wire) {
		t.Fatal("短r分量经解码重编码后不一致")
	}
}

// TestDynamicFeeVector 动态费率封套的类型前缀与字段布局
func TestDynamicFeeVector(t *testing.T) {
	to, err := ParseAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", Mainnet)
	if err != nil {
		t.Fatalf("解析地址失败: %v", err)
	}
	tx, err := NewTransaction(&DynamicFeeTx{
		ChainID:   1,
		Nonce:     0,
		GasTipCap: types.NewAmount(2),
		GasFeeCap: types.NewAmount(3),
		Gas:       21000,
		To:        &to,
		Value:     types.NewAmount(1),
	})
	if err != nil {
		t.Fatalf("构造交易失败: %v", err)
	}

	unsigned, err := tx.EncodeUnsigned()
	if err != nil {
		t.Fatalf("未签名编码失败: %v", err)
	}
	want := "02df0180020382520894" + goldenAddrHex + "0180c0"
	if got := hex.EncodeToString(unsigned); got != want {
		t.Fatalf("未签名编码不匹配:\n期望 %s\n实际 %s", want, got)
	}

	// 类型字节参与摘要
	digest, err := tx.SigningDigest()
	if err != nil {
		t.Fatalf("计算摘要失败: %v", err)
	}
	if digest != hash.Keccak256Hash(unsigned) {
		t.Fatal("摘要应为含类型前缀的未签名编码哈希")
	}
	if digest.Hex() != "0x46111cc4c6499f6618286f78e2385a56843b006275c81fa455365a4843dc819e" {
		t.Fatalf("签名摘要不匹配: %s", digest.Hex())
	}

	key := scalarKey(t, 2)
	signed, err := tx.Sign(key)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	sig, _ := signed.Signature()
	if sig.RecoveryID != 1 {
		t.Fatalf("恢复指示位应为1, 实际 %d", sig.RecoveryID)
	}
	wire, err := signed.EncodeSigned(sig)
	if err != nil {
		t.Fatalf("已签名编码失败: %v", err)
	}
	if wire[0] != byte(DynamicFeeTxType) {
		t.Fatalf("已签名编码缺少类型前缀: %#02x", wire[0])
	}
	wantWire := "02f86201800203825208947e5f4552091a69125d5dfcb7b8c2659029395bdf0180c001" +
		"a02e763aa37ef5e448da026f2e2244da12d318ae6faa71687bbfedd935d754264d" +
		"a0167addb63032a2690f1a6bcf2ca2a33e0bd77924e4e94da0fe580263bf130d6e"
	if got := hex.EncodeToString(wire); got != wantWire {
		t.Fatalf("已签名编码不匹配:\n期望 %s\n实际 %s", wantWire, got)
	}

	decoded, err := DecodeTransaction(wire)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if decoded.Type() != DynamicFeeTxType {
		t.Fatalf("封套类型错误: %d", decoded.Type())
	}
	payload, ok := decoded.Payload().(*DynamicFeeTx)
	if !ok {
		t.Fatalf("载荷类型错误: %T", decoded.Payload())
	}
	if payload.GasTipCap.String() != "2" || payload.GasFeeCap.String() != "3" {
		t.Fatalf("费率字段错误: tip=%s cap=%s", payload.GasTipCap, payload.GasFeeCap)
	}

	reencoded, err := decoded.EncodeSigned(sig)
	if err != nil {
		t.Fatalf("重编码失败: %v", err)
	}
	if !bytes.Equal(reencoded, wire) {
		t.Fatal("重编码与原始线格式不一致")
	}

	sender, err := decoded.RecoverSender()
	if err != nil {
		t.Fatalf("恢复发送方失败: %v", err)
	}
	if sender != derivedAddress(t, key, Mainnet) {
		t.Fatalf("发送方不一致: %s", sender)
	}
}

// TestAccessListVector 访问列表的嵌套布局
func TestAccessListVector(t *testing.T) {
	to, err := ParseAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", Mainnet)
	if err != nil {
		t.Fatalf("解析地址失败: %v", err)
	}
	slotBytes := make([]byte, 32)
	slotBytes[31] = 0x01
	slot, err := types.NewHash(slotBytes)
	if err != nil {
		t.Fatalf("构造存储槽失败: %v", err)
	}

	tx, err := NewTransaction(&AccessListTx{
		ChainID:  1,
		Nonce:    0,
		GasPrice: types.NewAmount(1),
		Gas:      21000,
		To:       &to,
		Value:    types.NewAmount(0),
		AccessList: []AccessTuple{
			{Address: to, StorageKeys: []types.Hash{slot}},
		},
	})
	if err != nil {
		t.Fatalf("构造交易失败: %v", err)
	}

	unsigned, err := tx.EncodeUnsigned()
	if err != nil {
		t.Fatalf("未签名编码失败: %v", err)
	}
	slotHex := "0000000000000000000000000000000000000000000000000000000000000001"
	want := "01f857" + "018001825208" + "94" + goldenAddrHex + "8080" +
		"f838" + "f794" + goldenAddrHex + "e1a0" + slotHex
	if got := hex.EncodeToString(unsigned); got != want {
		t.Fatalf("未签名编码不匹配:\n期望 %s\n实际 %s", want, got)
	}

	digest, err := tx.SigningDigest()
	if err != nil {
		t.Fatalf("计算摘要失败: %v", err)
	}
	if digest.Hex() != "0x60e3fd67d04c6cd2524ff56767ba8949a4cdd70ead71af98f2ae93766d66ac0c" {
		t.Fatalf("签名摘要不匹配: %s", digest.Hex())
	}

	key := scalarKey(t, 3)
	signed, err := tx.Sign(key)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	sig, _ := signed.Signature()
	wire, err := signed.EncodeSigned(sig)
	if err != nil {
		t.Fatalf("已签名编码失败: %v", err)
	}
	wantWire := "01f89a018001825208947e5f4552091a69125d5dfcb7b8c2659029395bdf8080" +
		"f838f7947e5f4552091a69125d5dfcb7b8c2659029395bdf" +
		"e1a00000000000000000000000000000000000000000000000000000000000000001" +
		"01" +
		"a03fc228a47166fa6cb73a87ff5080dcae655dbf8142801483ef96aaf0ea0ecc49" +
		"a067bc8aa35b75760d985eb2ee2d3b5bd770d3c76ae672a64ba8b6affc2b22de3c"
	if got := hex.EncodeToString(wire); got != wantWire {
		t.Fatalf("已签名编码不匹配:\n期望 %s\n实际 %s", wantWire, got)
	}

	decoded, err := DecodeTransaction(wire)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	payload, ok := decoded.Payload().(*AccessListTx)
	if !ok {
		t.Fatalf("载荷类型错误: %T", decoded.Payload())
	}
	if len(payload.AccessList) != 1 {
		t.Fatalf("访问列表条目数错误: %d", len(payload.AccessList))
	}
	entry := payload.AccessList[0]
	if !bytes.Equal(entry.Address.Bytes(), to.Bytes()) {
		t.Fatal("访问列表地址不一致")
	}
	if len(entry.StorageKeys) != 1 || entry.StorageKeys[0] != slot {
		t.Fatal("存储槽不一致")
	}
	t.Log("✅ 访问列表往返一致")
}

// TestDecodeRejects 结构与签名错误的失败即关闭分类
func TestDecodeRejects(t *testing.T) {
	addr20 := bytes.Repeat([]byte{0x35}, 20)
	one := big.NewInt(1)
	legacyWire := func(v uint64, r, s *big.Int) []byte {
		return rlp.EncodeList(
			rlp.Uint64(0),
			rlp.Uint64(1),
			rlp.Uint64(21000),
			rlp.String(addr20),
			rlp.Uint64(0),
			rlp.String(nil),
			rlp.Uint64(v),
			rlp.String(r.Bytes()),
			rlp.String(s.Bytes()),
		)
	}
	order := secp256k1.CurveOrder()
	highS := new(big.Int).Sub(order, one)

	tests := []struct {
		name string
		wire []byte
		want error
	}{
		{"空输入", nil, types.ErrMalformedTransaction},
		{"历史v=27被拒绝", legacyWire(27, one, one), types.ErrMalformedTransaction},
		{"历史v=28被拒绝", legacyWire(28, one, one), types.ErrMalformedTransaction},
		{"v=34非法", legacyWire(34, one, one), types.ErrMalformedTransaction},
		{"链ID为零被拒绝", legacyWire(35, one, one), types.ErrMalformedTransaction},
		{"未知类型字节", []byte{0x03, 0xc0}, types.ErrMalformedTransaction},
		{"顶层编码是字符串", []byte{0x81, 0xff}, types.ErrMalformedTransaction},
		{"字段数量不足", rlp.EncodeList(rlp.Uint64(1), rlp.Uint64(2)), types.ErrMalformedTransaction},
		{"尾部多余字节", append(legacyWire(37, one, one), 0x00), types.ErrMalformedTransaction},
		{"类型化字段数量不足", append([]byte{0x01}, rlp.EncodeList(rlp.Uint64(1))...), types.ErrMalformedTransaction},
		{"s分量为高S形式", legacyWire(37, one, highS), types.ErrInvalidSignature},
		{"r分量为零", legacyWire(37, big.NewInt(0), one), types.ErrInvalidSignature},
		{"s分量等于曲线阶", legacyWire(37, one, order), types.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTransaction(tt.wire)
			if err == nil {
				t.Fatal("期望解码失败, 实际成功")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("错误类别不匹配: 期望 %v, 实际 %v", tt.want, err)
			}
			t.Logf("✅ %s: %v", tt.name, err)
		})
	}
}

// TestDecodeRejectsBadYParity 类型化封套的恢复指示位越界
func TestDecodeRejectsBadYParity(t *testing.T) {
	addr20 := bytes.Repeat([]byte{0x35}, 20)
	wire := append([]byte{0x01}, rlp.EncodeList(
		rlp.Uint64(1),
		rlp.Uint64(0),
		rlp.Uint64(1),
		rlp.Uint64(21000),
		rlp.String(addr20),
		rlp.Uint64(0),
		rlp.String(nil),
		rlp.List(),
		rlp.Uint64(2),
		rlp.String(big.NewInt(1).Bytes()),
		rlp.String(big.NewInt(1).Bytes()),
	)...)

	_, err := DecodeTransaction(wire)
	if !errors.Is(err, types.ErrMalformedTransaction) {
		t.Fatalf("期望 ErrMalformedTransaction, 实际 %v", err)
	}
}

// TestNewTransactionValidation 构造期的字段组合校验
func TestNewTransactionValidation(t *testing.T) {
	t.Run("空载荷", func(t *testing.T) {
		if _, err := NewTransaction(nil); !errors.Is(err, types.ErrMalformedTransaction) {
			t.Fatalf("期望 ErrMalformedTransaction, 实际 %v", err)
		}
	})

	t.Run("传统封套链ID为零", func(t *testing.T) {
		if _, err := NewTransaction(&LegacyTx{}); !errors.Is(err, types.ErrMalformedTransaction) {
			t.Fatalf("期望 ErrMalformedTransaction, 实际 %v", err)
		}
	})

	t.Run("类型化封套链ID为零", func(t *testing.T) {
		if _, err := NewTransaction(&DynamicFeeTx{}); !errors.Is(err, types.ErrMalformedTransaction) {
			t.Fatalf("期望 ErrMalformedTransaction, 实际 %v", err)
		}
	})

	t.Run("链ID超出v字段容量", func(t *testing.T) {
		_, err := NewTransaction(&LegacyTx{ChainID: maxLegacyChainID + 1})
		if !errors.Is(err, types.ErrMalformedTransaction) {
			t.Fatalf("期望 ErrMalformedTransaction, 实际 %v", err)
		}
	})

	t.Run("费率上限低于小费上限", func(t *testing.T) {
		_, err := NewTransaction(&DynamicFeeTx{
			ChainID:   1,
			GasTipCap: types.NewAmount(3),
			GasFeeCap: types.NewAmount(2),
		})
		if !errors.Is(err, types.ErrMalformedTransaction) {
			t.Fatalf("期望 ErrMalformedTransaction, 实际 %v", err)
		}
	})
}

// TestEncodeSignedRejectsBadSignature 分量越界与可延展形式被拒绝
func TestEncodeSignedRejectsBadSignature(t *testing.T) {
	tx := eip155Tx(t)
	order := secp256k1.CurveOrder()

	highS, err := types.NewSignature(big.NewInt(1), new(big.Int).Sub(order, big.NewInt(1)), 0)
	if err != nil {
		t.Fatalf("构造测试签名失败: %v", err)
	}

	if _, err := tx.EncodeSigned(highS); !errors.Is(err, types.ErrInvalidSignature) {
		t.Fatalf("高S签名期望 ErrInvalidSignature, 实际 %v", err)
	}
	if _, err := tx.WithSignature(highS); !errors.Is(err, types.ErrInvalidSignature) {
		t.Fatalf("高S签名期望 ErrInvalidSignature, 实际 %v", err)
	}
}

// TestUnsignedTransactionState 未签名状态的操作边界
func TestUnsignedTransactionState(t *testing.T) {
	tx := eip155Tx(t)

	if _, ok := tx.Signature(); ok {
		t.Fatal("未签名交易不应携带签名")
	}
	if _, err := tx.TransactionID(); !errors.Is(err, types.ErrMalformedTransaction) {
		t.Fatalf("未签名交易ID期望 ErrMalformedTransaction, 实际 %v", err)
	}
	if _, err := tx.RecoverSender(); !errors.Is(err, types.ErrMalformedTransaction) {
		t.Fatalf("未签名恢复期望 ErrMalformedTransaction, 实际 %v", err)
	}
}

// TestTransactionImmutability 构造与读取都不共享可变状态
func TestTransactionImmutability(t *testing.T) {
	to, err := ParseAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", Mainnet)
	if err != nil {
		t.Fatalf("解析地址失败: %v", err)
	}
	payload := &LegacyTx{
		ChainID:  1,
		Nonce:    1,
		GasPrice: types.NewAmount(1),
		Gas:      21000,
		To:       &to,
		Value:    types.NewAmount(0),
		Data:     []byte{0x01, 0x02, 0x03},
	}
	tx, err := NewTransaction(payload)
	if err != nil {
		t.Fatalf("构造交易失败: %v", err)
	}

	before, err := tx.EncodeUnsigned()
	if err != nil {
		t.Fatalf("未签名编码失败: %v", err)
	}

	// 修改原载荷不影响交易
	payload.Data[0] = 0xff
	payload.Nonce = 99

	// 修改读取出的载荷副本同样不影响交易
	leaked := tx.Payload().(*LegacyTx)
	leaked.Data[1] = 0xee

	after, err := tx.EncodeUnsigned()
	if err != nil {
		t.Fatalf("未签名编码失败: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("交易编码随外部修改而变化")
	}
}

// TestSignLeavesOriginalUnsigned 签名产生新实例
func TestSignLeavesOriginalUnsigned(t *testing.T) {
	tx := eip155Tx(t)
	key := eip155Key(t)

	signed, err := tx.Sign(key)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	if _, ok := tx.Signature(); ok {
		t.Fatal("原实例不应被附加签名")
	}
	if _, ok := signed.Signature(); !ok {
		t.Fatal("新实例应携带签名")
	}
}
