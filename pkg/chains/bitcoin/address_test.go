package bitcoin

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/weisyn/chainkit/pkg/types"
)

// 标量1公钥对应的三种地址载荷
const (
	pubKeyHashHex       = "751e76e8199196d454941c45d1b3a323f1433bd6"
	nestedScriptHashHex = "bcfeb728b584253d5f3f70bcb780e9ef218a68f4"
	uncompressedHashHex = "91b24bf9f5288532960ac687abb035127b1d28a5"
)

func generatorPublicKey(t *testing.T, compressed bool) *PublicKey {
	t.Helper()
	pub, err := scalarKey(t, 1, compressed).PublicKey()
	if err != nil {
		t.Fatalf("派生公钥失败: %v", err)
	}
	return pub.(*PublicKey)
}

// TestAddressFromPublicKeyGolden 压缩公钥在两个网络下的三种地址格式
func TestAddressFromPublicKeyGolden(t *testing.T) {
	pub := generatorPublicKey(t, true)

	tests := []struct {
		name        string
		format      Format
		network     Network
		wantAddr    string
		wantPayload string
	}{
		{"主网P2PKH", FormatP2PKH, Mainnet, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", pubKeyHashHex},
		{"测试网P2PKH", FormatP2PKH, Testnet3, "mrCDrCybB6J1vRfbwM5hemdJz73FwDBC8r", pubKeyHashHex},
		{"主网P2WPKH", FormatP2WPKH, Mainnet, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", pubKeyHashHex},
		{"测试网P2WPKH", FormatP2WPKH, Testnet3, "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", pubKeyHashHex},
		{"主网嵌套见证P2SH", FormatP2SH, Mainnet, "3JvL6Ymt8MVWiCNHC7oWU6nLeHNJKLZGLN", nestedScriptHashHex},
		{"测试网嵌套见证P2SH", FormatP2SH, Testnet3, "2NAUYAHhujozruyzpsFRP63mbrdaU5wnEpN", nestedScriptHashHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := AddressFromPublicKey(pub, tt.format, tt.network)
			if err != nil {
				t.Fatalf("派生地址失败: %v", err)
			}
			if addr.String() != tt.wantAddr {
				t.Fatalf("地址编码不匹配:\n期望 %s\n实际 %s", tt.wantAddr, addr.String())
			}
			if got := hex.EncodeToString(addr.Bytes()); got != tt.wantPayload {
				t.Fatalf("地址载荷不匹配: %s", got)
			}
			if addr.Format() != tt.format {
				t.Fatalf("地址格式错误: %s", addr.Format())
			}
			if addr.Network().Name() != tt.network.Name() {
				t.Fatalf("地址网络错误: %s", addr.Network().Name())
			}
			t.Logf("✅ %s: %s", tt.name, addr)
		})
	}
}

// TestUncompressedKeyAddresses 未压缩偏好只允许P2PKH
func TestUncompressedKeyAddresses(t *testing.T) {
	pub := generatorPublicKey(t, false)

	addr, err := AddressFromPublicKey(pub, FormatP2PKH, Mainnet)
	if err != nil {
		t.Fatalf("派生地址失败: %v", err)
	}
	if addr.String() != "1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm" {
		t.Fatalf("未压缩P2PKH地址不匹配: %s", addr)
	}
	if got := hex.EncodeToString(addr.Bytes()); got != uncompressedHashHex {
		t.Fatalf("地址载荷不匹配: %s", got)
	}

	if _, err := AddressFromPublicKey(pub, FormatP2WPKH, Mainnet); !errors.Is(err, types.ErrInvalidKey) {
		t.Fatalf("P2WPKH期望 ErrInvalidKey, 实际 %v", err)
	}
	if _, err := AddressFromPublicKey(pub, FormatP2SH, Mainnet); !errors.Is(err, types.ErrInvalidKey) {
		t.Fatalf("P2SH期望 ErrInvalidKey, 实际 %v", err)
	}
}

// TestParseAddressRoundTrip 文本解析还原出等值地址
func TestParseAddressRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		format  Format
		payload string
		network Network
	}{
		{"主网P2PKH", "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", FormatP2PKH, pubKeyHashHex, Mainnet},
		{"测试网P2PKH", "mrCDrCybB6J1vRfbwM5hemdJz73FwDBC8r", FormatP2PKH, pubKeyHashHex, Testnet3},
		{"主网P2SH", "3JvL6Ymt8MVWiCNHC7oWU6nLeHNJKLZGLN", FormatP2SH, nestedScriptHashHex, Mainnet},
		{"测试网P2SH", "2NAUYAHhujozruyzpsFRP63mbrdaU5wnEpN", FormatP2SH, nestedScriptHashHex, Testnet3},
		{"主网P2WPKH", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", FormatP2WPKH, pubKeyHashHex, Mainnet},
		{"测试网P2WPKH", "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", FormatP2WPKH, pubKeyHashHex, Testnet3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := NewAddress(tt.format, mustHexBytes(t, tt.payload), tt.network)
			if err != nil {
				t.Fatalf("构造期望地址失败: %v", err)
			}
			got, err := ParseAddress(tt.encoded, tt.network)
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if got != want {
				t.Fatalf("解析结果与构造值不等: %s", got)
			}
		})
	}
}

// TestParseAddressCase Bech32大小写规则
func TestParseAddressCase(t *testing.T) {
	t.Run("全大写可解析并规范化", func(t *testing.T) {
		addr, err := ParseAddress("BC1QW508D6QEJXTDG4Y5R3ZARVARY0C5XW7KV8F3T4", Mainnet)
		if err != nil {
			t.Fatalf("全大写地址应可解析: %v", err)
		}
		if addr.String() != "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4" {
			t.Fatalf("应规范化为小写: %s", addr)
		}
	})

	t.Run("混合大小写被拒绝", func(t *testing.T) {
		_, err := ParseAddress("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kV8f3t4", Mainnet)
		if !errors.Is(err, types.ErrMalformedAddress) {
			t.Fatalf("期望 ErrMalformedAddress, 实际 %v", err)
		}
	})
}

// TestParseAddressRejects 解析失败的错误分类
func TestParseAddressRejects(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		network Network
		want    error
	}{
		{"空字符串", "", Mainnet, types.ErrMalformedAddress},
		{"测试网地址在主网", "mrCDrCybB6J1vRfbwM5hemdJz73FwDBC8r", Mainnet, types.ErrMalformedAddress},
		{"主网地址在测试网", "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", Testnet3, types.ErrMalformedAddress},
		{"Base58校验和被篡改", "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMJ", Mainnet, types.ErrChecksumMismatch},
		{"Base58载荷过短", base58.CheckEncode(make([]byte, 19), 0x00), Mainnet, types.ErrMalformedAddress},
		{"Bech32校验和被篡改", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5", Mainnet, types.ErrChecksumMismatch},
		{"版本0使用Bech32m校验和", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kemeawh", Mainnet, types.ErrMalformedAddress},
		{"见证版本1", "bc1pqqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v9ccrydpk8qarc0sg5tmnz", Mainnet, types.ErrMalformedAddress},
		{"见证版本2", "bc1zw508d6qejxtdg4y5r3zarvaryvg6kdaj", Mainnet, types.ErrMalformedAddress},
		{"32字节见证程序", "bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3qccfmv3", Mainnet, types.ErrMalformedAddress},
		{"人类可读前缀不匹配", "bc11qw508d6qejxtdg4y5r3zarvary0c5xw7kan2muu", Mainnet, types.ErrMalformedAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.encoded, tt.network)
			if err == nil {
				t.Fatal("期望解析失败, 实际成功")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("错误类别不匹配: 期望 %v, 实际 %v", tt.want, err)
			}
			t.Logf("✅ %s: %v", tt.name, err)
		})
	}
}

// TestNewAddressValidation 载荷长度与格式校验
func TestNewAddressValidation(t *testing.T) {
	if _, err := NewAddress(FormatP2PKH, make([]byte, 19), Mainnet); !errors.Is(err, types.ErrMalformedAddress) {
		t.Fatalf("19字节载荷期望 ErrMalformedAddress, 实际 %v", err)
	}
	if _, err := NewAddress(FormatP2PKH, make([]byte, 21), Mainnet); !errors.Is(err, types.ErrMalformedAddress) {
		t.Fatalf("21字节载荷期望 ErrMalformedAddress, 实际 %v", err)
	}
	if _, err := NewAddress(Format(99), make([]byte, 20), Mainnet); !errors.Is(err, types.ErrMalformedAddress) {
		t.Fatalf("未知格式期望 ErrMalformedAddress, 实际 %v", err)
	}
}

// TestPkScript 三种格式的锁定脚本布局
func TestPkScript(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		payload string
		want    string
	}{
		{"P2PKH", FormatP2PKH, pubKeyHashHex, "76a914" + pubKeyHashHex + "88ac"},
		{"P2SH", FormatP2SH, nestedScriptHashHex, "a914" + nestedScriptHashHex + "87"},
		{"P2WPKH", FormatP2WPKH, pubKeyHashHex, "0014" + pubKeyHashHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.format, mustHexBytes(t, tt.payload), Mainnet)
			if err != nil {
				t.Fatalf("构造地址失败: %v", err)
			}
			if got := hex.EncodeToString(addr.PkScript()); got != tt.want {
				t.Fatalf("锁定脚本不匹配:\n期望 %s\n实际 %s", tt.want, got)
			}
		})
	}
}

// TestAddressValueSemantics 地址是可比较的值类型
func TestAddressValueSemantics(t *testing.T) {
	payload := mustHexBytes(t, pubKeyHashHex)

	a, err := NewAddress(FormatP2PKH, payload, Mainnet)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}
	b, err := NewAddress(FormatP2PKH, payload, Mainnet)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}
	if a != b {
		t.Fatal("相同参数构造的地址应相等")
	}

	c, err := NewAddress(FormatP2PKH, payload, Testnet3)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}
	if a == c {
		t.Fatal("不同网络的地址不应相等")
	}

	d, err := NewAddress(FormatP2WPKH, payload, Mainnet)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}
	if a == d {
		t.Fatal("不同格式的地址不应相等")
	}
}
