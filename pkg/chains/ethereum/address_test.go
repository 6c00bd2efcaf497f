package ethereum

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/weisyn/chainkit/pkg/types"
)

// TestAddressFromPublicKeyGolden 标量1的地址派生
func TestAddressFromPublicKeyGolden(t *testing.T) {
	key := scalarKey(t, 1)
	pub, err := key.PublicKey()
	if err != nil {
		t.Fatalf("派生公钥失败: %v", err)
	}

	addr, err := AddressFromPublicKey(pub, Mainnet)
	if err != nil {
		t.Fatalf("派生地址失败: %v", err)
	}

	const want = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
	if addr.String() != want {
		t.Fatalf("地址不匹配: 期望 %s, 实际 %s", want, addr.String())
	}
	if addr.Network().Name() != "mainnet" {
		t.Fatalf("网络绑定错误: %s", addr.Network().Name())
	}
	t.Logf("✅ 标量1地址: %s", addr)
}

// TestParseAddressChecksum 校验大小写的参考向量
func TestParseAddressChecksum(t *testing.T) {
	valid := []string{
		// 混合大小写，携带校验信息
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		// 全大写，视为未携带校验信息
		"0x52908400098527886E0F7030069857D2E4169EE7",
		"0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		// 全小写，视为未携带校验信息
		"0xde709f2102306220921060314715629080e2fb77",
		"0x27b1fdb04752bbc536007a920d24acb045561c26",
	}

	for _, s := range valid {
		addr, err := ParseAddress(s, Mainnet)
		if err != nil {
			t.Fatalf("地址 %s 应解析成功: %v", s, err)
		}
		// 显示格式重解析必然成功
		if _, err := ParseAddress(addr.String(), Mainnet); err != nil {
			t.Fatalf("显示格式 %s 重解析失败: %v", addr.String(), err)
		}
	}
	t.Logf("✅ %d个参考向量全部通过", len(valid))
}

// TestParseAddressNormalizesCase 全小写输入的显示格式回到校验大小写
func TestParseAddressNormalizesCase(t *testing.T) {
	mixed := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	addr, err := ParseAddress(strings.ToLower(mixed), Mainnet)
	if err != nil {
		t.Fatalf("全小写应解析成功: %v", err)
	}
	if addr.String() != mixed {
		t.Fatalf("显示格式应为校验大小写: 期望 %s, 实际 %s", mixed, addr.String())
	}
}

// TestParseAddressRejects 结构与校验错误分类
func TestParseAddressRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"翻转一个字母破坏校验", "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", types.ErrChecksumMismatch},
		{"缺少前缀", "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", types.ErrMalformedAddress},
		{"长度不足", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe", types.ErrMalformedAddress},
		{"长度超出", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed00", types.ErrMalformedAddress},
		{"非十六进制字符", "0xZZAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", types.ErrMalformedAddress},
		{"空字符串", "", types.ErrMalformedAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.input, Mainnet)
			if !errors.Is(err, tt.want) {
				t.Fatalf("期望 %v, 实际 %v", tt.want, err)
			}
			t.Logf("✅ %s: %v", tt.name, err)
		})
	}
}

// TestAddressValueSemantics 相等当且仅当字节与网络都相等
func TestAddressValueSemantics(t *testing.T) {
	raw := bytes.Repeat([]byte{0x11}, AddressLength)

	onMainnet, err := NewAddress(raw, Mainnet)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}
	onSepolia, err := NewAddress(raw, Sepolia)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}
	sameAgain, err := NewAddress(raw, Mainnet)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}

	if onMainnet != sameAgain {
		t.Fatal("相同字节与网络的地址应相等")
	}
	if onMainnet == onSepolia {
		t.Fatal("不同网络的地址不应相等")
	}
	if !bytes.Equal(onMainnet.Bytes(), raw) {
		t.Fatal("字节载荷往返不一致")
	}
}

// TestNewAddressLength 载荷长度契约
func TestNewAddressLength(t *testing.T) {
	if _, err := NewAddress(make([]byte, 19), Mainnet); !errors.Is(err, types.ErrMalformedAddress) {
		t.Fatalf("19字节期望 ErrMalformedAddress, 实际 %v", err)
	}
	if _, err := NewAddress(make([]byte, 21), Mainnet); !errors.Is(err, types.ErrMalformedAddress) {
		t.Fatalf("21字节期望 ErrMalformedAddress, 实际 %v", err)
	}
}

// TestAddressBytesCopy 返回的载荷是独立副本
func TestAddressBytesCopy(t *testing.T) {
	raw := bytes.Repeat([]byte{0x22}, AddressLength)
	addr, err := NewAddress(raw, Mainnet)
	if err != nil {
		t.Fatalf("构造地址失败: %v", err)
	}

	leaked := addr.Bytes()
	leaked[0] = 0xff
	if addr.Bytes()[0] != 0x22 {
		t.Fatal("修改返回值不应影响地址内部状态")
	}
}
