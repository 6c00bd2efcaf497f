// Package chain 定义链工具包的统一抽象契约
//
// 🔗 **链抽象契约层 (Chain Abstraction Contracts)**
//
// 本包定义了所有链模块必须满足的接口集合，专注于：
// - 密钥契约：私钥派生公钥、摘要签名、签名恢复、双格式序列化
// - 地址契约：公钥到地址的确定性派生与文本解析验证
// - 交易契约：未签名编码、签名摘要、签名后编码、交易ID
// - 网络契约：封闭的部署目标枚举，参数化地址与链ID字段
//
// 🎯 **核心功能**
// - 一套操作统一结构各异的链：不同地址字节布局、不同交易封套格式
// - 链无关代码通过 Adapter 注册表在运行边界选择具体实现
// - 所有操作都是纯函数：无共享可变状态、无阻塞IO、并发安全
//
// 🏗️ **设计原则**
// - 接口在本包定义，具体链在 pkg/chains/* 实现
// - 实现方持有全部密码学逻辑，契约层零依赖具体曲线
// - 错误通过 pkg/types 的统一类别返回，失败即关闭
//
// 🔗 **组件关系**
// - 被 pkg/chains/ethereum、pkg/chains/bitcoin 实现
// - 被 pkg/chains 注册表在链无关边界消费
package chain

import (
	"github.com/weisyn/chainkit/pkg/types"
)

// PrivateKey 定义私钥契约
//
// 私钥是签名上下文独占持有的秘密标量，绝不嵌入交易值内部。
// 派生出的公钥与地址不携带对私钥的任何反向引用。
//
// 🛡️ **安全特性**：
// - 构造时严格校验：零值或超出曲线阶的标量直接拒绝，绝不截断修正
// - Bytes返回调用方独占的副本，配合Wipe支持显式内存清除
// - 签名使用确定性随机数：相同(私钥,摘要)必然产生相同签名
type PrivateKey interface {
	// PublicKey 派生对应的公钥
	//
	// 确定性纯函数：同一私钥任何时刻派生结果一致。
	//
	// 返回：
	//   - PublicKey: 派生出的公钥
	//   - error: 私钥状态非法时返回 types.ErrInvalidKey
	PublicKey() (PublicKey, error)

	// Sign 对32字节摘要签名
	//
	// 输入必须是哈希后的摘要而非原始消息，调用方负责先行哈希。
	// 随机数由(私钥,摘要)确定性派生，可安全重试且结果可复现。
	//
	// 参数：
	//   - digest: 32字节签名摘要
	//
	// 返回：
	//   - types.Signature: 含恢复指示位的签名
	//   - error: 摘要长度错误时返回 types.ErrInvalidDigestLength
	Sign(digest []byte) (types.Signature, error)

	// Bytes 返回32字节私钥副本
	//
	// 返回的缓冲区归调用方所有，用毕应调用 types 层的清除原语
	// 或本接口的 Wipe 进行覆盖。
	Bytes() []byte

	// Wipe 安全擦除私钥内存
	//
	// 多阶段覆盖内部缓冲区。擦除后实例不可再用。
	Wipe()
}

// PublicKey 定义公钥契约
//
// 公钥是曲线上的点，支持压缩与未压缩两种可互逆的序列化格式。
type PublicKey interface {
	// SerializeCompressed 序列化为33字节压缩格式（02/03前缀 + X坐标）
	SerializeCompressed() []byte

	// SerializeUncompressed 序列化为65字节未压缩格式（04前缀 + X + Y坐标）
	SerializeUncompressed() []byte
}
