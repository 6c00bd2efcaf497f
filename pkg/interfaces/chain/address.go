package chain

// Address 定义地址契约
//
// 地址是公钥经链特定的哈希截断管线派生出的标识符，
// 是(公钥,网络)的确定性函数。两个地址相等当且仅当
// 字节载荷与网络标签都相等。
type Address interface {
	// Bytes 返回地址的原始字节载荷副本
	Bytes() []byte

	// String 返回网络特定的文本显示格式
	//
	// 参考链使用校验大小写的十六进制（0x前缀），
	// UTXO链使用Base58Check或Bech32。
	String() string

	// Network 返回地址所属的网络
	Network() Network
}

// Network 定义网络契约
//
// 网络是封闭的部署目标枚举（主网、测试网变体），
// 参数化地址格式与交易链ID字段。新增网络是代码变更而非运行时数据。
type Network interface {
	// Name 返回网络的规范名称（如 "mainnet"、"sepolia"、"testnet3"）
	Name() string
}
