package chain

// Adapter 定义链适配器契约
//
// 适配器是链无关代码操作具体链的统一入口：上层以字节和字符串
// 交互，不感知各链的密钥、地址具体类型。每个链模块实现本接口
// 并在init中注册到 pkg/chains 注册表，消费方按名称选取。
//
// 🎯 **边界约定**：
// - 公钥一律传33字节压缩格式
// - 网络以规范名称字符串标识，未知名称返回 types.ErrUnsupportedNetwork
// - 适配器方法不持有状态，可被任意并发调用
type Adapter interface {
	// Name 返回链的规范名称（如 "ethereum"、"bitcoin"）
	Name() string

	// Networks 返回该链支持的网络名称列表
	Networks() []string

	// DeriveAddress 从压缩公钥派生指定网络的默认格式地址
	//
	// 参数：
	//   - compressedPublicKey: 33字节压缩公钥
	//   - network: 网络规范名称
	//
	// 返回：
	//   - string: 地址的文本显示格式
	//   - error: 公钥非法或网络不支持时的错误
	DeriveAddress(compressedPublicKey []byte, network string) (string, error)

	// ValidateAddress 验证地址文本在指定网络下是否合法
	//
	// 返回：
	//   - error: 非法时返回 types.ErrMalformedAddress /
	//     types.ErrChecksumMismatch / types.ErrUnsupportedNetwork
	ValidateAddress(address string, network string) error
}
