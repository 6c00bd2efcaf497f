package chain

import (
	"github.com/weisyn/chainkit/pkg/types"
)

// Transaction 定义交易契约
//
// 交易在未签名与已签名两个状态间单向迁移：签名是唯一的状态转换，
// 已签名的交易不可变，重新签名需要从相同字段构造新的未签名值。
//
// 🔧 **编码约定**：
// - 未签名编码是签名摘要的输入，必须与链的共识规则逐字节一致
// - 已签名编码是与链节点交换的线格式，十六进制（0x前缀小写）为
//   约定的文本表示
type Transaction interface {
	// EncodeUnsigned 产生规范的未签名字节编码
	//
	// 返回：
	//   - []byte: 未签名编码
	//   - error: 字段越界（如金额超出编码范围）时的错误
	EncodeUnsigned() ([]byte, error)

	// SigningDigest 计算签名摘要
	//
	// 对未签名编码应用链指定的哈希函数，产生256位摘要。
	SigningDigest() (types.Hash, error)

	// EncodeSigned 附加签名并产生已签名编码
	//
	// 参数：
	//   - sig: 对SigningDigest结果的签名
	//
	// 返回：
	//   - []byte: 已签名的线格式编码
	//   - error: 签名分量非法时返回 types.ErrInvalidSignature
	EncodeSigned(sig types.Signature) ([]byte, error)

	// TransactionID 计算交易标识
	//
	// 参考链为已签名编码的哈希；UTXO链为不含见证数据的
	// 序列化结果做双重哈希后反序显示。
	TransactionID() (types.Hash, error)
}
