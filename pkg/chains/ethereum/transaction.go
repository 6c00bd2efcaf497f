// Package ethereum 实现参考账户链模块
//
// 🎯 **设计目的**
//
// 在链抽象契约之上提供一条完整的账户链参考实现，覆盖：
// - secp256k1密钥：严格校验的构造、确定性签名、公钥恢复
// - 地址：Keccak-256截断派生与校验大小写的文本格式
// - 交易封套：传统格式与两种类型化格式的规范编码、解码与签名人恢复
//
// 🔒 **安全原则**
// - 所有解析失败即关闭：非规范编码、越界分量、未知类型一律拒绝
// - 签名使用RFC6979确定性随机数，s分量恒为低S规范形式
// - 交易强制携带链ID重放保护，缺失保护的历史签名形式不被接受
// - 已签名交易不可变，重新签名必须从字段重新构造
//
// 🏗️ **架构定位**
// - 实现 pkg/interfaces/chain 的全部契约
// - 密码学原语委托 pkg/crypto/secp256k1 与 pkg/crypto/hash
// - 线格式编解码委托本包的 rlp 子包
//
// 📝 **使用示例**
//
//	key, _ := ethereum.GeneratePrivateKey()
//	to, _ := ethereum.ParseAddress("0x3535353535353535353535353535353535353535", ethereum.Mainnet)
//	tx, _ := ethereum.NewTransaction(&ethereum.LegacyTx{
//		ChainID:  ethereum.Mainnet.ChainID(),
//		Nonce:    0,
//		GasPrice: types.NewAmount(20_000_000_000),
//		Gas:      21000,
//		To:       &to,
//		Value:    types.NewAmount(1),
//	})
//	signed, _ := tx.Sign(key)
//	id, _ := signed.TransactionID()
package ethereum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/weisyn/chainkit/pkg/chains/ethereum/rlp"
	"github.com/weisyn/chainkit/pkg/crypto/hash"
	"github.com/weisyn/chainkit/pkg/crypto/secp256k1"
	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

// TxType 交易封套类型标签
type TxType byte

const (
	// LegacyTxType 传统封套，无类型前缀，编码首字节落在RLP列表区间
	LegacyTxType TxType = 0x00
	// AccessListTxType 携带访问列表的类型化封套，前缀0x01
	AccessListTxType TxType = 0x01
	// DynamicFeeTxType 动态费率的类型化封套，前缀0x02
	DynamicFeeTxType TxType = 0x02
)

// maxLegacyChainID 传统封套v字段必须容纳 chainID*2+36
const maxLegacyChainID = (math.MaxUint64 - 36) / 2

// AccessTuple 访问列表条目：一个地址与其预声明的存储槽
type AccessTuple struct {
	Address     Address
	StorageKeys []types.Hash
}

// TxPayload 三种封套变体的封闭联合
//
// 只允许本包内的 LegacyTx、AccessListTx、DynamicFeeTx 实现。
type TxPayload interface {
	txType() TxType
	chainIDValue() uint64
	validate() error
	unsignedFields() []rlp.Value
	signedFields(sig types.Signature) []rlp.Value
	clone() TxPayload
}

// LegacyTx 传统交易封套
//
// 九字段格式，链ID经v字段复用编入：未签名编码以
// (chainID, 0, 0) 占据签名位，签名后 v = chainID*2 + 35 + 恢复位。
type LegacyTx struct {
	ChainID  uint64
	Nonce    uint64
	GasPrice types.Amount
	Gas      uint64
	To       *Address // nil 表示合约创建
	Value    types.Amount
	Data     []byte
}

// AccessListTx 携带访问列表的类型化封套（前缀0x01）
type AccessListTx struct {
	ChainID    uint64
	Nonce      uint64
	GasPrice   types.Amount
	Gas        uint64
	To         *Address
	Value      types.Amount
	Data       []byte
	AccessList []AccessTuple
}

// DynamicFeeTx 动态费率的类型化封套（前缀0x02）
//
// 以小费上限与总费率上限替代单一燃料price字段。
type DynamicFeeTx struct {
	ChainID    uint64
	Nonce      uint64
	GasTipCap  types.Amount
	GasFeeCap  types.Amount
	Gas        uint64
	To         *Address
	Value      types.Amount
	Data       []byte
	AccessList []AccessTuple
}

// ========================================
// LegacyTx 封套实现
// ========================================

func (p *LegacyTx) txType() TxType       { return LegacyTxType }
func (p *LegacyTx) chainIDValue() uint64 { return p.ChainID }

func (p *LegacyTx) validate() error {
	if p.ChainID == 0 {
		return fmt.Errorf("交易缺少链ID重放保护: %w", types.ErrMalformedTransaction)
	}
	if p.ChainID > maxLegacyChainID {
		return fmt.Errorf("链ID %d 超出传统封套v字段容量: %w", p.ChainID, types.ErrMalformedTransaction)
	}
	return nil
}

func (p *LegacyTx) unsignedFields() []rlp.Value {
	return []rlp.Value{
		rlp.Uint64(p.Nonce),
		amountField(p.GasPrice),
		rlp.Uint64(p.Gas),
		toField(p.To),
		amountField(p.Value),
		rlp.String(p.Data),
		rlp.Uint64(p.ChainID),
		rlp.Uint64(0),
		rlp.Uint64(0),
	}
}

func (p *LegacyTx) signedFields(sig types.Signature) []rlp.Value {
	v := p.ChainID*2 + 35 + uint64(sig.RecoveryID)
	return []rlp.Value{
		rlp.Uint64(p.Nonce),
		amountField(p.GasPrice),
		rlp.Uint64(p.Gas),
		toField(p.To),
		amountField(p.Value),
		rlp.String(p.Data),
		rlp.Uint64(v),
		rlp.String(sig.RBig().Bytes()),
		rlp.String(sig.SBig().Bytes()),
	}
}

func (p *LegacyTx) clone() TxPayload {
	c := *p
	c.To = cloneAddress(p.To)
	c.Data = cloneBytes(p.Data)
	return &c
}

// ========================================
// AccessListTx 封套实现
// ========================================

func (p *AccessListTx) txType() TxType       { return AccessListTxType }
func (p *AccessListTx) chainIDValue() uint64 { return p.ChainID }

func (p *AccessListTx) validate() error {
	if p.ChainID == 0 {
		return fmt.Errorf("交易缺少链ID重放保护: %w", types.ErrMalformedTransaction)
	}
	return nil
}

func (p *AccessListTx) unsignedFields() []rlp.Value {
	return []rlp.Value{
		rlp.Uint64(p.ChainID),
		rlp.Uint64(p.Nonce),
		amountField(p.GasPrice),
		rlp.Uint64(p.Gas),
		toField(p.To),
		amountField(p.Value),
		rlp.String(p.Data),
		accessListField(p.AccessList),
	}
}

func (p *AccessListTx) signedFields(sig types.Signature) []rlp.Value {
	return append(p.unsignedFields(),
		rlp.Uint64(uint64(sig.RecoveryID)),
		rlp.String(sig.RBig().Bytes()),
		rlp.String(sig.SBig().Bytes()),
	)
}

func (p *AccessListTx) clone() TxPayload {
	c := *p
	c.To = cloneAddress(p.To)
	c.Data = cloneBytes(p.Data)
	c.AccessList = cloneAccessList(p.AccessList)
	return &c
}

// ========================================
// DynamicFeeTx 封套实现
// ========================================

func (p *DynamicFeeTx) txType() TxType       { return DynamicFeeTxType }
func (p *DynamicFeeTx) chainIDValue() uint64 { return p.ChainID }

func (p *DynamicFeeTx) validate() error {
	if p.ChainID == 0 {
		return fmt.Errorf("交易缺少链ID重放保护: %w", types.ErrMalformedTransaction)
	}
	if p.GasFeeCap.Cmp(p.GasTipCap) < 0 {
		return fmt.Errorf("费率上限低于小费上限: %w", types.ErrMalformedTransaction)
	}
	return nil
}

func (p *DynamicFeeTx) unsignedFields() []rlp.Value {
	return []rlp.Value{
		rlp.Uint64(p.ChainID),
		rlp.Uint64(p.Nonce),
		amountField(p.GasTipCap),
		amountField(p.GasFeeCap),
		rlp.Uint64(p.Gas),
		toField(p.To),
		amountField(p.Value),
		rlp.String(p.Data),
		accessListField(p.AccessList),
	}
}

func (p *DynamicFeeTx) signedFields(sig types.Signature) []rlp.Value {
	return append(p.unsignedFields(),
		rlp.Uint64(uint64(sig.RecoveryID)),
		rlp.String(sig.RBig().Bytes()),
		rlp.String(sig.SBig().Bytes()),
	)
}

func (p *DynamicFeeTx) clone() TxPayload {
	c := *p
	c.To = cloneAddress(p.To)
	c.Data = cloneBytes(p.Data)
	c.AccessList = cloneAccessList(p.AccessList)
	return &c
}

// ========================================
// 字段编码辅助
// ========================================

func amountField(a types.Amount) rlp.Value {
	return rlp.String(a.Bytes())
}

func toField(to *Address) rlp.Value {
	if to == nil {
		return rlp.String(nil)
	}
	return rlp.String(to.bytes[:])
}

func accessListField(list []AccessTuple) rlp.Value {
	items := make([]rlp.Value, 0, len(list))
	for _, tuple := range list {
		keys := make([]rlp.Value, 0, len(tuple.StorageKeys))
		for _, key := range tuple.StorageKeys {
			keys = append(keys, rlp.String(key.Bytes()))
		}
		items = append(items, rlp.List(
			rlp.String(tuple.Address.bytes[:]),
			rlp.List(keys...),
		))
	}
	return rlp.List(items...)
}

func cloneAddress(a *Address) *Address {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

func cloneAccessList(list []AccessTuple) []AccessTuple {
	if list == nil {
		return nil
	}
	c := make([]AccessTuple, len(list))
	for i, tuple := range list {
		c[i] = AccessTuple{
			Address:     tuple.Address,
			StorageKeys: append([]types.Hash(nil), tuple.StorageKeys...),
		}
	}
	return c
}

// ========================================
// Transaction 封装
// ========================================

// Transaction 参考链交易
//
// 未签名与已签名两个状态间单向迁移：Sign 与 WithSignature
// 产生新的已签名实例，原实例保持不变。
type Transaction struct {
	payload TxPayload
	sig     *types.Signature
}

var _ chain.Transaction = (*Transaction)(nil)

// NewTransaction 从封套载荷构造未签名交易
//
// 载荷在构造时校验并深拷贝，之后对原载荷的修改不影响交易。
//
// 返回：
//   - error: 字段组合非法时返回 types.ErrMalformedTransaction
func NewTransaction(payload TxPayload) (*Transaction, error) {
	if payload == nil {
		return nil, fmt.Errorf("交易载荷为空: %w", types.ErrMalformedTransaction)
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}
	return &Transaction{payload: payload.clone()}, nil
}

// Type 返回封套类型标签
func (tx *Transaction) Type() TxType {
	return tx.payload.txType()
}

// ChainID 返回交易绑定的链ID
func (tx *Transaction) ChainID() uint64 {
	return tx.payload.chainIDValue()
}

// Payload 返回封套载荷的深拷贝
//
// 调用方可对返回值做类型断言读取变体字段。
func (tx *Transaction) Payload() TxPayload {
	return tx.payload.clone()
}

// Signature 返回已附加的签名
func (tx *Transaction) Signature() (types.Signature, bool) {
	if tx.sig == nil {
		return types.Signature{}, false
	}
	return *tx.sig, true
}

// EncodeUnsigned 产生规范的未签名编码
//
// 传统封套为九字段RLP列表（链ID占据v位，r与s为零）；
// 类型化封套为类型字节后接字段列表的RLP编码。
func (tx *Transaction) EncodeUnsigned() ([]byte, error) {
	encoded := rlp.EncodeList(tx.payload.unsignedFields()...)
	if t := tx.payload.txType(); t != LegacyTxType {
		return append([]byte{byte(t)}, encoded...), nil
	}
	return encoded, nil
}

// SigningDigest 计算签名摘要：未签名编码的Keccak-256
//
// 类型化封套的类型字节参与哈希。
func (tx *Transaction) SigningDigest() (types.Hash, error) {
	encoded, err := tx.EncodeUnsigned()
	if err != nil {
		return types.Hash{}, err
	}
	return hash.Keccak256Hash(encoded), nil
}

// EncodeSigned 附加签名并产生已签名的线格式编码
//
// 参数：
//   - sig: 对 SigningDigest 结果的签名，s必须为低S规范形式
//
// 返回：
//   - error: 分量越界或可延展时返回 types.ErrInvalidSignature
func (tx *Transaction) EncodeSigned(sig types.Signature) ([]byte, error) {
	if err := secp256k1.ValidateSignatureComponents(sig.RBig(), sig.SBig(), true); err != nil {
		return nil, err
	}
	encoded := rlp.EncodeList(tx.payload.signedFields(sig)...)
	if t := tx.payload.txType(); t != LegacyTxType {
		return append([]byte{byte(t)}, encoded...), nil
	}
	return encoded, nil
}

// WithSignature 返回附加了签名的新交易实例
func (tx *Transaction) WithSignature(sig types.Signature) (*Transaction, error) {
	if err := secp256k1.ValidateSignatureComponents(sig.RBig(), sig.SBig(), true); err != nil {
		return nil, err
	}
	return &Transaction{payload: tx.payload.clone(), sig: &sig}, nil
}

// Sign 用私钥签名并返回已签名的新交易实例
func (tx *Transaction) Sign(key chain.PrivateKey) (*Transaction, error) {
	digest, err := tx.SigningDigest()
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(digest.Bytes())
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(sig)
}

// TransactionID 计算交易标识：已签名编码的Keccak-256
//
// 返回：
//   - error: 交易尚未签名时返回 types.ErrMalformedTransaction
func (tx *Transaction) TransactionID() (types.Hash, error) {
	if tx.sig == nil {
		return types.Hash{}, fmt.Errorf("未签名交易没有交易ID: %w", types.ErrMalformedTransaction)
	}
	encoded, err := tx.EncodeSigned(*tx.sig)
	if err != nil {
		return types.Hash{}, err
	}
	return hash.Keccak256Hash(encoded), nil
}

// RecoverSender 从签名恢复发送方地址
//
// 重建签名摘要，恢复未压缩公钥，再按地址派生管线截断。
// 恢复出的地址绑定交易链ID对应的网络。
//
// 返回：
//   - error: 未签名返回 types.ErrMalformedTransaction，
//     签名无法恢复有效曲线点返回 types.ErrInvalidSignature
func (tx *Transaction) RecoverSender() (Address, error) {
	if tx.sig == nil {
		return Address{}, fmt.Errorf("未签名交易无法恢复发送方: %w", types.ErrMalformedTransaction)
	}
	digest, err := tx.SigningDigest()
	if err != nil {
		return Address{}, err
	}
	uncompressed, err := secp256k1.RecoverPublicKey(digest.Bytes(), tx.sig.Compact())
	if err != nil {
		return Address{}, err
	}
	body := hash.Keccak256(uncompressed[1:])
	return NewAddress(body[12:], networkForChainID(tx.ChainID()))
}

// ========================================
// 解码
// ========================================

// DecodeTransaction 解码已签名的交易线格式
//
// 按首字节分派：落在RLP列表区间（>=0xc0）按传统封套解析，
// 0x01与0x02按对应类型化封套解析，其余类型字节与顶层非列表
// 编码一律拒绝。
//
// 返回：
//   - error: 结构非法返回 types.ErrMalformedTransaction，
//     签名分量越界或可延展返回 types.ErrInvalidSignature
func DecodeTransaction(data []byte) (*Transaction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("交易编码为空: %w", types.ErrMalformedTransaction)
	}

	first := data[0]
	switch {
	case first >= 0xc0:
		return decodeLegacy(data)
	case first == byte(AccessListTxType):
		return decodeTyped(AccessListTxType, data[1:])
	case first == byte(DynamicFeeTxType):
		return decodeTyped(DynamicFeeTxType, data[1:])
	case first <= 0x7f:
		return nil, fmt.Errorf("不支持的交易类型 %#02x: %w", first, types.ErrMalformedTransaction)
	default:
		return nil, fmt.Errorf("交易顶层编码必须是列表: %w", types.ErrMalformedTransaction)
	}
}

func decodeLegacy(data []byte) (*Transaction, error) {
	items, err := decodeFieldList(data, 9)
	if err != nil {
		return nil, err
	}

	vBig, err := items[6].BigIntValue()
	if err != nil {
		return nil, fmt.Errorf("v字段非法: %v: %w", err, types.ErrMalformedTransaction)
	}
	if !vBig.IsUint64() {
		return nil, fmt.Errorf("v字段越界: %w", types.ErrMalformedTransaction)
	}
	v := vBig.Uint64()
	if v == 27 || v == 28 {
		return nil, fmt.Errorf("缺少链ID重放保护的签名形式不被接受: %w", types.ErrMalformedTransaction)
	}
	if v < 35 {
		return nil, fmt.Errorf("v字段非法: %d: %w", v, types.ErrMalformedTransaction)
	}
	recoveryID := byte((v - 35) % 2)
	chainID := (v - 35) / 2
	network := networkForChainID(chainID)

	payload := &LegacyTx{ChainID: chainID}
	if payload.Nonce, err = uintField(items[0], "nonce"); err != nil {
		return nil, err
	}
	if payload.GasPrice, err = amountFieldValue(items[1], "gasPrice"); err != nil {
		return nil, err
	}
	if payload.Gas, err = uintField(items[2], "gas"); err != nil {
		return nil, err
	}
	if payload.To, err = toFieldValue(items[3], network); err != nil {
		return nil, err
	}
	if payload.Value, err = amountFieldValue(items[4], "value"); err != nil {
		return nil, err
	}
	if payload.Data, err = items[5].Bytes(); err != nil {
		return nil, fmt.Errorf("data字段非法: %w", types.ErrMalformedTransaction)
	}

	sig, err := signatureFromItems(items[7], items[8], recoveryID)
	if err != nil {
		return nil, err
	}

	tx, err := NewTransaction(payload)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(sig)
}

func decodeTyped(txType TxType, payload []byte) (*Transaction, error) {
	fieldCount := 11
	if txType == DynamicFeeTxType {
		fieldCount = 12
	}
	items, err := decodeFieldList(payload, fieldCount)
	if err != nil {
		return nil, err
	}

	chainID, err := uintField(items[0], "chainID")
	if err != nil {
		return nil, err
	}
	network := networkForChainID(chainID)

	var inner TxPayload
	var next int
	switch txType {
	case AccessListTxType:
		p := &AccessListTx{ChainID: chainID}
		if p.Nonce, err = uintField(items[1], "nonce"); err != nil {
			return nil, err
		}
		if p.GasPrice, err = amountFieldValue(items[2], "gasPrice"); err != nil {
			return nil, err
		}
		if p.Gas, err = uintField(items[3], "gas"); err != nil {
			return nil, err
		}
		if p.To, err = toFieldValue(items[4], network); err != nil {
			return nil, err
		}
		if p.Value, err = amountFieldValue(items[5], "value"); err != nil {
			return nil, err
		}
		if p.Data, err = items[6].Bytes(); err != nil {
			return nil, fmt.Errorf("data字段非法: %w", types.ErrMalformedTransaction)
		}
		if p.AccessList, err = accessListValue(items[7], network); err != nil {
			return nil, err
		}
		inner, next = p, 8
	default:
		p := &DynamicFeeTx{ChainID: chainID}
		if p.Nonce, err = uintField(items[1], "nonce"); err != nil {
			return nil, err
		}
		if p.GasTipCap, err = amountFieldValue(items[2], "gasTipCap"); err != nil {
			return nil, err
		}
		if p.GasFeeCap, err = amountFieldValue(items[3], "gasFeeCap"); err != nil {
			return nil, err
		}
		if p.Gas, err = uintField(items[4], "gas"); err != nil {
			return nil, err
		}
		if p.To, err = toFieldValue(items[5], network); err != nil {
			return nil, err
		}
		if p.Value, err = amountFieldValue(items[6], "value"); err != nil {
			return nil, err
		}
		if p.Data, err = items[7].Bytes(); err != nil {
			return nil, fmt.Errorf("data字段非法: %w", types.ErrMalformedTransaction)
		}
		if p.AccessList, err = accessListValue(items[8], network); err != nil {
			return nil, err
		}
		inner, next = p, 9
	}

	yParity, err := uintField(items[next], "yParity")
	if err != nil {
		return nil, err
	}
	if yParity > 1 {
		return nil, fmt.Errorf("恢复指示位非法: %d: %w", yParity, types.ErrMalformedTransaction)
	}
	sig, err := signatureFromItems(items[next+1], items[next+2], byte(yParity))
	if err != nil {
		return nil, err
	}

	tx, err := NewTransaction(inner)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(sig)
}

// decodeFieldList 解码顶层列表并校验字段数量
func decodeFieldList(data []byte, count int) ([]rlp.Value, error) {
	decoded, err := rlp.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("交易编码非法: %v: %w", err, types.ErrMalformedTransaction)
	}
	items, err := decoded.Items()
	if err != nil {
		return nil, fmt.Errorf("交易顶层编码必须是列表: %w", types.ErrMalformedTransaction)
	}
	if len(items) != count {
		return nil, fmt.Errorf("字段数量错误: 期望%d, 实际%d: %w", count, len(items), types.ErrMalformedTransaction)
	}
	return items, nil
}

func uintField(v rlp.Value, name string) (uint64, error) {
	u, err := v.Uint64Value()
	if err != nil {
		return 0, fmt.Errorf("%s字段非法: %v: %w", name, err, types.ErrMalformedTransaction)
	}
	return u, nil
}

func amountFieldValue(v rlp.Value, name string) (types.Amount, error) {
	b, err := v.BigIntValue()
	if err != nil {
		return types.Amount{}, fmt.Errorf("%s字段非法: %v: %w", name, err, types.ErrMalformedTransaction)
	}
	amount, err := types.NewAmountFromBig(b)
	if err != nil {
		return types.Amount{}, fmt.Errorf("%s字段非法: %w", name, types.ErrMalformedTransaction)
	}
	return amount, nil
}

func toFieldValue(v rlp.Value, network Network) (*Address, error) {
	b, err := v.Bytes()
	if err != nil {
		return nil, fmt.Errorf("to字段非法: %w", types.ErrMalformedTransaction)
	}
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) != AddressLength {
		return nil, fmt.Errorf("to字段长度非法: %d: %w", len(b), types.ErrMalformedTransaction)
	}
	addr, err := NewAddress(b, network)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func accessListValue(v rlp.Value, network Network) ([]AccessTuple, error) {
	entries, err := v.Items()
	if err != nil {
		return nil, fmt.Errorf("访问列表必须是列表: %w", types.ErrMalformedTransaction)
	}

	list := make([]AccessTuple, 0, len(entries))
	for _, entry := range entries {
		parts, err := entry.Items()
		if err != nil || len(parts) != 2 {
			return nil, fmt.Errorf("访问列表条目结构非法: %w", types.ErrMalformedTransaction)
		}
		addrBytes, err := parts[0].Bytes()
		if err != nil || len(addrBytes) != AddressLength {
			return nil, fmt.Errorf("访问列表地址非法: %w", types.ErrMalformedTransaction)
		}
		addr, err := NewAddress(addrBytes, network)
		if err != nil {
			return nil, err
		}

		keyItems, err := parts[1].Items()
		if err != nil {
			return nil, fmt.Errorf("存储槽集合必须是列表: %w", types.ErrMalformedTransaction)
		}
		keys := make([]types.Hash, 0, len(keyItems))
		for _, item := range keyItems {
			keyBytes, err := item.Bytes()
			if err != nil {
				return nil, fmt.Errorf("存储槽非法: %w", types.ErrMalformedTransaction)
			}
			key, err := types.NewHash(keyBytes)
			if err != nil {
				return nil, fmt.Errorf("存储槽长度非法: %d: %w", len(keyBytes), types.ErrMalformedTransaction)
			}
			keys = append(keys, key)
		}
		list = append(list, AccessTuple{Address: addr, StorageKeys: keys})
	}
	return list, nil
}

// signatureFromItems 从r、s字段与恢复位重建签名并做完整校验
func signatureFromItems(rItem, sItem rlp.Value, recoveryID byte) (types.Signature, error) {
	r, err := bigField(rItem, "r")
	if err != nil {
		return types.Signature{}, err
	}
	s, err := bigField(sItem, "s")
	if err != nil {
		return types.Signature{}, err
	}
	if err := secp256k1.ValidateSignatureComponents(r, s, true); err != nil {
		return types.Signature{}, err
	}
	return types.NewSignature(r, s, recoveryID)
}

func bigField(v rlp.Value, name string) (*big.Int, error) {
	b, err := v.BigIntValue()
	if err != nil {
		return nil, fmt.Errorf("%s字段非法: %v: %w", name, err, types.ErrMalformedTransaction)
	}
	return b, nil
}
