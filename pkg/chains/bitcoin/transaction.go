// Package bitcoin 实现UTXO链模块
//
// 🎯 **设计目的**
//
// 在链抽象契约之上提供一条结构迥异于账户链的UTXO链实现，覆盖：
// - secp256k1密钥：与参考链相同的标量规则，附带WIF导入导出
// - 地址：P2PKH、嵌套见证P2SH-P2WPKH与P2WPKH三种格式
// - 交易封套：版本/输入/输出/锁定时间结构、传统与segwit两种序列化、
//   传统SIGHASH_ALL与BIP-143两套签名摘要
//
// 🔒 **安全原则**
// - 地址解析验证校验和、版本字节与网络归属，跨网络地址一律拒绝
// - 脚本签名使用DER编码、低S规范、确定性随机数
// - 签名前先比对密钥与前序输出的公钥哈希，不匹配直接拒绝
// - 交易不可变，签名操作返回新实例
//
// 🏗️ **架构定位**
// - 实现 pkg/interfaces/chain 的全部契约
// - 密码学原语委托 pkg/crypto/secp256k1 与 pkg/crypto/hash
// - Base58Check/Bech32编码与交易标识哈希委托btcd生态库
//
// 📝 **使用示例**
//
//	key, _ := bitcoin.GeneratePrivateKey()
//	pub, _ := key.PublicKey()
//	addr, _ := bitcoin.AddressFromPublicKey(pub.(*bitcoin.PublicKey), bitcoin.FormatP2WPKH, bitcoin.Mainnet)
//	tx, _ := bitcoin.NewTransaction(1, inputs, outputs, 0)
//	signed, _ := tx.SignAll(key)
//	id, _ := signed.TransactionID()
package bitcoin

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/weisyn/chainkit/pkg/crypto/hash"
	"github.com/weisyn/chainkit/pkg/crypto/secp256k1"
	"github.com/weisyn/chainkit/pkg/interfaces/chain"
	"github.com/weisyn/chainkit/pkg/types"
)

const (
	// SighashAll 承诺全部输入输出的签名哈希类型
	SighashAll = 0x01

	// MaxSatoshi 金额上限（2100万枚 × 1e8聪）
	MaxSatoshi = 21_000_000 * 100_000_000

	// DefaultSequence 不启用相对锁定时间的输入序列号
	DefaultSequence = 0xffffffff

	// segwit扩展序列化的标记与标志字节
	segwitMarker = 0x00
	segwitFlag   = 0x01
)

// OutPoint 前序输出引用
//
// Txid按内部字节序存储，显示时反转。
type OutPoint struct {
	Txid  chainhash.Hash
	Index uint32
}

// TxIn 交易输入
//
// PrevScript与PrevAmount是被花费输出的元数据，不参与交易序列化，
// 仅供签名摘要计算使用。BIP-143摘要必须承诺被花费金额。
type TxIn struct {
	PreviousOutput OutPoint
	ScriptSig      []byte
	Sequence       uint32
	Witness        [][]byte

	PrevScript []byte
	PrevAmount types.Amount
}

// TxOut 交易输出
type TxOut struct {
	Value    types.Amount
	PkScript []byte
}

// Transaction UTXO链交易
//
// 不可变值：构造时深拷贝并验证所有字段，签名操作返回新实例。
type Transaction struct {
	version  int32
	inputs   []TxIn
	outputs  []TxOut
	lockTime uint32
}

var _ chain.Transaction = (*Transaction)(nil)

// NewTransaction 构造交易
//
// 参数：
//   - version: 交易版本号
//   - inputs: 至少一个输入
//   - outputs: 至少一个输出
//   - lockTime: 锁定时间
//
// 返回：
//   - error: 输入输出缺失返回 types.ErrMalformedTransaction，
//     金额超出聪上限返回 types.ErrAmountOverflow
func NewTransaction(version int32, inputs []TxIn, outputs []TxOut, lockTime uint32) (*Transaction, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("交易必须至少包含一个输入: %w", types.ErrMalformedTransaction)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("交易必须至少包含一个输出: %w", types.ErrMalformedTransaction)
	}
	for i, out := range outputs {
		if _, err := satoshiValue(out.Value); err != nil {
			return nil, fmt.Errorf("输出%d: %w", i, err)
		}
	}
	for i, in := range inputs {
		if _, err := satoshiValue(in.PrevAmount); err != nil {
			return nil, fmt.Errorf("输入%d前序金额: %w", i, err)
		}
	}

	return &Transaction{
		version:  version,
		inputs:   cloneInputs(inputs),
		outputs:  cloneOutputs(outputs),
		lockTime: lockTime,
	}, nil
}

// Version 返回交易版本号
func (tx *Transaction) Version() int32 {
	return tx.version
}

// LockTime 返回锁定时间
func (tx *Transaction) LockTime() uint32 {
	return tx.lockTime
}

// Inputs 返回输入深拷贝
func (tx *Transaction) Inputs() []TxIn {
	return cloneInputs(tx.inputs)
}

// Outputs 返回输出深拷贝
func (tx *Transaction) Outputs() []TxOut {
	return cloneOutputs(tx.outputs)
}

// SerializeLegacy 产生不含见证数据的传统序列化
func (tx *Transaction) SerializeLegacy() []byte {
	buf := appendUint32(nil, uint32(tx.version))
	buf = tx.appendInputs(buf)
	buf = tx.appendOutputs(buf)
	return appendUint32(buf, tx.lockTime)
}

// Serialize 产生线格式序列化
//
// 任一输入携带见证数据时使用segwit扩展格式（标记0x00、标志0x01、
// 每输入一个见证栈），否则与传统序列化一致。
func (tx *Transaction) Serialize() []byte {
	if !tx.hasWitness() {
		return tx.SerializeLegacy()
	}

	buf := appendUint32(nil, uint32(tx.version))
	buf = append(buf, segwitMarker, segwitFlag)
	buf = tx.appendInputs(buf)
	buf = tx.appendOutputs(buf)
	for i := range tx.inputs {
		buf = appendVarInt(buf, uint64(len(tx.inputs[i].Witness)))
		for _, item := range tx.inputs[i].Witness {
			buf = appendVarBytes(buf, item)
		}
	}
	return appendUint32(buf, tx.lockTime)
}

// EncodeUnsigned 产生规范的未签名编码
//
// 所有输入的解锁脚本与见证数据清空后的传统序列化。
func (tx *Transaction) EncodeUnsigned() ([]byte, error) {
	return tx.blankCopy().SerializeLegacy(), nil
}

// SigningDigest 计算签名摘要
//
// 契约路径覆盖单输入传统花费：对第一个输入计算SIGHASH_ALL传统
// 摘要。多输入或见证系花费走 SighashLegacy/SighashSegwit 与
// SignInput 的逐输入流程。
func (tx *Transaction) SigningDigest() (types.Hash, error) {
	return tx.SighashLegacy(0)
}

// EncodeSigned 附加签名并产生已签名编码
//
// 契约路径仅覆盖单输入P2PKH花费：从摘要与签名恢复公钥，与前序
// 输出的公钥哈希比对（压缩与未压缩形式都尝试），匹配后构造解锁
// 脚本。多输入或其他脚本类型使用 SignInput。
//
// 返回：
//   - error: 签名分量非法或与前序输出不匹配返回 types.ErrInvalidSignature
func (tx *Transaction) EncodeSigned(sig types.Signature) ([]byte, error) {
	if len(tx.inputs) != 1 {
		return nil, fmt.Errorf("多输入交易需逐输入签名: %w", types.ErrMalformedTransaction)
	}
	pubKeyHash, ok := extractP2PKHHash(tx.inputs[0].PrevScript)
	if !ok {
		return nil, fmt.Errorf("前序锁定脚本不是P2PKH: %w", types.ErrMalformedTransaction)
	}
	if err := secp256k1.ValidateSignatureComponents(sig.RBig(), sig.SBig(), true); err != nil {
		return nil, err
	}

	digest, err := tx.SighashLegacy(0)
	if err != nil {
		return nil, err
	}
	recovered, err := secp256k1.RecoverPublicKey(digest.Bytes(), sig.Compact())
	if err != nil {
		return nil, err
	}

	var pubSer []byte
	compressed, err := secp256k1.CompressPublicKey(recovered)
	switch {
	case err == nil && bytes.Equal(hash.Hash160(compressed), pubKeyHash):
		pubSer = compressed
	case bytes.Equal(hash.Hash160(recovered), pubKeyHash):
		pubSer = recovered
	default:
		return nil, fmt.Errorf("恢复的公钥与前序输出不匹配: %w", types.ErrInvalidSignature)
	}

	der, err := secp256k1.CompactToDER(sig.Compact())
	if err != nil {
		return nil, err
	}

	signed := tx.copy()
	signed.inputs[0].ScriptSig = scriptSigP2PKH(der, pubSer)
	signed.inputs[0].Witness = nil
	return signed.SerializeLegacy(), nil
}

// TransactionID 计算交易标识
//
// 不含见证数据的传统序列化做双重SHA-256后反序，与十六进制显示
// 约定一致。存在未签名输入时拒绝计算。
func (tx *Transaction) TransactionID() (types.Hash, error) {
	for i := range tx.inputs {
		if len(tx.inputs[i].ScriptSig) == 0 && len(tx.inputs[i].Witness) == 0 {
			return types.Hash{}, fmt.Errorf("输入%d尚未签名: %w", i, types.ErrMalformedTransaction)
		}
	}

	digest := chainhash.DoubleHashH(tx.SerializeLegacy())
	var id types.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		id[i] = digest[chainhash.HashSize-1-i]
	}
	return id, nil
}

// SighashLegacy 计算指定输入的传统SIGHASH_ALL摘要
//
// 所有输入的解锁脚本清空，被签名输入的解锁脚本替换为前序锁定
// 脚本，传统序列化后追加4字节小端哈希类型，做双重SHA-256。
//
// 返回：
//   - error: 序号越界或缺少前序脚本时返回 types.ErrMalformedTransaction
func (tx *Transaction) SighashLegacy(index int) (types.Hash, error) {
	if index < 0 || index >= len(tx.inputs) {
		return types.Hash{}, fmt.Errorf("输入序号越界: %d: %w", index, types.ErrMalformedTransaction)
	}
	prevScript := tx.inputs[index].PrevScript
	if len(prevScript) == 0 {
		return types.Hash{}, fmt.Errorf("输入%d缺少前序锁定脚本: %w", index, types.ErrMalformedTransaction)
	}

	preTx := tx.blankCopy()
	preTx.inputs[index].ScriptSig = cloneBytes(prevScript)
	preimage := preTx.SerializeLegacy()
	preimage = appendUint32(preimage, SighashAll)
	return hash.DoubleSHA256Hash(preimage), nil
}

// SighashSegwit 计算指定输入的BIP-143 SIGHASH_ALL摘要
//
// 前序锁定脚本必须是版本0见证程序（OP_0 <20字节>）。嵌套见证
// 的输入走 SignInput，由赎回脚本提供见证程序。
func (tx *Transaction) SighashSegwit(index int) (types.Hash, error) {
	if index < 0 || index >= len(tx.inputs) {
		return types.Hash{}, fmt.Errorf("输入序号越界: %d: %w", index, types.ErrMalformedTransaction)
	}
	program, ok := extractWitnessProgram(tx.inputs[index].PrevScript)
	if !ok {
		return types.Hash{}, fmt.Errorf("输入%d的前序脚本不是版本0见证程序: %w", index, types.ErrMalformedTransaction)
	}
	return tx.sighashSegwit(index, program)
}

// sighashSegwit 按BIP-143规则计算摘要
//
// 脚本代码取programHash（20字节公钥哈希）的P2PKH形式，摘要依次
// 承诺前序输出集、序列号集、本输入、被花费金额与输出集。
func (tx *Transaction) sighashSegwit(index int, programHash []byte) (types.Hash, error) {
	in := &tx.inputs[index]
	amount, err := satoshiValue(in.PrevAmount)
	if err != nil {
		return types.Hash{}, fmt.Errorf("输入%d前序金额: %w", index, err)
	}

	var prevouts, sequences []byte
	for i := range tx.inputs {
		prevouts = append(prevouts, tx.inputs[i].PreviousOutput.Txid[:]...)
		prevouts = appendUint32(prevouts, tx.inputs[i].PreviousOutput.Index)
		sequences = appendUint32(sequences, tx.inputs[i].Sequence)
	}
	var outputs []byte
	for i := range tx.outputs {
		v, verr := satoshiValue(tx.outputs[i].Value)
		if verr != nil {
			return types.Hash{}, fmt.Errorf("输出%d: %w", i, verr)
		}
		outputs = appendUint64(outputs, v)
		outputs = appendVarBytes(outputs, tx.outputs[i].PkScript)
	}

	scriptCode := make([]byte, 0, 25)
	scriptCode = append(scriptCode, opDup, opHash160, HashLength)
	scriptCode = append(scriptCode, programHash...)
	scriptCode = append(scriptCode, opEqualVerify, opCheckSig)

	preimage := appendUint32(nil, uint32(tx.version))
	preimage = append(preimage, hash.DoubleSHA256(prevouts)...)
	preimage = append(preimage, hash.DoubleSHA256(sequences)...)
	preimage = append(preimage, in.PreviousOutput.Txid[:]...)
	preimage = appendUint32(preimage, in.PreviousOutput.Index)
	preimage = appendVarBytes(preimage, scriptCode)
	preimage = appendUint64(preimage, amount)
	preimage = appendUint32(preimage, in.Sequence)
	preimage = append(preimage, hash.DoubleSHA256(outputs)...)
	preimage = appendUint32(preimage, tx.lockTime)
	preimage = appendUint32(preimage, SighashAll)
	return hash.DoubleSHA256Hash(preimage), nil
}

// SignInput 对指定输入签名，返回完成该输入的新交易
//
// 按前序锁定脚本分类：
//   - P2PKH: 传统摘要，解锁脚本为 <DER签名‖0x01> <公钥>
//   - P2WPKH: BIP-143摘要，见证栈为 [DER签名‖0x01, 压缩公钥]
//   - P2SH-P2WPKH: BIP-143摘要，见证栈同上，解锁脚本推入赎回脚本
//
// 返回：
//   - error: 密钥与前序输出的公钥哈希不匹配返回 types.ErrInvalidKey，
//     脚本类型不支持返回 types.ErrMalformedTransaction
func (tx *Transaction) SignInput(index int, key *PrivateKey) (*Transaction, error) {
	if index < 0 || index >= len(tx.inputs) {
		return nil, fmt.Errorf("输入序号越界: %d: %w", index, types.ErrMalformedTransaction)
	}
	prevScript := tx.inputs[index].PrevScript
	if len(prevScript) == 0 {
		return nil, fmt.Errorf("输入%d缺少前序锁定脚本: %w", index, types.ErrMalformedTransaction)
	}

	pub, err := key.derivePublicKey()
	if err != nil {
		return nil, err
	}

	if pubKeyHash, ok := extractP2PKHHash(prevScript); ok {
		pubSer := pub.Serialize()
		if !bytes.Equal(hash.Hash160(pubSer), pubKeyHash) {
			return nil, fmt.Errorf("密钥与前序输出的公钥哈希不匹配: %w", types.ErrInvalidKey)
		}
		digest, derr := tx.SighashLegacy(index)
		if derr != nil {
			return nil, derr
		}
		der, serr := key.SignDER(digest.Bytes())
		if serr != nil {
			return nil, serr
		}
		signed := tx.copy()
		signed.inputs[index].ScriptSig = scriptSigP2PKH(der, pubSer)
		signed.inputs[index].Witness = nil
		return signed, nil
	}

	if !key.compressed {
		return nil, fmt.Errorf("见证花费要求压缩公钥: %w", types.ErrInvalidKey)
	}
	compressed := pub.SerializeCompressed()
	pubKeyHash := hash.Hash160(compressed)

	if program, ok := extractWitnessProgram(prevScript); ok {
		if !bytes.Equal(pubKeyHash, program) {
			return nil, fmt.Errorf("密钥与见证程序不匹配: %w", types.ErrInvalidKey)
		}
		digest, derr := tx.sighashSegwit(index, program)
		if derr != nil {
			return nil, derr
		}
		der, serr := key.SignDER(digest.Bytes())
		if serr != nil {
			return nil, serr
		}
		signed := tx.copy()
		signed.inputs[index].ScriptSig = nil
		signed.inputs[index].Witness = witnessStack(der, compressed)
		return signed, nil
	}

	if scriptHash, ok := extractP2SHHash(prevScript); ok {
		redeem := witnessScript(pubKeyHash)
		if !bytes.Equal(hash.Hash160(redeem), scriptHash) {
			return nil, fmt.Errorf("密钥与前序输出的脚本哈希不匹配: %w", types.ErrInvalidKey)
		}
		digest, derr := tx.sighashSegwit(index, pubKeyHash)
		if derr != nil {
			return nil, derr
		}
		der, serr := key.SignDER(digest.Bytes())
		if serr != nil {
			return nil, serr
		}
		signed := tx.copy()
		signed.inputs[index].ScriptSig = pushData(redeem)
		signed.inputs[index].Witness = witnessStack(der, compressed)
		return signed, nil
	}

	return nil, fmt.Errorf("不支持的前序锁定脚本: %w", types.ErrMalformedTransaction)
}

// SignAll 用同一密钥依次完成所有输入的签名
func (tx *Transaction) SignAll(key *PrivateKey) (*Transaction, error) {
	signed := tx
	for i := range tx.inputs {
		var err error
		signed, err = signed.SignInput(i, key)
		if err != nil {
			return nil, err
		}
	}
	return signed, nil
}

// copy 返回交易深拷贝
func (tx *Transaction) copy() *Transaction {
	return &Transaction{
		version:  tx.version,
		inputs:   cloneInputs(tx.inputs),
		outputs:  cloneOutputs(tx.outputs),
		lockTime: tx.lockTime,
	}
}

// blankCopy 返回清空全部解锁脚本与见证数据的深拷贝
func (tx *Transaction) blankCopy() *Transaction {
	blank := tx.copy()
	for i := range blank.inputs {
		blank.inputs[i].ScriptSig = nil
		blank.inputs[i].Witness = nil
	}
	return blank
}

func (tx *Transaction) hasWitness() bool {
	for i := range tx.inputs {
		if len(tx.inputs[i].Witness) > 0 {
			return true
		}
	}
	return false
}

func (tx *Transaction) appendInputs(buf []byte) []byte {
	buf = appendVarInt(buf, uint64(len(tx.inputs)))
	for i := range tx.inputs {
		in := &tx.inputs[i]
		buf = append(buf, in.PreviousOutput.Txid[:]...)
		buf = appendUint32(buf, in.PreviousOutput.Index)
		buf = appendVarBytes(buf, in.ScriptSig)
		buf = appendUint32(buf, in.Sequence)
	}
	return buf
}

func (tx *Transaction) appendOutputs(buf []byte) []byte {
	buf = appendVarInt(buf, uint64(len(tx.outputs)))
	for i := range tx.outputs {
		out := &tx.outputs[i]
		// 取值范围在构造时已验证
		v, _ := satoshiValue(out.Value)
		buf = appendUint64(buf, v)
		buf = appendVarBytes(buf, out.PkScript)
	}
	return buf
}

// satoshiValue 将金额换算为聪数值
func satoshiValue(a types.Amount) (uint64, error) {
	v, err := a.Uint64()
	if err != nil {
		return 0, err
	}
	if v > MaxSatoshi {
		return 0, fmt.Errorf("金额超出聪上限: %d: %w", v, types.ErrAmountOverflow)
	}
	return v, nil
}

// scriptSigP2PKH 构造P2PKH解锁脚本：依次推入签名与公钥
func scriptSigP2PKH(der, pubSer []byte) []byte {
	script := pushData(append(cloneBytes(der), SighashAll))
	return append(script, pushData(pubSer)...)
}

// witnessStack 构造P2WPKH见证栈
func witnessStack(der, compressed []byte) [][]byte {
	return [][]byte{
		append(cloneBytes(der), SighashAll),
		cloneBytes(compressed),
	}
}

// pushData 构造数据推入脚本片段（长度不超过255字节）
func pushData(b []byte) []byte {
	if len(b) <= 75 {
		return append([]byte{byte(len(b))}, b...)
	}
	return append([]byte{opPushData1, byte(len(b))}, b...)
}

// extractP2PKHHash 从P2PKH锁定脚本提取公钥哈希
func extractP2PKHHash(script []byte) ([]byte, bool) {
	if len(script) != 25 || script[0] != opDup || script[1] != opHash160 ||
		script[2] != HashLength || script[23] != opEqualVerify || script[24] != opCheckSig {
		return nil, false
	}
	return script[3:23], true
}

// extractP2SHHash 从P2SH锁定脚本提取脚本哈希
func extractP2SHHash(script []byte) ([]byte, bool) {
	if len(script) != 23 || script[0] != opHash160 || script[1] != HashLength || script[22] != opEqual {
		return nil, false
	}
	return script[2:22], true
}

// extractWitnessProgram 从版本0见证锁定脚本提取20字节程序
func extractWitnessProgram(script []byte) ([]byte, bool) {
	if len(script) != 2+HashLength || script[0] != op0 || script[1] != HashLength {
		return nil, false
	}
	return script[2:], true
}

func cloneInputs(inputs []TxIn) []TxIn {
	out := make([]TxIn, len(inputs))
	for i, in := range inputs {
		out[i] = TxIn{
			PreviousOutput: in.PreviousOutput,
			ScriptSig:      cloneBytes(in.ScriptSig),
			Sequence:       in.Sequence,
			Witness:        cloneWitness(in.Witness),
			PrevScript:     cloneBytes(in.PrevScript),
			PrevAmount:     in.PrevAmount,
		}
	}
	return out
}

func cloneOutputs(outputs []TxOut) []TxOut {
	out := make([]TxOut, len(outputs))
	for i, o := range outputs {
		out[i] = TxOut{
			Value:    o.Value,
			PkScript: cloneBytes(o.PkScript),
		}
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneWitness(witness [][]byte) [][]byte {
	if len(witness) == 0 {
		return nil
	}
	out := make([][]byte, len(witness))
	for i, item := range witness {
		out[i] = cloneBytes(item)
	}
	return out
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// appendVarInt 追加变长整数编码
//
// 小于0xfd单字节；其后按宽度升级为 fd+2字节、fe+4字节、ff+8字节，
// 多字节部分一律小端。
func appendVarInt(dst []byte, v uint64) []byte {
	switch {
	case v < 0xfd:
		return append(dst, byte(v))
	case v <= 0xffff:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		return append(append(dst, 0xfd), b[:]...)
	case v <= 0xffffffff:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		return append(append(dst, 0xfe), b[:]...)
	default:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		return append(append(dst, 0xff), b[:]...)
	}
}

func appendVarBytes(dst, b []byte) []byte {
	dst = appendVarInt(dst, uint64(len(b)))
	return append(dst, b...)
}
