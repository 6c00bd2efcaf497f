// Package types 提供链工具包的基础值类型
//
// 🎯 **设计目的**：
// 定义所有链模块共享的原始类型（金额、哈希、签名）与统一错误分类。
// 本包只依赖标准库，不依赖任何具体链实现，保证依赖方向始终是
// 链模块 → 基础类型，而不是反向。
//
// 🛡️ **失败即关闭原则**：
// 所有非法输入在构造阶段被拒绝并返回明确错误，绝不静默截断或
// 替换默认值；本包内部不产生任何日志。
package types

import "errors"

// 统一错误分类
//
// 各链模块返回的错误最终都应能通过 errors.Is 归入以下类别之一，
// 调用方据此决定重试、报告还是放弃。
var (
	// ErrInvalidKey 私钥/公钥格式或取值非法（零值、超出曲线阶、不在曲线上）
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidSignature 签名分量超出范围、恢复ID非法或无法恢复出有效公钥
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidDigestLength 签名输入不是曲线期望的32字节摘要
	ErrInvalidDigestLength = errors.New("invalid digest length")

	// ErrMalformedAddress 地址文本长度或字符集非法
	ErrMalformedAddress = errors.New("malformed address")

	// ErrChecksumMismatch 混合大小写地址的校验大小写与计算结果不一致
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrMalformedTransaction 交易结构解码失败（字段数错误、长度前缀非法、未知类型标签）
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrAmountOverflow 金额超出目标表示范围（如编码进256位字段或satoshi int64）
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrAmountUnderflow 金额运算结果为负（减法越界）
	ErrAmountUnderflow = errors.New("amount underflow")

	// ErrUnsupportedNetwork 链模块不认识传入的网络标识
	ErrUnsupportedNetwork = errors.New("unsupported network")
)
