package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/weisyn/chainkit/pkg/chains/ethereum"
	"github.com/weisyn/chainkit/pkg/types"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("chainkit交易解码工具")
		fmt.Println("用法:")
		fmt.Println("  chainkit-txdecode <交易hex>")
		fmt.Println("")
		fmt.Println("示例:")
		fmt.Println("  chainkit-txdecode f86c098504a817c800...")
		fmt.Println("  chainkit-txdecode 0x02f862018002038252...")
		return
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(os.Args[1], "0x"))
	if err != nil {
		log.Fatalf("交易不是合法的十六进制: %v", err)
	}

	tx, err := ethereum.DecodeTransaction(raw)
	if err != nil {
		log.Fatalf("交易解码失败: %v", err)
	}

	fmt.Println("🔍 交易解码结果")
	fmt.Println("====================")
	fmt.Printf("封套类型: %s\n", typeName(tx.Type()))
	fmt.Printf("链ID: %d%s\n", tx.ChainID(), networkLabel(tx.ChainID()))

	switch p := tx.Payload().(type) {
	case *ethereum.LegacyTx:
		fmt.Printf("Nonce: %d\n", p.Nonce)
		fmt.Printf("燃料价格: %s\n", p.GasPrice)
		fmt.Printf("燃料上限: %d\n", p.Gas)
		printCommon(p.To, p.Value, p.Data)
	case *ethereum.AccessListTx:
		fmt.Printf("Nonce: %d\n", p.Nonce)
		fmt.Printf("燃料价格: %s\n", p.GasPrice)
		fmt.Printf("燃料上限: %d\n", p.Gas)
		printCommon(p.To, p.Value, p.Data)
		printAccessList(p.AccessList)
	case *ethereum.DynamicFeeTx:
		fmt.Printf("Nonce: %d\n", p.Nonce)
		fmt.Printf("小费上限: %s\n", p.GasTipCap)
		fmt.Printf("费率上限: %s\n", p.GasFeeCap)
		fmt.Printf("燃料上限: %d\n", p.Gas)
		printCommon(p.To, p.Value, p.Data)
		printAccessList(p.AccessList)
	}

	sig, signed := tx.Signature()
	if !signed {
		fmt.Println("签名: 无（未签名交易）")
		return
	}

	fmt.Printf("签名r: %x\n", sig.R)
	fmt.Printf("签名s: %x\n", sig.S)
	fmt.Printf("恢复位: %d\n", sig.RecoveryID)

	id, err := tx.TransactionID()
	if err != nil {
		log.Fatalf("计算交易ID失败: %v", err)
	}
	fmt.Printf("交易ID: %s\n", id.Hex())

	sender, err := tx.RecoverSender()
	if err != nil {
		log.Fatalf("恢复发送方失败: %v", err)
	}
	fmt.Printf("发送方: %s\n", sender)
}

func typeName(t ethereum.TxType) string {
	switch t {
	case ethereum.LegacyTxType:
		return "传统（EIP-155）"
	case ethereum.AccessListTxType:
		return "访问列表（0x01）"
	case ethereum.DynamicFeeTxType:
		return "动态费率（0x02）"
	default:
		return fmt.Sprintf("未知（%#02x）", byte(t))
	}
}

func networkLabel(chainID uint64) string {
	network, err := ethereum.NetworkForChainID(chainID)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("（%s）", network.Name())
}

func printCommon(to *ethereum.Address, value types.Amount, data []byte) {
	if to != nil {
		fmt.Printf("接收方: %s\n", to)
	} else {
		fmt.Println("接收方: 无（合约创建）")
	}
	fmt.Printf("金额: %s\n", value)
	if len(data) > 0 {
		fmt.Printf("数据: %s (%d字节)\n", hex.EncodeToString(data), len(data))
	} else {
		fmt.Println("数据: 空")
	}
}

func printAccessList(list []ethereum.AccessTuple) {
	fmt.Printf("访问列表: %d 项\n", len(list))
	for i, tuple := range list {
		fmt.Printf("  [%d] 地址: %s\n", i, tuple.Address)
		for _, key := range tuple.StorageKeys {
			fmt.Printf("      槽: %s\n", key.Hex())
		}
	}
}
