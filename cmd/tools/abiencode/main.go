package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/weisyn/chainkit/pkg/chains/ethereum"
	"github.com/weisyn/chainkit/pkg/chains/ethereum/abi"
	"github.com/weisyn/chainkit/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("chainkit调用数据编码工具")
		fmt.Println("用法:")
		fmt.Println("  chainkit-abiencode <方法签名> [参数...]")
		fmt.Println("")
		fmt.Println("参数按签名中的类型逐个转换:")
		fmt.Println("  uintN   - 十进制数")
		fmt.Println("  address - 0x前缀的十六进制地址（混合大小写时校验EIP-55）")
		fmt.Println("  bool    - true / false")
		fmt.Println("  bytesN  - 十六进制")
		fmt.Println("  bytes   - 十六进制")
		fmt.Println("  string  - 原样字符串")
		fmt.Println("")
		fmt.Println("示例:")
		fmt.Println("  chainkit-abiencode 'transfer(address,uint256)' 0x7e5f4552091a69125d5dfcb7b8c2659029395bdf 1000")
		fmt.Println("  chainkit-abiencode 'balanceOf(address)' 0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
		return
	}

	method, err := abi.ParseSignature(os.Args[1])
	if err != nil {
		log.Fatalf("签名解析失败: %v", err)
	}

	rawArgs := os.Args[2:]
	if len(rawArgs) != len(method.Inputs) {
		log.Fatalf("签名声明%d个参数, 实际提供%d个", len(method.Inputs), len(rawArgs))
	}

	args := make([]interface{}, len(rawArgs))
	for i, raw := range rawArgs {
		arg, err := convertArg(method.Inputs[i], raw)
		if err != nil {
			log.Fatalf("参数%d转换失败: %v", i+1, err)
		}
		args[i] = arg
	}

	data, err := method.Encode(args...)
	if err != nil {
		log.Fatalf("编码失败: %v", err)
	}

	selector := method.Selector()

	fmt.Println("✅ 调用数据编码完成")
	fmt.Printf("规范签名: %s\n", method.Canonical())
	fmt.Printf("选择器: %s\n", hex.EncodeToString(selector[:]))
	fmt.Printf("调用数据: %s\n", hex.EncodeToString(data))
	fmt.Printf("数据长度: %d 字节 (选择器%d字节 + 参数区%d字节)\n",
		len(data), abi.SelectorLength, len(data)-abi.SelectorLength)
}

// convertArg 按ABI类型将命令行字符串转为编码器接受的Go值
func convertArg(t abi.Type, raw string) (interface{}, error) {
	switch t.Kind() {
	case abi.KindUint:
		amount, err := types.ParseAmount(raw)
		if err != nil {
			return nil, err
		}
		return amount, nil
	case abi.KindAddress:
		addr, err := ethereum.ParseAddress(raw, ethereum.Mainnet)
		if err != nil {
			return nil, err
		}
		return addr.Bytes(), nil
	case abi.KindBool:
		return strconv.ParseBool(raw)
	case abi.KindString:
		return raw, nil
	default: // bytesN 与 bytes
		return hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	}
}
