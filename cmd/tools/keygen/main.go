package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/weisyn/chainkit/pkg/chains"
	"github.com/weisyn/chainkit/pkg/crypto/secp256k1"

	// 注册全部内置链适配器
	_ "github.com/weisyn/chainkit/pkg/chains/bitcoin"
	_ "github.com/weisyn/chainkit/pkg/chains/ethereum"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("chainkit密钥生成工具")
		fmt.Println("用法:")
		fmt.Println("  chainkit-keygen generate <count>  - 生成指定数量的密钥对并打印各链地址")
		fmt.Println("  chainkit-keygen derive <私钥hex>   - 打印已有私钥在各链的地址")
		fmt.Println("")
		fmt.Println("示例:")
		fmt.Println("  chainkit-keygen generate 3")
		fmt.Println("  chainkit-keygen derive 46464646...")
		return
	}

	switch os.Args[1] {
	case "generate":
		count := 1
		if len(os.Args) >= 3 {
			fmt.Sscanf(os.Args[2], "%d", &count)
		}
		generateKeys(count)
	case "derive":
		if len(os.Args) != 3 {
			log.Fatal("derive需要1个参数: <私钥hex>")
		}
		deriveKey(os.Args[2])
	default:
		fmt.Printf("未知命令: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func generateKeys(count int) {
	fmt.Printf("🔑 生成 %d 个密钥对\n", count)
	fmt.Println("====================")

	for i := 0; i < count; i++ {
		privateKey, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			log.Fatalf("生成私钥失败: %v", err)
		}

		fmt.Printf("密钥对 %d:\n", i+1)
		printKey(privateKey)
		secp256k1.SecureWipe(privateKey)
		fmt.Println()
	}
}

func deriveKey(privHex string) {
	privateKey, err := hex.DecodeString(privHex)
	if err != nil {
		log.Fatalf("私钥不是合法的十六进制: %v", err)
	}
	if err := secp256k1.ValidatePrivateKey(privateKey); err != nil {
		log.Fatalf("私钥非法: %v", err)
	}

	printKey(privateKey)
	secp256k1.SecureWipe(privateKey)
}

// printKey 打印密钥对与注册表中全部链的派生地址
func printKey(privateKey []byte) {
	publicKey, err := secp256k1.DerivePublicKey(privateKey)
	if err != nil {
		log.Fatalf("派生公钥失败: %v", err)
	}

	fmt.Printf("  私钥: %s\n", hex.EncodeToString(privateKey))
	fmt.Printf("  公钥: %s\n", hex.EncodeToString(publicKey))

	for _, name := range chains.List() {
		adapter, err := chains.Get(name)
		if err != nil {
			log.Fatalf("获取链适配器失败: %v", err)
		}
		for _, network := range adapter.Networks() {
			address, err := adapter.DeriveAddress(publicKey, network)
			if err != nil {
				log.Fatalf("派生 %s/%s 地址失败: %v", name, network, err)
			}
			fmt.Printf("  %s/%s 地址: %s\n", name, network, address)
		}
	}
}
