// Package chains 维护链适配器注册表
//
// 🎯 **设计目的**
//
// 链无关代码通过注册表按名称选取具体链实现，不直接依赖任何链包。
// 链包在init中自注册，消费方空白导入需要的链：
//
//	import (
//		"github.com/weisyn/chainkit/pkg/chains"
//
//		_ "github.com/weisyn/chainkit/pkg/chains/bitcoin"
//		_ "github.com/weisyn/chainkit/pkg/chains/ethereum"
//	)
//
//	adapter, err := chains.Get("ethereum")
//	addr, err := adapter.DeriveAddress(compressedPub, "mainnet")
//
// 🏗️ **架构定位**
// - 仅依赖 pkg/interfaces/chain 契约层，不反向依赖链包
// - 读写锁保护并发注册与查询
package chains

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/weisyn/chainkit/pkg/interfaces/chain"
)

// 注册表错误
var (
	// ErrDuplicateChain 链名称重复注册
	ErrDuplicateChain = errors.New("链名称已注册")
	// ErrUnknownChain 链名称未注册
	ErrUnknownChain = errors.New("链名称未注册")
)

var (
	mu       sync.RWMutex
	adapters = make(map[string]chain.Adapter)
)

// Register 注册链适配器
//
// 参数：
//   - adapter: 链适配器实例，名称须全局唯一
//
// 返回：
//   - error: 适配器为nil或名称为空时返回结构错误，
//     名称重复时返回 ErrDuplicateChain
func Register(adapter chain.Adapter) error {
	if adapter == nil {
		return errors.New("适配器为nil")
	}
	name := adapter.Name()
	if name == "" {
		return errors.New("适配器名称为空")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, ok := adapters[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateChain, name)
	}
	adapters[name] = adapter
	return nil
}

// MustRegister 注册失败即panic，仅供链包的init调用
func MustRegister(adapter chain.Adapter) {
	if err := Register(adapter); err != nil {
		panic("注册链适配器失败: " + err.Error())
	}
}

// Get 按名称返回已注册的适配器
//
// 返回：
//   - error: 名称未注册时返回 ErrUnknownChain
func Get(name string) (chain.Adapter, error) {
	mu.RLock()
	defer mu.RUnlock()
	adapter, ok := adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, name)
	}
	return adapter, nil
}

// List 返回已注册的链名称，按字典序排列
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
