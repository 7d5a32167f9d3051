package blockchain

import "fmt"

// BCType 表示账本网络的接入方式
type BCType string

const (
	// Fabric 通过 Fabric 通道客户端调用账本链码
	Fabric BCType = "fabric"
	// REST 通过 HTTP 账本中继访问账本
	REST BCType = "rest"
	// Memory 使用进程内账本，仅用于开发与测试
	Memory BCType = "memory"
)

// NewBCTypeFromString 从配置字符串获得 BCType
func NewBCTypeFromString(str string) (BCType, error) {
	switch BCType(str) {
	case Fabric, REST, Memory:
		return BCType(str), nil
	default:
		return "", fmt.Errorf("不支持的账本类型 '%v'", str)
	}
}
