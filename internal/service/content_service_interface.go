package service

import "context"

// ContentServiceInterface 定义了将内容分块存储于账本文件的服务的接口。
type ContentServiceInterface interface {
	// 将内容写入新的账本文件。各块按顺序逐一追加，每块的回执确认后才发送下一块。
	//
	// 参数：
	//   内容（不能为空）
	//
	// 返回：
	//   账本文件 ID
	Store(ctx context.Context, content []byte) (string, error)

	// 读取账本文件的完整内容。
	//
	// 参数：
	//   账本文件 ID
	//
	// 返回：
	//   文件内容
	Retrieve(ctx context.Context, fileID string) ([]byte, error)
}
