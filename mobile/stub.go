//go:build !mobile

// Package mobile 的桌面端占位
//
// 桌面构建不需要 ebitenmobile 绑定，也不嵌入关卡数据；
// 真正的入口在 mobile.go，只有 -tags mobile 时才编译。
package mobile

// Dummy 让 go vet ./... 在桌面端也能找到这个包
func Dummy() {}
