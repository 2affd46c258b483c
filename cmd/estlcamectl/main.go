// estlcamectl 诊断工具：查看 Estlcam 状态文件、解析项目路径、列出和恢复快照
// 不依赖守护进程，直接读取磁盘上的数据
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
