//go:build integration
// +build integration

package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/estlcameo/backend/test/integration/framework"
)

func TestMain(m *testing.M) {
	// 编译 daemon 和 estlcamectl
	fmt.Println("=== Building estlcameo-daemon and estlcamectl ===")
	if err := framework.BuildDaemon(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build binaries: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("=== Binaries built at: %s, %s ===\n", framework.BinaryPath, framework.CtlPath)

	// 运行测试
	code := m.Run()

	// 清理
	framework.Cleanup()

	os.Exit(code)
}
