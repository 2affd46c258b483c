package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// ErrCopyExhausted 达到最大尝试次数仍未复制成功
var ErrCopyExhausted = errors.New("copy attempts exhausted")

// CopyFunc 把 src 复制到 dst
type CopyFunc func(src, dst string) error

// Copier 带重试的文件复制
// 宿主保存时可能短暂锁住项目文件，所以第一次复制前先等待，之后按退避策略重试
type Copier struct {
	initialDelay time.Duration
	maxAttempts  int
	newBackOff   func() backoff.BackOff
	sleep        func(time.Duration)
	copy         CopyFunc
	logger       *slog.Logger
}

// NewCopier 创建复制器，重试间隔固定为 CopyRetryDelay
// 等待走 clk.Sleep，测试时用假时钟
func NewCopier(cfg *config.SnapshotConfig, clk clock.Clock) *Copier {
	attempts := cfg.CopyMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryDelay := cfg.CopyRetryDelay
	return &Copier{
		initialDelay: cfg.CopyInitialDelay,
		maxAttempts:  attempts,
		newBackOff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(retryDelay)
		},
		sleep:  clk.Sleep,
		copy:   CopyFile,
		logger: log.NewModuleLogger("snapshot", "copier"),
	}
}

// Copy 复制文件，返回实际尝试次数
// 源文件不存在不会重试
func (c *Copier) Copy(src, dst string) (int, error) {
	if c.initialDelay > 0 {
		c.sleep(c.initialDelay)
	}

	b := c.newBackOff()
	attempts := 0
	var lastErr error
	for attempts < c.maxAttempts {
		attempts++
		err := c.attempt(src, dst)
		if err == nil {
			if attempts > 1 {
				c.logger.Debug("Copy succeeded after retry", "dst", dst, "attempts", attempts)
			}
			return attempts, nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return attempts, permanent.Err
		}
		lastErr = err

		c.logger.Debug("Copy attempt failed",
			"src", src,
			"attempt", attempts,
			"max_attempts", c.maxAttempts,
			"error", err,
		)
		if attempts == c.maxAttempts {
			break
		}
		next := b.NextBackOff()
		if next == backoff.Stop {
			break
		}
		c.sleep(next)
	}

	return attempts, fmt.Errorf("%w (%d): %w", ErrCopyExhausted, attempts, lastErr)
}

// attempt 单次复制，源文件不存在时标记为不可重试
func (c *Copier) attempt(src, dst string) error {
	err := c.copy(src, dst)
	if errors.Is(err, fs.ErrNotExist) {
		return backoff.Permanent(fmt.Errorf("copy %s: %w", src, err))
	}
	return err
}

// CopyFile 复制文件内容，覆盖已存在的 dst
// 失败时删除写了一半的 dst
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeFrom(in, dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// copyFileExclusive 复制文件，dst 已存在时失败
func copyFileExclusive(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeFrom(in, dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL)
}

func writeFrom(in io.Reader, dst string, flag int) error {
	out, err := os.OpenFile(dst, flag, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// replaceFile 用 src 的内容替换 dst
// 先写入同目录的临时文件再重命名，失败时 dst 保持原样
func replaceFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".estlcameo-restore-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if info, err := os.Stat(dst); err == nil {
		_ = tmp.Chmod(info.Mode().Perm())
	}

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
