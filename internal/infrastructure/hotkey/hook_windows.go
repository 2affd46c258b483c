//go:build windows

package hotkey

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/estlcameo/backend/internal/domain/hotkey"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	hcAction     = 0
	wmKeyDown    = 0x0100
	wmSysKeyDown = 0x0104
	wmQuit       = 0x0012
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetKeyState         = user32.NewProc("GetKeyState")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// 系统回调没有上下文参数，进程内只允许一个活动钩子
var (
	activeHook   atomic.Pointer[Hook]
	callbackOnce sync.Once
	callbackPtr  uintptr
)

// Hook WH_KEYBOARD_LL 低级键盘钩子
// 钩子安装在一个锁定的 OS 线程上，该线程运行自己的消息循环
type Hook struct {
	decider  Decider
	logger   *slog.Logger
	threadID uint32
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewHook 创建钩子
func NewHook(decider Decider) *Hook {
	return &Hook{
		decider: decider,
		logger:  log.NewModuleLogger("hotkey", "hook"),
	}
}

// Start 安装钩子，返回前钩子已生效
func (h *Hook) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return nil
	}
	if !activeHook.CompareAndSwap(nil, h) {
		return ErrHookActive
	}
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(lowLevelKeyboardProc)
	})

	ready := make(chan error, 1)
	h.done = make(chan struct{})
	go h.loop(ready)

	if err := <-ready; err != nil {
		activeHook.Store(nil)
		return err
	}
	h.running = true
	h.logger.Info("Keyboard hook installed")
	return nil
}

// Close 卸载钩子并结束消息循环
func (h *Hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return nil
	}

	r, _, err := procPostThreadMessageW.Call(uintptr(h.threadID), wmQuit, 0, 0)
	if r == 0 {
		return fmt.Errorf("failed to stop hook thread: %w", err)
	}
	<-h.done
	h.running = false
	activeHook.CompareAndSwap(h, nil)
	h.logger.Info("Keyboard hook removed")
	return nil
}

func (h *Hook) loop(ready chan<- error) {
	defer close(h.done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h.threadID = windows.GetCurrentThreadId()

	module, _, _ := procGetModuleHandleW.Call(0)
	handle, _, err := procSetWindowsHookExW.Call(whKeyboardLL, callbackPtr, module, 0)
	if handle == 0 {
		ready <- fmt.Errorf("SetWindowsHookExW failed: %w", err)
		return
	}
	defer procUnhookWindowsHookEx.Call(handle)
	ready <- nil

	var m msg
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		// 0 为 WM_QUIT，-1 为错误
		if r == 0 || int32(r) == -1 {
			return
		}
	}
}

func lowLevelKeyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == hcAction && (wParam == wmKeyDown || wParam == wmSysKeyDown) {
		if h := activeHook.Load(); h != nil {
			kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			if h.decide(kb.VkCode) == hotkey.Swallow {
				return 1
			}
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return r
}

// decide 钩子回调中绝不能 panic
func (h *Hook) decide(vk uint32) (action hotkey.Action) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Hook decision panicked", "panic", r)
			action = hotkey.Forward
		}
	}()
	return h.decider.Decide(vk, ctrlDown()).Action
}

func ctrlDown() bool {
	r, _, _ := procGetKeyState.Call(uintptr(hotkey.VKControl))
	return int16(r) < 0
}
