package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

// rootOptions 全局参数
type rootOptions struct {
	stateRoot string
	jsonOut   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "estlcamectl",
		Short:         "Inspect Estlcam state and EstlCameo snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.stateRoot, "state-root", "", "directory searched for the Estlcam state file (default %ProgramData%\\Estlcam)")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newStateCmd(opts),
		newResolveCmd(opts),
		newSnapshotsCmd(opts),
		newRestoreCopyCmd(opts),
		newJournalCmd(opts),
	)
	return root
}

// loadConfig 读取守护进程同一份配置，命令行参数优先
func (o *rootOptions) loadConfig() *config.Config {
	cfg := config.NewConfig()
	if o.stateRoot != "" {
		cfg.Host.StateRoot = o.stateRoot
	}
	// 命令行工具不截取窗口
	cfg.Snapshot.CapturePreview = false
	return cfg
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
