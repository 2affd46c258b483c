package main

import (
	"fmt"
	"io"
	"os"

	appSnapshot "github.com/estlcameo/backend/internal/application/snapshot"
	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/storage"
	"github.com/estlcameo/backend/internal/infrastructure/watcher"
	"github.com/spf13/cobra"
)

// stderrNotifier 把引擎的通知打印到 stderr
type stderrNotifier struct {
	w io.Writer
}

func (n stderrNotifier) Notify(source, title, message string, t notification.Type) {
	fmt.Fprintf(n.w, "[%s] %s: %s\n", t.String(), title, message)
}

// openStore 创建只跟踪 project 的快照引擎，不监听文件也不操作宿主
func openStore(opts *rootOptions, project string, errOut io.Writer, bus events.EventBus) (*appSnapshot.Store, error) {
	if _, err := os.Stat(project); err != nil {
		return nil, fmt.Errorf("project file: %w", err)
	}
	cfg := opts.loadConfig()
	store := appSnapshot.NewStore(&cfg.Snapshot, clock.Real(), nil, nil, nil, stderrNotifier{w: errOut}, bus)
	if err := store.SetTrackedFile(project); err != nil {
		return nil, err
	}
	return store, nil
}

func newSnapshotsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots <project>",
		Short: "List the snapshots of a project file, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts, args[0], cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			records := store.ListSnapshots()
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, records)
			}

			tf, _ := store.TrackedFile()
			if len(records) == 0 {
				fmt.Fprintf(out, "No snapshots in %s\n", tf.SnapshotDir)
				return nil
			}
			for i, rec := range records {
				fmt.Fprintf(out, "%3d  %s  %-14s %s\n", i+1, rec.Timestamp.Format("2006-01-02 15:04:05"), rec.RelativeAge, rec.SnapshotPath)
			}
			return nil
		},
	}
}

func newRestoreCopyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-copy <project> <snapshot>",
		Short: "Restore a snapshot as a new file next to the project file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()
			db, err := storage.ProvideDB(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			// 与守护进程写同一个日志簿
			bus := watcher.NewEventBus()
			journal := appSnapshot.NewJournalRecorder(storage.NewSnapshotJournalRepository(db), bus)
			journal.Start()

			store, err := openStore(opts, args[0], cmd.ErrOrStderr(), bus)
			if err != nil {
				bus.Close()
				return err
			}

			target, err := store.RestoreAsCopy(args[1])
			// Close 等待日志簿写完
			bus.Close()
			journal.Stop()
			if err != nil {
				return err
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"path": target})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored as %s\n", target)
			return nil
		},
	}
}

func newJournalCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal [project]",
		Short: "Show recorded snapshot operations, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			cfg := opts.loadConfig()
			db, err := storage.ProvideDB(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			project := ""
			if len(args) == 1 {
				project = args[0]
			}
			journal := appSnapshot.NewJournalRecorder(storage.NewSnapshotJournalRepository(db), nil)
			entries, err := journal.List(project, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, entries)
			}
			for _, e := range entries {
				target := e.SnapshotPath
				if e.TargetPath != "" {
					target = e.SnapshotPath + " -> " + e.TargetPath
				}
				fmt.Fprintf(out, "%s  %-16s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action, target)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of entries")
	return cmd
}
