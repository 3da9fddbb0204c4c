package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/filex"
)

// Sync pushes the local vault to the server.
func (a *App) Sync(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	st := a.withSpinner("Syncing...", func() common.Stat {
		return a.tree.Sync(ctx)
	})
	if st.IsSuccess() {
		a.setMode(ModeOnline)
	}
	return a.report("sync", st)
}

// Export writes the vault to path, by default a timestamped file under the
// data directory. When a backup bucket is configured the object key is
// printed too.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		dir, err := filex.EnsureDir(a.config.DataDir)
		if err != nil {
			fmt.Fprintln(a.out, failMark()+" "+err.Error())
			return err
		}
		path = filepath.Join(dir, fmt.Sprintf("pocket-%d.pocket", time.Now().Unix()))
	}

	var key string
	st := a.withSpinner("Exporting...", func() common.Stat {
		var st common.Stat
		key, st = a.data.Export(ctx, a.sess, path)
		return st
	})
	if err := a.report("export "+path, st); err != nil {
		return err
	}
	if key != "" {
		fmt.Fprintln(a.out, "Uploaded as "+key)
	}
	return nil
}

// Import replaces the vault with the content of a previous export and pushes
// the result.
func (a *App) Import(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: import <path>")
		return fmt.Errorf("usage: import <path>")
	}

	var imported, pushed common.Stat
	a.withSpinner("Importing...", func() common.Stat {
		imported, pushed = a.data.Import(ctx, a.sess, args[0])
		return imported
	})
	if err := a.report("import "+args[0], imported); err != nil {
		return err
	}
	return a.report("push", pushed)
}
