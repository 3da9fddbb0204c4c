package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)

	require.NoError(t, ta.Sync(context.Background()))
	assert.Equal(t, 1, ta.net.pushes)
	assert.Contains(t, ta.out.String(), "sync")
}

func TestSync_Offline(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	ta.net.stat = common.StatNoNetwork

	require.Error(t, ta.Sync(context.Background()))
	assert.Equal(t, ModeOffline, ta.Mode)
}

func TestExport_DefaultPath(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	ta.data.Key = "backups/users/a@b.io/x.pocket"

	require.NoError(t, ta.Export(context.Background(), nil))

	dir, err := filepath.Abs(ta.config.DataDir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(ta.data.LastPath))
	assert.True(t, strings.HasPrefix(filepath.Base(ta.data.LastPath), "pocket-"))
	assert.Contains(t, ta.out.String(), "Uploaded as backups/users/a@b.io/x.pocket")
}

func TestExport_ExplicitPathFailure(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	ta.data.ExportStat = common.StatNoNetwork

	err := ta.Export(context.Background(), []string{"/tmp/out.pocket"})

	require.Error(t, err)
	assert.Equal(t, "/tmp/out.pocket", ta.data.LastPath)
	assert.NotContains(t, ta.out.String(), "Uploaded")
}

func TestImport(t *testing.T) {
	t.Run("usage", func(t *testing.T) {
		ta := newTestApp(t, "")
		ta.login(t)
		assert.Error(t, ta.Import(context.Background(), nil))
		assert.Contains(t, ta.out.String(), "usage: import <path>")
	})

	t.Run("push failure is reported", func(t *testing.T) {
		ta := newTestApp(t, "")
		ta.login(t)
		ta.data.ImportStat = common.StatOK
		ta.data.PushStat = common.StatNoNetwork

		err := ta.Import(context.Background(), []string{"in.pocket"})

		var se *StatError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "push", se.Op)
		assert.Contains(t, ta.out.String(), "import in.pocket")
	})

	t.Run("import failure", func(t *testing.T) {
		ta := newTestApp(t, "")
		ta.login(t)
		ta.data.ImportStat = common.StatJSONParsingError

		err := ta.Import(context.Background(), []string{"in.pocket"})

		var se *StatError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "import in.pocket", se.Op)
	})
}

func TestDataCommands_RequireSession(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, ta.Sync(ctx), errNotLoggedIn)
	assert.ErrorIs(t, ta.Export(ctx, nil), errNotLoggedIn)
	assert.ErrorIs(t, ta.Import(ctx, []string{"x"}), errNotLoggedIn)
}
