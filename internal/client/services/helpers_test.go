package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/client"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/session"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func openRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), "sqlite", filepath.Join(t.TempDir(), "pocket.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(&models.User{
		ID: 7, Email: "a@b.io", Password: []byte("pw"), TimestampLastUpdate: 100,
	}, models.NewDevice("127.0.0.1:50051", "secret"))
}

// ---- fake client ----

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	// behaviour/results
	Stat common.Stat

	LoginUser *models.User
	LoginErr  error

	SendDataTimestamp int64
	SendDataErr       error
	SendDataStat      common.Stat

	ChangePasswdErr error
	LogoutErr       error
	InvalidateErr   error
	CopyErr         error
	ExportErr       error
	ImportErr       error
	HeartbeatErr    error
	CloseErr        error

	ExportBody []byte

	// for argument checks
	LastDevice      *models.Device
	LastLoginEmail  string
	LastLoginPasswd []byte
	LastSendUser    *models.User
	LastTimeouts    client.Timeouts
	LastNewPasswd   []byte
	LastCopy        [3]int64 // src, dst, move
	LastCopyKind    string
	LastPath        string

	SendDataCalls  int
	LogoutCalls    int
	InvalidateCall int
	ImportCalls    int
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) fail(err error, stat common.Stat) error {
	f.Stat = stat
	return err
}

func (f *fakeClient) Configure(d *models.Device) { f.LastDevice = d }

func (f *fakeClient) Login(ctx context.Context, email string, passwd []byte, useAES bool) (*models.User, error) {
	f.LastLoginEmail = email
	f.LastLoginPasswd = append([]byte(nil), passwd...)
	if f.LoginErr != nil {
		return nil, f.fail(f.LoginErr, common.StatSecretNotMatch)
	}
	u := f.LoginUser.Clone()
	if u == nil {
		u = &models.User{ID: 7, Email: email}
	}
	u.Password = append([]byte(nil), passwd...)
	f.Stat = common.StatOK
	return u, nil
}

func (f *fakeClient) Logout(ctx context.Context, user *models.User) error {
	f.LogoutCalls++
	if f.LogoutErr != nil {
		return f.fail(f.LogoutErr, common.StatNoNetwork)
	}
	return nil
}

func (f *fakeClient) Invalidate(ctx context.Context, user *models.User) error {
	f.InvalidateCall++
	if f.InvalidateErr != nil {
		return f.fail(f.InvalidateErr, common.StatNoNetwork)
	}
	return nil
}

func (f *fakeClient) SendData(ctx context.Context, user *models.User, t client.Timeouts) (*models.User, error) {
	f.SendDataCalls++
	f.LastSendUser = user.Clone()
	f.LastTimeouts = t
	if f.SendDataErr != nil {
		return nil, f.fail(f.SendDataErr, f.SendDataStat)
	}
	u := user.Clone()
	u.TimestampLastUpdate = f.SendDataTimestamp
	f.Stat = common.StatOK
	return u, nil
}

func (f *fakeClient) ChangePasswd(ctx context.Context, user *models.User, newPasswd []byte, useAES bool) (*models.User, error) {
	f.LastNewPasswd = append([]byte(nil), newPasswd...)
	if f.ChangePasswdErr != nil {
		return nil, f.fail(f.ChangePasswdErr, common.StatPasswdError)
	}
	u := user.Clone()
	u.Password = append([]byte(nil), newPasswd...)
	u.TimestampLastUpdate++
	return u, nil
}

func (f *fakeClient) CopyGroup(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error {
	return f.copy("group", srcID, dstID, move)
}

func (f *fakeClient) CopyField(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error {
	return f.copy("field", srcID, dstID, move)
}

func (f *fakeClient) copy(kind string, srcID, dstID int64, move bool) error {
	f.LastCopyKind = kind
	f.LastCopy = [3]int64{srcID, dstID, 0}
	if move {
		f.LastCopy[2] = 1
	}
	if f.CopyErr != nil {
		return f.fail(f.CopyErr, common.StatDBGroupError)
	}
	return nil
}

func (f *fakeClient) ExportData(ctx context.Context, user *models.User, path string, useAES bool) error {
	f.LastPath = path
	if f.ExportErr != nil {
		return f.fail(f.ExportErr, common.StatNoNetwork)
	}
	return os.WriteFile(path, f.ExportBody, 0o600)
}

func (f *fakeClient) ImportData(ctx context.Context, user *models.User, path string, useAES bool) error {
	f.ImportCalls++
	f.LastPath = path
	if f.ImportErr != nil {
		return f.fail(f.ImportErr, common.StatJSONParsingError)
	}
	return nil
}

func (f *fakeClient) Heartbeat(ctx context.Context, user *models.User) error {
	if f.HeartbeatErr != nil {
		return f.fail(f.HeartbeatErr, common.StatTimestampLastUpdateNotMatch)
	}
	return nil
}

func (f *fakeClient) IsNoNetwork() bool { return f.Stat == common.StatNoNetwork }
func (f *fakeClient) Status() common.Stat { return f.Stat }
func (f *fakeClient) SetTimeout(d time.Duration) {}
func (f *fakeClient) SetConnectTimeout(d time.Duration) {}
func (f *fakeClient) Timeouts() client.Timeouts {
	return client.Timeouts{Request: 5 * time.Second, Connect: time.Second}
}
func (f *fakeClient) Close() error { return f.CloseErr }

func nopLogger() logging.Logger { return logging.Nop() }
