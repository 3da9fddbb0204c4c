package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/client"
	"github.com/passy1977/pocket-web-backend/internal/client/config"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/services"
	"github.com/passy1977/pocket-web-backend/internal/client/session"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAuth records calls and opens sessions in the shared registry.
type fakeAuth struct {
	sessions *session.Registry

	RegisterStat  common.Stat
	LoginStat     common.Stat
	LogoutStat    common.Stat
	PasswdStat    common.Stat
	HeartbeatStat common.Stat

	LastEmail  string
	LastPasswd string
	LastDevice *models.Device
	LastHard   bool
	NewPasswd  string
	Closed     bool
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Register(ctx context.Context, email string, passwd []byte, device *models.Device) common.Stat {
	f.LastEmail, f.LastPasswd, f.LastDevice = email, string(passwd), device
	return f.RegisterStat
}

func (f *fakeAuth) Login(ctx context.Context, email string, passwd []byte) (*session.Session, common.Stat) {
	f.LastEmail, f.LastPasswd = email, string(passwd)
	if !f.LoginStat.IsSuccess() {
		return nil, f.LoginStat
	}
	s := session.New(&models.User{ID: 1, Email: email, Password: append([]byte(nil), passwd...), TimestampLastUpdate: 10},
		models.NewDevice("127.0.0.1:50051", "secret"))
	f.sessions.Add(s)
	return s, common.StatOK
}

func (f *fakeAuth) Logout(ctx context.Context, sess *session.Session, hard bool) common.Stat {
	f.LastHard = hard
	f.sessions.Remove(sess.ID)
	return f.LogoutStat
}

func (f *fakeAuth) ChangePasswd(ctx context.Context, sess *session.Session, newPasswd []byte) common.Stat {
	f.NewPasswd = string(newPasswd)
	return f.PasswdStat
}

func (f *fakeAuth) Heartbeat(ctx context.Context, sess *session.Session) common.Stat {
	return f.HeartbeatStat
}

func (f *fakeAuth) Close(ctx context.Context) error {
	f.Closed = true
	return nil
}

type fakeData struct {
	Key        string
	ExportStat common.Stat
	ImportStat common.Stat
	PushStat   common.Stat
	LastPath   string
}

var _ services.DataService = (*fakeData)(nil)

func (f *fakeData) Export(ctx context.Context, sess *session.Session, path string) (string, common.Stat) {
	f.LastPath = path
	return f.Key, f.ExportStat
}

func (f *fakeData) Import(ctx context.Context, sess *session.Session, path string) (common.Stat, common.Stat) {
	f.LastPath = path
	return f.ImportStat, f.PushStat
}

// netClient is the remote side of the hierarchy. Methods the commands never
// reach panic through the embedded nil interface.
type netClient struct {
	client.Client

	stat   common.Stat
	pushes int
	copies []string
}

func (n *netClient) SendData(ctx context.Context, user *models.User, t client.Timeouts) (*models.User, error) {
	n.pushes++
	if !n.stat.IsSuccess() {
		return nil, &StatError{Op: "push", Stat: n.stat}
	}
	fresh := user.Clone()
	fresh.TimestampLastUpdate++
	return fresh, nil
}

func (n *netClient) CopyGroup(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error {
	n.copies = append(n.copies, "group")
	return nil
}

func (n *netClient) CopyField(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error {
	n.copies = append(n.copies, "field")
	return nil
}

func (n *netClient) Status() common.Stat { return n.stat }
func (n *netClient) Timeouts() client.Timeouts {
	return client.Timeouts{Request: time.Second, Connect: time.Second}
}

type testApp struct {
	*App
	auth *fakeAuth
	data *fakeData
	net  *netClient
	out  *bytes.Buffer
}

// newTestApp builds an App over a real sqlite store, reading prompts from
// input.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), "sqlite", filepath.Join(t.TempDir(), "pocket.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	sessions := session.NewRegistry(0, logging.Nop())
	fa := &fakeAuth{sessions: sessions}
	fd := &fakeData{}
	nc := &netClient{}
	out := &bytes.Buffer{}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()

	app := &App{
		config:   cfg,
		auth:     fa,
		data:     fd,
		sessions: sessions,
		log:      logging.Nop(),
		hierarchyFor: func(s *session.Session) *services.Hierarchy {
			return services.NewSessionHierarchy(s, repos, nc, logging.Nop())
		},
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}
	return &testApp{App: app, auth: fa, data: fd, net: nc, out: out}
}

// login opens a session without going through the prompts.
func (ta *testApp) login(t *testing.T) {
	t.Helper()
	s, st := ta.auth.Login(context.Background(), "a@b.io", []byte("pw"))
	require.Equal(t, common.StatOK, st)
	ta.startSession(s)
	ta.out.Reset()
}

var errNoInput = errors.New("no more input")

// stubPasswords makes getPassword return values in order.
func stubPasswords(t *testing.T, values ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(w io.Writer, prompt string) ([]byte, error) {
		if len(values) == 0 {
			return nil, errNoInput
		}
		v := values[0]
		values = values[1:]
		return []byte(v), nil
	}
}

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }
