package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/backup"
	"github.com/passy1977/pocket-web-backend/internal/client/client"
	"github.com/passy1977/pocket-web-backend/internal/client/config"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/services"
	"github.com/passy1977/pocket-web-backend/internal/client/session"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	data     services.DataService
	sessions *session.Registry
	log      logging.Logger

	// hierarchyFor builds the hierarchy controller of a fresh session.
	hierarchyFor func(*session.Session) *services.Hierarchy

	sess *session.Session
	tree *services.Hierarchy
	// path holds the groups entered with cd, innermost last.
	path []*models.Group

	// mu guards sess, tree and Mode against the heartbeat watcher.
	mu     sync.Mutex
	Mode   Mode
	reader *bufio.Reader
	out    io.Writer

	closeDB func() error
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, repos, c.Timeouts(), logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	var uploader backup.Uploader
	if c.Backup().Enabled() {
		u, err := backup.NewS3Uploader(ctx, c.Backup())
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		uploader = u
	}

	sessions := session.NewRegistry(c.SessionExpiration, logger)
	return &App{
		config:   c,
		auth:     services.NewAuthService(apiClient, repos.Metadata, sessions, c.UseAES, logger),
		data:     services.NewDataService(apiClient, uploader, c.UseAES, logger),
		sessions: sessions,
		log:      logging.Component(logger, "cli"),
		hierarchyFor: func(s *session.Session) *services.Hierarchy {
			return services.NewSessionHierarchy(s, repos, apiClient, logger)
		},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closeDB: repos.Close,
	}, nil
}

// Run starts the background workers and the REPL, and blocks until the user
// exits or ctx is done. The caller closes the App.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.sessions.Run(ctx, time.Minute)
	go a.StartHeartbeatWatcher(ctx, a.config.HeartbeatInterval)

	fmt.Fprintln(a.out, "Welcome to pocket (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close(ctx context.Context) {
	if a.sess != nil {
		a.sessions.Remove(a.sess.ID)
		a.sess = nil
	}
	if err := a.auth.Close(ctx); err != nil {
		a.log.Warn(ctx, "client close failed", "error", err)
	}
	if a.closeDB != nil {
		_ = a.closeDB()
	}
}

func (a *App) isLoggedIn() bool {
	if a.sess == nil {
		return false
	}
	// the registry may have expired the session in the background
	if _, err := a.sessions.Get(a.sess.ID); err != nil {
		a.endSession()
		return false
	}
	return true
}

func (a *App) startSession(s *session.Session) {
	tree := a.hierarchyFor(s)
	a.mu.Lock()
	a.sess, a.tree = s, tree
	a.mu.Unlock()
	a.path = nil
	a.setMode(ModeOnline)
}

func (a *App) endSession() {
	a.mu.Lock()
	a.sess, a.tree = nil, nil
	a.mu.Unlock()
	a.path = nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) currentGroup() *models.Group {
	if len(a.path) == 0 {
		return nil
	}
	return a.path[len(a.path)-1]
}

// currentGroupID is 0 at the top level.
func (a *App) currentGroupID() int64 {
	if g := a.currentGroup(); g != nil {
		return g.ID
	}
	return 0
}

func (a *App) getStatus() string {
	if a.sess == nil {
		return ""
	}
	titles := make([]string, 0, len(a.path))
	for _, g := range a.path {
		titles = append(titles, g.Title)
	}
	s := a.sess.Email() + " /" + strings.Join(titles, "/")
	a.mu.Lock()
	mode := a.Mode
	a.mu.Unlock()
	if mode != "" {
		s += " " + string(mode)
	}
	return fmt.Sprintf("(%s)", s)
}

// StartHeartbeatWatcher probes the server every interval and switches the
// mode accordingly. A stale user version triggers a push.
func (a *App) StartHeartbeatWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.heartbeat(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) heartbeat(ctx context.Context) {
	a.mu.Lock()
	sess, tree := a.sess, a.tree
	a.mu.Unlock()
	if sess == nil {
		return
	}
	switch st := a.auth.Heartbeat(ctx, sess); st {
	case common.StatOK:
		a.setMode(ModeOnline)
	case common.StatNoNetwork:
		a.setMode(ModeOffline)
	case common.StatTimestampLastUpdateNotMatch:
		a.log.Info(ctx, "remote vault changed, pushing")
		if tree != nil {
			tree.Sync(ctx)
		}
	default:
		a.log.Warn(ctx, "heartbeat failed", "status", st.String())
	}
}

var errNotLoggedIn = errors.New("not logged in")

func (a *App) requireSession() error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, failMark()+" Not logged in, use "+hint("login"))
		return errNotLoggedIn
	}
	return nil
}
