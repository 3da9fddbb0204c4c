// Package syncer pushes local changes to the remote store and installs the
// server copy of the user in the session.
package syncer

import (
	"context"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/client"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

// Pusher is the part of client.Client used by the coordinator.
type Pusher interface {
	SendData(ctx context.Context, user *models.User, t client.Timeouts) (*models.User, error)
	Status() common.Stat
}

// Session owns the user being pushed.
type Session interface {
	User() *models.User
	ReplaceUser(u *models.User)
	LockPush() (unlock func())
}

type Coordinator struct {
	sess     Session
	pusher   Pusher
	defaults client.Timeouts
	log      logging.Logger
}

func New(sess Session, pusher Pusher, defaults client.Timeouts, logger logging.Logger) *Coordinator {
	return &Coordinator{
		sess:     sess,
		pusher:   pusher,
		defaults: defaults,
		log:      logging.Component(logger, "syncer"),
	}
}

// Sync pushes with the configured timeouts.
func (c *Coordinator) Sync(ctx context.Context) common.Stat {
	if c == nil {
		return common.StatError
	}
	return c.SyncWithTimeouts(ctx, c.defaults.Request, c.defaults.Connect)
}

// SyncWithTimeouts pushes the session user and, on success, replaces it with
// the server copy. On failure the user is left untouched and the client
// status is returned. Zero timeouts mean no limit. Only one push per session
// runs at a time.
func (c *Coordinator) SyncWithTimeouts(ctx context.Context, timeout, connectTimeout time.Duration) common.Stat {
	if c == nil || c.sess == nil || c.pusher == nil {
		return common.StatError
	}

	unlock := c.sess.LockPush()
	defer unlock()

	user := c.sess.User()
	if user == nil {
		return common.StatUserNotFound
	}
	defer user.Wipe()

	fresh, err := c.pusher.SendData(ctx, user, client.Timeouts{Request: timeout, Connect: connectTimeout})
	if err != nil || fresh == nil {
		stat := c.pusher.Status()
		if stat.IsSuccess() {
			stat = common.StatError
		}
		c.log.Warn(ctx, "push failed", "status", stat.String(), "error", err)
		return stat
	}

	c.sess.ReplaceUser(fresh)
	c.log.Debug(ctx, "push completed", "timestamp_last_update", fresh.TimestampLastUpdate)
	return common.StatOK
}
