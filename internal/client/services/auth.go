// Package services contains the application services of the pocket client.
// This file defines the authentication service: device registration, login
// into a session, logout, password change and the liveness heartbeat.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/client"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/metadata"
	"github.com/passy1977/pocket-web-backend/internal/client/session"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/cryptox"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: store the device configuration encrypted with the password.
//   - Login: unlock the device configuration, authenticate against the
//     server and open a session. A previous session of the same user is
//     replaced.
//   - Logout: end the session. A hard logout also invalidates the device and
//     wipes the local metadata.
//   - ChangePasswd: change the password remotely and re-encrypt the device.
//   - Heartbeat: check the token and the server-side user version.
//   - Close: release the underlying client.
//
// Failures are reported as a common.Stat, never as a panic.
type AuthService interface {
	Register(ctx context.Context, email string, passwd []byte, device *models.Device) common.Stat
	Login(ctx context.Context, email string, passwd []byte) (*session.Session, common.Stat)
	Logout(ctx context.Context, sess *session.Session, hard bool) common.Stat
	ChangePasswd(ctx context.Context, sess *session.Session, newPasswd []byte) common.Stat
	Heartbeat(ctx context.Context, sess *session.Session) common.Stat
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	meta     metadata.Repository
	sessions *session.Registry
	useAES   bool
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given client, the
// local metadata store and the session registry.
func NewAuthService(c client.Client, meta metadata.Repository, sessions *session.Registry, useAES bool, logger logging.Logger) AuthService {
	return &authService{
		client:   c,
		meta:     meta,
		sessions: sessions,
		useAES:   useAES,
		log:      logging.Component(logger, "auth"),
	}
}

func deviceKey(email string) string {
	return "device:" + strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) saveDevice(ctx context.Context, email string, passwd []byte, device *models.Device) error {
	plain, err := json.Marshal(device)
	if err != nil {
		return fmt.Errorf("device encoding error: %w", err)
	}
	defer common.WipeByteArray(plain)

	blob, err := cryptox.EncryptBlob(passwd, plain)
	if err != nil {
		return fmt.Errorf("device encryption error: %w", err)
	}
	if err := a.meta.Set(ctx, deviceKey(email), []byte(blob)); err != nil {
		return fmt.Errorf("device saving error: %w", err)
	}
	return nil
}

// loadDevice unlocks the stored device of email with passwd.
func (a *authService) loadDevice(ctx context.Context, email string, passwd []byte) (*models.Device, common.Stat) {
	blob, err := a.meta.Get(ctx, deviceKey(email))
	if err != nil {
		a.log.Error(ctx, "device loading failed", "error", err)
		return nil, common.StatDBGenericError
	}
	if blob == nil {
		return nil, common.StatDeviceNotFound
	}

	plain, err := cryptox.DecryptBlob(passwd, string(blob))
	switch {
	case errors.Is(err, common.ErrWrongPassword):
		return nil, common.StatPasswdError
	case err != nil:
		a.log.Warn(ctx, "device blob unreadable", "error", err)
		return nil, common.StatJSONParsingError
	}
	defer common.WipeByteArray(plain)

	var d models.Device
	if err := json.Unmarshal(plain, &d); err != nil {
		return nil, common.StatJSONParsingError
	}
	if err := models.Validate(&d); err != nil {
		return nil, common.StatLocalDeviceIDNotMatch
	}
	return &d, common.StatReady
}

func (a *authService) Register(ctx context.Context, email string, passwd []byte, device *models.Device) common.Stat {
	if email == "" || len(passwd) == 0 {
		return common.StatPasswdError
	}
	if device == nil || models.Validate(device) != nil {
		return common.StatLocalDeviceIDNotMatch
	}
	if err := a.saveDevice(ctx, email, passwd, device); err != nil {
		a.log.Error(ctx, "register failed", "error", err)
		return common.StatDBGenericError
	}
	a.log.Info(ctx, "device registered", "device", device.DeviceID, "host", device.Host)
	return common.StatOK
}

func (a *authService) Login(ctx context.Context, email string, passwd []byte) (*session.Session, common.Stat) {
	device, st := a.loadDevice(ctx, email, passwd)
	if !st.IsSuccess() {
		return nil, st
	}

	a.client.Configure(device)
	user, err := a.client.Login(ctx, email, passwd, a.useAES)
	if err != nil {
		a.log.Warn(ctx, "login failed", "error", err)
		return nil, a.failure()
	}

	if prev, ok := a.sessions.FindByEmail(user.Email); ok {
		a.sessions.Remove(prev.ID)
	}
	sess := session.New(user, device)
	a.sessions.Add(sess)
	return sess, common.StatOK
}

// failure reads the status left by the client, falling back to ERROR.
func (a *authService) failure() common.Stat {
	st := a.client.Status()
	if st.IsSuccess() {
		return common.StatError
	}
	return st
}

func (a *authService) Logout(ctx context.Context, sess *session.Session, hard bool) common.Stat {
	user := sess.User()
	if user == nil {
		return common.StatUserNotFound
	}
	defer user.Wipe()

	var err error
	if hard {
		err = a.client.Invalidate(ctx, user)
	} else {
		err = a.client.Logout(ctx, user)
	}
	// the local session ends even when the server cannot be reached
	a.sessions.Remove(sess.ID)
	if err != nil {
		a.log.Warn(ctx, "logout failed", "hard", hard, "error", err)
		return a.failure()
	}

	if hard {
		if err := a.meta.Clear(ctx); err != nil {
			a.log.Error(ctx, "metadata clearing failed", "error", err)
			return common.StatDBGenericError
		}
	}
	return common.StatOK
}

func (a *authService) ChangePasswd(ctx context.Context, sess *session.Session, newPasswd []byte) common.Stat {
	if len(newPasswd) == 0 {
		return common.StatPasswdError
	}
	user := sess.User()
	if user == nil {
		return common.StatUserNotFound
	}
	defer user.Wipe()

	unlock := sess.LockPush()
	defer unlock()

	updated, err := a.client.ChangePasswd(ctx, user, newPasswd, a.useAES)
	if err != nil {
		a.log.Warn(ctx, "password change failed", "error", err)
		return a.failure()
	}
	sess.ReplaceUser(updated)

	device := sess.Device()
	if device == nil {
		return common.StatDeviceNotFound
	}
	if err := a.saveDevice(ctx, user.Email, newPasswd, device); err != nil {
		a.log.Error(ctx, "device re-encryption failed", "error", err)
		return common.StatDBGenericError
	}
	return common.StatOK
}

func (a *authService) Heartbeat(ctx context.Context, sess *session.Session) common.Stat {
	user := sess.User()
	if user == nil {
		return common.StatUserNotFound
	}
	defer user.Wipe()

	if err := a.client.Heartbeat(ctx, user); err != nil {
		return a.failure()
	}
	_ = a.sessions.Touch(sess.ID, time.Now())
	return common.StatOK
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
