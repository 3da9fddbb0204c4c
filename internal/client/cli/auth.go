package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/session"
	"github.com/passy1977/pocket-web-backend/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register stores the device configuration issued by the server, encrypted
// with the user password.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	host, err := getSimpleText(a.reader, fmt.Sprintf("Server address [%s]", a.config.ServerEndpointAddr), a.out)
	if err != nil {
		return err
	}
	if host == "" {
		host = a.config.ServerEndpointAddr
	}
	secret, err := getPassword(a.out, "Device secret")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	device := models.NewDevice(host, string(secret))
	return a.report("register "+email, a.auth.Register(ctx, email, password, device))
}

// Login prompts for credentials and opens a session. An already open session
// of the same user is replaced.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	var sess *session.Session
	st := a.withSpinner("Logging in...", func() common.Stat {
		var st common.Stat
		sess, st = a.auth.Login(ctx, email, password)
		return st
	})
	if err := a.report("login", st); err != nil {
		return err
	}
	a.startSession(sess)
	return nil
}

// Logout ends the session. With --hard the device is invalidated on the
// server and the local device configuration is wiped.
func (a *App) Logout(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	hard := len(args) > 0 && args[0] == "--hard"

	st := a.withSpinner("Logging out...", func() common.Stat {
		return a.auth.Logout(ctx, a.sess, hard)
	})
	a.endSession()
	return a.report("logout", st)
}

func (a *App) Passwd(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	first, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(first)
	second, err := getPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		return a.report("passwd", common.StatPasswdError)
	}
	st := a.withSpinner("Changing password...", func() common.Stat {
		return a.auth.ChangePasswd(ctx, a.sess, first)
	})
	return a.report("passwd", st)
}
