package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/passy1977/pocket-web-backend/internal/common"
)

func okMark() string { return color.GreenString("✓") }
func failMark() string { return color.RedString("✗") }
func hint(cmd string) string {
	return color.YellowString(cmd)
}

// StatError is returned by commands whose operation ended with a failure
// status.
type StatError struct {
	Op   string
	Stat common.Stat
}

func (e *StatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Stat)
}

// recovery suggests what the user can do about st.
func recovery(st common.Stat) string {
	switch st {
	case common.StatNoNetwork:
		return "Changes are kept locally, run " + hint("sync") + " when the server is reachable"
	case common.StatTimestampLastUpdateNotMatch:
		return "The vault changed on the server, run " + hint("sync")
	case common.StatSecretNotMatch, common.StatDeviceIDNotMatch, common.StatUserNotFound:
		return "Run " + hint("login") + " again"
	case common.StatDeviceNotFound, common.StatLocalDeviceIDNotMatch:
		return "Run " + hint("register") + " first"
	case common.StatPasswdError:
		return "Check your password"
	default:
		return ""
	}
}

// report prints the outcome of op and returns a *StatError on failure.
func (a *App) report(op string, st common.Stat) error {
	if st.IsSuccess() {
		fmt.Fprintln(a.out, okMark()+" "+op)
		return nil
	}
	if st == common.StatNoNetwork {
		a.setMode(ModeOffline)
	}
	fmt.Fprintf(a.out, "%s %s failed: %s\n", failMark(), op, color.CyanString(st.String()))
	if h := recovery(st); h != "" {
		fmt.Fprintln(a.out, color.CyanString("→")+" "+h)
	}
	return &StatError{Op: op, Stat: st}
}

// withSpinner runs fn while a spinner with msg is shown. The spinner only
// draws on a terminal.
func (a *App) withSpinner(msg string, fn func() common.Stat) common.Stat {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.out))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()
	return fn()
}
