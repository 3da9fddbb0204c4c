package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context, args []string) error
	Passwd(ctx context.Context) error

	Groups(ctx context.Context, args []string) error
	Cd(ctx context.Context, args []string) error
	Up(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	AddGroup(ctx context.Context) error
	Edit(ctx context.Context) error
	RmGroup(ctx context.Context, args []string) error
	AddField(ctx context.Context) error
	RmField(ctx context.Context, args []string) error
	Copy(ctx context.Context, args []string, move bool) error

	Sync(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: groups [search], cd <id>, up, show [search], addgroup, edit, rmgroup <id>,\n" +
		"  addfield, rmfield <id>, cp|mv group|field <src> <dst>, sync, export [path], import <path>,\n" +
		"  passwd, logout [--hard], help, exit"
)

// runREPL starts a simple read–eval–print loop for the pocket CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The same reader is shared with the prompts
// of the commands. The loop exits on EOF, on "exit"/"quit", or when ctx is
// done.
//
// Any errors returned by command handlers are ignored here; handlers print
// their own outcome. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pocket %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		dispatch(ctx, a, parts[0], parts[1:])
		if parts[0] == "exit" || parts[0] == "quit" || err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	case "logout":
		_ = a.Logout(ctx, args)
	case "passwd":
		_ = a.Passwd(ctx)
	case "groups", "ls":
		_ = a.Groups(ctx, args)
	case "cd":
		_ = a.Cd(ctx, args)
	case "up", "..":
		_ = a.Up(ctx)
	case "show":
		_ = a.Show(ctx, args)
	case "addgroup":
		_ = a.AddGroup(ctx)
	case "edit":
		_ = a.Edit(ctx)
	case "rmgroup":
		_ = a.RmGroup(ctx, args)
	case "addfield":
		_ = a.AddField(ctx)
	case "rmfield":
		_ = a.RmField(ctx, args)
	case "cp":
		_ = a.Copy(ctx, args, false)
	case "mv":
		_ = a.Copy(ctx, args, true)
	case "sync":
		_ = a.Sync(ctx)
	case "export":
		_ = a.Export(ctx, args)
	case "import":
		_ = a.Import(ctx, args)
	case "exit", "quit":
		printlnFn("Bye!")
	default:
		printlnFn("Unknown command:", cmd)
	}
}
