package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// newViewContext scopes one command: the context ends when the command
// returns or when the user presses Ctrl-C while it runs.
var newViewContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isAuthenticated() bool
	takeRedirect() bool
	guard(ctx context.Context, cmd func(context.Context) error) error

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, filter listFilter) error
	Show(ctx context.Context, args []string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL starts a read–eval–print loop for the blogdesk client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on end of input or when the
// user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current user (from statusFn) and accepts:
//
//	Anyone:
//	  - help                  show available commands
//	  - register              create an account and log in
//	  - login                 authenticate
//	  - whoami                show the session
//	  - exit | quit           leave the program
//
//	Logged in (others are sent to login first):
//	  - list | l              all posts
//	  - drafts | published    one side of the list
//	  - show <id>             one post
//	  - new                   compose a post
//	  - edit <id>             edit a post
//	  - delete <id>...        delete posts after confirmation
//	  - logout                log out
//
// Whenever the session ends (logout or a rejected token) the next prompt is
// replaced by the login flow. Errors returned by handlers are ignored here;
// handlers report them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	run := func(cmd func(context.Context) error) {
		vctx, cancel := newViewContext(ctx)
		defer cancel()
		_ = cmd(vctx)
	}
	guarded := func(cmd func(context.Context) error) {
		run(func(vctx context.Context) error { return a.guard(vctx, cmd) })
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if a.takeRedirect() {
			printlnFn("You are logged out. Please log in.")
			run(a.Login)
		}

		printlnFn(fmt.Sprintf("blogdesk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isAuthenticated() {
				printlnFn("Available commands: (l)ist, drafts, published, show <id>, new, edit <id>, delete <id>..., whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, whoami, exit")
			}

		case "register":
			run(a.Register)

		case "login":
			run(a.Login)

		case "logout":
			run(a.Logout)

		case "whoami":
			run(a.WhoAmI)

		case "l", "list":
			guarded(func(c context.Context) error { return a.List(c, filterAll) })

		case "drafts":
			guarded(func(c context.Context) error { return a.List(c, filterDrafts) })

		case "published":
			guarded(func(c context.Context) error { return a.List(c, filterPublished) })

		case "show":
			guarded(func(c context.Context) error { return a.Show(c, args) })

		case "new":
			guarded(a.New)

		case "edit":
			guarded(func(c context.Context) error { return a.Edit(c, args) })

		case "delete", "rm":
			guarded(func(c context.Context) error { return a.Delete(c, args) })

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
