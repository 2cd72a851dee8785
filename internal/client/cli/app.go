package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dmitrijs2005/blogdesk/internal/client/client"
	"github.com/dmitrijs2005/blogdesk/internal/client/config"
	"github.com/dmitrijs2005/blogdesk/internal/client/images"
	"github.com/dmitrijs2005/blogdesk/internal/client/models"
	"github.com/dmitrijs2005/blogdesk/internal/client/services"
	"github.com/dmitrijs2005/blogdesk/internal/client/tokenstore"
	"github.com/dmitrijs2005/blogdesk/internal/filex"
	"github.com/dmitrijs2005/blogdesk/internal/logging"
)

// ErrLoginRequired is returned by guarded commands run without a session.
var ErrLoginRequired = errors.New("login required")

// sessionService is what the views need from services.SessionManager.
type sessionService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, req models.RegisterRequest) error
	Verify(ctx context.Context) error
	Logout(ctx context.Context) error
	Snapshot() models.Session
	State() models.SessionState
	IsAuthenticated() bool
	Subscribe(fn services.SessionListener) func()
}

// postRepository is what the views need from services.PostService.
type postRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Save(ctx context.Context, post models.Post, publish bool) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) services.BatchResult
}

type App struct {
	config  *config.Config
	session sessionService
	posts   postRepository
	images  images.Store
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// set by the session listener whenever the session drops to anonymous
	redirect atomic.Bool

	closers []func() error
}

// NewApp wires the local database, the API clients and the services
// described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, config.DBFileName))
	if err != nil {
		return nil, err
	}

	imgs, err := newImageStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := tokenstore.New(db)
	httpClient := &http.Client{Timeout: c.RequestTimeout}

	authAPI := client.NewAuthAPI(client.New(c.AuthBaseURL, httpClient, store, logger.With("api", "auth")))
	postsAPI := client.NewPostsAPI(client.New(c.APIBaseURL, httpClient, store, logger.With("api", "posts")))

	a := &App{
		config:  c,
		session: services.NewSessionManager(ctx, store, authAPI, logger),
		posts:   services.NewPostService(postsAPI, logger, c.DeleteConcurrency),
		images:  imgs,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []func() error{db.Close},
	}
	return a, nil
}

func newImageStore(ctx context.Context, c *config.Config) (images.Store, error) {
	switch c.ImageStore {
	case "", config.ImageStoreDataURL:
		return images.DataURLStore{}, nil
	case config.ImageStoreS3:
		return images.NewS3Store(ctx, c.S3)
	default:
		return nil, fmt.Errorf("unknown image store %q", c.ImageStore)
	}
}

// Run verifies a stored session, sends an anonymous user to the login entry
// point and then serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	unsubscribe := a.session.Subscribe(a.onSessionChange)
	defer unsubscribe()

	fmt.Fprintln(a.out, "Welcome to blogdesk (type 'help' for commands)")

	if a.session.State() == models.StateVerifying {
		vctx, cancel := newViewContext(ctx)
		if err := a.session.Verify(vctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
		}
		cancel()
	}
	a.redirect.Store(false)

	if !a.session.IsAuthenticated() {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close", "err", err)
		}
	}
	a.closers = nil
}

func (a *App) onSessionChange(state models.SessionState, _ models.Session) {
	if state == models.StateAnonymous {
		a.redirect.Store(true)
	}
}

// takeRedirect reports, once, that the session ended since the last prompt.
func (a *App) takeRedirect() bool {
	return a.redirect.Swap(false)
}

func (a *App) isAuthenticated() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	s := a.session.Snapshot()
	if !s.IsAuthenticated {
		return "(anonymous)"
	}
	if s.User == nil {
		return "(signed in)"
	}
	return "(" + s.User.DisplayName() + ")"
}

// guard runs cmd only for an authenticated session. Otherwise the user is
// sent to the login entry point first and cmd runs only if that succeeds.
func (a *App) guard(ctx context.Context, cmd func(context.Context) error) error {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "You need to log in first.")
		if err := a.Login(ctx); err != nil || !a.session.IsAuthenticated() {
			return ErrLoginRequired
		}
	}
	return cmd(ctx)
}

// fail prints err for the user. A rejected token triggers a session check,
// which resets the session when the server no longer accepts it.
func (a *App) fail(ctx context.Context, err error) error {
	fmt.Fprintln(a.out, "Error:", err.Error())
	if errors.Is(err, client.ErrUnauthorized) {
		if verr := a.session.Verify(ctx); verr != nil {
			a.logger.Info(ctx, "session rejected by server", "err", verr)
		}
	}
	return err
}

// compile-time check
var _ execIface = (*App)(nil)
