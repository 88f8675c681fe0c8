package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/dzaky3022/wincal/internal/client/api"
	"github.com/dzaky3022/wincal/internal/client/client"
	"github.com/dzaky3022/wincal/internal/client/config"
	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/client/services"
	"github.com/dzaky3022/wincal/internal/client/sync"
	"github.com/dzaky3022/wincal/internal/filex"
	"github.com/dzaky3022/wincal/internal/logging"
	"github.com/dzaky3022/wincal/internal/netx"

	_ "modernc.org/sqlite"
)

// App ties the CLI together. The repositories, blob store and
// connectivity monitor live for the whole process; everything keyed to an
// identity (remote client, result service, sync manager) is rebuilt on
// every sign-in and torn down on sign-out.
type App struct {
	config  *config.Config
	log     logging.Logger
	repos   *client.Repositories
	blobs   *filex.Store
	auth    *services.AuthService
	monitor *netx.Monitor

	user    *models.User
	results *services.ResultService
	manager *sync.Manager

	reader *bufio.Reader
	titles *TitleGenerator
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	blobDir, err := filex.EnsureSubDir(c.BlobDirName)
	if err != nil {
		return nil, err
	}
	blobs, err := filex.NewStore(blobDir)
	if err != nil {
		return nil, err
	}

	return &App{
		config:  c,
		log:     log,
		repos:   repos,
		blobs:   blobs,
		auth:    services.NewAuthService(repos.Metadata, log),
		monitor: netx.NewMonitor(netx.DialProbe(c.ProbeAddr, 2*time.Second), c.ProbeInterval),
		reader:  bufio.NewReader(os.Stdin),
		titles:  NewTitleGenerator(),
	}, nil
}

// Run starts the connectivity monitor, restores a previous session if one
// exists, and hands control to the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer a.repos.DB.Close()
	defer a.endSession()

	netx.Initialize(ctx, a.monitor)
	defer netx.Cleanup()

	if user, err := a.auth.CurrentUser(ctx); err == nil {
		a.startSession(ctx, user)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// startSession builds the identity-scoped half of the app and launches
// the background sync for it.
func (a *App) startSession(ctx context.Context, user *models.User) {
	apiClient := api.NewRestClient(a.config.ServerBaseURL, user.ID, a.config.RequestTimeout)
	results := services.NewResultService(user.ID, a.repos.Results, apiClient, a.blobs, a.log)

	worker := sync.NewWorker(results, a.auth, a.monitor, sync.WorkerOptions{
		BackoffMin: a.config.BackoffMin,
		MaxRuntime: a.config.SyncMaxRuntime,
	}, a.log)
	manager := sync.NewManager(worker, a.monitor, a.config.SyncInterval, a.log)
	manager.Start(ctx)
	go a.printSyncResults(ctx, manager.Results())

	a.user = user
	a.results = results
	a.manager = manager
}

// endSession stops the background sync and forgets the identity-scoped
// state. Safe to call with no session.
func (a *App) endSession() {
	if a.manager != nil {
		a.manager.Stop()
	}
	a.user = nil
	a.results = nil
	a.manager = nil
}

func (a *App) printSyncResults(ctx context.Context, ch <-chan sync.Result) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-ch:
			if !ok {
				return
			}
			printlnFn("[sync] " + r.Message)
		}
	}
}
