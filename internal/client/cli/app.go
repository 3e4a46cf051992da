package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/datavault/internal/client/api"
	"github.com/dmitrijs2005/datavault/internal/client/config"
	"github.com/dmitrijs2005/datavault/internal/client/session"
	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/rs/zerolog"
)

// App carries the state shared by all commands of one invocation.
type App struct {
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	stdinFd int

	configPath string
	overrides  config.Overrides
	verbose    bool

	cfg    *config.Config
	store  *session.Store
	sess   *session.Session
	api    *api.Client
	logger logging.Logger
	now    func() time.Time
}

func NewApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		in:      bufio.NewReader(in),
		out:     out,
		errOut:  errOut,
		stdinFd: int(os.Stdin.Fd()),
		now:     time.Now,
	}
}

// setup loads configuration and the saved session. It runs before every
// command.
func (a *App) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.overrides.Apply(cfg)
	a.cfg = cfg

	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = logging.NewZerologLogger(
		zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, NoColor: true}).Level(level).With().Timestamp().Logger(),
	)

	a.api = api.New(cfg.ServerURL, cfg.Timeout, a.logger)
	a.api.SetDebug(a.verbose)
	a.api.OnRefresh(a.saveRefreshed)

	a.store = session.NewStore(cfg.SessionFile)
	sess, err := a.store.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		return nil
	case err != nil:
		return err
	}

	if sess.ServerURL != cfg.ServerURL {
		a.logger.Debug(context.Background(), "ignoring session for another server", "session_server", sess.ServerURL)
		return nil
	}
	a.sess = sess
	a.api.SetTokens(sess.AccessToken, sess.RefreshToken)
	return nil
}

// requireSession fails unless a session for the configured server exists.
func (a *App) requireSession() error {
	if a.sess == nil {
		return api.ErrNotLoggedIn
	}
	return nil
}

func (a *App) startSession(username string, pair *models.TokenPair) error {
	a.sess = &session.Session{
		ServerURL:    a.cfg.ServerURL,
		Username:     username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    a.expiry(pair.ExpiresIn),
	}
	if err := a.store.Save(a.sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (a *App) saveRefreshed(pair models.TokenPair) error {
	if a.sess == nil {
		return nil
	}
	a.sess.AccessToken = pair.AccessToken
	a.sess.RefreshToken = pair.RefreshToken
	a.sess.ExpiresAt = a.expiry(pair.ExpiresIn)
	a.logger.Debug(context.Background(), "access token refreshed", "expires_at", a.sess.ExpiresAt)
	return a.store.Save(a.sess)
}

func (a *App) expiry(seconds int64) time.Time {
	return a.now().Add(time.Duration(seconds) * time.Second).UTC()
}

func (a *App) endSession() error {
	a.sess = nil
	return a.store.Clear()
}
