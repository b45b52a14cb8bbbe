// Package auth owns the session lifecycle: sign-in (online or from the
// offline cache), sign-out, and starting/stopping background sync.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/udclean/udc/internal/bus"
	"github.com/udclean/udc/internal/remote"
	"github.com/udclean/udc/internal/store"
	"go.uber.org/zap"
)

// ErrOfflineNoSession is returned when offline sign-in finds no usable
// cached session.
var ErrOfflineNoSession = errors.New("auth: offline and no usable cached session")

// Remote is the slice of the backend the manager needs.
type Remote interface {
	SignIn(ctx context.Context, email, password string) (types.Session, error)
	SignOut(ctx context.Context) error
	RestoreSession(session types.Session)
	FetchProfile(ctx context.Context, id string) (*remote.ProfileRow, error)
}

// Syncer is the sync engine surface the manager drives.
type Syncer interface {
	SetUser(id string)
	ClearUser()
	StartAutoSync(ctx context.Context, interval time.Duration)
	StopAutoSync()
	SyncAll(ctx context.Context)
}

// Connectivity reports whether the remote service is reachable.
type Connectivity interface {
	Online() bool
}

// Manager glues the store, remote auth, and sync engine together.
type Manager struct {
	db       *store.DB
	remote   Remote
	engine   Syncer
	net      Connectivity
	bus      *bus.Bus
	logger   *zap.Logger
	interval time.Duration

	cancel context.CancelFunc
}

// NewManager creates a session lifecycle manager. interval is the
// auto-sync cadence handed to the engine on sign-in.
func NewManager(db *store.DB, r Remote, engine Syncer, net Connectivity, b *bus.Bus, logger *zap.Logger, interval time.Duration) *Manager {
	return &Manager{
		db:       db,
		remote:   r,
		engine:   engine,
		net:      net,
		bus:      b,
		logger:   logger,
		interval: interval,
	}
}

// SignIn authenticates and establishes the session. Offline, a cached
// session is honored only when the email matches and its token has not
// expired.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	if !m.net.Online() {
		return m.signInOffline(ctx, email)
	}

	session, err := m.remote.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return m.establish(ctx, session, true)
}

// Resume restores a previous session at startup: live when online,
// cached when not.
func (m *Manager) Resume(ctx context.Context) error {
	session, err := m.cachedSession()
	if err != nil {
		return err
	}
	if tokenExpired(session.AccessToken) {
		return ErrOfflineNoSession
	}
	if m.net.Online() {
		m.remote.RestoreSession(session)
	}
	return m.establish(ctx, session, m.net.Online())
}

// SignOut tears the session down: best-effort remote revocation, cache
// cleared, sync stopped.
func (m *Manager) SignOut(ctx context.Context) error {
	if m.net.Online() {
		if err := m.remote.SignOut(ctx); err != nil {
			m.logger.Warn("remote sign-out failed", zap.Error(err))
		}
	}
	if err := m.db.ClearSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.engine.ClearUser()
	m.engine.StopAutoSync()
	m.bus.Emit(bus.KindSignedOut, nil)
	return nil
}

// Watch reacts to connectivity-restore events with one immediate sync
// pass, so reconnection does not wait for the next timer tick.
func (m *Manager) Watch(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	ch, unsub := m.bus.Subscribe("net.", 16)
	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				if evt.Kind == bus.KindOnline {
					m.engine.SyncAll(ctx)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the Watch subscription.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Manager) signInOffline(ctx context.Context, email string) error {
	session, err := m.cachedSession()
	if err != nil {
		return err
	}
	if !strings.EqualFold(session.User.Email, email) {
		return ErrOfflineNoSession
	}
	if tokenExpired(session.AccessToken) {
		return ErrOfflineNoSession
	}
	return m.establish(ctx, session, false)
}

// establish binds the user to the engine, caches session and profile,
// and starts background sync. refresh controls whether the profile is
// re-fetched from the server.
func (m *Manager) establish(ctx context.Context, session types.Session, refresh bool) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.db.SaveSession(raw); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}

	userID := session.User.ID.String()
	m.engine.SetUser(userID)
	if refresh {
		m.cacheProfile(ctx, userID)
	}
	m.engine.StartAutoSync(ctx, m.interval)
	m.bus.Emit(bus.KindSignedIn, userID)
	return nil
}

func (m *Manager) cachedSession() (types.Session, error) {
	raw, err := m.db.GetSession()
	if errors.Is(err, store.ErrNotFound) {
		return types.Session{}, ErrOfflineNoSession
	}
	if err != nil {
		return types.Session{}, fmt.Errorf("read cached session: %w", err)
	}
	var session types.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return types.Session{}, fmt.Errorf("decode cached session: %w", err)
	}
	return session, nil
}

// cacheProfile refreshes the local profile snapshot. Best effort: a
// failure leaves the previous snapshot in place.
func (m *Manager) cacheProfile(ctx context.Context, userID string) {
	row, err := m.remote.FetchProfile(ctx, userID)
	if err != nil {
		m.logger.Warn("profile fetch failed", zap.Error(err), zap.String("user_id", userID))
		return
	}
	if err := m.db.SaveProfile(row.ToProfile()); err != nil {
		m.logger.Error("cache profile", zap.Error(err), zap.String("user_id", userID))
	}
}

// tokenExpired decodes the access token without verifying its signature;
// only the exp claim matters for offline continuity. Verification happens
// server-side on every remote call.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(time.Now())
}
