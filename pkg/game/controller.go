package game

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the controller's top-level screen state.
type State string

const (
	StateStart   State = "start"
	StatePlaying State = "playing"
)

// ErrNoSavedGame is returned by Continue when the save slot is empty
// or unreadable.
var ErrNoSavedGame = errors.New("no saved game")

// Controller is the top-level state machine wiring gateway, store and
// engine together: start / load / play / reset.
type Controller struct {
	mu      sync.Mutex
	state   State
	engine  *Engine
	gateway Gateway
	store   Store
	log     logrus.FieldLogger
}

// NewController starts in the START state with no active session.
func NewController(gateway Gateway, store Store, log logrus.FieldLogger) *Controller {
	return &Controller{
		state:   StateStart,
		gateway: gateway,
		store:   store,
		log:     log,
	}
}

// State reports the controller's current top-level state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Engine returns the active engine, or nil while in START.
func (c *Controller) Engine() *Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// HasSavedGame reports whether the save slot holds a loadable session.
func (c *Controller) HasSavedGame() bool {
	_, ok := c.store.Load()
	return ok
}

// NewGame transitions START -> PLAYING with a fresh session. The
// opening prompt is fixed, interpolated with the player's display
// name; a blank name falls back to the default.
func (c *Controller) NewGame(playerName string, imagesEnabled bool) *Engine {
	name := strings.TrimSpace(playerName)
	if name == "" {
		name = DefaultPlayerName
	}
	session := &Session{
		PlayerName:    name,
		OpeningPrompt: OpeningPrompt(name),
		Turns:         nil,
		ImagesEnabled: imagesEnabled,
		StartedAt:     time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gateway.ResetConversation()
	c.engine = NewEngine(session, c.gateway, c.store, c.log)
	c.state = StatePlaying
	c.log.WithFields(logrus.Fields{
		"player": name,
		"images": imagesEnabled,
	}).Info("new game started")
	return c.engine
}

// Continue transitions START -> PLAYING by restoring the persisted
// session verbatim. The restored transcript is replayed into a fresh
// remote conversation so the model keeps the story's memory.
func (c *Controller) Continue() (*Engine, error) {
	session, ok := c.store.Load()
	if !ok {
		return nil, ErrNoSavedGame
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gateway.ResetConversation()
	c.gateway.SeedHistory(session.Turns)
	c.engine = NewEngine(session, c.gateway, c.store, c.log)
	c.state = StatePlaying
	c.log.WithFields(logrus.Fields{
		"player": session.PlayerName,
		"turns":  len(session.Turns),
	}).Info("saved game restored")
	return c.engine, nil
}

// Reset returns to START, clears the save slot and tears down the
// remote conversation. Any in-flight background completion belonging
// to the old session is invalidated. Safe to call repeatedly.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine != nil {
		c.engine.Invalidate()
		c.engine = nil
	}
	c.store.Clear()
	c.gateway.ResetConversation()
	c.state = StateStart
	c.log.Info("session reset")
}
