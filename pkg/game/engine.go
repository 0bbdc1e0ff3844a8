package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrBusy is returned when an action is submitted while a previous
// model-facing task is still outstanding. There is no queueing: the
// submission is simply dropped by the caller.
var ErrBusy = errors.New("engine is not idle")

// Engine runs one player-action cycle at a time against the gateway
// and owns the active session's transcript. At most one narrative call
// and one image call are ever in flight, and they are sequenced: the
// image task starts only after the narrative turn landed.
type Engine struct {
	mu         sync.Mutex
	status     Status
	session    *Session
	image      ImageState
	generation uuid.UUID

	gateway Gateway
	store   Store
	log     logrus.FieldLogger

	// onChange, when set, is invoked after every externally visible
	// state change. The background image task fires it too, so the
	// presentation layer can repaint without polling.
	onChange func()
}

// NewEngine binds an engine to a session. The generation id scopes the
// engine's background work to exactly one session instance.
func NewEngine(session *Session, gateway Gateway, store Store, log logrus.FieldLogger) *Engine {
	e := &Engine{
		status:     StatusIdle,
		session:    session,
		gateway:    gateway,
		store:      store,
		log:        log,
		generation: uuid.New(),
	}
	if session.ImagesEnabled {
		e.image = ImageState{Phase: ImageIdle}
	} else {
		e.image = ImageState{Phase: ImageDisabled}
	}
	return e
}

// OnChange registers the repaint hook. Must be set before use.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// Start runs the opening sequence of a fresh game: a synthetic
// connect turn, then the opening prompt as the first narrative call.
// It is a no-op when the transcript already has turns (a continued
// session resumes where it left off).
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.status != StatusIdle {
		e.mu.Unlock()
		return ErrBusy
	}
	if len(e.session.Turns) > 0 || e.session.OpeningPrompt == "" {
		e.mu.Unlock()
		return nil
	}
	e.appendTurnLocked(&Turn{
		Role:      RoleUser,
		Content:   ConnectMessage(e.session.PlayerName),
		Timestamp: time.Now(),
	})
	prompt := e.session.OpeningPrompt
	e.status = StatusThinking
	e.mu.Unlock()
	e.notify()

	e.processTurn(ctx, prompt)
	return nil
}

// SubmitAction accepts the player's free-text action. It is rejected
// with ErrBusy unless the engine is idle. The USER turn is appended
// optimistically, before any network traffic.
func (e *Engine) SubmitAction(ctx context.Context, text string) error {
	e.mu.Lock()
	if e.status != StatusIdle {
		e.mu.Unlock()
		return ErrBusy
	}
	e.appendTurnLocked(&Turn{
		Role:      RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	e.status = StatusThinking
	e.mu.Unlock()
	e.notify()

	e.processTurn(ctx, text)
	return nil
}

// processTurn completes one narrative exchange and, when applicable,
// dispatches the background image task.
func (e *Engine) processTurn(ctx context.Context, action string) {
	res := e.gateway.SendNarrativeTurn(ctx, action)

	e.mu.Lock()
	e.appendTurnLocked(&Turn{
		Role:      RoleModel,
		Content:   res.Narrative,
		Timestamp: time.Now(),
		Options:   res.Options,
		Usage:     res.Usage,
	})

	if e.session.ImagesEnabled && res.ImagePrompt != "" {
		gen := e.generation
		e.status = StatusGeneratingImage
		e.image = ImageState{Phase: ImageGenerating}
		e.mu.Unlock()
		e.notify()
		go e.generateImage(ctx, gen, res.ImagePrompt)
		return
	}

	if !e.session.ImagesEnabled {
		e.image = ImageState{Phase: ImageDisabled}
	}
	e.status = StatusIdle
	e.mu.Unlock()
	e.notify()
}

// generateImage is the one outstanding background task. Its result is
// applied only if the engine still belongs to the same session
// generation; a completion that lost a reset is discarded.
func (e *Engine) generateImage(ctx context.Context, gen uuid.UUID, prompt string) {
	url := e.gateway.GenerateSceneImage(ctx, prompt)

	e.mu.Lock()
	if e.generation != gen {
		e.mu.Unlock()
		e.log.WithField("generation", gen).Debug("discarding stale image completion")
		return
	}
	if url != "" {
		e.image = ImageState{Phase: ImageCompleted, URL: url}
	} else {
		e.image = ImageState{Phase: ImageError}
	}
	e.status = StatusIdle
	e.mu.Unlock()
	e.notify()
}

// appendTurnLocked records a turn and persists the session. Saving is
// best-effort; the store swallows failures.
func (e *Engine) appendTurnLocked(t *Turn) {
	e.session.Turns = append(e.session.Turns, t)
	e.store.Save(e.session)
}

// Invalidate detaches the engine from its session generation so any
// in-flight background completion is discarded. Used on reset.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.generation = uuid.New()
	e.status = StatusIdle
	e.mu.Unlock()
}

// Status reports the action-acceptance state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Image reports the transient illustration state.
func (e *Engine) Image() ImageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.image
}

// Turns returns the transcript in narrative order. The slice is a
// copy; the turns themselves are immutable.
func (e *Engine) Turns() []*Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Turn, len(e.session.Turns))
	copy(out, e.session.Turns)
	return out
}

// CurrentOptions returns the choices attached to the most recent turn.
// Options on superseded turns are inert history and never returned.
func (e *Engine) CurrentOptions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.session.Turns)
	if n == 0 {
		return nil
	}
	last := e.session.Turns[n-1]
	if last.Role != RoleModel {
		return nil
	}
	return last.Options
}

// Budget derives the token metrics for the current transcript.
func (e *Engine) Budget() BudgetSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SnapshotBudget(e.session.Turns)
}

// Session exposes the engine's session for presentation and tests.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (e *Engine) notify() {
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}
