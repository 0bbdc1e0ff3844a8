package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is a controllable in-memory gateway (pattern borrowed
// from the exec mock): results are scripted and calls can be held on a
// channel to exercise the in-flight states.
type fakeGateway struct {
	mu sync.Mutex

	result   *NarrativeResult
	imageURL string

	narrativeGate chan struct{}
	imageGate     chan struct{}

	narrativeCalls int
	imageCalls     []string
	seeded         []*Turn
	resets         int
}

func (g *fakeGateway) SendNarrativeTurn(ctx context.Context, action string) *NarrativeResult {
	g.mu.Lock()
	g.narrativeCalls++
	gate := g.narrativeGate
	res := g.result
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return res
}

func (g *fakeGateway) GenerateSceneImage(ctx context.Context, prompt string) string {
	g.mu.Lock()
	g.imageCalls = append(g.imageCalls, prompt)
	gate := g.imageGate
	url := g.imageURL
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return url
}

func (g *fakeGateway) SeedHistory(turns []*Turn) {
	g.mu.Lock()
	g.seeded = turns
	g.mu.Unlock()
}

func (g *fakeGateway) ResetConversation() {
	g.mu.Lock()
	g.resets++
	g.mu.Unlock()
}

func (g *fakeGateway) imagePrompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.imageCalls...)
}

// memStore is an in-memory session store for tests.
type memStore struct {
	mu      sync.Mutex
	session *Session
	saves   int
}

func (s *memStore) Save(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	clone.Turns = append([]*Turn(nil), session.Turns...)
	s.session = &clone
	s.saves++
}

func (s *memStore) Load() (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, false
	}
	clone := *s.session
	return &clone, true
}

func (s *memStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testSession(images bool) *Session {
	return &Session{
		PlayerName:    "Viajante",
		OpeningPrompt: OpeningPrompt("Viajante"),
		ImagesEnabled: images,
		StartedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestSubmitActionAppendsBothTurns(t *testing.T) {
	gw := &fakeGateway{result: &NarrativeResult{
		Narrative: "## RUÍNAS\n\nVocê avança.",
		Options:   []string{"Entrar", "Recuar"},
		Usage:     &UsageSample{PromptTokens: 10, CandidatesTokens: 5, TotalTokens: 15},
	}}
	store := &memStore{}
	e := NewEngine(testSession(false), gw, store, testLogger())

	require.NoError(t, e.SubmitAction(context.Background(), "avançar"))

	turns := e.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "avançar", turns[0].Content)
	assert.Equal(t, RoleModel, turns[1].Role)
	assert.Equal(t, []string{"Entrar", "Recuar"}, turns[1].Options)
	require.NotNil(t, turns[1].Usage)
	assert.Equal(t, 15, turns[1].Usage.TotalTokens)

	// one save per appended turn
	assert.Equal(t, 2, store.saves)
	assert.Equal(t, StatusIdle, e.Status())
}

func TestSubmitActionRejectedWhileBusy(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{
		result:        &NarrativeResult{Narrative: "ok", Options: []string{"Continuar"}},
		narrativeGate: gate,
	}
	e := NewEngine(testSession(false), gw, &memStore{}, testLogger())

	done := make(chan error, 1)
	go func() { done <- e.SubmitAction(context.Background(), "primeira") }()
	waitFor(t, func() bool { return e.Status() == StatusThinking })

	// second submission is dropped, no extra USER turn
	require.ErrorIs(t, e.SubmitAction(context.Background(), "segunda"), ErrBusy)
	require.Len(t, e.Turns(), 1)

	close(gate)
	require.NoError(t, <-done)
	require.Len(t, e.Turns(), 2)
}

func TestImageDispatchedAfterNarrative(t *testing.T) {
	gw := &fakeGateway{
		result: &NarrativeResult{
			Narrative:   "ok",
			Options:     []string{"Continuar"},
			ImagePrompt: "a ruined cathedral, cinematic",
		},
		imageURL: "data:image/png;base64,aGk=",
	}
	e := NewEngine(testSession(true), gw, &memStore{}, testLogger())

	require.NoError(t, e.SubmitAction(context.Background(), "olhar"))
	waitFor(t, func() bool { return e.Status() == StatusIdle })

	img := e.Image()
	assert.Equal(t, ImageCompleted, img.Phase)
	assert.Equal(t, "data:image/png;base64,aGk=", img.URL)
	assert.Equal(t, []string{"a ruined cathedral, cinematic"}, gw.imagePrompts())
}

func TestImageFailureSetsErrorState(t *testing.T) {
	gw := &fakeGateway{
		result: &NarrativeResult{Narrative: "ok", Options: []string{"Continuar"}, ImagePrompt: "scene"},
		// imageURL empty: the gateway reports failure as ""
	}
	e := NewEngine(testSession(true), gw, &memStore{}, testLogger())

	require.NoError(t, e.SubmitAction(context.Background(), "olhar"))
	waitFor(t, func() bool { return e.Status() == StatusIdle })
	assert.Equal(t, ImageError, e.Image().Phase)
}

func TestNoImageCallWhenImagesDisabled(t *testing.T) {
	gw := &fakeGateway{
		result: &NarrativeResult{Narrative: "ok", Options: []string{"Continuar"}, ImagePrompt: "a vivid scene"},
	}
	e := NewEngine(testSession(false), gw, &memStore{}, testLogger())

	require.NoError(t, e.SubmitAction(context.Background(), "olhar"))
	assert.Equal(t, StatusIdle, e.Status())
	assert.Empty(t, gw.imagePrompts())
	assert.Equal(t, ImageDisabled, e.Image().Phase)
}

func TestNoImageCallOnEmptyPrompt(t *testing.T) {
	gw := &fakeGateway{
		result: &NarrativeResult{Narrative: "ok", Options: []string{"Continuar"}},
	}
	e := NewEngine(testSession(true), gw, &memStore{}, testLogger())

	require.NoError(t, e.SubmitAction(context.Background(), "olhar"))
	assert.Equal(t, StatusIdle, e.Status())
	assert.Empty(t, gw.imagePrompts())
}

func TestStaleImageCompletionDiscarded(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{
		result:    &NarrativeResult{Narrative: "ok", Options: []string{"Continuar"}, ImagePrompt: "scene"},
		imageURL:  "data:image/png;base64,aGk=",
		imageGate: gate,
	}
	e := NewEngine(testSession(true), gw, &memStore{}, testLogger())

	require.NoError(t, e.SubmitAction(context.Background(), "olhar"))
	waitFor(t, func() bool { return e.Status() == StatusGeneratingImage })

	// reset supersedes the session generation mid-flight
	e.Invalidate()
	close(gate)

	// the stale completion must never surface
	time.Sleep(50 * time.Millisecond)
	assert.NotEqual(t, ImageCompleted, e.Image().Phase)
}

func TestStartRunsOpeningSequenceOnce(t *testing.T) {
	gw := &fakeGateway{
		result: &NarrativeResult{Narrative: "## MENU PRINCIPAL", Options: []string{"Cyberpunk", "Fantasia", "Terror"}},
	}
	e := NewEngine(testSession(false), gw, &memStore{}, testLogger())

	require.NoError(t, e.Start(context.Background()))
	turns := e.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, ConnectMessage("Viajante"), turns[0].Content)
	assert.Equal(t, 1, gw.narrativeCalls)

	// restored sessions resume without replaying the opening
	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, 1, gw.narrativeCalls)
}

func TestCurrentOptionsOnlyOnLatestTurn(t *testing.T) {
	gw := &fakeGateway{
		result: &NarrativeResult{Narrative: "ok", Options: []string{"A", "B"}},
	}
	e := NewEngine(testSession(false), gw, &memStore{}, testLogger())

	require.NoError(t, e.SubmitAction(context.Background(), "um"))
	assert.Equal(t, []string{"A", "B"}, e.CurrentOptions())

	gate := make(chan struct{})
	gw.mu.Lock()
	gw.narrativeGate = gate
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- e.SubmitAction(context.Background(), "dois") }()
	waitFor(t, func() bool { return e.Status() == StatusThinking })

	// the pending USER turn supersedes the old options
	assert.Nil(t, e.CurrentOptions())

	close(gate)
	require.NoError(t, <-done)
}
