package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameInterpolatesPlayerName(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw, &memStore{}, testLogger())

	engine := c.NewGame("Aline", true)
	require.NotNil(t, engine)
	assert.Equal(t, StatePlaying, c.State())

	session := engine.Session()
	assert.Equal(t, "Aline", session.PlayerName)
	assert.True(t, strings.Contains(session.OpeningPrompt, `O nome do jogador é "Aline"`))
	assert.True(t, session.ImagesEnabled)
	assert.Empty(t, session.Turns)
}

func TestNewGameDefaultsBlankName(t *testing.T) {
	c := NewController(&fakeGateway{}, &memStore{}, testLogger())
	engine := c.NewGame("   ", false)
	assert.Equal(t, DefaultPlayerName, engine.Session().PlayerName)
}

func TestContinueRestoresSavedSessionVerbatim(t *testing.T) {
	started := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	saved := &Session{
		PlayerName:    "Rui",
		OpeningPrompt: OpeningPrompt("Rui"),
		ImagesEnabled: true,
		StartedAt:     started,
		Turns: []*Turn{
			{Role: RoleUser, Content: "entrar na catedral", Timestamp: started},
			{Role: RoleModel, Content: "## CATEDRAL", Options: []string{"Rezar"}, Timestamp: started,
				Usage: &UsageSample{PromptTokens: 5, CandidatesTokens: 3, TotalTokens: 8}},
		},
	}
	store := &memStore{}
	store.Save(saved)

	gw := &fakeGateway{}
	c := NewController(gw, store, testLogger())
	require.True(t, c.HasSavedGame())

	engine, err := c.Continue()
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, c.State())

	session := engine.Session()
	assert.Equal(t, "Rui", session.PlayerName)
	require.Len(t, session.Turns, 2)
	assert.Equal(t, "## CATEDRAL", session.Turns[1].Content)

	// the restored transcript is replayed into the remote conversation
	require.Len(t, gw.seeded, 2)
	assert.Equal(t, "entrar na catedral", gw.seeded[0].Content)
}

func TestContinueWithoutSaveFails(t *testing.T) {
	c := NewController(&fakeGateway{}, &memStore{}, testLogger())
	_, err := c.Continue()
	require.ErrorIs(t, err, ErrNoSavedGame)
	assert.Equal(t, StateStart, c.State())
}

func TestResetClearsEverythingAndIsIdempotent(t *testing.T) {
	store := &memStore{}
	gw := &fakeGateway{result: &NarrativeResult{Narrative: "ok", Options: []string{"Continuar"}}}
	c := NewController(gw, store, testLogger())

	// NewGame resets the conversation once up front
	c.NewGame("Rui", false)
	resetsAfterStart := gw.resets

	c.Reset()
	assert.Equal(t, StateStart, c.State())
	assert.Nil(t, c.Engine())
	_, ok := store.Load()
	assert.False(t, ok)
	assert.Equal(t, resetsAfterStart+1, gw.resets)

	// a second reset is harmless
	c.Reset()
	assert.Equal(t, StateStart, c.State())
	_, ok = store.Load()
	assert.False(t, ok)
}
