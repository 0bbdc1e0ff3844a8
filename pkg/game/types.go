package game

import (
	"context"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// UsageSample carries the provider's token accounting for a single
// model turn. It is only attached when the transport actually reported
// usage metadata; a missing sample is not the same as zero.
type UsageSample struct {
	PromptTokens     int `json:"promptTokens"`
	CandidatesTokens int `json:"candidatesTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Turn is a single entry in the narrative transcript. Turns are
// immutable once created; slice order is narrative order.
type Turn struct {
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Options   []string     `json:"options,omitempty"`
	Usage     *UsageSample `json:"usage,omitempty"`
}

// Session is the full state of one playthrough. Exactly one session is
// active at a time and exactly one may be persisted.
type Session struct {
	PlayerName    string    `json:"playerName"`
	OpeningPrompt string    `json:"openingPrompt"`
	Turns         []*Turn   `json:"turns"`
	ImagesEnabled bool      `json:"imagesEnabled"`
	StartedAt     time.Time `json:"startedAt"`
}

// Status is the turn engine's action-acceptance state.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusThinking        Status = "thinking"
	StatusGeneratingImage Status = "generating_image"
)

// ImagePhase tracks the scene illustration for the most recent turn.
type ImagePhase string

const (
	ImageDisabled   ImagePhase = "disabled"
	ImageIdle       ImagePhase = "idle"
	ImageGenerating ImagePhase = "generating"
	ImageCompleted  ImagePhase = "completed"
	ImageError      ImagePhase = "error"
)

// ImageState is the transient illustration state. It is tied to the
// latest narrative turn's image request and never persisted.
type ImageState struct {
	Phase ImagePhase
	URL   string
}

// FailureKind classifies how a narrative call degraded. The gateway
// converts every remote failure into a displayable result, so the kind
// is informational rather than an error.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureTimeout     FailureKind = "timeout"
	FailureRateLimited FailureKind = "rate_limited"
	FailureBlocked     FailureKind = "blocked"
	FailureMalformed   FailureKind = "malformed"
	FailureOther       FailureKind = "other"
)

// NarrativeResult is a fully-formed narrative payload. Every gateway
// code path, including timeouts and safety blocks, yields one.
type NarrativeResult struct {
	Narrative   string
	Options     []string
	ImagePrompt string
	Usage       *UsageSample
	Failure     FailureKind
}

// Gateway is the remote generative-model boundary the engine talks to.
type Gateway interface {
	// SendNarrativeTurn sends the player's action as the next turn of
	// the running conversation and never fails outward: remote errors
	// come back as degraded results.
	SendNarrativeTurn(ctx context.Context, action string) *NarrativeResult

	// GenerateSceneImage returns a displayable data URI, or "" when the
	// prompt is empty or the call failed.
	GenerateSceneImage(ctx context.Context, prompt string) string

	// SeedHistory replays a restored transcript into the conversation
	// so a continued session keeps its remote memory.
	SeedHistory(turns []*Turn)

	// ResetConversation discards the conversational handle; the next
	// narrative call starts a fresh remote conversation.
	ResetConversation()
}

// Store persists the single save slot. Implementations must be
// best-effort on save: a storage failure is logged, never surfaced.
type Store interface {
	Save(session *Session)
	Load() (*Session, bool)
	Clear()
}
