// Package gemini adapts the remote generative-model API into the
// gateway the game engine consumes. Every remote failure mode is
// recovered here and converted into a displayable result.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/voidrpg/void/pkg/game"
)

const (
	// DefaultTextModel balances speed, cost and stability.
	DefaultTextModel = "gemini-2.5-flash"
	// DefaultImageModel produces inline scene illustrations.
	DefaultImageModel = "gemini-2.5-flash-image"

	defaultNarrativeTimeout = 15 * time.Second
	defaultImageTimeout     = 10 * time.Second
)

// Options configures the gateway.
type Options struct {
	APIKey           string
	TextModel        string
	ImageModel       string
	NarrativeTimeout time.Duration
	ImageTimeout     time.Duration
}

func (o *Options) withDefaults() {
	if o.TextModel == "" {
		o.TextModel = DefaultTextModel
	}
	if o.ImageModel == "" {
		o.ImageModel = DefaultImageModel
	}
	if o.NarrativeTimeout == 0 {
		o.NarrativeTimeout = defaultNarrativeTimeout
	}
	if o.ImageTimeout == 0 {
		o.ImageTimeout = defaultImageTimeout
	}
}

// Client owns the conversational handle to the remote model. The
// handle is created lazily on the first narrative call and torn down
// on reset; the local transcript kept by the engine is an independent
// mirror.
type Client struct {
	mu      sync.Mutex
	opts    Options
	api     *genai.Client
	chat    *genai.Chat
	history []*genai.Content
	log     logrus.FieldLogger
}

// NewClient creates a gateway. No network traffic happens until the
// first call.
func NewClient(opts Options, log logrus.FieldLogger) *Client {
	opts.withDefaults()
	return &Client{opts: opts, log: log}
}

var _ game.Gateway = (*Client)(nil)

func (c *Client) ensureAPI(ctx context.Context) (*genai.Client, error) {
	if c.api != nil {
		return c.api, nil
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	c.api = api
	return api, nil
}

// ensureChat lazily creates the conversational handle with the fixed
// system instruction, sampling configuration and moderation
// thresholds, seeded with any restored history.
func (c *Client) ensureChat(ctx context.Context) (*genai.Chat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chat != nil {
		return c.chat, nil
	}

	api, err := c.ensureAPI(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](1.0),
		ResponseMIMEType:  "application/json",
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		},
	}

	chat, err := api.Chats.Create(ctx, c.opts.TextModel, config, c.history)
	if err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	c.chat = chat
	return chat, nil
}

// SeedHistory replays a restored transcript into the next chat handle
// so a continued session keeps its remote conversational memory.
func (c *Client) SeedHistory(turns []*game.Turn) {
	var history []*genai.Content
	for _, t := range turns {
		var role genai.Role = genai.RoleUser
		if t.Role == game.RoleModel {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(t.Content, role))
	}
	c.mu.Lock()
	c.history = history
	c.chat = nil
	c.mu.Unlock()
}

// ResetConversation discards the conversational handle and any seeded
// history. The next narrative call starts a brand-new remote
// conversation.
func (c *Client) ResetConversation() {
	c.mu.Lock()
	c.chat = nil
	c.history = nil
	c.mu.Unlock()
}

// SendNarrativeTurn sends the player's action as the next turn of the
// conversation. Every code path, including hard transport failures,
// yields a well-formed result with a distinct narrative and a
// retry-oriented option set.
func (c *Client) SendNarrativeTurn(ctx context.Context, action string) *game.NarrativeResult {
	chat, err := c.ensureChat(ctx)
	if err != nil {
		c.log.WithError(err).Warn("narrative call failed")
		return classifyFailure(err.Error())
	}

	type outcome struct {
		resp *genai.GenerateContentResponse
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := chat.SendMessage(ctx, genai.Part{Text: action})
		done <- outcome{resp, err}
	}()

	var resp *genai.GenerateContentResponse
	select {
	case out := <-done:
		if out.err != nil {
			c.log.WithError(out.err).Warn("narrative call failed")
			return classifyFailure(out.err.Error())
		}
		resp = out.resp
	case <-time.After(c.opts.NarrativeTimeout):
		// The request is abandoned, not cancelled; a late completion
		// drains into the buffered channel and is ignored.
		c.log.WithField("timeout", c.opts.NarrativeTimeout).Warn("narrative call timed out")
		return &game.NarrativeResult{
			Narrative: timeoutNarrative,
			Options:   timeoutOptions,
			Failure:   game.FailureTimeout,
		}
	}

	usage := usageFrom(resp)

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return &game.NarrativeResult{
			Narrative: blockedNarrative,
			Options:   blockedOptions,
			Usage:     usage,
			Failure:   game.FailureBlocked,
		}
	}

	text := resp.Text()
	if text == "" {
		c.log.Warn("narrative call returned empty payload")
		return classifyFailure("empty response")
	}

	record, perr := parseNarrativePayload(text)
	if perr != nil {
		c.log.WithField("reason", perr.Reason).Warn("narrative payload fallback")
		return &game.NarrativeResult{
			Narrative:   text,
			Options:     fallbackOptions,
			ImagePrompt: glitchImagePrompt,
			Usage:       usage,
			Failure:     game.FailureMalformed,
		}
	}

	return &game.NarrativeResult{
		Narrative:   record.Narrative,
		Options:     record.Options,
		ImagePrompt: record.ImagePrompt,
		Usage:       usage,
	}
}

// GenerateSceneImage issues a single stateless image call and returns
// the first inline payload as a data URI. Any failure, including
// timeout, comes back as "".
func (c *Client) GenerateSceneImage(ctx context.Context, prompt string) string {
	if prompt == "" {
		return ""
	}

	c.mu.Lock()
	api, err := c.ensureAPI(ctx)
	c.mu.Unlock()
	if err != nil {
		c.log.WithError(err).Warn("image call failed")
		return ""
	}

	type outcome struct {
		resp *genai.GenerateContentResponse
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := api.Models.GenerateContent(ctx, c.opts.ImageModel, genai.Text(prompt), nil)
		done <- outcome{resp, err}
	}()

	var resp *genai.GenerateContentResponse
	select {
	case out := <-done:
		if out.err != nil {
			c.log.WithError(out.err).Warn("image call failed")
			return ""
		}
		resp = out.resp
	case <-time.After(c.opts.ImageTimeout):
		c.log.WithField("timeout", c.opts.ImageTimeout).Warn("image call timed out")
		return ""
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MIMEType, encoded)
			}
		}
	}
	return ""
}

// classifyFailure maps a hard transport failure onto its fixed
// user-facing narrative and option set.
func classifyFailure(message string) *game.NarrativeResult {
	lower := strings.ToLower(message)
	if strings.Contains(message, "429") || strings.Contains(lower, "quota") || strings.Contains(lower, "resource exhausted") {
		return &game.NarrativeResult{
			Narrative: rateLimitNarrative,
			Options:   rateLimitOptions,
			Failure:   game.FailureRateLimited,
		}
	}
	return &game.NarrativeResult{
		Narrative: fmt.Sprintf("**ERRO DE CONEXÃO**: %s", message),
		Options:   errorOptions,
		Failure:   game.FailureOther,
	}
}

func usageFrom(resp *genai.GenerateContentResponse) *game.UsageSample {
	if resp.UsageMetadata == nil {
		return nil
	}
	return &game.UsageSample{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CandidatesTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}
