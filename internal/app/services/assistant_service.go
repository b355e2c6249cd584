package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/genai"
)

// Texts returned in place of a generated answer
const (
	AINotConfiguredText = "The AI feature is not configured."
	AIUnavailableText   = "Sorry, I couldn't connect to the AI service."
	AIChatFailedText    = "Sorry, I'm having trouble connecting right now."
)

// ErrFeatureDisabled is returned when a capability flag switches an assistant feature off
var ErrFeatureDisabled = apperrors.NewUnauthorizedError("This AI feature is disabled.")

// AssistantService answers questions about the portal through a generative model.
// Gateway failures never escape as errors: they become fallback text.
type AssistantService struct {
	st      *portalState
	gateway genai.Gateway
	caps    config.Capabilities
	logger  zerolog.Logger
}

// NewAssistantService wires the assistant. A nil gateway behaves as not configured.
func NewAssistantService(st *portalState, gateway genai.Gateway, caps config.Capabilities, logger zerolog.Logger) *AssistantService {
	return &AssistantService{st: st, gateway: gateway, caps: caps, logger: logger}
}

// Capabilities reports which assistant features are switched on
func (s *AssistantService) Capabilities() config.Capabilities {
	return s.caps
}

// portalSummary captures the latest titles of each board. mu must be held.
func (st *portalState) portalSummary(n int, sep string) (notices, topics, events string, users int) {
	titles := func(all []string) string {
		if len(all) > n {
			all = all[:n]
		}
		return strings.Join(all, sep)
	}
	var nt, tt, et []string
	for _, x := range st.repos.Notices.GetAll() {
		nt = append(nt, x.Title)
	}
	for _, x := range st.repos.Topics.GetAll() {
		tt = append(tt, x.Title)
	}
	for _, x := range st.repos.Events.GetAll() {
		et = append(et, x.Title)
	}
	return titles(nt), titles(tt), titles(et), st.repos.Users.Count()
}

// AskAboutPortal answers query using a summary of the latest notices, topics and events
func (s *AssistantService) AskAboutPortal(ctx context.Context, query string) (string, error) {
	if !s.caps.AIFeed {
		return "", ErrFeatureDisabled
	}
	if strings.TrimSpace(query) == "" {
		return "", apperrors.NewValidationError("Question is required.")
	}
	if s.gateway == nil {
		return AINotConfiguredText, nil
	}

	s.st.mu.Lock()
	notices, topics, events, users := s.st.portalSummary(3, ", ")
	s.st.mu.Unlock()

	summary := fmt.Sprintf(`Here is a summary of the current state of the college portal:
- Latest Notices: %s
- Hottest Forum Topics: %s
- Upcoming Events: %s
- Total users: %d`, notices, topics, events, users)
	prompt := fmt.Sprintf("%s\n\nBased on this context, answer the following user query: %q", summary, query)

	answer, err := s.gateway.GenerateText(ctx, prompt, "")
	if err != nil {
		return s.fallback(err, AIUnavailableText), nil
	}
	return answer, nil
}

// SystemPrompt is the instruction the chat assistant runs under
func (s *AssistantService) SystemPrompt() string {
	s.st.mu.Lock()
	notices, topics, events, users := s.st.portalSummary(2, "; ")
	s.st.mu.Unlock()

	return fmt.Sprintf(`You are a friendly and helpful AI assistant for a college portal. Your goal is to assist students.
Here is a summary of the current state of the college portal:
- Latest Notices: %s
- Hottest Forum Topics: %s
- Upcoming Events: %s
- Total users: %d
Based on this context, answer user queries. If a query is not related to this context or general college life, politely state that you can only help with portal-related questions.`,
		notices, topics, events, users)
}

// StartChat continues history with message and streams the reply.
// When the model is unavailable the stream carries a single fallback chunk.
func (s *AssistantService) StartChat(ctx context.Context, history []genai.Message, message string, opts genai.ChatOptions) (*genai.Stream, error) {
	if !s.caps.AIChat {
		return nil, ErrFeatureDisabled
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("Message is required.")
	}
	if s.gateway == nil {
		return genai.StreamOf(ctx, genai.Chunk{TextDelta: AINotConfiguredText}), nil
	}

	upstream, err := s.gateway.StreamChat(ctx, history, message, s.SystemPrompt(), opts)
	if err != nil {
		return genai.StreamOf(ctx, genai.Chunk{TextDelta: s.fallback(err, AIChatFailedText)}), nil
	}

	return genai.NewStream(ctx, func(ctx context.Context, emit func(genai.Chunk) bool) error {
		defer upstream.Close()
		for chunk := range upstream.Chunks() {
			if !emit(chunk) {
				return nil
			}
		}
		if err := upstream.Err(); err != nil {
			emit(genai.Chunk{TextDelta: s.fallback(err, AIChatFailedText)})
		}
		return nil
	}), nil
}

// GenerateAvatar renders prompt into an image. Unlike text, there is no fallback image,
// so failures come back as an upstream error carrying a readable message.
func (s *AssistantService) GenerateAvatar(ctx context.Context, prompt string) ([]byte, error) {
	if !s.caps.AIImage {
		return nil, ErrFeatureDisabled
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidationError("Prompt is required.")
	}
	if s.gateway == nil {
		return nil, upstreamFailure(genai.ErrNotConfigured, AINotConfiguredText)
	}

	img, err := s.gateway.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, upstreamFailure(err, s.fallback(err, AIUnavailableText))
	}
	return img, nil
}

func upstreamFailure(cause error, msg string) error {
	var ce *apperrors.CustomError
	if !errors.As(apperrors.NewUpstreamError("assistant", cause), &ce) {
		return cause
	}
	return ce.WithStatusMsg(msg)
}

// fallback logs err and picks the text shown instead of an answer
func (s *AssistantService) fallback(err error, otherwise string) string {
	if errors.Is(err, genai.ErrNotConfigured) {
		return AINotConfiguredText
	}
	s.logger.Error().Err(err).Msg("Assistant request failed")
	return otherwise
}
