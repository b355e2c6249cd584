package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/genai"
)

type fakeGateway struct {
	text      string
	textErr   error
	chunks    []genai.Chunk
	streamErr error
	openErr   error
	image     []byte
	imageErr  error

	lastPrompt string
	lastSystem string
	lastOpts   genai.ChatOptions
}

func (g *fakeGateway) GenerateText(_ context.Context, prompt, _ string) (string, error) {
	g.lastPrompt = prompt
	return g.text, g.textErr
}

func (g *fakeGateway) StreamChat(ctx context.Context, _ []genai.Message, _ string, systemPrompt string, opts genai.ChatOptions) (*genai.Stream, error) {
	g.lastSystem = systemPrompt
	g.lastOpts = opts
	if g.openErr != nil {
		return nil, g.openErr
	}
	return genai.NewStream(ctx, func(ctx context.Context, emit func(genai.Chunk) bool) error {
		for _, c := range g.chunks {
			if !emit(c) {
				return nil
			}
		}
		return g.streamErr
	}), nil
}

func (g *fakeGateway) GenerateImage(_ context.Context, _ string) ([]byte, error) {
	return g.image, g.imageErr
}

func withGateway(g genai.Gateway) func(*PortalOptions) {
	return func(o *PortalOptions) { o.Gateway = g }
}

func TestAskAboutPortalSendsSummary(t *testing.T) {
	gw := &fakeGateway{text: "There are exams next week."}
	f := newFixture(t, withGateway(gw))
	f.loginAdmin(t)
	for _, title := range []string{"n1", "n2", "n3", "n4"} {
		_, err := f.portal.Content.AddNotice(f.ctx, models.NoticeInput{Title: title, Category: models.NoticeGeneral})
		require.NoError(t, err)
	}

	answer, err := f.portal.Assistant.AskAboutPortal(f.ctx, "any exams?")
	require.NoError(t, err)
	assert.Equal(t, "There are exams next week.", answer)
	assert.Contains(t, gw.lastPrompt, "- Latest Notices: n4, n3, n2\n")
	assert.Contains(t, gw.lastPrompt, "- Total users: 1")
	assert.Contains(t, gw.lastPrompt, `Based on this context, answer the following user query: "any exams?"`)
}

func TestAskAboutPortalFallsBack(t *testing.T) {
	f := newFixture(t, withGateway(&fakeGateway{textErr: errors.New("boom")}))
	answer, err := f.portal.Assistant.AskAboutPortal(f.ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, AIUnavailableText, answer)

	f = newFixture(t, withGateway(&fakeGateway{textErr: genai.ErrNotConfigured}))
	answer, err = f.portal.Assistant.AskAboutPortal(f.ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, AINotConfiguredText, answer)

	f = newFixture(t)
	answer, err = f.portal.Assistant.AskAboutPortal(f.ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, AINotConfiguredText, answer)
}

func TestCapabilitiesGateFeatures(t *testing.T) {
	f := newFixture(t, withGateway(&fakeGateway{}), func(o *PortalOptions) {
		o.Capabilities = config.Capabilities{}
	})

	_, err := f.portal.Assistant.AskAboutPortal(f.ctx, "hello")
	assert.ErrorIs(t, err, ErrFeatureDisabled)
	_, err = f.portal.Assistant.StartChat(f.ctx, nil, "hello", genai.ChatOptions{})
	assert.ErrorIs(t, err, ErrFeatureDisabled)
	_, err = f.portal.Assistant.GenerateAvatar(f.ctx, "a cat")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestStartChatStreamsChunks(t *testing.T) {
	gw := &fakeGateway{chunks: []genai.Chunk{
		{TextDelta: "Hello "},
		{TextDelta: "there", Sources: []genai.Source{{URI: "https://college.example", Title: "College"}}},
	}}
	f := newFixture(t, withGateway(gw))

	stream, err := f.portal.Assistant.StartChat(f.ctx, []genai.Message{{Role: genai.RoleUser, Text: "hi"}}, "what's new?", genai.ChatOptions{WebSearch: true})
	require.NoError(t, err)
	text, sources, err := stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
	require.Len(t, sources, 1)
	assert.Equal(t, "College", sources[0].Title)

	assert.True(t, gw.lastOpts.WebSearch)
	assert.Contains(t, gw.lastSystem, "You are a friendly and helpful AI assistant for a college portal.")
	assert.Contains(t, gw.lastSystem, "- Total users: 1")
}

func TestStartChatFailuresBecomeText(t *testing.T) {
	f := newFixture(t, withGateway(&fakeGateway{openErr: errors.New("dial tcp: refused")}))
	stream, err := f.portal.Assistant.StartChat(f.ctx, nil, "hi", genai.ChatOptions{})
	require.NoError(t, err)
	text, _, err := stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, AIChatFailedText, text)

	f = newFixture(t, withGateway(&fakeGateway{
		chunks:    []genai.Chunk{{TextDelta: "partial "}},
		streamErr: errors.New("connection reset"),
	}))
	stream, err = f.portal.Assistant.StartChat(f.ctx, nil, "hi", genai.ChatOptions{})
	require.NoError(t, err)
	text, _, err = stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, "partial "+AIChatFailedText, text)

	f = newFixture(t)
	stream, err = f.portal.Assistant.StartChat(f.ctx, nil, "hi", genai.ChatOptions{})
	require.NoError(t, err)
	text, _, err = stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, AINotConfiguredText, text)
}

func TestGenerateAvatar(t *testing.T) {
	f := newFixture(t, withGateway(&fakeGateway{image: []byte{0x89, 'P', 'N', 'G'}}))
	img, err := f.portal.Assistant.GenerateAvatar(f.ctx, "a cat in a lab coat")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img)

	f = newFixture(t)
	_, err = f.portal.Assistant.GenerateAvatar(f.ctx, "a cat")
	require.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, AINotConfiguredText, apperrors.Message(err))

	f = newFixture(t, withGateway(&fakeGateway{imageErr: errors.New("blocked")}))
	_, err = f.portal.Assistant.GenerateAvatar(f.ctx, "a cat")
	require.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, AIUnavailableText, apperrors.Message(err))
}
