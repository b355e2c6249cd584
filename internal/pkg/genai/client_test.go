package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		TextModel:  "text-model",
		ImageModel: "image-model",
		Timeout:    5 * time.Second,
		RateLimit:  1000,
	}, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNotConfiguredMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, RateLimit: 10}, zerolog.Nop())
	ctx := context.Background()

	_, err := client.GenerateText(ctx, "hi", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = client.StreamChat(ctx, nil, "hi", "", ChatOptions{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = client.GenerateImage(ctx, "cat")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestGenerateText(t *testing.T) {
	var got generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]string{{"text": "Hello "}, {"text": "there"}}},
			}},
		})
	})

	text, err := client.GenerateText(context.Background(), "question", "portal summary")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "portal summary\n\nquestion", got.Contents[0].Parts[0].Text)
}

func TestGenerateTextFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
		})
		_, err := client.GenerateText(context.Background(), "q", "")
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})

	t.Run("blocked", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, map[string]any{"promptFeedback": map[string]string{"blockReason": "SAFETY"}})
		})
		_, err := client.GenerateText(context.Background(), "q", "")
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})
}

func TestStreamChat(t *testing.T) {
	var got generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-model:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"candidates":[{"content":{"parts":[{"text":"Hel"}]}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"candidates":[{"content":{"parts":[{"text":"lo"}]},"groundingMetadata":{"groundingChunks":[{"web":{"uri":"https://example.com","title":"Example"}}]}}]}`+"\n\n")
	})

	history := []Message{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "hey"}}
	stream, err := client.StreamChat(context.Background(), history, "say hello", "be nice", ChatOptions{WebSearch: true})
	require.NoError(t, err)

	text, sources, err := stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
	assert.Equal(t, []Source{{URI: "https://example.com", Title: "Example"}}, sources)

	require.Len(t, got.Contents, 3)
	assert.Equal(t, RoleModel, got.Contents[1].Role)
	assert.Equal(t, "say hello", got.Contents[2].Parts[0].Text)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be nice", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Tools, 1)
	assert.NotNil(t, got.Tools[0].GoogleSearch)
}

func TestStreamChatStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	_, err := client.StreamChat(context.Background(), nil, "hi", "", ChatOptions{})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestGenerateImage(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/image-model:predict", r.URL.Path)
		writeJSON(w, map[string]any{
			"predictions": []map[string]string{{"bytesBase64Encoded": base64.StdEncoding.EncodeToString(img), "mimeType": "image/jpeg"}},
		})
	})

	got, err := client.GenerateImage(context.Background(), "a fox")
	require.NoError(t, err)
	assert.Equal(t, img, got)

	empty := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"predictions": []any{}})
	})
	_, err = empty.GenerateImage(context.Background(), "a fox")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestStreamCloseAbortsStalledRequest(t *testing.T) {
	requestDone := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		defer close(requestDone)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"candidates":[{"content":{"parts":[{"text":"partial"}]}}]}`+"\n\n")
		w.(http.Flusher).Flush()

		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	})

	stream, err := client.StreamChat(context.Background(), nil, "hi", "", ChatOptions{})
	require.NoError(t, err)

	chunk := <-stream.Chunks()
	assert.Equal(t, "partial", chunk.TextDelta)
	stream.Close()

	select {
	case <-requestDone:
	case <-time.After(time.Second):
		t.Fatal("upstream request still open after Close")
	}
	for range stream.Chunks() {
	}
	assert.NoError(t, stream.Err())
}

func TestStreamOutlivesRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"candidates":[{"content":{"parts":[{"text":"slow "}]}}]}`+"\n\n")
		w.(http.Flusher).Flush()
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `data: {"candidates":[{"content":{"parts":[{"text":"answer"}]}}]}`+"\n\n")
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		TextModel: "text-model",
		Timeout:   100 * time.Millisecond,
		RateLimit: 1000,
	}, zerolog.Nop())

	stream, err := client.StreamChat(context.Background(), nil, "hi", "", ChatOptions{})
	require.NoError(t, err)

	text, _, err := stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, "slow answer", text)
}

func TestGenerateTextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, TextModel: "m", Timeout: 100 * time.Millisecond, RateLimit: 1000}, zerolog.Nop())

	_, err := client.GenerateText(context.Background(), "hi", "")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
