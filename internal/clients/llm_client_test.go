package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/bitflow/pkg/retrier"
)

// newTestClient shrinks the retry backoff so failure paths stay fast.
func newTestClient(apiURL, apiKey string) *OpenAICompatibleClient {
	client := NewOpenAICompatibleClient(apiURL, apiKey, "test-model")
	client.retrier = retrier.New(
		retrier.WithMaxRetries(defaultMaxRetries),
		retrier.WithInitialInterval(time.Millisecond),
	)
	return client
}

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(chatResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "test-model",
		Choices: []choice{
			{Message: message{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
	})
	require.NoError(t, err)
	return body
}

func TestCompleteSuccess(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write(completionBody(t, "The trend is your friend."))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")

	text, err := client.Complete(context.Background(), "you are an analyst", "what is the trend?")
	require.NoError(t, err)
	require.Equal(t, "The trend is your friend.", text)

	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	require.Equal(t, "system", gotReq.Messages[0].Role)
	require.Equal(t, "you are an analyst", gotReq.Messages[0].Content)
	require.Equal(t, "user", gotReq.Messages[1].Role)
	require.Equal(t, "what is the trend?", gotReq.Messages[1].Content)
}

func TestCompleteEmptyKey(t *testing.T) {
	client := newTestClient("http://unused", "")

	_, err := client.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key is empty")
}

func TestCompleteRetriesTransientFailure(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(completionBody(t, "recovered"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")

	text, err := client.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	require.Equal(t, "recovered", text)
	require.EqualValues(t, 2, atomic.LoadInt32(&attempts))
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		body, err := json.Marshal(chatResponse{
			Error: &apiError{Message: "quota exceeded", Type: "insufficient_quota", Code: "429"},
		})
		require.NoError(t, err)
		w.Write(body)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")

	_, err := client.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"chatcmpl-test","choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")

	_, err := client.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no choices")
}
