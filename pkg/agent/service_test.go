package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/solardb"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter answers prompts in order and records them.
type scriptedCompleter struct {
	replies []string
	err     error
	prompts []string
}

func (s *scriptedCompleter) ChatCompletions(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func openStore(t *testing.T) *solardb.Store {
	t.Helper()
	store, err := solardb.Open(filepath.Join(t.TempDir(), "agent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	readings := []types.Reading{
		{Timestamp: "2025-01-10 12:00:00", HouseID: 1, ConsumptionKWh: 10, GenerationKWh: 24, SurplusKWh: 14},
		{Timestamp: "2025-01-10 12:00:00", HouseID: 2, ConsumptionKWh: 19, GenerationKWh: 24, SurplusKWh: 5},
	}
	require.NoError(t, store.Append(context.Background(), readings, nil))
	return store
}

func TestSQLChainAnswers(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	schema, err := store.Schema(ctx)
	require.NoError(t, err)

	llm := &scriptedCompleter{replies: []string{
		"SELECT house_id, consumption_kwh FROM readings ORDER BY consumption_kwh DESC LIMIT 1",
		"House 2 consumed the most energy.",
	}}
	answer := Ask(ctx, NewSQLChain(llm, store), "Which house consumed the most?", schema)

	assert.Equal(t, "House 2 consumed the most energy.", answer)
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[0], "consumption_kwh")
	assert.Contains(t, llm.prompts[0], "Which house consumed the most?")
	assert.Contains(t, llm.prompts[1], "KEY: house_id, VAL: 2")
}

func TestAskReportsWriteQueries(t *testing.T) {
	store := openStore(t)
	llm := &scriptedCompleter{replies: []string{"DELETE FROM readings"}}

	answer := Ask(context.Background(), NewSQLChain(llm, store), "remove everything", "")
	assert.True(t, IsError(answer))
	assert.Contains(t, answer, solardb.ErrNotSelect.Error())

	all, err := store.AllReadings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAskReportsModelFailure(t *testing.T) {
	llm := &scriptedCompleter{err: errors.New("connection refused")}
	answer := Ask(context.Background(), NewSQLChain(llm, openStore(t)), "how much?", "")

	assert.True(t, strings.HasPrefix(answer, "Error: "))
	assert.Contains(t, answer, "connection refused")
}

func TestAskEmptyAnswer(t *testing.T) {
	llm := &scriptedCompleter{replies: []string{"SELECT 1", "   "}}
	answer := Ask(context.Background(), NewSQLChain(llm, openStore(t)), "anything?", "")
	assert.Equal(t, ErrorMarker+ErrEmptyAnswer.Error(), answer)
}

func TestAskEmptyQuestion(t *testing.T) {
	llm := &scriptedCompleter{}
	answer := Ask(context.Background(), NewSQLChain(llm, openStore(t)), "  ", "")
	assert.True(t, IsError(answer))
	assert.Empty(t, llm.prompts)
}

func TestChatClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`))
	}))
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-model", "secret", 5*time.Second)
	reply, err := client.ChatCompletions(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestChatClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			w.Write([]byte(`{"choices":[]}`))
			return
		}
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewChatClient(srv.URL+"/limited", "m", "", time.Second).ChatCompletions(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	_, err = NewChatClient(srv.URL+"/empty", "m", "", time.Second).ChatCompletions(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}
