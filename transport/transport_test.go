package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockSatisfiesRequester(t *testing.T) {
	var _ Requester = (*Mock)(nil)
	var _ Requester = (*Net)(nil)
}

func TestMockServesFixture(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "information.yaml", `
match:
  id: m1
  problem_id: p1
problem:
  id: p1
  chunks: 2
  data: 2
  start_at: "2026-01-01T00:00:00Z"
  time_limit: 300
chunk_files:
  - chunk0.bin
  - chunk1.bin
expected_answer:
  - "1"
  - "44"
`)
	writeFile(t, dir, "chunk0.bin", "first-chunk")
	writeFile(t, dir, "chunk1.bin", "second-chunk")

	m, err := NewMock(dir)
	require.NoError(t, err)

	ctx := context.Background()
	match, err := m.GetMatch(ctx)
	require.NoError(t, err)
	require.Equal(t, "m1", match.ID)

	problem, err := m.GetProblem(ctx, match.ID)
	require.NoError(t, err)
	require.Equal(t, "p1", problem.ID)

	chunks, err := m.GetChunks(ctx, problem.ID, 2)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("first-chunk"), []byte("second-chunk")}, chunks)

	resp, err := m.PostAnswer(ctx, problem.ID, []string{"1", "44"})
	require.NoError(t, err)
	require.True(t, resp.Correct)

	resp, err = m.PostAnswer(ctx, problem.ID, []string{"1", "43"})
	require.NoError(t, err)
	require.False(t, resp.Correct)
}

func TestNetClassifiesErrorResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewNet(srv.URL, "bad-token", nil)
	_, err := n.GetMatch(context.Background())
	require.Error(t, err)
	var transportErr *Error
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, ErrInvalidToken, transportErr.Kind)
}

func TestNetGetMatchDecodesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(Match{ID: "m1", ProblemID: "p1"})
	}))
	defer srv.Close()

	n := NewNet(srv.URL, "tok", nil)
	m, err := n.GetMatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "m1", m.ID)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
