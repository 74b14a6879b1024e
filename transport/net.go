package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Net is the production Requester, issuing JSON requests against a
// contest server reachable at baseURL and authenticated with a bearer
// token.
type Net struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewNet builds a Net requester. client may be nil, in which case
// http.DefaultClient is used.
func NewNet(baseURL, token string, client *http.Client) *Net {
	if client == nil {
		client = http.DefaultClient
	}
	return &Net{baseURL: strings.TrimRight(baseURL, "/"), token: token, client: client}
}

func (n *Net) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, n.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("transport: read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("transport: decode response: %w", err)
	}
	return nil
}

// GetMatch fetches the match currently open to this token.
func (n *Net) GetMatch(ctx context.Context) (Match, error) {
	var m Match
	err := n.do(ctx, http.MethodGet, "/match", nil, &m)
	return m, err
}

// GetProblem fetches the metadata for one problem recording.
func (n *Net) GetProblem(ctx context.Context, matchID string) (Problem, error) {
	var p Problem
	err := n.do(ctx, http.MethodGet, "/problem?match_id="+matchID, nil, &p)
	return p, err
}

// GetChunks downloads the problem's audio split into n chunks.
func (n *Net) GetChunks(ctx context.Context, problemID string, chunkCount int) ([][]byte, error) {
	var raw []string
	path := "/problem/chunks?problem_id=" + problemID + "&n=" + strconv.Itoa(chunkCount)
	if err := n.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	chunks := make([][]byte, len(raw))
	for i, s := range raw {
		chunks[i] = []byte(s)
	}
	return chunks, nil
}

// PostAnswer submits the located references, in order, as the answer to
// problemID.
func (n *Net) PostAnswer(ctx context.Context, problemID string, answers []string) (AnswerResponse, error) {
	payload, err := json.Marshal(struct {
		ProblemID string   `json:"problem_id"`
		Answers   []string `json:"answers"`
	}{ProblemID: problemID, Answers: answers})
	if err != nil {
		return AnswerResponse{}, fmt.Errorf("transport: encode answer: %w", err)
	}

	var out AnswerResponse
	err = n.do(ctx, http.MethodPost, "/answer", bytes.NewReader(payload), &out)
	return out, err
}
