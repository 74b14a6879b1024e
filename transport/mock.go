package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// mockFixture is the on-disk shape of information.yaml: everything Mock
// needs to answer GetMatch/GetProblem/GetChunks/PostAnswer without
// touching the network.
type mockFixture struct {
	Match          Match    `yaml:"match"`
	Problem        Problem  `yaml:"problem"`
	ChunkFiles     []string `yaml:"chunk_files"`
	ExpectedAnswer []string `yaml:"expected_answer"`
}

// Mock is a filesystem-backed Requester for local development and
// integration tests: it reads a YAML fixture describing the match and
// problem plus a set of WAV chunk files sitting alongside it, and checks
// posted answers against a fixture-declared expectation instead of
// accepting a real server's verdict.
type Mock struct {
	dir     string
	fixture mockFixture
}

// NewMock loads fixtureDir/information.yaml and the chunk files it names
// (resolved relative to fixtureDir).
func NewMock(fixtureDir string) (*Mock, error) {
	raw, err := os.ReadFile(filepath.Join(fixtureDir, "information.yaml"))
	if err != nil {
		return nil, fmt.Errorf("transport: read fixture: %w", err)
	}
	var fixture mockFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("transport: parse fixture: %w", err)
	}
	return &Mock{dir: fixtureDir, fixture: fixture}, nil
}

// GetMatch returns the fixture's match verbatim.
func (m *Mock) GetMatch(ctx context.Context) (Match, error) {
	return m.fixture.Match, nil
}

// GetProblem returns the fixture's problem verbatim, ignoring matchID
// beyond checking it matches the fixture (a mismatch almost always means
// the caller is exercising the wrong fixture).
func (m *Mock) GetProblem(ctx context.Context, matchID string) (Problem, error) {
	if matchID != m.fixture.Match.ID {
		return Problem{}, &Error{Kind: ErrNotFound, StatusCode: 404}
	}
	return m.fixture.Problem, nil
}

// GetChunks reads the fixture's chunk files from disk; n is ignored
// beyond a count check, since the fixture already committed to a fixed
// split.
func (m *Mock) GetChunks(ctx context.Context, problemID string, n int) ([][]byte, error) {
	if problemID != m.fixture.Problem.ID {
		return nil, &Error{Kind: ErrNotFound, StatusCode: 404}
	}
	if n != len(m.fixture.ChunkFiles) {
		return nil, &Error{Kind: ErrFormat, StatusCode: 400}
	}
	chunks := make([][]byte, len(m.fixture.ChunkFiles))
	for i, name := range m.fixture.ChunkFiles {
		data, err := os.ReadFile(filepath.Join(m.dir, name))
		if err != nil {
			return nil, fmt.Errorf("transport: read chunk %s: %w", name, err)
		}
		chunks[i] = data
	}
	return chunks, nil
}

// PostAnswer compares answers against the fixture's expected_answer and
// reports whether they matched, exactly like a real server's verdict
// would, but entirely locally.
func (m *Mock) PostAnswer(ctx context.Context, problemID string, answers []string) (AnswerResponse, error) {
	if problemID != m.fixture.Problem.ID {
		return AnswerResponse{}, &Error{Kind: ErrNotFound, StatusCode: 404}
	}
	correct := len(answers) == len(m.fixture.ExpectedAnswer)
	if correct {
		for i, a := range answers {
			if a != m.fixture.ExpectedAnswer[i] {
				correct = false
				break
			}
		}
	}
	msg := "mismatch"
	if correct {
		msg = "ok"
	}
	return AnswerResponse{Correct: correct, Message: msg}, nil
}
