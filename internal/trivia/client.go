// Package trivia implements the Open Trivia DB client: question
// fetching with entity decoding and answer shuffling, plus the category
// and session-token lookups.
package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gameversehub/gameverse/internal/metrics"
	"github.com/gameversehub/gameverse/internal/upstream"
)

// DefaultBaseURL is the Open Trivia DB root. The three endpoints hang
// off it as fixed paths.
const DefaultBaseURL = "https://opentdb.com"

const (
	questionsPath  = "/api.php"
	categoriesPath = "/api_category.php"
	tokenPath      = "/api_token.php"
)

const (
	minCount = 1
	maxCount = 50

	// Category 15 is the provider's "Entertainment: Video Games"
	// bucket, the application default.
	defaultCategory = 15

	defaultType = "multiple"

	defaultTimeout = 10 * time.Second
)

// Client queries the trivia provider.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu  sync.Mutex
	rng *rand.Rand
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the provider root. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the HTTP client used for provider calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRand overrides the shuffle source for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) { c.rng = rng }
}

// NewClient creates a trivia client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Questions fetches and processes a batch of questions.
func (c *Client) Questions(ctx context.Context, f QuestionFilter) ([]Question, error) {
	if f.Count < minCount || f.Count > maxCount {
		return nil, &upstream.ValidationError{
			Param:  "count",
			Reason: fmt.Sprintf("must be between %d and %d", minCount, maxCount),
		}
	}

	params := url.Values{}
	params.Set("amount", strconv.Itoa(f.Count))
	params.Set("type", normalizeType(f.Type))

	category := f.Category
	if category <= 0 {
		category = defaultCategory
	}
	params.Set("category", strconv.Itoa(category))

	if d := strings.ToLower(f.Difficulty); d == "easy" || d == "medium" || d == "hard" {
		params.Set("difficulty", d)
	}

	var resp questionsResponse
	if err := c.get(ctx, questionsPath+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.ResponseCode != 0 {
		// The provider rejected the parameters; distinct from an
		// empty match set.
		return nil, &upstream.ProtocolError{Provider: "opentdb", Code: resp.ResponseCode}
	}

	questions := make([]Question, 0, len(resp.Results))
	for i, raw := range resp.Results {
		questions = append(questions, c.process(i, raw))
	}
	return questions, nil
}

// Categories lists the provider's category lookup.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp categoriesResponse
	if err := c.get(ctx, categoriesPath, &resp); err != nil {
		return nil, err
	}
	if resp.TriviaCategories == nil {
		return nil, &upstream.ProtocolError{Provider: "opentdb", Status: http.StatusOK}
	}

	cats := make([]Category, 0, len(resp.TriviaCategories))
	for _, cat := range resp.TriviaCategories {
		cats = append(cats, Category{ID: cat.ID, Name: decodeEntities(cat.Name)})
	}
	return cats, nil
}

// SessionToken requests a session token that keeps the provider from
// repeating questions across a quiz session.
func (c *Client) SessionToken(ctx context.Context) (string, error) {
	var resp tokenResponse
	if err := c.get(ctx, tokenPath+"?command=request", &resp); err != nil {
		return "", err
	}
	if resp.ResponseCode != 0 {
		return "", &upstream.ProtocolError{Provider: "opentdb", Code: resp.ResponseCode}
	}
	return resp.Token, nil
}

// process decodes one raw question and shuffles its answers. The
// correct index is found by value-equality search afterwards: the
// decoded correct string is the comparison key, not a position tracked
// through the shuffle.
func (c *Client) process(ordinal int, raw rawQuestion) Question {
	correct := decodeEntities(raw.CorrectAnswer)

	options := make([]string, 0, len(raw.IncorrectAnswers)+1)
	options = append(options, correct)
	for _, a := range raw.IncorrectAnswers {
		options = append(options, decodeEntities(a))
	}
	c.shuffle(options)

	correctIndex := 0
	for i, opt := range options {
		if opt == correct {
			correctIndex = i
			break
		}
	}

	return Question{
		ID:            ordinal,
		Category:      decodeEntities(raw.Category),
		Difficulty:    raw.Difficulty,
		Type:          raw.Type,
		Text:          decodeEntities(raw.Question),
		Options:       options,
		CorrectIndex:  correctIndex,
		CorrectAnswer: correct,
	}
}

// shuffle applies a uniform Fisher-Yates shuffle in place.
func (c *Client) shuffle(s []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(s) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func (c *Client) get(ctx context.Context, pathAndQuery string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return fmt.Errorf("building trivia request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			metrics.RecordUpstream("opentdb", "timeout", start)
			return &upstream.TimeoutError{Provider: "opentdb", Cause: err}
		}
		metrics.RecordUpstream("opentdb", "error", start)
		return &upstream.ProtocolError{Provider: "opentdb"}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordUpstream("opentdb", "error", start)
		return &upstream.ProtocolError{Provider: "opentdb", Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.RecordUpstream("opentdb", "error", start)
		return &upstream.ProtocolError{Provider: "opentdb", Status: resp.StatusCode}
	}

	metrics.RecordUpstream("opentdb", "ok", start)
	return nil
}

func normalizeType(t string) string {
	switch strings.ToLower(t) {
	case "multiple", "boolean":
		return strings.ToLower(t)
	default:
		return defaultType
	}
}

func isTimeout(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "Client.Timeout exceeded")
}
