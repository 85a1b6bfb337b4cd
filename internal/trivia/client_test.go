package trivia

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameversehub/gameverse/internal/upstream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int) {
	t.Helper()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(
		WithBaseURL(srv.URL),
		WithRand(rand.New(rand.NewSource(1))),
	)
	return c, &calls
}

func TestQuestions_CountOutOfRange(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, count := range []int{0, 51, -1, 100} {
		_, err := c.Questions(context.Background(), QuestionFilter{Count: count})
		require.Error(t, err)
		assert.True(t, upstream.IsValidation(err), "count %d should be a validation error", count)
	}

	// No upstream call may happen before validation.
	assert.Equal(t, 0, *calls)
}

func TestQuestions_DefaultsAndDroppedParams(t *testing.T) {
	var query map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, `{"response_code":0,"results":[]}`)
	})

	_, err := c.Questions(context.Background(), QuestionFilter{
		Count:      5,
		Difficulty: "IMPOSSIBLE",
		Type:       "essay",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"5"}, query["amount"])
	assert.Equal(t, []string{"15"}, query["category"], "category defaults to the video games bucket")
	assert.Equal(t, []string{"multiple"}, query["type"], "malformed type falls back to multiple")
	assert.NotContains(t, query, "difficulty", "malformed difficulty must be dropped, not forwarded")
}

func TestQuestions_ValidDifficultyForwarded(t *testing.T) {
	var query map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, `{"response_code":0,"results":[]}`)
	})

	_, err := c.Questions(context.Background(), QuestionFilter{
		Count:      3,
		Category:   9,
		Difficulty: "Hard",
		Type:       "boolean",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"9"}, query["category"])
	assert.Equal(t, []string{"hard"}, query["difficulty"])
	assert.Equal(t, []string{"boolean"}, query["type"])
}

func TestQuestions_NonZeroResponseCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response_code":2,"results":[]}`)
	})

	_, err := c.Questions(context.Background(), QuestionFilter{Count: 10})
	require.Error(t, err)

	var protoErr *upstream.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, 2, protoErr.Code)
}

func TestQuestions_UpstreamStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := c.Questions(context.Background(), QuestionFilter{Count: 10})
	require.Error(t, err)

	var protoErr *upstream.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, http.StatusTooManyRequests, protoErr.Status)
}

func TestQuestions_ProcessesBatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response_code":0,"results":[
			{"question":"Q &amp; A","correct_answer":"Yes",
			 "incorrect_answers":["No","Maybe"],"category":"Games",
			 "difficulty":"easy","type":"multiple"}
		]}`)
	})

	questions, err := c.Questions(context.Background(), QuestionFilter{Count: 1})
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, 0, q.ID)
	assert.Equal(t, "Q & A", q.Text)
	assert.Equal(t, "Games", q.Category)
	assert.Equal(t, "easy", q.Difficulty)
	assert.Equal(t, "Yes", q.CorrectAnswer)
	assert.ElementsMatch(t, []string{"Yes", "No", "Maybe"}, q.Options)
	assert.Equal(t, "Yes", q.Options[q.CorrectIndex])
}

func TestProcess_CorrectIndexInvariant(t *testing.T) {
	c := NewClient(WithRand(rand.New(rand.NewSource(42))))

	for trial := 0; trial < 1000; trial++ {
		nOptions := 2 + c.rng.Intn(5) // 2..6 options
		incorrect := make([]string, 0, nOptions-1)
		for i := 0; i < nOptions-1; i++ {
			incorrect = append(incorrect, fmt.Sprintf("wrong-%d-%d", trial, i))
		}

		q := c.process(trial, rawQuestion{
			Question:         "q",
			CorrectAnswer:    fmt.Sprintf("right-%d", trial),
			IncorrectAnswers: incorrect,
		})

		require.Len(t, q.Options, nOptions)
		assert.Equal(t, q.CorrectAnswer, q.Options[q.CorrectIndex])
	}
}

func TestProcess_DecodesAllAnswerStrings(t *testing.T) {
	c := NewClient(WithRand(rand.New(rand.NewSource(7))))

	q := c.process(0, rawQuestion{
		Category:         "Entertainment: Video Games &amp; More",
		Question:         "Who said &quot;hello&quot;?",
		CorrectAnswer:    "Se&ntilde;or",
		IncorrectAnswers: []string{"&lt;nobody&gt;", "Chlo&eacute;"},
	})

	assert.Equal(t, "Entertainment: Video Games & More", q.Category)
	assert.Equal(t, `Who said "hello"?`, q.Text)
	assert.Equal(t, "Señor", q.CorrectAnswer)
	assert.ElementsMatch(t, []string{"Señor", "<nobody>", "Chloé"}, q.Options)
	assert.Equal(t, "Señor", q.Options[q.CorrectIndex])
}

func TestCategories(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, categoriesPath, r.URL.Path)
		fmt.Fprint(w, `{"trivia_categories":[
			{"id":15,"name":"Entertainment: Video Games"},
			{"id":9,"name":"General Knowledge"}
		]}`)
	})

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, Category{ID: 15, Name: "Entertainment: Video Games"}, cats[0])
}

func TestCategories_MissingField(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected":true}`)
	})

	_, err := c.Categories(context.Background())
	require.Error(t, err)

	var protoErr *upstream.ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestSessionToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tokenPath, r.URL.Path)
		assert.Equal(t, "request", r.URL.Query().Get("command"))
		fmt.Fprint(w, `{"response_code":0,"token":"abc123"}`)
	})

	token, err := c.SessionToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestSessionToken_NonZeroCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response_code":3}`)
	})

	_, err := c.SessionToken(context.Background())
	require.Error(t, err)

	var protoErr *upstream.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, 3, protoErr.Code)
}
