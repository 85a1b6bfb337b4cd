package trivia

// Category is one entry of the provider's category lookup.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// QuestionFilter selects a batch of questions. Count outside [1,50] is
// rejected before any network call; Category 0 falls back to the video
// games bucket; malformed Difficulty or Type values are dropped
// silently rather than forwarded.
type QuestionFilter struct {
	Count      int
	Category   int
	Difficulty string
	Type       string
}

// Question is a processed trivia question: entities decoded, answers
// merged and shuffled, with the correct option's post-shuffle index.
// Options[CorrectIndex] == CorrectAnswer always holds.
type Question struct {
	ID            int      `json:"id"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Type          string   `json:"type"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Raw provider shapes.

type rawQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type questionsResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []rawQuestion `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []Category `json:"trivia_categories"`
}

type tokenResponse struct {
	ResponseCode int    `json:"response_code"`
	Token        string `json:"token"`
}
