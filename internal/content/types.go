package content

// orderUnset sorts lessons without an explicit order after every lesson
// that declares one.
const orderUnset = 999

// Subject groups the lessons found in one content directory.
type Subject struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Lessons     []Lesson `json:"lessons"`
}

// Lesson is one lesson document loaded from a subject directory.
type Lesson struct {
	Slug   string  `json:"slug"`
	Title  string  `json:"title"`
	Order  int     `json:"order"`
	Blocks []Block `json:"blocks"`
	Quiz   *Quiz   `json:"quiz,omitempty"`
}

// Block is a unit of lesson body content.
type Block struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// Quiz holds the ordered questions embedded in a lesson.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Question is a multiple-choice question with its answer key.
type Question struct {
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
	Answer  string   `json:"answer"`
}

// HasQuiz reports whether the lesson carries a gradable quiz.
func (l Lesson) HasQuiz() bool {
	return l.Quiz != nil && len(l.Quiz.Questions) > 0
}

// Lesson returns the lesson with the given slug and its position in the
// subject's ordering.
func (s Subject) Lesson(slug string) (Lesson, int, bool) {
	for i, l := range s.Lessons {
		if l.Slug == slug {
			return l, i, true
		}
	}
	return Lesson{}, 0, false
}

// Neighbors returns the lessons immediately before and after the given
// position, or nil at either boundary.
func (s Subject) Neighbors(index int) (prev, next *Lesson) {
	if index > 0 {
		prev = &s.Lessons[index-1]
	}
	if index < len(s.Lessons)-1 {
		next = &s.Lessons[index+1]
	}
	return prev, next
}
