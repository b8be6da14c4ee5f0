package grading

// Feedback key used by sentinel results.
const feedbackErrorKey = "Error"

// Sentinel feedback messages. These are part of the student-facing contract:
// a failed pipeline stage surfaces as a zero score with one of these entries,
// never as an HTTP error.
const (
	msgAIUnavailable = "AI unavailable"
	msgEmptyText     = "Empty text. Could not read file."
	msgGradingFailed = "Grading failed"
)

// Result is the outcome of grading one submission. Score is always within
// [0,100] and Feedback is never nil.
type Result struct {
	Score    int               `json:"score"`
	Feedback map[string]string `json:"feedback"`
}

// Degraded reports whether the result is a sentinel produced by a pipeline
// failure rather than a real grade.
func (r Result) Degraded() bool {
	_, ok := r.Feedback[feedbackErrorKey]
	return ok
}

func errorResult(message string) Result {
	return Result{Score: 0, Feedback: map[string]string{feedbackErrorKey: message}}
}
