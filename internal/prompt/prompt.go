// Package prompt builds the instruction strings sent to the language model.
package prompt

import "fmt"

// Section labels the summary must contain, in order.
var SummarySections = []string{
	"Title of Lecture",
	"Main Idea",
	"Key Points",
	"Examples",
	"Additional Points (Professor's Emphasis)",
	"Review Questions (to be completed)",
}

const summaryTemplate = `user
%s
assistant
Generate a concise summary of the above lecture notes in the following format:

Title of Lecture

Main Idea: Summarize the main idea of the lecture here.

Key Points: Summarize key points related to the lecture.

Examples:

* Example 1: Provide relevant examples.
* Example 2:
* Example 3:

Additional Points (Professor's Emphasis):

* Include any additional points emphasized by the professor.

Review Questions (to be completed):

* Provide review questions related to the lecture content.

- NOTE: You MUST bolden the headers (like Title of Lecture, Main Idea, Key Points, Examples, Additional Points (Professor's Emphasis), and Review Questions (to be completed)
`

const followUpTemplate = "User asks: %s\nNotes Context:\n%s\nAssistant:"

// Summary wraps a transcript in the study-notes instruction block.
func Summary(transcript string) string {
	return fmt.Sprintf(summaryTemplate, transcript)
}

// FollowUp asks the model to answer a question using previously generated notes.
func FollowUp(question, notes string) string {
	return fmt.Sprintf(followUpTemplate, question, notes)
}
