package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Dataset is a Quoref-style reading-comprehension dataset.
// The JSON shape matches the official data release, so a dataset
// written by one session can be fed back in as the input of the next.
type Dataset struct {
	// Version is the dataset release version, if present.
	Version string `json:"version,omitempty"`

	// Data holds the articles.
	Data []Article `json:"data"`
}

// Article groups the paragraphs drawn from one source document.
type Article struct {
	// Title is the source document title.
	Title string `json:"title"`

	// URL is the source document location.
	URL string `json:"url,omitempty"`

	// Paragraphs are the context passages for this article.
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph is a context passage together with its QA pairs.
type Paragraph struct {
	// Context is the passage text the questions are asked about.
	Context string `json:"context"`

	// ContextID uniquely identifies the passage within the dataset.
	ContextID string `json:"context_id,omitempty"`

	// QAs are the question/answer pairs for this passage.
	QAs []QAPair `json:"qas"`
}

// QAPair is a question with one or more accepted answer spans.
// A pair with a non-empty OriginalID is a perturbation of another
// pair in the same paragraph and is never perturbed again.
type QAPair struct {
	// ID uniquely identifies the question.
	ID string `json:"id"`

	// Question is the question text.
	Question string `json:"question"`

	// Answers are the accepted answer spans.
	Answers []Answer `json:"answers"`

	// OriginalID links a perturbed question to the pair it was
	// derived from. Empty for original dataset questions.
	OriginalID string `json:"original_id,omitempty"`
}

// Answer is a single accepted answer span within the context.
type Answer struct {
	// Text is the span text, copied verbatim from the context.
	Text string `json:"text"`

	// AnswerStart is the codepoint offset of the span's first
	// occurrence in the context.
	AnswerStart int `json:"answer_start"`
}

// IsPerturbation reports whether the pair was authored by an
// annotator rather than shipped with the original dataset.
func (q QAPair) IsPerturbation() bool {
	return q.OriginalID != ""
}

// AnswerTexts returns the answer span texts in stored order.
func (q QAPair) AnswerTexts() []string {
	texts := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		texts[i] = a.Text
	}
	return texts
}

// QuestionIDs returns the set of question IDs present in the
// paragraph, including any perturbations added this session.
func (p Paragraph) QuestionIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.QAs))
	for _, qa := range p.QAs {
		ids[qa.ID] = struct{}{}
	}
	return ids
}

// QuestionID derives the stable identifier for a question asked
// against a given key (the paragraph context for interactive
// sessions, the context ID for merges). The scheme is a hex SHA-1
// of "<key> <question>" and must not change: chained sessions rely
// on it to detect duplicate questions.
func QuestionID(key, question string) string {
	sum := sha1.Sum([]byte(key + " " + question))
	return hex.EncodeToString(sum[:])
}

// LocateSpan finds the first occurrence of span within context and
// returns it as an Answer. Returns ErrSpanNotFound if the span does
// not occur verbatim.
//
// Only the first occurrence is used, and answer_start counts
// codepoints, not bytes, matching the official dataset's convention.
func LocateSpan(context, span string) (Answer, error) {
	start := strings.Index(context, span)
	if start < 0 {
		return Answer{}, ErrSpanNotFound
	}
	return Answer{Text: span, AnswerStart: utf8.RuneCountInString(context[:start])}, nil
}

// ParagraphCount returns the total number of paragraphs across all
// articles.
func (d *Dataset) ParagraphCount() int {
	n := 0
	for _, article := range d.Data {
		n += len(article.Paragraphs)
	}
	return n
}

// QACount returns the total number of QA pairs, split into original
// pairs and perturbations.
func (d *Dataset) QACount() (original, perturbed int) {
	for _, article := range d.Data {
		for _, paragraph := range article.Paragraphs {
			for _, qa := range paragraph.QAs {
				if qa.IsPerturbation() {
					perturbed++
				} else {
					original++
				}
			}
		}
	}
	return original, perturbed
}

// Validate checks the minimal structural invariants the tool relies
// on: at least one article, and every article has at least one
// paragraph with a non-empty context.
func (d *Dataset) Validate() error {
	if len(d.Data) == 0 {
		return ErrEmptyDataset
	}
	for _, article := range d.Data {
		if len(article.Paragraphs) == 0 {
			return ErrEmptyDataset
		}
		for _, paragraph := range article.Paragraphs {
			if paragraph.Context == "" {
				return ErrInvalidInput
			}
		}
	}
	return nil
}
