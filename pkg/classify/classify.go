// Package classify labels commits by keyword-matching their messages.
// It stands in for the external message classifier: the coupling engine
// itself never inspects message text and consumes only the resulting
// CommitType label.
package classify

import (
	"strings"
	"unicode"

	"github.com/panbanda/cochange/pkg/models"
)

var fixKeywords = keywordSet(
	"fix", "fixes", "fixed", "fixing",
	"bug", "issue", "error", "defect",
	"correct", "correction", "corrected",
	"patch", "patched",
	"resolve", "resolved",
	"oops", "whoops", "mistake", "typo",
)

var featureKeywords = keywordSet(
	"feat", "feature", "add", "added", "adding",
	"implement", "implemented", "new", "create",
)

var refactorKeywords = keywordSet(
	"refactor", "refactored", "refactoring",
	"clean", "cleanup", "structure", "restructure",
	"move", "rename",
)

var regenKeywords = keywordSet(
	"regenerate", "regenerated", "regeneration",
	"rewrite", "rewritten", "generated",
)

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Keywords extracts normalized keywords from a commit message.
func Keywords(message string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Commit classifies a commit message into a CommitType. Regeneration
// wins over fix, fix over feature, feature over refactor: the more
// specific signals take priority.
func Commit(message string) models.CommitType {
	keywords := Keywords(message)
	switch {
	case intersects(keywords, regenKeywords):
		return models.TypeRegeneration
	case intersects(keywords, fixKeywords):
		return models.TypeFix
	case intersects(keywords, featureKeywords):
		return models.TypeFeature
	case intersects(keywords, refactorKeywords):
		return models.TypeRefactor
	default:
		return models.TypeUnknown
	}
}

// IsFix reports whether the message indicates a fix commit.
func IsFix(message string) bool {
	return intersects(Keywords(message), fixKeywords)
}

func intersects(a, b map[string]struct{}) bool {
	for w := range a {
		if _, ok := b[w]; ok {
			return true
		}
	}
	return false
}
