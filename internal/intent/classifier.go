package intent

import (
	"regexp"
	"strings"
)

var (
	numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)
	datePattern   = regexp.MustCompile(`\d{2}-\d{2}-\d{2}`)
)

// Config supplies the phrase tables the classifier matches against.
// Empty slices fall back to the built-in defaults.
type Config struct {
	GratitudePhrases       []string
	TransactionPhrases     []string
	TransferInquiryPhrases []string
}

// Classifier performs scripted intent matching over curated phrase tables.
// It is stateless and safe for concurrent use.
type Classifier struct {
	gratitude       []string
	transaction     []string
	transferInquiry []string
}

// New builds a classifier with phrases normalized once at construction.
func New(cfg Config) *Classifier {
	gratitude := cfg.GratitudePhrases
	if len(gratitude) == 0 {
		gratitude = defaultGratitudePhrases
	}
	transaction := cfg.TransactionPhrases
	if len(transaction) == 0 {
		transaction = defaultTransactionPhrases
	}
	inquiry := cfg.TransferInquiryPhrases
	if len(inquiry) == 0 {
		inquiry = defaultTransferInquiryPhrases
	}

	return &Classifier{
		gratitude:       normalizeAll(gratitude),
		transaction:     normalizeAll(transaction),
		transferInquiry: normalizeAll(inquiry),
	}
}

// IsGratitude reports whether text, normalized, exactly equals a gratitude phrase.
// Exact match only: "thanks a lot for everything" does not match "thanks a lot".
func (c *Classifier) IsGratitude(text string) bool {
	normalized := normalize(text)
	for _, phrase := range c.gratitude {
		if normalized == phrase {
			return true
		}
	}
	return false
}

// MentionsTransactionHistory reports whether text contains any transaction-history
// trigger phrase. Substring containment, so short triggers over-match by design.
func (c *Classifier) MentionsTransactionHistory(text string) bool {
	return containsAny(text, c.transaction)
}

// MentionsTransferInquiry reports whether text contains any transfer-fee trigger phrase.
func (c *Classifier) MentionsTransferInquiry(text string) bool {
	return containsAny(text, c.transferInquiry)
}

// BestMatch picks the candidate that best matches target. Candidate tokens shared
// with the target score 1 each, shared decimal numbers score 2 and shared
// dd-dd-dd dates score 3. The first strictly maximal candidate wins; when every
// candidate scores zero the first candidate containing target as a substring is
// returned, else the first candidate. ok is false only for an empty candidate list.
func (c *Classifier) BestMatch(candidates []string, target string) (match string, ok bool) {
	if len(candidates) == 0 {
		return "", false
	}

	targetTokens := tokenSet(target)
	targetNumbers := numberPattern.FindAllString(target, -1)
	targetDates := datePattern.FindAllString(target, -1)

	best := ""
	bestScore := 0
	for _, candidate := range candidates {
		score := matchScore(candidate, targetTokens, targetNumbers, targetDates)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best, true
	}

	for _, candidate := range candidates {
		if strings.Contains(candidate, target) {
			return candidate, true
		}
	}
	return candidates[0], true
}

func matchScore(candidate string, targetTokens map[string]struct{}, targetNumbers, targetDates []string) int {
	score := 0
	for _, token := range strings.Fields(strings.ToLower(candidate)) {
		if _, found := targetTokens[token]; found {
			score++
		}
	}
	score += 2 * sharedMatches(candidate, targetNumbers, numberPattern)
	score += 3 * sharedMatches(candidate, targetDates, datePattern)
	return score
}

func sharedMatches(candidate string, targetMatches []string, pattern *regexp.Regexp) int {
	if len(targetMatches) == 0 {
		return 0
	}
	candidateMatches := make(map[string]struct{})
	for _, m := range pattern.FindAllString(candidate, -1) {
		candidateMatches[m] = struct{}{}
	}
	shared := 0
	for _, m := range targetMatches {
		if _, found := candidateMatches[m]; found {
			shared++
		}
	}
	return shared
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(text)) {
		set[token] = struct{}{}
	}
	return set
}

func containsAny(text string, phrases []string) bool {
	normalized := normalize(text)
	for _, phrase := range phrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func normalizeAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, normalize(p))
	}
	return out
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
