package intent

import (
	"regexp"
	"strings"
)

var (
	orderPattern    = regexp.MustCompile(`(?i)\border\b|#\d+|\btracking\b`)
	orderNumberExpr = regexp.MustCompile(`#?(\d{3,10})`)
	emailExpr       = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)
	productPattern  = regexp.MustCompile(`(?i)\b(?:products?|price|tell me about|description|details|do you have|in stock|looking for)\b`)
	greetingPattern = regexp.MustCompile(`(?i)\b(?:hello|hi|hey)\b`)
	wordSplitter    = regexp.MustCompile(`[^\pL\pN#@]+`)
)

var shortcutWords = map[string]bool{
	"hello": true,
	"hi":    true,
	"hey":   true,
	"there": true,
}

// ClassifyRules is the deterministic keyword classifier used whenever the
// model path is disabled or unusable.
func ClassifyRules(utterance string) Result {
	switch {
	case orderPattern.MatchString(utterance):
		var e Entities
		// Digits inside an email address are never an order number.
		withoutEmails := emailExpr.ReplaceAllString(utterance, " ")
		if m := orderNumberExpr.FindStringSubmatch(withoutEmails); m != nil {
			e.OrderNumber = m[1]
		}
		e.Email = emailExpr.FindString(utterance)
		return Result{Intent: OrderStatus, Entities: e, Source: SourceRules}
	case productPattern.MatchString(utterance):
		return Result{Intent: ProductInfo, Entities: Entities{Product: utterance}, Source: SourceRules}
	case greetingPattern.MatchString(utterance):
		return Result{Intent: Greeting, Source: SourceRules}
	default:
		return Result{Intent: Fallback, Source: SourceRules}
	}
}

// IsBareGreeting reports whether utterance holds nothing but greeting words
// and punctuation, e.g. "Hi!" or "hey there". Numbers, "#" tokens and emails
// disqualify it.
func IsBareGreeting(utterance string) bool {
	words := wordSplitter.Split(strings.ToLower(utterance), -1)
	greeted := false
	for _, w := range words {
		if w == "" {
			continue
		}
		if !shortcutWords[w] {
			return false
		}
		if w != "there" {
			greeted = true
		}
	}
	return greeted
}
