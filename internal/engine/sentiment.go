package engine

import (
	"strings"

	"github.com/jask/mispricing/internal/analysis"
)

// maxSentimentArticles caps the classified headlines carried in the payload.
const maxSentimentArticles = 10

// polarity thresholds matching the original classifier.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

var positiveWords = map[string]struct{}{
	"beat": {}, "beats": {}, "gain": {}, "gains": {}, "growth": {},
	"jump": {}, "jumps": {}, "outperform": {}, "profit": {}, "rally": {},
	"record": {}, "strong": {}, "surge": {}, "surges": {}, "upgrade": {},
	"upgraded": {}, "wins": {}, "buyback": {}, "raises": {}, "exceeds": {},
}

var negativeWords = map[string]struct{}{
	"bankruptcy": {}, "cuts": {}, "decline": {}, "declines": {}, "downgrade": {},
	"downgraded": {}, "drop": {}, "drops": {}, "falls": {}, "lawsuit": {},
	"loss": {}, "losses": {}, "miss": {}, "misses": {}, "plunge": {},
	"plunges": {}, "probe": {}, "recall": {}, "warning": {}, "weak": {},
}

// AnalyzeSentiment classifies headline polarity with a small lexicon and
// summarizes the counts. Only the first maxSentimentArticles classified
// headlines are carried for display.
func AnalyzeSentiment(news []NewsArticle) analysis.NewsSentiment {
	var articles []analysis.SentimentArticle
	summary := analysis.SentimentSummary{Total: len(news)}

	for _, a := range news {
		label := classify(headlinePolarity(a.Title))
		switch label {
		case "Positive":
			summary.Positive++
		case "Negative":
			summary.Negative++
		default:
			summary.Neutral++
		}
		articles = append(articles, analysis.SentimentArticle{
			Text:  a.Title,
			URL:   a.URL,
			Label: label,
		})
	}

	if len(articles) > maxSentimentArticles {
		articles = articles[:maxSentimentArticles]
	}
	return analysis.NewsSentiment{Summary: summary, Articles: articles}
}

// headlinePolarity scores a headline in [-1, 1] by lexicon hits over token
// count.
func headlinePolarity(title string) float64 {
	tokens := strings.Fields(strings.ToLower(title))
	if len(tokens) == 0 {
		return 0
	}
	score := 0
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,:;!?'\"()")
		if _, ok := positiveWords[tok]; ok {
			score++
		}
		if _, ok := negativeWords[tok]; ok {
			score--
		}
	}
	return float64(score) / float64(len(tokens))
}

func classify(polarity float64) string {
	switch {
	case polarity > positiveThreshold:
		return "Positive"
	case polarity < negativeThreshold:
		return "Negative"
	default:
		return "Neutral"
	}
}
