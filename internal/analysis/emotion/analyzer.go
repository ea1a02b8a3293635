// Package emotion implements the heuristic emotion detector used when the
// LLM classifier is unavailable. It scores keyword buckets per emotion and
// picks the best match; it never guesses on a zero score.
package emotion

import "strings"

// Decision carries the detected emotion name and its keyword score.
type Decision struct {
	Emotion string
	Score   int
}

var keywordBuckets = map[string][]string{
	"기쁨": {
		"기뻐", "기쁘", "행복", "즐거", "신나", "좋은 일", "좋았", "웃었", "설레",
		"happy", "joy", "glad", "ㅎㅎ", "하하",
	},
	"슬픔": {
		"슬퍼", "슬프", "우울", "눈물", "울었", "울고", "마음이 아프", "상실", "허전",
		"sad", "cry", "depressed",
	},
	"분노": {
		"화가", "화나", "짜증", "분노", "열받", "빡치", "억울", "분해",
		"angry", "furious", "mad",
	},
	"불안": {
		"불안", "걱정", "초조", "긴장", "두려", "무서", "떨려", "조마조마",
		"anxious", "worried", "nervous",
	},
	"스트레스": {
		"스트레스", "압박", "부담", "지쳤", "지친", "버겁", "야근", "과로",
		"stress", "overwhelmed", "burnout",
	},
	"외로움": {
		"외로", "혼자", "쓸쓸", "고독", "기댈 곳",
		"lonely", "alone",
	},
	"후회": {
		"후회", "아쉬", "그때 그랬", "했더라면", "되돌리",
		"regret",
	},
	"좌절": {
		"좌절", "실패", "포기", "망했", "안 풀려", "안 돼",
		"frustrated", "failed", "give up",
	},
	"혼란": {
		"혼란", "헷갈", "모르겠", "갈피", "복잡해", "어떻게 해야",
		"confused", "lost",
	},
	"감사": {
		"감사", "고마", "고맙", "다행", "덕분에",
		"thank", "grateful",
	},
}

// Detect scores the text against every bucket and returns the best emotion.
// The boolean is false when nothing matched.
func Detect(text string) (string, bool) {
	d := Analyze(text)
	return d.Emotion, d.Score > 0
}

// Analyze returns the full scoring decision for the text.
func Analyze(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{}
	}

	best := Decision{}
	for emotion, keywords := range keywordBuckets {
		score := 0
		for _, word := range keywords {
			if strings.Contains(normalized, strings.ToLower(word)) {
				score += 3
			}
		}
		if score > best.Score || (score == best.Score && score > 0 && emotion < best.Emotion) {
			best = Decision{Emotion: emotion, Score: score}
		}
	}
	return best
}
