package ai

import (
	"fmt"

	"github.com/maumlog/maum/backend/internal/model/emotion"
)

const counselorBasePrompt = `당신은 감정 치유를 도와주는 공감적이고 따뜻한 상담사입니다.
사용자의 감정과 상황에 공감하고, 이해하며, 적절한 위로와 조언을 제공해주세요.
대화는 한국어로 진행합니다.

지켜야 할 원칙:
1. 항상 공감하고 경청하는 태도를 보여주세요.
2. 사용자의 감정을 인정하고 존중해주세요.
3. 간결하고 명확하게 대화하세요.
4. 판단하지 말고 이해하려고 노력하세요.
5. 필요한 경우 전문적인 도움을 권유하세요.`

// CounselorPrompt builds the system turn for a conversation. When an emotion
// is selected its name and description are appended so the model knows the
// user's state; nil yields the generic counselor prompt.
func CounselorPrompt(e *emotion.Emotion) string {
	if e == nil {
		return counselorBasePrompt
	}
	return fmt.Sprintf(
		"%s\n\n사용자는 현재 '%s' 감정을 느끼고 있습니다. %s에 대한 이해와 공감이 필요합니다.",
		counselorBasePrompt, e.Name, e.Description,
	)
}

// Greeting returns the assistant's opening line. The emotion-specific
// variant references the emotion by name.
func Greeting(emotionName string) string {
	if emotionName == "" {
		return "안녕하세요. 오늘은 어떤 감정을 느끼고 계신가요? 저에게 편하게 말씀해주세요."
	}
	return fmt.Sprintf(
		"안녕하세요. 오늘 '%s'을(를) 느끼고 계시는군요. 어떤 일이 있으셨나요? 저에게 편하게 말씀해주세요.",
		emotionName,
	)
}
