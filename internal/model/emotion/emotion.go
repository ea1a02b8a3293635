package emotion

// Emotion is one of the fixed emotional states the product recognizes.
type Emotion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Seed provides the ten emotions the product recognizes. The set is
// process-wide static configuration, not per-user data.
func Seed() []Emotion {
	return []Emotion{
		{Name: "기쁨", Description: "행복하고 즐거운 상태", Icon: "😊"},
		{Name: "슬픔", Description: "마음이 아프고 우울한 상태", Icon: "😢"},
		{Name: "분노", Description: "화가 나고 짜증이 나는 상태", Icon: "😠"},
		{Name: "불안", Description: "걱정이 많고 초조한 상태", Icon: "😰"},
		{Name: "스트레스", Description: "압박감과 중압감을 느끼는 상태", Icon: "😫"},
		{Name: "외로움", Description: "혼자라고 느끼는 상태", Icon: "😔"},
		{Name: "후회", Description: "과거의 선택이나 행동에 대해 아쉬움을 느끼는 상태", Icon: "😞"},
		{Name: "좌절", Description: "목표 달성에 실패하고 실망한 상태", Icon: "😩"},
		{Name: "혼란", Description: "명확한 방향이나 생각을 잡지 못하는 상태", Icon: "😕"},
		{Name: "감사", Description: "고마움을 느끼는 상태", Icon: "🙏"},
	}
}
