package domain

// Roles of the messages in a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Prompt is the body sent to ask the student agent something in a chat.
type Prompt struct {
	ChatID string `json:"chatId"`
	Prompt string `json:"prompt"`
}

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is a chat's messages, oldest first.
type Conversation []Message

// Replies returns how many messages came from the assistant.
func (c Conversation) Replies() int {
	n := 0
	for _, m := range c {
		if m.Role == RoleAssistant {
			n++
		}
	}
	return n
}
