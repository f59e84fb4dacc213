package conversation

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a single entry in the conversation.
// Messages are immutable once appended.
type Message struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// State is a point-in-time copy of the conversation
type State struct {
	Messages []Message
	Pending  bool
}

// MessageCount returns the number of messages in the state
func (s State) MessageCount() int {
	return len(s.Messages)
}

// Last returns the most recent message, if any
func (s State) Last() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastBotMessage returns the most recent bot message, if any
func (s State) LastBotMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Sender == SenderBot {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}
