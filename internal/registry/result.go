// ABOUTME: Result union type returned by every dispatched operation
// ABOUTME: Carries text, a prompt message sequence, or a contained fault

package registry

import "fmt"

// Role identifies the speaker of a prompt message.
type Role string

// Prompt message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a scripted prompt conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Result is the outcome of a dispatched operation: a text payload, an
// ordered message sequence (prompts only), or a contained fault. Faults
// stay typed inside the Result and are rendered to text only at the
// boundary, so internal code never passes raw error strings around.
type Result struct {
	text     string
	messages []Message
	err      error
}

// Text builds a plain text result.
func Text(s string) Result {
	return Result{text: s}
}

// Textf builds a formatted text result.
func Textf(format string, args ...any) Result {
	return Result{text: fmt.Sprintf(format, args...)}
}

// Conversation builds an ordered message-sequence result.
func Conversation(messages ...Message) Result {
	return Result{messages: messages}
}

// Fail builds a contained-fault result.
func Fail(err error) Result {
	return Result{err: err}
}

// IsError reports whether the result carries a contained fault.
func (r Result) IsError() bool {
	return r.err != nil
}

// Err returns the contained fault, or nil.
func (r Result) Err() error {
	return r.err
}

// Messages returns the prompt message sequence, or nil for text results.
func (r Result) Messages() []Message {
	return r.messages
}

// Render produces the user-facing string form of the result. Faults render
// with an "Error" prefix so the caller (an AI assistant) can read them
// aloud; they are never surfaced as structured error objects.
func (r Result) Render() string {
	if r.err != nil {
		return "Error " + r.err.Error()
	}
	if len(r.messages) > 0 {
		var out string
		for i, m := range r.messages {
			if i > 0 {
				out += "\n\n"
			}
			out += fmt.Sprintf("[%s] %s", m.Role, m.Content)
		}
		return out
	}
	return r.text
}
