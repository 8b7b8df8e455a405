package agent

// Transcript is the append-only ordered history of one conversation. It is
// owned by a single turn at a time; turns on the same conversation must be
// serialized by the caller, so no locking happens here.
type Transcript struct {
	messages []Message
}

func NewTranscript(initial ...Message) *Transcript {
	t := &Transcript{}
	t.Append(initial...)
	return t
}

func (t *Transcript) Append(messages ...Message) {
	t.messages = append(t.messages, messages...)
}

// Messages returns a copy of the history in append order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int { return len(t.messages) }
