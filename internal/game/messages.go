package game

import "strconv"

type infoMessage struct {
	text     string
	duration int64
	created  int64
}

// messageBoard holds timed info messages and forwards the live ones to the
// sink once per frame.
type messageBoard struct {
	msgs []infoMessage
}

func (b *messageBoard) push(text string, duration, now int64) {
	b.msgs = append(b.msgs, infoMessage{text: text, duration: duration, created: now})
}

// post sends every message still inside its window and drops the rest.
func (b *messageBoard) post(sink InfoSink, now int64) {
	kept := b.msgs[:0]
	for _, m := range b.msgs {
		if m.created+m.duration >= now {
			sink.PushInfoMessage(m.text)
			kept = append(kept, m)
		}
	}
	b.msgs = kept
}

func (b *messageBoard) purge() { b.msgs = b.msgs[:0] }

func (b *messageBoard) pending() []string {
	out := make([]string, len(b.msgs))
	for i, m := range b.msgs {
		out[i] = m.text
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
