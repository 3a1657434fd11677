package mailer

import "context"

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers one message and returns once the relay accepted or
// rejected it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
