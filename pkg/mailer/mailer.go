// Package mailer sends transactional email. The Sender interface keeps
// callers independent of the transport so tests can observe sends.
package mailer

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers email messages
type Sender interface {
	Send(msg Message) error
}
