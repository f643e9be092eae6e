package email

import (
	"context"
	"html"
	"strings"
)

// Notifier sends plain-text notices to the club administrators.
type Notifier struct {
	sender Sender
	to     []string
}

// NewNotifier addresses notices to the given admins. Blank addresses are dropped.
func NewNotifier(sender Sender, admins ...string) *Notifier {
	n := &Notifier{sender: sender}
	for _, a := range admins {
		if a = strings.TrimSpace(a); a != "" {
			n.to = append(n.to, a)
		}
	}
	return n
}

// NotifyAdmin sends subject and text to every admin.
// POST: no-op when no admin address is configured
func (n *Notifier) NotifyAdmin(ctx context.Context, subject, text string) error {
	if n == nil || len(n.to) == 0 {
		return nil
	}
	_, err := n.sender.Send(ctx, Message{
		To:      n.to,
		Subject: subject,
		Text:    text,
		HTML:    "<pre>" + html.EscapeString(text) + "</pre>",
	})
	return err
}
