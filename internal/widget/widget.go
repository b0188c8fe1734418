// Package widget implements the chat client session: conversation
// history, quota gating, and incremental rendering of streamed replies.
//
// The session is the client-side counterpart of the chat relay. It
// enforces the locally-known quota before any network call and
// compensates the counter when a call fails, so a transient server
// error never costs the visitor a question slot.
package widget

import (
	"context"
	"io"
	"strings"

	"github.com/sidmandirwala/portafina/internal/domain"
	"github.com/sidmandirwala/portafina/internal/quota"
)

// Tier is the gating state derived from {count, limit, signed}. It is
// pure presentation: below the limit the input is open; at the limit an
// unsigned visitor is prompted for the lead form; a signed visitor at
// the limit is done for the day.
type Tier int

const (
	TierOpen Tier = iota
	TierLeadPrompt
	TierExhausted
)

// Relay streams an answer for the conversation. The returned body is
// the incremental answer text; a non-nil error means no answer bytes
// were received at all.
type Relay interface {
	Stream(ctx context.Context, messages []domain.Message) (io.ReadCloser, error)
}

// LeadSender submits the lead form.
type LeadSender interface {
	Send(ctx context.Context, name, email string) error
}

// Session holds one visitor's chat state. Not safe for concurrent use:
// like a browser tab, a single caller drives all transitions.
type Session struct {
	quota    *quota.Store
	relay    Relay
	leads    LeadSender
	messages []domain.Message
	inFlight bool
	failed   bool
}

// NewSession creates a chat session over the given quota store handle.
func NewSession(q *quota.Store, relay Relay, leads LeadSender) *Session {
	return &Session{quota: q, relay: relay, leads: leads}
}

// Tier returns the current gating state.
func (s *Session) Tier() Tier {
	if !s.quota.Exhausted() {
		return TierOpen
	}
	if s.quota.Signed() {
		return TierExhausted
	}
	return TierLeadPrompt
}

// Messages returns the conversation so far.
func (s *Session) Messages() []domain.Message {
	return s.messages
}

// Failed reports whether the last submission ended in a transport
// error; it renders as an inline error bubble and clears on the next
// submission.
func (s *Session) Failed() bool {
	return s.failed
}

// Remaining returns the questions left today.
func (s *Session) Remaining() int {
	return s.quota.Remaining()
}

// Signed reports whether the visitor has completed the lead form.
func (s *Session) Signed() bool {
	return s.quota.Signed()
}

// Submit sends one question. It is a no-op (returns false) when the
// quota is exhausted, a request is already in flight, or the text is
// blank. Otherwise it increments the quota, streams the reply through
// onChunk as it arrives, and appends both turns to the history. A
// transport failure rolls the quota increment back.
func (s *Session) Submit(ctx context.Context, text string, onChunk func(string)) bool {
	trimmed := strings.TrimSpace(text)
	if s.inFlight || trimmed == "" || s.Tier() != TierOpen {
		return false
	}
	s.inFlight = true
	defer func() { s.inFlight = false }()

	s.failed = false
	s.quota.Increment()
	s.messages = append(s.messages, domain.Message{Role: domain.RoleUser, Content: trimmed})

	body, err := s.relay.Stream(ctx, s.messages)
	if err != nil {
		s.quota.Rollback()
		s.failed = true
		return true
	}
	defer body.Close()

	var answer strings.Builder
	buf := make([]byte, 512)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			answer.Write(buf[:n])
			if onChunk != nil {
				onChunk(string(buf[:n]))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			// Mid-stream transport failure: compensate the counter but
			// keep whatever text already arrived.
			s.quota.Rollback()
			s.failed = true
			break
		}
	}

	if answer.Len() > 0 {
		s.messages = append(s.messages, domain.Message{Role: domain.RoleAssistant, Content: answer.String()})
	}
	return true
}

// SubmitLead sends the lead form and, on success, permanently raises
// the visitor's daily ceiling.
func (s *Session) SubmitLead(ctx context.Context, name, email string) error {
	if err := s.leads.Send(ctx, name, email); err != nil {
		return err
	}
	s.quota.MarkSigned()
	return nil
}
