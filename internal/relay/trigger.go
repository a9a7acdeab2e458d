package relay

// ShouldTrigger decides whether m addresses the bot. parent is the resolved
// message m replies to, nil when there is none.
func ShouldTrigger(self Identity, m Message, parent *Message) bool {
	// never answer bots, ourselves included
	if m.AuthorIsBot || m.AuthorID == self.ID {
		return false
	}
	if self.IsMention(m.Content) {
		return true
	}
	return parent != nil && parent.AuthorID == self.ID && m.MentionsUser(self.ID)
}
