package irc

import "testing"

func TestCheckAddressed(t *testing.T) {
	tests := []struct {
		name    string
		message string
		nick    string
		want    bool
	}{
		{"exact with colon", "bot: hello", "bot", true},
		{"exact with comma", "bot, hello", "bot", true},
		{"case insensitive", "Bot: hello", "bot", true},
		{"second line", "hey\nbot: hello", "bot", true},
		{"space only", "bot hello", "bot", false},
		{"nick prefix matches longer word", "botter: hello", "bot", false},
		{"nick in middle", "hello bot: there", "bot", false},
		{"no space after colon", "bot:hello", "bot", false},
		{"just nick", "bot", "bot", false},
		{"empty message", "", "bot", false},
		{"empty nick", "bot: hello", "", false},
		{"regexp characters in nick", "bxt|: x", "b.t|", false},
		{"nick with brackets", "[bot]: hi", "[bot]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAddressed(tt.message, tt.nick)
			if got != tt.want {
				t.Errorf("CheckAddressed(%q, %q) = %v, want %v", tt.message, tt.nick, got, tt.want)
			}
		})
	}
}

func TestMentionsNick(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"leading", "gptrelay: hi", true},
		{"middle", "ask gptrelay about it", true},
		{"trailing punctuation", "thanks gptrelay!", true},
		{"different case", "GPTRelay rocks", true},
		{"part of longer nick", "gptrelay_ is here", false},
		{"prefix of word", "gptrelays", false},
		{"absent", "nothing to see", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MentionsNick(tt.message, "gptrelay"); got != tt.want {
				t.Errorf("MentionsNick(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}

	if MentionsNick("anything", "") {
		t.Error("empty nick should never match")
	}
}

func TestCheckAdmin_EmptyList(t *testing.T) {
	// no owners configured means owner commands are disabled
	if CheckAdmin("anyone!user@host.com", []string{}) {
		t.Error("CheckAdmin with empty list should return false")
	}
	if CheckAdmin("anyone!user@host.com", nil) {
		t.Error("CheckAdmin with nil list should return false")
	}
}

func TestCheckAdmin_ExactMatch(t *testing.T) {
	admins := []string{"admin!user@trusted.host"}

	tests := []struct {
		name     string
		hostmask string
		want     bool
	}{
		{"exact match", "admin!user@trusted.host", true},
		{"different nick", "other!user@trusted.host", false},
		{"different user", "admin!other@trusted.host", false},
		{"different host", "admin!user@other.host", false},
		{"partial match", "admin!user@trusted", false},
		{"empty hostmask", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAdmin(tt.hostmask, admins)
			if got != tt.want {
				t.Errorf("CheckAdmin(%q, admins) = %v, want %v", tt.hostmask, got, tt.want)
			}
		})
	}
}

func TestCheckAdmin_Wildcard(t *testing.T) {
	admins := []string{"*!*@trusted.host"}

	if !CheckAdmin("anyone!ident@trusted.host", admins) {
		t.Error("expected wildcard mask to match")
	}
	if CheckAdmin("anyone!ident@evil.host", admins) {
		t.Error("expected wildcard mask not to match another host")
	}
}

func TestCheckAdmin_MultipleAdmins(t *testing.T) {
	admins := []string{
		"admin1!user@host1.com",
		"admin2!user@host2.com",
		"admin3!user@host3.com",
	}

	tests := []struct {
		hostmask string
		want     bool
	}{
		{"admin1!user@host1.com", true},
		{"admin2!user@host2.com", true},
		{"admin3!user@host3.com", true},
		{"admin4!user@host4.com", false},
		{"admin1!user@host2.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.hostmask, func(t *testing.T) {
			if got := CheckAdmin(tt.hostmask, admins); got != tt.want {
				t.Errorf("CheckAdmin(%q) = %v, want %v", tt.hostmask, got, tt.want)
			}
		})
	}
}

func TestReplyTarget(t *testing.T) {
	tests := []struct {
		target string
		nick   string
		want   string
	}{
		{"#chan", "alice", "#chan"},
		{"gptrelay", "alice", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := ReplyTarget(tt.target, tt.nick); got != tt.want {
				t.Errorf("ReplyTarget(%q, %q) = %q, want %q", tt.target, tt.nick, got, tt.want)
			}
		})
	}
}
