package buildinfo

import "testing"

func TestUserAgent(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version = "v1.4.0"
	Commit = "0123456789abcdef"
	if got, want := UserAgent(), "glow/v1.4.0 (0123456)"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}

	Commit = "none"
	if got, want := UserAgent(), "glow/v1.4.0 (none)"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
