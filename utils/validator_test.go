package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"author@example.org",
		"first.last+tag@journal.example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"@example.org",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, reason := ValidatePassword("short"); ok || reason == "" {
		t.Errorf("short password should be rejected with a reason, got ok=%v reason=%q", ok, reason)
	}
	if ok, reason := ValidatePassword("long-enough-password"); !ok || reason != "" {
		t.Errorf("valid password rejected: ok=%v reason=%q", ok, reason)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  title\x00 "); got != "title" {
		t.Errorf("SanitizeInput = %q, want %q", got, "title")
	}
}
