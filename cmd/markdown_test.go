package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteMarkdown_HTML(t *testing.T) {
	md := "# Referrals\n\n| Country | Milestones |\n|:---|---:|\n| Philippines | 3 |\n"
	var buf bytes.Buffer
	if err := writeMarkdown(&buf, md, true); err != nil {
		t.Fatalf("writeMarkdown() error = %v", err)
	}
	got := buf.String()
	for _, want := range []string{"<h1>Referrals</h1>", "<table>", "<td>Philippines</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("writeMarkdown() = %q, want it to contain %q", got, want)
		}
	}
}

func TestWriteMarkdown_Terminal(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMarkdown(&buf, "# Referrals\n\nNo referral yet.\n", false); err != nil {
		t.Fatalf("writeMarkdown() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No referral yet.") {
		t.Errorf("writeMarkdown() = %q", buf.String())
	}
}
