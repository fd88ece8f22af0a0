package referral

import (
	"errors"
	"testing"
)

func TestMaskEmail(t *testing.T) {
	testCases := []struct {
		email string
		want  string
	}{
		{"johndoe@example.com", "jo*****@e******.***"},
		{"ab@example.com", "ab@e******.***"},
		{"ann.lee@mail.co", "an*****@m***.**"},
		{"a@b.com", "a@b.***"},
		{"x@y", "x@y"},
		{"jo@", "jo@"},
		{"joé@müller.de", "jo*@m*****.**"},
	}
	for _, tc := range testCases {
		got, err := MaskEmail(tc.email)
		if err != nil {
			t.Errorf("MaskEmail(%q) error = %v", tc.email, err)
			continue
		}
		if got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestMaskEmail_Malformed(t *testing.T) {
	for _, email := range []string{"", "johndoe", "john.doe.example.com"} {
		if _, err := MaskEmail(email); !errors.Is(err, ErrMalformedEmail) {
			t.Errorf("MaskEmail(%q) error = %v, want ErrMalformedEmail", email, err)
		}
	}
}
