package referral

import (
	"fmt"
	"strings"
)

// MaskEmail hides an email address for display.
//
// The first two characters, the '@' and the character right after it are
// kept, as are the dots of the domain. Every other character becomes '*':
// "johndoe@example.com" is masked as "jo*****@e******.***".
func MaskEmail(email string) (string, error) {
	pos := strings.IndexRune(email, '@')
	if pos < 0 {
		return "", fmt.Errorf("%w: %q", ErrMalformedEmail, email)
	}
	chars := []rune(email)
	pos = len([]rune(email[:pos]))
	for i := 2; i < len(chars); i++ {
		if i < pos || (i > pos+1 && chars[i] != '.') {
			chars[i] = '*'
		}
	}
	return string(chars), nil
}
