package audio

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// ValidateClip rejects payloads that cannot be a pronunciation clip: empty
// bodies and text such as an HTML or JSON error page served with a 200.
func ValidateClip(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("audio clip cannot be empty")
	}

	head := bytes.TrimLeft(data[:min(len(data), 512)], " \t\r\n")
	if len(head) == 0 {
		return fmt.Errorf("audio clip contains only whitespace")
	}

	switch head[0] {
	case '<', '{', '[':
		if utf8.Valid(head) {
			return fmt.Errorf("audio clip looks like text, not audio")
		}
	}

	return nil
}
