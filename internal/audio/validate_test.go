package audio

import (
	"strings"
	"testing"
)

func TestValidateClip(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
		errMsg  string
	}{
		{
			name:    "mp3 frame",
			data:    []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00},
			wantErr: false,
		},
		{
			name:    "id3 header",
			data:    []byte("ID3\x04\x00\x00\x00\x00\x00\x00"),
			wantErr: false,
		},
		{
			name:    "empty",
			data:    nil,
			wantErr: true,
			errMsg:  "cannot be empty",
		},
		{
			name:    "whitespace only",
			data:    []byte(" \n\t"),
			wantErr: true,
			errMsg:  "only whitespace",
		},
		{
			name:    "html error page",
			data:    []byte("<html><body>Bad Gateway</body></html>"),
			wantErr: true,
			errMsg:  "looks like text",
		},
		{
			name:    "json error",
			data:    []byte(`  {"message":"not found"}`),
			wantErr: true,
			errMsg:  "looks like text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClip(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClip() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidateClip() error = %v, want error containing %v", err, tt.errMsg)
			}
		})
	}
}
