package models

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"IN_PROGRESS", InProgress, false},
		{"in-progress", InProgress, false},
		{"learned", Learned, false},
		{" Hidden ", Hidden, false},
		{"walleted", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Status Status `json:"status"`
	}{Learned})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"status":"LEARNED"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	if _, err := json.Marshal(Status(0)); err == nil {
		t.Error("expected error marshalling the zero Status")
	}

	var s Status
	if err := json.Unmarshal([]byte(`"HIDDEN"`), &s); err != nil || s != Hidden {
		t.Errorf("Unmarshal = %v, %v; want HIDDEN", s, err)
	}
	if err := json.Unmarshal([]byte(`3`), &s); err == nil {
		t.Error("expected error for numeric status")
	}
}

func TestFlashcardVisibility(t *testing.T) {
	public := Flashcard{ID: 1, Word: "Run"}
	owned := Flashcard{ID: 2, Word: "Jump", OwnerID: Owner(7)}

	if !public.VisibleTo(5) {
		t.Error("public card should be visible to everyone")
	}
	if owned.VisibleTo(5) {
		t.Error("card owned by 7 should not be visible to 5")
	}
	if !owned.VisibleTo(7) {
		t.Error("card owned by 7 should be visible to its owner")
	}
}
