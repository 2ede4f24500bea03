package validation

import (
	"strings"
	"testing"
)

type sampleInput struct {
	Title    string  `json:"title" validate:"required,min=1,max=10"`
	Location string  `json:"location" validate:"required"`
	Notes    *string `json:"notes" validate:"omitempty,max=5"`
}

func TestStructValid(t *testing.T) {
	if err := Struct(sampleInput{Title: "ok", Location: "here"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestStructReportsAllViolations(t *testing.T) {
	err := Struct(sampleInput{Title: "", Location: ""})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Fields) != 2 {
		t.Fatalf("expected both fields reported, got %v", err.Fields)
	}
	if _, ok := err.Fields["title"]; !ok {
		t.Errorf("expected json field name 'title', got %v", err.Fields)
	}
	if _, ok := err.Fields["location"]; !ok {
		t.Errorf("expected json field name 'location', got %v", err.Fields)
	}
}

func TestStructOptionalPointer(t *testing.T) {
	if err := Struct(sampleInput{Title: "ok", Location: "here", Notes: nil}); err != nil {
		t.Fatalf("nil optional field must not fail: %v", err)
	}

	long := "toolongvalue"
	err := Struct(sampleInput{Title: "ok", Location: "here", Notes: &long})
	if err == nil {
		t.Fatal("expected max violation on notes")
	}
	if msg := err.Fields["notes"]; !strings.Contains(msg, "at most") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestErrorMessageIsDeterministic(t *testing.T) {
	err := NewError(map[string]string{"b": "bad", "a": "bad"})
	if got := err.Error(); got != "validation failed: a: bad; b: bad" {
		t.Fatalf("unexpected message: %q", got)
	}
}
