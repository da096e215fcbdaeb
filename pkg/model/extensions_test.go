package model_test

import (
	"testing"

	"github.com/goliatone/go-frontier/pkg/model"
)

func TestParseUIExtensions(t *testing.T) {
	extensions := map[string]any{
		"x-frontier": map[string]any{
			"label":       "Display Name",
			"placeholder": "Enter name",
			"tracking":    "on",
		},
		"x-frontier-widget": "textarea",
		"x-other":           "ignored",
	}

	metadata, hints := model.ParseUIExtensions(extensions)

	if got := metadata["label"]; got != "Display Name" {
		t.Fatalf("expected label metadata, got %q", got)
	}
	if got := metadata["tracking"]; got != "on" {
		t.Fatalf("expected unknown keys to stay in metadata, got %q", got)
	}
	if _, ok := hints["tracking"]; ok {
		t.Fatalf("expected tracking to be filtered from hints")
	}
	if got := hints["widget"]; got != "textarea" {
		t.Fatalf("expected flattened widget hint, got %q", got)
	}
	if got := hints["placeholder"]; got != "Enter name" {
		t.Fatalf("expected placeholder hint, got %q", got)
	}
	if _, ok := metadata["other"]; ok {
		t.Fatalf("expected foreign namespaces to be ignored")
	}
}

func TestParseUIExtensionsEmpty(t *testing.T) {
	metadata, hints := model.ParseUIExtensions(nil)
	if metadata != nil || hints != nil {
		t.Fatalf("expected nil maps, got %v %v", metadata, hints)
	}
}
