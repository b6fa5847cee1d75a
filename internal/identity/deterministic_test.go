package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestDocumentUUIDIsStable(t *testing.T) {
	first := DocumentUUID("getting-started")
	second := DocumentUUID("  Getting-Started ")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected case and whitespace to be ignored, got %s and %s", first, second)
	}
	if other := DocumentUUID("release-notes"); other == first {
		t.Fatalf("expected distinct slugs to yield distinct ids")
	}
}

func TestDocumentUUIDBlank(t *testing.T) {
	if got := DocumentUUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank slug, got %s", got)
	}
	if got := UUID(""); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}
