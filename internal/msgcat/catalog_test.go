package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedCatalogDefinesClientKeys(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data := map[string]any{
		"Code": 1000, "Reason": "bye", "Error": "boom",
		"Color": "white", "Square": "e2", "From": "e2", "To": "e4",
	}
	keys := []string{
		NoticeIllegalMove, NoticeGameWon, NoticeGameLost, NoticeConnectionClosed,
		NoticeConnectionDied, NoticeTransportError, PromptWaitingForGame,
		PromptYourTurn, PromptSelected, PromptPending, PromptOpponentTurn, PromptGameOver,
	}
	for _, k := range keys {
		s, err := c.Render(k, data)
		if err != nil {
			t.Fatalf("Render(%s): %v", k, err)
		}
		if strings.TrimSpace(s) == "" {
			t.Fatalf("Render(%s) returned empty text", k)
		}
	}
	if got := c.Text(NoticeConnectionClosed, data); !strings.Contains(got, "code=1000") || !strings.Contains(got, "reason=bye") {
		t.Fatalf("unexpected close notice: %q", got)
	}
}

func TestMissingTemplateDataIsAnError(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render(NoticeConnectionClosed, map[string]any{"Code": 1000}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if got := c.Text("notice.nope", nil); got != "notice.nope" {
		t.Fatalf("Text fallback = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("notice:\n  illegal_move: \"Nope.\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text(NoticeIllegalMove, nil); got != "Nope." {
		t.Fatalf("override not applied: %q", got)
	}
	if got := c.Text(NoticeGameWon, nil); got == NoticeGameWon {
		t.Fatalf("embedded key lost after override")
	}
}

func TestOverrideDirDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("notice:\n  game_won: \"x\"\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dir); err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestOverrideRejectsNonStringLeaves(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("notice:\n  game_won: 3\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected error for non-string leaf")
	}
}
