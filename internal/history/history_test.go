package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTranscriptRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	tr, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tr.Append(RoleUser, "what is the pto policy?")
	tr.Append(RoleAssistant, "30 days per year.")
	if err := tr.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(reloaded.Messages))
	}
	for i, m := range reloaded.Messages {
		orig := tr.Messages[i]
		if m.ID != orig.ID || m.Role != orig.Role || m.Content != orig.Content {
			t.Fatalf("message %d did not round-trip: %+v vs %+v", i, m, orig)
		}
		if !m.Timestamp.Equal(orig.Timestamp) {
			t.Fatalf("timestamp %d did not round-trip: %v vs %v", i, m.Timestamp, orig.Timestamp)
		}
		if m.Timestamp.IsZero() {
			t.Fatalf("message %d has zero timestamp", i)
		}
	}
	if reloaded.Messages[0].Role != RoleUser || reloaded.Messages[1].Role != RoleAssistant {
		t.Fatal("message order must be preserved")
	}
}

func TestMessagesHaveUniqueIDs(t *testing.T) {
	tr := &Transcript{}
	a := tr.Append(RoleUser, "one")
	b := tr.Append(RoleUser, "two")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestChatHistoryConversion(t *testing.T) {
	tr := &Transcript{}
	tr.Append(RoleUser, "q")
	tr.Append(RoleAssistant, "a")
	hist := tr.ChatHistory()
	if len(hist) != 2 || hist[0].Role != RoleUser || hist[1].Content != "a" {
		t.Fatalf("unexpected conversion: %+v", hist)
	}
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	tr, _ := Load(path, nil)
	tr.Append(RoleUser, "hello")
	if err := tr.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := tr.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(tr.Messages) != 0 {
		t.Fatal("Clear must empty the transcript")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Clear must remove the file")
	}
}

func TestCorruptHistoryStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	if err := os.WriteFile(path, []byte("[{broken"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	tr, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load should tolerate a corrupt file: %v", err)
	}
	if len(tr.Messages) != 0 {
		t.Fatal("corrupt transcript must read as empty")
	}
}

func TestLoadMissingFile(t *testing.T) {
	tr, err := Load(filepath.Join(t.TempDir(), "nope.json"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tr.Messages) != 0 {
		t.Fatal("missing file must read as empty")
	}
}

func TestTimestampsSerializeAsRFC3339(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	tr, _ := Load(path, nil)
	m := tr.Append(RoleUser, "hi")
	if err := tr.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := m.Timestamp.Format(time.RFC3339Nano)
	if !strings.Contains(string(b), want[:19]) { // at least the second-precision prefix
		t.Fatalf("expected RFC3339 timestamp in file, got %s", b)
	}
}
