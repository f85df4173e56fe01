package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{ServiceAccountJSON: "{}"}, nil)
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCredentialsJSON(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	t.Run("inline wins", func(t *testing.T) {
		b, err := credentialsJSON(Config{ServiceAccountJSON: ` {"type":"service_account"} `, ServiceAccountFile: "/nope"})
		if err != nil || string(b) != `{"type":"service_account"}` {
			t.Fatalf("got %q, %v", b, err)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		if err := os.WriteFile(path, []byte(`{"k":1}`), 0o600); err != nil {
			t.Fatal(err)
		}
		b, err := credentialsJSON(Config{ServiceAccountFile: path})
		if err != nil || string(b) != `{"k":1}` {
			t.Fatalf("got %q, %v", b, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := credentialsJSON(Config{ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json")})
		if err == nil || !strings.Contains(err.Error(), "read service account file") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := credentialsJSON(Config{})
		if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestQuoteSheet(t *testing.T) {
	tests := map[string]string{
		"Lançamentos":  "'Lançamentos'",
		"João's sheet": "'João''s sheet'",
	}
	for in, want := range tests {
		if got := quoteSheet(in); got != want {
			t.Errorf("quoteSheet(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReplaceTable_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "x"}
	if err := c.ReplaceTable(context.Background(), "Categorias", nil); err == nil {
		t.Fatal("expected error without service")
	}
}
