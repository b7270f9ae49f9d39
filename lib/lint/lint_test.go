package lint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
	"github.com/andreyshpigunov/x-sub000/lib/encoding"
)

func checkMarkup(t *testing.T, markup string) []Issue {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	return CheckDocument(doc)
}

func TestCleanDocument(t *testing.T) {
	issues := checkMarkup(t, `<html><body>
		<a x-modal-open="info">open</a>
		<div x-modal="info"><p>hi</p></div>
		<div x-sheets>
			<button x-sheet-open="a">A</button>
			<div x-sheet="a">pane</div>
		</div>
		<div x-animate='{"offset":50}' x-rect="100,0,600,200">box</div>
		<header x-sticky="40" x-rect="0,0,1024,60">nav</header>
		<img x-lazyload x-src="/a.jpg" x-rect="900,0,600,400">
	</body></html>`)

	if len(issues) != 0 {
		t.Errorf("clean document produced issues: %v", issues)
	}
}

func TestDetectsProblems(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		wantMsg string
	}{
		{
			name:    "duplicate modal id",
			markup:  `<div x-modal="a">1</div><div x-modal="a">2</div>`,
			wantMsg: "duplicate modal id",
		},
		{
			name:    "empty modal id",
			markup:  `<div x-modal="">1</div>`,
			wantMsg: "empty modal id",
		},
		{
			name:    "unknown trigger target",
			markup:  `<a x-modal-open="ghost">open</a>`,
			wantMsg: "unknown modal",
		},
		{
			name:    "sheet group without buttons",
			markup:  `<div x-sheets><div x-sheet="a">pane</div></div>`,
			wantMsg: "no buttons",
		},
		{
			name:    "button without pane",
			markup:  `<div x-sheets><button x-sheet-open="b">B</button><div x-sheet="a">pane</div></div>`,
			wantMsg: "unknown sheet",
		},
		{
			name:    "malformed animate config",
			markup:  `<div x-animate='{"offset": nope}'>box</div>`,
			wantMsg: "malformed config",
		},
		{
			name:    "non-numeric sticky offset",
			markup:  `<header x-sticky="soon">nav</header>`,
			wantMsg: "not a number",
		},
		{
			name:    "malformed rect",
			markup:  `<div x-rect="tall,0">box</div>`,
			wantMsg: "malformed geometry",
		},
		{
			name:    "lazyload without source",
			markup:  `<img x-lazyload>`,
			wantMsg: "no deferred source",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := checkMarkup(t, "<html><body>"+tt.markup+"</body></html>")
			if len(issues) == 0 {
				t.Fatal("no issues found")
			}
			found := false
			for _, i := range issues {
				if strings.Contains(i.Message, tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("issues = %v, want one containing %q", issues, tt.wantMsg)
			}
		})
	}
}

func TestCheckWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.html")
	bad := filepath.Join(dir, "sub", "bad.html")
	skipped := filepath.Join(dir, "notes.txt")

	if err := os.MkdirAll(filepath.Dir(bad), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, good, `<html><body><div x-modal="a">x</div></body></html>`)
	writeFile(t, bad, `<html><body><a x-modal-open="ghost">x</a></body></html>`)
	writeFile(t, skipped, `<div x-modal="">not markup</div>`)

	issues, err := New(Options{}).Check(dir)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if len(issues) != 1 {
		t.Fatalf("issues = %v, want exactly the bad file's", issues)
	}
	if issues[0].File != bad {
		t.Errorf("issue file = %q, want %q", issues[0].File, bad)
	}
	if !strings.Contains(issues[0].String(), "ghost") {
		t.Errorf("issue = %q, want the unknown target named", issues[0])
	}
}

func TestDetailTokenVerification(t *testing.T) {
	key := []byte("lint-test-key")
	token, err := encoding.NewCodec(key).Encode(map[string]any{"sku": "a-1"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	doc, err := dom.ParseString(`<html><body>
		<div x-detail="` + token + `" id="good">x</div>
		<div x-detail="` + token + `tampered" id="bad">x</div>
		<div x-detail="not-a-token" id="junk">x</div>
	</body></html>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	issues := New(Options{DetailKey: key}).CheckDocument(doc)

	if len(issues) != 2 {
		t.Fatalf("issues = %v, want the two bad tokens", issues)
	}
	for _, i := range issues {
		if !strings.Contains(i.Message, "token rejected") {
			t.Errorf("issue = %q, want a token rejection", i)
		}
		if strings.Contains(i.Element, "good") {
			t.Errorf("valid token flagged: %q", i)
		}
	}
}

func TestDetailTokenWrongKey(t *testing.T) {
	token, err := encoding.NewCodec([]byte("signing-key")).Encode(map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	doc, err := dom.ParseString(`<html><body><div x-detail="` + token + `">x</div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if issues := New(Options{DetailKey: []byte("other-key")}).CheckDocument(doc); len(issues) != 1 {
		t.Errorf("issues = %v, want a rejection under a different key", issues)
	}
}

func TestDetailSkippedWithoutKey(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><div x-detail="garbage">x</div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if issues := New(Options{}).CheckDocument(doc); len(issues) != 0 {
		t.Errorf("issues = %v, want none when no key is configured", issues)
	}
}

func TestCheckFileMissing(t *testing.T) {
	if _, err := New(Options{}).Check(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("Check on a missing path did not error")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
