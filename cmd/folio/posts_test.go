package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePosts(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "posts")
	files := map[string]string{
		"en/hello.md":  "---\ntitle: Hello\ndate: 2024-01-01\n---\nHello **world**.\n",
		"de/hallo.md":  "---\ntitle: Hallo\nslug: hello\ndate: 2024-01-02\n---\nHallo **Welt**.\n",
		"en/second.md": "---\ntitle: Second\ndate: 2024-02-01\n---\nSecond.\n",
		"en/draft.md":  "---\ntitle: Draft\ndate: 2024-03-01\ndraft: true\n---\nLater.\n",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCmd(t *testing.T) {
	posts := writePosts(t)
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"all", []string{"list"}, []string{"en  second", "de  hello", "en  hello"}, []string{"Draft"}},
		{"lang", []string{"list", "--lang", "de"}, []string{"2024-01-02  de  hello  Hallo"}, []string{"Second"}},
		{"drafts", []string{"list", "--drafts"}, []string{"Draft", "draft\n"}, nil},
	}
	for _, tt := range tests {
		out, err := runCLI(t, append(tt.args, "--content", posts)...)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		for _, w := range tt.want {
			if !strings.Contains(out, w) {
				t.Errorf("%s: output missing %q:\n%s", tt.name, w, out)
			}
		}
		for _, w := range tt.notWant {
			if strings.Contains(out, w) {
				t.Errorf("%s: output should not contain %q:\n%s", tt.name, w, out)
			}
		}
	}
}

func TestShowCmd(t *testing.T) {
	posts := writePosts(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"preferred translation", []string{"show", "hello"}, "<strong>world</strong>"},
		{"explicit lang", []string{"show", "hello", "--lang", "de"}, "<strong>Welt</strong>"},
	}
	for _, tt := range tests {
		out, err := runCLI(t, append(tt.args, "--content", posts)...)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%s: output missing %q:\n%s", tt.name, tt.want, out)
		}
	}

	if _, err := runCLI(t, "show", "missing", "--content", posts); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("show missing = %v, want a not found error", err)
	}
	if _, err := runCLI(t, "show", "--content", posts); err == nil {
		t.Error("show without a slug should fail")
	}
}
