package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestConfigKeys(t *testing.T) {
	keys := make(map[string]bool)
	for _, k := range configKeys() {
		keys[k] = true
	}
	for _, want := range []string{"contentDir", "outputDir", "locales", "sessionSecret", "watch"} {
		if !keys[want] {
			t.Errorf("configKeys() missing %q", want)
		}
	}
}

func TestInitializeConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "folio.yaml")
	yaml := "name: From File\noutputDir: file-out\naddr: \":4000\"\nlocales: [en, de]\n"
	if err := os.WriteFile(cfgFile, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("FOLIO_AUTHOR=Ada\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("FOLIO_AUTHOR") })
	t.Setenv("FOLIO_OUTPUTDIR", "env-out")
	t.Setenv("FOLIO_SESSIONSECRET", "s3cret")

	c := &cli{v: viper.New(), cfgFile: cfgFile, envFile: envFile}
	cmd := newServeCmd(c)
	if err := cmd.Flags().Set("addr", ":5000"); err != nil {
		t.Fatal(err)
	}
	if err := c.initializeConfig(cmd); err != nil {
		t.Fatalf("initializeConfig: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"file", c.config.Name, "From File"},
		{"env over file", c.config.OutputDir, "env-out"},
		{"flag over file", c.config.Addr, ":5000"},
		{"dotenv", c.config.Author, "Ada"},
		{"env only", c.config.SessionSecret, "s3cret"},
		{"default", c.config.ContentDir, "content/posts"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if len(c.config.Locales) != 2 {
		t.Errorf("Locales = %v, want [en de]", c.config.Locales)
	}
}

func TestInitializeConfigMissingFile(t *testing.T) {
	c := &cli{v: viper.New(), cfgFile: filepath.Join(t.TempDir(), "nope.yaml"), envFile: "nope.env"}
	if err := c.initializeConfig(newBuildCmd(c)); err == nil {
		t.Error("an explicit config file that does not exist should fail")
	}
}

func TestDefaultViews(t *testing.T) {
	c := &cli{v: viper.New(), cfgFile: "", envFile: filepath.Join(t.TempDir(), ".env")}
	t.Chdir(t.TempDir())
	if err := c.initializeConfig(newBuildCmd(c)); err != nil {
		t.Fatalf("initializeConfig: %v", err)
	}
	v, err := defaultViews(c.config)
	if err != nil {
		t.Fatalf("defaultViews: %v", err)
	}
	if v.Home == nil || v.BlogAll == nil || v.About == nil || v.Redirect == nil {
		t.Error("defaultViews left view funcs unset")
	}
	c.config.DefaultLocale = "not-a-locale!"
	if _, err := defaultViews(c.config); err == nil {
		t.Error("unknown default locale should fail")
	}
}
