package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// setupProject creates a maven style project with one bundle and points
// the global options at it.
func setupProject(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("CONFIG_DIR", t.TempDir())

	resDir := filepath.Join(tmpDir, "src", "main", "resources", "com", "acme")
	if err := os.MkdirAll(resDir, 0755); err != nil {
		t.Fatalf("failed to create resource dir: %v", err)
	}
	files := map[string]string{
		filepath.Join(tmpDir, "pom.xml"):                   "<project/>\n",
		filepath.Join(resDir, "messages_en.properties"):    "greeting=Hello\nfarewell=Bye\n",
		filepath.Join(resDir, "messages_de.properties"):    "greeting=Hallo\n",
		filepath.Join(tmpDir, "target", "x_en.properties"): "ignored=1\n",
		filepath.Join(tmpDir, "target", "x_de.properties"): "ignored=1\n",
	}
	for name, content := range files {
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	viper.Set("root", tmpDir)
	viper.Set("dry-run", false)
	t.Cleanup(func() {
		viper.Set("root", "")
		viper.Set("dry-run", false)
	})
	return resDir
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

func TestWorkspace(t *testing.T) {
	setupProject(t)

	ws, err := loadWorkspace()
	if err != nil {
		t.Fatalf("loadWorkspace failed: %v", err)
	}
	names := ws.BundleNames()
	if len(names) != 1 || names[0] != "com.acme.messages" {
		t.Fatalf("expected bundle com.acme.messages, got %v", names)
	}
	b, err := ws.Bundle("")
	if err != nil {
		t.Fatalf("Bundle failed: %v", err)
	}
	if langs := strings.Join(b.Languages(), ","); langs != "en,de" {
		t.Errorf("expected languages en,de, got %s", langs)
	}
	if _, err := ws.Bundle("labels"); !IsErrorWithUsage(err) {
		t.Errorf("expected user error for unknown bundle, got %v", err)
	}

	viper.Set("root", filepath.Join(viper.GetString("root"), "pom.xml"))
	if _, err := loadWorkspace(); !IsErrorWithUsage(err) {
		t.Errorf("expected user error for a root that is not a directory, got %v", err)
	}
}

func TestSetAndGet(t *testing.T) {
	resDir := setupProject(t)
	deFile := filepath.Join(resDir, "messages_de.properties")

	c := setCommand{}
	c.O.Bundle = "messages"
	c.O.Lang = "de"
	if err := c.Execute([]string{"farewell", "Tschüss"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := readFile(t, deFile); got != "greeting=Hallo\nfarewell=Tsch\\u00FCss\n" {
		t.Errorf("unexpected content:\n%s", got)
	}

	g := getCommand{}
	g.O.Lang = "de"
	if err := g.Execute([]string{"farewell"}); err != nil {
		t.Errorf("get failed: %v", err)
	}
	if err := g.Execute([]string{"dialog.farewell"}); err != nil {
		t.Errorf("get should fall back to the shorter key: %v", err)
	}
	if err := g.Execute([]string{"missing"}); !errors.Is(err, bundle.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKeyEditCommands(t *testing.T) {
	resDir := setupProject(t)
	enFile := filepath.Join(resDir, "messages_en.properties")
	deFile := filepath.Join(resDir, "messages_de.properties")

	create := createCmd
	create.O.Bundle = "messages"
	if err := create.Execute([]string{"title"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := readFile(t, deFile); got != "greeting=Hallo\ntitle=\n" {
		t.Errorf("unexpected content after create:\n%s", got)
	}

	rename := renameCmd
	rename.O.Bundle = "messages"
	if err := rename.Execute([]string{"greeting", "hello"}); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if got := readFile(t, enFile); !strings.HasPrefix(got, "hello=Hello\n") {
		t.Errorf("unexpected content after rename:\n%s", got)
	}

	duplicate := duplicateCmd
	duplicate.O.Bundle = "messages"
	if err := duplicate.Execute([]string{"hello"}); err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if got := readFile(t, deFile); !strings.Contains(got, "hello.copy=Hallo\n") {
		t.Errorf("unexpected content after duplicate:\n%s", got)
	}

	del := deleteCmd
	del.O.Bundle = "messages"
	if err := del.Execute([]string{"hello"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := readFile(t, enFile); strings.Contains(got, "hello=") {
		t.Errorf("hello should be deleted:\n%s", got)
	}

	if err := del.Execute(nil); !IsErrorWithUsage(err) {
		t.Errorf("expected user error for missing argument, got %v", err)
	}
}

func TestExportImport(t *testing.T) {
	resDir := setupProject(t)
	deFile := filepath.Join(resDir, "messages_de.properties")
	csvFile := filepath.Join(t.TempDir(), "de.csv")

	e := exportCommand{}
	e.O.Bundle = "messages"
	e.O.Target = "de"
	e.O.Output = csvFile
	if err := e.Execute(nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	want := "Source Key,Source Value,Target Value\n" +
		"greeting,Hello,Hallo\n" +
		"farewell,Bye,<translation needed>\n"
	if got := readFile(t, csvFile); got != want {
		t.Fatalf("unexpected export:\n%s", got)
	}

	edited := "Source Key,Source Value,Target Value\n" +
		"greeting,Hello,Hallo\n" +
		"farewell,Bye,Tschüss\n"
	if err := os.WriteFile(csvFile, []byte(edited), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	i := importCommand{}
	i.O.Bundle = "messages"
	i.O.Target = "de"
	i.O.Yes = true
	if err := i.Execute([]string{csvFile}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if got := readFile(t, deFile); got != "greeting=Hallo\nfarewell=Tsch\\u00FCss\n" {
		t.Errorf("unexpected content after import:\n%s", got)
	}

	bad := "Key,Value\ngreeting,Hello,Servus\n"
	if err := os.WriteFile(csvFile, []byte(bad), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	if err := i.Execute([]string{csvFile}); !errors.Is(err, bundle.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if got := readFile(t, deFile); strings.Contains(got, "Servus") {
		t.Errorf("invalid import must not change files:\n%s", got)
	}

	if err := i.Execute([]string{"de.txt"}); !IsErrorWithUsage(err) {
		t.Errorf("expected user error for unknown format, got %v", err)
	}
}

type failingCloser struct {
	bytes.Buffer
}

func (failingCloser) Close() error { return errors.New("disk full") }

func TestExportToCloseError(t *testing.T) {
	w := &failingCloser{}
	err := exportTo(w, func(w io.Writer) error {
		_, err := io.WriteString(w, "greeting,Hello,Hallo\n")
		return err
	})
	if !errors.Is(err, bundle.ErrIO) {
		t.Errorf("expected ErrIO for a failed close, got %v", err)
	}

	exportErr := errors.New("export failed")
	if err := exportTo(w, func(io.Writer) error { return exportErr }); !errors.Is(err, exportErr) {
		t.Errorf("expected the export error to win, got %v", err)
	}
}

func TestDryRun(t *testing.T) {
	resDir := setupProject(t)
	deFile := filepath.Join(resDir, "messages_de.properties")
	viper.Set("dry-run", true)

	c := setCommand{}
	c.O.Bundle = "messages"
	c.O.Lang = "de"
	if err := c.Execute([]string{"greeting", "Servus"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := readFile(t, deFile); got != "greeting=Hallo\n" {
		t.Errorf("dry-run must not change files:\n%s", got)
	}
}

func TestReportCommands(t *testing.T) {
	setupProject(t)

	if err := (bundlesCommand{}).Execute(nil); err != nil {
		t.Errorf("bundles failed: %v", err)
	}
	if err := (languagesCommand{}).Execute(nil); err != nil {
		t.Errorf("languages failed: %v", err)
	}
	if err := (statCommand{}).Execute(nil); err != nil {
		t.Errorf("stat failed: %v", err)
	}
	s := showCommand{}
	s.O.Scroll = 1
	if err := s.Execute([]string{"dialog.greeting"}); err != nil {
		t.Errorf("show failed: %v", err)
	}
	if err := (statCommand{}).Execute([]string{"x"}); !IsErrorWithUsage(err) {
		t.Errorf("expected user error for extra argument, got %v", err)
	}
}

func TestFlagUsagesByGroup(t *testing.T) {
	usage := flagUsagesByGroup(exportCmd.Command())
	for _, want := range []string{"Table options:\n", "Output options:\n", "--output", "--target"} {
		if !strings.Contains(usage, want) {
			t.Errorf("expected %q in usage:\n%s", want, usage)
		}
	}
	if strings.Index(usage, "--output") < strings.Index(usage, "Output options:") {
		t.Errorf("--output should be listed under its group:\n%s", usage)
	}

	plain := &cobra.Command{Use: "plain"}
	plain.Flags().Bool("all", false, "all languages")
	if usage := flagUsagesByGroup(plain); strings.Contains(usage, "options:") {
		t.Errorf("flags without groups should not get sections:\n%s", usage)
	}
}
