package scaffold

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/qa-labs/cyscaffold/internal/versions"
)

// ─── Fakes ─────────────────────────────────────────────────────────

// recorder collects the external calls made by a run, across fakes.
type recorder struct {
	calls []string
}

type fakeVCS struct {
	rec       *recorder
	failStep  string
	messages  []string
	stagedSet []string
}

func (f *fakeVCS) Init(_ context.Context, dir string) error {
	f.rec.calls = append(f.rec.calls, "git init")
	if f.failStep == "init" {
		return errors.New("git init exited with status 128")
	}
	return nil
}

func (f *fakeVCS) AddAll(_ context.Context, dir string) error {
	f.rec.calls = append(f.rec.calls, "git add")
	f.stagedSet = listFiles(dir)
	return nil
}

func (f *fakeVCS) Commit(_ context.Context, dir, message string) error {
	f.rec.calls = append(f.rec.calls, "git commit")
	if f.failStep == "commit" {
		return errors.New("git commit exited with status 1: Author identity unknown")
	}
	f.messages = append(f.messages, message)
	return nil
}

// fakeNPM mimics npm init -y and npm install --save-dev.
type fakeNPM struct {
	rec         *recorder
	failInstall bool
	// recorded overrides the version written to devDependencies.
	recorded string
	skipDep  bool
	gotSel   versions.Selector
	gotPkg   string
}

func (f *fakeNPM) Init(_ context.Context, dir string) error {
	f.rec.calls = append(f.rec.calls, "npm init")
	pkg := map[string]any{
		"name":    filepath.Base(dir),
		"version": "1.0.0",
		"main":    "index.js",
		"license": "ISC",
	}
	return writeJSON(filepath.Join(dir, "package.json"), pkg)
}

func (f *fakeNPM) InstallDev(_ context.Context, dir, pkgName string, sel versions.Selector) error {
	f.rec.calls = append(f.rec.calls, "npm install")
	f.gotSel, f.gotPkg = sel, pkgName
	if f.failInstall {
		return errors.New("npm install --save-dev cypress@99.0.0 exited with status 1: npm ERR! notarget")
	}
	if f.skipDep {
		return nil
	}

	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return err
	}
	version := f.recorded
	if version == "" {
		version = "^13.6.0"
		if sel.Pinned() {
			version = sel.Version()
		}
	}
	pkg["devDependencies"] = map[string]string{pkgName: version}
	return writeJSON(path, pkg)
}

type fakeEditor struct {
	launched []string
	err      error
}

func (f *fakeEditor) Launch(dir string) (<-chan error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.launched = append(f.launched, dir)
	done := make(chan error, 1)
	close(done)
	return done, nil
}

type fixture struct {
	rec    *recorder
	vcs    *fakeVCS
	npm    *fakeNPM
	editor *fakeEditor
	s      *Scaffolder
	root   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &recorder{}
	f := &fixture{
		rec:    rec,
		vcs:    &fakeVCS{rec: rec},
		npm:    &fakeNPM{rec: rec},
		editor: &fakeEditor{},
		root:   filepath.Join(t.TempDir(), "workspaces"),
	}
	f.s = New(f.vcs, f.npm, f.editor, nil)
	return f
}

func (f *fixture) run(t *testing.T, opts Options) (*Result, error) {
	t.Helper()
	if opts.Root == "" {
		opts.Root = f.root
	}
	return f.s.Run(context.Background(), opts)
}

// ─── Tests ─────────────────────────────────────────────────────────

func TestRunCreatesLayout(t *testing.T) {
	f := newFixture(t)

	result, err := f.run(t, Options{Name: "checkout-tests"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantDir := filepath.Join(f.root, "checkout-tests")
	if result.ProjectDir != wantDir {
		t.Errorf("ProjectDir = %q, want %q", result.ProjectDir, wantDir)
	}
	if diff := cmp.Diff(Layout(), result.Files); diff != "" {
		t.Errorf("Result.Files mismatch (-want +got):\n%s", diff)
	}

	want := Layout()
	sort.Strings(want)
	if diff := cmp.Diff(want, listFiles(wantDir)); diff != "" {
		t.Errorf("files on disk mismatch (-want +got):\n%s", diff)
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestRunCheckoutScenario(t *testing.T) {
	f := newFixture(t)

	if _, err := f.run(t, Options{Name: "checkout-tests"}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	dir := filepath.Join(f.root, "checkout-tests")

	if got := readGenerated(t, dir, PathEnv); got != "{}\n" {
		t.Errorf("cypress.env.json = %q, want %q", got, "{}\n")
	}
	if got := readGenerated(t, dir, PathEnvExample); got != "{}\n" {
		t.Errorf("cypress.env.example.json = %q, want %q", got, "{}\n")
	}

	ignore := readGenerated(t, dir, PathGitignore)
	for _, line := range []string{".DS_Store", "cypress.env.json", "cypress/downloads/", "cypress/screenshots/", "cypress/videos/", "node_modules/"} {
		if !containsLine(ignore, line) {
			t.Errorf(".gitignore missing line %q:\n%s", line, ignore)
		}
	}
	if containsLine(ignore, "cypress.env.example.json") {
		t.Error("the example env file must stay tracked")
	}
}

func TestRunReadmeHeading(t *testing.T) {
	for _, name := range []string{"checkout-tests", "Login_Flow", "a"} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if _, err := f.run(t, Options{Name: name}); err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			readme := readGenerated(t, filepath.Join(f.root, name), PathReadme)
			firstLine := strings.SplitN(readme, "\n", 2)[0]
			if firstLine != "# "+name {
				t.Errorf("README heading = %q, want %q", firstLine, "# "+name)
			}
			if strings.Count(readme, "# ") != 1 {
				t.Errorf("README should have a single heading:\n%s", readme)
			}
		})
	}
}

func TestRunStaticTemplatesIgnoreArguments(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, Options{Name: "first"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.run(t, Options{Name: "second", Version: "12.17.4", Locale: "pt-BR"}); err != nil {
		t.Fatal(err)
	}

	for _, rel := range []string{PathConfig, PathSpec, PathGitignore, PathEnv} {
		a := readGenerated(t, filepath.Join(f.root, "first"), rel)
		b := readGenerated(t, filepath.Join(f.root, "second"), rel)
		if a != b {
			t.Errorf("%s differs between runs", rel)
		}
	}
}

func TestRunConfigDisablesFixturesAndSupport(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, Options{Name: "cfg"}); err != nil {
		t.Fatal(err)
	}
	cfg := readGenerated(t, filepath.Join(f.root, "cfg"), PathConfig)
	assertContains(t, cfg, "fixturesFolder: false")
	assertContains(t, cfg, "supportFile: false")

	spec := readGenerated(t, filepath.Join(f.root, "cfg"), PathSpec)
	assertContains(t, spec, "describe(")
	assertContains(t, spec, "beforeEach(")
	assertContains(t, spec, "// cy.visit(")
	assertContains(t, spec, "it(")
}

func TestRunStepOrder(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, Options{Name: "ordered"}); err != nil {
		t.Fatal(err)
	}

	want := []string{"git init", "npm init", "npm install", "git add", "git commit"}
	if diff := cmp.Diff(want, f.rec.calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}

	// Every layout file exists by the time it is staged.
	staged := Layout()
	sort.Strings(staged)
	if diff := cmp.Diff(staged, f.vcs.stagedSet); diff != "" {
		t.Errorf("staged files mismatch (-want +got):\n%s", diff)
	}
	if len(f.vcs.messages) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(f.vcs.messages))
	}
}

func TestRunCommitMessageLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", "creates cypress project"},
		{"en", "creates cypress project"},
		{"pt-BR", "Cria projeto cypress"},
	}
	for _, tt := range tests {
		t.Run("locale="+tt.locale, func(t *testing.T) {
			f := newFixture(t)
			result, err := f.run(t, Options{Name: "msg", Locale: tt.locale})
			if err != nil {
				t.Fatal(err)
			}
			if result.CommitMessage != tt.want || f.vcs.messages[0] != tt.want {
				t.Errorf("commit message = %q / %q, want %q", result.CommitMessage, f.vcs.messages[0], tt.want)
			}
		})
	}
}

func TestRunPinnedVersion(t *testing.T) {
	f := newFixture(t)
	result, err := f.run(t, Options{Name: "pinned", Version: "12.17.4"})
	if err != nil {
		t.Fatal(err)
	}
	if !f.npm.gotSel.Pinned() || f.npm.gotSel.Raw != "12.17.4" {
		t.Errorf("install selector = %+v", f.npm.gotSel)
	}
	if f.npm.gotPkg != "cypress" {
		t.Errorf("installed package = %q, want cypress", f.npm.gotPkg)
	}
	if result.Installed != "12.17.4" {
		t.Errorf("Installed = %q, want %q", result.Installed, "12.17.4")
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestRunLatestVersion(t *testing.T) {
	f := newFixture(t)
	result, err := f.run(t, Options{Name: "latest"})
	if err != nil {
		t.Fatal(err)
	}
	if f.npm.gotSel.Kind != versions.Latest {
		t.Errorf("selector kind = %v, want latest", f.npm.gotSel.Kind)
	}
	if result.Installed != "^13.6.0" {
		t.Errorf("Installed = %q", result.Installed)
	}
}

func TestRunRangeSelector(t *testing.T) {
	tests := []struct {
		name     string
		recorded string
		warns    bool
	}{
		{"recorded as typed", ">=12 <14", false},
		{"resolved version in range", "^13.6.0", false},
		{"resolved version outside range", "^14.0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.npm.recorded = tt.recorded

			result, err := f.run(t, Options{Name: "ranged", Version: ">=12 <14"})
			if err != nil {
				t.Fatal(err)
			}
			if f.npm.gotSel.Kind != versions.Range {
				t.Errorf("selector kind = %v, want range", f.npm.gotSel.Kind)
			}
			if result.Installed != tt.recorded {
				t.Errorf("Installed = %q, want %q", result.Installed, tt.recorded)
			}
			if got := len(result.Warnings) > 0; got != tt.warns {
				t.Errorf("warnings = %v, want warnings: %v", result.Warnings, tt.warns)
			}
		})
	}
}

func TestRunVersionMismatchWarns(t *testing.T) {
	f := newFixture(t)
	f.npm.recorded = "13.0.0"

	result, err := f.run(t, Options{Name: "mismatch", Version: "12.17.4"})
	if err != nil {
		t.Fatalf("a recorded version mismatch must not fail the run: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "requested 12.17.4") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestRunMissingDevDependencyWarns(t *testing.T) {
	f := newFixture(t)
	f.npm.skipDep = true

	result, err := f.run(t, Options{Name: "nodep"})
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(result.Warnings, "\n")
	assertContains(t, joined, "devDependencies")
}

func TestRunExistingDirectory(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, Options{Name: "twice"}); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(f.root, "twice")
	before := snapshot(t, dir)
	f.rec.calls = nil

	_, err := f.run(t, Options{Name: "twice", Cleanup: true})
	if !errors.Is(err, ErrDirectoryCreation) {
		t.Fatalf("expected ErrDirectoryCreation, got %v", err)
	}
	if KindOf(err) != KindDirectoryCreation {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if len(f.rec.calls) != 0 {
		t.Errorf("no external program may run, got %v", f.rec.calls)
	}
	if diff := cmp.Diff(before, snapshot(t, dir)); diff != "" {
		t.Errorf("existing project modified (-before +after):\n%s", diff)
	}
}

func TestRunInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty name", Options{Name: ""}},
		{"path separator", Options{Name: "a/b"}},
		{"parent dir", Options{Name: ".."}},
		{"leading dash", Options{Name: "-rf"}},
		{"bad version", Options{Name: "ok", Version: "13..0!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.run(t, tt.opts)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if ExitCode(err) != 2 {
				t.Errorf("ExitCode = %d, want 2", ExitCode(err))
			}
			if _, statErr := os.Stat(f.root); !os.IsNotExist(statErr) {
				t.Error("nothing may be created for invalid arguments")
			}
		})
	}
}

func TestRunInstallFailureLeavesPartialProject(t *testing.T) {
	f := newFixture(t)
	f.npm.failInstall = true

	_, err := f.run(t, Options{Name: "partial", Version: "99.0.0"})
	if !errors.Is(err, ErrSubprocess) {
		t.Fatalf("expected ErrSubprocess, got %v", err)
	}
	var se *Error
	if !errors.As(err, &se) || se.Step != StepInstall {
		t.Fatalf("expected failure at %q, got %+v", StepInstall, se)
	}
	if ExitCode(err) != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode(err))
	}

	got := listFiles(filepath.Join(f.root, "partial"))
	want := []string{PathGitignore, PathReadme, PathPackage}
	sort.Strings(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial project mismatch (-want +got):\n%s", diff)
	}
	if len(f.editor.launched) != 0 {
		t.Error("editor must not open after a failure")
	}
}

func TestRunCleanupOnFailure(t *testing.T) {
	f := newFixture(t)
	f.vcs.failStep = "commit"

	_, err := f.run(t, Options{Name: "cleaned", Cleanup: true})
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !se.CleanedUp {
		t.Error("CleanedUp should be set")
	}
	assertContains(t, err.Error(), "partial project removed")
	if _, statErr := os.Stat(filepath.Join(f.root, "cleaned")); !os.IsNotExist(statErr) {
		t.Error("project directory should have been removed")
	}
}

func TestRunFileWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.s.Packages = &blockingNPM{fakeNPM: f.npm}

	_, err := f.run(t, Options{Name: "blocked"})
	if !errors.Is(err, ErrFileWrite) {
		t.Fatalf("expected ErrFileWrite, got %v", err)
	}
	var se *Error
	if errors.As(err, &se) && se.Path != PathSpec {
		t.Errorf("failing path = %q, want %q", se.Path, PathSpec)
	}
}

// blockingNPM writes a regular file named "cypress" after installing so the
// spec directory cannot be created.
type blockingNPM struct {
	*fakeNPM
}

func (b *blockingNPM) InstallDev(ctx context.Context, dir, pkg string, sel versions.Selector) error {
	if err := b.fakeNPM.InstallDev(ctx, dir, pkg, sel); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "cypress"), []byte("not a directory"), 0644)
}

func TestRunEditor(t *testing.T) {
	t.Run("launched", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.run(t, Options{Name: "ed"})
		if err != nil {
			t.Fatal(err)
		}
		if !result.EditorLaunched || len(f.editor.launched) != 1 {
			t.Errorf("editor not launched: %+v", result)
		}
		if f.editor.launched[0] != result.ProjectDir {
			t.Errorf("editor opened %q, want %q", f.editor.launched[0], result.ProjectDir)
		}
	})

	t.Run("launch failure is a warning", func(t *testing.T) {
		f := newFixture(t)
		f.editor.err = errors.New(`exec: "code": executable file not found in $PATH`)
		result, err := f.run(t, Options{Name: "ed"})
		if err != nil {
			t.Fatalf("editor failure must not fail the run: %v", err)
		}
		if result.EditorLaunched {
			t.Error("EditorLaunched should be false")
		}
		assertContains(t, strings.Join(result.Warnings, "\n"), "could not open editor")
	})

	t.Run("skipped", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.run(t, Options{Name: "ed", SkipEditor: true}); err != nil {
			t.Fatal(err)
		}
		if len(f.editor.launched) != 0 {
			t.Error("editor should not be launched")
		}
	})

	t.Run("no launcher", func(t *testing.T) {
		f := newFixture(t)
		f.s.Editor = nil
		if _, err := f.run(t, Options{Name: "ed"}); err != nil {
			t.Fatal(err)
		}
	})
}

func TestRenderAndStatic(t *testing.T) {
	if _, err := Static("unknown.txt"); err == nil {
		t.Error("expected error for unknown template")
	}
	got, err := Render(PathReadme, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "# demo\n\nAdd a description of the project here.\n" {
		t.Errorf("Render(README) = %q", got)
	}
	for _, rel := range TemplatePaths() {
		if StepFor(rel) == "" {
			t.Errorf("no step writes %s", rel)
		}
		if _, err := Render(rel, "demo"); err != nil {
			t.Errorf("Render(%s) error: %v", rel, err)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindSubprocess.String() != "subprocess" {
		t.Errorf("KindSubprocess.String() = %q", KindSubprocess.String())
	}
	if ExitCode(nil) != 0 {
		t.Error("ExitCode(nil) should be 0")
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Error("KindOf(plain error) should be 0")
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

func readGenerated(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// listFiles returns the sorted slash-separated relative paths of regular
// files under dir, skipping .git.
func listFiles(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.Type().IsRegular() {
			rel, _ := filepath.Rel(dir, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	sort.Strings(files)
	return files
}

func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, rel := range listFiles(dir) {
		out[rel] = readGenerated(t, dir, rel)
	}
	return out
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func containsLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}
