package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/qa-labs/cyscaffold/internal/locale"
	"github.com/qa-labs/cyscaffold/internal/manifest"
	"github.com/qa-labs/cyscaffold/internal/versions"
	"go.uber.org/zap"
)

// Pipeline step names, in execution order.
const (
	StepValidate = "validate"
	StepMkdir    = "mkdir"
	StepGitInit  = "git-init"
	StepIgnore   = "gitignore"
	StepReadme   = "readme"
	StepNPMInit  = "npm-init"
	StepInstall  = "install"
	StepEnv      = "env-files"
	StepConfig   = "config"
	StepSpec     = "spec"
	StepCommit   = "commit"
	StepEditor   = "editor"
)

// DefaultRoot is the directory projects are created under.
const DefaultRoot = "workspaces"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// VCS initializes and commits the project repository.
type VCS interface {
	Init(ctx context.Context, dir string) error
	AddAll(ctx context.Context, dir string) error
	Commit(ctx context.Context, dir, message string) error
}

// PackageManager creates the package manifest and installs dependencies.
type PackageManager interface {
	Init(ctx context.Context, dir string) error
	InstallDev(ctx context.Context, dir, pkg string, sel versions.Selector) error
}

// Launcher opens the finished project. It must not block on the launched
// program.
type Launcher interface {
	Launch(dir string) (<-chan error, error)
}

// Options holds the inputs of a scaffold run.
type Options struct {
	Root    string // parent directory; DefaultRoot if empty
	Name    string // project name, used verbatim as the directory name
	Version string // dependency version selector; empty installs latest
	Package string // npm package to install as the test runner
	Locale  string // language of the initial commit message

	// Cleanup removes the project directory when a step after its creation
	// fails. Off by default: partial output is left for inspection.
	Cleanup    bool
	SkipEditor bool
}

// Result holds the outcome of a successful scaffold run.
type Result struct {
	ProjectDir     string
	Files          []string // project-relative paths, in creation order
	Installed      string   // dependency version recorded in package.json
	CommitMessage  string
	EditorLaunched bool
	Warnings       []string
}

// Scaffolder runs the project creation pipeline.
type Scaffolder struct {
	VCS      VCS
	Packages PackageManager
	Editor   Launcher // nil disables the editor step
	Log      *zap.Logger
}

// New returns a Scaffolder. A nil logger discards output.
func New(vcs VCS, pm PackageManager, editor Launcher, log *zap.Logger) *Scaffolder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scaffolder{VCS: vcs, Packages: pm, Editor: editor, Log: log}
}

// ValidateName checks that name can be used verbatim as a directory name.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("project name is required")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must match pattern [A-Za-z0-9][A-Za-z0-9._-]*", name)
	}
	return nil
}

// run carries the state of one pipeline execution.
type run struct {
	opts    Options
	sel     versions.Selector
	dir     string
	created bool
	result  *Result
}

type step struct {
	name string
	fn   func(ctx context.Context, r *run) error
}

// Run creates the project described by opts. Steps run strictly in order
// and the first failure stops the pipeline. The editor step never fails the
// run; a launch problem is reported in Result.Warnings.
func (s *Scaffolder) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := ValidateName(opts.Name); err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Step: StepValidate, Err: err}
	}
	sel, err := versions.ParseSelector(opts.Version)
	if err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Step: StepValidate, Err: err}
	}
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.Package == "" {
		opts.Package = "cypress"
	}

	r := &run{
		opts: opts,
		sel:  sel,
		dir:  filepath.Join(opts.Root, opts.Name),
		result: &Result{
			CommitMessage: locale.Commit(locale.Resolve(opts.Locale)),
		},
	}
	r.result.ProjectDir = r.dir

	steps := []step{
		{StepMkdir, s.makeDir},
		{StepGitInit, s.gitInit},
		{StepIgnore, writeTemplate(PathGitignore)},
		{StepReadme, writeTemplate(PathReadme)},
		{StepNPMInit, s.npmInit},
		{StepInstall, s.install},
		{StepEnv, writeTemplates(PathEnv, PathEnvExample)},
		{StepConfig, writeTemplate(PathConfig)},
		{StepSpec, writeTemplate(PathSpec)},
		{StepCommit, s.commit},
	}

	for _, st := range steps {
		start := time.Now()
		if err := st.fn(ctx, r); err != nil {
			return nil, s.fail(r, st.name, err)
		}
		s.Log.Debug("step complete",
			zap.String("step", st.name),
			zap.String("project", r.dir),
			zap.Duration("took", time.Since(start)))
	}

	s.launchEditor(r)
	return r.result, nil
}

// fail converts err into an *Error for step and applies the cleanup policy.
func (s *Scaffolder) fail(r *run, stepName string, err error) error {
	var se *Error
	if !errors.As(err, &se) {
		se = &Error{Kind: KindSubprocess, Step: stepName, Err: err}
	}
	s.Log.Debug("step failed", zap.String("step", stepName), zap.Error(err))

	if r.created && r.opts.Cleanup {
		if rmErr := os.RemoveAll(r.dir); rmErr != nil {
			s.Log.Warn("removing partial project", zap.String("project", r.dir), zap.Error(rmErr))
		} else {
			se.CleanedUp = true
		}
	}
	return se
}

func (s *Scaffolder) makeDir(_ context.Context, r *run) error {
	if err := os.MkdirAll(r.opts.Root, 0755); err != nil {
		return &Error{Kind: KindDirectoryCreation, Step: StepMkdir, Path: r.opts.Root, Err: err}
	}
	if err := os.Mkdir(r.dir, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			err = fmt.Errorf("project directory already exists")
		}
		return &Error{Kind: KindDirectoryCreation, Step: StepMkdir, Path: r.dir, Err: err}
	}
	r.created = true
	return nil
}

func (s *Scaffolder) gitInit(ctx context.Context, r *run) error {
	return s.VCS.Init(ctx, r.dir)
}

func (s *Scaffolder) npmInit(ctx context.Context, r *run) error {
	if err := s.Packages.Init(ctx, r.dir); err != nil {
		return err
	}
	r.result.Files = append(r.result.Files, PathPackage)
	return nil
}

func (s *Scaffolder) install(ctx context.Context, r *run) error {
	if err := s.Packages.InstallDev(ctx, r.dir, r.opts.Package, r.sel); err != nil {
		return err
	}
	r.result.Warnings = append(r.result.Warnings, checkManifest(r)...)
	return nil
}

func (s *Scaffolder) commit(ctx context.Context, r *run) error {
	if err := s.VCS.AddAll(ctx, r.dir); err != nil {
		return err
	}
	return s.VCS.Commit(ctx, r.dir, r.result.CommitMessage)
}

// launchEditor opens the project without waiting for the editor to exit.
// Failure to launch is recorded as a warning only.
func (s *Scaffolder) launchEditor(r *run) {
	if r.opts.SkipEditor || s.Editor == nil {
		return
	}
	if _, err := s.Editor.Launch(r.dir); err != nil {
		s.Log.Debug("editor launch failed", zap.Error(err))
		r.result.Warnings = append(r.result.Warnings, fmt.Sprintf("could not open editor: %v", err))
		return
	}
	r.result.EditorLaunched = true
	s.Log.Debug("step complete", zap.String("step", StepEditor), zap.String("project", r.dir))
}

// writeTemplate returns a step writing one template into the project.
func writeTemplate(relPath string) func(context.Context, *run) error {
	return writeTemplates(relPath)
}

// writeTemplates returns a step writing several templates, in order.
func writeTemplates(relPaths ...string) func(context.Context, *run) error {
	return func(_ context.Context, r *run) error {
		for _, rel := range relPaths {
			content, err := Render(rel, r.opts.Name)
			if err != nil {
				return &Error{Kind: KindFileWrite, Step: StepFor(rel), Path: rel, Err: err}
			}
			if err := writeFile(r.dir, rel, content); err != nil {
				return &Error{Kind: KindFileWrite, Step: StepFor(rel), Path: rel, Err: err}
			}
			r.result.Files = append(r.result.Files, rel)
		}
		return nil
	}
}

// StepFor returns the pipeline step that writes relPath.
func StepFor(relPath string) string {
	switch relPath {
	case PathGitignore:
		return StepIgnore
	case PathReadme:
		return StepReadme
	case PathPackage:
		return StepNPMInit
	case PathEnv, PathEnvExample:
		return StepEnv
	case PathConfig:
		return StepConfig
	case PathSpec:
		return StepSpec
	default:
		return ""
	}
}

func writeFile(dir, rel string, content []byte) error {
	target := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return os.WriteFile(target, content, 0644)
}

// checkManifest validates the package.json left by the install step and
// returns any problems as warnings.
func checkManifest(r *run) []string {
	path := filepath.Join(r.dir, manifest.FileName)

	valResult, err := manifest.ValidateFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Could not validate %s: %v", manifest.FileName, err)}
	}
	var warnings []string
	for _, issue := range valResult.Issues {
		warnings = append(warnings, manifest.FileName+": "+issue.String())
	}

	pkg, err := manifest.ParseFile(path)
	if err != nil {
		return append(warnings, err.Error())
	}
	recorded, ok := pkg.DevDependency(r.opts.Package)
	if !ok {
		return append(warnings, fmt.Sprintf("%s does not list %s in devDependencies", manifest.FileName, r.opts.Package))
	}
	r.result.Installed = recorded

	match, err := r.sel.Matches(recorded)
	if err != nil {
		return append(warnings, err.Error())
	}
	if !match {
		warnings = append(warnings, fmt.Sprintf("%s records %s@%s, requested %s",
			manifest.FileName, r.opts.Package, recorded, r.sel.Raw))
	}
	return warnings
}
