package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaURL = "package.schema.json"

//go:embed schema/package.schema.json
var packageSchema []byte

// loadSchema compiles the embedded package.json schema on first use.
var loadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(packageSchema))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", schemaURL, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("registering %s: %w", schemaURL, err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", schemaURL, err)
	}
	return s, nil
})

// Schema messages are always rendered in English; they end up in warnings
// next to npm output, which is English too.
var issuePrinter = message.NewPrinter(language.English)

// Keywords that only group other failures.
var wrapperKeywords = map[string]bool{
	"":      true,
	"$ref":  true,
	"allOf": true,
}

// ValidationResult is the outcome of checking a package.json document.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	Path    string // JSON pointer into the document, "" for the root
	Message string
	Keyword string // failing schema keyword, e.g. "required"
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Validate checks package.json content against the embedded schema.
// Schema violations are reported in the result; the error is reserved for
// content that is not JSON at all.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", FileName, err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validating %s: %w", FileName, err)
	}
	return &ValidationResult{Issues: issuesOf(ve)}, nil
}

// ValidateFile validates the package.json at path.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// issuesOf flattens the error tree to its leaves, dropping duplicates and
// ordering the result by location.
func issuesOf(ve *jsonschema.ValidationError) []ValidationIssue {
	seen := map[ValidationIssue]bool{}
	var out []ValidationIssue
	for _, issue := range leaves(ve) {
		if seen[issue] {
			continue
		}
		seen[issue] = true
		out = append(out, issue)
	}
	if len(out) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Path < out[b].Path })
	return out
}

func leaves(ve *jsonschema.ValidationError) []ValidationIssue {
	if len(ve.Causes) > 0 {
		var out []ValidationIssue
		for _, cause := range ve.Causes {
			out = append(out, leaves(cause)...)
		}
		return out
	}
	if ve.ErrorKind == nil {
		return nil
	}

	var keyword string
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	if wrapperKeywords[keyword] {
		return nil
	}

	var path string
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	return []ValidationIssue{{
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(issuePrinter),
		Keyword: keyword,
	}}
}
