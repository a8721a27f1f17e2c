package godigen

import (
	"errors"
	"fmt"
	"strings"
)

type (
	DiagnosticKind string

	Severity int

	// Diagnostic is a structured report about the declarations or a resolved graph.
	Diagnostic struct {
		Kind     DiagnosticKind
		Severity Severity
		Location Location
		Message  string
		Keys     []Key
	}

	Diagnostics []Diagnostic
)

const (
	MissingBinding           DiagnosticKind = "MISSING_BINDING"
	DuplicateBinding         DiagnosticKind = "DUPLICATE_BINDING"
	DependencyCycle          DiagnosticKind = "DEPENDENCY_CYCLE"
	VarargGraphCreator       DiagnosticKind = "VARARG_GRAPH_CREATOR"
	UnusedBinding            DiagnosticKind = "UNUSED_BINDING"
	ScopeMismatch            DiagnosticKind = "SCOPE_MISMATCH"
	ContributionScopeLeak    DiagnosticKind = "CONTRIBUTION_SCOPE_LEAK"
	AssistedParameterOverlap DiagnosticKind = "ASSISTED_PARAMETER_OVERLAP"
	MalformedDeclaration     DiagnosticKind = "MALFORMED_DECLARATION"
)

const (
	SeverityOff Severity = iota
	SeverityWarning
	SeverityError
)

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "":
		return SeverityOff, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("unknown severity %q, expected one of off, warning, error", s)
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		panic(fmt.Sprintf("unknown severity %d", int(s)))
	}
}

func newError(kind DiagnosticKind, location Location, keys []Key, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: SeverityError,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
		Keys:     keys,
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: [%s] %s", d.Location, d.Severity, d.Kind, d.Message)
}

func (d Diagnostic) Error() string {
	return d.String()
}

func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// OfKind keeps the diagnostics of the given kind.
func (d Diagnostics) OfKind(kind DiagnosticKind) Diagnostics {
	var res Diagnostics
	for _, diag := range d {
		if diag.Kind == kind {
			res = append(res, diag)
		}
	}
	return res
}

// Err joins the error diagnostics, it returns nil when there is none.
func (d Diagnostics) Err() error {
	var errs []error
	for _, diag := range d {
		if diag.Severity == SeverityError {
			errs = append(errs, diag)
		}
	}
	return errors.Join(errs...)
}

func (d Diagnostics) String() string {
	lines := make([]string, len(d))
	for i, diag := range d {
		lines[i] = diag.String()
	}
	return strings.Join(lines, "\n")
}
