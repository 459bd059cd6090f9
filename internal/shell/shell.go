// Package shell renders the integration scripts printed by `burrow init`.
//
// Each script defines a jump function, a directory-change hook that records
// visits in the background, a bookmark alias, and tab completion backed by
// `burrow query --suggest`. The hook never blocks the prompt and discards
// its own output so a failing store cannot break the shell.
package shell

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
)

//go:embed scripts/*.tmpl
var scriptFS embed.FS

// ErrUnsupported is returned for a shell with no script.
var ErrUnsupported = errors.New("unsupported shell")

// Names used in the generated scripts.
type Names struct {
	Bin      string // executable invoked by the script
	Func     string // jump function
	Bookmark string // bookmark alias
}

// DefaultNames is what `burrow init` emits.
var DefaultNames = Names{Bin: "burrow", Func: "b", Bookmark: "bb"}

var templates = template.Must(template.ParseFS(scriptFS, "scripts/*.tmpl"))

// Supported returns the shells with a script, sorted.
func Supported() []string {
	var out []string
	for _, t := range templates.Templates() {
		out = append(out, strings.TrimSuffix(t.Name(), ".tmpl"))
	}
	sort.Strings(out)
	return out
}

// Render writes the script for shell to w.
func Render(w io.Writer, shell string, names Names) error {
	shell = strings.ToLower(strings.TrimSpace(shell))
	t := templates.Lookup(shell + ".tmpl")
	if t == nil || shell == "" {
		return fmt.Errorf("%w %q (supported: %s)", ErrUnsupported, shell, strings.Join(Supported(), ", "))
	}
	if err := t.Execute(w, names); err != nil {
		return fmt.Errorf("render %s script: %w", shell, err)
	}
	return nil
}

// Script returns the script for shell using DefaultNames.
func Script(shell string) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, shell, DefaultNames); err != nil {
		return "", err
	}
	return buf.String(), nil
}
