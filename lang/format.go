package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ly/lang/ast"
)

// ToMap returns the syntax tree rooted at root as nested maps and slices.
func (i *Interpreter) ToMap(root ast.Index) any {
	return i.tree.ToNative(i.in, root)
}

// FormatJSON writes the syntax tree rooted at root as JSON to w.
func (i *Interpreter) FormatJSON(
	_ context.Context,
	w io.Writer,
	root ast.Index,
	indent int,
) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(i.ToMap(root), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(i.ToMap(root))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the syntax tree rooted at root as YAML to w. An indent
// of zero selects flow style.
func (i *Interpreter) FormatYAML(
	ctx context.Context,
	w io.Writer,
	root ast.Index,
	indent int,
) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, i.ToMap(root), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}
