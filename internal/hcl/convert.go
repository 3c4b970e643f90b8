package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/recipego/internal/ctxlog"
)

var commandsType = cty.List(cty.String)

// decodeCommands evaluates a commands expression into command lines. A single
// string is accepted as a one-command list.
func decodeCommands(ctx context.Context, expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, errors.New("commands must not be null")
	}
	if !val.IsWhollyKnown() {
		return nil, errors.New("commands must be known when the file is loaded")
	}

	if val.Type() == cty.String {
		logger.Debug("Wrapping single command string into a list.")
		val = cty.TupleVal([]cty.Value{val})
	}

	converted, err := convert.Convert(val, commandsType)
	if err != nil {
		return nil, fmt.Errorf("commands must be a list of strings, got %s: %w", val.Type().FriendlyName(), err)
	}

	var out []string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, fmt.Errorf("decoding commands: %w", err)
	}
	return out, nil
}
