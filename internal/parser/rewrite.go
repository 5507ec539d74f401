package parser

import "fmt"

// RewriteForImport prefixes every locally-declared identifier in cmds
// with alias+"_" so an imported sub-patch's nodes cannot collide with
// the importer's own names. Numbers, operators, and the special `out`
// destination are left untouched, so an `out <- ...` connection inside
// a sub-patch drives the importing engine's main output once inlined.
//
// Nested imports are rejected: a sub-patch that itself imports another
// sub-patch would require recursive alias composition the reference
// grammar never specifies, so it is treated as an error instead of
// guessed at.
func RewriteForImport(alias string, cmds []Command) ([]Command, error) {
	out := make([]Command, 0, len(cmds))
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case Import:
			return nil, fmt.Errorf("nested import of %q inside sub-patch %q is not supported", c.Path, alias)
		case CreateModule:
			c.Name = prefixed(alias, c.Name)
			out = append(out, c)
		case Connect:
			out = append(out, Connect{
				Dest:   prefixRef(alias, c.Dest),
				Source: prefixExpr(alias, c.Source),
			})
		case SetParam:
			c.Module = prefixed(alias, c.Module)
			out = append(out, c)
		case Patchbay:
			out = append(out, c)
		default:
			return nil, fmt.Errorf("unknown command type %T", cmd)
		}
	}
	return out, nil
}

func prefixed(alias, name string) string {
	if name == "out" {
		return name
	}
	return alias + "_" + name
}

func prefixRef(alias string, ref PortRef) PortRef {
	return PortRef{Module: prefixed(alias, ref.Module), Port: ref.Port}
}

func prefixExpr(alias string, expr SourceExpr) SourceExpr {
	switch e := expr.(type) {
	case Primary:
		return Primary{Ref: prefixRef(alias, e.Ref)}
	case ScaledExpr:
		return ScaledExpr{Expr: prefixExpr(alias, e.Expr), Factor: e.Factor}
	case OffsetExpr:
		return OffsetExpr{Expr: prefixExpr(alias, e.Expr), Amount: e.Amount}
	default:
		return expr
	}
}
