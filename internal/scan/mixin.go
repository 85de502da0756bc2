package scan

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"strconv"

	"model-usage/internal/analyze"
	"model-usage/internal/classify"
	"model-usage/internal/diagnostic"
	"model-usage/internal/match"
	"model-usage/internal/usage"
)

// effect is what a mixin verb writes.
type effect struct {
	// plain applies to the target of a belongs-to or has-many association,
	// and of a many-to-many association without a join entity.
	plain usage.Ops
	// target and through apply to a many-to-many association.
	target  usage.Ops
	through usage.Ops
}

var effects = map[classify.MixinVerb]effect{
	classify.MixinAdd:    {plain: usage.OpUpdate, through: usage.OpInsert},
	classify.MixinCreate: {plain: usage.OpInsert, target: usage.OpInsert, through: usage.OpInsert},
	classify.MixinSet:    {plain: usage.OpUpdate, through: usage.OpWrite},
	classify.MixinRemove: {plain: usage.OpUpdate, through: usage.OpDelete},
}

// mixin handles <instance>.<Verb>Assoc(<association>, ...).
func (v *visitor) mixin(call *ast.CallExpr, sel *ast.SelectorExpr, verb classify.MixinVerb) {
	if len(call.Args) < 2 {
		return
	}

	res, ok := v.resolver.Resolve(v.file, sel.X)
	if !ok {
		v.report(v.resolver.Unresolved(v.file, sel.X))
		return
	}

	source := res.Entity
	arg := call.Args[0]

	name, ok := v.stringValue(arg)
	if !ok {
		v.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeNonLiteralAssociation,
			Message:  "association name is not a string constant",
			Pos:      v.proj.Position(arg.Pos()),
			Expr:     analyze.ExprString(arg),
			Type:     analyze.TypeString(v.file, v.file.TypeOf(arg)),
			Entity:   source.Name,
		})

		return
	}

	assoc, ok := source.Association(name)
	if !ok {
		v.report(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticWarning,
			Code:        diagnostic.CodeUnknownAssociation,
			Message:     fmt.Sprintf("%s has no association %q", source.Name, name),
			Pos:         v.proj.Position(arg.Pos()),
			Expr:        analyze.ExprString(arg),
			Entity:      source.Name,
			Suggestions: match.Suggest(name, source.AssociationNames(), 3),
		})

		return
	}

	eff := effects[verb]

	// An unregistered target loses its own effect; the join entity is still written.
	target, targetOK := v.reg.Lookup(assoc.Target)
	if !targetOK {
		v.report(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticWarning,
			Code:        diagnostic.CodeUnknownTarget,
			Message:     fmt.Sprintf("%s.%s targets unregistered entity %s", source.Name, assoc.Name, assoc.Target),
			Pos:         v.proj.Position(arg.Pos()),
			Entity:      source.Name,
			Suggestions: match.Suggest(assoc.Target, v.reg.Names(), 3),
		})
	}

	if !assoc.IsManyToMany() {
		if targetOK {
			v.store.Apply(target.Name, target.Table, eff.plain)
		}

		return
	}

	through, err := v.reg.ResolveThrough(assoc)
	if err != nil {
		v.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeUnresolvedThrough,
			Message:  fmt.Sprintf("%s.%s: %v", source.Name, assoc.Name, err),
			Pos:      v.proj.Position(call.Pos()),
			Entity:   source.Name,
		})

		// Without a join entity the call is treated like a plain association.
		if targetOK {
			v.store.Apply(target.Name, target.Table, eff.plain)
		}

		return
	}

	if through.Implicit {
		v.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticInfo,
			Code:     diagnostic.CodeImplicitThrough,
			Message: fmt.Sprintf("%s.%s: join entity %s is not registered, using table %s",
				source.Name, assoc.Name, through.Name, through.Table),
			Pos:    v.proj.Position(call.Pos()),
			Entity: through.Name,
		})
	}

	if targetOK && eff.target != 0 {
		v.store.Apply(target.Name, target.Table, eff.target)
	}

	v.store.Apply(through.Name, through.Table, eff.through)
}

// stringValue returns the value of a string literal or string constant.
func (v *visitor) stringValue(expr ast.Expr) (string, bool) {
	if info := v.file.Info; info != nil {
		if tv, ok := info.Types[expr]; ok && tv.Value != nil {
			if tv.Value.Kind() != constant.String {
				return "", false
			}

			return constant.StringVal(tv.Value), true
		}
	}

	lit, ok := ast.Unparen(expr).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}

	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}

	return s, true
}
