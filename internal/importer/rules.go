package importer

import (
	"fmt"
	"log"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"ballot-backend/internal/metadata"
)

// Custom validation rules attached to a content type definition. Each rule
// is an expression over the raw record; the rule is violated when the
// expression evaluates to true.

type compiledRule struct {
	program *vm.Program
	message string
}

// compileRules compiles a content type's import rules once per batch.
// A rule that fails to compile is skipped with a warning rather than
// blocking the whole import.
func compileRules(ct *metadata.ContentType) []compiledRule {
	if ct == nil {
		return nil
	}
	var rules []compiledRule
	for _, r := range ct.Rules {
		prog, err := expr.Compile(r.Expression, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			log.Printf("WARN: skipping import rule on %s (compile failed): %v", ct.Slug, err)
			continue
		}
		msg := r.Message
		if msg == "" {
			msg = fmt.Sprintf("rule violated: %s", r.Expression)
		}
		rules = append(rules, compiledRule{program: prog, message: msg})
	}
	return rules
}

// evaluateRules runs compiled rules against one record, returning one
// message per violated rule.
func evaluateRules(rules []compiledRule, rec Record, row int) []string {
	var msgs []string
	for _, r := range rules {
		out, err := expr.Run(r.program, map[string]any(rec))
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("Row %d: %s (rule error: %v)", row, r.message, err))
			continue
		}
		if violated, ok := out.(bool); ok && violated {
			msgs = append(msgs, fmt.Sprintf("Row %d: %s", row, r.message))
		}
	}
	return msgs
}
