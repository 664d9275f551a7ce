package eval

import (
	"fmt"

	"nexumdb/internal/value"
)

// ColumnNotFoundError is returned when an expression references a
// column that is not in the evaluator's column-name vector.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Name)
}

// TypeError covers every other evaluation-time type failure: a
// cross-tag comparison, a non-boolean bare column reference, a LIKE
// operand that isn't text, and so on.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

// Evaluator evaluates predicate expression trees against a row's
// value vector, resolving Column references against a fixed
// column-name vector (the owning schema's declared order). It is
// built fresh per query.
type Evaluator struct {
	columns []string
}

// New builds an Evaluator bound to columns, the schema's declared
// column-name order.
func New(columns []string) *Evaluator {
	return &Evaluator{columns: columns}
}

func (e *Evaluator) resolve(name string) (int, error) {
	for i, c := range e.columns {
		if c == name {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Name: name}
}

// value resolves any expression that denotes a Value: a Column
// reference or a Literal. Composite boolean expressions are not valid
// here and return a TypeError.
func (e *Evaluator) value(expr Expr, row []value.Value) (value.Value, error) {
	switch ex := expr.(type) {
	case Column:
		idx, err := e.resolve(ex.Name)
		if err != nil {
			return value.Value{}, err
		}
		return row[idx], nil
	case Literal:
		return ex.Value, nil
	default:
		return value.Value{}, &TypeError{Msg: fmt.Sprintf("expected a value expression, got %T", expr)}
	}
}

// Eval evaluates expr against row, returning its boolean result or a
// typed error (ColumnNotFoundError or TypeError).
func (e *Evaluator) Eval(expr Expr, row []value.Value) (bool, error) {
	switch ex := expr.(type) {
	case Column:
		idx, err := e.resolve(ex.Name)
		if err != nil {
			return false, err
		}
		v := row[idx]
		if v.Tag != value.Boolean {
			return false, &TypeError{Msg: fmt.Sprintf("column %q used as a predicate must be boolean, got %s", ex.Name, v.Tag)}
		}
		return v.B, nil

	case Literal:
		if ex.Value.Tag != value.Boolean {
			return false, &TypeError{Msg: fmt.Sprintf("literal used as a predicate must be boolean, got %s", ex.Value.Tag)}
		}
		return ex.Value.B, nil

	case And:
		// Both branches are evaluated unconditionally; a later error
		// still surfaces even if the earlier branch already settled
		// the result. Short-circuiting is a semantic equivalence here,
		// not a requirement.
		left, lerr := e.Eval(ex.Left, row)
		right, rerr := e.Eval(ex.Right, row)
		if lerr != nil {
			return false, lerr
		}
		if rerr != nil {
			return false, rerr
		}
		return left && right, nil

	case Or:
		left, lerr := e.Eval(ex.Left, row)
		right, rerr := e.Eval(ex.Right, row)
		if lerr != nil {
			return false, lerr
		}
		if rerr != nil {
			return false, rerr
		}
		return left || right, nil

	case BinaryOp:
		return e.evalBinaryOp(ex, row)

	case Like:
		return e.evalLike(ex, row)

	case In:
		return e.evalIn(ex, row)

	case Between:
		return e.evalBetween(ex, row)

	default:
		return false, &TypeError{Msg: fmt.Sprintf("unsupported expression type %T", expr)}
	}
}

func (e *Evaluator) evalBinaryOp(ex BinaryOp, row []value.Value) (bool, error) {
	left, err := e.value(ex.Left, row)
	if err != nil {
		return false, err
	}
	right, err := e.value(ex.Right, row)
	if err != nil {
		return false, err
	}

	switch ex.Op {
	case Eq:
		return sameTagOrNullEqual(left, right)
	case Ne:
		eq, err := sameTagOrNullEqual(left, right)
		if err != nil {
			return false, err
		}
		return !eq, nil
	default:
		cmp, err := value.Compare(left, right)
		if err != nil {
			return false, &TypeError{Msg: err.Error()}
		}
		switch ex.Op {
		case Lt:
			return cmp == value.Less, nil
		case Le:
			return cmp != value.Greater, nil
		case Gt:
			return cmp == value.Greater, nil
		case Ge:
			return cmp != value.Less, nil
		default:
			return false, &TypeError{Msg: fmt.Sprintf("unknown comparison operator %d", ex.Op)}
		}
	}
}

// sameTagOrNullEqual implements the equality rule: same-tag equality,
// with null = null -> true and null vs anything else -> false rather
// than an error — the one carve-out from the generally-error
// cross-tag rule.
func sameTagOrNullEqual(a, b value.Value) (bool, error) {
	if a.Tag == value.Null || b.Tag == value.Null {
		return a.Tag == value.Null && b.Tag == value.Null, nil
	}
	if a.Tag != b.Tag {
		return false, &TypeError{Msg: fmt.Sprintf("cannot compare %s with %s", a.Tag, b.Tag)}
	}
	eq, err := value.SameTagEqual(a, b)
	if err != nil {
		return false, &TypeError{Msg: err.Error()}
	}
	return eq, nil
}

func (e *Evaluator) evalLike(ex Like, row []value.Value) (bool, error) {
	operand, err := e.value(ex.Operand, row)
	if err != nil {
		return false, err
	}
	pattern, err := e.value(ex.Pattern, row)
	if err != nil {
		return false, err
	}
	if operand.Tag != value.Text || pattern.Tag != value.Text {
		return false, &TypeError{Msg: "LIKE requires both operands to be text"}
	}
	matches := likeMatch([]rune(operand.S), []rune(pattern.S))
	if ex.Negate {
		return !matches, nil
	}
	return matches, nil
}

// likeMatch implements SQL LIKE semantics directly over code points:
// '%' matches any sequence (including empty), '_' matches exactly one
// code point, and every other character (including regex
// metacharacters) matches only itself. This is deliberately not
// implemented by translating the pattern to a regexp, since that would
// require escaping every non-%/_ metacharacter to preserve the "match
// literally" rule and would silently misbehave on patterns containing
// '.', '*', '(' etc.
func likeMatch(text, pattern []rune) bool {
	// Standard DP wildcard matcher (% behaves like '*', _ like '?').
	tn, pn := len(text), len(pattern)
	dp := make([][]bool, tn+1)
	for i := range dp {
		dp[i] = make([]bool, pn+1)
	}
	dp[0][0] = true
	for j := 1; j <= pn; j++ {
		if pattern[j-1] == '%' {
			dp[0][j] = dp[0][j-1]
		}
	}
	for i := 1; i <= tn; i++ {
		for j := 1; j <= pn; j++ {
			switch pattern[j-1] {
			case '%':
				dp[i][j] = dp[i-1][j] || dp[i][j-1]
			case '_':
				dp[i][j] = dp[i-1][j-1]
			default:
				dp[i][j] = dp[i-1][j-1] && text[i-1] == pattern[j-1]
			}
		}
	}
	return dp[tn][pn]
}

func (e *Evaluator) evalIn(ex In, row []value.Value) (bool, error) {
	operand, err := e.value(ex.Operand, row)
	if err != nil {
		return false, err
	}
	found := false
	for _, candidate := range ex.List {
		cv, err := e.value(candidate, row)
		if err != nil {
			return false, err
		}
		eq, err := sameTagOrNullEqual(operand, cv)
		if err != nil {
			return false, err
		}
		if eq {
			found = true
			break
		}
	}
	if ex.Negate {
		return !found, nil
	}
	return found, nil
}

func (e *Evaluator) evalBetween(ex Between, row []value.Value) (bool, error) {
	operand, err := e.value(ex.Operand, row)
	if err != nil {
		return false, err
	}
	lo, err := e.value(ex.Low, row)
	if err != nil {
		return false, err
	}
	hi, err := e.value(ex.High, row)
	if err != nil {
		return false, err
	}

	geLo, err := compareNot(operand, lo, value.Less)
	if err != nil {
		return false, err
	}
	leHi, err := compareNot(operand, hi, value.Greater)
	if err != nil {
		return false, err
	}
	in := geLo && leHi
	if ex.Negate {
		return !in, nil
	}
	return in, nil
}

// compareNot reports whether Compare(a, b) is anything other than
// exclude, wrapping cross-tag errors as a *TypeError.
func compareNot(a, b value.Value, exclude value.CompareResult) (bool, error) {
	cmp, err := value.Compare(a, b)
	if err != nil {
		return false, &TypeError{Msg: err.Error()}
	}
	return cmp != exclude, nil
}
