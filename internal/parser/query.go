package parser

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// PredicateOp is a text comparison applied to a captured node
type PredicateOp uint8

const (
	// Eq keeps matches whose capture text equals the value
	Eq PredicateOp = iota
	// NotEq drops matches whose capture text equals the value
	NotEq
	// SimpleNameEq compares the last dotted segment, so "jakarta.persistence.Entity"
	// and "Entity" both match "Entity"
	SimpleNameEq
)

// Predicate filters matches by the text of one capture
type Predicate struct {
	Capture string
	Op      PredicateOp
	Value   string
}

// Query is a declarative structural pattern plus the capture names callers
// rely on. It holds no state and may run against any number of files.
type Query struct {
	Name       string
	Pattern    string
	Captures   []string
	Predicates []Predicate
}

// Where returns a copy of q with an extra predicate
func (q Query) Where(capture string, op PredicateOp, value string) Query {
	q.Predicates = append(slices.Clone(q.Predicates), Predicate{Capture: capture, Op: op, Value: value})
	return q
}

func (q Query) label() string {
	if q.Name != "" {
		return q.Name
	}
	return strings.Join(strings.Fields(q.Pattern), " ")
}

// CaptureSet maps capture names to the nodes of one match
type CaptureSet map[string]tree_sitter.Node

// Node returns the named capture or nil
func (c CaptureSet) Node(name string) *tree_sitter.Node {
	n, ok := c[name]
	if !ok {
		return nil
	}
	return &n
}

// QueryFirst runs q within scope (the whole file when scope is nil) and
// returns the first match that satisfies its predicates
func (f *ParsedFile) QueryFirst(scope *tree_sitter.Node, q Query) (CaptureSet, bool, error) {
	matches, err := f.run(scope, q, 1)
	if err != nil || len(matches) == 0 {
		return nil, false, err
	}
	return matches[0], true, nil
}

// QueryAll runs q within scope and returns every match in source order
func (f *ParsedFile) QueryAll(scope *tree_sitter.Node, q Query) ([]CaptureSet, error) {
	return f.run(scope, q, 0)
}

// compiledQuery is a Java query compiled once and shared. Compiled queries
// are read-only; each run uses its own cursor.
type compiledQuery struct {
	query *tree_sitter.Query
	names []string
}

// queryCache maps a pattern to its *compiledQuery
var queryCache sync.Map

func compile(pattern string) (*compiledQuery, error) {
	if cached, ok := queryCache.Load(pattern); ok {
		return cached.(*compiledQuery), nil
	}
	query, qerr := tree_sitter.NewQuery(javaLanguage(), pattern)
	if qerr != nil {
		return nil, qerr
	}
	cq := &compiledQuery{query: query, names: query.CaptureNames()}
	if existing, loaded := queryCache.LoadOrStore(pattern, cq); loaded {
		query.Close()
		return existing.(*compiledQuery), nil
	}
	return cq, nil
}

func (f *ParsedFile) run(scope *tree_sitter.Node, q Query, limit int) ([]CaptureSet, error) {
	compiled, err := compile(q.Pattern)
	if err != nil {
		return nil, coreerrors.NewQueryError(q.label(), err)
	}

	names := compiled.names
	for _, declared := range q.Captures {
		if !slices.Contains(names, declared) {
			return nil, coreerrors.NewQueryError(q.label(), fmt.Errorf("pattern does not declare capture @%s", declared))
		}
	}
	for _, p := range q.Predicates {
		if !slices.Contains(names, p.Capture) {
			return nil, coreerrors.NewQueryError(q.label(), fmt.Errorf("predicate references unknown capture @%s", p.Capture))
		}
	}

	if scope == nil {
		scope = f.tree.RootNode()
	}

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	queryMatches := qc.Matches(compiled.query, scope, f.source)

	var out []CaptureSet
	for {
		match := queryMatches.Next()
		if match == nil {
			break
		}

		set := make(CaptureSet, len(match.Captures))
		for _, c := range match.Captures {
			set[names[c.Index]] = c.Node
		}
		if !f.satisfies(set, q.Predicates) {
			continue
		}

		out = append(out, set)
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	slices.SortStableFunc(out, func(a, b CaptureSet) int {
		return int(firstStart(a)) - int(firstStart(b))
	})
	return out, nil
}

func (f *ParsedFile) satisfies(set CaptureSet, predicates []Predicate) bool {
	for _, p := range predicates {
		n, ok := set[p.Capture]
		if !ok {
			return false
		}
		text := f.TextOf(&n)
		switch p.Op {
		case Eq:
			if text != p.Value {
				return false
			}
		case NotEq:
			if text == p.Value {
				return false
			}
		case SimpleNameEq:
			if SimpleName(text) != SimpleName(p.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// firstStart orders matches by their earliest captured node
func firstStart(set CaptureSet) uint {
	first := ^uint(0)
	for _, n := range set {
		if s := n.StartByte(); s < first {
			first = s
		}
	}
	return first
}

// SimpleName returns the last segment of a dotted name
func SimpleName(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
