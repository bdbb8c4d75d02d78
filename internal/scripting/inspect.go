package scripting

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"
)

// Hooks lists the global functions a script may define, in call order.
var Hooks = []string{
	"on_init",
	"on_world_add",
	"on_update",
	"on_physics_update",
	"on_trigger",
	"on_world_remove",
	"on_destroy",
}

// Info is what Inspect learns about a script without running it.
type Info struct {
	Name  string   `yaml:"name"`
	Hash  string   `yaml:"hash"`
	Hooks []string `yaml:"hooks"`
	Props []string `yaml:"props,omitempty"`

	// Unknown holds global on_* functions that are not hooks, usually typos.
	Unknown []string `yaml:"unknown,omitempty"`
}

// Hash returns the hex sha256 of src.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Inspect parses src and reports the hooks it defines and the self.props
// keys it reads.
func Inspect(name string, src []byte) (Info, error) {
	chunk, err := parse.Parse(strings.NewReader(string(src)), name)
	if err != nil {
		return Info{}, fmt.Errorf("parse %s: %w", name, err)
	}
	info := Info{Name: name, Hash: Hash(src)}
	w := &walker{props: make(map[string]bool)}
	for _, st := range chunk {
		if fn, ok := globalFunc(st); ok && strings.HasPrefix(fn, "on_") {
			if slices.Contains(Hooks, fn) {
				info.Hooks = append(info.Hooks, fn)
			} else {
				info.Unknown = append(info.Unknown, fn)
			}
		}
		w.stmt(st)
	}
	for k := range w.props {
		info.Props = append(info.Props, k)
	}
	slices.Sort(info.Hooks)
	slices.Sort(info.Props)
	slices.Sort(info.Unknown)
	info.Hooks = slices.Compact(info.Hooks)
	info.Unknown = slices.Compact(info.Unknown)
	return info, nil
}

// globalFunc matches `function name()` and `name = function()` at chunk level.
func globalFunc(st ast.Stmt) (string, bool) {
	switch s := st.(type) {
	case *ast.FuncDefStmt:
		if s.Name.Method != "" {
			return "", false
		}
		if id, ok := s.Name.Func.(*ast.IdentExpr); ok {
			return id.Value, true
		}
	case *ast.AssignStmt:
		if len(s.Lhs) != 1 || len(s.Rhs) != 1 {
			return "", false
		}
		id, ok := s.Lhs[0].(*ast.IdentExpr)
		if _, isFn := s.Rhs[0].(*ast.FunctionExpr); ok && isFn {
			return id.Value, true
		}
	}
	return "", false
}

type walker struct {
	props map[string]bool
}

func (w *walker) stmts(list []ast.Stmt) {
	for _, st := range list {
		w.stmt(st)
	}
}

func (w *walker) exprs(list []ast.Expr) {
	for _, e := range list {
		w.expr(e)
	}
}

func (w *walker) stmt(st ast.Stmt) {
	switch s := st.(type) {
	case *ast.AssignStmt:
		w.exprs(s.Lhs)
		w.exprs(s.Rhs)
	case *ast.LocalAssignStmt:
		w.exprs(s.Exprs)
	case *ast.FuncCallStmt:
		w.expr(s.Expr)
	case *ast.DoBlockStmt:
		w.stmts(s.Stmts)
	case *ast.WhileStmt:
		w.expr(s.Condition)
		w.stmts(s.Stmts)
	case *ast.RepeatStmt:
		w.expr(s.Condition)
		w.stmts(s.Stmts)
	case *ast.IfStmt:
		w.expr(s.Condition)
		w.stmts(s.Then)
		w.stmts(s.Else)
	case *ast.NumberForStmt:
		w.exprs([]ast.Expr{s.Init, s.Limit, s.Step})
		w.stmts(s.Stmts)
	case *ast.GenericForStmt:
		w.exprs(s.Exprs)
		w.stmts(s.Stmts)
	case *ast.FuncDefStmt:
		w.stmts(s.Func.Stmts)
	case *ast.ReturnStmt:
		w.exprs(s.Exprs)
	}
}

func (w *walker) expr(e ast.Expr) {
	switch x := e.(type) {
	case nil:
	case *ast.AttrGetExpr:
		if key, ok := propKey(x); ok {
			w.props[key] = true
		}
		w.expr(x.Object)
		w.expr(x.Key)
	case *ast.TableExpr:
		for _, f := range x.Fields {
			w.expr(f.Key)
			w.expr(f.Value)
		}
	case *ast.FuncCallExpr:
		w.expr(x.Func)
		w.expr(x.Receiver)
		w.exprs(x.Args)
	case *ast.LogicalOpExpr:
		w.expr(x.Lhs)
		w.expr(x.Rhs)
	case *ast.RelationalOpExpr:
		w.expr(x.Lhs)
		w.expr(x.Rhs)
	case *ast.StringConcatOpExpr:
		w.expr(x.Lhs)
		w.expr(x.Rhs)
	case *ast.ArithmeticOpExpr:
		w.expr(x.Lhs)
		w.expr(x.Rhs)
	case *ast.UnaryMinusOpExpr:
		w.expr(x.Expr)
	case *ast.UnaryNotOpExpr:
		w.expr(x.Expr)
	case *ast.UnaryLenOpExpr:
		w.expr(x.Expr)
	case *ast.FunctionExpr:
		w.stmts(x.Stmts)
	}
}

// propKey matches self.props.key and self.props["key"].
func propKey(x *ast.AttrGetExpr) (string, bool) {
	key, ok := x.Key.(*ast.StringExpr)
	if !ok {
		return "", false
	}
	inner, ok := x.Object.(*ast.AttrGetExpr)
	if !ok {
		return "", false
	}
	name, ok := inner.Key.(*ast.StringExpr)
	if !ok || name.Value != "props" {
		return "", false
	}
	self, ok := inner.Object.(*ast.IdentExpr)
	if !ok || self.Value != "self" {
		return "", false
	}
	return key.Value, true
}
