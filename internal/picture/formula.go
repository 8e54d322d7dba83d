package picture

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/scanner"
)

// Formula is a compiled numeric expression in x.
//
// It knows + - * / and ^ (right associative, binding tighter than a unary
// minus, so -2^2 is -4), parentheses, the constants pi and e, and the
// functions listed in formulaFuncs.
type Formula struct {
	src  string
	eval func(x float64) float64
}

var formulaFuncs = map[string]func(float64) float64{
	"sin":     math.Sin,
	"cos":     math.Cos,
	"tan":     math.Tan,
	"arcsin":  math.Asin,
	"arccos":  math.Acos,
	"arctan":  math.Atan,
	"asin":    math.Asin,
	"acos":    math.Acos,
	"atan":    math.Atan,
	"sinh":    math.Sinh,
	"cosh":    math.Cosh,
	"tanh":    math.Tanh,
	"exp":     math.Exp,
	"ln":      math.Log,
	"log10":   math.Log10,
	"log2":    math.Log2,
	"sqrt":    math.Sqrt,
	"abs":     math.Abs,
	"floor":   math.Floor,
	"ceiling": math.Ceil,
	"round":   math.Round,
}

// FormulaError reports where a formula stopped making sense.
type FormulaError struct {
	Formula string
	Offset  int
	Msg     string
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("formula %q, at position %d: %s", e.Formula, e.Offset+1, e.Msg)
}

// CompileFormula parses src.
func CompileFormula(src string) (*Formula, error) {
	c := &compiler{src: src}
	c.s.Init(strings.NewReader(src))
	c.s.Mode = scanner.ScanIdents | scanner.ScanFloats | scanner.ScanInts
	c.s.Error = func(_ *scanner.Scanner, msg string) { c.fail(msg) }
	c.next()

	eval := c.expr()
	if c.err == nil && c.tok != scanner.EOF {
		c.fail(fmt.Sprintf("unexpected %q", c.text))
	}
	if c.err != nil {
		return nil, c.err
	}
	return &Formula{src: src, eval: eval}, nil
}

func (f *Formula) String() string { return f.src }

// Eval returns the value at x. Undefined results come out as NaN or ±Inf.
func (f *Formula) Eval(x float64) float64 { return f.eval(x) }

type node = func(x float64) float64

type compiler struct {
	src  string
	s    scanner.Scanner
	tok  rune
	text string
	pos  int
	err  error
}

func (c *compiler) next() {
	c.tok = c.s.Scan()
	c.text = c.s.TokenText()
	c.pos = c.s.Position.Offset
}

func (c *compiler) fail(msg string) {
	if c.err == nil {
		c.err = &FormulaError{Formula: c.src, Offset: c.pos, Msg: msg}
	}
}

func constant(v float64) node { return func(float64) float64 { return v } }

// expr = term { ("+" | "-") term }
func (c *compiler) expr() node {
	left := c.term()
	for c.err == nil && (c.tok == '+' || c.tok == '-') {
		op := c.tok
		c.next()
		l, r := left, c.term()
		if op == '+' {
			left = func(x float64) float64 { return l(x) + r(x) }
		} else {
			left = func(x float64) float64 { return l(x) - r(x) }
		}
	}
	return left
}

// term = unary { ("*" | "/") unary }
func (c *compiler) term() node {
	left := c.unary()
	for c.err == nil && (c.tok == '*' || c.tok == '/') {
		op := c.tok
		c.next()
		l, r := left, c.unary()
		if op == '*' {
			left = func(x float64) float64 { return l(x) * r(x) }
		} else {
			left = func(x float64) float64 { return l(x) / r(x) }
		}
	}
	return left
}

// unary = ("-" | "+") unary | power
func (c *compiler) unary() node {
	switch c.tok {
	case '-':
		c.next()
		operand := c.unary()
		return func(x float64) float64 { return -operand(x) }
	case '+':
		c.next()
		return c.unary()
	}
	return c.power()
}

// power = primary [ "^" unary ]
func (c *compiler) power() node {
	base := c.primary()
	if c.err != nil || c.tok != '^' {
		return base
	}
	c.next()
	exp := c.unary()
	return func(x float64) float64 { return math.Pow(base(x), exp(x)) }
}

// primary = number | "x" | constant | function "(" expr ")" | "(" expr ")"
func (c *compiler) primary() node {
	if c.err != nil {
		return constant(math.NaN())
	}
	switch c.tok {
	case scanner.Int, scanner.Float:
		v, err := strconv.ParseFloat(c.text, 64)
		if err != nil {
			c.fail(fmt.Sprintf("bad number %q", c.text))
		}
		c.next()
		return constant(v)
	case '(':
		c.next()
		inner := c.expr()
		c.expect(')')
		return inner
	case scanner.Ident:
		name := c.text
		c.next()
		switch name {
		case "x":
			return func(x float64) float64 { return x }
		case "pi":
			return constant(math.Pi)
		case "e":
			return constant(math.E)
		}
		fn, ok := formulaFuncs[name]
		if !ok {
			c.fail(fmt.Sprintf("unknown name %q", name))
			return constant(math.NaN())
		}
		c.expect('(')
		arg := c.expr()
		c.expect(')')
		return func(x float64) float64 { return fn(arg(x)) }
	case scanner.EOF:
		c.fail("unexpected end of formula")
	default:
		c.fail(fmt.Sprintf("unexpected %q", c.text))
	}
	return constant(math.NaN())
}

func (c *compiler) expect(tok rune) {
	if c.err != nil {
		return
	}
	if c.tok != tok {
		c.fail(fmt.Sprintf("expected %q", string(tok)))
		return
	}
	c.next()
}
