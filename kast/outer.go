package kast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentence is the interface implemented by all module-level declarations: productions, rules and
// subsort declarations.
type Sentence interface {
	fmt.Stringer

	// isSentence restricts Sentence implementations to this package's node types.
	isSentence()
}

// ProductionItem is one element on the right-hand side of a syntax production: either a literal
// terminal or a non-terminal sort reference.
type ProductionItem interface {
	fmt.Stringer

	isProductionItem()
}

// Terminal is a literal token in a syntax production.
type Terminal string

func (t Terminal) isProductionItem() {}

func (t Terminal) String() string {
	return strconv.Quote(string(t))
}

// NonTerminal is a sort reference in a syntax production.
type NonTerminal Sort

func (n NonTerminal) isProductionItem() {}

func (n NonTerminal) String() string {
	return string(n)
}

// Production declares syntax for a sort: an ordered list of production items, optionally tagged
// with a constructor label and attributes.
type Production struct {
	Sort  Sort
	Items []ProductionItem

	// KLabel is the constructor label terms of this production are built with; empty when the
	// production is a plain subsort declaration.
	KLabel Label

	// Function marks the production as a function symbol rather than a constructor.
	Function bool
}

// NewSubsort returns a Production declaring that sub is a subsort of super.
func NewSubsort(super Sort, sub Sort) Production {
	return Production{Sort: super, Items: []ProductionItem{NonTerminal(sub)}}
}

func (p Production) isSentence() {}

func (p Production) String() string {
	var b strings.Builder
	b.WriteString("syntax ")
	b.WriteString(string(p.Sort))
	b.WriteString(" ::= ")
	for i, item := range p.Items {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(item.String())
	}
	if attrs := p.attributes(); len(attrs) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(attrs, ", "))
		b.WriteString("]")
	}
	return b.String()
}

func (p Production) attributes() []string {
	var attrs []string
	if p.KLabel != "" {
		attrs = append(attrs, fmt.Sprintf("klabel(%s)", p.KLabel), "symbol")
	}
	if p.Function {
		attrs = append(attrs, "function")
	}
	return attrs
}

// Rule declares a rewrite from LHS to RHS, guarded by an optional boolean side condition.
type Rule struct {
	LHS Term
	RHS Term

	// Ensures is the side condition the rewrite is guarded by; nil means unconditional.
	Ensures Term
}

func (r Rule) isSentence() {}

func (r Rule) String() string {
	var b strings.Builder
	b.WriteString("rule ")
	b.WriteString(r.LHS.String())
	b.WriteString(" => ")
	b.WriteString(r.RHS.String())
	if r.Ensures != nil && r.Ensures != Term(True) {
		b.WriteString(" ensures ")
		b.WriteString(r.Ensures.String())
	}
	return b.String()
}

// Module is a named, flat collection of sentences with module imports, the unit of output handed
// to the proof engine.
type Module struct {
	Name      string
	Imports   []string
	Sentences []Sentence
}

// NewModule returns a Module with the given name, imports and sentences.
func NewModule(name string, imports []string, sentences []Sentence) Module {
	return Module{Name: name, Imports: imports, Sentences: sentences}
}

func (m Module) String() string {
	var b strings.Builder
	b.WriteString("module ")
	b.WriteString(m.Name)
	b.WriteString("\n")
	for _, imp := range m.Imports {
		b.WriteString("    imports ")
		b.WriteString(imp)
		b.WriteString("\n")
	}
	for _, sentence := range m.Sentences {
		b.WriteString("\n    ")
		b.WriteString(sentence.String())
		b.WriteString("\n")
	}
	b.WriteString("\nendmodule\n")
	return b.String()
}
