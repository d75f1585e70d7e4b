package kast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Sort names a K sort, the type a symbolic term belongs to.
type Sort string

const (
	// SortK is the generic catch-all sort, used when no more specific sort applies.
	SortK Sort = "K"

	// SortInt is the sort of unbounded integers.
	SortInt Sort = "Int"

	// SortBool is the sort of boolean terms, e.g. rule side conditions.
	SortBool Sort = "Bool"

	// SortBytes is the sort of byte strings, e.g. calldata and dynamic bytes values.
	SortBytes Sort = "Bytes"

	// SortString is the sort of string tokens.
	SortString Sort = "String"
)

// Label names the constructor symbol of an applied term or production.
type Label string

// Term is the interface implemented by all symbolic term nodes handed to the proof engine.
type Term interface {
	fmt.Stringer

	// isTerm restricts Term implementations to this package's node types.
	isTerm()
}

// Apply describes the application of a labeled constructor to an ordered list of argument terms.
type Apply struct {
	Label Label
	Args  []Term
}

// NewApply returns an Apply of the given label to the given arguments.
func NewApply(label Label, args ...Term) Apply {
	return Apply{Label: label, Args: args}
}

func (a Apply) isTerm() {}

func (a Apply) String() string {
	var b strings.Builder
	b.WriteString(string(a.Label))
	b.WriteString("(")
	for i, arg := range a.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteString(")")
	return b.String()
}

// Variable describes a named symbolic variable of a given sort.
type Variable struct {
	Name string
	Sort Sort
}

// NewVariable returns a Variable with the given name and the generic sort.
func NewVariable(name string) Variable {
	return Variable{Name: name, Sort: SortK}
}

func (v Variable) isTerm() {}

func (v Variable) String() string {
	return v.Name
}

// IntToken describes an unbounded integer token.
type IntToken struct {
	Value *big.Int
}

// NewIntToken returns an IntToken holding the given value.
func NewIntToken(value int64) IntToken {
	return IntToken{Value: big.NewInt(value)}
}

// NewIntTokenFromBig returns an IntToken holding a copy of the given value.
func NewIntTokenFromBig(value *big.Int) IntToken {
	return IntToken{Value: new(big.Int).Set(value)}
}

func (t IntToken) isTerm() {}

func (t IntToken) String() string {
	return t.Value.String()
}

// StringToken describes a string token.
type StringToken string

func (t StringToken) isTerm() {}

func (t StringToken) String() string {
	return strconv.Quote(string(t))
}

// BoolToken describes a boolean token.
type BoolToken bool

// True is the trivially-true boolean term.
const True = BoolToken(true)

func (t BoolToken) isTerm() {}

func (t BoolToken) String() string {
	return strconv.FormatBool(bool(t))
}

// LabelAndBool is the label joining two boolean terms conjunctively.
const LabelAndBool = Label("_andBool_")

// AndBool folds a list of boolean terms into a single conjunction. An empty list yields the
// trivially-true term; a single term is returned unchanged.
func AndBool(terms []Term) Term {
	if len(terms) == 0 {
		return True
	}
	result := terms[0]
	for _, term := range terms[1:] {
		result = NewApply(LabelAndBool, result, term)
	}
	return result
}
