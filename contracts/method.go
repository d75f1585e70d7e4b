package contracts

import (
	"fmt"
	"strings"

	"github.com/baolean/evm-semantics/compilation/types"
	"github.com/baolean/evm-semantics/kast"
	"github.com/baolean/evm-semantics/kevm"
	"github.com/baolean/evm-semantics/logging"
	"github.com/pkg/errors"
)

// Method describes one ABI function of a contract model: its canonical signature, numeric
// selector id, argument names and types in declaration order, and payability. A Method is
// immutable once its parent Contract has been assembled.
type Method struct {
	// Name is the declared method name.
	Name string

	// ID is the numeric selector id looked up from the compiler's method-identifier table.
	ID uint32

	// ArgNames holds one synthesized symbolic variable name per argument, in declaration
	// order; see argVariableName.
	ArgNames []string

	// ArgTypes holds the declared argument type strings, in declaration order. Order is
	// semantically meaningful for calldata encoding.
	ArgTypes []string

	// ContractName is the name of the contract declaring the method.
	ContractName string

	// Sort is the symbolic sort of the contract's method applications.
	Sort kast.Sort

	// Payable indicates whether the method's declared state mutability is "payable".
	Payable bool

	// Signature is the canonical signature string, e.g. transfer(address,uint256).
	Signature string

	// production is the method application syntax declaration, built during assembly.
	production kast.Production

	// calldataRule is the generated calldata encoding rule; nil when one of the argument types
	// yields no range predicate, in which case the method carries no calldata sugar.
	calldataRule *kast.Rule
}

// newMethod derives a Method from its ABI descriptor, canonical signature and selector id.
func newMethod(signature string, id uint32, entry types.ABIEntry, contractName string, sort kast.Sort) *Method {
	argNames := make([]string, len(entry.Inputs))
	argTypes := make([]string, len(entry.Inputs))
	for i, input := range entry.Inputs {
		argNames[i] = argVariableName(i, input.Name)
		argTypes[i] = input.Type
	}
	return &Method{
		Name:         entry.Name,
		ID:           id,
		ArgNames:     argNames,
		ArgTypes:     argTypes,
		ContractName: contractName,
		Sort:         sort,
		Payable:      entry.StateMutability == "payable",
		Signature:    signature,
	}
}

// argVariableName synthesizes the symbolic variable name of the i-th argument from its declared
// name, with characters a variable name cannot carry replaced by underscores.
func argVariableName(index int, declaredName string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, declaredName)
	return fmt.Sprintf("V%d_%s", index, sanitized)
}

// KLabel returns the constructor label of the method application production.
func (m *Method) KLabel() kast.Label {
	return kast.Label(fmt.Sprintf("method_%s_%s_%s", m.ContractName, m.Name, strings.Join(m.ArgTypes, "_")))
}

// Production returns the syntax production declaring the method application, e.g.
// transfer ( Int : address , Int : uint256 ).
func (m *Method) Production() kast.Production {
	return m.production
}

// SelectorAliasRule returns the rule rewriting the symbolic selector of the method's canonical
// signature to its numeric id.
func (m *Method) SelectorAliasRule() kast.Rule {
	return kast.Rule{LHS: kevm.ABISelector(m.Signature), RHS: kast.NewIntToken(int64(m.ID))}
}

// CalldataRule returns the generated calldata encoding rule, or nil when no rule could be
// generated because an argument type yields no range predicate.
func (m *Method) CalldataRule() *kast.Rule {
	return m.calldataRule
}

// HasCalldataRule reports whether a calldata encoding rule was generated for this method.
func (m *Method) HasCalldataRule() bool {
	return m.calldataRule != nil
}

// buildProduction derives the method application production. Argument types with unsupported
// fixed widths make the whole contract load fail.
func (m *Method) buildProduction(logger *logging.Logger) error {
	items := []kast.ProductionItem{kast.Terminal(m.Name), kast.Terminal("(")}
	for i, argType := range m.ArgTypes {
		if i > 0 {
			items = append(items, kast.Terminal(","))
		}
		sort, err := kevm.BaseSort(argType, logger)
		if err != nil {
			return errors.Wrapf(err, "contract %s, method %s", m.ContractName, m.Name)
		}
		items = append(items, kast.NonTerminal(sort), kast.Terminal(":"), kast.Terminal(argType))
	}
	items = append(items, kast.Terminal(")"))
	m.production = kast.Production{Sort: m.Sort, Items: items, KLabel: m.KLabel()}
	return nil
}

// buildCalldataRule attempts to derive the calldata encoding rule for this method: the method
// application on the left rewrites to the ABI-encoded calldata on the right, guarded by the
// conjunction of every argument's range predicate. When an argument's type yields no predicate,
// the rule is abandoned for this method only and the method keeps no calldata sugar; this is
// logged, never fatal. Unsupported fixed-width types abort the contract load.
func (m *Method) buildCalldataRule(contract kast.Term, applicationLabel kast.Label, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.NilLogger
	}

	argVars := make([]kast.Term, len(m.ArgNames))
	args := make([]kast.Term, len(m.ArgNames))
	conjuncts := make([]kast.Term, len(m.ArgNames))
	for i, argName := range m.ArgNames {
		variable := kast.NewVariable(argName)
		argVars[i] = variable
		args[i] = kevm.ABIType(m.ArgTypes[i], variable)

		predicate, ok, err := kevm.RangePredicate(variable, m.ArgTypes[i], logger)
		if err != nil {
			return errors.Wrapf(err, "contract %s, method %s", m.ContractName, m.Name)
		}
		if !ok {
			logger.Info("Unsupported ABI type for method ", m.ContractName, ".", m.Name,
				", will not generate calldata sugar: ", m.ArgTypes[i])
			m.calldataRule = nil
			return nil
		}
		conjuncts[i] = predicate
	}

	lhs := kast.NewApply(applicationLabel, contract, kast.NewApply(m.KLabel(), argVars...))
	rhs := kevm.ABICalldata(m.Name, args)
	m.calldataRule = &kast.Rule{LHS: lhs, RHS: rhs, Ensures: kast.AndBool(conjuncts)}
	return nil
}
