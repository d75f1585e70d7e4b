package kevm

import (
	"fmt"
	"math/big"

	"github.com/baolean/evm-semantics/kast"
	"github.com/holiman/uint256"
)

// Env binds symbolic variable names to concrete candidate values for predicate checking.
type Env struct {
	// Ints binds integer-sorted variables.
	Ints map[string]*big.Int

	// Bytes binds bytes-sorted variables, e.g. dynamic `bytes` arguments whose predicate
	// constrains their length.
	Bytes map[string][]byte
}

// CheckPredicate evaluates a range-predicate term produced by RangePredicate (or a conjunction of
// such terms) against concrete values bound in env. It reports whether the values satisfy the
// constraint, or an error if the term contains symbols this evaluator does not know or variables
// env does not bind.
func CheckPredicate(pred kast.Term, env Env) (bool, error) {
	switch t := pred.(type) {
	case kast.BoolToken:
		return bool(t), nil
	case kast.Apply:
		return checkApply(t, env)
	default:
		return false, fmt.Errorf("cannot evaluate term as a predicate: %s", pred)
	}
}

func checkApply(apply kast.Apply, env Env) (bool, error) {
	switch apply.Label {
	case kast.LabelAndBool:
		if len(apply.Args) != 2 {
			return false, fmt.Errorf("malformed conjunction: %s", apply)
		}
		lhs, err := CheckPredicate(apply.Args[0], env)
		if err != nil || !lhs {
			return false, err
		}
		return CheckPredicate(apply.Args[1], env)

	case LabelRangeUInt:
		width, value, err := widthAndValue(apply, env)
		if err != nil {
			return false, err
		}
		return inUnsignedRange(value, width), nil

	case LabelRangeSInt:
		width, value, err := widthAndValue(apply, env)
		if err != nil {
			return false, err
		}
		return inSignedRange(value, width), nil

	case LabelRangeBytes:
		// #rangeBytes(N, X) constrains X to the packed unsigned range of an N-byte string.
		width, value, err := widthAndValue(apply, env)
		if err != nil {
			return false, err
		}
		return inUnsignedRange(value, 8*width), nil

	case LabelRangeAddress:
		value, err := evalInt(apply.Args[0], env)
		if err != nil {
			return false, err
		}
		return inUnsignedRange(value, 160), nil

	case LabelRangeBool:
		value, err := evalInt(apply.Args[0], env)
		if err != nil {
			return false, err
		}
		return value.Sign() >= 0 && value.Cmp(big.NewInt(1)) <= 0, nil

	default:
		return false, fmt.Errorf("cannot evaluate predicate symbol: %s", apply.Label)
	}
}

// widthAndValue destructures a two-argument range application into its literal bit/byte width
// and the concrete value of its subject term.
func widthAndValue(apply kast.Apply, env Env) (uint, *big.Int, error) {
	if len(apply.Args) != 2 {
		return 0, nil, fmt.Errorf("malformed range predicate: %s", apply)
	}
	widthToken, ok := apply.Args[0].(kast.IntToken)
	if !ok {
		return 0, nil, fmt.Errorf("range predicate width is not a literal: %s", apply)
	}
	value, err := evalInt(apply.Args[1], env)
	if err != nil {
		return 0, nil, err
	}
	return uint(widthToken.Value.Uint64()), value, nil
}

// evalInt resolves a term to a concrete integer under env.
func evalInt(term kast.Term, env Env) (*big.Int, error) {
	switch t := term.(type) {
	case kast.IntToken:
		return t.Value, nil
	case kast.Variable:
		if value, ok := env.Ints[t.Name]; ok {
			return value, nil
		}
		return nil, fmt.Errorf("unbound integer variable: %s", t.Name)
	case kast.Apply:
		// lengthBytes(V) resolves to the length of the byte-string bound to V.
		if t.Label == LabelLengthBytes && len(t.Args) == 1 {
			if variable, ok := t.Args[0].(kast.Variable); ok {
				if value, ok := env.Bytes[variable.Name]; ok {
					return big.NewInt(int64(len(value))), nil
				}
				return nil, fmt.Errorf("unbound bytes variable: %s", variable.Name)
			}
		}
		return nil, fmt.Errorf("cannot evaluate term as an integer: %s", term)
	default:
		return nil, fmt.Errorf("cannot evaluate term as an integer: %s", term)
	}
}

// inUnsignedRange reports whether value lies in [0, 2^bits - 1].
func inUnsignedRange(value *big.Int, bits uint) bool {
	return value.Sign() >= 0 && value.Cmp(unsignedMax(bits)) <= 0
}

// inSignedRange reports whether value lies in [-2^(bits-1), 2^(bits-1) - 1].
func inSignedRange(value *big.Int, bits uint) bool {
	half := new(big.Int).Lsh(big.NewInt(1), bits-1)
	max := new(big.Int).Sub(half, big.NewInt(1))
	min := new(big.Int).Neg(half)
	return value.Cmp(min) >= 0 && value.Cmp(max) <= 0
}

// unsignedMax returns 2^bits - 1 for bit-widths up to 256. The left shift wraps to zero at 256
// bits, and the subtraction then wraps back to the full 256-bit maximum.
func unsignedMax(bits uint) *big.Int {
	bound := new(uint256.Int).Lsh(uint256.NewInt(1), bits)
	bound.SubUint64(bound, 1)
	return bound.ToBig()
}
