package contracts

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/baolean/evm-semantics/compilation"
	"github.com/baolean/evm-semantics/compilation/types"
	"github.com/baolean/evm-semantics/kast"
	"github.com/baolean/evm-semantics/kevm"
	"github.com/baolean/evm-semantics/logging"
	"github.com/crytic/medusa-geth/crypto"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Contract is the formal model of one compiled contract, derived once from its compiler
// artifact: an ordered method table, a storage field table, the deployed bytecode, and the
// sentences handed to the proof engine. A Contract is immutable once constructed and may be
// shared read-only across any number of concurrent readers; the digest and the merged
// instruction/source table are computed lazily on first access and memoized.
type Contract struct {
	// name is the contract name.
	name string

	// artifact is the validated, typed view of the contract's compiler artifact.
	artifact *types.ContractArtifact

	// rawJSON is the raw artifact object the model was derived from; it is the input to the
	// content digest.
	rawJSON json.RawMessage

	// id is the numeric identifier the compiler assigned to the contract's source unit.
	id int

	// sourcePath is the path of the source file the contract was compiled from.
	sourcePath string

	// bytecode is the decoded deployed runtime bytecode.
	bytecode []byte

	// rawSourceMap is the delta-encoded instruction source map; empty when the compiler did
	// not emit one.
	rawSourceMap string

	// methods holds the contract's ABI functions, totally ordered by canonical signature.
	methods []*Method

	// fields maps each storage field label to its slot index. On duplicate labels, the first
	// occurrence wins.
	fields map[string]int

	// logger is the diagnostic sink recoverable conditions are reported through.
	logger *logging.Logger

	digestOnce sync.Once
	digest     string
	digestErr  error

	sourceMapOnce sync.Once
	sourceMap     []InstructionSourceMapping
	sourceMapErr  error
}

// InstructionSourceMapping associates one decoded instruction with its program counter and the
// source-map element at the same instruction index.
type InstructionSourceMapping struct {
	// Index is the 0-based instruction index, dense and strictly increasing in PC.
	Index int

	// PC is the byte offset of the instruction within the deployed bytecode.
	PC int

	// Source is the decoded source-map element for this instruction.
	Source types.SourceMapElement
}

// NewContract builds a contract model from the raw JSON object of a standard-json compiler
// artifact. Construction is synchronous and happens once per contract; unsupported fixed-width
// argument types and missing method identifiers abort it with a typed error, while unknown
// complex types, duplicate storage labels and absent source maps only degrade the model and are
// reported through the logger.
func NewContract(name string, rawJSON json.RawMessage, logger *logging.Logger) (*Contract, error) {
	artifact, err := types.ParseContractArtifact(rawJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "contract %s", name)
	}
	return NewContractFromArtifact(name, artifact, rawJSON, logger)
}

// NewFoundryContract builds a contract model from a foundry-shaped artifact, whose EVM output
// sections are hoisted to the top level of the contract object.
func NewFoundryContract(name string, rawJSON json.RawMessage, logger *logging.Logger) (*Contract, error) {
	artifact, err := types.ParseFoundryContractArtifact(rawJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "contract %s", name)
	}
	return NewContractFromArtifact(name, artifact, rawJSON, logger)
}

// NewContractFromArtifact assembles the contract model from an already validated artifact.
// rawJSON must be the artifact object the typed view was derived from; it determines the digest.
func NewContractFromArtifact(name string, artifact *types.ContractArtifact, rawJSON json.RawMessage, logger *logging.Logger) (*Contract, error) {
	if logger == nil {
		logger = logging.NilLogger
	}
	logger = logger.NewSubLogger("contract", name)

	bytecode, err := artifact.DecodeBytecode()
	if err != nil {
		return nil, errors.Wrapf(err, "contract %s", name)
	}

	contract := &Contract{
		name:         name,
		artifact:     artifact,
		rawJSON:      rawJSON,
		id:           artifact.ID,
		sourcePath:   artifact.AST.AbsolutePath,
		bytecode:     bytecode,
		rawSourceMap: artifact.EVM.DeployedBytecode.SourceMap,
		fields:       make(map[string]int),
		logger:       logger,
	}

	if err := contract.buildMethods(); err != nil {
		return nil, err
	}
	if err := contract.buildFields(); err != nil {
		return nil, err
	}

	return contract, nil
}

// buildMethods derives one Method per ABI function descriptor: canonical signature, selector
// lookup, application production and calldata encoding rule. The resulting method table is
// totally ordered by signature so downstream output is deterministic.
func (c *Contract) buildMethods() error {
	contractTerm := kast.NewApply(c.KLabel())

	for _, entry := range c.artifact.ABI {
		if entry.Type != "function" {
			continue
		}

		signature := MethodSignature(entry)
		id, err := c.lookupSelector(signature)
		if err != nil {
			return err
		}

		method := newMethod(signature, id, entry, c.name, c.SortMethod())
		if err := method.buildProduction(c.logger); err != nil {
			return err
		}
		if err := method.buildCalldataRule(contractTerm, c.KLabelMethod(), c.logger); err != nil {
			return err
		}
		c.methods = append(c.methods, method)
	}

	slices.SortFunc(c.methods, func(a, b *Method) int {
		return strings.Compare(a.Signature, b.Signature)
	})
	return nil
}

// lookupSelector resolves a canonical signature to its numeric selector id through the
// compiler-provided method-identifier table. A signature with no entry is a fatal artifact
// inconsistency. A table entry disagreeing with the signature's keccak selector is only
// reported, since the compiler's table is authoritative for dispatch.
func (c *Contract) lookupSelector(signature string) (uint32, error) {
	idHex, ok := c.artifact.EVM.MethodIdentifiers[signature]
	if !ok {
		return 0, &MissingSelectorError{ContractName: c.name, Signature: signature}
	}

	id, err := strconv.ParseUint(strings.TrimPrefix(idHex, "0x"), 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "contract %s: could not parse method identifier %q for signature %s", c.name, idHex, signature)
	}

	computed := binary.BigEndian.Uint32(crypto.Keccak256([]byte(signature))[:4])
	if computed != uint32(id) {
		c.logger.Warn("Method identifier for ", signature, " does not match its keccak selector")
	}

	return uint32(id), nil
}

// buildFields derives the storage field table from the artifact's storage layout, in declared
// order. On a duplicate label the first slot assignment wins and the collision is logged.
func (c *Contract) buildFields() error {
	if c.artifact.StorageLayout == nil {
		return nil
	}
	for _, entry := range c.artifact.StorageLayout.Storage {
		slot, err := entry.SlotNumber()
		if err != nil {
			return errors.Wrapf(err, "contract %s", c.name)
		}
		if _, exists := c.fields[entry.Label]; exists {
			c.logger.Info("Found duplicate field access key on contract ", c.name, ": ", entry.Label)
			continue
		}
		c.fields[entry.Label] = slot
	}
	return nil
}

// Name returns the contract name.
func (c *Contract) Name() string {
	return c.name
}

// ID returns the numeric identifier the compiler assigned to the contract's source unit.
func (c *Contract) ID() int {
	return c.id
}

// SourcePath returns the path of the source file the contract was compiled from.
func (c *Contract) SourcePath() string {
	return c.sourcePath
}

// Bytecode returns the decoded deployed runtime bytecode.
func (c *Contract) Bytecode() []byte {
	return c.bytecode
}

// Methods returns the contract's ABI functions, totally ordered by canonical signature.
func (c *Contract) Methods() []*Method {
	return c.methods
}

// Fields returns a copy of the storage field table, mapping field labels to slot indexes.
func (c *Contract) Fields() map[string]int {
	return maps.Clone(c.fields)
}

// Metadata returns the CBOR-encoded compiler metadata embedded in the deployed bytecode, or nil
// when none is present.
func (c *Contract) Metadata() *types.ContractMetadata {
	return types.ExtractContractMetadata(c.bytecode)
}

// MethodByName returns the unique method with the given name, or nil when the contract declares
// none. When more than one method shares the name (overloads), an error is returned; callers
// wanting a specific overload should select by signature instead.
func (c *Contract) MethodByName(name string) (*Method, error) {
	var found *Method
	for _, method := range c.methods {
		if method.Name != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("found multiple methods with name %s, expected at most one", name)
		}
		found = method
	}
	return found, nil
}

// Digest returns the content digest of the contract's artifact, computed on first access and
// held for the model's lifetime. It is a stable cache/identity key: two structurally identical
// artifacts always yield the same digest, and any content change changes it.
func (c *Contract) Digest() (string, error) {
	c.digestOnce.Do(func() {
		c.digest, c.digestErr = compilation.HashArtifact(c.name, c.rawJSON)
	})
	return c.digest, c.digestErr
}

// SourceMap returns the merged instruction/source table: one entry per decoded instruction,
// carrying its program counter and the source-map element at the same instruction index. It is
// computed on first access and memoized. An absent source map yields an empty table, not an
// error.
func (c *Contract) SourceMap() ([]InstructionSourceMapping, error) {
	c.sourceMapOnce.Do(func() {
		c.sourceMap, c.sourceMapErr = c.buildSourceMap()
	})
	return c.sourceMap, c.sourceMapErr
}

func (c *Contract) buildSourceMap() ([]InstructionSourceMapping, error) {
	if len(c.bytecode) == 0 || c.rawSourceMap == "" {
		return nil, nil
	}

	offsets := types.BuildInstructionIndex(c.bytecode)
	elements, err := types.ParseSourceMap(c.rawSourceMap)
	if err != nil {
		return nil, errors.Wrapf(err, "contract %s: could not parse source map", c.name)
	}

	// Source-map segments and decoded instructions correspond positionally. A count mismatch
	// indicates the artifact's bytecode and source map drifted apart; keep the common prefix.
	count := len(offsets)
	if len(elements) < count {
		count = len(elements)
	}
	if len(elements) != len(offsets) {
		c.logger.Debug("Source map element count ", len(elements), " differs from instruction count ", len(offsets))
	}

	merged := make([]InstructionSourceMapping, count)
	for i := 0; i < count; i++ {
		merged[i] = InstructionSourceMapping{Index: i, PC: offsets[i], Source: elements[i]}
	}
	return merged, nil
}

// NameUpper returns the contract name with its first character uppercased, as used in sort names.
func (c *Contract) NameUpper() string {
	if c.name == "" {
		return ""
	}
	return strings.ToUpper(c.name[:1]) + c.name[1:]
}

// Sort returns the symbolic sort of the contract itself.
func (c *Contract) Sort() kast.Sort {
	return kast.Sort(c.NameUpper() + "Contract")
}

// SortField returns the symbolic sort of the contract's storage field names.
func (c *Contract) SortField() kast.Sort {
	return kast.Sort(c.NameUpper() + "Field")
}

// SortMethod returns the symbolic sort of the contract's method applications.
func (c *Contract) SortMethod() kast.Sort {
	return kast.Sort(c.NameUpper() + "Method")
}

// KLabel returns the constructor label of the contract constant.
func (c *Contract) KLabel() kast.Label {
	return kast.Label("contract_" + c.name)
}

// KLabelMethod returns the label of the contract's method application function.
func (c *Contract) KLabelMethod() kast.Label {
	return kast.Label("method_" + c.name)
}

// KLabelField returns the label prefix of the contract's field constants.
func (c *Contract) KLabelField() kast.Label {
	return kast.Label("field_" + c.name)
}

// Subsort returns the production declaring the contract's sort a subsort of Contract.
func (c *Contract) Subsort() kast.Production {
	return kast.NewSubsort("Contract", c.Sort())
}

// SubsortField returns the production declaring the contract's field sort a subsort of Field.
func (c *Contract) SubsortField() kast.Production {
	return kast.NewSubsort("Field", c.SortField())
}

// Production returns the production declaring the contract constant.
func (c *Contract) Production() kast.Production {
	return kast.Production{Sort: c.Sort(), Items: []kast.ProductionItem{kast.Terminal(c.name)}, KLabel: c.KLabel()}
}

// MacroBinRuntime returns the rule rewriting the contract's runtime-code symbol to its decoded
// deployed bytecode.
func (c *Contract) MacroBinRuntime() kast.Rule {
	return kast.Rule{
		LHS: kevm.BinRuntime(kast.NewApply(c.KLabel())),
		RHS: kevm.ParseByteStack("0x" + hex.EncodeToString(c.bytecode)),
	}
}

// FieldSentences returns the productions and storage-location rules of the contract's fields,
// in label order, or nil when the contract has no storage layout.
func (c *Contract) FieldSentences() []kast.Sentence {
	prods := []kast.Sentence{c.SubsortField()}
	var rules []kast.Sentence

	labels := maps.Keys(c.fields)
	slices.Sort(labels)
	for _, label := range labels {
		klabel := kast.Label(string(c.KLabelField()) + "_" + label)
		prods = append(prods, kast.Production{
			Sort:   c.SortField(),
			Items:  []kast.ProductionItem{kast.Terminal(label)},
			KLabel: klabel,
		})
		ruleLHS := kevm.Loc(kast.NewApply("contract_access_field", kast.NewApply(c.KLabel()), kast.NewApply(klabel)))
		rules = append(rules, kast.Rule{LHS: ruleLHS, RHS: kast.NewIntToken(int64(c.fields[label]))})
	}

	if len(prods) == 1 && len(rules) == 0 {
		return nil
	}
	return append(prods, rules...)
}

// MethodSentences returns the method application production plus, per method, its syntax
// production, its calldata encoding rule when one was generated, and its selector alias rule.
// A contract with no methods yields nil.
func (c *Contract) MethodSentences() []kast.Sentence {
	methodApplication := kast.Production{
		Sort:     kast.SortBytes,
		Items:    []kast.ProductionItem{kast.NonTerminal(c.Sort()), kast.Terminal("."), kast.NonTerminal(c.SortMethod())},
		KLabel:   c.KLabelMethod(),
		Function: true,
	}

	res := []kast.Sentence{methodApplication}
	for _, method := range c.methods {
		res = append(res, method.Production())
	}
	for _, method := range c.methods {
		if rule := method.CalldataRule(); rule != nil {
			res = append(res, *rule)
		}
	}
	for _, method := range c.methods {
		res = append(res, method.SelectorAliasRule())
	}

	if len(res) <= 1 {
		return nil
	}
	return res
}

// Sentences returns every sentence the contract contributes to its generated module.
func (c *Contract) Sentences() []kast.Sentence {
	sentences := []kast.Sentence{c.Subsort(), c.Production(), c.MacroBinRuntime()}
	sentences = append(sentences, c.FieldSentences()...)
	sentences = append(sentences, c.MethodSentences()...)
	return sentences
}

// MainModule assembles the contract's sentences into the flat module handed to the proof
// engine, importing the given modules.
func (c *Contract) MainModule(imports []string) kast.Module {
	return kast.NewModule(ContractToModuleName(c.name, false), imports, c.Sentences())
}

// ContractToModuleName returns the generated module name of a contract; spec selects the proof
// specification module variant.
func ContractToModuleName(contractName string, spec bool) string {
	moduleName := strings.ToUpper(contractName) + "-BIN-RUNTIME"
	if spec {
		moduleName += "-SPEC"
	}
	return moduleName
}

// TestToClaimName returns the claim name a test method contributes to a specification module.
func TestToClaimName(testName string) string {
	return strings.ReplaceAll(testName, "_", "-")
}

// ContractTestToClaimID returns the fully qualified claim identifier of a "Contract.test" pair.
func ContractTestToClaimID(contractTest string, spec bool) (string, error) {
	parts := strings.SplitN(contractTest, ".", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("expected a Contract.test identifier, got %q", contractTest)
	}
	return fmt.Sprintf("%s.%s", ContractToModuleName(parts[0], spec), TestToClaimName(parts[1])), nil
}
