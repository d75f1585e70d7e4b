package compilation

import (
	"regexp"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// MinimumSolcVersion is the lowest compiler version whose artifacts are accepted. Earlier
// compilers emit storage layouts and source maps this core cannot rely on.
// See https://github.com/ethereum/solidity/issues/10276
const MinimumSolcVersion = "0.8.0"

// solcVersionPattern extracts the semantic version out of a compiler version string, which may
// carry commit and platform suffixes, e.g. "0.8.24+commit.e11b9ed9.Linux.g++".
var solcVersionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// CheckSolcVersion validates that a compiler version string meets the minimum supported
// version. An empty version string is accepted, since not every artifact records one.
func CheckSolcVersion(versionStr string) error {
	if versionStr == "" {
		return nil
	}

	matched := solcVersionPattern.FindString(versionStr)
	if matched == "" {
		return errors.Errorf("could not parse solc version from %q", versionStr)
	}
	version, err := semver.NewVersion(matched)
	if err != nil {
		return errors.Wrapf(err, "could not parse solc version from %q", versionStr)
	}

	minimum := semver.MustParse(MinimumSolcVersion)
	if version.LessThan(minimum) {
		return errors.Errorf("unsupported solc version %s, expected at least %s", version, MinimumSolcVersion)
	}
	return nil
}
