package money

import (
	"regexp"
	"strings"

	"github.com/mExOms/convroute/pkg/xerrors"
)

// AssetCode is a normalized currency/asset identifier, always upper-case,
// matching ^[A-Z]{3,12}$.
type AssetCode string

var assetCodePattern = regexp.MustCompile(`^[A-Z]{3,12}$`)

// NewAssetCode normalizes and validates raw into an AssetCode.
func NewAssetCode(raw string) (AssetCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !assetCodePattern.MatchString(normalized) {
		return "", xerrors.NewInvalidInput("assetCode", "must match [A-Z]{3,12}: "+raw)
	}
	return AssetCode(normalized), nil
}

// Equal reports exact equality with other. Codes built by NewAssetCode are
// already upper-cased; no case folding happens here.
func (a AssetCode) Equal(other AssetCode) bool {
	return a == other
}

func (a AssetCode) String() string { return string(a) }
