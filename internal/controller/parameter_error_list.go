package controller

import (
	"strconv"
	"strings"

	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/tjfoc/gmsm/sm2"
)

// ParameterErrorList contains a list of human-readable errors about parameters.
type ParameterErrorList []string

// AppendIfEmptyOrBlankSpaces appends the error message specified if `str` is empty or contains only blank spaces.
//
// Parameters:
//   the string to be checked
//   the error message to append
//
// Returns:
//   the trimmed string
func (pel *ParameterErrorList) AppendIfEmptyOrBlankSpaces(str string, errMsg string) string {
	if str = strings.TrimSpace(str); str == "" {
		*pel = append(*pel, errMsg)
	}

	return str
}

// AppendIfNotUint64 appends the error message specified if `str` is not an uint64.
//
// Parameters:
//   the string to be checked
//   the error message to append
//
// Returns:
//   the parsed uint64 or 0 if there's error
func (pel *ParameterErrorList) AppendIfNotUint64(str string, errMsg string) uint64 {
	uintResult, err := strconv.ParseUint(strings.TrimSpace(str), 10, 64)
	if err != nil {
		*pel = append(*pel, errMsg)
		return 0
	}

	return uintResult
}

// AppendIfNotPrivateKey appends the error message specified if `str` is not an SM2 private key in PEM format.
//
// Parameters:
//   the PEM string to be checked
//   the error message to append
//
// Returns:
//   the parsed private key or nil if there's error
func (pel *ParameterErrorList) AppendIfNotPrivateKey(str string, errMsg string) *sm2.PrivateKey {
	privKey, err := sm2keyutils.ConvertPEMToPrivateKey([]byte(strings.TrimSpace(str)))
	if err != nil {
		*pel = append(*pel, errMsg)
		return nil
	}

	return privKey
}
