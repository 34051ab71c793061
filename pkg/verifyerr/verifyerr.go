// Package verifyerr carries the stable error taxonomy shared by the verifier
// and its callers. Every code is part of the wire contract: a host
// propagates the integer verbatim, so the set and the numbering must never
// change once published.
package verifyerr

import "fmt"

// Code is one of the sixteen stable verification error codes.
type Code int

const (
	IncompatibleVkWithNrPubInputs    Code = 0
	ProofVerificationFailed          Code = 1
	PreparingInputsG1AdditionFailed  Code = 2
	PreparingInputsG1MulFailed       Code = 3
	InvalidG1Length                  Code = 4
	InvalidG2Length                  Code = 5
	InvalidPublicInputsLength        Code = 6
	DecompressingG1Failed            Code = 7
	DecompressingG2Failed            Code = 8
	PublicInputGreaterThanFieldSize  Code = 9
	SerializationError               Code = 10
	ProofConversionError             Code = 11
	CurveOperationError               Code = 12
	HashError                        Code = 13
	PedersenVerificationError        Code = 14
	PublicWitnessParsingError        Code = 15
)

var names = map[Code]string{
	IncompatibleVkWithNrPubInputs:   "IncompatibleVkWithNrPubInputs",
	ProofVerificationFailed:         "ProofVerificationFailed",
	PreparingInputsG1AdditionFailed: "PreparingInputsG1AdditionFailed",
	PreparingInputsG1MulFailed:      "PreparingInputsG1MulFailed",
	InvalidG1Length:                 "InvalidG1Length",
	InvalidG2Length:                 "InvalidG2Length",
	InvalidPublicInputsLength:       "InvalidPublicInputsLength",
	DecompressingG1Failed:           "DecompressingG1Failed",
	DecompressingG2Failed:           "DecompressingG2Failed",
	PublicInputGreaterThanFieldSize: "PublicInputGreaterThanFieldSize",
	SerializationError:              "SerializationError",
	ProofConversionError:            "ProofConversionError",
	CurveOperationError:             "CurveOperationError",
	HashError:                       "HashError",
	PedersenVerificationError:       "PedersenVerificationError",
	PublicWitnessParsingError:       "PublicWitnessParsingError",
}

func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is the concrete error type returned by every package in this module
// that can fail with one of the stable codes. No error carries sensitive
// data: Detail must never include secret material.
type Error struct {
	code   Code
	Detail string
}

// New builds an Error for code, with an optional human-readable detail.
// Policy: every error is fatal to the current verification; callers are not
// expected to retry.
func New(code Code, detail string) *Error {
	return &Error{code: code, Detail: detail}
}

func (e *Error) Code() int { return int(e.code) }

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.code.String()
	}
	return fmt.Sprintf("%s: %s", e.code, e.Detail)
}
