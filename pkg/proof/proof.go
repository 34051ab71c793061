// Package proof implements the Groth16 proof wire format: A in G1, B in G2,
// C in G1, an optional vector of Pedersen commitments in G1, and a single
// proof-of-knowledge element in G1.
//
// Grounded on spec.md §4.3/§6 for the byte layout, and on
// other_examples/97a492c8 (ParseProof) for the parsing idiom. Unlike the
// Rust original's "leaked boxed commitments" (spec.md §9), Commitments is
// owned inline as a plain slice on the returned Proof value - no lifetime
// trickery.
package proof

import (
	"encoding/binary"

	bn254ecc "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/certen/shroud/pkg/bn254"
	"github.com/certen/shroud/pkg/verifyerr"
)

// Proof is the parsed, in-memory representation of a Groth16 proof, with
// its optional gnark Pedersen commitments owned inline.
type Proof struct {
	A bn254ecc.G1Affine
	B bn254ecc.G2Affine
	C bn254ecc.G1Affine

	Commitments []bn254ecc.G1Affine
	Pok         bn254ecc.G1Affine
}

// Parse decodes a proof from its binary format (spec.md §6). It fails with
// ProofConversionError on any length mismatch, including a declared
// commitment count that does not fit the remaining bytes exactly.
func Parse(data []byte) (*Proof, error) {
	const fixedPrefix = bn254.G1Size + bn254.G2Size + bn254.G1Size // A || B || C
	if len(data) < fixedPrefix+4 {
		return nil, verifyerr.New(verifyerr.ProofConversionError, "proof shorter than fixed prefix")
	}

	p := &Proof{}
	offset := 0
	var err error

	if offset, err = bn254.ReadG1(data, offset, &p.A); err != nil {
		return nil, wrapConversion(err)
	}
	if offset, err = bn254.ReadG2(data, offset, &p.B); err != nil {
		return nil, wrapConversion(err)
	}
	if offset, err = bn254.ReadG1(data, offset, &p.C); err != nil {
		return nil, wrapConversion(err)
	}

	n := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4

	expectedLen := offset + bn254.G1Size*n + bn254.G1Size
	if expectedLen != len(data) {
		return nil, verifyerr.New(verifyerr.ProofConversionError, "proof length does not match declared commitment count")
	}

	if n > 0 {
		p.Commitments = make([]bn254ecc.G1Affine, n)
		for i := 0; i < n; i++ {
			if offset, err = bn254.ReadG1(data, offset, &p.Commitments[i]); err != nil {
				return nil, wrapConversion(err)
			}
		}
	}

	if _, err = bn254.ReadG1(data, offset, &p.Pok); err != nil {
		return nil, wrapConversion(err)
	}

	return p, nil
}

func wrapConversion(err error) error {
	if ve, ok := err.(*verifyerr.Error); ok {
		return ve
	}
	return verifyerr.New(verifyerr.ProofConversionError, err.Error())
}
