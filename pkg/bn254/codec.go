// Package bn254 implements the uncompressed, big-endian wire codec for BN254
// group elements and scalar-field elements used throughout the verifier and
// its surrounding protocol. It wraps github.com/consensys/gnark-crypto's
// bn254 package rather than reimplementing curve arithmetic: every addition,
// scalar multiplication and pairing check is delegated to gnark-crypto.
//
// The wire layout is the Solidity/precompile convention also used by the
// gnark-solana original this module is derived from: a G1 point is
// (X || Y), 32 bytes each, big-endian; a G2 point is (X.A1 || X.A0 || Y.A1
// || Y.A0), 32 bytes each, big-endian. Field-element byte order matches
// gnark-crypto's own fp.Element.Bytes()/SetBytes (big-endian, canonical).
package bn254

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/verifyerr"
)

// FieldSize is the byte width of one BN254 base- or scalar-field element.
const FieldSize = 32

// G1Size is the byte width of an uncompressed G1 point.
const G1Size = 2 * FieldSize

// G2Size is the byte width of an uncompressed G2 point.
const G2Size = 4 * FieldSize

// ReadG1 decodes an uncompressed G1 point (X||Y, big-endian) from data at
// offset and returns the offset just past it. It rejects out-of-range
// slices and points not on the curve.
func ReadG1(data []byte, offset int, dst *bn254.G1Affine) (int, error) {
	end := offset + G1Size
	if offset < 0 || end > len(data) {
		return offset, verifyerr.New(verifyerr.InvalidG1Length, "G1 point out of bounds")
	}
	dst.X.SetBytes(data[offset : offset+FieldSize])
	dst.Y.SetBytes(data[offset+FieldSize : end])
	if !isInfinity1(dst) && !dst.IsOnCurve() {
		return offset, verifyerr.New(verifyerr.DecompressingG1Failed, "G1 point not on curve")
	}
	return end, nil
}

// WriteG1 appends the uncompressed encoding of p to dst.
func WriteG1(dst []byte, p *bn254.G1Affine) []byte {
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	dst = append(dst, xb[:]...)
	dst = append(dst, yb[:]...)
	return dst
}

// ReadG2 decodes an uncompressed G2 point (X.A1||X.A0||Y.A1||Y.A0,
// big-endian) from data at offset and returns the offset just past it. It
// rejects out-of-range slices and points that are not on the curve or not
// in the prime-order subgroup.
func ReadG2(data []byte, offset int, dst *bn254.G2Affine) (int, error) {
	end := offset + G2Size
	if offset < 0 || end > len(data) {
		return offset, verifyerr.New(verifyerr.InvalidG2Length, "G2 point out of bounds")
	}
	dst.X.A1.SetBytes(data[offset : offset+FieldSize])
	dst.X.A0.SetBytes(data[offset+FieldSize : offset+2*FieldSize])
	dst.Y.A1.SetBytes(data[offset+2*FieldSize : offset+3*FieldSize])
	dst.Y.A0.SetBytes(data[offset+3*FieldSize : end])
	if !isInfinity2(dst) && (!dst.IsOnCurve() || !dst.IsInSubGroup()) {
		return offset, verifyerr.New(verifyerr.DecompressingG2Failed, "G2 point not on curve or not in subgroup")
	}
	return end, nil
}

// WriteG2 appends the uncompressed encoding of p to dst.
func WriteG2(dst []byte, p *bn254.G2Affine) []byte {
	xa1 := p.X.A1.Bytes()
	xa0 := p.X.A0.Bytes()
	ya1 := p.Y.A1.Bytes()
	ya0 := p.Y.A0.Bytes()
	dst = append(dst, xa1[:]...)
	dst = append(dst, xa0[:]...)
	dst = append(dst, ya1[:]...)
	dst = append(dst, ya0[:]...)
	return dst
}

func isInfinity1(p *bn254.G1Affine) bool {
	return p.X.IsZero() && p.Y.IsZero()
}

func isInfinity2(p *bn254.G2Affine) bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// ReadFrCanonical decodes a 32-byte big-endian scalar-field element and
// rejects values that are not strictly less than the field modulus r
// (spec's "canonical" requirement for public inputs).
func ReadFrCanonical(data []byte) (fr.Element, error) {
	var e fr.Element
	if len(data) != FieldSize {
		return e, verifyerr.New(verifyerr.InvalidPublicInputsLength, "scalar must be 32 bytes")
	}
	if !isCanonicalBE(data) {
		return e, verifyerr.New(verifyerr.PublicInputGreaterThanFieldSize, "")
	}
	e.SetBytes(data)
	return e, nil
}

// isCanonicalBE reports whether the big-endian bytes represent an integer
// strictly less than the BN254 scalar field modulus r.
func isCanonicalBE(data []byte) bool {
	rb := fr.Modulus().Bytes() // r, big-endian
	var padded [FieldSize]byte
	copy(padded[FieldSize-len(rb):], rb)
	for i := 0; i < FieldSize; i++ {
		if data[i] < padded[i] {
			return true
		}
		if data[i] > padded[i] {
			return false
		}
	}
	return false // equal to r is not canonical (must be strictly less)
}

// WriteFr appends the canonical 32-byte big-endian encoding of e to dst.
func WriteFr(dst []byte, e *fr.Element) []byte {
	b := e.Bytes()
	return append(dst, b[:]...)
}
