// Package witness implements the public-witness wire format: a 12-byte
// header of three big-endian u32s (count, 0, count) followed by count
// 32-byte big-endian scalar-field elements.
//
// Grounded on spec.md §4.4/§6, and on the channel-fed witness.Fill idiom of
// other_examples/97a492c8 (ParsePublicWitness) for the general shape of
// "parse N big-endian field elements into a witness value" - adapted here
// to gnark-crypto's fr.Element directly rather than gnark's
// backend/witness.Witness, since the verifier core in this module
// hand-rolls the pairing check rather than delegating to gnark's own
// groth16.Verify.
package witness

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/bn254"
	"github.com/certen/shroud/pkg/verifyerr"
)

// HeaderSize is the byte width of the three-u32 header.
const HeaderSize = 12

// PublicWitness is an ordered list of scalar-field elements exposed to the
// verifier.
type PublicWitness struct {
	Values []fr.Element
}

// Parse decodes a public witness from its binary format. The header's two
// count fields must agree and its middle field must be zero; the payload
// length must exactly match the declared count.
func Parse(data []byte) (*PublicWitness, error) {
	if len(data) < HeaderSize {
		return nil, verifyerr.New(verifyerr.PublicWitnessParsingError, "witness shorter than header")
	}
	count := binary.BigEndian.Uint32(data[0:4])
	reserved := binary.BigEndian.Uint32(data[4:8])
	count2 := binary.BigEndian.Uint32(data[8:12])
	if reserved != 0 || count != count2 {
		return nil, verifyerr.New(verifyerr.PublicWitnessParsingError, "malformed header")
	}

	expected := HeaderSize + int(count)*bn254.FieldSize
	if expected != len(data) {
		return nil, verifyerr.New(verifyerr.InvalidPublicInputsLength, "witness length does not match header count")
	}

	values := make([]fr.Element, count)
	offset := HeaderSize
	for i := range values {
		e, err := bn254.ReadFrCanonical(data[offset : offset+bn254.FieldSize])
		if err != nil {
			return nil, err
		}
		values[i] = e
		offset += bn254.FieldSize
	}

	return &PublicWitness{Values: values}, nil
}

// Encode serialises values into the wire format: a 12-byte header followed
// by one 32-byte big-endian slot per element.
func Encode(values []fr.Element) []byte {
	count := len(values)
	out := make([]byte, 0, HeaderSize+count*bn254.FieldSize)

	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(count))
	binary.BigEndian.PutUint32(hdr[4:8], 0)
	binary.BigEndian.PutUint32(hdr[8:12], uint32(count))
	out = append(out, hdr[:]...)

	for i := range values {
		out = bn254.WriteFr(out, &values[i])
	}
	return out
}
