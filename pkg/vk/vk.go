// Package vk implements the Groth16 verifying-key wire format: deserialise
// and represent alpha*G1, beta*G2, gamma*G2, delta*G2, the IC vector, and
// the gnark Pedersen ("bsb22") commitment parameters that ride alongside
// it.
//
// Grounded on the field order and shape described in spec.md §4.2/§6, and
// on the Go parsing idiom (offset-advancing ParseG1/ParseG2, a for-range
// loop filling a preallocated IC slice) of
// other_examples/97a492c8 (ParseVerifyingKey).
package vk

import (
	"encoding/binary"

	bn254ecc "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/certen/shroud/pkg/bn254"
	"github.com/certen/shroud/pkg/verifyerr"
)

// VerifyingKey is the parsed, in-memory representation of a gnark Groth16
// verifying key for BN254, including its optional Pedersen commitment
// parameters.
type VerifyingKey struct {
	Alpha bn254ecc.G1Affine
	Beta  bn254ecc.G2Affine
	Gamma bn254ecc.G2Affine
	Delta bn254ecc.G2Affine

	// IC holds nr_pubinputs+1+len(PedersenH2) elements: IC[0] is the
	// constant term, IC[1:nr_pubinputs+1] the per-public-input terms, and
	// the tail the per-commitment terms appended by the Pedersen check.
	IC []bn254ecc.G1Affine

	// PedersenBase is the G2 base shared by every pedersen_params entry.
	// Zero-valued (identity) when there are no commitments.
	PedersenBase bn254ecc.G2Affine
	// PedersenH2 holds one G2 element per Pedersen commitment.
	PedersenH2 []bn254ecc.G2Affine
	// CommittedIndices[i] lists the 1-based public-witness positions
	// hashed into commitment i's Fiat-Shamir challenge.
	CommittedIndices [][]uint64
}

// NrPubInputs is the count of ordinary (non-commitment) public inputs the
// circuit exposes, i.e. len(IC)-1 less the commitment count.
func (vk *VerifyingKey) NrPubInputs() int {
	return len(vk.IC) - 1 - len(vk.PedersenH2)
}

// NrCommitments is the number of Pedersen commitments the proof must carry.
func (vk *VerifyingKey) NrCommitments() int {
	return len(vk.PedersenH2)
}

// Parse decodes a verifying key from its binary format (spec.md §6).
func Parse(data []byte) (*VerifyingKey, error) {
	vkey := &VerifyingKey{}
	offset := 0
	var err error

	if offset, err = bn254.ReadG1(data, offset, &vkey.Alpha); err != nil {
		return nil, err
	}
	if offset, err = bn254.ReadG2(data, offset, &vkey.Beta); err != nil {
		return nil, err
	}
	if offset, err = bn254.ReadG2(data, offset, &vkey.Gamma); err != nil {
		return nil, err
	}
	if offset, err = bn254.ReadG2(data, offset, &vkey.Delta); err != nil {
		return nil, err
	}

	icLen, offset2, err := readU32(data, offset)
	if err != nil {
		return nil, err
	}
	offset = offset2
	if icLen == 0 {
		return nil, verifyerr.New(verifyerr.SerializationError, "IC vector must have at least one element")
	}
	vkey.IC = make([]bn254ecc.G1Affine, icLen)
	for i := range vkey.IC {
		if offset, err = bn254.ReadG1(data, offset, &vkey.IC[i]); err != nil {
			return nil, err
		}
	}

	pedersenLen, offset3, err := readU32(data, offset)
	if err != nil {
		return nil, err
	}
	offset = offset3
	if pedersenLen > 0 {
		vkey.PedersenH2 = make([]bn254ecc.G2Affine, pedersenLen)
		for i := 0; i < pedersenLen; i++ {
			var base bn254ecc.G2Affine
			if offset, err = bn254.ReadG2(data, offset, &base); err != nil {
				return nil, err
			}
			if i == 0 {
				vkey.PedersenBase = base
			} else if !base.Equal(&vkey.PedersenBase) {
				return nil, verifyerr.New(verifyerr.PedersenVerificationError, "pedersen_params share a common G2 base but one differed (SharedG2Mismatch)")
			}
			if offset, err = bn254.ReadG2(data, offset, &vkey.PedersenH2[i]); err != nil {
				return nil, err
			}
		}
	}

	groupCount, offset4, err := readU32(data, offset)
	if err != nil {
		return nil, err
	}
	offset = offset4
	vkey.CommittedIndices = make([][]uint64, groupCount)
	for i := 0; i < groupCount; i++ {
		n, off, err := readU32(data, offset)
		if err != nil {
			return nil, err
		}
		offset = off
		group := make([]uint64, n)
		for j := 0; j < n; j++ {
			if offset+8 > len(data) {
				return nil, verifyerr.New(verifyerr.SerializationError, "truncated committed index")
			}
			group[j] = binary.BigEndian.Uint64(data[offset : offset+8])
			offset += 8
		}
		vkey.CommittedIndices[i] = group
	}

	if groupCount != pedersenLen {
		return nil, verifyerr.New(verifyerr.IncompatibleVkWithNrPubInputs, "committed-index group count does not match pedersen_params count")
	}

	return vkey, nil
}

func readU32(data []byte, offset int) (int, int, error) {
	if offset+4 > len(data) {
		return 0, offset, verifyerr.New(verifyerr.SerializationError, "truncated length prefix")
	}
	return int(binary.BigEndian.Uint32(data[offset : offset+4])), offset + 4, nil
}
