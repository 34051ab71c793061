// Package action implements the action-binding protocol: the 160-byte raw
// public-input layout (commitment || resource_id || program_id ||
// action_hash || nullifier), its packing into/out of a public witness, the
// action-hash computation, and the guard-side binding checks a host
// performs before treating a verified proof as authorising an effect.
//
// Grounded on spec.md §4.7/§3, and on zaffre-core/src/{types.rs,encoding.rs}
// from original_source for the exact field ordering and the action-hash
// domain separation (SHA256 over program_id || resource_id ||
// discriminator || params || nonce_le).
package action

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/verifyerr"
	"github.com/certen/shroud/pkg/witness"
)

// RawSize is the length of the unencoded action-binding payload.
const RawSize = 160

// MaxActionParamsSize is the largest action_params blob the action hash
// accepts (spec.md §3/§8).
const MaxActionParamsSize = 32

// RawPublicInputs is the typed view over the 160-byte action-binding
// payload. Field order matches spec.md §3 exactly and must not change: it
// is the wire contract between prover and guard.
type RawPublicInputs struct {
	Commitment [32]byte
	ResourceID [32]byte
	ProgramID  [32]byte
	ActionHash [32]byte
	Nullifier  [32]byte
}

// Pack concatenates the five fields into the 160-byte raw payload.
func (r RawPublicInputs) Pack() [RawSize]byte {
	var out [RawSize]byte
	copy(out[0:32], r.Commitment[:])
	copy(out[32:64], r.ResourceID[:])
	copy(out[64:96], r.ProgramID[:])
	copy(out[96:128], r.ActionHash[:])
	copy(out[128:160], r.Nullifier[:])
	return out
}

// Unpack splits a 160-byte raw payload back into its named fields.
func Unpack(raw [RawSize]byte) RawPublicInputs {
	var r RawPublicInputs
	copy(r.Commitment[:], raw[0:32])
	copy(r.ResourceID[:], raw[32:64])
	copy(r.ProgramID[:], raw[64:96])
	copy(r.ActionHash[:], raw[96:128])
	copy(r.Nullifier[:], raw[128:160])
	return r
}

// ToWitness expands the 160-byte raw payload into a public witness of 160
// field elements, each a single raw byte zero-extended into its 32-byte
// slot (spec.md §4.4 encode).
func ToWitness(raw [RawSize]byte) *witness.PublicWitness {
	values := make([]fr.Element, RawSize)
	for i, b := range raw {
		values[i].SetUint64(uint64(b))
	}
	return &witness.PublicWitness{Values: values}
}

// FromWitness is the inverse of ToWitness. Per spec.md §9's Open Question,
// it replicates the reference decoder's leniency: only the low byte of
// each field element's canonical big-endian encoding is read, and the 31
// leading bytes are not checked for zero. Stricter validation is a
// documented behavioural divergence the reference does not exhibit.
func FromWitness(pw *witness.PublicWitness) ([RawSize]byte, error) {
	var raw [RawSize]byte
	if len(pw.Values) != RawSize {
		return raw, verifyerr.New(verifyerr.InvalidPublicInputsLength, "action-binding witness must carry exactly 160 entries")
	}
	for i := range pw.Values {
		b := pw.Values[i].Bytes() // canonical 32-byte big-endian array
		raw[i] = b[31]
	}
	return raw, nil
}

// ComputeActionHash computes SHA256(program_id || resource_id ||
// discriminator || params || nonce_le), rejecting params longer than
// MaxActionParamsSize (spec.md §3/§8).
func ComputeActionHash(programID, resourceID [32]byte, discriminator [8]byte, params []byte, nonce uint64) ([32]byte, error) {
	var out [32]byte
	if len(params) > MaxActionParamsSize {
		return out, verifyerr.New(verifyerr.SerializationError, "action params exceed 32 bytes")
	}

	h := sha256.New()
	h.Write(programID[:])
	h.Write(resourceID[:])
	h.Write(discriminator[:])
	h.Write(params)
	var nonceLE [8]byte
	binary.LittleEndian.PutUint64(nonceLE[:], nonce)
	h.Write(nonceLE[:])

	copy(out[:], h.Sum(nil))
	return out, nil
}

// BindingError describes which part of the guard-side binding check
// failed.
type BindingError struct {
	Reason string
}

func (e *BindingError) Error() string { return "action binding check failed: " + e.Reason }

// CheckBinding recomputes the action hash from the declared action context
// and compares it, along with resource_id and program_id, against the raw
// public inputs extracted from a verified proof's witness (spec.md §4.7
// steps 1-2). The nullifier field is intentionally left untouched: callers
// consult pkg/nullifier for spend-state, treating it as opaque here.
func CheckBinding(raw RawPublicInputs, programID, resourceID [32]byte, discriminator [8]byte, params []byte, nonce uint64) error {
	want, err := ComputeActionHash(programID, resourceID, discriminator, params, nonce)
	if err != nil {
		return err
	}
	if raw.ActionHash != want {
		return &BindingError{Reason: "action hash mismatch"}
	}
	if raw.ResourceID != resourceID {
		return &BindingError{Reason: "resource id mismatch"}
	}
	if raw.ProgramID != programID {
		return &BindingError{Reason: "program id mismatch"}
	}
	return nil
}

// ResourceSeed and NullifierSeed return the seed bytes a host's own
// find_program_address-style search would consume alongside program_id
// (passed to that search separately, never baked into the seed itself).
// Actual PDA derivation (bump search against the curve) is the host
// ledger runtime's job and is out of scope here (spec.md §1); only the
// deterministic seed construction is supplemental material worth
// carrying, matching original_source's zaffre-core/src/pda.rs exactly:
// ZAFFRE_SEED_PREFIX || commitment for the resource seed,
// NULLIFIER_SEED_PREFIX || nullifier for the nullifier seed - both
// keyed off the commitment/nullifier, never the program id.
const (
	resourceSeedPrefix  = "zaffre"
	nullifierSeedPrefix = "nullifier"
)

// ResourceSeed builds the seed bytes for a resource's program-derived
// address: prefix || commitment bytes.
func ResourceSeed(commitment [32]byte) []byte {
	seed := make([]byte, 0, len(resourceSeedPrefix)+32)
	seed = append(seed, resourceSeedPrefix...)
	seed = append(seed, commitment[:]...)
	return seed
}

// NullifierSeed builds the seed bytes for a nullifier's program-derived
// address: prefix || nullifier bytes.
func NullifierSeed(nullifier [32]byte) []byte {
	seed := make([]byte, 0, len(nullifierSeedPrefix)+32)
	seed = append(seed, nullifierSeedPrefix...)
	seed = append(seed, nullifier[:]...)
	return seed
}

// DemoPrepareIsInsecure documents, rather than implements, the demo
// program's Prepare instruction (spec.md §9): it accepts an arbitrary
// commitment/nullifier from any payer and establishes empty accounts. That
// is acceptable for a demo and not generalisable to production. The demo
// program itself (Solana account plumbing) is out of scope for this
// module; this constant exists only so the caveat is not lost.
const DemoPrepareIsInsecure = true
