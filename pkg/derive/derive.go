// Package derive implements the off-chain Poseidon derivations: commitment
// and nullifier computation from a caller's secret, plus the secret-hygiene
// discipline spec.md §9 requires (zero the backing storage on release,
// never log or serialise a secret other than through a hash).
//
// Grounded on spec.md §4.8 and zaffre-prover/src/{commitment.rs,encoding.rs}
// from original_source for the exact algorithm and the little-endian
// byte<->field convention the off-chain side uses (distinct from the
// big-endian convention the on-chain codec in pkg/bn254 uses - this is a
// deliberate asymmetry carried over from the original, not a bug).
//
// The Poseidon permutation itself comes from
// github.com/iden3/go-iden3-crypto, the one Circom-variant Poseidon
// implementation concretely referenced in the retrieval pack's go.mod
// manifests (privacy-ethereum-privacy-precompiles, X-oss-byte-semaphore-mtb).
package derive

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// SecretSize is the byte width of a caller secret.
const SecretSize = 32

// Secret is a 32-byte caller secret. It is owned exclusively by the prover
// host and must never leave it; Zero must be called (typically via defer)
// once the secret is no longer needed.
type Secret [SecretSize]byte

// NewRandomSecret draws a uniformly random Secret.
func NewRandomSecret() (Secret, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return Secret{}, fmt.Errorf("derive: generating secret: %w", err)
	}
	return s, nil
}

// Zero overwrites the secret's backing storage. Call it via defer
// immediately after constructing or receiving a Secret.
func (s *Secret) Zero() {
	for i := range s {
		s[i] = 0
	}
}

// String deliberately does not expose the secret bytes; Secret must never
// be logged or serialised other than via field conversion into a hash.
func (s Secret) String() string { return "derive.Secret(redacted)" }

// fieldFromBytesLE reduces a little-endian byte string modulo the BN254
// scalar field.
func fieldFromBytesLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, x := range b {
		be[len(b)-1-i] = x
	}
	v := new(big.Int).SetBytes(be)
	v.Mod(v, fr.Modulus())
	return v
}

// fieldToBytesLE is the inverse of fieldFromBytesLE: the canonical
// little-endian encoding of a reduced field element.
func fieldToBytesLE(v *big.Int) [32]byte {
	var out [32]byte
	be := v.Bytes()
	for i, x := range be {
		out[len(be)-1-i] = x
	}
	return out
}

// ComputeCommitment computes Poseidon_1(field(secret)), the commitment to
// a caller's secret (spec.md §3/§4.8).
func ComputeCommitment(secret Secret) ([32]byte, error) {
	f := fieldFromBytesLE(secret[:])
	h, err := poseidon.Hash([]*big.Int{f})
	if err != nil {
		return [32]byte{}, fmt.Errorf("derive: hashing commitment: %w", err)
	}
	return fieldToBytesLE(h), nil
}

// ComputeNullifier computes Poseidon_3(field(secret), field(SHA256(program_id)),
// field(action_hash)) (spec.md §3/§4.8).
func ComputeNullifier(secret Secret, programID [32]byte, actionHash [32]byte) ([32]byte, error) {
	programIDHash := sha256.Sum256(programID[:])

	f0 := fieldFromBytesLE(secret[:])
	f1 := fieldFromBytesLE(programIDHash[:])
	f2 := fieldFromBytesLE(actionHash[:])

	h, err := poseidon.Hash([]*big.Int{f0, f1, f2})
	if err != nil {
		return [32]byte{}, fmt.Errorf("derive: hashing nullifier: %w", err)
	}
	return fieldToBytesLE(h), nil
}
