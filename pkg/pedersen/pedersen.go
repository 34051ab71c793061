// Package pedersen implements gnark's Pedersen ("bsb22") batched
// commitment check: a Fiat-Shamir challenge derived from the commitments
// and the public inputs they cover, followed by a single batched pairing
// equation that either accepts or rejects every commitment at once.
//
// Grounded on spec.md §4.5, with the G1/G2 arithmetic idiom (scalar
// multiplication, accumulation, PairingCheck) following
// other_examples/4325a5f7 (ccoin's Pedersen commitment package) and the
// bn254-crypto usage already established in pkg/bn254.
package pedersen

import (
	"math/big"

	bn254ecc "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/bn254"
	"github.com/certen/shroud/pkg/hashfield"
	"github.com/certen/shroud/pkg/proof"
	"github.com/certen/shroud/pkg/verifyerr"
	"github.com/certen/shroud/pkg/vk"
	"github.com/certen/shroud/pkg/witness"
)

const (
	dstCommitment = "bsb22-commitment"
	dstChallenge  = "G16-BSB22"
)

// Check validates proof.Commitments against vkey's Pedersen parameters. On
// success it returns the per-commitment challenge elements that must be
// appended to the working public witness before the Groth16 linear
// combination runs (spec.md §5: "the Pedersen mutation MUST occur before
// the linear combination"). It returns nil, nil when the proof carries no
// commitments and the verifying key agrees.
func Check(p *proof.Proof, vkey *vk.VerifyingKey, pw *witness.PublicWitness) ([]fr.Element, error) {
	n := len(p.Commitments)
	if n != vkey.NrCommitments() {
		return nil, verifyerr.New(verifyerr.PedersenVerificationError, "commitment count does not match verifying key (CommitmentsLenMismatch)")
	}
	if n == 0 {
		return nil, nil
	}
	if len(vkey.CommittedIndices) != n {
		return nil, verifyerr.New(verifyerr.PedersenVerificationError, "committed-index group count does not match commitment count (CommitmentsLenMismatch)")
	}

	appended := make([]fr.Element, n)
	serializedCommitments := make([]byte, 0, n*bn254.FieldSize)

	for i := 0; i < n; i++ {
		transcript := make([]byte, 0, bn254.G1Size+len(vkey.CommittedIndices[i])*bn254.FieldSize)
		transcript = bn254.WriteG1(transcript, &p.Commitments[i])
		for _, j := range vkey.CommittedIndices[i] {
			if j == 0 || int(j) > len(pw.Values) {
				return nil, verifyerr.New(verifyerr.PedersenVerificationError, "committed index out of range")
			}
			v := pw.Values[j-1]
			transcript = bn254.WriteFr(transcript, &v)
		}

		challenge, err := hashfield.HashToField(transcript, []byte(dstCommitment), 1)
		if err != nil {
			return nil, err
		}
		appended[i] = challenge[0]
		serializedCommitments = bn254.WriteFr(serializedCommitments, &challenge[0])
	}

	rhoSlice, err := hashfield.HashToField(serializedCommitments, []byte(dstChallenge), 1)
	if err != nil {
		return nil, err
	}
	rho := rhoSlice[0]

	g1 := make([]bn254ecc.G1Affine, n+1)
	g2 := make([]bn254ecc.G2Affine, n+1)

	// g1[0]/g2[0] carry an implicit rho^0 = 1 exponent: no scalar
	// multiplication is needed for the first commitment.
	g1[0] = p.Commitments[0]
	g2[0] = vkey.PedersenH2[0]

	rhoPow := new(big.Int).SetInt64(1)
	rhoInt := new(big.Int)
	rho.BigInt(rhoInt)

	for i := 1; i < n; i++ {
		rhoPow.Mul(rhoPow, rhoInt)
		rhoPow.Mod(rhoPow, fr.Modulus())
		g1[i].ScalarMultiplication(&p.Commitments[i], rhoPow)
		g2[i] = vkey.PedersenH2[i]
	}

	g1[n] = p.Pok
	g2[n] = vkey.PedersenBase

	ok, err := bn254ecc.PairingCheck(g1, g2)
	if err != nil {
		return nil, verifyerr.New(verifyerr.CurveOperationError, err.Error())
	}
	if !ok {
		return nil, verifyerr.New(verifyerr.PedersenVerificationError, "batched pairing check failed")
	}

	return appended, nil
}
