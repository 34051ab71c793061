// Package verifier implements the Groth16-over-BN254 verifier core,
// augmented with the Pedersen batched commitment check: the single
// pairing equation e(A,B) = e(alpha,beta)*e(L,gamma)*e(C,delta), where L is
// the linear combination of the verifying key's IC vector against the
// (possibly Pedersen-extended) public witness.
//
// Grounded on spec.md §4.6/§5/§6. The verifier is single-invocation,
// synchronous and stateless (spec.md §5): Verify takes no lock, retains no
// state across calls, and its only shared, read-only input is the
// verifying key.
package verifier

import (
	"log"
	"math/big"

	bn254ecc "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/pedersen"
	"github.com/certen/shroud/pkg/proof"
	"github.com/certen/shroud/pkg/verifyerr"
	"github.com/certen/shroud/pkg/vk"
	"github.com/certen/shroud/pkg/witness"
)

// Verifier binds a single, process-wide verifying key to the Verify
// operation. It carries no other state; concurrent calls to Verify are
// safe since the VK is read-only after construction.
type Verifier struct {
	VK     *vk.VerifyingKey
	Logger *log.Logger
}

// New constructs a Verifier for vkey. Logger may be nil, in which case
// log.Default() is used by anything that logs around the verifier (the
// hot path itself never logs).
func New(vkey *vk.VerifyingKey, logger *log.Logger) *Verifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Verifier{VK: vkey, Logger: logger}
}

// Verify decodes proofBytes and publicWitnessBytes and checks the proof
// against v.VK, returning one of the stable verifyerr codes on failure.
func (v *Verifier) Verify(proofBytes, publicWitnessBytes []byte) error {
	p, err := proof.Parse(proofBytes)
	if err != nil {
		return err
	}
	pw, err := witness.Parse(publicWitnessBytes)
	if err != nil {
		return err
	}
	return v.VerifyParsed(p, pw)
}

// VerifyParsed runs the verification against already-decoded values. The
// ordering is fixed by spec.md §5: canonicality is enforced during
// witness.Parse, then the Pedersen check (whose challenges are appended to
// a copy of pw's values; pw itself is not modified), then the linear
// combination, then the final pairing.
func (v *Verifier) VerifyParsed(p *proof.Proof, pw *witness.PublicWitness) error {
	vkey := v.VK

	var extra []fr.Element
	if len(p.Commitments) > 0 {
		appended, err := pedersen.Check(p, vkey, pw)
		if err != nil {
			return err
		}
		extra = appended
	} else if vkey.NrCommitments() != 0 {
		return verifyerr.New(verifyerr.IncompatibleVkWithNrPubInputs, "verifying key expects Pedersen commitments but proof carries none")
	}

	extended := make([]fr.Element, 0, len(pw.Values)+len(extra))
	extended = append(extended, pw.Values...)
	extended = append(extended, extra...)

	if len(extended) != len(vkey.IC)-1 {
		return verifyerr.New(verifyerr.IncompatibleVkWithNrPubInputs, "public witness length does not match verifying key's IC vector")
	}

	l, err := linearCombination(vkey, extended)
	if err != nil {
		return err
	}

	var negA bn254ecc.G1Affine
	negA.Neg(&p.A)

	g1 := []bn254ecc.G1Affine{negA, vkey.Alpha, *l, p.C}
	g2 := []bn254ecc.G2Affine{p.B, vkey.Beta, vkey.Gamma, vkey.Delta}

	ok, err := bn254ecc.PairingCheck(g1, g2)
	if err != nil {
		return verifyerr.New(verifyerr.CurveOperationError, err.Error())
	}
	if !ok {
		return verifyerr.New(verifyerr.ProofVerificationFailed, "")
	}
	return nil
}

// linearCombination computes L = IC[0] + sum_i x_i * IC[i+1].
func linearCombination(vkey *vk.VerifyingKey, x []fr.Element) (*bn254ecc.G1Affine, error) {
	l := vkey.IC[0]
	for i, xi := range x {
		var scalar big.Int
		xi.BigInt(&scalar)

		var term bn254ecc.G1Affine
		term.ScalarMultiplication(&vkey.IC[i+1], &scalar)
		if !term.IsOnCurve() {
			return nil, verifyerr.New(verifyerr.PreparingInputsG1MulFailed, "")
		}

		var next bn254ecc.G1Affine
		next.Add(&l, &term)
		if !next.IsOnCurve() {
			return nil, verifyerr.New(verifyerr.PreparingInputsG1AdditionFailed, "")
		}
		l = next
	}
	return &l, nil
}
