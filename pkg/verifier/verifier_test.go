package verifier

import (
	"math/big"
	"testing"

	bn254ecc "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/proof"
	"github.com/certen/shroud/pkg/vk"
	"github.com/certen/shroud/pkg/witness"
)

// toyGroth16 builds a self-consistent (VerifyingKey, Proof, PublicWitness)
// triple satisfying e(A,B) = e(alpha,beta)*e(L,gamma)*e(C,delta) for freely
// chosen scalars, solving for C's discrete log rather than running an
// actual circuit (spec.md gives no reference trusted-setup tooling; this
// exercises the verifier's field/group arithmetic against a known-good
// algebraic witness instead).
func toyGroth16(t *testing.T, pubInputs []int64) (*vk.VerifyingKey, *proof.Proof, *witness.PublicWitness) {
	t.Helper()
	g1Gen, g2Gen, _, _ := bn254ecc.Generators()
	r := fr.Modulus()

	alphaS := big.NewInt(5)
	betaS := big.NewInt(7)
	gammaS := big.NewInt(11)
	deltaS := big.NewInt(13)
	aS := big.NewInt(37)
	bS := big.NewInt(41)

	icScalars := make([]*big.Int, len(pubInputs)+1)
	icScalars[0] = big.NewInt(17)
	for i := range pubInputs {
		icScalars[i+1] = big.NewInt(19 + int64(i)*2)
	}

	// L = ic[0] + sum_i ic[i+1] * x_i (mod r)
	lS := new(big.Int).Set(icScalars[0])
	for i, x := range pubInputs {
		term := new(big.Int).Mul(icScalars[i+1], big.NewInt(x))
		lS.Add(lS, term)
	}
	lS.Mod(lS, r)

	// a*b = alpha*beta + L*gamma + C*delta (mod r)  =>  solve for C.
	ab := new(big.Int).Mul(aS, bS)
	alphaBeta := new(big.Int).Mul(alphaS, betaS)
	lGamma := new(big.Int).Mul(lS, gammaS)
	rhs := new(big.Int).Add(alphaBeta, lGamma)
	diff := new(big.Int).Sub(ab, rhs)
	diff.Mod(diff, r)
	deltaInv := new(big.Int).ModInverse(deltaS, r)
	cS := new(big.Int).Mul(diff, deltaInv)
	cS.Mod(cS, r)

	var alpha, l, c, a bn254ecc.G1Affine
	alpha.ScalarMultiplication(&g1Gen, alphaS)
	l.ScalarMultiplication(&g1Gen, lS)
	c.ScalarMultiplication(&g1Gen, cS)
	a.ScalarMultiplication(&g1Gen, aS)

	var beta, gamma, delta, b bn254ecc.G2Affine
	beta.ScalarMultiplication(&g2Gen, betaS)
	gamma.ScalarMultiplication(&g2Gen, gammaS)
	delta.ScalarMultiplication(&g2Gen, deltaS)
	b.ScalarMultiplication(&g2Gen, bS)

	ic := make([]bn254ecc.G1Affine, len(icScalars))
	for i, s := range icScalars {
		ic[i].ScalarMultiplication(&g1Gen, s)
	}
	_ = l // l is only needed to derive cS; the verifier recomputes L itself

	vkey := &vk.VerifyingKey{
		Alpha: alpha,
		Beta:  beta,
		Gamma: gamma,
		Delta: delta,
		IC:    ic,
	}
	p := &proof.Proof{A: a, B: b, C: c}

	values := make([]fr.Element, len(pubInputs))
	for i, x := range pubInputs {
		values[i].SetInt64(x)
	}
	pw := &witness.PublicWitness{Values: values}

	return vkey, p, pw
}

func TestVerifyParsedNoPublicInputsSucceeds(t *testing.T) {
	vkey, p, pw := toyGroth16(t, nil)
	v := New(vkey, nil)
	if err := v.VerifyParsed(p, pw); err != nil {
		t.Fatalf("VerifyParsed: %v", err)
	}
}

func TestVerifyParsedTwoPublicInputsSucceeds(t *testing.T) {
	vkey, p, pw := toyGroth16(t, []int64{3, 9})
	v := New(vkey, nil)
	if err := v.VerifyParsed(p, pw); err != nil {
		t.Fatalf("VerifyParsed: %v", err)
	}
}

func TestVerifyParsedRejectsTamperedC(t *testing.T) {
	vkey, p, pw := toyGroth16(t, []int64{3, 9})
	g1Gen, _, _, _ := bn254ecc.Generators()
	p.C.Add(&p.C, &g1Gen)

	v := New(vkey, nil)
	if err := v.VerifyParsed(p, pw); err == nil {
		t.Fatal("expected verification failure for a tampered C")
	}
}

func TestVerifyParsedRejectsWrongPublicInputLength(t *testing.T) {
	vkey, p, pw := toyGroth16(t, []int64{3, 9})
	pw.Values = pw.Values[:1] // one fewer than the verifying key expects

	v := New(vkey, nil)
	if err := v.VerifyParsed(p, pw); err == nil {
		t.Fatal("expected error for public witness length mismatch")
	}
}

func TestVerifyParsedRejectsMissingCommitmentWhenExpected(t *testing.T) {
	vkey, p, pw := toyGroth16(t, nil)
	vkey.PedersenH2 = []bn254ecc.G2Affine{{}}
	vkey.CommittedIndices = [][]uint64{{}}

	v := New(vkey, nil)
	if err := v.VerifyParsed(p, pw); err == nil {
		t.Fatal("expected error when verifying key requires commitments but proof carries none")
	}
}
