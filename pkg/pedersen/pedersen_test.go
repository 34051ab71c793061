package pedersen

import (
	"math/big"
	"testing"

	bn254ecc "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/bn254"
	"github.com/certen/shroud/pkg/hashfield"
	"github.com/certen/shroud/pkg/proof"
	"github.com/certen/shroud/pkg/vk"
	"github.com/certen/shroud/pkg/witness"
)

// buildSingleCommitment constructs a proof/verifying-key pair carrying one
// Pedersen commitment with no public inputs bound into its challenge (the
// keccak_f1600-style scenario of spec.md §8), satisfying the batched
// pairing equation e(C, H2) * e(Pok, Base) = 1 by solving for Pok's
// discrete log given freely chosen commitment/H2/base scalars.
func buildSingleCommitment(t *testing.T) (*proof.Proof, *vk.VerifyingKey, *witness.PublicWitness, fr.Element) {
	t.Helper()
	g1Gen, g2Gen, _, _ := bn254ecc.Generators()
	r := fr.Modulus()

	commScalar := big.NewInt(77)
	h2Scalar := big.NewInt(88)
	baseScalar := big.NewInt(99)

	var commitment bn254ecc.G1Affine
	commitment.ScalarMultiplication(&g1Gen, commScalar)
	var h2 bn254ecc.G2Affine
	h2.ScalarMultiplication(&g2Gen, h2Scalar)
	var base bn254ecc.G2Affine
	base.ScalarMultiplication(&g2Gen, baseScalar)

	transcript := bn254.WriteG1(nil, &commitment)
	challenge, err := hashfield.HashToField(transcript, []byte(dstCommitment), 1)
	if err != nil {
		t.Fatalf("HashToField: %v", err)
	}

	// pokScalar * baseScalar = -(commScalar * h2Scalar) (mod r)
	prod := new(big.Int).Mul(commScalar, h2Scalar)
	prod.Mod(prod, r)
	prod.Neg(prod)
	prod.Mod(prod, r)
	baseInv := new(big.Int).ModInverse(baseScalar, r)
	pokScalar := new(big.Int).Mul(prod, baseInv)
	pokScalar.Mod(pokScalar, r)

	var pok bn254ecc.G1Affine
	pok.ScalarMultiplication(&g1Gen, pokScalar)

	p := &proof.Proof{
		Commitments: []bn254ecc.G1Affine{commitment},
		Pok:         pok,
	}
	vkey := &vk.VerifyingKey{
		PedersenBase:     base,
		PedersenH2:       []bn254ecc.G2Affine{h2},
		CommittedIndices: [][]uint64{{}},
	}
	pw := &witness.PublicWitness{}

	return p, vkey, pw, challenge[0]
}

func TestCheckSingleCommitmentSucceeds(t *testing.T) {
	p, vkey, pw, wantChallenge := buildSingleCommitment(t)

	appended, err := Check(p, vkey, pw)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(appended) != 1 {
		t.Fatalf("expected 1 appended challenge, got %d", len(appended))
	}
	if !appended[0].Equal(&wantChallenge) {
		t.Fatal("appended challenge does not match the independently recomputed one")
	}
}

func TestCheckNoCommitmentsIsANoOp(t *testing.T) {
	p := &proof.Proof{}
	vkey := &vk.VerifyingKey{}
	pw := &witness.PublicWitness{}

	appended, err := Check(p, vkey, pw)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if appended != nil {
		t.Fatal("expected nil appended slice when there are no commitments")
	}
}

func TestCheckRejectsCommitmentCountMismatch(t *testing.T) {
	p, vkey, pw, _ := buildSingleCommitment(t)
	vkey.PedersenH2 = append(vkey.PedersenH2, vkey.PedersenH2[0])
	vkey.CommittedIndices = append(vkey.CommittedIndices, []uint64{})

	if _, err := Check(p, vkey, pw); err == nil {
		t.Fatal("expected error for commitment count mismatch")
	}
}

func TestCheckRejectsBrokenProofOfKnowledge(t *testing.T) {
	p, vkey, pw, _ := buildSingleCommitment(t)
	// Corrupt Pok so it no longer satisfies the pairing equation.
	g1Gen, _, _, _ := bn254ecc.Generators()
	p.Pok.Add(&p.Pok, &g1Gen)

	if _, err := Check(p, vkey, pw); err == nil {
		t.Fatal("expected error for a broken proof of knowledge")
	}
}

func TestCheckRejectsOutOfRangeCommittedIndex(t *testing.T) {
	p, vkey, _, _ := buildSingleCommitment(t)
	vkey.CommittedIndices[0] = []uint64{1} // no public inputs exist to reference
	pw := &witness.PublicWitness{}

	if _, err := Check(p, vkey, pw); err == nil {
		t.Fatal("expected error for an out-of-range committed index")
	}
}
