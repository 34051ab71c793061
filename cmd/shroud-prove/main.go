// Command shroud-prove is the off-chain derivation CLI described in
// spec.md §6: circuit_dir program_id_hex pda_hex value_u64 nonce_u64
// [secret_hex|random], emitting commitment_hex, program_id_hex, pda_hex,
// value, nonce, nullifier_hex, proof_path, public_witness_path.
//
// Grounded on zaffre-prover/src/bin/zaffre_prove.rs from original_source
// for the exact argument order and output shape.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/certen/shroud/pkg/config"
	"github.com/certen/shroud/pkg/derive"
	"github.com/certen/shroud/pkg/prover"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 5 || len(args) > 6 {
		fmt.Fprintln(os.Stderr, "usage: shroud-prove circuit_dir program_id_hex pda_hex value_u64 nonce_u64 [secret_hex|random]")
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "[shroud-prove] ", log.LstdFlags)

	if err := run(logger, args); err != nil {
		logger.Fatalf("proof generation failed: %v", err)
	}
}

func run(logger *log.Logger, args []string) error {
	circuitDir := args[0]
	programID, err := decodeHex32(args[1])
	if err != nil {
		return fmt.Errorf("parsing program_id_hex: %w", err)
	}
	pda, err := decodeHex32(args[2])
	if err != nil {
		return fmt.Errorf("parsing pda_hex: %w", err)
	}
	value, err := strconv.ParseUint(args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing value_u64: %w", err)
	}
	nonce, err := strconv.ParseUint(args[4], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing nonce_u64: %w", err)
	}

	var secret derive.Secret
	if len(args) == 6 && args[5] != "random" {
		secret, err = decodeHex32(args[5])
		if err != nil {
			return fmt.Errorf("parsing secret_hex: %w", err)
		}
	} else {
		secret, err = derive.NewRandomSecret()
		if err != nil {
			return fmt.Errorf("generating secret: %w", err)
		}
	}
	defer secret.Zero()

	cfg := config.Default().Prover
	cfg.CircuitDir = circuitDir
	orch := prover.New(cfg, logger)

	var discriminator [8]byte
	copy(discriminator[:], "setvalue")

	result, err := orch.GenerateProof(context.Background(), prover.Request{
		ProgramID:     programID,
		ResourceID:    pda,
		Discriminator: discriminator,
		Value:         value,
		Nonce:         nonce,
		Secret:        secret,
	})
	if err != nil {
		return err
	}

	fmt.Printf("commitment_hex=%s\n", hex.EncodeToString(result.Commitment[:]))
	fmt.Printf("program_id_hex=%s\n", hex.EncodeToString(result.ProgramID[:]))
	fmt.Printf("pda_hex=%s\n", hex.EncodeToString(result.ResourceID[:]))
	fmt.Printf("value=%d\n", result.Value)
	fmt.Printf("nonce=%d\n", result.Nonce)
	fmt.Printf("nullifier_hex=%s\n", hex.EncodeToString(result.Nullifier[:]))
	fmt.Printf("proof_path=%s\n", result.ProofPath)
	fmt.Printf("public_witness_path=%s\n", result.PublicWitnessPath)
	return nil
}

func decodeHex32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}
