// Command shroud-nulld is the supplemental nullifier-store service: it
// owns the Postgres-backed record store (pkg/nullifier) a Guard-adjacent
// host consults to enforce the Unknown -> Spent(slot) state machine
// (spec.md §4.7/§9) outside of the ledger runtime itself.
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
	"github.com/certen/shroud/pkg/nullifier"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	args := flag.Args()

	logger := log.New(os.Stderr, "[shroud-nulld] ", log.LstdFlags)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		logger.Fatalf("loading config: %v", err)
	}

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: shroud-nulld [-config path] <spend|status> <nullifier_hex> [slot]")
		os.Exit(2)
	}

	if err := run(logger, cfg, args); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(logger *log.Logger, cfg *config.Config, args []string) error {
	store, err := nullifier.Open(cfg.Store.DataSourceName, nullifier.WithLogger(logger))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	nullifierBytes, err := hex.DecodeString(args[1])
	if err != nil || len(nullifierBytes) != nullifier.Size {
		return fmt.Errorf("nullifier_hex must be a 32-byte hex string")
	}
	var n [nullifier.Size]byte
	copy(n[:], nullifierBytes)

	switch args[0] {
	case "spend":
		if len(args) < 3 {
			return fmt.Errorf("spend requires a slot argument")
		}
		slot, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing slot: %w", err)
		}
		if err := store.TrySpend(ctx, n, slot); err != nil {
			return err
		}
		fmt.Printf("spent at slot %d\n", slot)
	case "status":
		slot, spent, err := store.SpentSlot(ctx, n)
		if err != nil {
			return err
		}
		if spent {
			fmt.Printf("spent at slot %d\n", slot)
		} else {
			fmt.Println("unspent")
		}
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
