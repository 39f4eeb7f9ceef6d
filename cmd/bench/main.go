package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/folio/pkg/adapters/fs"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark workspace after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "folio_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d notes in %s...\n", *count, benchDir)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		content := fmt.Sprintf("---\ntitle: Note %d\ntags: [benchmark, test]\n---\n\n# Benchmark Note %d\nThis is a test note.\n", i, i)
		filename := filepath.Join(benchDir, fmt.Sprintf("note_%d.md", i))
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	// Run 1: full parse, writes .folio/index.json
	store := fs.NewStore(fs.Config{Root: benchDir, Logger: logger})
	fmt.Println("Running List (Run 1 - Cold)...")
	startList := time.Now()
	list, err := store.List(ctx)
	if err != nil {
		panic(err)
	}
	cold := time.Since(startList)
	fmt.Printf("Run 1 Result: %v (Items: %d)\n", cold, len(list))

	// Run 2: a new store, as a new CLI run would open
	store2 := fs.NewStore(fs.Config{Root: benchDir, Logger: logger})
	fmt.Println("Running Summaries (Run 2 - Warm)...")
	startSum := time.Now()
	summaries, err := store2.Summaries(ctx)
	if err != nil {
		panic(err)
	}
	warm := time.Since(startSum)
	fmt.Printf("Run 2 Result: %v (Items: %d)\n", warm, len(summaries))

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  Cold List:      %v\n", cold)
	fmt.Printf("  Warm Summaries: %v\n", warm)
	fmt.Printf("--------------------------------------------------\n")
}
