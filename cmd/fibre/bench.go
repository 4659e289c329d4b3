package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fibretree/fibre"
	"github.com/fibretree/fibre/pkg/btree"
)

func benchCmd() *cobra.Command {
	var ticks int
	var width int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Micro-benchmark the engine over a synthetic tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(ticks, width)
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 10000, "number of ticks to run")
	cmd.Flags().IntVar(&width, "width", 50, "number of leaves under the synthetic tree's root Sequence")
	return cmd
}

func runBench(ticks, width int) error {
	children := make([]fibre.Descriptor, width)
	for i := 0; i < width; i++ {
		children[i] = &btree.Action{
			Name: fmt.Sprintf("leaf-%d", i),
			Run:  func(ctx *fibre.Ctx) btree.Status { return btree.Success },
		}
	}
	tree := &btree.Sequence{Name: "bench-root", Children: children}

	rt := fibre.NewRuntime(tree)
	start := time.Now()
	for i := 0; i < ticks; i++ {
		rt.Invalidate(rt.Root())
		if err := rt.RunTick(); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("=== fibre bench ===")
	fmt.Printf("ticks:          %d\n", ticks)
	fmt.Printf("width:          %d\n", width)
	fmt.Printf("total elapsed:  %s\n", elapsed)
	fmt.Printf("per tick:       %s\n", elapsed/time.Duration(ticks))
	return nil
}
