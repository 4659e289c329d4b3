package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fibretree/fibre"
	"github.com/fibretree/fibre/pkg/btree"
	"github.com/fibretree/fibre/pkg/viztui"
)

func vizCmd() *cobra.Command {
	var treePath string
	var rate time.Duration

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Launch the terminal tree visualizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViz(treePath, rate)
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "YAML behaviour tree to visualize (a demo tree is used if empty)")
	cmd.Flags().DurationVar(&rate, "rate", time.Second, "tick interval")
	return cmd
}

func runViz(treePath string, rate time.Duration) error {
	var root fibre.Descriptor
	if treePath != "" {
		data, err := os.ReadFile(treePath)
		if err != nil {
			return err
		}
		reg := btree.Registry{Env: func(ctx *fibre.Ctx) map[string]any { return map[string]any{} }}
		root, err = btree.ParseTree(data, reg)
		if err != nil {
			return err
		}
	} else {
		root = demoTree()
	}

	rt := fibre.NewRuntime(root)
	obs, updates := viztui.NewObserver(8)
	rt.AddTickObserver(obs)

	go func() {
		ticker := time.NewTicker(rate)
		defer ticker.Stop()
		for range ticker.C {
			if err := rt.RunTick(); err != nil {
				fmt.Fprintln(os.Stderr, "tick:", err)
			}
		}
	}()

	p := tea.NewProgram(viztui.New(updates))
	_, err := p.Run()
	return err
}

func demoTree() fibre.Descriptor {
	return &btree.Sequence{Name: "demo", Children: []fibre.Descriptor{
		&btree.Action{Name: "step_one", Run: func(ctx *fibre.Ctx) btree.Status { return btree.Success }},
		&btree.Action{Name: "step_two", Run: func(ctx *fibre.Ctx) btree.Status { return btree.Running }},
	}}
}
