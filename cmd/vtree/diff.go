package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/vango-dev/vtree/pkg/memdom"
	"github.com/vango-dev/vtree/pkg/reconcile"
)

var (
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
	changeColor = color.New(color.FgYellow)
	dimColor    = color.New(color.FgHiBlack)
)

func diffCmd() *cobra.Command {
	var (
		showHTML bool
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show the surface operations between two trees",
		Long: `Render OLD, then reconcile NEW against it, and print the surface
operations the second render performed.

Examples:
  vtree diff before.yaml after.yaml
  vtree diff --html before.json after.json`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], showHTML, quiet)
		},
	}

	cmd.Flags().BoolVar(&showHTML, "html", false, "Print a text diff of the rendered markup instead")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the summary line")

	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath string, showHTML, quiet bool) error {
	prev, err := loadTree(oldPath)
	if err != nil {
		return err
	}
	next, err := loadTree(newPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s := newStage(nil)
	if err := s.render(ctx, prev); err != nil {
		return err
	}
	before := s.html()

	s.doc.ResetLog()
	renderErr := s.render(ctx, next)

	out := cmd.OutOrStdout()
	if !quiet {
		if showHTML {
			printHTMLDiff(out, before, s.html())
		} else {
			printMutations(out, s.doc.Mutations())
		}
	}
	printSummary(out, s.renderer.LastStats())
	return renderErr
}

func printMutations(w io.Writer, muts []memdom.Mutation) {
	if len(muts) == 0 {
		dimColor.Fprintln(w, "no changes")
		return
	}
	for _, m := range muts {
		opColor(m.Op).Fprintln(w, m.String())
	}
}

func opColor(op memdom.Op) *color.Color {
	switch op {
	case memdom.OpCreateElement, memdom.OpCreateText, memdom.OpAddListener:
		return addColor
	case memdom.OpRemove, memdom.OpRemoveAttr, memdom.OpRemoveListener:
		return removeColor
	case memdom.OpInsert:
		return dimColor
	default:
		return changeColor
	}
}

// printHTMLDiff prints a line-oriented diff of two markup snapshots.
func printHTMLDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		prefix, c := "  ", dimColor
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, c = "+ ", addColor
		case diffmatchpatch.DiffDelete:
			prefix, c = "- ", removeColor
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			c.Fprintln(w, prefix+line)
		}
	}
}

func printSummary(w io.Writer, st reconcile.Stats) {
	fmt.Fprintf(w, "%d mutations: %d created, %d inserted, %d removed, %d moved, %d replaced, %d text, %d attrs",
		st.Mutations(), st.Created, st.Inserted, st.Removed, st.Moved, st.Replaced,
		st.TextUpdates, st.AttrsSet+st.AttrsRemoved)
	if st.Errors > 0 {
		fmt.Fprintf(w, ", %s", removeColor.Sprintf("%d errors", st.Errors))
	}
	fmt.Fprintln(w)
}
