package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// PrintTree outputs the feature hierarchy as an indented tree. JSON output
// prints the forest itself; the text form shows one feature per line with
// resolved owner labels.
func PrintTree(features []*schema.Feature, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, features)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		for _, root := range features {
			if err := writeTreeNode(w, root, 0, cfg.UseColors); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote tree")
}

// writeTreeNode writes one feature line and recurses into its children.
func writeTreeNode(w io.Writer, f *schema.Feature, depth int, useColors bool) error {
	owner := contract.GetOwnerLabel(core.ResolveOwner(f), core.OwnerIsInherited(f), useColors)
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s [%s] %s\n", indent, f.Name, owner, f.Path); err != nil {
		return err
	}
	for _, child := range f.Features {
		if err := writeTreeNode(w, child, depth+1, useColors); err != nil {
			return err
		}
	}
	return nil
}
