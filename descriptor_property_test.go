package blocks

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var chainLabelPool = []string{"red", "green", "blue", "cyan", "magenta", "yellow"}

// buildChain constructs a descriptor chain of the given depth. The
// labels declared on each level are selected by six bits of mask per
// level, so one (depth, mask) pair describes one exact chain.
func buildChain(depth, mask int) *Descriptor {
	var parent *Descriptor
	for level := depth - 1; level >= 0; level-- {
		bits := (mask >> (level * len(chainLabelPool))) & ((1 << len(chainLabelPool)) - 1)
		var categories []string
		for i, label := range chainLabelPool {
			if bits&(1<<i) != 0 {
				categories = append(categories, label)
			}
		}
		parent = &Descriptor{
			Name:       fmt.Sprintf("Level%d", level),
			Categories: categories,
			Extends:    parent,
		}
	}
	return parent
}

func TestProperty_EffectiveCategories(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("resolution never produces duplicate labels", prop.ForAll(
		func(depth, mask int) bool {
			seen := make(map[string]bool)
			for _, c := range buildChain(depth, mask).EffectiveCategories() {
				if seen[c] {
					t.Logf("duplicate label %q for depth=%d mask=%d", c, depth, mask)
					return false
				}
				seen[c] = true
			}
			return true
		},
		gen.IntRange(1, 5),
		gen.IntRange(0, 1<<30-1),
	))

	properties.Property("resolution covers exactly the declared labels", prop.ForAll(
		func(depth, mask int) bool {
			leaf := buildChain(depth, mask)

			declared := make(map[string]bool)
			for cur := leaf; cur != nil; cur = cur.Extends {
				for _, c := range cur.Categories {
					declared[c] = true
				}
			}

			effective := leaf.EffectiveCategories()
			if len(effective) != len(declared) {
				t.Logf("expected %d labels, got %d for depth=%d mask=%d", len(declared), len(effective), depth, mask)
				return false
			}
			for _, c := range effective {
				if !declared[c] {
					t.Logf("label %q was never declared for depth=%d mask=%d", c, depth, mask)
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 5),
		gen.IntRange(0, 1<<30-1),
	))

	properties.Property("own labels come first in declaration order", prop.ForAll(
		func(depth, mask int) bool {
			leaf := buildChain(depth, mask)
			effective := leaf.EffectiveCategories()

			if len(effective) < len(leaf.Categories) {
				t.Logf("own labels missing for depth=%d mask=%d", depth, mask)
				return false
			}
			for i, c := range leaf.Categories {
				if effective[i] != c {
					t.Logf("expected %q at position %d, got %q", c, i, effective[i])
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 5),
		gen.IntRange(0, 1<<30-1),
	))

	properties.Property("extending keeps every ancestor label reachable", prop.ForAll(
		func(depth, mask int) bool {
			leaf := buildChain(depth, mask)
			if leaf.Extends == nil {
				return true
			}

			child := make(map[string]bool)
			for _, c := range leaf.EffectiveCategories() {
				child[c] = true
			}
			for _, c := range leaf.Extends.EffectiveCategories() {
				if !child[c] {
					t.Logf("ancestor label %q lost for depth=%d mask=%d", c, depth, mask)
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 5),
		gen.IntRange(0, 1<<30-1),
	))

	properties.TestingRun(t)
}
