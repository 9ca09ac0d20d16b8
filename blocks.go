// Package blocks implements a category-indexed plugin registry.
//
// Plugins declare a name, category labels and an optional parent
// declaration through a [Descriptor]. A [Registry] keeps instances in
// insertion order, under their unique name, and in one bucket per
// category; labels declared anywhere in a descriptor chain are
// inherited by the extending type, most specific first. A [Module]
// groups type definitions for batch loading, and the script subpackage
// discovers modules from Lua source files on disk.
//
// Usage:
//
//	reg := blocks.New(blocks.WithLogger(logger))
//
//	mod := blocks.NewModule("filters").
//		Define(&blocks.Descriptor{Name: "Markdown", Categories: []string{"markdown"}},
//			func() blocks.Plugin { return &Markdown{} })
//
//	loaded, err := reg.LoadFromModule(mod)
//	matches := reg.FilterByCategories([]string{"markdown"}, false)
package blocks

// Version is the library version; the blocks CLI reports it unless a
// build overrides its own version through ldflags.
const Version = "0.1.0"
