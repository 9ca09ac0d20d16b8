package blocks

// Descriptor declares a plugin type: its unique name, the category
// labels it carries directly, and the declaration it extends.
// Descriptors form explicit chains instead of relying on runtime type
// introspection; the root of a chain has a nil Extends.
type Descriptor struct {
	// Name is the registry key for plugins built from this declaration.
	Name string

	// Categories are the labels declared directly on this type, most
	// specific meaning first. The dot character is reserved as the
	// filter composition separator and should not appear in a label.
	Categories []string

	// Extends points at the parent declaration, or nil at the root of
	// the chain.
	Extends *Descriptor
}

// EffectiveCategories flattens the declaration chain into the full
// category set for this type: own labels first, then each ancestor's,
// walking toward the root. A label declared on several levels keeps its
// first (most specific) position. A cycle in the chain terminates the
// walk at the first revisited descriptor.
func (d *Descriptor) EffectiveCategories() []string {
	if d == nil {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	visited := make(map[*Descriptor]struct{})
	for cur := d; cur != nil; cur = cur.Extends {
		if _, ok := visited[cur]; ok {
			break
		}
		visited[cur] = struct{}{}
		for _, c := range cur.Categories {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
