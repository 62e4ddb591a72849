// SPDX-License-Identifier: MPL-2.0

package modulelist

type (
	// Group is an ordered run of module names inside a layer.
	Group []string

	// Layer holds modules whose dependencies all sit in earlier layers.
	Layer []Group

	// LoadTree is the ordered sequence of layers produced by GenerateTree.
	// Walk it layer by layer, group by group, module by module.
	LoadTree []Layer
)

// Flatten returns every module name in walk order.
func (t LoadTree) Flatten() []string {
	var names []string
	for _, layer := range t {
		for _, group := range layer {
			names = append(names, group...)
		}
	}
	return names
}

// LayerOf returns the index of the layer holding name, or -1.
func (t LoadTree) LayerOf(name string) int {
	for i, layer := range t {
		for _, group := range layer {
			for _, n := range group {
				if n == name {
					return i
				}
			}
		}
	}
	return -1
}

// Len returns the number of modules in the tree.
func (t LoadTree) Len() int {
	n := 0
	for _, layer := range t {
		for _, group := range layer {
			n += len(group)
		}
	}
	return n
}
