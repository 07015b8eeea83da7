package document

// Merge combines base and overlay into a new node without mutating either.
// Semantics:
//   - map vs map: key union; keys present in both merge recursively
//   - any sequence: overlay replaces base wholesale
//   - scalars or mismatched types: overlay wins
//   - a nil (absent) overlay never overwrites a present base value
//
// Merge is pure and total: it never fails for well-formed nodes.
func Merge(base, overlay Node) Node {
	if overlay == nil {
		return Clone(base)
	}
	if base == nil {
		return Clone(overlay)
	}
	baseMap, baseIsMap := base.(Map)
	overlayMap, overlayIsMap := overlay.(Map)
	if !baseIsMap || !overlayIsMap {
		return Clone(overlay)
	}
	out := make(Map, len(baseMap)+len(overlayMap))
	for k, child := range baseMap {
		out[k] = Clone(child)
	}
	for k, child := range overlayMap {
		if existing, ok := out[k]; ok {
			out[k] = Merge(existing, child)
			continue
		}
		out[k] = Clone(child)
	}
	return out
}

// MergeAll folds layers left to right, later layers taking precedence.
func MergeAll(layers ...Node) Node {
	var out Node
	for _, layer := range layers {
		out = Merge(out, layer)
	}
	return out
}
