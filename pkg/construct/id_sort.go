package construct

import "sort"

// ResourceIdLess orders ids by namespace, then name. It gives a deterministic order where no other is
// available, such as between resources that do not depend on each other.
func ResourceIdLess(a, b ResourceId) bool {
	if a.Namespace != b.Namespace {
		return a.Namespace < b.Namespace
	}
	return a.Name < b.Name
}

func SortIds(ids []ResourceId) {
	sort.Slice(ids, func(i, j int) bool {
		return ResourceIdLess(ids[i], ids[j])
	})
}
