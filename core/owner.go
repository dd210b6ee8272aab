package core

import "github.com/featuremap/featuremap/schema"

// ResolveOwner returns the effective owner of a feature. A feature with an
// explicit owner keeps it; otherwise the nearest ancestor with an explicit
// owner wins; a rootless, ownerless feature resolves to the Unknown
// sentinel. The recursion is bounded by tree depth since the forest is
// acyclic by construction.
func ResolveOwner(f *schema.Feature) string {
	if f == nil {
		return schema.UnknownOwner
	}
	if ownerSet(f.Owner) {
		return f.Owner
	}
	if f.Parent != nil {
		return ResolveOwner(f.Parent)
	}
	return schema.UnknownOwner
}

// OwnerIsInherited reports whether the feature's effective owner came from
// an ancestor rather than the feature itself. Callers use it to render the
// inherited indicator next to the owner.
func OwnerIsInherited(f *schema.Feature) bool {
	if f == nil || ownerSet(f.Owner) {
		return false
	}
	return ResolveOwner(f) != schema.UnknownOwner
}

func ownerSet(owner string) bool {
	return owner != "" && owner != schema.UnknownOwner
}
