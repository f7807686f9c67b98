package permission

import (
	"fmt"

	"github.com/kinderhub/kinderhub/internal/shared/utils/setutil"
)

type ConflictKind string

const (
	// ConflictMutualExclusion: the candidate declares a held permission's code
	// in its conflict list.
	ConflictMutualExclusion ConflictKind = "mutual_exclusion"
	// ConflictRedundantChild: an ancestor of the candidate is already held.
	ConflictRedundantChild ConflictKind = "redundant_child"
	// ConflictRedundantParent: a descendant of the candidate is already held.
	ConflictRedundantParent ConflictKind = "redundant_parent"
)

type Conflict struct {
	Kind                 ConflictKind
	CheckingPermissionID uint
	CheckingPermission   string
	ConflictPermissionID uint
	ConflictPermission   string
	Reason               string
}

// DetectConflicts checks each candidate the role does not already hold
// against the role's current grants. The result is advisory; an empty slice
// means no conflicts. Conflict declarations are one-directional: only the
// candidate's own conflict codes are consulted.
func DetectConflicts(g *Graph, held *setutil.UintSet, candidates []uint) ([]Conflict, error) {
	conflicts := make([]Conflict, 0)

	for _, id := range candidates {
		if held.Has(id) {
			continue
		}
		p, ok := g.Get(id)
		if !ok {
			continue
		}

		for _, code := range p.ConflictCodes() {
			other, ok := g.ByCode(code)
			if !ok || !held.Has(other.ID()) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Kind:                 ConflictMutualExclusion,
				CheckingPermissionID: p.ID(),
				CheckingPermission:   p.Name(),
				ConflictPermissionID: other.ID(),
				ConflictPermission:   other.Name(),
				Reason:               fmt.Sprintf("permission %q is mutually exclusive with assigned permission %q", p.Name(), other.Name()),
			})
		}

		ancestors, err := g.Ancestors(id)
		if err != nil {
			return nil, err
		}
		for _, aid := range ancestors {
			if !held.Has(aid) {
				continue
			}
			anc, _ := g.Get(aid)
			conflicts = append(conflicts, Conflict{
				Kind:                 ConflictRedundantChild,
				CheckingPermissionID: p.ID(),
				CheckingPermission:   p.Name(),
				ConflictPermissionID: anc.ID(),
				ConflictPermission:   anc.Name(),
				Reason:               fmt.Sprintf("parent permission %q is already assigned, child permission %q is redundant", anc.Name(), p.Name()),
			})
		}

		descendants, err := g.Descendants(id)
		if err != nil {
			return nil, err
		}
		for _, did := range descendants {
			if !held.Has(did) {
				continue
			}
			desc, _ := g.Get(did)
			conflicts = append(conflicts, Conflict{
				Kind:                 ConflictRedundantParent,
				CheckingPermissionID: p.ID(),
				CheckingPermission:   p.Name(),
				ConflictPermissionID: desc.ID(),
				ConflictPermission:   desc.Name(),
				Reason:               fmt.Sprintf("child permission %q is already assigned, assigning parent permission %q is redundant", desc.Name(), p.Name()),
			})
		}
	}

	return conflicts, nil
}

// Expand returns the permission ids conferred by a set of grants: every
// granted id, plus the descendants of grants marked as inheriting.
func Expand(g *Graph, grants []*RolePermission) (*setutil.UintSet, error) {
	out := setutil.NewUintSet()
	for _, gr := range grants {
		out.Add(gr.PermissionID)
		if !gr.Inherit {
			continue
		}
		desc, err := g.Descendants(gr.PermissionID)
		if err != nil {
			return nil, err
		}
		out.AddAll(desc)
	}
	return out, nil
}
