package wxr

import "go.uber.org/zap"

// buildCategoryForest rebuilds the parent/child hierarchy of the flat
// category declarations. Pass one indexes every category by Nicename, so a
// child declared before its parent still resolves. Pass two moves each
// category whose Parent names a known Nicename under that parent; roots,
// categories with dangling parents and members of declaration cycles stay
// at the top level. Document order is preserved on every level.
func buildCategoryForest(flat []*Category, log *zap.Logger) []*Category {
	lookup := make(map[string]*Category, len(flat))
	for _, cat := range flat {
		if cat.Nicename == nil {
			continue
		}
		if _, exists := lookup[*cat.Nicename]; exists {
			log.Warn("Duplicate category nicename, last declaration wins", zap.String("nicename", *cat.Nicename))
		}
		lookup[*cat.Nicename] = cat
	}

	forest := make([]*Category, 0, len(flat))
	for _, cat := range flat {
		if cat.Parent != nil {
			if parent, ok := lookup[*cat.Parent]; ok && parent != cat {
				if reachesBack(parent, cat, lookup, len(flat)) {
					// WordPress itself cannot produce this, keep every record visible
					log.Warn("Category parent chain forms a cycle, keeping at top level", zap.Stringp("nicename", cat.Nicename))
				} else {
					parent.Children = append(parent.Children, cat)
					continue
				}
			}
		}
		forest = append(forest, cat)
	}
	return forest
}

// reachesBack reports whether following parent declarations from start
// arrives at target, in which case nesting target under start would detach
// the whole group from the tree. The step limit protects against cycles
// that do not include target.
func reachesBack(start, target *Category, lookup map[string]*Category, limit int) bool {
	for cur := start; cur != nil && limit > 0; limit-- {
		if cur == target {
			return true
		}
		if cur.Parent == nil {
			return false
		}
		cur = lookup[*cur.Parent]
	}
	return false
}
