package sanitize

import (
	"strconv"
	"strings"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/merge"
	"github.com/aellingwood/linkforge/internal/schema"
)

// Prune returns a copy of the candidate document with every field named by
// an error issue removed, so that merging the result onto the defaults
// replaces exactly the untrusted fields. An error anywhere inside a link
// drops that whole link; a link-count error keeps the first
// config.MaxLinks links. If no link survives, the links key is removed.
// Warnings are ignored and doc is not modified.
func Prune(doc map[string]any, issues []schema.Issue) map[string]any {
	out := merge.Clone(doc)
	if out == nil {
		return map[string]any{}
	}

	dropLinks := make(map[int]bool)
	truncate := false

	for _, is := range issues {
		if is.Field == "" {
			continue
		}
		segs := strings.Split(is.Field, ".")
		if segs[0] == "links" {
			switch {
			case len(segs) == 1 && is.Code == schema.CodeCount:
				truncate = true
			case len(segs) == 1:
				delete(out, "links")
			default:
				if i, err := strconv.Atoi(segs[1]); err == nil {
					dropLinks[i] = true
				} else {
					delete(out, "links")
				}
			}
			continue
		}
		deletePath(out, segs)
	}

	if links, ok := out["links"].([]any); ok && (len(dropLinks) > 0 || truncate) {
		kept := make([]any, 0, len(links))
		for i, l := range links {
			if !dropLinks[i] {
				kept = append(kept, l)
			}
		}
		if len(kept) > config.MaxLinks {
			kept = kept[:config.MaxLinks]
		}
		if len(kept) == 0 {
			delete(out, "links")
		} else {
			out["links"] = kept
		}
	}

	return out
}

// deletePath removes the value at segs. When an intermediate value is not a
// map, the whole subtree at that point is removed.
func deletePath(doc map[string]any, segs []string) {
	cur := doc
	for i, seg := range segs {
		if i == len(segs)-1 {
			delete(cur, seg)
			return
		}
		next, ok := cur[seg].(map[string]any)
		if !ok {
			delete(cur, seg)
			return
		}
		cur = next
	}
}
