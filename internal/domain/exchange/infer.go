package exchange

import (
	"encoding/json"
	"sort"
	"strings"
)

const (
	// MaxIdentifierKeys caps the identifier-key set per registry entry.
	MaxIdentifierKeys = 8
	// MaxArrayPaths caps the array-path set per registry entry.
	MaxArrayPaths = 8

	maxWalkDepth   = 4
	maxArrayFanOut = 5
)

// identifierPriority ranks historically important identifier keys ahead of
// whatever else happens to end in "id".
var identifierPriority = map[string]int{
	"offer_id":       0,
	"product_id":     1,
	"sku":            2,
	"warehouse_id":   3,
	"posting_number": 4,
}

// InferIdentifierKeys finds up to MaxIdentifierKeys identifier-like field
// names in a JSON payload: keys ending in "id" plus a fixed set of known
// identifier names, ranked by the priority table and then by frequency.
func InferIdentifierKeys(payload []byte) []string {
	root, ok := decodeJSON(payload)
	if !ok {
		return nil
	}
	counts := make(map[string]int)
	countIdentifierKeys(root, counts, 0)
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := identifierRank(keys[i]), identifierRank(keys[j])
		if pi != pj {
			return pi < pj
		}
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > MaxIdentifierKeys {
		keys = keys[:MaxIdentifierKeys]
	}
	return keys
}

func identifierRank(key string) int {
	if p, ok := identifierPriority[key]; ok {
		return p
	}
	return len(identifierPriority)
}

func isIdentifierKey(key string) bool {
	lower := strings.ToLower(key)
	if strings.HasSuffix(lower, "id") {
		return true
	}
	switch lower {
	case "sku", "offer_id", "warehouse_id", "posting_number":
		return true
	}
	return false
}

func countIdentifierKeys(node any, counts map[string]int, depth int) {
	if depth > maxWalkDepth {
		return
	}
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			if isIdentifierKey(key) {
				counts[strings.ToLower(key)]++
			}
			countIdentifierKeys(child, counts, depth+1)
		}
	case []any:
		limit := len(v)
		if limit > maxArrayFanOut {
			limit = maxArrayFanOut
		}
		for i := 0; i < limit; i++ {
			countIdentifierKeys(v[i], counts, depth+1)
		}
	}
}

// InferArrayPaths walks a JSON payload breadth-first and records up to
// MaxArrayPaths dotted paths leading to arrays that contain objects. The
// walk is depth-capped and inspects only the first few elements of each
// array.
func InferArrayPaths(payload []byte) []string {
	root, ok := decodeJSON(payload)
	if !ok {
		return nil
	}
	type queued struct {
		node  any
		path  string
		depth int
	}
	paths := make([]string, 0, MaxArrayPaths)
	seen := make(map[string]struct{})
	queue := []queued{{node: root}}
	for len(queue) > 0 && len(paths) < MaxArrayPaths {
		item := queue[0]
		queue = queue[1:]
		if item.depth > maxWalkDepth {
			continue
		}
		switch v := item.node.(type) {
		case map[string]any:
			keys := make([]string, 0, len(v))
			for key := range v {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				path := key
				if item.path != "" {
					path = item.path + "." + key
				}
				queue = append(queue, queued{node: v[key], path: path, depth: item.depth + 1})
			}
		case []any:
			if item.path != "" && arrayBearsObjects(v) {
				if _, ok := seen[item.path]; !ok {
					seen[item.path] = struct{}{}
					paths = append(paths, item.path)
				}
			}
			limit := len(v)
			if limit > maxArrayFanOut {
				limit = maxArrayFanOut
			}
			for i := 0; i < limit; i++ {
				queue = append(queue, queued{node: v[i], path: item.path, depth: item.depth + 1})
			}
		}
	}
	return paths
}

func arrayBearsObjects(arr []any) bool {
	for i, el := range arr {
		if i >= maxArrayFanOut {
			break
		}
		if _, ok := el.(map[string]any); ok {
			return true
		}
	}
	return false
}

func decodeJSON(payload []byte) (any, bool) {
	var root any
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, false
	}
	return root, true
}
