package pdfbind

import (
	"fmt"
	"regexp"
	"sort"
)

// Rule is one compiled grouping pattern. Rules are evaluated in order by
// [GroupImages]; first match wins. A named capture in the expression
// selects the group name for a matching image.
type Rule struct {
	Expr *regexp.Regexp
}

// CompileRules compiles pattern expressions in priority order. Any syntax
// error aborts the whole operation before anything is converted.
func CompileRules(patterns []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, p, err)
		}
		rules = append(rules, Rule{Expr: re})
	}
	return rules, nil
}

// matchKind tags the outcome of matching one image name against the rule
// list, so bucket finalization can be exhaustive.
type matchKind int

const (
	noMatch matchKind = iota
	matchedNoCapture
	captured
)

func (r Rule) match(name string) (matchKind, string) {
	m := r.Expr.FindStringSubmatch(name)
	if m == nil {
		return noMatch, ""
	}
	for i, sub := range r.Expr.SubexpNames() {
		if i == 0 || sub == "" || i >= len(m) {
			continue
		}
		if m[i] != "" {
			return captured, m[i]
		}
	}
	return matchedNoCapture, ""
}

func classify(name string, rules []Rule) (matchKind, string) {
	for _, r := range rules {
		if kind, group := r.match(name); kind != noMatch {
			return kind, group
		}
	}
	return noMatch, ""
}

// GroupImages partitions one folder's images into named groups. Each image
// is decided by the first rule matching its file name: a named capture
// supplies the group name, a match without one falls back to the folder
// key. Images no rule matches share a single bucket whose final name
// depends on the whole folder: "<folderKey>_other" when at least one
// sibling matched, the plain folder key when none did. With no rules at
// all, every image lands in one group named after the folder.
//
// The union of the returned member lists is always exactly the input set.
func GroupImages(folderKey string, images []ImageEntry, rules []Rule) []Group {
	if len(rules) == 0 {
		return []Group{{Name: folderKey, Images: sortedByName(images)}}
	}

	buckets := map[string][]ImageEntry{}
	var order []string
	var unmatched []ImageEntry
	matchedAny := false

	for _, img := range images {
		kind, name := classify(img.Name, rules)
		switch kind {
		case noMatch:
			unmatched = append(unmatched, img)
			continue
		case matchedNoCapture:
			name = folderKey
		}
		matchedAny = true
		if _, ok := buckets[name]; !ok {
			order = append(order, name)
		}
		buckets[name] = append(buckets[name], img)
	}

	// The unmatched bucket's name depends on matchedAny, which is only
	// known once every image has been classified. Second pass.
	fallbackName := ""
	if len(unmatched) > 0 {
		name := folderKey
		if matchedAny {
			name = folderKey + otherSuffix
			fallbackName = name
		}
		if _, ok := buckets[name]; !ok {
			order = append(order, name)
		}
		buckets[name] = append(buckets[name], unmatched...)
	}

	groups := make([]Group, 0, len(order))
	for _, name := range order {
		// matching can interleave adjacent images into different buckets
		groups = append(groups, Group{
			Name:     name,
			Images:   sortedByName(buckets[name]),
			Fallback: fallbackName != "" && name == fallbackName,
		})
	}
	return groups
}

// GroupImagesByPattern is the single-pattern form of [GroupImages], kept
// for callers of the pre-list interface. An empty pattern groups the whole
// folder under its own key.
func GroupImagesByPattern(folderKey string, images []ImageEntry, pattern string) ([]Group, error) {
	if pattern == "" {
		return GroupImages(folderKey, images, nil), nil
	}
	rules, err := CompileRules([]string{pattern})
	if err != nil {
		return nil, err
	}
	return GroupImages(folderKey, images, rules), nil
}

func sortedByName(in []ImageEntry) []ImageEntry {
	out := make([]ImageEntry, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		return NaturalLess(out[i].Name, out[j].Name)
	})
	return out
}
