package linage

import "sort"

// SortFindings orders findings by position, then rule and state, and drops duplicates
func SortFindings(findings []*Finding) []*Finding {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Site.FilePath != b.Site.FilePath {
			return a.Site.FilePath < b.Site.FilePath
		}
		if a.Site.StartByte != b.Site.StartByte {
			return a.Site.StartByte < b.Site.StartByte
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.State < b.State
	})
	result := findings[:0]
	for i, f := range findings {
		if i > 0 {
			prev := result[len(result)-1]
			if prev.Rule == f.Rule && prev.State == f.State && prev.Site.FilePath == f.Site.FilePath &&
				prev.Site.StartByte == f.Site.StartByte && prev.Site.EndByte == f.Site.EndByte {
				continue
			}
		}
		result = append(result, f)
	}
	return result
}
