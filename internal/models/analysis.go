package models

import "sort"

// Analysis accumulates everything produced during a single run
type Analysis struct {
	Bookmarks    []Bookmark
	Duplicates   []DuplicateGroup
	DeadLinks    []ProbeResult
	WorkingLinks []ProbeResult
}

// Summary holds the counts written at the top of the JSON report
type Summary struct {
	TotalBookmarks int `json:"total_bookmarks"`
	WorkingLinks   int `json:"working_links"`
	DeadLinks      int `json:"dead_links"`
	Duplicates     int `json:"duplicates"`
}

// DomainCount is a domain with its number of dead links
type DomainCount struct {
	Domain string
	Count  int
}

// Summary returns the sizes of the accumulated collections
func (a *Analysis) Summary() Summary {
	return Summary{
		TotalBookmarks: len(a.Bookmarks),
		WorkingLinks:   len(a.WorkingLinks),
		DeadLinks:      len(a.DeadLinks),
		Duplicates:     len(a.Duplicates),
	}
}

// AddProbeResult files a result under dead or working links
func (a *Analysis) AddProbeResult(r ProbeResult) {
	if r.IsDead() {
		a.DeadLinks = append(a.DeadLinks, r)
		return
	}
	a.WorkingLinks = append(a.WorkingLinks, r)
}

// TopDeadDomains ranks domains by dead-link count, highest first.
// Domains with equal counts keep the order in which they were first seen.
func (a *Analysis) TopDeadDomains(n int) []DomainCount {
	index := make(map[string]int)
	var counts []DomainCount
	for _, link := range a.DeadLinks {
		i, ok := index[link.Domain]
		if !ok {
			i = len(counts)
			index[link.Domain] = i
			counts = append(counts, DomainCount{Domain: link.Domain})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
