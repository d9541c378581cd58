package model

import "sort"

// HostChange describes a host whose count differs between two results.
type HostChange struct {
	Host   string `json:"host"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// Delta returns After - Before.
func (c HostChange) Delta() int {
	return c.After - c.Before
}

// Comparison is the difference between an earlier and a later result.
type Comparison struct {
	Previous *Result `json:"previous"`
	Current  *Result `json:"current"`

	// AddedHosts are hosts present only in Current, sorted by name.
	AddedHosts []HostCount `json:"added_hosts,omitempty"`

	// RemovedHosts are hosts present only in Previous, sorted by name.
	RemovedHosts []HostCount `json:"removed_hosts,omitempty"`

	// ChangedHosts are hosts present in both with different counts, sorted by name.
	ChangedHosts []HostChange `json:"changed_hosts,omitempty"`

	// UniqueDelta is Current.Unique - Previous.Unique.
	UniqueDelta int `json:"unique_delta"`

	// Identical is true when both results counted the same set of URLs.
	Identical bool `json:"identical"`
}

// Compare computes the difference between previous and current.
// Either argument may be nil, in which case it is treated as an empty result.
func Compare(previous, current *Result) *Comparison {
	if previous == nil {
		previous = &Result{ByHost: map[string]int{}}
	}
	if current == nil {
		current = &Result{ByHost: map[string]int{}}
	}

	c := &Comparison{
		Previous:    previous,
		Current:     current,
		UniqueDelta: current.Unique - previous.Unique,
		Identical:   previous.Fingerprint != "" && previous.Fingerprint == current.Fingerprint,
	}

	for host, after := range current.ByHost {
		before, ok := previous.ByHost[host]
		switch {
		case !ok:
			c.AddedHosts = append(c.AddedHosts, HostCount{Host: host, Count: after})
		case before != after:
			c.ChangedHosts = append(c.ChangedHosts, HostChange{Host: host, Before: before, After: after})
		}
	}
	for host, before := range previous.ByHost {
		if _, ok := current.ByHost[host]; !ok {
			c.RemovedHosts = append(c.RemovedHosts, HostCount{Host: host, Count: before})
		}
	}

	sort.Slice(c.AddedHosts, func(i, j int) bool { return c.AddedHosts[i].Host < c.AddedHosts[j].Host })
	sort.Slice(c.RemovedHosts, func(i, j int) bool { return c.RemovedHosts[i].Host < c.RemovedHosts[j].Host })
	sort.Slice(c.ChangedHosts, func(i, j int) bool { return c.ChangedHosts[i].Host < c.ChangedHosts[j].Host })

	return c
}

// HasChanges reports whether any host or the unique count changed.
func (c *Comparison) HasChanges() bool {
	return len(c.AddedHosts) > 0 || len(c.RemovedHosts) > 0 ||
		len(c.ChangedHosts) > 0 || c.UniqueDelta != 0
}
