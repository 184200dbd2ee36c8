package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort selects the ordering of search results.
type Sort string

const (
	SortFeatured Sort = "featured"
	SortPrice    Sort = "price"
	SortCPU      Sort = "cpu"
	SortGPU      Sort = "gpu"
	SortRAM      Sort = "ram"
	SortName     Sort = "name"
)

// ParseSort maps a request parameter onto a sort key, defaulting to
// featured for anything unrecognized.
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortPrice, SortCPU, SortGPU, SortRAM, SortName:
		return Sort(strings.ToLower(strings.TrimSpace(s)))
	default:
		return SortFeatured
	}
}

// Query is the transient filter/sort state a browsing surface holds.
type Query struct {
	Text     string
	MinRAMGB int
	Sort     Sort
}

// Search filters and sorts the given products. It is pure: the input
// slice is never mutated, and ties keep their input order so results are
// reproducible across identical queries.
func Search(products []Product, q Query) []Product {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if text != "" && !strings.Contains(searchText(p), text) {
			continue
		}
		if ParseRAMGB(p.RAM) < q.MinRAMGB {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortCPU:
		sort.SliceStable(out, func(i, j int) bool { return CPURank(out[i].CPU) < CPURank(out[j].CPU) })
	case SortGPU:
		sort.SliceStable(out, func(i, j int) bool { return GPURank(out[i].GPU) < GPURank(out[j].GPU) })
	case SortRAM:
		sort.SliceStable(out, func(i, j int) bool { return ParseRAMGB(out[i].RAM) > ParseRAMGB(out[j].RAM) })
	case SortName:
		// collate.Collator is not safe for concurrent use, so each
		// search gets its own.
		c := collate.New(language.Korean)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i].Name, out[j].Name) < 0 })
	}
	// SortFeatured keeps catalog order.

	return out
}

func searchText(p Product) string {
	parts := []string{p.Title, p.CPU, p.GPU, p.RAM, p.Storage}
	if len(p.Tags) > 0 {
		parts = append(parts, strings.Join(p.Tags, " "))
	}
	return strings.ToLower(strings.Join(parts, " "))
}
