package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// AmpleRAMGB is the threshold above which a listing gets the
// "ample memory" badge.
const AmpleRAMGB = 64

var ramPattern = regexp.MustCompile(`(?i)(\d+)GB`)

// ParseRAMGB extracts the leading gigabyte quantity from a free-text RAM
// spec ("64GB DDR5" -> 64). Strings with no digits-then-GB run parse as 0
// so unparseable listings sink to the bottom instead of failing.
func ParseRAMGB(ram string) int {
	m := ramPattern.FindStringSubmatch(ram)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// AmpleRAM reports whether the product qualifies for the ample-memory badge.
func AmpleRAM(p Product) bool {
	return ParseRAMGB(p.RAM) >= AmpleRAMGB
}

var cpuTiers = []string{"i9", "i7", "i5", "i3", "pentium", "celeron"}

var gpuTiers = []string{"5090", "4090", "4080", "4070", "4060", "3060", "uhd 7", "uhd 6", "intel uhd"}

// tierRank maps a free-text spec string onto an ordered tier list: the
// rank is the index of the first tier substring found (case-insensitive),
// or len(tiers) when nothing matches. Lower rank = higher-end part.
func tierRank(spec string, tiers []string) int {
	s := strings.ToLower(spec)
	for i, t := range tiers {
		if strings.Contains(s, t) {
			return i
		}
	}
	return len(tiers)
}

// CPURank ranks a CPU spec string; unrecognized CPUs rank last.
func CPURank(cpu string) int {
	return tierRank(cpu, cpuTiers)
}

// GPURank ranks a GPU spec string; unrecognized GPUs rank last.
func GPURank(gpu string) int {
	return tierRank(gpu, gpuTiers)
}
