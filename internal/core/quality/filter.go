package quality

import (
	"sort"
	"strings"

	"github.com/chainscribe/concord/internal/core/match"
	"github.com/chainscribe/concord/internal/core/model"
)

// Candidate is one extracted relationship proposed for implementation.
// Extractors over-produce (30-100 raw candidates is normal), so candidates
// are deduplicated, ranked and capped before any code is rendered from
// them.
type Candidate struct {
	ID          string         `json:"id"`
	Type        model.EdgeType `json:"type"`
	SourceLabel string         `json:"source_label"`
	TargetLabel string         `json:"target_label"`
	SourceType  model.NodeType `json:"source_type,omitempty"`
	TargetType  model.NodeType `json:"target_type,omitempty"`
	Confidence  float64        `json:"confidence"`
	Description string         `json:"description,omitempty"`
}

// Category is the fixed implementation priority. Lower ranks first.
type Category int

const (
	CategoryPayment Category = iota
	CategoryOwnership
	CategoryObligation
	CategoryTemporal
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryPayment:
		return "payment"
	case CategoryOwnership:
		return "ownership"
	case CategoryObligation:
		return "obligation"
	case CategoryTemporal:
		return "temporal"
	default:
		return "other"
	}
}

var ownershipWords = []string{"own", "owner", "ownership", "transfer", "assign", "convey", "lease", "sell", "purchase"}
var paymentWords = []string{"pay", "payment", "rent", "fee", "price", "amount", "salary", "deposit", "usd", "$"}

// Categorize buckets a candidate by what it would implement. Endpoint
// types are trusted first, label content second.
func Categorize(c Candidate) Category {
	src := strings.ToLower(c.SourceLabel)
	dst := strings.ToLower(c.TargetLabel)
	labels := src + " " + dst

	if c.SourceType == model.NodeFinancialAmount || c.TargetType == model.NodeFinancialAmount ||
		containsAny(labels, paymentWords) {
		return CategoryPayment
	}
	if containsAny(labels, ownershipWords) {
		return CategoryOwnership
	}
	switch c.Type {
	case model.EdgeObligationAssignment, model.EdgeResponsibility, model.EdgeImplication:
		return CategoryObligation
	case model.EdgeTemporalReference:
		return CategoryTemporal
	}
	if c.SourceType == model.NodeTemporal || c.TargetType == model.NodeTemporal {
		return CategoryTemporal
	}
	return CategoryOther
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Filter deduplicates, ranks and caps candidate relationships so the
// downstream renderer implements each distinct source relationship exactly
// once. This is what keeps "relationship coverage" from exceeding 100%.
type Filter struct {
	TopK int
}

func NewFilter(topK int) *Filter {
	return &Filter{TopK: topK}
}

// Select returns at most TopK candidates, free of duplicates, ordered by
// category priority (payment first), then extractor confidence, then ID.
// A payment-category relationship is never displaced by a lower-priority
// one while capacity remains.
func (f *Filter) Select(candidates []Candidate) []Candidate {
	deduped := dedupe(candidates)

	sort.SliceStable(deduped, func(i, j int) bool {
		ci, cj := Categorize(deduped[i]), Categorize(deduped[j])
		if ci != cj {
			return ci < cj
		}
		if deduped[i].Confidence != deduped[j].Confidence {
			return deduped[i].Confidence > deduped[j].Confidence
		}
		return deduped[i].ID < deduped[j].ID
	})

	if f.TopK > 0 && len(deduped) > f.TopK {
		deduped = deduped[:f.TopK]
	}
	return deduped
}

// dedupe keeps one candidate per (type, normalized source, normalized
// target), preferring the highest extractor confidence.
func dedupe(candidates []Candidate) []Candidate {
	type key struct {
		t        model.EdgeType
		src, dst string
	}
	best := make(map[key]int)
	var out []Candidate
	for _, c := range candidates {
		k := key{c.Type, match.NormalizeLabel(c.SourceLabel), match.NormalizeLabel(c.TargetLabel)}
		if idx, seen := best[k]; seen {
			if c.Confidence > out[idx].Confidence {
				out[idx] = c
			}
			continue
		}
		best[k] = len(out)
		out = append(out, c)
	}
	return out
}

// CandidatesFromGraph lifts an e-contract graph's edges into filter
// candidates, carrying endpoint labels and types along.
func CandidatesFromGraph(g *model.Graph) []Candidate {
	var out []Candidate
	for _, e := range g.Edges() {
		c := Candidate{
			ID:          e.ID,
			Type:        e.Type,
			Confidence:  e.Confidence,
			Description: e.Description,
		}
		if src := g.Node(e.SourceID); src != nil {
			c.SourceLabel = src.Label
			c.SourceType = src.Type
		}
		if dst := g.Node(e.TargetID); dst != nil {
			c.TargetLabel = dst.Label
			c.TargetType = dst.Type
		}
		out = append(out, c)
	}
	return out
}
