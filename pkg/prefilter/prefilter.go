package prefilter

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/sigil-dev/sigil/pkg/pattern"
	"github.com/sigil-dev/sigil/pkg/types"
)

// MinAnchorLen is the shortest exact-byte run worth indexing. Shorter
// runs fire constantly in binary data (zero padding, instruction
// prefixes) and would make the prefilter pass nearly everything.
const MinAnchorLen = 4

// Prefilter prunes signature candidates with Aho-Corasick over anchors
// derived from each signature's pattern.
type Prefilter struct {
	matcher    *ahocorasick.Matcher
	anchorSigs [][]*types.Signature // signatures at each anchor index
	alwaysSigs []*types.Signature   // signatures without a usable anchor
}

// New builds a prefilter from signatures. A signature whose pattern does
// not parse, or has no exact run of MinAnchorLen bytes, is always a
// candidate.
func New(sigs []*types.Signature) *Prefilter {
	pf := &Prefilter{}

	var anchors [][]byte
	anchorIndex := make(map[string]int)

	for _, sig := range sigs {
		p, err := sig.Compile()
		if err != nil {
			pf.alwaysSigs = append(pf.alwaysSigs, sig)
			continue
		}
		anchor, ok := Anchor(p)
		if !ok {
			pf.alwaysSigs = append(pf.alwaysSigs, sig)
			continue
		}

		idx, seen := anchorIndex[string(anchor)]
		if !seen {
			idx = len(anchors)
			anchorIndex[string(anchor)] = idx
			anchors = append(anchors, anchor)
			pf.anchorSigs = append(pf.anchorSigs, nil)
		}
		pf.anchorSigs[idx] = append(pf.anchorSigs[idx], sig)
	}

	if len(anchors) > 0 {
		pf.matcher = ahocorasick.NewMatcher(anchors)
	}

	return pf
}

// Anchor returns the longest exact-byte run of a pattern, or false when
// no run reaches MinAnchorLen. Ties keep the earliest run.
func Anchor(p *pattern.Pattern) ([]byte, bool) {
	var best pattern.Group
	for _, g := range p.Groups() {
		if g.Count > best.Count {
			best = g
		}
	}
	if best.Count < MinAnchorLen {
		return nil, false
	}

	tokens := p.Tokens()
	anchor := make([]byte, best.Count)
	for i := 0; i < best.Count; i++ {
		anchor[i] = tokens[best.Offset+i].Value
	}
	return anchor, true
}

// Filter returns signatures that might match content: those whose anchor
// occurs, plus those without a usable anchor.
func (pf *Prefilter) Filter(content []byte) []*types.Signature {
	result := make([]*types.Signature, 0, len(pf.alwaysSigs))
	result = append(result, pf.alwaysSigs...)

	if pf.matcher == nil {
		return result
	}

	// Each signature registers under exactly one anchor and Match
	// reports each index once, so the result carries no duplicates.
	for _, hit := range pf.matcher.Match(content) {
		result = append(result, pf.anchorSigs[hit]...)
	}

	return result
}
