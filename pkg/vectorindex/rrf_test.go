package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuseRRFSharedResultsSumBothTerms(t *testing.T) {
	dense := []SearchResult{
		{Point: Point{ID: "A"}},
		{Point: Point{ID: "B"}},
	}
	text := []Point{
		{ID: "B"},
		{ID: "A"},
	}

	fused := fuseRRF(dense, text)
	require.Len(t, fused, 2)

	scores := map[string]float64{}
	for _, f := range fused {
		scores[f.id] = f.score
	}

	assert.InDelta(t, 1.0/61+1.0/62, scores["A"], 1e-9)
	assert.InDelta(t, 1.0/62+1.0/61, scores["B"], 1e-9)
	// Tie: both equal, order is stable but either could lead.
	assert.InDelta(t, scores["A"], scores["B"], 1e-9)
}

func TestFuseRRFSingleListOnlyGetsOneTerm(t *testing.T) {
	dense := []SearchResult{{Point: Point{ID: "only-dense"}}}
	var text []Point

	fused := fuseRRF(dense, text)
	require.Len(t, fused, 1)
	assert.InDelta(t, 1.0/61, fused[0].score, 1e-9)
}

func TestFuseRRFDensePayloadWinsOnCollision(t *testing.T) {
	dense := []SearchResult{{Point: Point{ID: "X", Content: "from-dense"}}}
	text := []Point{{ID: "X", Content: "from-text"}}

	fused := fuseRRF(dense, text)
	require.Len(t, fused, 1)
	assert.Equal(t, "from-dense", fused[0].point.Content)
}

func TestFuseRRFSortedDescending(t *testing.T) {
	dense := []SearchResult{
		{Point: Point{ID: "top"}},
		{Point: Point{ID: "mid"}},
		{Point: Point{ID: "bottom"}},
	}

	fused := fuseRRF(dense, nil)
	require.Len(t, fused, 3)
	assert.Equal(t, "top", fused[0].id)
	assert.Equal(t, "bottom", fused[2].id)
	assert.GreaterOrEqual(t, fused[0].score, fused[1].score)
	assert.GreaterOrEqual(t, fused[1].score, fused[2].score)
}
