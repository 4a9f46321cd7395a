package layout

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JT5D/xrai/internal/asset"
)

func testGraph(n int) *asset.Graph {
	g := asset.NewGraph()
	for i := 0; i < n; i++ {
		g.PutNode(asset.GraphNode{
			ID:     fmt.Sprintf("n%d", i),
			Name:   fmt.Sprintf("node %d", i),
			Type:   "model",
			Weight: 1,
		})
	}
	return g
}

func norm(p asset.Vec3) float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

func TestLayoutPlacesAllNodesOnSphere(t *testing.T) {
	g := testGraph(12)
	s := layoutWithRand(g, rand.New(rand.NewSource(1)))

	seen := make(map[asset.Vec3]bool)
	for _, n := range s.Graph.Nodes {
		require.NotNil(t, n.Position)
		r := norm(*n.Position)
		assert.GreaterOrEqual(t, r, BaseRadius)
		assert.Less(t, r, BaseRadius+RadiusJitter)
		assert.False(t, seen[*n.Position], "duplicate position for %s", n.ID)
		seen[*n.Position] = true
	}
}

func TestLayoutDirectionMatchesSphereAngles(t *testing.T) {
	g := testGraph(7)
	s := layoutWithRand(g, rand.New(rand.NewSource(42)))

	// The jitter only scales the radius; the direction of node i is
	// fully determined by the spiral angles.
	for i, n := range s.Graph.Nodes {
		phi, theta := SphereAngles(i, 7)
		r := norm(*n.Position)
		assert.InDelta(t, r*math.Sin(phi)*math.Cos(theta), n.Position.X, 1e-9)
		assert.InDelta(t, r*math.Sin(phi)*math.Sin(theta), n.Position.Y, 1e-9)
		assert.InDelta(t, r*math.Cos(phi), n.Position.Z, 1e-9)
	}
}

func TestLayoutDeterministicWithSeed(t *testing.T) {
	a := layoutWithRand(testGraph(5), rand.New(rand.NewSource(7)))
	b := layoutWithRand(testGraph(5), rand.New(rand.NewSource(7)))
	for i := range a.Graph.Nodes {
		assert.Equal(t, *a.Graph.Nodes[i].Position, *b.Graph.Nodes[i].Position)
	}
}

func TestLayoutDefaultsInvalidWeights(t *testing.T) {
	g := asset.NewGraph()
	g.PutNode(asset.GraphNode{ID: "a", Weight: math.NaN()})
	g.PutNode(asset.GraphNode{ID: "b", Weight: -2})
	s := layoutWithRand(g, rand.New(rand.NewSource(1)))
	for _, n := range s.Graph.Nodes {
		assert.InDelta(t, 1, n.Weight, 1e-9)
	}
}

func TestLayoutEmptyAndNilGraph(t *testing.T) {
	s := Layout(nil)
	require.NotNil(t, s.Graph)
	assert.Zero(t, s.Graph.Len())
	assert.Empty(t, s.Curves)

	s = Layout(asset.NewGraph())
	assert.Empty(t, s.Curves)
}

func TestCurvesSampledPerLink(t *testing.T) {
	g := testGraph(3)
	g.AddLink(asset.GraphLink{SourceID: "n0", TargetID: "n1", Strength: 0.8})
	g.AddLink(asset.GraphLink{SourceID: "n1", TargetID: "n2", Strength: 0.3})
	s := layoutWithRand(g, rand.New(rand.NewSource(3)))

	require.Len(t, s.Curves, 2)
	for _, c := range s.Curves {
		require.Len(t, c.Points, CurveSamples)
		src := s.Graph.Node(c.SourceID)
		dst := s.Graph.Node(c.TargetID)
		// Endpoint-clamped spline passes through both node positions.
		assert.InDelta(t, src.Position.X, c.Points[0].X, 1e-9)
		assert.InDelta(t, src.Position.Y, c.Points[0].Y, 1e-9)
		assert.InDelta(t, src.Position.Z, c.Points[0].Z, 1e-9)
		last := c.Points[CurveSamples-1]
		assert.InDelta(t, dst.Position.X, last.X, 1e-9)
		assert.InDelta(t, dst.Position.Y, last.Y, 1e-9)
		assert.InDelta(t, dst.Position.Z, last.Z, 1e-9)
	}
}

func TestCurveMidpointPulledInward(t *testing.T) {
	a := asset.Vec3{X: 60, Y: 0, Z: 0}
	c := asset.Vec3{X: -60, Y: 40, Z: 20}
	mid := asset.Vec3{
		X: (a.X + c.X) / 2 * 0.8,
		Y: (a.Y + c.Y) / 2 * 0.8,
		Z: (a.Z + c.Z) / 2 * 0.8,
	}

	// An odd sample count puts one sample exactly on the middle
	// control point, which the clamped spline interpolates through.
	pts := sampleCatmullRom([3]asset.Vec3{a, mid, c}, 21)
	require.Len(t, pts, 21)
	assert.InDelta(t, mid.X, pts[10].X, 1e-9)
	assert.InDelta(t, mid.Y, pts[10].Y, 1e-9)
	assert.InDelta(t, mid.Z, pts[10].Z, 1e-9)
}

func TestAdvance(t *testing.T) {
	s := State{Time: 1.5}
	s = Advance(s, 0.25)
	assert.InDelta(t, 1.75, s.Time, 1e-9)

	// Non-positive deltas fall back to the default step.
	s = Advance(s, 0)
	assert.InDelta(t, 1.75+DefaultTickStep, s.Time, 1e-9)
	s = Advance(s, -3)
	assert.InDelta(t, 1.75+2*DefaultTickStep, s.Time, 1e-9)
}

func TestAdvanceDoesNotMoveBasePositions(t *testing.T) {
	g := testGraph(4)
	s := layoutWithRand(g, rand.New(rand.NewSource(11)))

	base := make([]asset.Vec3, len(s.Graph.Nodes))
	for i, n := range s.Graph.Nodes {
		base[i] = *n.Position
	}

	for i := 0; i < 500; i++ {
		s = Advance(s, DefaultTickStep)
		_ = s.Snapshot()
	}
	for i, n := range s.Graph.Nodes {
		assert.Equal(t, base[i], *n.Position, "stored position drifted for %s", n.ID)
	}
}

func TestRenderPositionOscillation(t *testing.T) {
	p := asset.Vec3{X: 100, Y: 5, Z: -20}
	got := RenderPosition(p, 2.0)
	assert.InDelta(t, p.X, got.X, 1e-9)
	assert.InDelta(t, p.Z, got.Z, 1e-9)
	assert.InDelta(t, 5+math.Sin(2.0+100*0.01)*2.0, got.Y, 1e-9)
}

func TestSnapshotAppliesOscillation(t *testing.T) {
	g := testGraph(3)
	g.AddLink(asset.GraphLink{SourceID: "n0", TargetID: "n2", Strength: 0.5})
	s := layoutWithRand(g, rand.New(rand.NewSource(5)))
	s = Advance(s, 0.5)

	snap := s.Snapshot()
	require.Len(t, snap.Nodes, 3)
	require.Len(t, snap.Links, 1)
	assert.InDelta(t, 0.5, snap.Time, 1e-9)
	for i, n := range snap.Nodes {
		base := s.Graph.Nodes[i].Position
		want := RenderPosition(*base, s.Time)
		assert.Equal(t, want, *n.Position)
	}
}

func TestSphereAnglesFormula(t *testing.T) {
	phi, theta := SphereAngles(3, 10)
	assert.InDelta(t, math.Acos(1-2*3.5/10), phi, 1e-12)
	assert.InDelta(t, math.Pi*(1+math.Sqrt(5))*3, theta, 1e-12)
}
