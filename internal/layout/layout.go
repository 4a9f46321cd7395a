// Package layout places graph nodes on a sphere and derives curve
// geometry for links. Placement uses a golden-angle spiral so the
// angular distribution of node i depends only on i and the node count,
// with a small random jitter on the radius.
package layout

import (
	"math"
	"math/rand"
	"time"

	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/metrics"
)

const (
	// BaseRadius is the inner sphere radius; jitter adds up to
	// RadiusJitter on top of it.
	BaseRadius   = 50.0
	RadiusJitter = 30.0

	// CurveSamples is the number of interpolated points per link curve.
	CurveSamples = 20

	// midpointPull scales the link midpoint toward the sphere center.
	midpointPull = 0.8

	// DefaultTickStep is the animation clock increment used when a
	// caller does not supply its own frame delta.
	DefaultTickStep = 0.01

	oscAmplitude = 2.0
	oscXFactor   = 0.01
)

// State owns a laid-out graph, its derived curve geometry and the
// animation clock. It is rebuilt wholesale whenever the graph changes;
// there is no incremental reuse across graphs.
type State struct {
	Graph  *asset.Graph
	Curves []asset.CurvedLink
	Time   float64
}

// SphereAngles returns the golden-angle spiral angles for node index i
// of n total nodes. These are exact and jitter-free.
func SphereAngles(i, n int) (phi, theta float64) {
	phi = math.Acos(1 - 2*(float64(i)+0.5)/float64(n))
	theta = math.Pi * (1 + math.Sqrt(5)) * float64(i)
	return phi, theta
}

// Layout assigns every node a position on the sphere and builds the
// link curves. It never fails on malformed input: nodes with invalid
// weights are defaulted, links without placed endpoints are skipped.
func Layout(g *asset.Graph) State {
	return layoutWithRand(g, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func layoutWithRand(g *asset.Graph, rng *rand.Rand) State {
	start := time.Now()
	if g == nil {
		g = asset.NewGraph()
	}
	n := g.Len()
	for i := range g.Nodes {
		node := &g.Nodes[i]
		if math.IsNaN(node.Weight) || math.IsInf(node.Weight, 0) || node.Weight <= 0 {
			node.Weight = 1
		}
		phi, theta := SphereAngles(i, n)
		radius := BaseRadius + rng.Float64()*RadiusJitter
		node.Position = &asset.Vec3{
			X: radius * math.Sin(phi) * math.Cos(theta),
			Y: radius * math.Sin(phi) * math.Sin(theta),
			Z: radius * math.Cos(phi),
		}
	}

	s := State{Graph: g, Curves: buildCurves(g)}
	metrics.Default().ObserveLayoutBuild(n, len(g.Links), time.Since(start).Seconds())
	return s
}

// buildCurves samples a smooth 3-point curve for every link whose
// endpoints both have positions. Links with unplaced endpoints should
// not exist after a layout pass but are skipped rather than failing.
func buildCurves(g *asset.Graph) []asset.CurvedLink {
	curves := make([]asset.CurvedLink, 0, len(g.Links))
	for _, l := range g.Links {
		src := g.Node(l.SourceID)
		dst := g.Node(l.TargetID)
		if src == nil || dst == nil || src.Position == nil || dst.Position == nil {
			continue
		}
		a, c := *src.Position, *dst.Position
		mid := asset.Vec3{
			X: (a.X + c.X) / 2 * midpointPull,
			Y: (a.Y + c.Y) / 2 * midpointPull,
			Z: (a.Z + c.Z) / 2 * midpointPull,
		}
		curves = append(curves, asset.CurvedLink{
			GraphLink: l,
			Points:    sampleCatmullRom([3]asset.Vec3{a, mid, c}, CurveSamples),
		})
	}
	return curves
}

// Advance moves the animation clock forward and returns the new state.
// A non-positive delta falls back to DefaultTickStep so a zero-value
// caller still animates. The stored node positions are untouched; the
// oscillation is applied only when a snapshot is taken.
func Advance(s State, deltaTime float64) State {
	if deltaTime <= 0 {
		deltaTime = DefaultTickStep
	}
	s.Time += deltaTime
	return s
}

// RenderPosition returns the node position with the per-tick
// oscillation offset applied. The base position is never mutated, so
// repeated ticks cannot accumulate drift.
func RenderPosition(p asset.Vec3, t float64) asset.Vec3 {
	p.Y += math.Sin(t+p.X*oscXFactor) * oscAmplitude
	return p
}

// Snapshot produces the renderable view of the state: nodes at their
// oscillated positions plus the sampled curves.
func (s State) Snapshot() asset.LayoutSnapshot {
	snap := asset.LayoutSnapshot{Time: s.Time, Links: s.Curves}
	if s.Graph == nil {
		return snap
	}
	snap.Nodes = make([]asset.GraphNode, len(s.Graph.Nodes))
	for i, n := range s.Graph.Nodes {
		if n.Position != nil {
			p := RenderPosition(*n.Position, s.Time)
			n.Position = &p
		}
		snap.Nodes[i] = n
	}
	return snap
}

// sampleCatmullRom samples a uniform Catmull-Rom spline through the
// given control points, endpoints clamped, at samples evenly spaced
// parameter values covering the whole path.
func sampleCatmullRom(ctrl [3]asset.Vec3, samples int) []asset.Vec3 {
	if samples < 2 {
		samples = 2
	}
	out := make([]asset.Vec3, samples)
	segments := len(ctrl) - 1
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1) * float64(segments)
		seg := int(t)
		if seg >= segments {
			seg = segments - 1
		}
		u := t - float64(seg)
		p0 := ctrl[clampIdx(seg-1, len(ctrl))]
		p1 := ctrl[seg]
		p2 := ctrl[seg+1]
		p3 := ctrl[clampIdx(seg+2, len(ctrl))]
		out[i] = asset.Vec3{
			X: catmullRom(p0.X, p1.X, p2.X, p3.X, u),
			Y: catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, u),
			Z: catmullRom(p0.Z, p1.Z, p2.Z, p3.Z, u),
		}
	}
	return out
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func catmullRom(p0, p1, p2, p3, u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	return 0.5 * ((2 * p1) +
		(-p0+p2)*u +
		(2*p0-5*p1+4*p2-p3)*u2 +
		(-p0+3*p1-3*p2+p3)*u3)
}
