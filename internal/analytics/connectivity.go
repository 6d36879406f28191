// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"context"
	"math"

	"github.com/kraklabs/roam/internal/graph"
)

// AlgebraicConnectivityExactThreshold is the node count above which the
// Fiedler value is approximated by power iteration on the deflated
// Laplacian instead of exact dense computation (§4.4).
const AlgebraicConnectivityExactThreshold = 500

// AlgebraicConnectivity returns the second-smallest eigenvalue of the
// Laplacian of the undirected projection of g (the "Fiedler value"), exactly
// via Jacobi rotation for small graphs or approximated via power iteration
// on the deflated Laplacian for large ones.
func AlgebraicConnectivity(ctx context.Context, g *graph.Graph) float64 {
	ids := g.NodeIDs()
	n := len(ids)
	if n < 2 {
		return 0
	}
	index := make(map[int64]int, n)
	for i, id := range ids {
		index[id] = i
	}

	laplacian := buildLaplacian(g, ids, index)

	if n <= AlgebraicConnectivityExactThreshold {
		return jacobiSecondSmallest(laplacian)
	}
	return powerIterationFiedler(ctx, laplacian)
}

// buildLaplacian returns the dense n×n Laplacian (degree - adjacency) of the
// undirected projection: an edge in either direction counts once per pair.
func buildLaplacian(g *graph.Graph, ids []int64, index map[int64]int) [][]float64 {
	n := len(ids)
	adj := make([][]float64, n)
	for i := range adj {
		adj[i] = make([]float64, n)
	}
	seen := make(map[[2]int]bool)
	for _, id := range ids {
		i := index[id]
		for _, e := range g.Out(id) {
			j, ok := index[e.Target]
			if !ok || i == j {
				continue
			}
			key := [2]int{i, j}
			if i > j {
				key = [2]int{j, i}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			adj[i][j] = 1
			adj[j][i] = 1
		}
	}

	lap := make([][]float64, n)
	for i := range lap {
		lap[i] = make([]float64, n)
		degree := 0.0
		for j := 0; j < n; j++ {
			if i != j {
				lap[i][j] = -adj[i][j]
				degree += adj[i][j]
			}
		}
		lap[i][i] = degree
	}
	return lap
}

// jacobiSecondSmallest computes all eigenvalues of the symmetric Laplacian
// via the cyclic Jacobi rotation method and returns the second-smallest.
func jacobiSecondSmallest(a [][]float64) float64 {
	n := len(a)
	m := make([][]float64, n)
	for i := range a {
		m[i] = append([]float64(nil), a[i]...)
	}

	const sweeps = 60
	for sweep := 0; sweep < sweeps; sweep++ {
		off := 0.0
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += m[p][q] * m[p][q]
			}
		}
		if off < 1e-12 {
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(m[p][q]) < 1e-14 {
					continue
				}
				theta := (m[q][q] - m[p][p]) / (2 * m[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				mpp, mqq, mpq := m[p][p], m[q][q], m[p][q]
				m[p][p] = c*c*mpp - 2*s*c*mpq + s*s*mqq
				m[q][q] = s*s*mpp + 2*s*c*mpq + c*c*mqq
				m[p][q] = 0
				m[q][p] = 0
				for i := 0; i < n; i++ {
					if i == p || i == q {
						continue
					}
					mip, miq := m[i][p], m[i][q]
					m[i][p] = c*mip - s*miq
					m[p][i] = m[i][p]
					m[i][q] = s*mip + c*miq
					m[q][i] = m[i][q]
				}
			}
		}
	}

	eigen := make([]float64, n)
	for i := 0; i < n; i++ {
		eigen[i] = m[i][i]
	}
	return secondSmallest(eigen)
}

func secondSmallest(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	v := sorted[1]
	if v < 0 {
		v = 0
	}
	return v
}

// powerIterationFiedler approximates the Fiedler value for large graphs by
// power iteration on a shifted, deflated Laplacian: shift by the largest
// plausible eigenvalue (2·max degree) to invert the ordering so the
// power method's dominant eigenvalue corresponds to the Laplacian's
// second-smallest, after deflating the all-ones (zero-eigenvalue) vector.
func powerIterationFiedler(ctx context.Context, lap [][]float64) float64 {
	n := len(lap)
	maxDegree := 0.0
	for i := 0; i < n; i++ {
		if lap[i][i] > maxDegree {
			maxDegree = lap[i][i]
		}
	}
	shift := 2*maxDegree + 1

	v := make([]float64, n)
	for i := range v {
		v[i] = 1.0 / float64(i%7+1)
	}
	deflateOnes(v)
	normalize(v)

	for iter := 0; iter < 200; iter++ {
		if ctx.Err() != nil {
			break
		}
		next := make([]float64, n)
		for i := 0; i < n; i++ {
			next[i] = shift*v[i] - dot(lap[i], v)
		}
		deflateOnes(next)
		if norm(next) < 1e-12 {
			break
		}
		normalize(next)
		v = next
	}

	// Rayleigh quotient v^T L v / v^T v gives back the true Laplacian eigenvalue.
	lv := make([]float64, n)
	for i := 0; i < n; i++ {
		lv[i] = dot(lap[i], v)
	}
	num := dot(v, lv)
	den := dot(v, v)
	if den == 0 {
		return 0
	}
	val := num / den
	if val < 0 {
		val = 0
	}
	return val
}

func deflateOnes(v []float64) {
	mean := 0.0
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	for i := range v {
		v[i] -= mean
	}
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func normalize(v []float64) {
	n := norm(v)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] /= n
	}
}
