package database

import (
	"sync"

	"github.com/coder/hnsw"
)

// HNSW index parameters for face encodings.
const (
	// HNSWMaxNeighbors (M) is the maximum number of neighbors per node.
	// Higher values improve recall but increase memory and build time.
	HNSWMaxNeighbors = 16

	// HNSWSearchCandidates is how many approximate neighbors the index
	// requests per query. The exact rescoring pass narrows them down,
	// so it is deliberately larger than the single match needed.
	HNSWSearchCandidates = 32
)

// HNSWIndex wraps an HNSW graph used to narrow nearest-neighbor
// candidates for large encoding sets. The graph does not support true
// deletion, so removed IDs are tracked and filtered out of results;
// the EncodingIndex additionally filters through its authoritative map.
type HNSWIndex struct {
	mu      sync.RWMutex
	graph   *hnsw.Graph[int64]
	deleted map[int64]struct{}
}

// NewHNSWIndex creates an empty HNSW index.
func NewHNSWIndex() *HNSWIndex {
	return &HNSWIndex{deleted: make(map[int64]struct{})}
}

func newGraph() *hnsw.Graph[int64] {
	g := hnsw.NewGraph[int64]()
	g.M = HNSWMaxNeighbors
	g.Ml = 1.0 / float64(HNSWMaxNeighbors) // standard HNSW formula
	g.Distance = hnsw.EuclideanDistance
	return g
}

// Build replaces the graph contents with the given vectors.
func (h *HNSWIndex) Build(vectors map[int64][]float32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.deleted = make(map[int64]struct{})
	if len(vectors) == 0 {
		h.graph = nil
		return
	}

	g := newGraph()
	for id, vec := range vectors {
		g.Add(hnsw.MakeNode(id, vec))
	}
	h.graph = g
}

// Add inserts a single vector into the graph.
func (h *HNSWIndex) Add(id int64, vector []float32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.graph == nil {
		h.graph = newGraph()
	}
	h.graph.Add(hnsw.MakeNode(id, vector))
	delete(h.deleted, id)
}

// Delete marks an ID as removed. The node stays in the graph but is
// filtered from every subsequent Search result.
func (h *HNSWIndex) Delete(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted[id] = struct{}{}
}

// Search returns up to k approximate nearest-neighbor IDs.
func (h *HNSWIndex) Search(query []float32, k int) []int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph == nil {
		return nil
	}

	neighbors := h.graph.Search(query, k)
	ids := make([]int64, 0, len(neighbors))
	for _, n := range neighbors {
		if _, gone := h.deleted[n.Key]; gone {
			continue
		}
		ids = append(ids, n.Key)
	}
	return ids
}
