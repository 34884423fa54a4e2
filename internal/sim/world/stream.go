package world

import "sort"

// genResult is the self-contained output of one generation task: a fully
// built, sky-lit chunk plus a provisional mesh built without neighbor
// data. Integration either applies all of it or drops all of it.
type genResult struct {
	coord ChunkCoord
	chunk *Chunk
	mesh  *Mesh
}

// requestMissingChunks enumerates coordinates around the viewer inside the
// spherical view radius (clamped to the vertical radius) and dispatches
// one generation goroutine per missing coordinate. Tasks receive only
// copies of scalar inputs and the read-only catalog.
func (w *World) requestMissingChunks() int {
	r := w.cfg.ViewRadius
	rv := w.cfg.ViewRadiusVertical
	vc := w.viewer
	requested := 0

	for dx := -r; dx <= r; dx++ {
		for dy := -rv; dy <= rv; dy++ {
			for dz := -r; dz <= r; dz++ {
				coord := vc.Offset(dx, dy, dz)
				if coord.DistanceSquared(vc) > r*r {
					continue
				}
				if _, ok := w.chunks[coord]; ok {
					continue
				}
				if _, ok := w.loading[coord]; ok {
					continue
				}

				w.loading[coord] = struct{}{}
				requested++

				seed := w.seed
				mats := w.mats
				cat := w.cat
				go func(coord ChunkCoord) {
					c := GenerateChunk(coord, seed, mats)
					m := BuildMesh(c, cat)
					w.results <- genResult{coord: coord, chunk: c, mesh: m}
				}(coord)
			}
		}
	}
	return requested
}

// drainResults integrates completed generation tasks without blocking.
// Results whose coordinate has meanwhile left the keep radius are dropped
// whole; integrated chunks and their loaded face neighbors are marked
// dirty so the batched pass stitches light and faces across the new
// boundary.
func (w *World) drainResults() (integrated, dropped int) {
	for {
		select {
		case res := <-w.results:
			delete(w.loading, res.coord)
			if !w.withinKeepRadius(res.coord) {
				dropped++
				continue
			}
			w.chunks[res.coord] = res.chunk
			if res.mesh != nil {
				w.meshes[res.coord] = res.mesh
			}
			// The provisional mesh was built at full daylight.
			w.meshedSky[res.coord] = MaxLight
			if w.onGenerated != nil {
				w.onGenerated(res.chunk)
			}
			integrated++

			w.markDirty(res.coord)
			for _, n := range faceNeighbors(res.coord) {
				w.markDirty(n)
			}
		default:
			return integrated, dropped
		}
	}
}

// withinKeepRadius applies the unload hysteresis: chunks are kept a little
// beyond the view radius so small viewer moves don't churn the index.
func (w *World) withinKeepRadius(coord ChunkCoord) bool {
	r := w.cfg.ViewRadius + w.cfg.UnloadSlack
	rv := w.cfg.ViewRadiusVertical + w.cfg.UnloadSlack
	if absInt(coord.Y-w.viewer.Y) > rv {
		return false
	}
	return coord.DistanceSquared(w.viewer) <= r*r
}

// unloadFarChunks evicts chunks outside the keep radius together with
// every cache entry referencing their coordinate.
func (w *World) unloadFarChunks() int {
	unloaded := 0
	for coord := range w.chunks {
		if w.withinKeepRadius(coord) {
			continue
		}
		delete(w.chunks, coord)
		delete(w.meshes, coord)
		delete(w.meshedSky, coord)
		delete(w.dirty, coord)
		unloaded++
	}
	return unloaded
}

func faceNeighbors(coord ChunkCoord) [6]ChunkCoord {
	return [6]ChunkCoord{
		coord.Offset(-1, 0, 0),
		coord.Offset(1, 0, 0),
		coord.Offset(0, -1, 0),
		coord.Offset(0, 1, 0),
		coord.Offset(0, 0, -1),
		coord.Offset(0, 0, 1),
	}
}

// loadedCoordsOrdered returns loaded coordinates in a deterministic order:
// top-down, then nearer the viewer horizontally, then by Z and X.
func (w *World) loadedCoordsOrdered() []ChunkCoord {
	coords := make([]ChunkCoord, 0, len(w.chunks))
	for coord := range w.chunks {
		coords = append(coords, coord)
	}
	sortCoordsForProcessing(coords, w.viewer)
	return coords
}

// sortCoordsForProcessing orders chunks for lighting work: higher chunks
// first so sky light flows down, then horizontal proximity to the viewer.
func sortCoordsForProcessing(coords []ChunkCoord, viewer ChunkCoord) {
	horizDistSq := func(c ChunkCoord) int {
		dx := c.X - viewer.X
		dz := c.Z - viewer.Z
		return dx*dx + dz*dz
	}
	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		da, db := horizDistSq(a), horizDistSq(b)
		if da != db {
			return da < db
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
}
