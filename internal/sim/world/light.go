package world

// Sky light propagation. Values 0..15, 15 = unobstructed sky. Solid blocks
// always store 0. Two entry points:
//
//   - Chunk.CalculateSkyLight: isolated pass for a freshly generated or
//     just-edited chunk, using no neighbor data.
//   - relightFromCache / floodFromCache: the batched cross-chunk pass,
//     reading immutable snapshots of the chunk's surroundings.

// maxFloodSweeps bounds the alternating forward/backward sweep pairs so
// the fill always terminates; an unconverged chunk is refined by a later
// pass rather than treated as an error.
const maxFloodSweeps = 2 * ChunkSize

// CalculateSkyLight recomputes the chunk's light in isolation: top-down
// column seeding, then flood fill. Cross-chunk sideways light arrives
// later via the batched pass.
func (c *Chunk) CalculateSkyLight() {
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			shadow := false
			for y := ChunkSize - 1; y >= 0; y-- {
				if c.Get(x, y, z) != 0 {
					c.SetLight(x, y, z, 0)
					shadow = true
				} else if !shadow {
					c.SetLight(x, y, z, MaxLight)
				} else {
					c.SetLight(x, y, z, 0)
				}
			}
		}
	}
	c.flood(func(dx, dy, dz, x, y, z int) uint8 { return 0 })
}

// neighborLightFunc resolves light one chunk over in the given relative
// direction at the given local coordinates of that neighbor.
type neighborLightFunc func(dx, dy, dz, x, y, z int) uint8

// flood runs alternating forward and backward raise-only sweeps until a
// full pair changes nothing, capped at maxFloodSweeps. Air voxels take
// max(six face neighbors) - 1, saturating at 0; cross-chunk neighbors come
// from nl.
func (c *Chunk) flood(nl neighborLightFunc) {
	for iter := 0; iter < maxFloodSweeps; iter++ {
		change := false

		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				for x := 0; x < ChunkSize; x++ {
					if c.raiseFromNeighbors(x, y, z, nl) {
						change = true
					}
				}
			}
		}

		// Backward sweep accelerates convergence for light travelling
		// against the forward iteration order.
		for y := ChunkSize - 1; y >= 0; y-- {
			for z := ChunkSize - 1; z >= 0; z-- {
				for x := ChunkSize - 1; x >= 0; x-- {
					if c.raiseFromNeighbors(x, y, z, nl) {
						change = true
					}
				}
			}
		}

		if !change {
			break
		}
	}
}

func (c *Chunk) raiseFromNeighbors(x, y, z int, nl neighborLightFunc) bool {
	if c.Get(x, y, z) != 0 {
		return false
	}

	var max uint8

	// In-chunk neighbors.
	if x > 0 {
		max = maxLightOf(max, c.GetLight(x-1, y, z))
	}
	if x < ChunkSize-1 {
		max = maxLightOf(max, c.GetLight(x+1, y, z))
	}
	if y > 0 {
		max = maxLightOf(max, c.GetLight(x, y-1, z))
	}
	if y < ChunkSize-1 {
		max = maxLightOf(max, c.GetLight(x, y+1, z))
	}
	if z > 0 {
		max = maxLightOf(max, c.GetLight(x, y, z-1))
	}
	if z < ChunkSize-1 {
		max = maxLightOf(max, c.GetLight(x, y, z+1))
	}

	// Cross-chunk neighbors at the boundary.
	if x == 0 {
		max = maxLightOf(max, nl(-1, 0, 0, ChunkSize-1, y, z))
	}
	if x == ChunkSize-1 {
		max = maxLightOf(max, nl(1, 0, 0, 0, y, z))
	}
	if y == 0 {
		max = maxLightOf(max, nl(0, -1, 0, x, ChunkSize-1, z))
	}
	if y == ChunkSize-1 {
		max = maxLightOf(max, nl(0, 1, 0, x, 0, z))
	}
	if z == 0 {
		max = maxLightOf(max, nl(0, 0, -1, x, y, ChunkSize-1))
	}
	if z == ChunkSize-1 {
		max = maxLightOf(max, nl(0, 0, 1, x, y, 0))
	}

	var propagated uint8
	if max > 0 {
		propagated = max - 1
	}
	if propagated > c.GetLight(x, y, z) {
		c.SetLight(x, y, z, propagated)
		return true
	}
	return false
}

func maxLightOf(a, b uint8) uint8 {
	if b > a {
		return b
	}
	return a
}

// chunkSnapshot is a read-only copy of a chunk's arrays, taken before a
// batch mutates anything so every chunk in the batch reads a consistent
// pre-batch view.
type chunkSnapshot struct {
	blocks []uint16
	lights []uint8
}

func snapshotOf(c *Chunk) *chunkSnapshot {
	blocks := make([]uint16, ChunkVolume)
	copy(blocks, c.Blocks)
	lights := make([]uint8, ChunkVolume)
	copy(lights, c.Lights)
	return &chunkSnapshot{blocks: blocks, lights: lights}
}

func (s *chunkSnapshot) get(x, y, z int) uint16 {
	if !inChunk(x, y, z) {
		return 0
	}
	return s.blocks[chunkIndex(x, y, z)]
}

func (s *chunkSnapshot) light(x, y, z int) uint8 {
	if !inChunk(x, y, z) {
		return MaxLight
	}
	return s.lights[chunkIndex(x, y, z)]
}

type snapshotCache map[ChunkCoord]*chunkSnapshot

// cachedLight looks up a neighbor's light through the cache. A chunk
// absent from the cache contributes no light.
func (sc snapshotCache) cachedLight(coord ChunkCoord, x, y, z int) uint8 {
	if s, ok := sc[coord]; ok {
		return s.light(x, y, z)
	}
	return 0
}

// columnShadowCap bounds the upward walk when checking sky access. Beyond
// it the column is assumed open; this is an approximation, not a model
// bound.
const columnShadowCap = 8

// columnShadowed reports whether any solid block sits above the column in
// up to columnShadowCap chunks of cached data. A missing chunk reads as
// open sky.
func columnShadowed(x, z int, coord ChunkCoord, cache snapshotCache) bool {
	check := coord.Offset(0, 1, 0)
	for i := 0; i < columnShadowCap; i++ {
		above, ok := cache[check]
		if !ok {
			return false
		}
		for y := 0; y < ChunkSize; y++ {
			if above.get(x, y, z) != 0 {
				return true
			}
		}
		check = check.Offset(0, 1, 0)
	}
	return false
}

// relightFromCache is the batch pass 0: reset every column's direct sky
// light using the cached upward shadow walk, then flood.
func relightFromCache(c *Chunk, cache snapshotCache) {
	coord := c.Coord
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			shadow := columnShadowed(x, z, coord, cache)
			for y := ChunkSize - 1; y >= 0; y-- {
				if c.Get(x, y, z) != 0 {
					c.SetLight(x, y, z, 0)
					shadow = true
				} else if !shadow {
					c.SetLight(x, y, z, MaxLight)
				} else {
					c.SetLight(x, y, z, 0)
				}
			}
		}
	}
	floodFromCache(c, cache)
}

// floodFromCache is the flood-only pass used after pass 0, keeping the
// direct-light columns and only letting neighbor light spread in.
func floodFromCache(c *Chunk, cache snapshotCache) {
	coord := c.Coord
	c.flood(func(dx, dy, dz, x, y, z int) uint8 {
		return cache.cachedLight(coord.Offset(dx, dy, dz), x, y, z)
	})
}
