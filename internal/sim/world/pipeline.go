package world

// Batched relight and remesh. Dirty chunks are processed against immutable
// snapshots so that every chunk in a batch sees the same pre-batch state,
// then re-snapshotted between flood passes so light converges across chunk
// boundaries.

const relightPasses = 4

// processDirty relights and remeshes up to RelightBatchMax dirty chunks.
// Higher chunks go first so sky light flows downward within the batch.
func (w *World) processDirty() (relit, remeshed int) {
	if len(w.dirty) == 0 {
		return 0, 0
	}

	batch := make([]ChunkCoord, 0, len(w.dirty))
	for coord := range w.dirty {
		if _, ok := w.chunks[coord]; ok {
			batch = append(batch, coord)
		} else {
			delete(w.dirty, coord)
		}
	}
	sortCoordsForProcessing(batch, w.viewer)
	if max := w.cfg.RelightBatchMax; len(batch) > max {
		batch = batch[:max]
	}

	cache := w.snapshotBatch(batch)

	for pass := 0; pass < relightPasses; pass++ {
		for _, coord := range batch {
			c := w.chunks[coord]
			if pass == 0 {
				relightFromCache(c, cache)
			} else {
				floodFromCache(c, cache)
			}
		}
		if pass == relightPasses-1 {
			break
		}
		for _, coord := range batch {
			cache[coord] = snapshotOf(w.chunks[coord])
		}
	}
	relit = len(batch)

	for _, coord := range batch {
		c := w.chunks[coord]
		cache[coord] = snapshotOf(c)
		view := snapshotView{coord: coord, cache: cache}
		m := BuildMeshWithView(c, w.cat, w.sky, view)
		if m != nil {
			w.meshes[coord] = m
		} else {
			delete(w.meshes, coord)
		}
		w.meshedSky[coord] = w.sky
		delete(w.dirty, coord)
		remeshed++
	}
	return relit, remeshed
}

// snapshotBatch captures each batch chunk, its six face neighbors, and the
// column of chunks above it that the shadow walk consults. Unloaded
// coordinates stay absent from the cache and read as open sky or darkness
// depending on the consumer.
func (w *World) snapshotBatch(batch []ChunkCoord) snapshotCache {
	cache := snapshotCache{}
	snap := func(coord ChunkCoord) {
		if _, ok := cache[coord]; ok {
			return
		}
		if c, ok := w.chunks[coord]; ok {
			cache[coord] = snapshotOf(c)
		}
	}
	for _, coord := range batch {
		snap(coord)
		for _, n := range faceNeighbors(coord) {
			snap(n)
		}
		for dy := 2; dy <= columnShadowCap; dy++ {
			snap(coord.Offset(0, dy, 0))
		}
	}
	return cache
}
