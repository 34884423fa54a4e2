package world

// SetBlockAt writes a block id at a world-space position. The containing
// chunk gets an immediate isolated relight and is queued for the batched
// pass; face neighbors are queued only when the edit sits on the shared
// boundary. Returns false when the chunk is not loaded.
func (w *World) SetBlockAt(wx, wy, wz int, id uint16) bool {
	coord := ChunkCoordAt(wx, wy, wz)
	c, ok := w.chunks[coord]
	if !ok {
		return false
	}
	lx := mod(wx, ChunkSize)
	ly := mod(wy, ChunkSize)
	lz := mod(wz, ChunkSize)

	c.Set(lx, ly, lz, id)
	c.CalculateSkyLight()
	w.markDirty(coord)

	if lx == 0 {
		w.markDirty(coord.Offset(-1, 0, 0))
	}
	if lx == ChunkSize-1 {
		w.markDirty(coord.Offset(1, 0, 0))
	}
	if ly == 0 {
		w.markDirty(coord.Offset(0, -1, 0))
	}
	if ly == ChunkSize-1 {
		w.markDirty(coord.Offset(0, 1, 0))
	}
	if lz == 0 {
		w.markDirty(coord.Offset(0, 0, -1))
	}
	if lz == ChunkSize-1 {
		w.markDirty(coord.Offset(0, 0, 1))
	}
	return true
}

// BreakBlockAt clears the block at a world-space position.
func (w *World) BreakBlockAt(wx, wy, wz int) bool {
	return w.SetBlockAt(wx, wy, wz, 0)
}

// BlockAt reads the block id at a world-space position; unloaded chunks
// read as air.
func (w *World) BlockAt(wx, wy, wz int) uint16 {
	c, ok := w.chunks[ChunkCoordAt(wx, wy, wz)]
	if !ok {
		return 0
	}
	return c.Get(mod(wx, ChunkSize), mod(wy, ChunkSize), mod(wz, ChunkSize))
}

// LightAt reads the stored sky light at a world-space position; unloaded
// chunks read fully lit.
func (w *World) LightAt(wx, wy, wz int) uint8 {
	c, ok := w.chunks[ChunkCoordAt(wx, wy, wz)]
	if !ok {
		return MaxLight
	}
	return c.GetLight(mod(wx, ChunkSize), mod(wy, ChunkSize), mod(wz, ChunkSize))
}
