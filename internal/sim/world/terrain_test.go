package world

import "testing"

func TestGenerateChunkDeterministic(t *testing.T) {
	cat := testCatalog(t)
	mats := MaterialsFrom(cat)
	coord := ChunkCoord{3, 2, -1}

	a := GenerateChunk(coord, 42, mats)
	b := GenerateChunk(coord, 42, mats)
	if a.Digest() != b.Digest() {
		t.Fatalf("same seed produced different chunks")
	}

	c := GenerateChunk(coord, 43, mats)
	if a.Digest() == c.Digest() {
		t.Fatalf("different seeds produced identical chunks")
	}
}

func TestGenerateChunkColumnLayers(t *testing.T) {
	cat := testCatalog(t)
	mats := MaterialsFrom(cat)
	const seed = 42

	h := NewHeightField(seed).HeightAt(0, 0)
	if h < 6 {
		t.Fatalf("surface height at origin = %d, too low for layer checks", h)
	}

	chunks := map[ChunkCoord]*Chunk{}
	blockAt := func(wy int) uint16 {
		coord := ChunkCoordAt(0, wy, 0)
		c, ok := chunks[coord]
		if !ok {
			c = GenerateChunk(coord, seed, mats)
			chunks[coord] = c
		}
		return c.Get(0, mod(wy, ChunkSize), 0)
	}

	if got := blockAt(0); got != mats.Bedrock {
		t.Fatalf("block at y=0 = %d, want bedrock %d", got, mats.Bedrock)
	}
	if got := blockAt(h); got != mats.Grass {
		t.Fatalf("block at surface y=%d = %d, want grass %d", h, got, mats.Grass)
	}
	for wy := h - 3; wy < h; wy++ {
		if got := blockAt(wy); got != mats.Dirt {
			t.Fatalf("block at y=%d = %d, want dirt %d", wy, got, mats.Dirt)
		}
	}
	if got := blockAt(h - 4); got != mats.Stone {
		t.Fatalf("block at y=%d = %d, want stone %d", h-4, got, mats.Stone)
	}
	if got := blockAt(h + 1); got != 0 {
		t.Fatalf("block above surface = %d, want air", got)
	}
}

func TestGenerateChunkBelowZeroIsAir(t *testing.T) {
	cat := testCatalog(t)
	c := GenerateChunk(ChunkCoord{0, -1, 0}, 42, MaterialsFrom(cat))
	for i, id := range c.Blocks {
		if id != 0 {
			t.Fatalf("negative-Y chunk has block %d at index %d, want all air", id, i)
		}
	}
}

func TestGenerateChunkLightsComputed(t *testing.T) {
	cat := testCatalog(t)
	c := GenerateChunk(ChunkCoord{0, 0, 0}, 42, MaterialsFrom(cat))
	// Well below the surface everything is solid and therefore dark.
	if got := c.GetLight(0, 1, 0); got != 0 {
		t.Fatalf("buried voxel light = %d, want 0", got)
	}
}

func TestHeightFieldSmoothness(t *testing.T) {
	hf := NewHeightField(42)
	prev := hf.HeightAt(0, 0)
	for x := 1; x < 64; x++ {
		h := hf.HeightAt(x, 0)
		if d := absInt(h - prev); d > 6 {
			t.Fatalf("height jumped by %d between x=%d and x=%d", d, x-1, x)
		}
		prev = h
	}
}
