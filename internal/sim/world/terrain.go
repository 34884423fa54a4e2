package world

import (
	"github.com/ojrac/opensimplex-go"

	"voxelgarden/internal/sim/catalogs"
)

// Materials are the palette ids terrain generation needs, resolved once
// from the catalog so generation tasks never touch it.
type Materials struct {
	Bedrock uint16
	Stone   uint16
	Dirt    uint16
	Grass   uint16
}

// MaterialsFrom resolves the four terrain materials. A missing id resolves
// to air, which degrades to holes rather than failing.
func MaterialsFrom(cat *catalogs.BlockCatalog) Materials {
	return Materials{
		Bedrock: cat.Index["bedrock"],
		Stone:   cat.Index["stone"],
		Dirt:    cat.Index["dirt"],
		Grass:   cat.Index["grass"],
	}
}

// HeightField evaluates the terrain height surface for one seed.
type HeightField struct {
	noise opensimplex.Noise
}

func NewHeightField(seed int64) HeightField {
	return HeightField{noise: opensimplex.New(seed)}
}

// HeightAt sums five noise octaves with decreasing amplitude and
// increasing frequency over a base elevation of 32. Heights land roughly
// between -9 and 73.
func (h HeightField) HeightAt(wx, wz int) int {
	x := float64(wx)
	z := float64(wz)

	continental := h.noise.Eval2(x/256.0, z/256.0) * 20.0
	regional := h.noise.Eval2(x/64.0, z/64.0) * 12.0
	local := h.noise.Eval2(x/32.0, z/32.0) * 6.0
	detail := h.noise.Eval2(x/16.0, z/16.0) * 2.0
	micro := h.noise.Eval2(x/8.0, z/8.0) * 1.0

	return int(32.0 + continental + regional + local + detail + micro)
}

// GenerateChunk builds and sky-lights a chunk. It is a pure function of
// (coord, seed, mats) so generation tasks can run it concurrently with no
// shared state, and identical inputs always produce byte-identical output.
func GenerateChunk(coord ChunkCoord, seed int64, mats Materials) *Chunk {
	c := NewChunk(coord)
	hf := NewHeightField(seed)

	ox, oy, oz := coord.Origin()

	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			height := hf.HeightAt(ox+x, oz+z)

			for y := 0; y < ChunkSize; y++ {
				wy := oy + y
				depth := height - wy

				var id uint16
				switch {
				case wy < 0:
					id = 0
				case wy == 0:
					id = mats.Bedrock
				case wy > height:
					id = 0
				case depth == 0:
					id = mats.Grass
				case depth <= 3:
					id = mats.Dirt
				default:
					id = mats.Stone
				}
				c.Set(x, y, z, id)
			}
		}
	}

	// Light the chunk before anyone can observe it.
	c.CalculateSkyLight()
	return c
}
