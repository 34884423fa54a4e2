package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelgarden/internal/sim/catalogs"
)

// Mesh is the face-culled surface geometry of one chunk, chunk-local
// positions in 0..ChunkSize. OverlayUVs carries the side overlay texture
// rectangle, or {0,0} on every corner when the face has none. Colors pack
// the face tint in RGB and the baked brightness in A.
type Mesh struct {
	Positions  []mgl32.Vec3
	Normals    []mgl32.Vec3
	UVs        []mgl32.Vec2
	OverlayUVs []mgl32.Vec2
	Colors     []mgl32.Vec4
	Indices    []uint32
}

// FaceCount returns the number of emitted quads.
func (m *Mesh) FaceCount() int {
	return len(m.Positions) / 4
}

// minBrightness keeps caves dim instead of pitch black.
const minBrightness = 0.05

// lightToBrightness clamps stored light against the global sky level and
// maps it through ((l+1)/16)^1.5.
func lightToBrightness(light, skyLevel uint8) float32 {
	effective := light
	if skyLevel < effective {
		effective = skyLevel
	}
	normalized := (float64(effective) + 1.0) / 16.0
	b := float32(math.Pow(normalized, 1.5))
	if b < minBrightness {
		return minBrightness
	}
	return b
}

// NeighborView resolves block and light lookups one chunk over. (dx,dy,dz)
// is the relative chunk direction, (x,y,z) local coordinates inside that
// neighbor. Implementations bake in their own missing-neighbor defaults.
type NeighborView interface {
	Block(dx, dy, dz, x, y, z int) uint16
	Light(dx, dy, dz, x, y, z int) uint8
}

// NeighborChunks adapts live chunk references (any of which may be nil)
// to a NeighborView. Missing neighbors read as air, so boundary faces stay
// visible until the neighbor loads; missing light reads as open sky
// sideways and above, dark below.
type NeighborChunks struct {
	West, East   *Chunk // -X, +X
	Down, Up     *Chunk // -Y, +Y
	North, South *Chunk // -Z, +Z
}

func (n NeighborChunks) at(dx, dy, dz int) *Chunk {
	switch {
	case dx < 0:
		return n.West
	case dx > 0:
		return n.East
	case dy < 0:
		return n.Down
	case dy > 0:
		return n.Up
	case dz < 0:
		return n.North
	case dz > 0:
		return n.South
	}
	return nil
}

func (n NeighborChunks) Block(dx, dy, dz, x, y, z int) uint16 {
	if c := n.at(dx, dy, dz); c != nil {
		return c.Get(x, y, z)
	}
	return 0
}

func (n NeighborChunks) Light(dx, dy, dz, x, y, z int) uint8 {
	if c := n.at(dx, dy, dz); c != nil {
		return c.GetLight(x, y, z)
	}
	if dy < 0 {
		// Below ground with nothing loaded: assume dark.
		return 0
	}
	return MaxLight
}

// snapshotView adapts a batch snapshot cache to a NeighborView. Unlike the
// live view it treats missing neighbors as dark: within a batch everything
// relevant was snapshotted up front, so absence means unloaded space whose
// light must not leak in.
type snapshotView struct {
	coord ChunkCoord
	cache snapshotCache
}

func (v snapshotView) Block(dx, dy, dz, x, y, z int) uint16 {
	if s, ok := v.cache[v.coord.Offset(dx, dy, dz)]; ok {
		return s.get(x, y, z)
	}
	return 0
}

func (v snapshotView) Light(dx, dy, dz, x, y, z int) uint8 {
	return v.cache.cachedLight(v.coord.Offset(dx, dy, dz), x, y, z)
}

// faceSpec drives one of the six quad emitters: relative direction, the
// four corner offsets in index-pattern order, the UV corner selectors
// (0 = min, 1 = max), directional shade, and which catalog face to use.
type faceSpec struct {
	dx, dy, dz int
	normal     mgl32.Vec3
	shade      float32
	corners    [4][3]float32
	uvSel      [4][2]int
	side       bool // side faces can carry an overlay
}

// Vertical faces swap V because the atlas image has V=0 at the top.
var faceSpecs = [6]faceSpec{
	{ // up (+Y)
		dy: 1, normal: mgl32.Vec3{0, 1, 0}, shade: 1.0,
		corners: [4][3]float32{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
		uvSel:   [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	},
	{ // down (-Y)
		dy: -1, normal: mgl32.Vec3{0, -1, 0}, shade: 0.5,
		corners: [4][3]float32{{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0}},
		uvSel:   [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	},
	{ // south (+Z)
		dz: 1, normal: mgl32.Vec3{0, 0, 1}, shade: 0.8, side: true,
		corners: [4][3]float32{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}, {1, 0, 1}},
		uvSel:   [4][2]int{{0, 1}, {0, 0}, {1, 0}, {1, 1}},
	},
	{ // north (-Z)
		dz: -1, normal: mgl32.Vec3{0, 0, -1}, shade: 0.8, side: true,
		corners: [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		uvSel:   [4][2]int{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
	},
	{ // east (+X)
		dx: 1, normal: mgl32.Vec3{1, 0, 0}, shade: 0.6, side: true,
		corners: [4][3]float32{{1, 0, 0}, {1, 0, 1}, {1, 1, 1}, {1, 1, 0}},
		uvSel:   [4][2]int{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
	},
	{ // west (-X)
		dx: -1, normal: mgl32.Vec3{-1, 0, 0}, shade: 0.6, side: true,
		corners: [4][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0, 1}},
		uvSel:   [4][2]int{{0, 1}, {0, 0}, {1, 0}, {1, 1}},
	},
}

// BuildMesh builds a provisional mesh with no neighbor data and full
// daylight, used for a chunk fresh out of generation.
func BuildMesh(c *Chunk, cat *catalogs.BlockCatalog) *Mesh {
	return BuildMeshWithView(c, cat, MaxLight, NeighborChunks{})
}

// BuildMeshWithView walks every voxel and emits a quad for each face whose
// adjacent voxel is air, resolving cross-boundary lookups through view.
// Returns nil when the chunk produces zero faces.
func BuildMeshWithView(c *Chunk, cat *catalogs.BlockCatalog, skyLevel uint8, view NeighborView) *Mesh {
	var m Mesh

	for y := 0; y < ChunkSize; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				id := c.Get(x, y, z)
				if id == 0 {
					continue
				}
				def := cat.Def(id)

				for i := range faceSpecs {
					f := &faceSpecs[i]
					if !faceOpen(c, view, x, y, z, f.dx, f.dy, f.dz) {
						continue
					}
					emitFace(&m, c, view, skyLevel, x, y, z, f, &def)
				}
			}
		}
	}

	if len(m.Positions) == 0 {
		return nil
	}
	return &m
}

// faceOpen reports whether the voxel one step in the face direction is
// air. A face can cross at most one chunk boundary; an unloaded neighbor
// reads as air so the boundary stays visible until proven hidden.
func faceOpen(c *Chunk, view NeighborView, x, y, z, dx, dy, dz int) bool {
	nx, ny, nz := x+dx, y+dy, z+dz
	if inChunk(nx, ny, nz) {
		return c.Get(nx, ny, nz) == 0
	}
	switch {
	case nx < 0:
		return view.Block(-1, 0, 0, ChunkSize-1, y, z) == 0
	case nx >= ChunkSize:
		return view.Block(1, 0, 0, 0, y, z) == 0
	case ny < 0:
		return view.Block(0, -1, 0, x, ChunkSize-1, z) == 0
	case ny >= ChunkSize:
		return view.Block(0, 1, 0, x, 0, z) == 0
	case nz < 0:
		return view.Block(0, 0, -1, x, y, ChunkSize-1) == 0
	default:
		return view.Block(0, 0, 1, x, y, 0) == 0
	}
}

// sampleLight reads the light of the adjacent voxel a face opens onto,
// crossing into the view when the step leaves the chunk.
func sampleLight(c *Chunk, view NeighborView, x, y, z int) uint8 {
	if inChunk(x, y, z) {
		return c.GetLight(x, y, z)
	}
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > ChunkSize-1 {
			return ChunkSize - 1
		}
		return v
	}
	switch {
	case y >= ChunkSize:
		return view.Light(0, 1, 0, clamp(x), 0, clamp(z))
	case y < 0:
		return view.Light(0, -1, 0, clamp(x), ChunkSize-1, clamp(z))
	case x < 0:
		return view.Light(-1, 0, 0, ChunkSize-1, y, clamp(z))
	case x >= ChunkSize:
		return view.Light(1, 0, 0, 0, y, clamp(z))
	case z < 0:
		return view.Light(0, 0, -1, x, y, ChunkSize-1)
	default:
		return view.Light(0, 0, 1, x, y, 0)
	}
}

func emitFace(m *Mesh, c *Chunk, view NeighborView, skyLevel uint8, x, y, z int, f *faceSpec, def *catalogs.BlockDef) {
	base := uint32(len(m.Positions))
	fx, fy, fz := float32(x), float32(y), float32(z)

	for _, corner := range f.corners {
		m.Positions = append(m.Positions, mgl32.Vec3{fx + corner[0], fy + corner[1], fz + corner[2]})
		m.Normals = append(m.Normals, f.normal)
	}

	var tex catalogs.FaceTex
	switch {
	case f.dy > 0:
		tex = def.Top
	case f.dy < 0:
		tex = def.Bottom
	default:
		tex = def.Side
	}

	appendUVRect(&m.UVs, tex.Tex, f.uvSel)

	overlay := f.side && tex.HasOverlay
	if overlay {
		appendUVRect(&m.OverlayUVs, tex.Overlay, f.uvSel)
	} else {
		m.OverlayUVs = append(m.OverlayUVs, mgl32.Vec2{}, mgl32.Vec2{}, mgl32.Vec2{}, mgl32.Vec2{})
	}

	light := sampleLight(c, view, x+f.dx, y+f.dy, z+f.dz)
	brightness := f.shade * lightToBrightness(light, skyLevel)
	color := mgl32.Vec4{tex.Tint[0], tex.Tint[1], tex.Tint[2], brightness}
	m.Colors = append(m.Colors, color, color, color, color)

	// Winding per quad: two triangles over corners 0,3,2 and 2,1,0 so the
	// face is visible from its outward normal side.
	m.Indices = append(m.Indices,
		base, base+3, base+2,
		base+2, base+1, base,
	)
}

func appendUVRect(dst *[]mgl32.Vec2, a catalogs.AtlasCoord, sel [4][2]int) {
	u0, v0, u1, v1 := a.UV()
	u := [2]float32{u0, u1}
	v := [2]float32{v0, v1}
	for _, s := range sel {
		*dst = append(*dst, mgl32.Vec2{u[s[0]], v[s[1]]})
	}
}
