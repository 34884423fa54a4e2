package catalogs

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

//go:embed blocks.json
var defaultBlocksJSON []byte

//go:embed blocks.schema.json
var blocksSchemaJSON string

// Atlas geometry: 16x16 tiles on a 256px sheet. The half-texel pad keeps
// sampling off neighboring tiles.
const (
	atlasTiles = 16
	atlasTile  = 1.0 / atlasTiles
	atlasPad   = 0.001953125
)

type Catalogs struct {
	Blocks BlockCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          []BlockDef
	PaletteDigest string
	DefsDigest    string
}

// AtlasCoord addresses one tile of the texture atlas by column and row.
type AtlasCoord struct {
	Col uint8
	Row uint8
}

// UV returns the padded texture rectangle for the tile as u0, v0, u1, v1.
func (a AtlasCoord) UV() (u0, v0, u1, v1 float32) {
	u0 = float32(a.Col)*atlasTile + atlasPad
	v0 = float32(a.Row)*atlasTile + atlasPad
	u1 = float32(a.Col+1)*atlasTile - atlasPad
	v1 = float32(a.Row+1)*atlasTile - atlasPad
	return
}

// FaceTex is the resolved appearance of one block face.
type FaceTex struct {
	Tex        AtlasCoord
	Tint       [3]float32
	Overlay    AtlasCoord
	HasOverlay bool
}

type BlockDef struct {
	Name        string
	DisplayName string
	Solid       bool
	Transparent bool
	Emission    uint8
	Top         FaceTex
	Bottom      FaceTex
	Side        FaceTex
}

// rawBlockDef is the on-disk shape before face resolution.
type rawBlockDef struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Solid       bool   `json:"solid"`
	Transparent bool   `json:"transparent,omitempty"`
	Emission    uint8  `json:"emission,omitempty"`
	Faces       struct {
		All         *[2]uint8 `json:"all,omitempty"`
		Top         *[2]uint8 `json:"top,omitempty"`
		Bottom      *[2]uint8 `json:"bottom,omitempty"`
		Side        *[2]uint8 `json:"side,omitempty"`
		SideOverlay *[2]uint8 `json:"side_overlay,omitempty"`
	} `json:"faces"`
	Tints struct {
		Top    *[3]float32 `json:"top,omitempty"`
		Bottom *[3]float32 `json:"bottom,omitempty"`
		Side   *[3]float32 `json:"side,omitempty"`
	} `json:"tints,omitempty"`
}

// Load reads catalogs from configDir. A missing blocks.json falls back to
// the embedded defaults so a bare checkout still runs.
func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	path := ""
	if configDir != "" {
		path = filepath.Join(configDir, "blocks.json")
	}
	if err := loadBlocks(path, &c.Blocks); err != nil {
		return nil, err
	}
	return &c, nil
}

// Def returns the block definition for id. Unknown ids read as solid stone
// so a corrupt payload never punches holes in the mesh.
func (bc *BlockCatalog) Def(id uint16) BlockDef {
	if int(id) < len(bc.Defs) {
		return bc.Defs[id]
	}
	d := bc.Defs[0]
	d.Solid = true
	return d
}

// Solid reports whether id occludes light and neighboring faces. Air is
// always palette id 0.
func (bc *BlockCatalog) Solid(id uint16) bool {
	if int(id) < len(bc.Defs) {
		return bc.Defs[id].Solid
	}
	return true
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw := defaultBlocksJSON
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			raw = b
		case os.IsNotExist(err):
		default:
			return err
		}
	}
	out.DefsDigest = sha256Hex(raw)

	if err := validateBlocks(raw); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}

	var defs []rawBlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}

	byID := make(map[string]rawBlockDef, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if _, dup := byID[d.ID]; dup {
			return fmt.Errorf("blocks.json: duplicate id %q", d.ID)
		}
		byID[d.ID] = d
	}

	// Ensure air exists and is palette id 0.
	if _, ok := byID["air"]; !ok {
		return fmt.Errorf("blocks.json: missing air")
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		if id == "air" {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ids = append([]string{"air"}, ids...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	out.Defs = make([]BlockDef, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
		out.Defs[i] = resolveFaces(byID[id])
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func resolveFaces(r rawBlockDef) BlockDef {
	d := BlockDef{
		Name:        r.ID,
		DisplayName: r.Name,
		Solid:       r.Solid,
		Transparent: r.Transparent,
		Emission:    r.Emission,
	}
	if d.DisplayName == "" {
		d.DisplayName = r.ID
	}
	white := [3]float32{1, 1, 1}
	d.Top.Tint, d.Bottom.Tint, d.Side.Tint = white, white, white

	coord := func(p *[2]uint8) (AtlasCoord, bool) {
		if p == nil {
			return AtlasCoord{}, false
		}
		return AtlasCoord{Col: p[0], Row: p[1]}, true
	}

	if c, ok := coord(r.Faces.All); ok {
		d.Top.Tex, d.Bottom.Tex, d.Side.Tex = c, c, c
	}
	if c, ok := coord(r.Faces.Top); ok {
		d.Top.Tex = c
	}
	if c, ok := coord(r.Faces.Bottom); ok {
		d.Bottom.Tex = c
	}
	if c, ok := coord(r.Faces.Side); ok {
		d.Side.Tex = c
	}
	if r.Tints.Top != nil {
		d.Top.Tint = *r.Tints.Top
	}
	if r.Tints.Bottom != nil {
		d.Bottom.Tint = *r.Tints.Bottom
	}
	if r.Tints.Side != nil {
		d.Side.Tint = *r.Tints.Side
	}
	if c, ok := coord(r.Faces.SideOverlay); ok {
		// Overlaid sides pick up the top tint so grass edges match the turf.
		d.Side.Overlay = c
		d.Side.HasOverlay = true
		if r.Tints.Side == nil {
			d.Side.Tint = d.Top.Tint
		}
	}
	return d
}

func validateBlocks(raw []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return blocksSchema.Validate(v)
}
