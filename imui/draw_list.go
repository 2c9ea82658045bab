package imui

import "math"

// TextureID identifies a texture for the renderer backend. The DX12 backend
// stores GPU descriptor handles here.
type TextureID uint64

// DrawIdx is a vertex index. Indices are 16-bit; draw lists start a new
// command with a fresh VtxOffset when a command would address more than
// MaxVerticesPerCmd vertices.
type DrawIdx = uint16

// MaxVerticesPerCmd is the number of vertices a 16-bit index can address.
const MaxVerticesPerCmd = math.MaxUint16 + 1

// DrawVert is one UI vertex.
type DrawVert struct {
	Pos Vec2
	UV  Vec2
	Col Color
}

// DrawVertSize is the size of an encoded DrawVert in bytes.
const DrawVertSize = 20

// DrawCmd is a batch of indexed triangles sharing a clip rectangle and texture.
type DrawCmd struct {
	// ClipRect is (minX, minY, maxX, maxY) in display coordinates.
	ClipRect  Vec4
	TextureID TextureID

	// VtxOffset is added to every index of the command.
	VtxOffset uint32

	// IdxOffset is the first index of the command in IdxBuffer.
	IdxOffset uint32

	// ElemCount is the number of indices, a multiple of 3.
	ElemCount uint32
}

// DrawList is a list of draw commands over one vertex and one index buffer.
//
// Draw lists obtained from Context.DrawList belong to the context and are
// reset on every NewFrame. CloneOutput returns an independent copy.
type DrawList struct {
	Name      string
	CmdBuffer []DrawCmd
	IdxBuffer []DrawIdx
	VtxBuffer []DrawVert

	clipStack  []Vec4
	texStack   []TextureID
	whiteUV    Vec2
	fullscreen Vec4
}

// NewDrawList creates an empty draw list clipping to fullscreen and drawing
// solid fills with the texture texID at whiteUV.
func NewDrawList(name string, fullscreen Vec4, texID TextureID, whiteUV Vec2) *DrawList {
	dl := &DrawList{Name: name}
	dl.reset(fullscreen, texID, whiteUV)
	return dl
}

func (dl *DrawList) reset(fullscreen Vec4, texID TextureID, whiteUV Vec2) {
	dl.CmdBuffer = dl.CmdBuffer[:0]
	dl.IdxBuffer = dl.IdxBuffer[:0]
	dl.VtxBuffer = dl.VtxBuffer[:0]
	dl.clipStack = append(dl.clipStack[:0], fullscreen)
	dl.texStack = append(dl.texStack[:0], texID)
	dl.whiteUV = whiteUV
	dl.fullscreen = fullscreen
	dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{ClipRect: fullscreen, TextureID: texID})
}

// CloneOutput returns a deep copy of the list's output buffers. The copy
// shares no memory with dl, so dl can be reset or reused while the copy is
// being rendered.
func (dl *DrawList) CloneOutput() *DrawList {
	return &DrawList{
		Name:      dl.Name,
		CmdBuffer: append([]DrawCmd(nil), dl.CmdBuffer...),
		IdxBuffer: append([]DrawIdx(nil), dl.IdxBuffer...),
		VtxBuffer: append([]DrawVert(nil), dl.VtxBuffer...),
	}
}

// Empty reports whether the list holds no triangles.
func (dl *DrawList) Empty() bool {
	return len(dl.IdxBuffer) == 0
}

// PushClipRect intersects r with the current clip rectangle and makes the
// result current.
func (dl *DrawList) PushClipRect(min, max Vec2) {
	cur := dl.clipStack[len(dl.clipStack)-1]
	r := Vec4{
		X: maxf(min.X, cur.X),
		Y: maxf(min.Y, cur.Y),
		Z: minf(max.X, cur.Z),
		W: minf(max.Y, cur.W),
	}
	dl.clipStack = append(dl.clipStack, r)
	dl.onStateChanged()
}

// PopClipRect restores the previous clip rectangle.
func (dl *DrawList) PopClipRect() {
	if len(dl.clipStack) > 1 {
		dl.clipStack = dl.clipStack[:len(dl.clipStack)-1]
		dl.onStateChanged()
	}
}

// PushTextureID makes id the current texture.
func (dl *DrawList) PushTextureID(id TextureID) {
	dl.texStack = append(dl.texStack, id)
	dl.onStateChanged()
}

// PopTextureID restores the previous texture.
func (dl *DrawList) PopTextureID() {
	if len(dl.texStack) > 1 {
		dl.texStack = dl.texStack[:len(dl.texStack)-1]
		dl.onStateChanged()
	}
}

func (dl *DrawList) currentClip() Vec4 { return dl.clipStack[len(dl.clipStack)-1] }

func (dl *DrawList) currentTex() TextureID { return dl.texStack[len(dl.texStack)-1] }

// lastCmd returns the command being appended to, starting one if Render
// trimmed the list.
func (dl *DrawList) lastCmd() *DrawCmd {
	if len(dl.CmdBuffer) == 0 {
		dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
			ClipRect:  dl.currentClip(),
			TextureID: dl.currentTex(),
			VtxOffset: uint32(len(dl.VtxBuffer)),
			IdxOffset: uint32(len(dl.IdxBuffer)),
		})
	}
	return &dl.CmdBuffer[len(dl.CmdBuffer)-1]
}

// onStateChanged starts a new command if the current one already has
// triangles, otherwise retargets it.
func (dl *DrawList) onStateChanged() {
	cmd := dl.lastCmd()
	if cmd.ElemCount == 0 {
		cmd.ClipRect = dl.currentClip()
		cmd.TextureID = dl.currentTex()
		return
	}
	dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
		ClipRect:  dl.currentClip(),
		TextureID: dl.currentTex(),
		VtxOffset: cmd.VtxOffset,
		IdxOffset: uint32(len(dl.IdxBuffer)),
	})
}

// primReserve makes room for vtxCount vertices in the current command and
// returns the index base to use for them.
func (dl *DrawList) primReserve(idxCount, vtxCount int) DrawIdx {
	cmd := dl.lastCmd()
	if len(dl.VtxBuffer)-int(cmd.VtxOffset)+vtxCount > MaxVerticesPerCmd {
		dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
			ClipRect:  dl.currentClip(),
			TextureID: dl.currentTex(),
			VtxOffset: uint32(len(dl.VtxBuffer)),
			IdxOffset: uint32(len(dl.IdxBuffer)),
		})
		cmd = &dl.CmdBuffer[len(dl.CmdBuffer)-1]
	}
	cmd.ElemCount += uint32(idxCount)
	return DrawIdx(len(dl.VtxBuffer) - int(cmd.VtxOffset))
}

func (dl *DrawList) primQuadUV(a, b, c, d, uvA, uvB, uvC, uvD Vec2, col Color) {
	base := dl.primReserve(6, 4)
	dl.IdxBuffer = append(dl.IdxBuffer, base, base+1, base+2, base, base+2, base+3)
	dl.VtxBuffer = append(dl.VtxBuffer,
		DrawVert{Pos: a, UV: uvA, Col: col},
		DrawVert{Pos: b, UV: uvB, Col: col},
		DrawVert{Pos: c, UV: uvC, Col: col},
		DrawVert{Pos: d, UV: uvD, Col: col},
	)
}

func (dl *DrawList) primRectUV(min, max, uvMin, uvMax Vec2, col Color) {
	dl.primQuadUV(
		min, Vec2{max.X, min.Y}, max, Vec2{min.X, max.Y},
		uvMin, Vec2{uvMax.X, uvMin.Y}, uvMax, Vec2{uvMin.X, uvMax.Y},
		col,
	)
}

// AddRectFilled adds a solid rectangle.
func (dl *DrawList) AddRectFilled(min, max Vec2, col Color) {
	if col>>24 == 0 {
		return
	}
	dl.primRectUV(min, max, dl.whiteUV, dl.whiteUV, col)
}

// AddRect adds a rectangle outline of the given thickness.
func (dl *DrawList) AddRect(min, max Vec2, col Color, thickness float32) {
	if col>>24 == 0 || thickness <= 0 {
		return
	}
	dl.AddRectFilled(min, Vec2{max.X, min.Y + thickness}, col)
	dl.AddRectFilled(Vec2{min.X, max.Y - thickness}, max, col)
	dl.AddRectFilled(Vec2{min.X, min.Y + thickness}, Vec2{min.X + thickness, max.Y - thickness}, col)
	dl.AddRectFilled(Vec2{max.X - thickness, min.Y + thickness}, Vec2{max.X, max.Y - thickness}, col)
}

// AddLine adds a line segment of the given thickness.
func (dl *DrawList) AddLine(a, b Vec2, col Color, thickness float32) {
	if col>>24 == 0 {
		return
	}
	d := b.Sub(a)
	l := float32(math.Hypot(float64(d.X), float64(d.Y)))
	if l == 0 {
		return
	}
	n := Vec2{-d.Y / l, d.X / l}.Mul(thickness * 0.5)
	w := dl.whiteUV
	dl.primQuadUV(a.Add(n), b.Add(n), b.Sub(n), a.Sub(n), w, w, w, w, col)
}

// AddTriangleFilled adds a solid triangle.
func (dl *DrawList) AddTriangleFilled(a, b, c Vec2, col Color) {
	if col>>24 == 0 {
		return
	}
	base := dl.primReserve(3, 3)
	dl.IdxBuffer = append(dl.IdxBuffer, base, base+1, base+2)
	dl.VtxBuffer = append(dl.VtxBuffer,
		DrawVert{Pos: a, UV: dl.whiteUV, Col: col},
		DrawVert{Pos: b, UV: dl.whiteUV, Col: col},
		DrawVert{Pos: c, UV: dl.whiteUV, Col: col},
	)
}

// AddImage adds a textured rectangle.
func (dl *DrawList) AddImage(tex TextureID, min, max, uvMin, uvMax Vec2, col Color) {
	if col>>24 == 0 {
		return
	}
	push := tex != dl.currentTex()
	if push {
		dl.PushTextureID(tex)
	}
	dl.primRectUV(min, max, uvMin, uvMax, col)
	if push {
		dl.PopTextureID()
	}
}

// AddText adds text drawn with font at the given pixel size. Runes without a
// glyph use the font's fallback glyph. Newlines start a new line.
func (dl *DrawList) AddText(font *Font, size float32, pos Vec2, col Color, text string) {
	if font == nil || col>>24 == 0 || text == "" {
		return
	}
	if size <= 0 {
		size = font.Size
	}
	scale := size / font.Size
	push := font.atlas != nil && font.atlas.TexID != dl.currentTex()
	if push {
		dl.PushTextureID(font.atlas.TexID)
	}
	x, y := pos.X, pos.Y
	for _, r := range text {
		if r == '\n' {
			x = pos.X
			y += size
			continue
		}
		g := font.FindGlyph(r)
		if g == nil {
			continue
		}
		if g.Visible {
			dl.primRectUV(
				Vec2{x + g.X0*scale, y + g.Y0*scale},
				Vec2{x + g.X1*scale, y + g.Y1*scale},
				Vec2{g.U0, g.V0}, Vec2{g.U1, g.V1},
				col,
			)
		}
		x += g.AdvanceX * scale
	}
	if push {
		dl.PopTextureID()
	}
}

// trimTrailingEmptyCmd drops a trailing command with no triangles.
func (dl *DrawList) trimTrailingEmptyCmd() {
	if n := len(dl.CmdBuffer); n > 0 && dl.CmdBuffer[n-1].ElemCount == 0 {
		dl.CmdBuffer = dl.CmdBuffer[:n-1]
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
