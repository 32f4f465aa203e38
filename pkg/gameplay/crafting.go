package gameplay

import "github.com/pico-mc/picocore/pkg/world"

// Item IDs beyond the 8-bit block palette: picocore reuses block IDs as
// item IDs directly (offset by one, since ItemStack's zero value means
// "empty slot" and block ID 0 is air) and adds a short, fixed list of
// non-block items recipes need.
const itemBlockOffset uint16 = 1 // BlockToItemID(b) = uint16(b) + itemBlockOffset

const (
	ItemStick uint16 = 0x100 + iota
	ItemOakPlanks
)

// BlockToItemID converts a placeable block to its item ID, grounded on the
// teacher's BlockToItemID table, generalized to picocore's 8-bit palette.
func BlockToItemID(b world.Block) uint16 {
	return uint16(b) + itemBlockOffset
}

// ItemIDToBlock is the inverse of BlockToItemID; ok is false for
// non-block items (sticks, planks) that have no placeable form.
func ItemIDToBlock(id uint16) (world.Block, bool) {
	if id == 0 || id > uint16(world.BlockDiamondBlock)+itemBlockOffset {
		return 0, false
	}
	return world.Block(id - itemBlockOffset), true
}

// Recipe is a shaped crafting recipe matched against the player's 2x2
// crafting grid. Grounded on the teacher's CraftingRecipe, trimmed from
// its 3x3-table recipe set to the fixed, shorter list the 2x2 inventory
// grid can express (spec.md §3's 41-slot inventory has no separate
// crafting-table UI).
type Recipe struct {
	Width, Height int
	Ingredients   []uint16 // row-major, 0 means empty cell
	ResultItemID  uint16
	ResultCount   byte
}

// recipes is the fixed recipe table (SUPPLEMENTED FEATURES: crafting).
var recipes = []Recipe{
	{1, 1, []uint16{BlockToItemID(world.BlockOakLog)}, ItemOakPlanks, 4},
	{1, 2, []uint16{ItemOakPlanks, ItemOakPlanks}, ItemStick, 4},
	{1, 2, []uint16{ItemStick, BlockToItemID(world.BlockCoalOre)}, BlockToItemID(world.BlockTorch), 4},
}

// trimGrid returns the smallest bounding box of non-empty cells in a
// width x height grid, along with its own dimensions, so a recipe typed
// into any corner of the 2x2 grid still matches.
func trimGrid(grid []uint16, width, height int) (trimmed []uint16, w, h int) {
	minX, minY, maxX, maxY := width, height, -1, -1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if grid[y*width+x] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return nil, 0, 0
	}
	w = maxX - minX + 1
	h = maxY - minY + 1
	trimmed = make([]uint16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			trimmed[y*w+x] = grid[(minY+y)*width+(minX+x)]
		}
	}
	return trimmed, w, h
}

// MatchRecipe finds the recipe matching a crafting grid (e.g. the 2x2
// inventory grid), trimming surrounding empty cells first so the pattern
// can sit anywhere in the grid. Returns (Recipe{}, false) on no match.
func MatchRecipe(grid []uint16, width, height int) (Recipe, bool) {
	trimmed, w, h := trimGrid(grid, width, height)
	if w == 0 {
		return Recipe{}, false
	}
	for _, r := range recipes {
		if r.Width != w || r.Height != h {
			continue
		}
		match := true
		for i, want := range r.Ingredients {
			if trimmed[i] != want {
				match = false
				break
			}
		}
		if match {
			return r, true
		}
	}
	return Recipe{}, false
}
