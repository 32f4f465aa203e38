package gameplay

import "github.com/pico-mc/picocore/pkg/world"

// AddItemToInventory finds a suitable slot for (itemID, count), stacking
// into an existing matching stack before falling back to an empty slot.
// Hotbar is tried before main storage, same order as the teacher's
// addItemToInventory. Returns the slot index and true on success, or -1
// and false if every slot is full.
func AddItemToInventory(p *world.Player, itemID uint16, count byte) (int, bool) {
	if slot, ok := stackInto(p, SlotHotbarStart, SlotHotbarEnd, itemID, count); ok {
		return slot, true
	}
	if slot, ok := stackInto(p, SlotMainStart, SlotMainEnd, itemID, count); ok {
		return slot, true
	}
	if slot, ok := emptySlotIn(p, SlotHotbarStart, SlotHotbarEnd, itemID, count); ok {
		return slot, true
	}
	if slot, ok := emptySlotIn(p, SlotMainStart, SlotMainEnd, itemID, count); ok {
		return slot, true
	}
	return -1, false
}

func stackInto(p *world.Player, lo, hi int, itemID uint16, count byte) (int, bool) {
	for i := lo; i <= hi; i++ {
		slot := &p.Inventory[i]
		if slot.ItemID == itemID && slot.Count > 0 && int(slot.Count)+int(count) <= maxStackSize {
			slot.Count += count
			return i, true
		}
	}
	return -1, false
}

func emptySlotIn(p *world.Player, lo, hi int, itemID uint16, count byte) (int, bool) {
	for i := lo; i <= hi; i++ {
		if p.Inventory[i].Count == 0 {
			p.Inventory[i] = world.ItemStack{ItemID: itemID, Count: count}
			return i, true
		}
	}
	return -1, false
}

// RemoveFromSlot removes up to count items from a slot, returning how many
// were actually removed and clearing the slot if it becomes empty.
func RemoveFromSlot(p *world.Player, slot int, count byte) byte {
	if slot < 0 || slot >= world.InventorySize {
		return 0
	}
	s := &p.Inventory[slot]
	if s.Count == 0 {
		return 0
	}
	removed := count
	if removed > s.Count {
		removed = s.Count
	}
	s.Count -= removed
	if s.Count == 0 {
		s.ItemID = 0
	}
	return removed
}

// HeldItem returns the item stack in the player's currently selected
// hotbar slot.
func HeldItem(p *world.Player) world.ItemStack {
	return p.Inventory[SlotHotbarStart+int(p.SelectedSlot)]
}
