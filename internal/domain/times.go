package domain

import "time"

// SlotLayout is the wire format for daily reminder slots: "HH:MM", 24-hour,
// server-local. No timezone is stored.
const SlotLayout = "15:04"

// ValidSlot reports whether s is a well-formed HH:MM time slot.
func ValidSlot(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(SlotLayout, s)
	return err == nil
}

// ValidSlots reports whether every entry is a well-formed HH:MM time slot.
func ValidSlots(slots []string) bool {
	for _, s := range slots {
		if !ValidSlot(s) {
			return false
		}
	}
	return true
}
