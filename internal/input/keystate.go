package input

// KeyStateTable tracks the last known down/up state of every virtual
// key code. It is owned by the normalizer: only the capture callback
// mutates it, and the replay side never sees it, only the snapshots
// built from it.
type KeyStateTable [256]bool

// isModifier reports whether vk is one of the eight modifier codes
// excluded from the snapshot key slots.
func isModifier(vk uint32) bool {
	switch vk {
	case VKLControl, VKRControl, VKLShift, VKRShift,
		VKLAlt, VKRAlt, VKLMeta, VKRMeta:
		return true
	}
	return false
}

// Set records a down/up transition. It returns false when the new
// state matches what is already recorded, which is how duplicate
// hardware notifications are detected.
func (t *KeyStateTable) Set(vk uint32, down bool) bool {
	if vk > 255 {
		return false
	}
	if t[vk] == down {
		return false
	}
	t[vk] = down
	return true
}

// Modifiers folds the left/right modifier pairs into the 4-bit mask.
func (t *KeyStateTable) Modifiers() uint8 {
	var m uint8
	if t[VKLControl] || t[VKRControl] {
		m |= ModCtrl
	}
	if t[VKLShift] || t[VKRShift] {
		m |= ModShift
	}
	if t[VKLAlt] || t[VKRAlt] {
		m |= ModAlt
	}
	if t[VKLMeta] || t[VKRMeta] {
		m |= ModMeta
	}
	return m
}

// Snapshot builds a full keyboard report from the current table:
// modifier mask plus up to MaxKeys held non-modifier keys, scanned in
// ascending code order. Keys beyond the cap are dropped.
func (t *KeyStateTable) Snapshot(timestamp uint32) KeyboardReport {
	report := KeyboardReport{
		Modifiers: t.Modifiers(),
		Timestamp: timestamp,
	}
	slot := 0
	for code := 0; code < 256 && slot < MaxKeys; code++ {
		if t[code] && !isModifier(uint32(code)) {
			report.Keys[slot] = uint8(code)
			slot++
		}
	}
	return report
}
