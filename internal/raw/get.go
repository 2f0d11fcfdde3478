package raw

// get implements the Get protocol (spec §4.2) against a single table,
// returning a redirect table when the probe lands on a Copied marker.
func (t *table) get(hash uint64, key any) (value any, ok bool, redirect *table) {
	limit := probeLen(t.size())
	for i := uint64(0); i < limit; i++ {
		idx := probeIndex(hash, t.mask, i)
		st := t.slots[idx].load()

		switch {
		case isEmpty(st):
			return nil, false, nil
		case isTombstone(st):
			continue
		case isCopied(st):
			if nxt := t.next.Load(); nxt != nil {
				return nil, false, nxt
			}
			continue
		case isEntry(st), isCopyLocked(st):
			e := entryOf(st)
			if e.key == key {
				return e.value, true, nil
			}
		}
	}
	return nil, false, nil
}

// getEntry is get's (&K, &V) sibling, used for get_key_value and to
// recover the stored key in remove_entry.
func (t *table) getEntry(hash uint64, key any) (k, v any, ok bool, redirect *table) {
	limit := probeLen(t.size())
	for i := uint64(0); i < limit; i++ {
		idx := probeIndex(hash, t.mask, i)
		st := t.slots[idx].load()

		switch {
		case isEmpty(st):
			return nil, nil, false, nil
		case isTombstone(st):
			continue
		case isCopied(st):
			if nxt := t.next.Load(); nxt != nil {
				return nil, nil, false, nxt
			}
			continue
		case isEntry(st), isCopyLocked(st):
			e := entryOf(st)
			if e.key == key {
				return e.key, e.value, true, nil
			}
		}
	}
	return nil, nil, false, nil
}
