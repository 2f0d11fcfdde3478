package raw

// entry is an immutable, heap-allocated key/value record. Once
// published into a slot, its key is never mutated and its value is
// never mutated in place - an update or replace always installs a
// fresh entry (spec §3 "Entry<K,V>").
//
// hash is cached at construction so migration and re-probing never
// need to call back into the Hasher: the hash of a key never changes
// across the table's lifetime, only the mask it is probed against
// does.
type entry struct {
	hash  uint64
	key   any
	value any
}

func newEntry(hash uint64, key, value any) *entry {
	return &entry{hash: hash, key: key, value: value}
}
