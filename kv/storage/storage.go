package storage

// Storage represents the base store beneath the transactional layer: a flat, synchronous mapping from
// string keys to string values. It knows nothing about transactions. Implementations need not be safe
// for concurrent use; the transactional layer serializes access to them.
type Storage interface {
	Set(key, value string)
	// Get returns the value for key and whether the key is present.
	Get(key string) (string, bool)
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)
	// Scan calls fn for every key/value pair until fn returns false.
	Scan(fn func(key, value string) bool)
}

// Snapshot copies the full contents of s into a fresh map. The result is owned by the caller.
func Snapshot(s Storage) map[string]string {
	data := make(map[string]string)
	s.Scan(func(key, value string) bool {
		data[key] = value
		return true
	})
	return data
}
