package storage

import "sort"

// CountValues returns how many keys in data map to value.
func CountValues(data map[string]string, value string) int {
	count := 0
	for _, v := range data {
		if v == value {
			count++
		}
	}
	return count
}

// SortedKeys returns the keys of data in ascending order.
func SortedKeys(data map[string]string) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
