// Package pinyin buckets terms under an A-Z initial for index display.
//
// Han characters are classified by comparing them against one reference
// character per initial under Chinese (pinyin) collation. This is an
// approximation: characters with several readings may land in the wrong
// bucket, and no transliteration table is consulted.
package pinyin

import (
	"sort"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Fallback is the bucket for anything that cannot be classified.
const Fallback = "#"

// Boundaries holds the first character of each initial's pinyin range,
// in collation order. Initials has the matching bucket keys; I, U and V
// never start a pinyin syllable.
var (
	Boundaries = []string{
		"啊", "八", "擦", "搭", "蛾", "发", "噶", "哈", "击", "咔", "垃", "妈",
		"拿", "哦", "啪", "期", "然", "撒", "塌", "挖", "昔", "压", "匝",
	}
	Initials = []string{
		"A", "B", "C", "D", "E", "F", "G", "H", "J", "K", "L", "M",
		"N", "O", "P", "Q", "R", "S", "T", "W", "X", "Y", "Z",
	}
)

// collate.Collator keeps scratch buffers and is not safe for concurrent use.
var collators = sync.Pool{
	New: func() interface{} {
		return collate.New(language.Chinese)
	},
}

// Compare orders a and b under Chinese collation.
func Compare(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

// Initial returns the bucket key for s: the upper-cased first letter for
// ASCII letters, the pinyin initial for Han characters, otherwise Fallback.
func Initial(s string) string {
	if s == "" {
		return Fallback
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return Fallback
	}
	switch {
	case r >= 'A' && r <= 'Z':
		return string(r)
	case r >= 'a' && r <= 'z':
		return string(r - 'a' + 'A')
	}

	first := s[:size]
	for i := len(Boundaries) - 1; i >= 0; i-- {
		if Compare(first, Boundaries[i]) >= 0 {
			return Initials[i]
		}
	}
	return Fallback
}

// Group buckets items by the initial of key(item). Only buckets that
// receive an item are present; items keep their input order.
func Group[T any](items []T, key func(T) string) map[string][]T {
	grouped := make(map[string][]T)
	for _, item := range items {
		initial := Initial(key(item))
		grouped[initial] = append(grouped[initial], item)
	}
	return grouped
}

// SortedKeys returns the bucket keys in byte order, which puts Fallback
// ahead of the letters.
func SortedKeys[T any](grouped map[string][]T) []string {
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
