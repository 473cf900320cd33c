// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Mismatch describes one placeholder that the translation does not preserve.
// Want is empty for a placeholder the translation added; Got is empty for one
// it dropped.
type Mismatch struct {
	Slot string // "#2" for the second implicit printf argument, "%2$" or "%2" for numbered ones
	Want string
	Got  string
}

func (m Mismatch) String() string {
	switch {
	case m.Got == "":
		return fmt.Sprintf("%s: missing %s", m.Slot, m.Want)
	case m.Want == "":
		return fmt.Sprintf("%s: unexpected %s", m.Slot, m.Got)
	default:
		return fmt.Sprintf("%s: want %s, got %s", m.Slot, m.Want, m.Got)
	}
}

type argSet struct {
	seq      []string
	numbered map[int]string
	qt       map[int]bool
	count    bool
}

func collect(s string) argSet {
	set := argSet{numbered: map[int]string{}, qt: map[int]bool{}}

	for _, p := range Parse(s) {
		switch {
		case p.Kind == Count:
			set.count = true
		case p.Kind == Qt:
			set.qt[p.ArgNum] = true
		case p.ArgNum > 0:
			set.numbered[p.ArgNum] = p.Signature()
		default:
			set.seq = append(set.seq, p.Signature())
		}
	}

	return set
}

// Compare reports the placeholders of source that translation does not
// preserve. Implicit printf conversions must appear in the same order with the
// same argument types; numbered printf conversions and Qt markers may be
// reordered. A numerus form may omit %n but may not introduce it.
// A nil result means the translation is safe to format with the source's arguments.
func Compare(source, translation string) []Mismatch {
	src, dst := collect(source), collect(translation)

	var out []Mismatch

	for i := range max(len(src.seq), len(dst.seq)) {
		var want, got string
		if i < len(src.seq) {
			want = src.seq[i]
		}

		if i < len(dst.seq) {
			got = dst.seq[i]
		}

		if want != got {
			out = append(out, Mismatch{Slot: "#" + strconv.Itoa(i+1), Want: want, Got: got})
		}
	}

	for _, n := range unionKeys(src.numbered, dst.numbered) {
		if want, got := src.numbered[n], dst.numbered[n]; want != got {
			out = append(out, Mismatch{Slot: "%" + strconv.Itoa(n) + "$", Want: want, Got: got})
		}
	}

	for _, n := range unionKeys(src.qt, dst.qt) {
		if src.qt[n] != dst.qt[n] {
			m := Mismatch{Slot: "%" + strconv.Itoa(n)}
			if src.qt[n] {
				m.Want = m.Slot
			} else {
				m.Got = m.Slot
			}

			out = append(out, m)
		}
	}

	if dst.count && !src.count {
		out = append(out, Mismatch{Slot: "%n", Got: "%n"})
	}

	return out
}

// Preserved reports whether translation keeps every placeholder of source.
func Preserved(source, translation string) bool {
	return len(Compare(source, translation)) == 0
}

func unionKeys[V any](a, b map[int]V) []int {
	keys := slices.Collect(maps.Keys(a))
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	return keys
}
