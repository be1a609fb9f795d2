// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"encoding/binary"
	"testing"
)

// walk_available independently counts the slots hardware can have
// completed: walk forward from the slot after tail until head.
func walk_available(ring_len, head, tail uint) (n uint) {
	for i := (tail + 1) % ring_len; i != head; i = (i + 1) % ring_len {
		n++
	}
	return
}

func TestNewlyAvailable(t *testing.T) {
	for _, ring_len := range []uint{4, 8, 256} {
		q := &dma_queue{len: ring_len}
		for head := uint(0); head < ring_len; head++ {
			for tail := uint(0); tail < ring_len; tail++ {
				got := q.newly_available(head, tail)
				want := walk_available(ring_len, head, tail)
				if got != want {
					t.Fatalf("len %d head %d tail %d: got %d want %d",
						ring_len, head, tail, got, want)
				}
			}
		}
	}
}

// A drain moves tail to just behind head; a second drain with no new
// completions must find nothing.
func TestDrainIsIdempotent(t *testing.T) {
	q := &dma_queue{len: 8}
	for head := uint(0); head < q.len; head++ {
		tail := q.tail_for_head(head)
		if got := q.newly_available(head, tail); got != 0 {
			t.Errorf("head %d tail %d: got %d newly available, want 0",
				head, tail, got)
		}
	}
}

func TestNextIndex(t *testing.T) {
	q := &dma_queue{len: 4}
	for i, want := range []uint{1, 2, 3, 0} {
		if got := q.next_index(uint(i)); got != want {
			t.Errorf("next of %d: got %d want %d", i, got, want)
		}
	}
}

func TestTailForHead(t *testing.T) {
	q := &dma_queue{len: 256}
	if got, want := q.tail_for_head(0), uint(255); got != want {
		t.Errorf("head 0: got %d want %d", got, want)
	}
	if got, want := q.tail_for_head(100), uint(99); got != want {
		t.Errorf("head 100: got %d want %d", got, want)
	}
}

func TestDescriptorLayout(t *testing.T) {
	b := make([]byte, 2*descriptor_bytes)
	ds := rx_descriptor_slice(b)
	if got, want := len(ds), 2; got != want {
		t.Fatalf("slice len: got %d want %d", got, want)
	}
	ds[1] = rx_descriptor{
		buffer_address: [2]uint32{0x12345678, 1},
		length:         300,
		status:         rx_desc_is_done | rx_desc_is_end_of_packet,
	}
	if got, want := binary.LittleEndian.Uint32(b[16:]), uint32(0x12345678); got != want {
		t.Errorf("address low: got %#x want %#x", got, want)
	}
	if got, want := binary.LittleEndian.Uint32(b[20:]), uint32(1); got != want {
		t.Errorf("address high: got %#x want %#x", got, want)
	}
	if got, want := binary.LittleEndian.Uint32(b[24:]), uint32(300); got != want {
		t.Errorf("length: got %d want %d", got, want)
	}
	if got, want := binary.LittleEndian.Uint32(b[28:]), uint32(3); got != want {
		t.Errorf("status: got %#x want %#x", got, want)
	}
}
