// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/e1000/elib/hw"
	"github.com/platinasystems/e1000/vnet"
	"github.com/platinasystems/e1000/vnet/arp"
	"github.com/platinasystems/e1000/vnet/ethernet"
	"github.com/platinasystems/log"

	"fmt"
)

// rx_control bits.
const (
	rx_enable                = 1 << 1
	rx_store_bad_packets     = 1 << 2
	rx_unicast_promiscuous   = 1 << 3
	rx_multicast_promiscuous = 1 << 4
	rx_long_packets          = 1 << 5
	rx_accept_broadcast      = 1 << 15
	// Size class 3 with the size extension bit: 4096 byte buffers,
	// one allocator page per descriptor.
	rx_buffer_size_4k = 3<<16 | 1<<25
)

// rx_dma_init builds the receive ring and then enables the receiver.
// Order matters: receive control is programmed last so hardware never
// sees a partially built ring, and every allocation failure aborts
// before that point.
func (d *dev) rx_dma_init() (err error) {
	q := &d.rx
	r := d.regs

	// Station address into receive address 0.  The address valid bit
	// stays clear; the receive path runs promiscuous.
	a := &d.ethernet_address
	r.rx_ethernet_address[0][0].set(d,
		uint32(a[0])|uint32(a[1])<<8|uint32(a[2])<<16|uint32(a[3])<<24)
	r.rx_ethernet_address[0][1].set(d, uint32(a[4])|uint32(a[5])<<8)

	if err = q.alloc_ring(d.m.heap); err != nil {
		return fmt.Errorf("e1000 %s: rx %s", &d.pciDev.Addr, err)
	}
	q.descriptors = rx_descriptor_slice(q.ring_virt)

	q.program_ring(&r.rx_dma)

	// One zeroed page per slot.  Status stays zero: hardware owns
	// every slot between tail and head.
	for i := range q.descriptors {
		var p uintptr
		if _, p, err = d.m.heap.AllocPage(); err != nil {
			return fmt.Errorf("e1000 %s: rx buffer %d: %s", &d.pciDev.Addr, i, err)
		}
		q.descriptors[i] = rx_descriptor{
			buffer_address: [2]uint32{uint32(p), uint32(uint64(p) >> 32)},
		}
	}

	// Open all but the reserved slot to hardware.
	hw.MemoryBarrier()
	r.rx_dma.tail.set(d, uint32(q.len-1))

	// Clear the multicast filter; promiscuous mode bypasses it but
	// stale hash bits survive reset.
	for i := range r.multicast_table {
		r.multicast_table[i].set(d, 0)
	}

	r.rx_control.set(d, rx_enable|rx_store_bad_packets|rx_unicast_promiscuous|
		rx_multicast_promiscuous|rx_long_packets|rx_accept_broadcast|
		rx_buffer_size_4k)
	return
}

// rx_queue_interrupt drains every descriptor hardware completed since
// the last drain, then reopens the consumed slots by advancing tail
// to just behind head.
func (d *dev) rx_queue_interrupt() {
	q := &d.rx
	q.mu.Lock()
	defer q.mu.Unlock()

	dr := q.dma_regs
	tail := uint(dr.tail.get(d))
	head := uint(dr.head.get(d))

	n := q.newly_available(head, tail)
	i := q.next_index(tail)
	for j := uint(0); j < n; j++ {
		q.rx_one_descriptor(i)
		i = q.next_index(i)
	}

	hw.MemoryBarrier()
	dr.tail.set(d, uint32(q.tail_for_head(head)))
}

// rx_one_descriptor logs one completed descriptor and, for a frame
// final fragment, decodes its link layer headers.
func (q *rx_dma_queue) rx_one_descriptor(i uint) {
	d := q.d
	desc := &q.descriptors[i]

	// Only the low byte of the hardware byte count is reported;
	// frames longer than 255 bytes show a wrapped size.
	// TODO widen to the full 16 bit count once the diagnostic
	// format is settled.
	size := uint(desc.length & 0xff)
	is_eop := desc.status&rx_desc_is_end_of_packet != 0

	p := uintptr(uint64(desc.buffer_address[0]) | uint64(desc.buffer_address[1])<<32)
	b := d.m.heap.Virt(p, d.m.heap.PageBytes())

	log.Printf("daemon", "info", "e1000 rx: packet count %d buffer %#x size %d end of packet %v",
		q.packet_count, uintptr(vnet.Pointer(b)), size, is_eop)

	if is_eop {
		h := ethernet.GetHeader(b)
		payload := b[ethernet.HeaderBytes:]
		switch h.GetType() {
		case ethernet.IP4:
			log.Print("daemon", "info", "e1000 rx: ip4")
		case ethernet.IP6:
			log.Print("daemon", "info", "e1000 rx: ip6")
		case ethernet.ARP:
			log.Print("daemon", "info", "e1000 rx: arp ", arp.GetHeader(payload))
		default:
			log.Print("daemon", "info", "e1000 rx: unknown type ", h.GetType())
		}
		log.Print("daemon", "info", "e1000 rx: ", h)
	}

	q.packet_count++
}
