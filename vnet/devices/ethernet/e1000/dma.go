// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/e1000/elib/hw"
	"github.com/platinasystems/e1000/vnet"

	"fmt"
	"sync"
	"unsafe"
)

// Legacy receive descriptor.
type rx_descriptor struct {
	// [31:0] [63:32] physical address of receive buffer.
	buffer_address [2]uint32

	// [15:0] received byte count, [31:16] packet checksum.
	length uint32

	// [0] descriptor done, [1] end of packet, [15:8] errors,
	// [31:16] vlan tag.
	status uint32
}

const (
	rx_desc_is_done          = 1 << 0
	rx_desc_is_end_of_packet = 1 << 1
)

// Legacy transmit descriptor.
type tx_descriptor struct {
	// [31:0] [63:32] physical address of data to transmit.
	buffer_address [2]uint32

	// [15:0] byte count, [23:16] checksum offset, [31:24] command.
	length_and_command uint32

	// [3:0] status, [15:8] checksum start.
	status uint32
}

const descriptor_bytes = 16

func init() {
	if unsafe.Sizeof(rx_descriptor{}) != descriptor_bytes ||
		unsafe.Sizeof(tx_descriptor{}) != descriptor_bytes {
		panic("descriptor size")
	}
}

func rx_descriptor_slice(b []byte) []rx_descriptor {
	n := len(b) / descriptor_bytes
	return (*[1 << 20]rx_descriptor)(vnet.Pointer(b))[:n:n]
}

func tx_descriptor_slice(b []byte) []tx_descriptor {
	n := len(b) / descriptor_bytes
	return (*[1 << 20]tx_descriptor)(vnet.Pointer(b))[:n:n]
}

// dma_queue is the software shadow of one descriptor ring.
type dma_queue struct {
	mu sync.Mutex

	d *dev

	// One page of descriptors shared with hardware.
	ring_virt []byte
	ring_phys uintptr

	// Number of descriptor slots: page bytes / descriptor bytes.
	len uint

	dma_regs *dma_regs
}

type rx_dma_queue struct {
	dma_queue

	descriptors []rx_descriptor

	// Count of received descriptors, diagnostic only.
	packet_count uint64
}

type tx_dma_queue struct {
	dma_queue

	descriptors []tx_descriptor
}

func (q *dma_queue) alloc_ring(heap hw.DmaHeap) (err error) {
	q.ring_virt, q.ring_phys, err = heap.AllocPage()
	if err != nil {
		return fmt.Errorf("descriptor ring: %s", err)
	}
	q.len = heap.PageBytes() / descriptor_bytes
	return
}

// program_ring points hardware at the ring page.  Head and tail both
// start at zero; the receive setup opens slots by moving tail once
// buffers are in place.
func (q *dma_queue) program_ring(dr *dma_regs) {
	d := q.d
	q.dma_regs = dr
	dr.descriptor_address[0].set(d, uint32(q.ring_phys))
	dr.descriptor_address[1].set(d, uint32(uint64(q.ring_phys)>>32))
	dr.n_descriptor_bytes.set(d, uint32(len(q.ring_virt)))
	dr.head.set(d, 0)
	dr.tail.set(d, 0)
}

// newly_available counts descriptors hardware has completed past
// tail.  The slot at tail is reserved and never handed to hardware,
// so head == tail reads as a full ring, never an empty one.
func (q *dma_queue) newly_available(head, tail uint) uint {
	return (head + q.len - 1 - tail) % q.len
}

func (q *dma_queue) next_index(i uint) uint {
	i++
	if i >= q.len {
		i = 0
	}
	return i
}

// tail_for_head is the tail writeback that reopens every slot
// strictly before head.
func (q *dma_queue) tail_for_head(head uint) uint {
	if head == 0 {
		return q.len - 1
	}
	return head - 1
}
