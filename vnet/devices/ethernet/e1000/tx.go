// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"fmt"
)

// tx_control bits.
const (
	tx_enable              = 1 << 1
	tx_pad_short_packets   = 1 << 3
	tx_collision_threshold = 0xf << 4
	tx_collision_distance  = 0x200 << 12
)

// Back to back inter packet gap for the 82540 class parts.
const tx_inter_packet_gap_default = 0xa

// tx_dma_init builds an empty transmit ring.  No descriptors are
// pre-populated and no transmit enqueue path exists; the ring only
// brings the transmitter to an operational idle.
func (d *dev) tx_dma_init() (err error) {
	q := &d.tx
	r := d.regs

	if err = q.alloc_ring(d.m.heap); err != nil {
		return fmt.Errorf("e1000 %s: tx %s", &d.pciDev.Addr, err)
	}
	q.descriptors = tx_descriptor_slice(q.ring_virt)

	q.program_ring(&r.tx_dma)

	r.tx_control.set(d, tx_enable|tx_pad_short_packets|
		tx_collision_threshold|tx_collision_distance)
	r.tx_inter_packet_gap.set(d, tx_inter_packet_gap_default)
	return
}
