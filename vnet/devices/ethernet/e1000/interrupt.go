// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/log"
)

// Interrupt cause bits, shared by the status and mask set registers.
const (
	irq_tx_descriptor_written_back = 1 << 0
	irq_tx_queue_empty             = 1 << 1
	irq_link_status_change         = 1 << 2
	irq_rx_sequence_error          = 1 << 3
	irq_rx_descriptor_low          = 1 << 4
	irq_rx_overrun                 = 1 << 6
	irq_rx_timer                   = 1 << 7
)

// IrqController is the platform interrupt controller's enable
// surface: delivery routing is the platform's problem.
type IrqController interface {
	EnableIrq(line uint)
}

func (d *dev) interrupt_init() {
	d.regs.interrupt_mask_set.set(d,
		irq_tx_descriptor_written_back|
			irq_link_status_change|
			irq_rx_sequence_error|
			irq_rx_descriptor_low|
			irq_rx_overrun|
			irq_rx_timer)
	d.m.irq.EnableIrq(d.m.IrqLine)
}

// Interrupt services one delivery.  Reading the cause register also
// acknowledges it.  Transmit writeback is log only; the receive timer
// cause drains the receive ring.  One cause is dispatched per
// delivery; anything else pending is noted a bounded number of times.
func (d *dev) Interrupt() {
	cause := d.regs.interrupt_status.get(d)
	if cause&irq_tx_descriptor_written_back != 0 {
		log.Print("daemon", "info", "e1000: transmit descriptor writeback, fifo packets ",
			d.regs.tx_data_fifo_packet_count.get(d))
	} else if cause&irq_rx_timer != 0 {
		d.rx_queue_interrupt()
	} else if cause != 0 {
		d.unhandled_cause_log.Printf("daemon", "info", "e1000: unhandled interrupt cause 0x%x", cause)
	}
}
