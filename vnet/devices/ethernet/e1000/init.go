// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package e1000 drives the Intel 8254x family of gigabit ethernet
// controllers: configuration space discovery, EEPROM station address
// readout, receive/transmit descriptor ring setup and the interrupt
// driven receive path.
package e1000

import (
	"github.com/platinasystems/e1000/elib/hw"
	"github.com/platinasystems/e1000/elib/hw/pci"
	"github.com/platinasystems/e1000/vnet/ethernet"
	"github.com/platinasystems/log"

	"fmt"
	"time"
)

type Config struct {
	// Vendor/device pairs to bind; nil binds the whole 8254x family.
	DeviceIds []pci.VendorDeviceID

	// Platform interrupt line the card is routed to.
	IrqLine uint

	// Upper bound on the EEPROM completion poll.
	EepromTimeout time.Duration
}

const (
	DefaultIrqLine       = 11
	DefaultEepromTimeout = 100 * time.Millisecond
)

// BAR 0 register window size.
const mmio_window_bytes = 0x20000

type main struct {
	Config

	// Page allocator shared with the bus master.
	heap hw.DmaHeap

	irq IrqController

	devs []*dev
}

type dev struct {
	m *main

	pciDev *pci.Device

	// Register offset template; loads and stores go through mmio.
	regs *regs
	mmio hw.Mmio

	// Station address from EEPROM words 0-2.
	ethernet_address ethernet.Address

	rx rx_dma_queue
	tx tx_dma_queue

	// Statistics totals accumulated from the clear on read block.
	counter_values [n_counters]uint64

	unhandled_cause_log *log.Limited
}

// New returns a driver instance bound to the given platform services.
// The instance carries all mutable state; there is no package level
// device state.
func New(cfg Config, heap hw.DmaHeap, irq IrqController) *main {
	m := &main{Config: cfg, heap: heap, irq: irq}
	if m.IrqLine == 0 {
		m.IrqLine = DefaultIrqLine
	}
	if m.EepromTimeout == 0 {
		m.EepromTimeout = DefaultEepromTimeout
	}
	if len(m.DeviceIds) == 0 {
		m.DeviceIds = DefaultDeviceIds()
	}
	return m
}

// Register makes the driver claim its device id table with pci
// discovery.
func Register(cfg Config, heap hw.DmaHeap, irq IrqController) (*main, error) {
	m := New(cfg, heap, irq)
	err := pci.SetDriver(m, pci.Intel, m.DeviceIds)
	return m, err
}

func (m *main) DeviceMatch(pd *pci.Device) (dd pci.DriverDevice, err error) {
	d := &dev{m: m, pciDev: pd, regs: get_regs()}
	d.rx.d, d.tx.d = d, d
	d.unhandled_cause_log = log.NewLimited(16)
	m.devs = append(m.devs, d)
	return d, nil
}

func (d *dev) dev_id() dev_id { return dev_id(d.pciDev.DeviceID()) }

// Interrupt services one delivery for every initialized device; the
// platform shares one line across the slots it scans.
func (m *main) Interrupt() {
	for _, d := range m.devs {
		if d.mmio != nil {
			d.Interrupt()
		}
	}
}

// NDevices is the count of cards bound to this driver instance.
func (m *main) NDevices() int { return len(m.devs) }

// Init brings the matched card to an operational state.  Every failure
// is unrecoverable for this card: the caller gets a single error and
// no partial hardware enablement has happened beyond the step that
// failed.
func (d *dev) Init() (err error) {
	d.pciDev.EnableBusMaster()

	bar := d.pciDev.BaseAddress(0)
	if !bar.Valid() {
		return fmt.Errorf("e1000 %s: base address not configured", &d.pciDev.Addr)
	}
	if d.mmio, err = d.pciDev.Bus.MapResource(uintptr(bar.Addr()), mmio_window_bytes); err != nil {
		return fmt.Errorf("e1000 %s: map registers: %s", &d.pciDev.Addr, err)
	}
	d.clear_counters()

	if err = d.get_ethernet_address(); err != nil {
		return
	}
	log.Print("daemon", "info", "e1000 ", &d.pciDev.Addr, ": ", d.dev_id(),
		" ethernet address ", &d.ethernet_address)

	if err = d.rx_dma_init(); err != nil {
		return
	}
	if err = d.tx_dma_init(); err != nil {
		return
	}

	d.interrupt_init()
	return
}
