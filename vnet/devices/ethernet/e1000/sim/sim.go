// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim is a software model of an 8254x on a small bus:
// configuration space behind the index/data port pair, the register
// window with live EEPROM and interrupt cause semantics, descriptor
// DMA through a shared page heap, and frame injection.
package sim

import (
	"github.com/platinasystems/e1000/elib/hw"
	"github.com/platinasystems/e1000/elib/hw/pci"
	"github.com/platinasystems/e1000/vnet/ethernet"

	"encoding/binary"
	"fmt"
	"sync"
)

// Register offsets and bits the model responds to.
const (
	reg_eeprom_read        = 0x14
	reg_interrupt_status   = 0xc0
	reg_rx_control         = 0x100
	reg_rx_descriptor_base = 0x2800
	reg_rx_descriptor_len  = 0x2808
	reg_rx_head            = 0x2810
	reg_rx_tail            = 0x2818

	eeprom_read_start = 1 << 0
	eeprom_read_done  = 1 << 4

	rx_control_enable = 1 << 1

	irq_rx_timer = 1 << 7

	rx_desc_done          = 1 << 0
	rx_desc_end_of_packet = 1 << 1

	descriptor_bytes = 16

	stats_base = 0x4000
	stats_last = 0x40fc

	stat_rx_missed_packets = 0x4010
	stat_rx_good_packets   = 0x4074
	stat_rx_broadcast      = 0x4078
	stat_rx_multicast      = 0x407c
	stat_rx_good_bytes_lo  = 0x4088
	stat_rx_good_bytes_hi  = 0x408c
	stat_rx_total_bytes_lo = 0x40c0
	stat_rx_total_bytes_hi = 0x40c4
	stat_rx_total_packets  = 0x40d0
)

const window_bytes = 0x20000

type Options struct {
	// Slot the card answers configuration cycles on.
	Slot uint

	DeviceId pci.VendorDeviceID

	// 32 bit memory BAR; must be page aligned so the low type bits
	// read back zero.
	BaseAddress uint32

	// Station address served from EEPROM words 0-2.
	EthernetAddress ethernet.Address

	// StuckEeprom never completes an EEPROM read.
	StuckEeprom bool

	// Heap backs the descriptor rings and packet buffers.  The
	// driver under test must allocate from the same heap.
	Heap *hw.PhysMem
}

// Card implements pci.Bus for exactly one device.
type Card struct {
	mu sync.Mutex

	opt Options

	// Latched configuration address from the index port.
	config_address uint32

	// Config space command register as last written.
	command uint32

	// Register window, one uint32 per aligned offset.
	regs []uint32

	eeprom [64]uint16

	n_config_writes int
}

func New(o Options) *Card {
	if o.DeviceId == 0 {
		o.DeviceId = 0x100e
	}
	if o.BaseAddress == 0 {
		o.BaseAddress = 0xfebc0000
	}
	c := &Card{opt: o, regs: make([]uint32, window_bytes/4)}
	for i := 0; i < ethernet.AddressBytes/2; i++ {
		c.eeprom[i] = uint16(o.EthernetAddress[2*i]) | uint16(o.EthernetAddress[2*i+1])<<8
	}
	return c
}

// ConfigWrites counts configuration space data port writes, so tests
// can assert that probing alone has no side effects.
func (c *Card) ConfigWrites() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n_config_writes
}

func (c *Card) decodeConfigAddress() (slot, offset uint, enabled bool) {
	a := c.config_address
	return uint(a >> 11 & 0x1f), uint(a & 0xfc), a&(1<<31) != 0
}

func (c *Card) In32(port uint16) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch port {
	case pci.ConfigAddressPort:
		return c.config_address
	case pci.ConfigDataPort:
		slot, offset, enabled := c.decodeConfigAddress()
		if !enabled || slot != c.opt.Slot {
			return 0xffffffff
		}
		return c.readConfig(offset)
	}
	return 0xffffffff
}

func (c *Card) Out32(port uint16, v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch port {
	case pci.ConfigAddressPort:
		c.config_address = v
	case pci.ConfigDataPort:
		slot, offset, enabled := c.decodeConfigAddress()
		if !enabled || slot != c.opt.Slot {
			return
		}
		c.n_config_writes++
		c.writeConfig(offset, v)
	}
}

func (c *Card) readConfig(offset uint) uint32 {
	switch offset {
	case 0:
		return uint32(pci.Intel) | uint32(c.opt.DeviceId)<<16
	case 4:
		// Status half reads zero.
		return c.command & 0xffff
	case 8:
		return uint32(pci.Network_Ethernet) << 16
	case 0x10:
		return c.opt.BaseAddress
	}
	return 0
}

func (c *Card) writeConfig(offset uint, v uint32) {
	switch offset {
	case 4:
		c.command = v
	}
}

// MapResource hands back the live register window.
func (c *Card) MapResource(base uintptr, nBytes uint) (hw.Mmio, error) {
	if base != uintptr(c.opt.BaseAddress) {
		return nil, fmt.Errorf("sim: map of unclaimed address %#x", base)
	}
	if nBytes > window_bytes {
		return nil, fmt.Errorf("sim: map of %d bytes exceeds window", nBytes)
	}
	return c, nil
}

func (c *Card) Load32(o uint) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.regs[o/4]
	switch {
	case o == reg_interrupt_status:
		// Read clears all pending causes.
		c.regs[o/4] = 0
	case o >= stats_base && o <= stats_last:
		// Statistics clear on read.
		c.regs[o/4] = 0
	}
	return v
}

func (c *Card) Store32(o uint, v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o == reg_eeprom_read && v&eeprom_read_start != 0 {
		word := v >> 8 & 0xff
		if c.opt.StuckEeprom {
			c.regs[o/4] = v
			return
		}
		c.regs[o/4] = v&^eeprom_read_start | eeprom_read_done |
			uint32(c.eeprom[word&63])<<16
		return
	}
	c.regs[o/4] = v
}

func (c *Card) reg(o uint) uint32 { return c.regs[o/4] }

func (c *Card) bump(o uint, v uint32) { c.regs[o/4] += v }

// Reg is a diagnostic peek with no read side effects.
func (c *Card) Reg(o uint) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[o/4]
}

// RaiseInterrupt latches cause bits the model does not generate on
// its own, for exercising the service routine.
func (c *Card) RaiseInterrupt(cause uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[reg_interrupt_status/4] |= cause
}

// Receive delivers one frame the way hardware would: DMA into the
// buffer of the descriptor at head, length and status writeback, head
// advance, receive timer cause latched.  A disabled receiver or a
// full ring counts the frame as missed.
func (c *Card) Receive(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reg(reg_rx_control)&rx_control_enable == 0 {
		c.bump(stat_rx_missed_packets, 1)
		return fmt.Errorf("sim: receiver disabled")
	}
	ring_len := uint(c.reg(reg_rx_descriptor_len))
	if ring_len == 0 {
		c.bump(stat_rx_missed_packets, 1)
		return fmt.Errorf("sim: ring not programmed")
	}
	capacity := ring_len / descriptor_bytes
	head := uint(c.reg(reg_rx_head))
	tail := uint(c.reg(reg_rx_tail))

	// The slot at tail is never hardware's to write.
	if head == tail {
		c.bump(stat_rx_missed_packets, 1)
		return fmt.Errorf("sim: ring full")
	}

	ring := uintptr(c.reg(reg_rx_descriptor_base)) |
		uintptr(c.reg(reg_rx_descriptor_base+4))<<32
	desc := c.opt.Heap.Virt(ring+uintptr(head*descriptor_bytes), descriptor_bytes)

	buffer := uintptr(binary.LittleEndian.Uint32(desc[0:])) |
		uintptr(binary.LittleEndian.Uint32(desc[4:]))<<32
	n := uint(len(frame))
	if max := c.opt.Heap.PageBytes(); n > max {
		n = max
	}
	copy(c.opt.Heap.Virt(buffer, n), frame[:n])

	binary.LittleEndian.PutUint32(desc[8:], uint32(n))
	binary.LittleEndian.PutUint32(desc[12:], rx_desc_done|rx_desc_end_of_packet)

	c.regs[reg_rx_head/4] = uint32((head + 1) % capacity)
	c.regs[reg_interrupt_status/4] |= irq_rx_timer

	c.bump(stat_rx_good_packets, 1)
	c.bump(stat_rx_total_packets, 1)
	c.bump_pair(stat_rx_good_bytes_lo, stat_rx_good_bytes_hi, uint64(len(frame)))
	c.bump_pair(stat_rx_total_bytes_lo, stat_rx_total_bytes_hi, uint64(len(frame)))
	if len(frame) >= ethernet.AddressBytes {
		switch {
		case frame[0] == 0xff:
			c.bump(stat_rx_broadcast, 1)
		case frame[0]&1 != 0:
			c.bump(stat_rx_multicast, 1)
		}
	}
	return nil
}

func (c *Card) bump_pair(lo, hi uint, v uint64) {
	s := uint64(c.reg(lo)) | uint64(c.reg(hi))<<32
	s += v
	c.regs[lo/4] = uint32(s)
	c.regs[hi/4] = uint32(s >> 32)
}

// Pic records interrupt line enables, standing in for the platform
// interrupt controller.
type Pic struct {
	mu      sync.Mutex
	enabled map[uint]bool
}

func NewPic() *Pic { return &Pic{enabled: make(map[uint]bool)} }

func (p *Pic) EnableIrq(line uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled[line] = true
}

func (p *Pic) IsEnabled(line uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled[line]
}
