package e1000

import (
	"github.com/platinasystems/e1000/elib/hw"

	"unsafe"
)

// All device registers are 32 bit.
type reg uint32

func (r *reg) offset() uint         { return uint(uintptr(unsafe.Pointer(r)) - hw.BaseAddress) }
func (r *reg) get(d *dev) uint32    { return d.mmio.Load32(r.offset()) }
func (r *reg) set(d *dev, v uint32) { d.mmio.Store32(r.offset(), v) }

// Rx and tx descriptor rings have the same register block layout.
type dma_regs struct {
	// [31:0] [63:32] physical address of descriptor ring.
	// Must be 16 byte aligned.
	descriptor_address [2]reg

	// Byte count of descriptor ring.
	n_descriptor_bytes reg

	_ reg

	// Ring index of next descriptor hardware will write.
	head reg

	_ reg

	// Ring index one past the last descriptor available to hardware.
	tail reg

	_ reg
}

type regs struct {
	control reg

	_ reg

	status reg

	_ [2]reg

	// Software EEPROM access: start bit 0, word address bits [15:8],
	// done bit 4, data out bits [31:16].
	eeprom_read reg

	_ [0x2a]reg

	// Reading clears all pending interrupt causes.
	interrupt_status reg

	_ [3]reg

	interrupt_mask_set reg

	_ [0xb]reg

	rx_control reg

	_ [0xbf]reg

	tx_control reg

	_ [3]reg

	// Back to back inter packet gap in increments of 8 bit times.
	tx_inter_packet_gap reg

	_ [0x8fb]reg

	rx_dma dma_regs

	_ [0x304]reg

	tx_data_fifo_packet_count reg

	_ [0xf3]reg

	tx_dma dma_regs

	_ [0x678]reg

	// 128 x 32 bit multicast filter hash bits.
	multicast_table [128]reg

	// 16 {low, high} pairs; entry 0 is the station address.
	rx_ethernet_address [16][2]reg
}

func get_regs() *regs { return (*regs)(hw.BasePointer) }

func init() {
	r := get_regs()
	hw.CheckRegAddr("eeprom_read", r.eeprom_read.offset(), 0x14)
	hw.CheckRegAddr("interrupt_status", r.interrupt_status.offset(), 0xc0)
	hw.CheckRegAddr("interrupt_mask_set", r.interrupt_mask_set.offset(), 0xd0)
	hw.CheckRegAddr("rx_control", r.rx_control.offset(), 0x100)
	hw.CheckRegAddr("tx_control", r.tx_control.offset(), 0x400)
	hw.CheckRegAddr("tx_inter_packet_gap", r.tx_inter_packet_gap.offset(), 0x410)
	hw.CheckRegAddr("rx_dma.head", r.rx_dma.head.offset(), 0x2810)
	hw.CheckRegAddr("rx_dma.tail", r.rx_dma.tail.offset(), 0x2818)
	hw.CheckRegAddr("tx_data_fifo_packet_count", r.tx_data_fifo_packet_count.offset(), 0x3430)
	hw.CheckRegAddr("tx_dma.tail", r.tx_dma.tail.offset(), 0x3818)
	hw.CheckRegAddr("multicast_table", r.multicast_table[0].offset(), 0x5200)
	hw.CheckRegAddr("rx_ethernet_address", r.rx_ethernet_address[0][0].offset(), 0x5400)
}
