// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/e1000/elib/hw"
	"github.com/platinasystems/e1000/elib/hw/pci"
	"github.com/platinasystems/e1000/vnet"
	"github.com/platinasystems/e1000/vnet/arp"
	"github.com/platinasystems/e1000/vnet/devices/ethernet/e1000/sim"
	"github.com/platinasystems/e1000/vnet/ethernet"
	"github.com/platinasystems/e1000/vnet/ip4"
	"github.com/platinasystems/log"

	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

var test_address = ethernet.Address{0x52, 0x54, 0x00, 0x12, 0x34, 0x56}

// test_rig wires a card model, a shared page heap and a driver
// instance together.  Tests that exercise pci discovery proper
// register their own ids; everything else binds via FindDevice so the
// shared driver table never aliases across tests.
type test_rig struct {
	heap *hw.PhysMem
	pic  *sim.Pic
	card *sim.Card
	m    *main
	d    *dev
}

func new_rig(t *testing.T, id pci.VendorDeviceID, slot, log2_page_bytes uint) *test_rig {
	t.Helper()
	heap, err := hw.NewPhysMem(600, log2_page_bytes)
	if err != nil {
		t.Fatalf("heap: %s", err)
	}
	r := &test_rig{heap: heap, pic: sim.NewPic()}
	r.card = sim.New(sim.Options{
		Slot:            slot,
		DeviceId:        id,
		EthernetAddress: test_address,
		Heap:            heap,
	})
	r.m = New(Config{DeviceIds: []pci.VendorDeviceID{id}}, heap, r.pic)
	return r
}

func (r *test_rig) bind(t *testing.T) *dev {
	t.Helper()
	id := pci.DeviceID{Vendor: pci.Intel, Device: r.m.DeviceIds[0]}
	pd, found := pci.FindDevice(r.card, id)
	if !found {
		t.Fatalf("device %v not found", id)
	}
	dd, err := r.m.DeviceMatch(pd)
	if err != nil {
		t.Fatalf("match: %s", err)
	}
	if err = dd.Init(); err != nil {
		t.Fatalf("init: %s", err)
	}
	r.d = r.m.devs[0]
	return r.d
}

func (r *test_rig) reg32(x *reg) uint32 { return r.card.Reg(x.offset()) }

func capture_log() (buf *bytes.Buffer, restore func()) {
	old := log.Writer
	buf = new(bytes.Buffer)
	log.Writer = buf
	return buf, func() { log.Writer = old }
}

func arp_request(sender ip4.Address) []byte {
	h := &arp.HeaderEthernetIp4{}
	h.L2Type.Set(uint(arp.L2TypeEthernet))
	h.L3Type.Set(uint(ethernet.IP4))
	h.NL2AddressBytes = ethernet.AddressBytes
	h.NL3AddressBytes = ip4.AddressBytes
	h.Opcode.Set(uint(arp.Request))
	h.Addrs[0] = arp.EthernetIp4Addr{Ethernet: test_address, Ip4: sender}
	h.Addrs[1] = arp.EthernetIp4Addr{Ethernet: ethernet.BroadcastAddr, Ip4: ip4.Address{10, 0, 2, 2}}
	e := &ethernet.Header{
		Dst:  ethernet.BroadcastAddr,
		Src:  test_address,
		Type: ethernet.ARP.FromHost(),
	}
	return vnet.MakePacket(e, h)
}

func typed_frame(ty ethernet.Type, payload_bytes uint) []byte {
	e := &ethernet.Header{
		Dst:  ethernet.BroadcastAddr,
		Src:  test_address,
		Type: ty.FromHost(),
	}
	return vnet.MakePacket(e, &vnet.IncrementingPayload{Count: payload_bytes})
}

func TestFindDeviceEachSlot(t *testing.T) {
	for slot := uint(0); slot < pci.NSlots; slot++ {
		r := new_rig(t, 0x100e, slot, 12)
		pd, found := pci.FindDevice(r.card, pci.DeviceID{Vendor: pci.Intel, Device: 0x100e})
		if !found {
			t.Fatalf("slot %d: not found", slot)
		}
		if got := uint(pd.Addr.Slot); got != slot {
			t.Errorf("slot: got %d want %d", got, slot)
		}
	}
}

func TestFindDeviceMiss(t *testing.T) {
	r := new_rig(t, 0x1019, 2, 12)
	if _, found := pci.FindDevice(r.card, pci.DeviceID{Vendor: pci.Intel, Device: 0x100e}); found {
		t.Fatal("unexpected match")
	}
	if got := r.card.ConfigWrites(); got != 0 {
		t.Errorf("probe wrote config space %d times", got)
	}
}

// Discovery through the registered driver table, with the card in
// each of the scanned slots.
func TestDiscoverDevices(t *testing.T) {
	ids := []pci.VendorDeviceID{0x1008, 0x1009, 0x100c, 0x100d}
	for slot := uint(0); slot < pci.NSlots; slot++ {
		heap, err := hw.NewPhysMem(600, 12)
		if err != nil {
			t.Fatalf("heap: %s", err)
		}
		pic := sim.NewPic()
		card := sim.New(sim.Options{
			Slot:            slot,
			DeviceId:        ids[slot],
			EthernetAddress: test_address,
			Heap:            heap,
		})
		m, err := Register(Config{DeviceIds: []pci.VendorDeviceID{ids[slot]}}, heap, pic)
		if err != nil {
			t.Fatalf("register: %s", err)
		}
		if err = pci.DiscoverDevices(card); err != nil {
			t.Fatalf("slot %d: %s", slot, err)
		}
		if got := len(m.devs); got != 1 {
			t.Fatalf("slot %d: bound %d devices", slot, got)
		}
		d := m.devs[0]
		if got := uint(d.pciDev.Addr.Slot); got != slot {
			t.Errorf("slot: got %d want %d", got, slot)
		}
		if !d.ethernet_address.Equal(test_address) {
			t.Errorf("ethernet address: got %v want %v", &d.ethernet_address, &test_address)
		}
	}
}

func TestInitProgramsDevice(t *testing.T) {
	r := new_rig(t, 0x100e, 0, 12)
	d := r.bind(t)

	if !d.ethernet_address.Equal(test_address) {
		t.Fatalf("ethernet address: got %v want %v", &d.ethernet_address, &test_address)
	}

	// Config space after init: bus mastering on, class as advertised.
	hdr := d.pciDev.GetDeviceConfig()
	if hdr.Command.Get(d.pciDev)&pci.BusMasterEnable == 0 {
		t.Error("bus master not enabled")
	}
	if got := hdr.DeviceClass.Get(d.pciDev); got != pci.Network_Ethernet {
		t.Errorf("device class: got %v", got)
	}

	rt := d.regs

	// Station address: low four bytes, then the high two with the
	// address valid bit left clear.
	if got, want := r.reg32(&rt.rx_ethernet_address[0][0]), uint32(0x12005452); got != want {
		t.Errorf("receive address low: got %#x want %#x", got, want)
	}
	if got, want := r.reg32(&rt.rx_ethernet_address[0][1]), uint32(0x5634); got != want {
		t.Errorf("receive address high: got %#x want %#x", got, want)
	}

	// Ring geometry: one page of descriptors, head at zero, all but
	// the reserved slot opened to hardware.
	if got, want := r.reg32(&rt.rx_dma.descriptor_address[0]), uint32(d.rx.ring_phys); got != want {
		t.Errorf("ring base: got %#x want %#x", got, want)
	}
	if got, want := r.reg32(&rt.rx_dma.n_descriptor_bytes), uint32(4096); got != want {
		t.Errorf("ring bytes: got %d want %d", got, want)
	}
	if got := r.reg32(&rt.rx_dma.head); got != 0 {
		t.Errorf("head: got %d want 0", got)
	}
	if got, want := r.reg32(&rt.rx_dma.tail), uint32(255); got != want {
		t.Errorf("tail: got %d want %d", got, want)
	}

	if got, want := r.reg32(&rt.rx_control), uint32(0x0203803e); got != want {
		t.Errorf("rx control: got %#x want %#x", got, want)
	}
	if got, want := r.reg32(&rt.tx_control), uint32(0x002000fa); got != want {
		t.Errorf("tx control: got %#x want %#x", got, want)
	}
	if got, want := r.reg32(&rt.tx_inter_packet_gap), uint32(0xa); got != want {
		t.Errorf("inter packet gap: got %#x want %#x", got, want)
	}
	if got, want := r.reg32(&rt.interrupt_mask_set), uint32(0xdd); got != want {
		t.Errorf("interrupt mask: got %#x want %#x", got, want)
	}

	if !r.pic.IsEnabled(DefaultIrqLine) {
		t.Error("interrupt line not enabled")
	}
}

// Ring capacity follows the allocator page size.
func TestRingCapacityTracksPageSize(t *testing.T) {
	for _, c := range []struct{ log2_page_bytes, want_tail uint }{
		{12, 255},
		{13, 511},
	} {
		r := new_rig(t, 0x100e, 0, c.log2_page_bytes)
		d := r.bind(t)
		if got, want := r.reg32(&d.regs.rx_dma.n_descriptor_bytes), uint32(r.heap.PageBytes()); got != want {
			t.Errorf("page %d: ring bytes got %d want %d", r.heap.PageBytes(), got, want)
		}
		if got := uint(r.reg32(&d.regs.rx_dma.tail)); got != c.want_tail {
			t.Errorf("page %d: tail got %d want %d", r.heap.PageBytes(), got, c.want_tail)
		}
	}
}

func TestEepromTimeout(t *testing.T) {
	heap, err := hw.NewPhysMem(600, 12)
	if err != nil {
		t.Fatalf("heap: %s", err)
	}
	card := sim.New(sim.Options{
		DeviceId:        0x100e,
		EthernetAddress: test_address,
		StuckEeprom:     true,
		Heap:            heap,
	})
	m := New(Config{
		DeviceIds:     []pci.VendorDeviceID{0x100e},
		EepromTimeout: 5 * time.Millisecond,
	}, heap, sim.NewPic())

	pd, found := pci.FindDevice(card, pci.DeviceID{Vendor: pci.Intel, Device: 0x100e})
	if !found {
		t.Fatal("device not found")
	}
	dd, err := m.DeviceMatch(pd)
	if err != nil {
		t.Fatalf("match: %s", err)
	}
	err = dd.Init()
	if err == nil {
		t.Fatal("init with a dead eeprom did not fail")
	}
	if !strings.Contains(err.Error(), "eeprom word 0") {
		t.Errorf("error %q does not name the eeprom word", err)
	}
	if got := card.Reg(m.devs[0].regs.rx_control.offset()); got != 0 {
		t.Errorf("receive control written after failed init: %#x", got)
	}
}

// failing_heap serves a fixed number of pages, then fails.
type failing_heap struct {
	hw.DmaHeap
	n_left int
}

func (h *failing_heap) AllocPage() (b []byte, p uintptr, err error) {
	if h.n_left == 0 {
		return nil, 0, fmt.Errorf("out of pages")
	}
	h.n_left--
	return h.DmaHeap.AllocPage()
}

// A buffer allocation failure aborts init before any receive
// enablement.
func TestReceiveBufferAllocFatal(t *testing.T) {
	heap, err := hw.NewPhysMem(600, 12)
	if err != nil {
		t.Fatalf("heap: %s", err)
	}
	card := sim.New(sim.Options{
		DeviceId:        0x100e,
		EthernetAddress: test_address,
		Heap:            heap,
	})
	// Ring page plus four buffers succeed; buffer four fails.
	m := New(Config{DeviceIds: []pci.VendorDeviceID{0x100e}},
		&failing_heap{DmaHeap: heap, n_left: 5}, sim.NewPic())

	pd, found := pci.FindDevice(card, pci.DeviceID{Vendor: pci.Intel, Device: 0x100e})
	if !found {
		t.Fatal("device not found")
	}
	dd, err := m.DeviceMatch(pd)
	if err != nil {
		t.Fatalf("match: %s", err)
	}
	err = dd.Init()
	if err == nil {
		t.Fatal("init with a failing allocator did not fail")
	}
	if !strings.Contains(err.Error(), "rx buffer 4") {
		t.Errorf("error %q does not name the failed buffer", err)
	}
	d := m.devs[0]
	if got := card.Reg(d.regs.rx_control.offset()); got != 0 {
		t.Errorf("receive control programmed after failed init: %#x", got)
	}
	if got := card.Reg(d.regs.interrupt_mask_set.offset()); got != 0 {
		t.Errorf("interrupts enabled after failed init: %#x", got)
	}
}
