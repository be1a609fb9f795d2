// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// e1000-diag boots the 8254x driver against the software card model,
// injects ARP frames through the receive path and dumps the hardware
// counters.
//
//	e1000-diag [-stuck-eeprom] [-slot N] [-count N] [-irq N] [-fdt FILE]
package main

import (
	"github.com/platinasystems/e1000/elib/hw"
	"github.com/platinasystems/e1000/elib/hw/pci"
	"github.com/platinasystems/e1000/vnet"
	"github.com/platinasystems/e1000/vnet/arp"
	"github.com/platinasystems/e1000/vnet/devices/ethernet/e1000"
	"github.com/platinasystems/e1000/vnet/devices/ethernet/e1000/sim"
	"github.com/platinasystems/e1000/vnet/ethernet"
	"github.com/platinasystems/e1000/vnet/ip4"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"

	"fmt"
	"io/ioutil"
	"os"
	"strconv"
)

var stationAddress = ethernet.Address{0x52, 0x54, 0x00, 0x12, 0x34, 0x56}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.DaemonErr("e1000-diag: ", err)
		fmt.Fprintln(os.Stderr, "e1000-diag:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flag, args := flags.New(args, "-stuck-eeprom")
	parm, args := parms.New(args, "-slot", "-count", "-irq", "-fdt")
	if len(args) != 0 {
		return fmt.Errorf("%v: unexpected", args)
	}

	slot, err := uintParm(parm.ByName["-slot"], 0)
	if err != nil {
		return err
	}
	count, err := uintParm(parm.ByName["-count"], 3)
	if err != nil {
		return err
	}

	cfg := e1000.Config{}
	if cfg.IrqLine, err = uintParm(parm.ByName["-irq"], 0); err != nil {
		return err
	}
	if path := parm.ByName["-fdt"]; path != "" {
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}
		if err = cfg.LoadFdt(b); err != nil {
			return err
		}
	}

	// Foreground diagnostic: log straight to stdout.
	log.Writer = os.Stdout

	heap, err := hw.NewPhysMem(600, 12)
	if err != nil {
		return err
	}

	id := pci.VendorDeviceID(0x100e)
	if len(cfg.DeviceIds) > 0 {
		id = cfg.DeviceIds[0]
	}
	card := sim.New(sim.Options{
		Slot:            slot,
		DeviceId:        id,
		EthernetAddress: stationAddress,
		StuckEeprom:     flag.ByName["-stuck-eeprom"],
		Heap:            heap,
	})

	m, err := e1000.Register(cfg, heap, sim.NewPic())
	if err != nil {
		return err
	}
	if err = pci.DiscoverDevices(card); err != nil {
		return err
	}
	if m.NDevices() == 0 {
		return fmt.Errorf("no supported device in slots 0-%d", pci.NSlots-1)
	}

	for i := uint(0); i < count; i++ {
		if err = card.Receive(arpRequest(byte(i))); err != nil {
			return fmt.Errorf("inject frame %d: %s", i, err)
		}
	}
	m.Interrupt()
	log.DaemonInfo("e1000-diag: injected ", count, " frames")

	m.ForeachHwCounter(func(dev, name string, value uint64) {
		fmt.Printf("%s: %s: %d\n", dev, name, value)
	})
	return nil
}

func uintParm(s string, def uint) (uint, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	return uint(v), err
}

func arpRequest(i byte) []byte {
	h := &arp.HeaderEthernetIp4{}
	h.L2Type.Set(uint(arp.L2TypeEthernet))
	h.L3Type.Set(uint(ethernet.IP4))
	h.NL2AddressBytes = ethernet.AddressBytes
	h.NL3AddressBytes = ip4.AddressBytes
	h.Opcode.Set(uint(arp.Request))
	h.Addrs[0] = arp.EthernetIp4Addr{
		Ethernet: stationAddress,
		Ip4:      ip4.Address{10, 0, 2, 15 + i},
	}
	h.Addrs[1] = arp.EthernetIp4Addr{
		Ethernet: ethernet.BroadcastAddr,
		Ip4:      ip4.Address{10, 0, 2, 2},
	}
	e := &ethernet.Header{
		Dst:  ethernet.BroadcastAddr,
		Src:  stationAddress,
		Type: ethernet.ARP.FromHost(),
	}
	return vnet.MakePacket(e, h)
}
