// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pci

// Configuration mechanism #1: index/data port pair.

const (
	ConfigAddressPort uint16 = 0xcf8
	ConfigDataPort    uint16 = 0xcfc
)

// PortIO is the platform's raw port input/output.
type PortIO interface {
	In32(port uint16) uint32
	Out32(port uint16, v uint32)
}

// configAddress encodes the address word written to the index port:
// enable bit, device slot in bits 11-13, aligned register offset in the
// low byte.
func configAddress(slot, offset uint) uint32 {
	return 1<<31 | uint32(slot)<<11 | uint32(offset)&^3
}

// One 32-bit transaction per aligned configuration register.  Byte and
// halfword access extracts from a full transaction; a separate
// transaction is issued for every byte asked for.
func (d *Device) ReadConfigUint32(o uint) (v uint32) {
	d.Bus.Out32(ConfigAddressPort, configAddress(uint(d.Addr.Slot), o))
	return d.Bus.In32(ConfigDataPort)
}

func (d *Device) WriteConfigUint32(o uint, value uint32) {
	d.Bus.Out32(ConfigAddressPort, configAddress(uint(d.Addr.Slot), o))
	d.Bus.Out32(ConfigDataPort, value)
}

func (d *Device) ReadConfigUint16(o uint) (v uint16) {
	return uint16(d.ReadConfigUint32(o) >> (8 * (o & 2)))
}

func (d *Device) WriteConfigUint16(o uint, value uint16) {
	v := d.ReadConfigUint32(o)
	sh := 8 * (o & 2)
	v = v&^(0xffff<<sh) | uint32(value)<<sh
	d.WriteConfigUint32(o, v)
}

func (d *Device) ReadConfigUint8(o uint) (v uint8) {
	return uint8(d.ReadConfigUint32(o) >> (8 * (o & 3)))
}

func (d *Device) WriteConfigUint8(o uint, value uint8) {
	v := d.ReadConfigUint32(o)
	sh := 8 * (o & 3)
	v = v&^(0xff<<sh) | uint32(value)<<sh
	d.WriteConfigUint32(o, v)
}

// readConfigBytes assembles n bytes starting at offset o, reading high
// byte first, one full configuration transaction per byte.
func (d *Device) readConfigBytes(o, n uint) (v uint32) {
	for i := int(n) - 1; i >= 0; i-- {
		v |= uint32(d.ReadConfigUint8(o+uint(i))) << (8 * uint(i))
	}
	return
}

// EnableBusMaster sets the bus-master-enable command bit so the card
// can initiate memory transactions.  The command register is written
// back as a full 32-bit store; the status half is write-1-to-clear so
// the zeros are harmless.
func (d *Device) EnableBusMaster() {
	v := d.readConfigBytes(4, 2)
	v |= uint32(BusMasterEnable)
	d.WriteConfigUint32(4, v)
}

// BaseAddress reads BAR i raw: no masking of the low type bits.
func (d *Device) BaseAddress(i uint) BaseAddressReg {
	return BaseAddressReg(d.readConfigBytes(0x10+4*i, 4))
}

func (d *Device) readID() DeviceID {
	return DeviceID{
		Vendor: VendorID(d.readConfigBytes(0, 2)),
		Device: VendorDeviceID(d.readConfigBytes(2, 2)),
	}
}

// The platform puts the supported card in one of the first four slots
// of bus 0; the scan range is intentionally that narrow.
const NSlots = 4

// FindDevice probes slots 0..NSlots-1 for the given vendor/device pair
// and returns the first match.  A miss has no side effects.
func FindDevice(bus Bus, id DeviceID) (d *Device, found bool) {
	for slot := uint(0); slot < NSlots; slot++ {
		t := &Device{Bus: bus}
		t.Addr.Slot = uint8(slot)
		if t.ID = t.readID(); t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// DiscoverDevices probes slots 0..NSlots-1 against the registered
// driver table and binds the first device whose id has a driver.  An
// empty bus is not an error.
func DiscoverDevices(bus Bus) (err error) {
	for slot := uint(0); slot < NSlots; slot++ {
		d := &Device{Bus: bus}
		d.Addr.Slot = uint8(slot)
		d.ID = d.readID()
		if d.ID.Vendor == NoVendor {
			continue
		}
		driver := GetDriver(d.ID)
		if driver == nil {
			continue
		}
		d.Driver = driver
		if d.DriverDevice, err = driver.DeviceMatch(d); err != nil {
			return
		}
		return d.DriverDevice.Init()
	}
	return
}
