// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Generic devices on PCI bus.
package pci

import (
	"github.com/platinasystems/e1000/elib/hw"

	"fmt"
	"sync"
	"unsafe"
)

type U8 hw.U8
type U16 hw.U16
type U32 hw.U32

func (r *U8) offset() uint  { return uint((*hw.U8)(r).Offset()) }
func (r *U16) offset() uint { return uint((*hw.U16)(r).Offset()) }
func (r *U32) offset() uint { return uint((*hw.U32)(r).Offset()) }

func (r *U8) Get(d *Device) uint8   { return d.ReadConfigUint8(r.offset()) }
func (r *U16) Get(d *Device) uint16 { return d.ReadConfigUint16(r.offset()) }
func (r *U32) Get(d *Device) uint32 { return d.ReadConfigUint32(r.offset()) }

func (d *Device) getRegs(o uint) unsafe.Pointer {
	return unsafe.Pointer(hw.BaseAddress + uintptr(o))
}

// Under PCI, each device has 256 bytes of configuration address space,
// of which the first 64 bytes are standardized as follows:
type ConfigHeader struct {
	DeviceID
	Command
	Status

	Revision U8

	// Distinguishes programming interface for device.
	// For example, different standards for USB controllers.
	SoftwareInterface

	DeviceClass

	CacheSize    uint8
	LatencyTimer uint8

	// If bit 7 of this register is set, the device has multiple functions;
	// otherwise, it is a single function device.
	Tp uint8

	Bist uint8
}

type HeaderType uint8

func (c ConfigHeader) Type() HeaderType {
	return HeaderType(c.Tp &^ (1 << 7))
}

const (
	Normal HeaderType = iota
	Bridge
	CardBus
)

type SoftwareInterface U8

func (x SoftwareInterface) String() string {
	return fmt.Sprintf("0x%02x", uint8(x))
}

type DeviceClass U16

const (
	Undefined        DeviceClass = 0x0000
	Storage_IDE      DeviceClass = 0x0101
	Network_Ethernet DeviceClass = 0x0200
	Display_VGA      DeviceClass = 0x0300
	Bridge_Host      DeviceClass = 0x0600
	Bridge_ISA       DeviceClass = 0x0601
)

func (c DeviceClass) String() string {
	switch c {
	case Undefined:
		return "undefined"
	case Storage_IDE:
		return "ide storage"
	case Network_Ethernet:
		return "ethernet"
	case Display_VGA:
		return "vga display"
	case Bridge_Host:
		return "host bridge"
	case Bridge_ISA:
		return "isa bridge"
	}
	return fmt.Sprintf("0x%04x", uint16(c))
}

func (r *DeviceClass) Get(d *Device) DeviceClass {
	return DeviceClass((*U16)(r).Get(d))
}

type Command U16

const (
	IOEnable Command = 1 << iota
	MemoryEnable
	BusMasterEnable
	SpecialCycles
	WriteInvalidate
	VgaPaletteSnoop
	Parity
	AddressDataStepping
	SERR
	BackToBackWrite
	INTxEmulationDisable
)

func (r *Command) Get(d *Device) Command    { return Command((*U16)(r).Get(d)) }
func (r *Command) Set(d *Device, v Command) { d.WriteConfigUint16((*U16)(r).offset(), uint16(v)) }

type Status U16

func (r *Status) Get(d *Device) Status { return Status((*U16)(r).Get(d)) }

// Device/vendor ID from PCI config space.
type VendorID U16
type VendorDeviceID U16

func (r *VendorID) Get(d *Device) VendorID             { return VendorID((*U16)(r).Get(d)) }
func (r *VendorDeviceID) Get(d *Device) VendorDeviceID { return VendorDeviceID((*U16)(r).Get(d)) }

const (
	Intel VendorID = 0x8086

	// All ones on the data port: no device answers the slot.
	NoVendor VendorID = 0xffff
)

func (d VendorID) String() string       { return fmt.Sprintf("0x%04x", uint16(d)) }
func (d VendorDeviceID) String() string { return fmt.Sprintf("0x%04x", uint16(d)) }

// Vendor/Device pair
type DeviceID struct {
	Vendor VendorID
	Device VendorDeviceID
}

func (d *Device) VendorID() VendorID       { return d.ID.Vendor }
func (d *Device) DeviceID() VendorDeviceID { return d.ID.Device }

type BaseAddressReg U32

func (b BaseAddressReg) IsMem() bool {
	return b&(1<<0) == 0
}

func (b BaseAddressReg) Addr() uint32 {
	return uint32(b &^ 0xf)
}

func (b BaseAddressReg) Valid() bool {
	return b.Addr() != 0
}

func (b BaseAddressReg) String() string {
	if b == 0 {
		return "{}"
	}
	x := uint32(b)
	tp := "mem"
	loc := ""
	if !b.IsMem() {
		tp = "i/o"
	} else {
		switch (x >> 1) & 3 {
		case 0:
			loc = "32-bit "
		case 1:
			loc = "< 1M "
		case 2:
			loc = "64-bit "
		case 3:
			loc = "unknown "
		}
		if x&(1<<3) != 0 {
			loc += "prefetchable "
		}
	}
	return fmt.Sprintf("{%s: %s0x%08x}", tp, loc, b.Addr())
}

func (r *BaseAddressReg) Get(d *Device) BaseAddressReg {
	return BaseAddressReg((*U32)(r).Get(d))
}

/* Header type 0 (normal devices) */
type DeviceConfig struct {
	ConfigHeader

	// Base addresses specify locations in memory or I/O space.
	// Decoded size can be determined by writing a value of 0xffffffff to the register, and reading it back.
	// Only 1 bits are decoded.
	BaseAddressRegs [6]BaseAddressReg

	CardBusCIS U32

	SubID DeviceID

	RomAddress U32

	// Config space offset of start of capability list.
	CapabilityOffset U8
	_                [7]U8

	InterruptLine U8
	InterruptPin  U8
	MinGrant      U8
	MaxLatency    U8
}

func (d *Device) GetDeviceConfig() *DeviceConfig { return (*DeviceConfig)(d.getRegs(0)) }

type BusAddress struct {
	Domain        uint16
	Bus, Slot, Fn uint8
}

func (a BusAddress) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%01x", a.Domain, a.Bus, a.Slot, a.Fn)
}

func (d *Device) String() string {
	return fmt.Sprintf("%s %v %v", &d.Addr, d.VendorID(), d.DeviceID())
}

// Bus gives the platform side of configuration and memory access:
// the index/data port pair and physical window mapping.
type Bus interface {
	PortIO
	// MapResource makes nBytes of device memory at the given bus
	// address addressable as a register window.
	MapResource(base uintptr, nBytes uint) (hw.Mmio, error)
}

type Device struct {
	Addr BusAddress
	ID   DeviceID
	Bus  Bus
	Driver
	DriverDevice
}

// Things a driver must do.
type Driver interface {
	// DeviceMatch is called with each discovered device the driver
	// registered an id for; it returns the driver's device.
	DeviceMatch(d *Device) (i DriverDevice, err error)
}

type DriverDevice interface {
	Init() (err error)
	Interrupt()
}

var (
	driversMutex sync.Mutex
	drivers      map[DeviceID]Driver = make(map[DeviceID]Driver)
)

func setDriver(v Driver, id DeviceID) (err error) {
	driversMutex.Lock()
	defer driversMutex.Unlock()
	if _, exists := drivers[id]; exists {
		err = fmt.Errorf("duplicate registration for device: %v", id)
	} else {
		drivers[id] = v
	}
	return
}

// SetDriver gives a driver for a given list of devices (vendor, device pairs).
func SetDriver(v Driver, args ...interface{}) (err error) {
	var id DeviceID
	for _, a := range args {
		switch b := a.(type) {
		case VendorID:
			id.Vendor = b
		case VendorDeviceID:
			id.Device = b
			setDriver(v, id)
		case DeviceID:
			id = b
			setDriver(v, id)
		case []DeviceID:
			for i := range b {
				setDriver(v, b[i])
			}
		case []VendorDeviceID:
			for i := range b {
				setDriver(v, DeviceID{Vendor: id.Vendor, Device: b[i]})
			}
		}
	}
	return
}

func GetDriver(d DeviceID) Driver {
	driversMutex.Lock()
	defer driversMutex.Unlock()
	return drivers[d]
}
