// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ethernet

import (
	"github.com/platinasystems/e1000/vnet"

	"math/rand"
	"unsafe"
)

// Header for ethernet packets as they appear on the network.
type Header struct {
	Dst  Address
	Src  Address
	Type Type
}

// Packet type from ethernet header.
type Type vnet.Uint16

func (h *Header) GetType() Type { return Type(vnet.Uint16(h.Type).ToHost()) }
func (t Type) FromHost() Type   { return Type(vnet.Uint16(t).FromHost()) }

func (h *Header) GetPayload() unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(h)) + unsafe.Sizeof(*h))
}

const (
	AddressBytes = 6
	HeaderBytes  = 14
)

type Address [AddressBytes]byte

var BroadcastAddr = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

const (
	isBroadcast           = 1 << 0
	isLocallyAdministered = 1 << 1
)

func (a *Address) IsBroadcast() bool {
	return a[0]&isBroadcast != 0
}
func (a *Address) IsLocallyAdministered() bool {
	return a[0]&isLocallyAdministered != 0
}
func (a *Address) IsUnicast() bool {
	return !a.IsBroadcast()
}

func (h *Header) IsBroadcast() bool {
	return h.Dst.IsBroadcast()
}
func (h *Header) IsUnicast() bool {
	return !h.Dst.IsBroadcast()
}

func (a *Address) Equal(b Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func RandomAddress() (a Address) {
	for i := range a {
		a[i] = uint8(rand.Int())
	}
	// Make address unicast and locally administered.
	a[0] &^= isBroadcast
	a[0] |= isLocallyAdministered
	return
}

// Implement vnet.PacketHeader interface.
func (h *Header) Len() uint { return HeaderBytes }
func (h *Header) Write(b []byte) {
	type t struct{ data [unsafe.Sizeof(*h)]byte }
	i := (*t)(unsafe.Pointer(h))
	copy(b, i.data[:])
}
func (h *Header) Read(b []byte) vnet.PacketHeader { return (*Header)(vnet.Pointer(b)) }

// GetHeader overlays an ethernet header on the start of b.
func GetHeader(b []byte) *Header { return (*Header)(vnet.Pointer(b)) }
