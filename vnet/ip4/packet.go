// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ip4

import (
	"github.com/platinasystems/e1000/vnet"

	"fmt"
	"unsafe"
)

const (
	AddressBytes = 4
	AddressBits  = 8 * AddressBytes
)

type Address [AddressBytes]uint8

func (a Address) AsUint32() vnet.Uint32     { return *(*vnet.Uint32)(unsafe.Pointer(&a[0])) }
func (a *Address) FromUint32(x vnet.Uint32) { *(*vnet.Uint32)(unsafe.Pointer(&a[0])) = x }
func (a *Address) IsEqual(b *Address) bool  { return a.AsUint32() == b.AsUint32() }
func (a *Address) IsZero() bool             { return a.AsUint32() == 0 }

func (a *Address) String() string { return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3]) }
