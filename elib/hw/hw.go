// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Memory mapped register read/write
package hw

import (
	"fmt"
	"sync/atomic"
	"syscall"
	"unsafe"
)

// Must point to readable memory since compiler may perform
// read probes (nil checks) as part of memory addressing.
var (
	BasePointer = basePointer()
	BaseAddress = uintptr(BasePointer)
)

func basePointer() unsafe.Pointer {
	// ok for all 32 bit devices.
	x, err := syscall.Mmap(0, 0, 1<<32, syscall.PROT_READ, syscall.MAP_PRIVATE|syscall.MAP_ANON|syscall.MAP_NORESERVE)
	if err != nil {
		panic(err)
	}
	return unsafe.Pointer(&x[0])
}

func CheckRegAddr(name string, got, want uint) {
	if got != want {
		panic(fmt.Errorf("%s got 0x%x != want 0x%x", name, got, want))
	}
}

// Memory-mapped read/write.  Addresses must be naturally aligned.
func LoadUint32(addr uintptr) (data uint32) {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}
func StoreUint32(addr uintptr, data uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), data)
}
func LoadUint64(addr uintptr) (data uint64) {
	return atomic.LoadUint64((*uint64)(unsafe.Pointer(addr)))
}
func StoreUint64(addr uintptr, data uint64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(addr)), data)
}

var memoryBarrierCounter uint32

// Full fence: orders descriptor writes before tail register writeback.
func MemoryBarrier() { atomic.AddUint32(&memoryBarrierCounter, 0) }

// Generic 8/16/32 bit registers
type U8 uint8
type U16 uint16
type U32 uint32

// Byte offsets
func (r *U8) Offset() uintptr  { return uintptr(unsafe.Pointer(r)) - BaseAddress }
func (r *U16) Offset() uintptr { return uintptr(unsafe.Pointer(r)) - BaseAddress }
func (r *U32) Offset() uintptr { return uintptr(unsafe.Pointer(r)) - BaseAddress }

func (r *U32) Get(base uintptr) uint32    { return LoadUint32(base + r.Offset()) }
func (r *U32) Set(base uintptr, x uint32) { StoreUint32(base+r.Offset(), x) }

// Mmio is a 32-bit device register window addressed by byte offset.
type Mmio interface {
	Load32(offset uint) uint32
	Store32(offset uint, v uint32)
}

// MmapMem is a register window over mapped device memory.
type MmapMem []byte

func (m MmapMem) Load32(o uint) uint32     { return LoadUint32(uintptr(unsafe.Pointer(&m[o]))) }
func (m MmapMem) Store32(o uint, v uint32) { StoreUint32(uintptr(unsafe.Pointer(&m[o])), v) }
