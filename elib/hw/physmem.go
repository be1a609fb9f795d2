// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hw

import (
	"github.com/platinasystems/e1000/elib"

	"fmt"
	"sync"
	"syscall"
)

// DmaHeap is page-granular memory shared with a bus-master device.
// Pages handed out are zeroed and never span a page boundary.
type DmaHeap interface {
	// AllocPage returns one zeroed page and its physical (bus) address.
	AllocPage() (b []byte, p uintptr, err error)
	FreePage(p uintptr) error
	// Virt resolves n bytes at a physical address previously
	// returned by AllocPage.
	Virt(p uintptr, n uint) []byte
	PageBytes() uint
}

// PhysMem is a DmaHeap over one contiguous mapping with physical
// addresses at a fixed offset from virtual.  Hardware models and uio
// style deployments share a single instance between driver and device.
type PhysMem struct {
	mu            sync.Mutex
	data          []byte
	physBase      uintptr
	log2PageBytes uint
	nPages        uint
	nAllocated    uint
	inUse         []elib.Word // bitmap, 1 bit per page
}

// Models use an arbitrary but recognizable bus address base.
const DefaultPhysBase = 0x10000000

func NewPhysMem(nPages, log2PageBytes uint) (m *PhysMem, err error) {
	if nPages == 0 {
		err = fmt.Errorf("physmem: zero pages")
		return
	}
	if log2PageBytes < 7 {
		err = fmt.Errorf("physmem: page size 2^%d too small", log2PageBytes)
		return
	}
	var data []byte
	data, err = syscall.Mmap(0, 0, int(nPages<<log2PageBytes),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		err = fmt.Errorf("physmem: mmap: %s", err)
		return
	}
	m = &PhysMem{
		data:          data,
		physBase:      DefaultPhysBase,
		log2PageBytes: log2PageBytes,
		nPages:        nPages,
		inUse:         make([]elib.Word, (nPages+elib.WordBits-1)/elib.WordBits),
	}
	return
}

func (m *PhysMem) PageBytes() uint { return 1 << m.log2PageBytes }

func (m *PhysMem) AllocPage() (b []byte, p uintptr, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := uint(0); i < m.nPages; i++ {
		w, mask := elib.Word(i).BitmapIndex()
		if m.inUse[w]&mask != 0 {
			continue
		}
		m.inUse[w] |= mask
		m.nAllocated++
		o := i << m.log2PageBytes
		b = m.data[o : o+m.PageBytes()]
		for j := range b {
			b[j] = 0
		}
		p = m.physBase + uintptr(o)
		return
	}
	err = fmt.Errorf("physmem: out of pages (%d allocated)", m.nAllocated)
	return
}

func (m *PhysMem) FreePage(p uintptr) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.pageIndex(p)
	if err != nil {
		return
	}
	w, mask := elib.Word(i).BitmapIndex()
	if m.inUse[w]&mask == 0 {
		return fmt.Errorf("physmem: double free of page at %x", p)
	}
	m.inUse[w] &^= mask
	m.nAllocated--
	return
}

func (m *PhysMem) Virt(p uintptr, n uint) []byte {
	if p < m.physBase {
		panic(fmt.Errorf("physmem: address %x below base", p))
	}
	o := uint(p - m.physBase)
	if o+n > uint(len(m.data)) {
		panic(fmt.Errorf("physmem: address %x size %d out of range", p, n))
	}
	return m.data[o : o+n]
}

func (m *PhysMem) pageIndex(p uintptr) (i uint, err error) {
	if p < m.physBase {
		err = fmt.Errorf("physmem: address %x below base", p)
		return
	}
	o := uint(p - m.physBase)
	if o >= uint(len(m.data)) {
		err = fmt.Errorf("physmem: address %x out of range", p)
		return
	}
	if o&(m.PageBytes()-1) != 0 {
		err = fmt.Errorf("physmem: address %x not page aligned", p)
		return
	}
	i = o >> m.log2PageBytes
	return
}
