// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/e1000/elib/hw/pci"

	"bytes"
	"encoding/binary"
	"testing"
)

// fdt_builder assembles a minimal flattened device tree blob: header,
// structure block, strings block.
type fdt_builder struct {
	structs bytes.Buffer
	strs    bytes.Buffer
	offsets map[string]uint32
}

func new_fdt_builder() *fdt_builder {
	return &fdt_builder{offsets: make(map[string]uint32)}
}

func (b *fdt_builder) be32(w *bytes.Buffer, v uint32) {
	binary.Write(w, binary.BigEndian, v)
}

func (b *fdt_builder) string_offset(s string) uint32 {
	if o, ok := b.offsets[s]; ok {
		return o
	}
	o := uint32(b.strs.Len())
	b.offsets[s] = o
	b.strs.WriteString(s)
	b.strs.WriteByte(0)
	return o
}

func (b *fdt_builder) begin(name string) {
	b.be32(&b.structs, 1)
	b.structs.WriteString(name)
	b.structs.WriteByte(0)
	for b.structs.Len()%4 != 0 {
		b.structs.WriteByte(0)
	}
}

func (b *fdt_builder) end() { b.be32(&b.structs, 2) }

func (b *fdt_builder) prop(name string, cells ...uint32) {
	b.be32(&b.structs, 3)
	b.be32(&b.structs, uint32(4*len(cells)))
	b.be32(&b.structs, b.string_offset(name))
	for _, c := range cells {
		b.be32(&b.structs, c)
	}
}

func (b *fdt_builder) blob() []byte {
	b.be32(&b.structs, 9)

	var h bytes.Buffer
	struct_off := uint32(40)
	strings_off := struct_off + uint32(b.structs.Len())
	total := strings_off + uint32(b.strs.Len())
	for _, v := range []uint32{
		0xd00dfeed, total, struct_off, strings_off, struct_off,
		17, 16, 0,
		uint32(b.strs.Len()), uint32(b.structs.Len()),
	} {
		b.be32(&h, v)
	}
	return append(append(h.Bytes(), b.structs.Bytes()...), b.strs.Bytes()...)
}

func TestLoadFdt(t *testing.T) {
	b := new_fdt_builder()
	b.begin("")

	b.begin("ethernet@0")
	b.prop("vendor-id", 0x8086)
	b.prop("device-id", 0x100e, 0x100f)
	b.end()

	// Non Intel node: ignored.
	b.begin("virtio@1")
	b.prop("vendor-id", 0x1af4)
	b.prop("device-id", 0x1000)
	b.end()

	// No device-id cells: ignored.
	b.begin("ethernet@2")
	b.prop("vendor-id", 0x8086)
	b.end()

	b.end()

	var c Config
	if err := c.LoadFdt(b.blob()); err != nil {
		t.Fatal(err)
	}
	want := []pci.VendorDeviceID{0x100e, 0x100f}
	if len(c.DeviceIds) != len(want) {
		t.Fatalf("device ids: got %v want %v", c.DeviceIds, want)
	}
	for i := range want {
		if c.DeviceIds[i] != want[i] {
			t.Errorf("device id %d: got %v want %v", i, c.DeviceIds[i], want[i])
		}
	}
}

func TestLoadFdtUnbalanced(t *testing.T) {
	b := new_fdt_builder()
	b.begin("")

	var c Config
	if err := c.LoadFdt(b.blob()); err == nil {
		t.Fatal("unbalanced tree did not fail")
	}
}
