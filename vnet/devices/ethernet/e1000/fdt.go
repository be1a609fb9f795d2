// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/e1000/elib/hw/pci"
	"github.com/platinasystems/fdt"

	"fmt"
)

// LoadFdt collects device ids from a flattened device tree: every
// node carrying vendor-id and device-id cells contributes its ids to
// the table discovery binds against.  Non Intel nodes are ignored.
func (c *Config) LoadFdt(b []byte) error {
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err := t.Parse(b); err != nil {
		return fmt.Errorf("e1000: fdt: %s", err)
	}
	t.EachProperty("vendor-id", "", func(n *fdt.Node, name, value string) {
		vb, db := n.Properties["vendor-id"], n.Properties["device-id"]
		if len(vb) < 4 || len(db) < 4 {
			return
		}
		if pci.VendorID(t.PropUint32(vb)) != pci.Intel {
			return
		}
		for _, id := range t.PropUint32Slice(db) {
			c.DeviceIds = append(c.DeviceIds, pci.VendorDeviceID(id))
		}
	})
	return nil
}
