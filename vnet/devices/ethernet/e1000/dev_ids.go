// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/e1000/elib/hw/pci"

	"fmt"
)

type dev_id pci.VendorDeviceID

// 8254x family.
const (
	dev_id_82544gc_copper dev_id = 0x100c
	dev_id_82540em        dev_id = 0x100e
	dev_id_82545em_copper dev_id = 0x100f
	dev_id_82546eb_copper dev_id = 0x1010
	dev_id_82545em_fiber  dev_id = 0x1011
	dev_id_82546eb_fiber  dev_id = 0x1012
	dev_id_82541ei        dev_id = 0x1013
	dev_id_82540em_lom    dev_id = 0x1015
	dev_id_82540ep_lom    dev_id = 0x1016
	dev_id_82540ep        dev_id = 0x1017
	dev_id_82547ei        dev_id = 0x1019
	dev_id_82541gi        dev_id = 0x1076
)

var dev_id_names = map[dev_id]string{
	dev_id_82544gc_copper: "82544GC",
	dev_id_82540em:        "82540EM",
	dev_id_82545em_copper: "82545EM copper",
	dev_id_82546eb_copper: "82546EB copper",
	dev_id_82545em_fiber:  "82545EM fiber",
	dev_id_82546eb_fiber:  "82546EB fiber",
	dev_id_82541ei:        "82541EI",
	dev_id_82540em_lom:    "82540EM LOM",
	dev_id_82540ep_lom:    "82540EP LOM",
	dev_id_82540ep:        "82540EP",
	dev_id_82547ei:        "82547EI",
	dev_id_82541gi:        "82541GI",
}

func (d dev_id) String() string {
	if s, ok := dev_id_names[d]; ok {
		return s
	}
	return fmt.Sprintf("0x%04x", uint16(d))
}

// DefaultDeviceIds is the family table registered when Config gives no
// explicit ids.
func DefaultDeviceIds() []pci.VendorDeviceID {
	ids := make([]pci.VendorDeviceID, 0, len(dev_id_names))
	for id := range dev_id_names {
		ids = append(ids, pci.VendorDeviceID(id))
	}
	return ids
}
