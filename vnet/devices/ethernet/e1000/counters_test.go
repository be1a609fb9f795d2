// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/platinasystems/e1000/vnet/ip4"

	"testing"
)

func TestHwCounters(t *testing.T) {
	r := new_rig(t, 0x100e, 0, 12)
	r.bind(t)

	for i := 0; i < 3; i++ {
		if err := r.card.Receive(arp_request(ip4.Address{10, 0, 2, 15})); err != nil {
			t.Fatalf("receive %d: %s", i, err)
		}
	}
	r.m.Interrupt()

	got := map[string]uint64{}
	r.m.ForeachHwCounter(func(dev, name string, v uint64) { got[name] = v })

	if got["rx good packets"] != 3 {
		t.Errorf("rx good packets: got %d want 3", got["rx good packets"])
	}
	if want := uint64(3 * 42); got["rx good bytes"] != want {
		t.Errorf("rx good bytes: got %d want %d", got["rx good bytes"], want)
	}
	if got["rx broadcast packets"] != 3 {
		t.Errorf("rx broadcast packets: got %d want 3", got["rx broadcast packets"])
	}

	// The block clears on read; totals must not.
	again := map[string]uint64{}
	r.m.ForeachHwCounter(func(dev, name string, v uint64) { again[name] = v })
	if again["rx good packets"] != 3 {
		t.Errorf("rx good packets after reread: got %d want 3", again["rx good packets"])
	}
}
