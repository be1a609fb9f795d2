// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e1000

import (
	"github.com/jpillora/backoff"
	"github.com/platinasystems/e1000/vnet/ethernet"

	"fmt"
	"time"
)

const (
	eeprom_read_start = 1 << 0
	eeprom_read_done  = 1 << 4
)

// read_eeprom_word reads one 16 bit EEPROM word: start the read with
// the word address in bits [15:8], poll the done bit, take the data
// from bits [31:16].  The poll is bounded by Config.EepromTimeout so
// a dead EEPROM fails initialization instead of hanging it.
func (d *dev) read_eeprom_word(i uint) (v uint16, err error) {
	r := d.regs
	r.eeprom_read.set(d, eeprom_read_start|uint32(i)<<8)

	b := &backoff.Backoff{
		Min:    10 * time.Microsecond,
		Max:    time.Millisecond,
		Factor: 2,
		Jitter: false,
	}
	deadline := time.Now().Add(d.m.EepromTimeout)
	for {
		x := r.eeprom_read.get(d)
		if x&eeprom_read_done != 0 {
			return uint16(x >> 16), nil
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("eeprom word %d: no completion in %s", i, d.m.EepromTimeout)
		}
		time.Sleep(b.Duration())
	}
}

// get_ethernet_address assembles the station address from EEPROM
// words 0-2, low byte of each word first.
func (d *dev) get_ethernet_address() (err error) {
	for i := 0; i < ethernet.AddressBytes/2; i++ {
		var w uint16
		if w, err = d.read_eeprom_word(uint(i)); err != nil {
			return fmt.Errorf("e1000 %s: %s", &d.pciDev.Addr, err)
		}
		d.ethernet_address[2*i+0] = byte(w)
		d.ethernet_address[2*i+1] = byte(w >> 8)
	}
	return
}
