package e1000

// Hardware statistics block at 0x4000.  Every register clears on
// read; byte counters are low/high pairs.
type counter struct {
	offset  uint32
	is_pair bool
	name    string
}

const (
	rx_crc_errors = iota
	rx_alignment_errors
	rx_symbol_errors
	rx_errors
	rx_missed_packets
	tx_single_collisions
	tx_excessive_collisions
	tx_multiple_collisions
	tx_late_collisions
	tx_collisions
	tx_defers
	rx_sequence_errors
	rx_length_errors
	rx_xons
	tx_xons
	rx_xoffs
	tx_xoffs
	rx_64_byte_packets
	rx_65_127_byte_packets
	rx_128_255_byte_packets
	rx_256_511_byte_packets
	rx_512_1023_byte_packets
	rx_1024_1522_byte_packets
	rx_good_packets
	rx_broadcast_packets
	rx_multicast_packets
	tx_good_packets
	rx_good_bytes
	tx_good_bytes
	rx_no_buffers
	rx_undersize_packets
	rx_fragments
	rx_oversize_packets
	rx_jabbers
	rx_total_bytes
	tx_total_bytes
	rx_total_packets
	tx_total_packets
	tx_64_byte_packets
	tx_65_127_byte_packets
	tx_128_255_byte_packets
	tx_256_511_byte_packets
	tx_512_1023_byte_packets
	tx_1024_1522_byte_packets
	tx_multicast_packets
	tx_broadcast_packets
	n_counters
)

var counters = [n_counters]counter{
	rx_crc_errors:             counter{offset: 0x4000, name: "rx crc errors"},
	rx_alignment_errors:       counter{offset: 0x4004, name: "rx alignment errors"},
	rx_symbol_errors:          counter{offset: 0x4008, name: "rx symbol errors"},
	rx_errors:                 counter{offset: 0x400c, name: "rx errors"},
	rx_missed_packets:         counter{offset: 0x4010, name: "rx missed packets"},
	tx_single_collisions:      counter{offset: 0x4014, name: "tx single collision packets"},
	tx_excessive_collisions:   counter{offset: 0x4018, name: "tx excessive collision packets"},
	tx_multiple_collisions:    counter{offset: 0x401c, name: "tx multiple collision packets"},
	tx_late_collisions:        counter{offset: 0x4020, name: "tx late collisions"},
	tx_collisions:             counter{offset: 0x4028, name: "tx collisions"},
	tx_defers:                 counter{offset: 0x4030, name: "tx defer events"},
	rx_sequence_errors:        counter{offset: 0x4038, name: "rx sequence errors"},
	rx_length_errors:          counter{offset: 0x4040, name: "rx length errors"},
	rx_xons:                   counter{offset: 0x4048, name: "rx xon frames"},
	tx_xons:                   counter{offset: 0x404c, name: "tx xon frames"},
	rx_xoffs:                  counter{offset: 0x4050, name: "rx xoff frames"},
	tx_xoffs:                  counter{offset: 0x4054, name: "tx xoff frames"},
	rx_64_byte_packets:        counter{offset: 0x405c, name: "rx 64 byte packets"},
	rx_65_127_byte_packets:    counter{offset: 0x4060, name: "rx 65 to 127 byte packets"},
	rx_128_255_byte_packets:   counter{offset: 0x4064, name: "rx 128 to 255 byte packets"},
	rx_256_511_byte_packets:   counter{offset: 0x4068, name: "rx 256 to 511 byte packets"},
	rx_512_1023_byte_packets:  counter{offset: 0x406c, name: "rx 512 to 1023 byte packets"},
	rx_1024_1522_byte_packets: counter{offset: 0x4070, name: "rx 1024 to 1522 byte packets"},
	rx_good_packets:           counter{offset: 0x4074, name: "rx good packets"},
	rx_broadcast_packets:      counter{offset: 0x4078, name: "rx broadcast packets"},
	rx_multicast_packets:      counter{offset: 0x407c, name: "rx multicast packets"},
	tx_good_packets:           counter{offset: 0x4080, name: "tx good packets"},
	rx_good_bytes:             counter{offset: 0x4088, is_pair: true, name: "rx good bytes"},
	tx_good_bytes:             counter{offset: 0x4090, is_pair: true, name: "tx good bytes"},
	rx_no_buffers:             counter{offset: 0x40a0, name: "rx no buffer events"},
	rx_undersize_packets:      counter{offset: 0x40a4, name: "rx undersize packets"},
	rx_fragments:              counter{offset: 0x40a8, name: "rx fragments"},
	rx_oversize_packets:       counter{offset: 0x40ac, name: "rx oversize packets"},
	rx_jabbers:                counter{offset: 0x40b0, name: "rx jabbers"},
	rx_total_bytes:            counter{offset: 0x40c0, is_pair: true, name: "rx total bytes"},
	tx_total_bytes:            counter{offset: 0x40c8, is_pair: true, name: "tx total bytes"},
	rx_total_packets:          counter{offset: 0x40d0, name: "rx total packets"},
	tx_total_packets:          counter{offset: 0x40d4, name: "tx total packets"},
	tx_64_byte_packets:        counter{offset: 0x40d8, name: "tx 64 byte packets"},
	tx_65_127_byte_packets:    counter{offset: 0x40dc, name: "tx 65 to 127 byte packets"},
	tx_128_255_byte_packets:   counter{offset: 0x40e0, name: "tx 128 to 255 byte packets"},
	tx_256_511_byte_packets:   counter{offset: 0x40e4, name: "tx 256 to 511 byte packets"},
	tx_512_1023_byte_packets:  counter{offset: 0x40e8, name: "tx 512 to 1023 byte packets"},
	tx_1024_1522_byte_packets: counter{offset: 0x40ec, name: "tx 1024 to 1522 byte packets"},
	tx_multicast_packets:      counter{offset: 0x40f0, name: "tx multicast packets"},
	tx_broadcast_packets:      counter{offset: 0x40f4, name: "tx broadcast packets"},
}

func (c *counter) get(d *dev) (v uint64) {
	o := uint(c.offset)
	v = uint64(d.mmio.Load32(o))
	if c.is_pair {
		v |= uint64(d.mmio.Load32(o+4)) << 32
	}
	return
}

func (d *dev) foreach_counter(fn func(i uint, v uint64)) {
	for i := range counters {
		// All counters are clear on read; so always add to previous value.
		v := counters[i].get(d)
		if fn != nil {
			fn(uint(i), v)
		}
	}
}

// clear_counters discards anything left over from previous runs.
func (d *dev) clear_counters() {
	d.foreach_counter(nil)
}

// update_counters folds the latest clear on read values into the
// device totals.
func (d *dev) update_counters() {
	d.foreach_counter(func(i uint, v uint64) {
		d.counter_values[i] += v
	})
}

// ForeachHwCounter reports every nonzero statistics total per device.
func (m *main) ForeachHwCounter(fn func(dev, name string, value uint64)) {
	for _, d := range m.devs {
		if d.mmio == nil {
			continue
		}
		d.update_counters()
		for i := range counters {
			if v := d.counter_values[i]; v != 0 {
				fn(d.pciDev.Addr.String(), counters[i].name, v)
			}
		}
	}
}
