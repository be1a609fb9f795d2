package ethernet

import (
	"github.com/platinasystems/e1000/elib"
)

const (
	// Types < 0x600 (1536) are LLC packet lengths.
	LLC_LENGTH      Type = 0x600
	XNS_IDP         Type = 0x600
	IP4             Type = 0x800
	ARP             Type = 0x806
	WAKE_ON_LAN     Type = 0x0842
	REVERSE_ARP     Type = 0x8035
	APPLETALK       Type = 0x809B
	APPLETALK_AARP  Type = 0x80F3
	VLAN            Type = 0x8100
	SLPP            Type = 0x8103
	IPX             Type = 0x8137
	IP6             Type = 0x86DD
	MAC_CONTROL     Type = 0x8808
	SLOW_PROTOCOLS  Type = 0x8809
	MPLS_UNICAST    Type = 0x8847
	MPLS_MULTICAST  Type = 0x8848
	PPPOE_DISCOVERY Type = 0x8863
	PPPOE_SESSION   Type = 0x8864
	LLDP            Type = 0x88CC
	LOOPBACK        Type = 0x9000
	VLAN_IN_VLAN    Type = 0x9100
	RESERVED        Type = 0xFFFF
)

var typeStrings = [...]string{
	XNS_IDP:         "XNS_IDP",
	IP4:             "IP4",
	ARP:             "ARP",
	WAKE_ON_LAN:     "WAKE_ON_LAN",
	REVERSE_ARP:     "REVERSE_ARP",
	APPLETALK:       "APPLETALK",
	APPLETALK_AARP:  "APPLETALK_AARP",
	VLAN:            "VLAN",
	SLPP:            "SLPP",
	IPX:             "IPX",
	IP6:             "IP6",
	MAC_CONTROL:     "MAC_CONTROL",
	SLOW_PROTOCOLS:  "SLOW_PROTOCOLS",
	MPLS_UNICAST:    "MPLS_UNICAST",
	MPLS_MULTICAST:  "MPLS_MULTICAST",
	PPPOE_DISCOVERY: "PPPOE_DISCOVERY",
	PPPOE_SESSION:   "PPPOE_SESSION",
	LLDP:            "LLDP",
	LOOPBACK:        "LOOPBACK",
	VLAN_IN_VLAN:    "VLAN_IN_VLAN",
	RESERVED:        "RESERVED",
}

func (t Type) String() string {
	return elib.StringerHex(typeStrings[:], int(t))
}
