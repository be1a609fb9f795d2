// +build 386 amd64 arm arm64

package vnet

func swap16(x uint16) uint16 { return x<<8 | x>>8 }

func swap32(x uint32) uint32 {
	return uint32(swap16(uint16(x)))<<16 | uint32(swap16(uint16(x>>16)))
}

func swap64(x uint64) uint64 {
	return uint64(swap32(uint32(x)))<<32 | uint64(swap32(uint32(x>>32)))
}
