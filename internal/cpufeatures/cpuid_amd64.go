//go:build amd64

package cpufeatures

import "strings"

// cpuid executes the CPUID instruction with the given EAX/ECX inputs.
// Implemented in cpuid_amd64.s.
func cpuid(eaxIn, ecxIn uint32) (eax, ebx, ecx, edx uint32)

// probe implements the CPUID-based feature detection: leaf 0x80000000
// to discover the highest extended leaf, 0x80000007 for the
// invariant-TSC bit, 0x80000001 for the rdtscp bit, 0x80000002..4 for the
// brand string, leaf 0 for the vendor ID, leaf 1 for family/model/stepping.
func probe() Features {
	var f Features

	maxExt, _, _, _ := cpuid(0x80000000, 0)

	_, ebx0, ecx0, edx0 := cpuid(0, 0)
	f.VendorID = leafToString(ebx0, edx0, ecx0)

	if maxExt >= 0x80000007 {
		_, _, _, edx7 := cpuid(0x80000007, 0)
		f.InvariantTSC = edx7&(1<<8) != 0
	}
	if maxExt >= 0x80000001 {
		_, _, _, edx1 := cpuid(0x80000001, 0)
		f.RDTSCP = edx1&(1<<27) != 0
	}
	if maxExt >= 0x80000004 {
		var b strings.Builder
		for leaf := uint32(0x80000002); leaf <= 0x80000004; leaf++ {
			a, bx, cx, dx := cpuid(leaf, 0)
			b.WriteString(leafToString(a, bx, cx, dx))
		}
		f.BrandString = strings.TrimSpace(b.String())
	}

	eax1, _, _, _ := cpuid(1, 0)
	f.Stepping = eax1 & 0xF
	baseFamily := (eax1 >> 8) & 0xF
	baseModel := (eax1 >> 4) & 0xF
	extFamily := (eax1 >> 20) & 0xFF
	extModel := (eax1 >> 16) & 0xF
	f.Family = baseFamily
	if baseFamily == 0xF {
		f.Family = baseFamily + extFamily
	}
	f.Model = baseModel
	if baseFamily == 0x6 || baseFamily == 0xF {
		f.Model = (extModel << 4) | baseModel
	}

	f.ConstantTSC = f.InvariantTSC ||
		(f.VendorID == "GenuineIntel" && f.Family == 0x0F && f.Model >= 0x03) ||
		(f.VendorID == "GenuineIntel" && f.Family == 0x06 && f.Model >= 0x0E) ||
		(f.VendorID == "CentaurHauls" && f.Family == 0x06 && f.Model >= 0x0F)

	return f
}

// leafToString reassembles the given 32-bit CPUID output registers, in
// argument order, into their little-endian ASCII byte representation.
func leafToString(regs ...uint32) string {
	buf := make([]byte, 0, 4*len(regs))
	for _, r := range regs {
		buf = append(buf, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
	}
	return string(buf)
}
