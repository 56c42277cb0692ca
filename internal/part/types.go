package part

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TypeDescriptor is a human-readable (operating system, description) pair
// for a partition type. The registry is immutable after construction.
type TypeDescriptor struct {
	OS          string
	Description string
}

// UnknownType is returned on every registry miss. Absence is representable,
// not an error.
var UnknownType = TypeDescriptor{Description: "Unknown"}

func (d TypeDescriptor) String() string {
	if d.OS == "" {
		return d.Description
	}
	return d.OS + " - " + d.Description
}

// LookupMBRType resolves a legacy MBR type byte.
func LookupMBRType(t byte) TypeDescriptor {
	if d, ok := mbrTypes[t]; ok {
		return d
	}
	return UnknownType
}

// LookupGPTType resolves a GPT type GUID given in canonical textual form
// (any case).
func LookupGPTType(key string) TypeDescriptor {
	if d, ok := gptTypes[strings.ToUpper(key)]; ok {
		return d
	}
	return UnknownType
}

var mbrTypes = map[byte]TypeDescriptor{
	0x01: {"DOS", "FAT12"},
	0x04: {"DOS", "FAT16 16-32MB"},
	0x05: {"DOS", "Extended, CHS"},
	0x06: {"DOS", "FAT16 32MB-2GB"},
	0x07: {"Windows", "NTFS/exFAT"},
	0x0B: {"Windows", "FAT32"},
	0x0C: {"Windows", "FAT32X (LBA)"},
	0x0E: {"Windows", "FAT16X (LBA)"},
	0x0F: {"DOS", "Extended, LBA"},
	0x11: {"DOS", "Hidden FAT12"},
	0x14: {"DOS", "Hidden FAT16 16-32MB"},
	0x16: {"DOS", "Hidden FAT16 32MB-2GB"},
	0x17: {"Windows", "Hidden NTFS"},
	0x1B: {"Windows", "Hidden FAT32"},
	0x1C: {"Windows", "Hidden FAT32X (LBA)"},
	0x1E: {"Windows", "Hidden FAT16X (LBA)"},
	0x27: {"Windows", "Windows recovery environment"},
	0x39: {"Plan 9", "Plan 9"},
	0x42: {"Windows", "Dynamic extended partition marker"},
	0x63: {"Unix", "Unix System V"},
	0x81: {"Minix", "Minix"},
	0x82: {"Linux", "Linux swap"},
	0x83: {"Linux", "Linux"},
	0x84: {"", "Hibernation"},
	0x85: {"Linux", "Linux extended"},
	0x86: {"Windows", "Fault-tolerant FAT16B volume set"},
	0x87: {"Windows", "Fault-tolerant NTFS volume set"},
	0x88: {"Linux", "Linux plaintext"},
	0x8E: {"Linux", "Linux LVM"},
	0x93: {"Linux", "Hidden Linux"},
	0x9F: {"BSD/OS", "BSD/OS"},
	0xA5: {"FreeBSD", "FreeBSD"},
	0xA6: {"OpenBSD", "OpenBSD"},
	0xA8: {"Mac OS X", "Mac OS X"},
	0xA9: {"NetBSD", "NetBSD"},
	0xAB: {"Mac OS X", "Mac OS X boot"},
	0xAF: {"Mac OS X", "Mac OS X HFS"},
	0xBE: {"Solaris", "Solaris 8 boot"},
	0xBF: {"Solaris", "Solaris x86"},
	0xE8: {"Linux", "LUKS"},
	0xEB: {"BeOS", "BFS"},
	0xEE: {"EFI", "GPT protective MBR"},
	0xEF: {"EFI", "EFI system partition"},
	0xFA: {"", "Bochs x86 emulator"},
	0xFB: {"VMware", "VMware file system"},
	0xFC: {"VMware", "VMware swap"},
	0xFD: {"Linux", "Linux RAID"},
}

// The GPT table is declared as a list; buildGPTTypes validates each GUID
// and canonicalizes the key case, which a plain map literal cannot do.
var gptTypeList = []struct {
	GUID, OS, Description string
}{
	{"024DEE41-33E7-11D3-9D69-0008C781F39F", "", "MBR partition scheme"},
	{"C12A7328-F81F-11D2-BA4B-00A0C93EC93B", "EFI", "EFI System Partition"},
	{"21686148-6449-6E6F-744E-656564454649", "BIOS", "BIOS boot partition"},
	{"D3BFE2DE-3DAF-11DF-BA40-E3A556D89593", "Intel", "Intel Fast Flash (iFFS)"},
	{"F4019732-066E-4E12-8273-346C5641494F", "Sony", "Sony boot partition"},
	{"BFBFAFE7-A34F-448A-9A5B-6213EB736C22", "Lenovo", "Lenovo boot partition"},
	{"E3C9E316-0B5C-4DB8-817D-F92DF00215AE", "Windows", "Microsoft Reserved (MSR)"},
	{"EBD0A0A2-B9E5-4433-87C0-68B6B72699C7", "Windows", "Basic data partition"},
	{"5808C8AA-7E8F-42E0-85D2-E1E90434CFB3", "Windows", "LDM metadata partition"},
	{"AF9B60A0-1431-4F62-BC68-3311714A69AD", "Windows", "LDM data partition"},
	{"DE94BBA4-06D1-4D40-A16A-BFD50179D6AC", "Windows", "Windows Recovery Environment"},
	{"37AFFC90-EF7D-4E96-91C3-2D7AE055B174", "IBM", "GPFS partition"},
	{"E75CAF8F-F680-4CEE-AFA3-B001E56EFC2D", "Windows", "Storage Spaces partition"},
	{"0FC63DAF-8483-4772-8E79-3D69D8477DE4", "Linux", "Linux filesystem data"},
	{"A19D880F-05FC-4D3B-A006-743F0F84911E", "Linux", "RAID partition"},
	{"0657FD6D-A4AB-43C4-84E5-0933C84B4F4F", "Linux", "Swap partition"},
	{"E6D6D379-F507-44C2-A23C-238F2A3DF928", "Linux", "LVM partition"},
	{"933AC7E1-2EB4-4F13-B844-0E14E2AEF915", "Linux", "/home partition"},
	{"3B8F8425-20E0-4F3B-907F-1A25A76F98E8", "Linux", "/srv partition"},
	{"7FFEC5C9-2D00-49B7-8941-3EA10A5586B7", "Linux", "Plain dm-crypt partition"},
	{"CA7D7CCB-63ED-4C53-861C-1742536059CC", "Linux", "LUKS partition"},
	{"8DA63339-0007-60C0-C436-083AC8230908", "Linux", "Reserved"},
	{"4F68BCE3-E8CD-4DB1-96E7-FBCAF984B709", "Linux", "Root partition (x86-64)"},
	{"44479540-F297-41B2-9AF7-D131D5F0458A", "Linux", "Root partition (x86)"},
	{"B921B045-1DF0-41C3-AF44-4C6F280D3FAE", "Linux", "Root partition (ARM64)"},
	{"BC13C2FF-59E6-4262-A352-B275FD6F7172", "Linux", "/boot partition"},
	{"83BD6B9D-7F41-11DC-BE0B-001560B84F0F", "FreeBSD", "Boot partition"},
	{"516E7CB4-6ECF-11D6-8FF8-00022D09712B", "FreeBSD", "Data partition"},
	{"516E7CB5-6ECF-11D6-8FF8-00022D09712B", "FreeBSD", "Swap partition"},
	{"516E7CB6-6ECF-11D6-8FF8-00022D09712B", "FreeBSD", "UFS partition"},
	{"516E7CB8-6ECF-11D6-8FF8-00022D09712B", "FreeBSD", "Vinum volume manager"},
	{"516E7CBA-6ECF-11D6-8FF8-00022D09712B", "FreeBSD", "ZFS partition"},
	{"48465300-0000-11AA-AA11-00306543ECAC", "Mac OS X", "HFS+ partition"},
	{"7C3457EF-0000-11AA-AA11-00306543ECAC", "Mac OS X", "APFS container"},
	{"55465300-0000-11AA-AA11-00306543ECAC", "Mac OS X", "Apple UFS"},
	{"52414944-0000-11AA-AA11-00306543ECAC", "Mac OS X", "Apple RAID partition"},
	{"52414944-5F4F-11AA-AA11-00306543ECAC", "Mac OS X", "Apple RAID, offline"},
	{"426F6F74-0000-11AA-AA11-00306543ECAC", "Mac OS X", "Apple boot partition"},
	{"4C616265-6C00-11AA-AA11-00306543ECAC", "Mac OS X", "Apple label"},
	{"5265636F-7665-11AA-AA11-00306543ECAC", "Mac OS X", "Apple TV recovery"},
	{"53746F72-6167-11AA-AA11-00306543ECAC", "Mac OS X", "Core Storage partition"},
	{"6A82CB45-1DD2-11B2-99A6-080020736631", "Solaris", "Boot partition"},
	{"6A85CF4D-1DD2-11B2-99A6-080020736631", "Solaris", "Root partition"},
	{"6A87C46F-1DD2-11B2-99A6-080020736631", "Solaris", "Swap partition"},
	{"6A898CC3-1DD2-11B2-99A6-080020736631", "Solaris", "/usr partition / ZFS"},
	{"6A8B642B-1DD2-11B2-99A6-080020736631", "Solaris", "Backup partition"},
	{"49F48D32-B10E-11DC-B99B-0019D1879648", "NetBSD", "Swap partition"},
	{"49F48D5A-B10E-11DC-B99B-0019D1879648", "NetBSD", "FFS partition"},
	{"49F48D82-B10E-11DC-B99B-0019D1879648", "NetBSD", "LFS partition"},
	{"49F48DAA-B10E-11DC-B99B-0019D1879648", "NetBSD", "RAID partition"},
	{"2DB519C4-B10F-11DC-B99B-0019D1879648", "NetBSD", "Concatenated partition"},
	{"2DB519EC-B10F-11DC-B99B-0019D1879648", "NetBSD", "Encrypted partition"},
	{"FE3A2A5D-4F32-41A7-B725-ACCC3285A309", "ChromeOS", "Kernel"},
	{"3CB8E202-3B7E-47DD-8A3C-7FF2A13CFCEC", "ChromeOS", "Root filesystem"},
	{"2E0A753D-9E48-43B0-8337-B15192CB1B5E", "ChromeOS", "Future use"},
	{"42465331-3BA3-10F1-802A-4861696B7521", "Haiku", "BFS"},
	{"824CC7A0-36A8-11E3-890A-952519AD3F61", "OpenBSD", "Data partition"},
	{"CEF5A9AD-73BC-4601-89F3-CDEEEEE321A1", "QNX", "Power-safe (QNX6) filesystem"},
	{"9E1A2D38-C612-4316-AA26-8B49521E5A8B", "PowerPC", "PReP boot"},
	{"AA31E02A-400F-11DB-9590-000C2911D1B8", "VMware", "VMFS filesystem partition"},
	{"9D275380-40AD-11DB-BF97-000C2911D1B8", "VMware", "vmkcore crash partition"},
	{"381CFCCC-7288-11E0-92EE-000C2911D0B2", "VMware", "VMware Reserved"},
}

// gptTypes is keyed by the canonical uppercase rendering of guid.GUID.
// Construction validates every key and panics on duplicates so key
// uniqueness is deterministic.
var gptTypes = buildGPTTypes()

func buildGPTTypes() map[string]TypeDescriptor {
	m := make(map[string]TypeDescriptor, len(gptTypeList))
	for _, e := range gptTypeList {
		u, err := uuid.Parse(e.GUID)
		if err != nil {
			panic(fmt.Sprintf("bad GPT type GUID %q: %v", e.GUID, err))
		}
		key := strings.ToUpper(u.String())
		if _, dup := m[key]; dup {
			panic(fmt.Sprintf("duplicate GPT type GUID %q", key))
		}
		m[key] = TypeDescriptor{OS: e.OS, Description: e.Description}
	}
	return m
}
