package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"parttool/internal/common"
	"parttool/internal/disk"
	"parttool/internal/dump"
	"parttool/internal/part"
	"parttool/internal/render"
)

func crcMode(strict, off bool) part.CRCMode {
	switch {
	case off:
		return part.CRCOff
	case strict:
		return part.CRCStrict
	default:
		return part.CRCWarn
	}
}

func showCmd() *cobra.Command {
	var (
		strictCRC bool
		noCRC     bool
		noDump    bool
	)
	cmd := &cobra.Command{
		Use:   "show <device|image> [...]",
		Short: "decode and print the partition table of each device",
		Long: `Decode and print the partition table of each device or image file.

The boot sector is hex dumped first, then classified. GPT disks get the
decoded header and the full entry table; MBR disks get the primary table
with logical partitions from any extended chain. A device that cannot be
read or decoded is reported and skipped; the remaining arguments are still
processed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				showDevice(path, crcMode(strictCRC, noCRC), noDump)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strictCRC, "strict-crc", false, "treat GPT CRC32 mismatches as errors")
	cmd.Flags().BoolVar(&noCRC, "no-crc", false, "skip GPT CRC32 verification")
	cmd.Flags().BoolVar(&noDump, "no-dump", false, "suppress the boot sector hex dump")
	return cmd
}

// showDevice handles one argument end to end. Failures are logged, never
// returned: one bad device must not stop the walk over the rest.
func showDevice(path string, crc part.CRCMode, noDump bool) {
	dev, err := disk.Open(path)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	defer dev.Close()

	if !noDump {
		sector, err := dev.ReadSector(0)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		fmt.Printf("%s: boot sector\n", path)
		dump.Hex(os.Stdout, sector, 0)
	}

	table, err := part.ReadTable(dev, part.Options{CRC: crc})
	if err != nil {
		if errors.Is(err, common.ErrInvalidSignature) {
			log.Warnf("%v", err)
		} else {
			log.Errorf("%v", err)
		}
		return
	}

	if table.Scheme == part.SchemeGPT {
		if err := render.GPTHeaderSummary(os.Stdout, table.GPT); err != nil {
			log.Errorf("%s: %v", path, err)
			return
		}
	}
	render.Table(os.Stdout, table)
}
