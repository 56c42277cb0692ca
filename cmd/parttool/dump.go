package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"parttool/internal/disk"
	"parttool/internal/dump"
)

func dumpCmd() *cobra.Command {
	var (
		lba   uint64
		count uint64
	)
	cmd := &cobra.Command{
		Use:   "dump <device|image> [...]",
		Short: "hex dump raw sectors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := dumpDevice(path, lba, count); err != nil {
					log.Errorf("%v", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&lba, "lba", 0, "first sector to dump")
	cmd.Flags().Uint64Var(&count, "count", 1, "number of sectors")
	return cmd
}

func dumpDevice(path string, lba, count uint64) error {
	dev, err := disk.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Printf("%s:\n", path)
	for s := lba; s < lba+count; s++ {
		sector, err := dev.ReadSector(s)
		if err != nil {
			return err
		}
		dump.Hex(os.Stdout, sector, int64(s)*disk.SectorSize)
	}
	return nil
}
