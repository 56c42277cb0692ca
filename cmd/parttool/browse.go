package main

import (
	"github.com/spf13/cobra"

	"parttool/internal/disk"
	"parttool/internal/part"
	"parttool/internal/tui/browse"
)

func browseCmd() *cobra.Command {
	var (
		strictCRC bool
		noCRC     bool
	)
	cmd := &cobra.Command{
		Use:   "browse <device|image>",
		Short: "interactive partition table viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := disk.Open(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			table, err := part.ReadTable(dev, part.Options{CRC: crcMode(strictCRC, noCRC)})
			if err != nil {
				return err
			}
			return browse.Run(dev, table)
		},
	}
	cmd.Flags().BoolVar(&strictCRC, "strict-crc", false, "treat GPT CRC32 mismatches as errors")
	cmd.Flags().BoolVar(&noCRC, "no-crc", false, "skip GPT CRC32 verification")
	return cmd
}
