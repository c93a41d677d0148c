package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-atlas/internal/addrlist"
)

var addressesResolve bool

var addressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "List candidate addresses, optionally checking they geocode",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("addresses"); err != nil {
			return err
		}

		addresses, err := addrlist.Load(cfg.Addresses.Path, cfg.Addresses.Encoding)
		if err != nil {
			return err
		}

		if !addressesResolve {
			for _, a := range addresses {
				fmt.Println(a)
			}
			return nil
		}

		geocoder, cleanup, err := newGeocoder(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		results, err := geocoder.BatchGeocode(cmd.Context(), addresses)
		if err != nil {
			return err
		}

		matched := 0
		for i, r := range results {
			if r.Matched {
				matched++
				fmt.Printf("OK   %-10s %11.6f %12.6f  %s\n", r.Source, r.Latitude, r.Longitude, addresses[i])
			} else {
				fmt.Printf("MISS %s\n", addresses[i])
			}
		}

		zap.L().Info("address resolution check complete",
			zap.Int("total", len(addresses)),
			zap.Int("matched", matched),
		)
		return nil
	},
}

func init() {
	addressesCmd.Flags().BoolVar(&addressesResolve, "resolve", false, "geocode each address and report matches")
	rootCmd.AddCommand(addressesCmd)
}
